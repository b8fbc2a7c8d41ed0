package constants

// ==========================
// ✅ Reward points (dikirim ke service gamifikasi, bukan di-apply di sini)
// ==========================
const (
	// practice: reward flat, tidak tergantung skor
	RewardPracticeFlat = 150

	// quiz: base + bonus proporsional skor (0–100)
	RewardQuizBase  = 200
	RewardQuizBonus = 100

	// final exam: base + bonus proporsional skor (0–600)
	RewardFinalExamBase  = 400
	RewardFinalExamBonus = 600
)

// ==========================
// ✅ Batas bobot final exam terhadap nilai akhir course
// ==========================
const (
	FinalExamWeightMin = 51
	FinalExamWeightMax = 100
)
