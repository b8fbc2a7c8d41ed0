// file: internals/features/learning/final_scores/service/quiz_policy.go
package service

import (
	"math"

	"github.com/google/uuid"

	asmodel "bilearning_backend/internals/features/learning/assessments/model"
	atmodel "bilearning_backend/internals/features/learning/attempts/model"
)

/* =========================================================
   QUIZ SCORE POLICY
   Cara meringkas banyak assessment quiz jadi satu angka
   course-level sengaja dibikin swappable. Default:
   BestAttemptAverage.
========================================================= */

type QuizScorePolicy func(
	quizzes []asmodel.AssessmentModel,
	attemptsByAssessment map[uuid.UUID][]atmodel.AssessmentAttemptModel,
) float64

// AttemptPercent menormalisasi skor attempt ke 0–100.
func AttemptPercent(a *atmodel.AssessmentAttemptModel) float64 {
	return a.AssessmentAttemptScore / math.Max(a.AssessmentAttemptTotalPoints, 1) * 100
}

// attempt yang boleh menyumbang quiz_score:
// selesai, sudah dinilai penuh, dan bukan remedial
func quizEligible(a *atmodel.AssessmentAttemptModel) bool {
	return a.AssessmentAttemptCompletedAt != nil &&
		a.AssessmentAttemptIsGraded &&
		!a.AssessmentAttemptIsRemedial
}

// BestAttemptAverage: rata-rata (per assessment quiz) dari attempt TERBAIK.
// Assessment tanpa attempt yang memenuhi syarat tidak ikut pembagi.
func BestAttemptAverage(
	quizzes []asmodel.AssessmentModel,
	attemptsByAssessment map[uuid.UUID][]atmodel.AssessmentAttemptModel,
) float64 {
	var sum float64
	var n int

	for _, q := range quizzes {
		best := -1.0
		for i := range attemptsByAssessment[q.AssessmentID] {
			a := &attemptsByAssessment[q.AssessmentID][i]
			if !quizEligible(a) {
				continue
			}
			if p := AttemptPercent(a); p > best {
				best = p
			}
		}
		if best >= 0 {
			sum += best
			n++
		}
	}

	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// LatestAttemptAverage: alternatif — pakai attempt terakhir, bukan terbaik.
func LatestAttemptAverage(
	quizzes []asmodel.AssessmentModel,
	attemptsByAssessment map[uuid.UUID][]atmodel.AssessmentAttemptModel,
) float64 {
	var sum float64
	var n int

	for _, q := range quizzes {
		var latest *atmodel.AssessmentAttemptModel
		for i := range attemptsByAssessment[q.AssessmentID] {
			a := &attemptsByAssessment[q.AssessmentID][i]
			if !quizEligible(a) {
				continue
			}
			if latest == nil || a.AssessmentAttemptCompletedAt.After(*latest.AssessmentAttemptCompletedAt) {
				latest = a
			}
		}
		if latest != nil {
			sum += AttemptPercent(latest)
			n++
		}
	}

	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
