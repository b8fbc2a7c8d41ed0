// file: internals/features/learning/attempts/service/auto_grader.go
package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	asmodel "bilearning_backend/internals/features/learning/assessments/model"
	"bilearning_backend/internals/constants"
)

/* =========================================================
   AUTO-GRADER
   Dipanggil saat submit & saat grading manual selesai.
   Kontrak penting: TIDAK PERNAH error karena jawaban
   rusak/kosong — jawaban aneh dihitung salah (0 poin)
   supaya submit selalu jalan setelah precondition lolos.
========================================================= */

type GradeOutcome struct {
	Score       float64
	TotalPoints float64
	IsGraded    bool // false kalau masih ada essay tanpa nilai manual
}

// GradeQuestions menilai tiap soal secara independen.
// answers  : dokumen jawaban mentah (key = question_id string)
// overrides: nilai manual essay (key = question_id string)
func GradeQuestions(
	questions []asmodel.AssessmentQuestionModel,
	answers map[string]interface{},
	overrides map[string]float64,
) GradeOutcome {
	out := GradeOutcome{IsGraded: true}

	for _, q := range questions {
		out.TotalPoints += q.AssessmentQuestionPoints
		raw, answered := answers[q.AssessmentQuestionID.String()]

		cfg, err := q.ParseConfig()
		if err != nil {
			// config rusak = soal tidak bisa dinilai otomatis → 0 poin,
			// jangan gagalkan submit
			continue
		}

		switch cfg.Type {
		case asmodel.QuestionTypeMultipleChoice:
			if !answered {
				continue
			}
			if idx, ok := answerAsIndex(raw); ok && idx == cfg.MultipleChoice.CorrectIndex {
				out.Score += q.AssessmentQuestionPoints
			}

		case asmodel.QuestionTypeFillBlank:
			if !answered {
				continue
			}
			if s, ok := raw.(string); ok && cfg.FillBlank.Accepts(s) {
				out.Score += q.AssessmentQuestionPoints
			}

		case asmodel.QuestionTypeEssay:
			ov, has := overrides[q.AssessmentQuestionID.String()]
			if !has {
				// essay belum dinilai guru → skor pending (0), attempt belum graded
				out.IsGraded = false
				continue
			}
			out.Score += ov
		}
	}

	return out
}

// answerAsIndex menoleransi bentuk jawaban dari client:
// angka JSON (float64), json.Number, atau string angka.
func answerAsIndex(raw interface{}) (int, bool) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// ComputePointsAwarded: "mata uang" yang diteruskan ke service gamifikasi.
// Remedial tidak pernah dapat reward.
func ComputePointsAwarded(atype asmodel.AssessmentType, score, totalPoints float64, isRemedial bool) int {
	if isRemedial {
		return 0
	}
	pct := score / math.Max(totalPoints, 1)

	switch atype {
	case asmodel.AssessmentTypePractice:
		return constants.RewardPracticeFlat
	case asmodel.AssessmentTypeQuiz:
		return int(math.Round(constants.RewardQuizBase + constants.RewardQuizBonus*pct))
	case asmodel.AssessmentTypeFinalExam:
		return int(math.Round(constants.RewardFinalExamBase + constants.RewardFinalExamBonus*pct))
	default:
		return 0
	}
}
