// file: internals/features/learning/final_scores/service/final_score_service.go
package service

import (
	"context"
	"log"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	asmodel "bilearning_backend/internals/features/learning/assessments/model"
	atmodel "bilearning_backend/internals/features/learning/attempts/model"
	fsmodel "bilearning_backend/internals/features/learning/final_scores/model"
)

/* =========================================================
   FINAL SCORE AGGREGATOR
   Fungsi murni dari history attempt pada saat dipanggil —
   dijalankan ulang berapa kali pun hasilnya sama (upsert).
========================================================= */

type FinalScoreService struct {
	DB     *gorm.DB
	Policy QuizScorePolicy
}

func NewFinalScoreService(db *gorm.DB) *FinalScoreService {
	return &FinalScoreService{DB: db, Policy: BestAttemptAverage}
}

// ComputeTotal: total_score = round(quiz·(1−w/100) + exam·(w/100)).
func ComputeTotal(quizScore, examScore float64, weightPercentage int) int {
	w := float64(weightPercentage) / 100
	return int(math.Round(quizScore*(1-w) + examScore*w))
}

// Recompute hitung ulang & upsert final score 1 user × 1 course.
func (s *FinalScoreService) Recompute(ctx context.Context, userID, courseID uuid.UUID) (*fsmodel.FinalScoreModel, error) {
	// 1) Assessment quiz & final exam milik course (published saja;
	//    yang belum publish memang tidak mungkin punya attempt)
	var assessments []asmodel.AssessmentModel
	if err := s.DB.WithContext(ctx).
		Where("assessment_course_id = ? AND assessment_is_published = TRUE", courseID).
		Where("assessment_type IN ?", []asmodel.AssessmentType{
			asmodel.AssessmentTypeQuiz, asmodel.AssessmentTypeFinalExam,
		}).
		Find(&assessments).Error; err != nil {
		return nil, err
	}

	quizzes := make([]asmodel.AssessmentModel, 0, len(assessments))
	var finalExam *asmodel.AssessmentModel
	ids := make([]uuid.UUID, 0, len(assessments))
	for i := range assessments {
		ids = append(ids, assessments[i].AssessmentID)
		if assessments[i].IsFinalExam() {
			finalExam = &assessments[i]
		} else {
			quizzes = append(quizzes, assessments[i])
		}
	}

	// 2) Seluruh attempt selesai milik user pada assessment tsb
	var attempts []atmodel.AssessmentAttemptModel
	if len(ids) > 0 {
		if err := s.DB.WithContext(ctx).
			Where("assessment_attempt_user_id = ?", userID).
			Where("assessment_attempt_assessment_id IN ?", ids).
			Where("assessment_attempt_completed_at IS NOT NULL").
			Find(&attempts).Error; err != nil {
			return nil, err
		}
	}

	byAssessment := make(map[uuid.UUID][]atmodel.AssessmentAttemptModel, len(ids))
	for _, a := range attempts {
		byAssessment[a.AssessmentAttemptAssessmentID] = append(byAssessment[a.AssessmentAttemptAssessmentID], a)
	}

	// 3) quiz_score via policy (default: average of best per assessment)
	policy := s.Policy
	if policy == nil {
		policy = BestAttemptAverage
	}
	quizScore := policy(quizzes, byAssessment)

	// 4) final_exam_score = attempt graded terbaik; is_remedial ikut attempt itu
	examScore := 0.0
	isRemedial := false
	weight := 0
	if finalExam != nil {
		if finalExam.AssessmentWeightPercentage != nil {
			weight = *finalExam.AssessmentWeightPercentage
		}
		var best *atmodel.AssessmentAttemptModel
		list := byAssessment[finalExam.AssessmentID]
		for i := range list {
			a := &list[i]
			if !a.AssessmentAttemptIsGraded {
				continue
			}
			if best == nil || AttemptPercent(a) > AttemptPercent(best) {
				best = a
			}
		}
		if best != nil {
			examScore = AttemptPercent(best)
			isRemedial = best.AssessmentAttemptIsRemedial
		}
	}

	row := &fsmodel.FinalScoreModel{
		FinalScoreUserID:         userID,
		FinalScoreCourseID:       courseID,
		FinalScoreQuizScore:      quizScore,
		FinalScoreFinalExamScore: examScore,
		FinalScoreTotalScore:     ComputeTotal(quizScore, examScore, weight),
		FinalScoreIsRemedial:     isRemedial,
	}

	// 5) Upsert on (user, course) — aman dipanggil berulang
	if err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "final_score_user_id"},
				{Name: "final_score_course_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"final_score_quiz_score",
				"final_score_final_exam_score",
				"final_score_total_score",
				"final_score_is_remedial",
				"final_score_updated_at",
			}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}

	log.Printf(
		"[FinalScoreService] Recomputed. user_id=%s course_id=%s quiz=%.2f exam=%.2f total=%d remedial=%v",
		userID, courseID, quizScore, examScore, row.FinalScoreTotalScore, isRemedial,
	)
	return row, nil
}

// Get membaca final score tersimpan; nil kalau belum pernah dihitung.
func (s *FinalScoreService) Get(ctx context.Context, userID, courseID uuid.UUID) (*fsmodel.FinalScoreModel, error) {
	var row fsmodel.FinalScoreModel
	err := s.DB.WithContext(ctx).
		First(&row, "final_score_user_id = ? AND final_score_course_id = ?", userID, courseID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
