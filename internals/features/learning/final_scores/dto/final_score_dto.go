// file: internals/features/learning/final_scores/dto/final_score_dto.go
package dto

import (
	"github.com/google/uuid"

	fsmodel "bilearning_backend/internals/features/learning/final_scores/model"
)

type FinalScoreResponse struct {
	UserID         uuid.UUID `json:"user_id"`
	CourseID       uuid.UUID `json:"course_id"`
	QuizScore      float64   `json:"quiz_score"`
	FinalExamScore float64   `json:"final_exam_score"`
	TotalScore     int       `json:"total_score"`
	IsRemedial     bool      `json:"is_remedial"`
}

func NewFinalScoreResponse(m *fsmodel.FinalScoreModel) *FinalScoreResponse {
	return &FinalScoreResponse{
		UserID:         m.FinalScoreUserID,
		CourseID:       m.FinalScoreCourseID,
		QuizScore:      m.FinalScoreQuizScore,
		FinalExamScore: m.FinalScoreFinalExamScore,
		TotalScore:     m.FinalScoreTotalScore,
		IsRemedial:     m.FinalScoreIsRemedial,
	}
}
