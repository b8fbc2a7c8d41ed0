// file: internals/features/learning/attempts/dto/attempt_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	asmodel "bilearning_backend/internals/features/learning/assessments/model"
	atmodel "bilearning_backend/internals/features/learning/attempts/model"
)

/* ==========================================================================================
   REQUEST — START
========================================================================================== */

type StartAttemptRequest struct {
	AssessmentID uuid.UUID `json:"assessment_id" validate:"required"`

	// Start remedial: wajib sertakan ambang lulus (persen)
	IsRemedial       bool     `json:"is_remedial"`
	PassingThreshold *float64 `json:"passing_threshold" validate:"omitempty,gt=0,lte=100"`
}

/* ==========================================================================================
   REQUEST — SAVE PROGRESS (PATCH, merge key-per-key)
========================================================================================== */

type SaveProgressRequest struct {
	// key = question_id, value = jawaban mentah
	Answers map[string]interface{} `json:"answers" validate:"required,min=1"`
}

/* ==========================================================================================
   REQUEST — SUBMIT
========================================================================================== */

type SubmitAttemptRequest struct {
	// Opsional: jawaban final yang belum sempat tersimpan via save progress
	Answers map[string]interface{} `json:"answers"`
}

/* ==========================================================================================
   REQUEST — MANUAL GRADING (batch, all-or-nothing)
========================================================================================== */

type EssayGradeEntry struct {
	QuestionID uuid.UUID `json:"question_id" validate:"required"`
	Points     float64   `json:"points" validate:"gte=0"`
}

type GradeEssayRequest struct {
	Grades []EssayGradeEntry `json:"grades" validate:"required,min=1,dive"`
}

/* ==========================================================================================
   RESPONSE
========================================================================================== */

type AttemptResponse struct {
	AttemptID    uuid.UUID `json:"attempt_id"`
	AssessmentID uuid.UUID `json:"assessment_id"`
	UserID       uuid.UUID `json:"user_id"`

	Answers map[string]interface{} `json:"answers,omitempty"`

	Score         float64 `json:"score"`
	TotalPoints   float64 `json:"total_points"`
	PointsAwarded int     `json:"points_awarded"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	IsGraded   bool `json:"is_graded"`
	IsRemedial bool `json:"is_remedial"`
	IsExpired  bool `json:"is_expired"`

	// nil = untimed
	RemainingSeconds *int `json:"remaining_seconds,omitempty"`

	// question_id → index opsi yang disembunyikan fifty-fifty
	RemovedOptions map[string][]int `json:"removed_options,omitempty"`
}

func NewAttemptResponse(
	m *atmodel.AssessmentAttemptModel,
	assessment *asmodel.AssessmentModel,
	now time.Time,
	removedOptions map[string][]int,
) *AttemptResponse {
	answers, _ := m.AnswersMap()

	return &AttemptResponse{
		AttemptID:        m.AssessmentAttemptID,
		AssessmentID:     m.AssessmentAttemptAssessmentID,
		UserID:           m.AssessmentAttemptUserID,
		Answers:          answers,
		Score:            m.AssessmentAttemptScore,
		TotalPoints:      m.AssessmentAttemptTotalPoints,
		PointsAwarded:    m.AssessmentAttemptPointsAwarded,
		StartedAt:        m.AssessmentAttemptStartedAt,
		CompletedAt:      m.AssessmentAttemptCompletedAt,
		IsGraded:         m.AssessmentAttemptIsGraded,
		IsRemedial:       m.AssessmentAttemptIsRemedial,
		IsExpired:        m.IsOpen() && m.IsExpired(now, assessment.AssessmentTimeLimitMinutes),
		RemainingSeconds: m.RemainingSeconds(now, assessment.AssessmentTimeLimitMinutes),
		RemovedOptions:   removedOptions,
	}
}

// SubmitResponse: hasil submit / grading — skor + status graded.
type SubmitResponse struct {
	AttemptID     uuid.UUID `json:"attempt_id"`
	Score         float64   `json:"score"`
	TotalPoints   float64   `json:"total_points"`
	IsGraded      bool      `json:"is_graded"`
	PointsAwarded int       `json:"points_awarded"`
}

func NewSubmitResponse(m *atmodel.AssessmentAttemptModel) *SubmitResponse {
	return &SubmitResponse{
		AttemptID:     m.AssessmentAttemptID,
		Score:         m.AssessmentAttemptScore,
		TotalPoints:   m.AssessmentAttemptTotalPoints,
		IsGraded:      m.AssessmentAttemptIsGraded,
		PointsAwarded: m.AssessmentAttemptPointsAwarded,
	}
}
