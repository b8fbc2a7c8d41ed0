// file: internals/features/learning/assessments/model/assessment_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bilearning_backend/internals/constants"
)

/* =========================================================
   ASSESSMENT
   Row-nya di-author oleh guru/admin (di luar engine ini);
   engine attempt memperlakukannya read-only.
========================================================= */

type AssessmentType string

const (
	AssessmentTypePractice  AssessmentType = "practice"
	AssessmentTypeQuiz      AssessmentType = "quiz"
	AssessmentTypeFinalExam AssessmentType = "final_exam"
)

type AssessmentModel struct {
	AssessmentID       uuid.UUID      `gorm:"column:assessment_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"assessment_id"`
	AssessmentCourseID uuid.UUID      `gorm:"column:assessment_course_id;type:uuid;not null;index" json:"assessment_course_id"`
	AssessmentLessonID *uuid.UUID     `gorm:"column:assessment_lesson_id;type:uuid" json:"assessment_lesson_id,omitempty"`
	AssessmentType     AssessmentType `gorm:"column:assessment_type;type:varchar(16);not null" json:"assessment_type"`
	AssessmentTitle    string         `gorm:"column:assessment_title;type:varchar(160);not null" json:"assessment_title"`

	AssessmentMaxScore     float64 `gorm:"column:assessment_max_score;type:numeric(8,2);not null;default:100" json:"assessment_max_score"`
	AssessmentAllowRetakes bool    `gorm:"column:assessment_allow_retakes;not null;default:false" json:"assessment_allow_retakes"`

	// NULL = tanpa batas waktu
	AssessmentTimeLimitMinutes *int `gorm:"column:assessment_time_limit_minutes" json:"assessment_time_limit_minutes,omitempty"`

	AssessmentIsPublished    bool `gorm:"column:assessment_is_published;not null;default:false" json:"assessment_is_published"`
	AssessmentAllowsRemedial bool `gorm:"column:assessment_allows_remedial;not null;default:false" json:"assessment_allows_remedial"`

	// Hanya bermakna untuk final_exam (51–100); NULL untuk tipe lain
	AssessmentWeightPercentage *int `gorm:"column:assessment_weight_percentage" json:"assessment_weight_percentage,omitempty"`

	AssessmentCreatedAt time.Time      `gorm:"column:assessment_created_at;autoCreateTime" json:"assessment_created_at"`
	AssessmentUpdatedAt time.Time      `gorm:"column:assessment_updated_at;autoUpdateTime" json:"assessment_updated_at"`
	AssessmentDeletedAt gorm.DeletedAt `gorm:"column:assessment_deleted_at" json:"assessment_deleted_at,omitempty"`
}

func (AssessmentModel) TableName() string { return "assessments" }

// ------------------------
// Helpers
// ------------------------

func (m *AssessmentModel) IsFinalExam() bool { return m.AssessmentType == AssessmentTypeFinalExam }
func (m *AssessmentModel) IsQuiz() bool      { return m.AssessmentType == AssessmentTypeQuiz }
func (m *AssessmentModel) IsPractice() bool  { return m.AssessmentType == AssessmentTypePractice }

// PowerupsAllowed: powerup cuma untuk practice/quiz yang sudah publish.
// Final exam tidak pernah dapat powerup.
func (m *AssessmentModel) PowerupsAllowed() bool {
	if !m.AssessmentIsPublished {
		return false
	}
	return m.IsPractice() || m.IsQuiz()
}

// WeightValid: weight wajib NULL kecuali final_exam (range 51–100).
func (m *AssessmentModel) WeightValid() bool {
	if !m.IsFinalExam() {
		return m.AssessmentWeightPercentage == nil
	}
	if m.AssessmentWeightPercentage == nil {
		return false
	}
	w := *m.AssessmentWeightPercentage
	return w >= constants.FinalExamWeightMin && w <= constants.FinalExamWeightMax
}
