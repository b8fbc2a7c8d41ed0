// file: internals/features/learning/assessments/model/assessment_question_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssessmentQuestionType string

const (
	QuestionTypeMultipleChoice AssessmentQuestionType = "multiple_choice"
	QuestionTypeFillBlank      AssessmentQuestionType = "fill_blank"
	QuestionTypeEssay          AssessmentQuestionType = "essay"
)

type AssessmentQuestionModel struct {
	AssessmentQuestionID           uuid.UUID              `gorm:"column:assessment_question_id;type:uuid;primaryKey;default:gen_random_uuid()" json:"assessment_question_id"`
	AssessmentQuestionAssessmentID uuid.UUID              `gorm:"column:assessment_question_assessment_id;type:uuid;not null;uniqueIndex:uq_assessment_question_order" json:"assessment_question_assessment_id"`
	AssessmentQuestionType         AssessmentQuestionType `gorm:"column:assessment_question_type;type:varchar(16);not null" json:"assessment_question_type"`
	AssessmentQuestionText         string                 `gorm:"column:assessment_question_text;type:text;not null" json:"assessment_question_text"`

	// Bentuk config tergantung tipe soal (lihat answer_config.go);
	// tag union = assessment_question_type.
	AssessmentQuestionAnswerConfig datatypes.JSON `gorm:"column:assessment_question_answer_config;type:jsonb" json:"assessment_question_answer_config,omitempty"`

	AssessmentQuestionPoints float64 `gorm:"column:assessment_question_points;type:numeric(6,2);not null;default:1" json:"assessment_question_points"`

	// Urutan tampil, unik ascending per assessment
	AssessmentQuestionOrder int `gorm:"column:assessment_question_order;not null;uniqueIndex:uq_assessment_question_order" json:"assessment_question_order"`

	AssessmentQuestionCreatedAt time.Time      `gorm:"column:assessment_question_created_at;autoCreateTime" json:"assessment_question_created_at"`
	AssessmentQuestionUpdatedAt time.Time      `gorm:"column:assessment_question_updated_at;autoUpdateTime" json:"assessment_question_updated_at"`
	AssessmentQuestionDeletedAt gorm.DeletedAt `gorm:"column:assessment_question_deleted_at" json:"assessment_question_deleted_at,omitempty"`
}

func (AssessmentQuestionModel) TableName() string { return "assessment_questions" }

func (m *AssessmentQuestionModel) IsEssay() bool {
	return m.AssessmentQuestionType == QuestionTypeEssay
}

// ParseConfig memvalidasi ulang config JSONB sesuai tipe soal.
func (m *AssessmentQuestionModel) ParseConfig() (*AnswerConfig, error) {
	return ParseAnswerConfig(m.AssessmentQuestionType, []byte(m.AssessmentQuestionAnswerConfig))
}
