// file: internals/features/learning/assessments/dto/assessment_question_dto.go
package dto

import (
	"encoding/json"

	"gorm.io/datatypes"

	asmodel "bilearning_backend/internals/features/learning/assessments/model"
)

/* ==========================================================================================
   REQUEST — AUTHORING SOAL (guru/admin)
   Ini pintu masuk codec answer_config saat authoring.
========================================================================================== */

type CreateAssessmentQuestionRequest struct {
	Type   asmodel.AssessmentQuestionType `json:"type" validate:"required,oneof=multiple_choice fill_blank essay"`
	Text   string                         `json:"text" validate:"required"`
	Points float64                        `json:"points" validate:"required,gte=1"`
	Order  int                            `json:"order" validate:"required,gte=1"`

	// bentuknya tergantung Type; divalidasi codec, bukan validator
	AnswerConfig json.RawMessage `json:"answer_config"`
}

// ToModel memvalidasi answer_config via codec lalu membentuk model.
func (r *CreateAssessmentQuestionRequest) ToModel(assessment *asmodel.AssessmentModel) (*asmodel.AssessmentQuestionModel, error) {
	cfg, err := asmodel.ParseAnswerConfig(r.Type, r.AnswerConfig)
	if err != nil {
		return nil, err
	}
	stored, err := cfg.ToJSON()
	if err != nil {
		return nil, err
	}

	return &asmodel.AssessmentQuestionModel{
		AssessmentQuestionAssessmentID: assessment.AssessmentID,
		AssessmentQuestionType:         r.Type,
		AssessmentQuestionText:         r.Text,
		AssessmentQuestionPoints:       r.Points,
		AssessmentQuestionOrder:        r.Order,
		AssessmentQuestionAnswerConfig: datatypes.JSON(stored),
	}, nil
}
