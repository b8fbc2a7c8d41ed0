// file: internals/features/learning/assessments/dto/assessment_dto.go
package dto

import (
	"github.com/google/uuid"

	asmodel "bilearning_backend/internals/features/learning/assessments/model"
)

/* ==========================================================================================
   RESPONSE — VIEW UNTUK MURID
   Kunci jawaban di-strip: multiple_choice cuma kirim daftar opsi,
   fill_blank & essay tanpa config sama sekali.
========================================================================================== */

type AssessmentQuestionStudentView struct {
	QuestionID uuid.UUID                      `json:"question_id"`
	Type       asmodel.AssessmentQuestionType `json:"type"`
	Text       string                         `json:"text"`
	Points     float64                        `json:"points"`
	Order      int                            `json:"order"`
	Options    []string                       `json:"options,omitempty"` // multiple_choice saja
}

type AssessmentStudentView struct {
	AssessmentID     uuid.UUID                       `json:"assessment_id"`
	CourseID         uuid.UUID                       `json:"course_id"`
	LessonID         *uuid.UUID                      `json:"lesson_id,omitempty"`
	Type             asmodel.AssessmentType          `json:"type"`
	Title            string                          `json:"title"`
	MaxScore         float64                         `json:"max_score"`
	AllowRetakes     bool                            `json:"allow_retakes"`
	TimeLimitMinutes *int                            `json:"time_limit_minutes,omitempty"`
	AllowsRemedial   bool                            `json:"allows_remedial"`
	Questions        []AssessmentQuestionStudentView `json:"questions"`
}

func NewAssessmentStudentView(a *asmodel.AssessmentModel, questions []asmodel.AssessmentQuestionModel) *AssessmentStudentView {
	out := &AssessmentStudentView{
		AssessmentID:     a.AssessmentID,
		CourseID:         a.AssessmentCourseID,
		LessonID:         a.AssessmentLessonID,
		Type:             a.AssessmentType,
		Title:            a.AssessmentTitle,
		MaxScore:         a.AssessmentMaxScore,
		AllowRetakes:     a.AssessmentAllowRetakes,
		TimeLimitMinutes: a.AssessmentTimeLimitMinutes,
		AllowsRemedial:   a.AssessmentAllowsRemedial,
		Questions:        make([]AssessmentQuestionStudentView, 0, len(questions)),
	}

	for i := range questions {
		q := &questions[i]
		view := AssessmentQuestionStudentView{
			QuestionID: q.AssessmentQuestionID,
			Type:       q.AssessmentQuestionType,
			Text:       q.AssessmentQuestionText,
			Points:     q.AssessmentQuestionPoints,
			Order:      q.AssessmentQuestionOrder,
		}
		// opsi MC aman ditampilkan; correct_index tidak pernah keluar
		if cfg, err := q.ParseConfig(); err == nil && cfg.MultipleChoice != nil {
			view.Options = cfg.MultipleChoice.Options
		}
		out.Questions = append(out.Questions, view)
	}
	return out
}
