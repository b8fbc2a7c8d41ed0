// file: internals/features/learning/assessments/controller/assessment_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	validator "github.com/go-playground/validator/v10"

	asdto "bilearning_backend/internals/features/learning/assessments/dto"
	asmodel "bilearning_backend/internals/features/learning/assessments/model"
	"bilearning_backend/internals/features/learning/faults"
	helper "bilearning_backend/internals/helpers"
)

type AssessmentController struct {
	DB        *gorm.DB
	validator *validator.Validate
}

func NewAssessmentController(db *gorm.DB) *AssessmentController {
	return &AssessmentController{DB: db}
}

func (ctl *AssessmentController) ensureValidator() {
	if ctl.validator == nil {
		ctl.validator = validator.New()
	}
}

/* =========================================================
   GET /api/u/learning/assessments/:id
   View murid: soal terurut, kunci jawaban di-strip.
========================================================= */

func (ctl *AssessmentController) GetForStudent(c *fiber.Ctx) error {
	assessmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "assessment_id tidak valid")
	}

	var assessment asmodel.AssessmentModel
	err = ctl.DB.WithContext(c.UserContext()).
		First(&assessment, "assessment_id = ? AND assessment_is_published = TRUE", assessmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Assessment tidak ditemukan / belum dipublish")
		}
		return helper.FromFiberError(c, err)
	}

	var questions []asmodel.AssessmentQuestionModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("assessment_question_assessment_id = ?", assessmentID).
		Order("assessment_question_order ASC").
		Find(&questions).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "OK", asdto.NewAssessmentStudentView(&assessment, questions))
}

/* =========================================================
   POST /api/a/learning/assessments/:id/questions
   Authoring soal — codec answer_config jalan di sini.
========================================================= */

func (ctl *AssessmentController) CreateQuestion(c *fiber.Ctx) error {
	assessmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "assessment_id tidak valid")
	}

	var req asdto.CreateAssessmentQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	ctl.ensureValidator()
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var assessment asmodel.AssessmentModel
	err = ctl.DB.WithContext(c.UserContext()).
		First(&assessment, "assessment_id = ?", assessmentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Assessment tidak ditemukan")
		}
		return helper.FromFiberError(c, err)
	}

	question, err := req.ToModel(&assessment)
	if err != nil {
		return helper.FromFiberError(c, faults.HTTPError(err))
	}

	if err := ctl.DB.WithContext(c.UserContext()).Create(question).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Soal dibuat", question)
}
