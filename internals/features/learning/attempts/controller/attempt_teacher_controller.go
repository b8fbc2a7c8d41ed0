// file: internals/features/learning/attempts/controller/attempt_teacher_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	validator "github.com/go-playground/validator/v10"

	atdto "bilearning_backend/internals/features/learning/attempts/dto"
	atmodel "bilearning_backend/internals/features/learning/attempts/model"
	atsvc "bilearning_backend/internals/features/learning/attempts/service"
	"bilearning_backend/internals/features/learning/faults"
	helper "bilearning_backend/internals/helpers"
)

type AttemptTeacherController struct {
	DB        *gorm.DB
	Service   *atsvc.AttemptService
	validator *validator.Validate
}

func NewAttemptTeacherController(db *gorm.DB) *AttemptTeacherController {
	return &AttemptTeacherController{
		DB:      db,
		Service: atsvc.NewAttemptService(db, nil, nil),
	}
}

func (ctl *AttemptTeacherController) ensureValidator() {
	if ctl.validator == nil {
		ctl.validator = validator.New()
	}
}

/* =========================================================
   POST /api/a/learning/attempts/:id/grades — nilai essay
   Batch all-or-nothing; regrade idempotent (nilai terakhir menang).
========================================================= */

func (ctl *AttemptTeacherController) GradeEssays(c *fiber.Ctx) error {
	attemptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "attempt_id tidak valid")
	}

	var req atdto.GradeEssayRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	ctl.ensureValidator()
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	grades := make([]atsvc.EssayGradeInput, 0, len(req.Grades))
	for _, g := range req.Grades {
		grades = append(grades, atsvc.EssayGradeInput{QuestionID: g.QuestionID, Points: g.Points})
	}

	res, err := ctl.Service.GradeEssays(c.UserContext(), attemptID, grades)
	if err != nil {
		return helper.FromFiberError(c, faults.HTTPError(err))
	}

	return helper.Success(c, "Nilai essay tersimpan", atdto.NewSubmitResponse(res.Attempt))
}

/* =========================================================
   GET /api/a/learning/attempts?assessment_id=&graded= — list untuk grading
========================================================= */

func (ctl *AttemptTeacherController) List(c *fiber.Ctx) error {
	assessmentID, err := uuid.Parse(c.Query("assessment_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "assessment_id wajib & valid")
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).
		Model(&atmodel.AssessmentAttemptModel{}).
		Where("assessment_attempt_assessment_id = ?", assessmentID).
		Where("assessment_attempt_completed_at IS NOT NULL")

	// ?graded=false → cuma yang masih nunggu nilai essay
	if g := c.Query("graded"); g != "" {
		q = q.Where("assessment_attempt_is_graded = ?", g == "true")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	var rows []atmodel.AssessmentAttemptModel
	if err := q.
		Order("assessment_attempt_completed_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&rows).Error; err != nil {
		return helper.FromFiberError(c, err)
	}

	return helper.Success(c, "OK", fiber.Map{
		"attempts":   rows,
		"pagination": helper.BuildPagination(paging, total, len(rows)),
	})
}
