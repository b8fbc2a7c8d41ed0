// file: internals/features/learning/attempts/controller/attempt_user_controller.go
package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	validator "github.com/go-playground/validator/v10"

	atdto "bilearning_backend/internals/features/learning/attempts/dto"
	atsvc "bilearning_backend/internals/features/learning/attempts/service"
	"bilearning_backend/internals/features/learning/faults"
	psvc "bilearning_backend/internals/features/learning/powerups/service"
	helper "bilearning_backend/internals/helpers"
)

type AttemptUserController struct {
	Service   *atsvc.AttemptService
	Powerups  *psvc.PowerupService
	validator *validator.Validate
}

func NewAttemptUserController(db *gorm.DB) *AttemptUserController {
	return &AttemptUserController{
		Service:  atsvc.NewAttemptService(db, nil, nil),
		Powerups: psvc.NewPowerupService(db),
	}
}

func (ctl *AttemptUserController) ensureValidator() {
	if ctl.validator == nil {
		ctl.validator = validator.New()
	}
}

/* =========================================================
   POST /api/u/learning/attempts — start attempt
========================================================= */

func (ctl *AttemptUserController) Start(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req atdto.StartAttemptRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	ctl.ensureValidator()
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if req.IsRemedial && req.PassingThreshold == nil {
		return helper.Error(c, fiber.StatusBadRequest, "passing_threshold wajib untuk start remedial")
	}

	in := atsvc.StartAttemptInput{
		AssessmentID: req.AssessmentID,
		UserID:       userID,
		IsRemedial:   req.IsRemedial,
	}
	if req.PassingThreshold != nil {
		in.PassingThreshold = *req.PassingThreshold
	}

	attempt, err := ctl.Service.Start(c.UserContext(), in)
	if err != nil {
		return helper.FromFiberError(c, faults.HTTPError(err))
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Attempt dimulai", fiber.Map{
		"attempt_id": attempt.AssessmentAttemptID,
		"started_at": attempt.AssessmentAttemptStartedAt,
	})
}

/* =========================================================
   PATCH /api/u/learning/attempts/:id/answers — save progress
========================================================= */

func (ctl *AttemptUserController) SaveProgress(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	attemptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "attempt_id tidak valid")
	}

	var req atdto.SaveProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	ctl.ensureValidator()
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	attempt, err := ctl.Service.SaveProgress(c.UserContext(), attemptID, userID, req.Answers)
	if err != nil {
		return helper.FromFiberError(c, faults.HTTPError(err))
	}

	answers, _ := attempt.AnswersMap()
	return helper.Success(c, "Progress tersimpan", fiber.Map{
		"attempt_id":    attempt.AssessmentAttemptID,
		"answers_count": len(answers),
	})
}

/* =========================================================
   POST /api/u/learning/attempts/:id/submit
========================================================= */

func (ctl *AttemptUserController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	attemptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "attempt_id tidak valid")
	}

	var req atdto.SubmitAttemptRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
		}
	}

	res, err := ctl.Service.Submit(c.UserContext(), attemptID, userID, req.Answers)
	if err != nil {
		return helper.FromFiberError(c, faults.HTTPError(err))
	}

	return helper.Success(c, "Attempt disubmit", atdto.NewSubmitResponse(res.Attempt))
}

/* =========================================================
   GET /api/u/learning/attempts/:id — detail + sisa waktu +
   fifty-fifty aktif (buat restore state di client)
========================================================= */

func (ctl *AttemptUserController) GetByID(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	attemptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "attempt_id tidak valid")
	}

	attempt, assessment, err := ctl.Service.GetAttempt(c.UserContext(), attemptID, userID)
	if err != nil {
		return helper.FromFiberError(c, faults.HTTPError(err))
	}

	fifties, err := ctl.Powerups.ActiveFiftyFifties(c.UserContext(), attemptID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	view := atdto.NewAttemptResponse(attempt, assessment, time.Now().UTC(), fifties)
	return helper.Success(c, "OK", view)
}
