// file: internals/features/learning/powerups/controller/powerup_user_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	validator "github.com/go-playground/validator/v10"

	"bilearning_backend/internals/features/learning/faults"
	pdto "bilearning_backend/internals/features/learning/powerups/dto"
	psvc "bilearning_backend/internals/features/learning/powerups/service"
	helper "bilearning_backend/internals/helpers"
)

type PowerupUserController struct {
	Service   *psvc.PowerupService
	validator *validator.Validate
}

func NewPowerupUserController(db *gorm.DB) *PowerupUserController {
	return &PowerupUserController{Service: psvc.NewPowerupService(db)}
}

func (ctl *PowerupUserController) ensureValidator() {
	if ctl.validator == nil {
		ctl.validator = validator.New()
	}
}

/* =========================================================
   POST /api/u/learning/attempts/:id/powerups
   fifty_fifty → balikin removed_options (idempotent per soal)
   extra_time  → balikin remaining_seconds baru
========================================================= */

func (ctl *PowerupUserController) Use(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	attemptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "attempt_id tidak valid")
	}

	var req pdto.UsePowerupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	ctl.ensureValidator()
	if err := ctl.validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := ctl.Service.Use(c.UserContext(), psvc.UsePowerupInput{
		AttemptID:  attemptID,
		UserID:     userID,
		PowerupID:  req.PowerupID,
		QuestionID: req.QuestionID,
	})
	if err != nil {
		return helper.FromFiberError(c, faults.HTTPError(err))
	}

	return helper.Success(c, "Powerup dipakai", res)
}
