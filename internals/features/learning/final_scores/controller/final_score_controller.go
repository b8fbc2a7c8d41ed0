// file: internals/features/learning/final_scores/controller/final_score_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	fsdto "bilearning_backend/internals/features/learning/final_scores/dto"
	fssvc "bilearning_backend/internals/features/learning/final_scores/service"
	helper "bilearning_backend/internals/helpers"
)

type FinalScoreController struct {
	Service *fssvc.FinalScoreService
}

func NewFinalScoreController(db *gorm.DB) *FinalScoreController {
	return &FinalScoreController{Service: fssvc.NewFinalScoreService(db)}
}

/* =========================================================
   GET /api/u/learning/final-scores/:course_id
========================================================= */

func (ctl *FinalScoreController) GetMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "course_id tidak valid")
	}

	row, err := ctl.Service.Get(c.UserContext(), userID, courseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if row == nil {
		return helper.Success(c, "Belum ada final score", nil)
	}
	return helper.Success(c, "OK", fsdto.NewFinalScoreResponse(row))
}

/* =========================================================
   POST /api/a/learning/final-scores/:user_id/:course_id/recompute
   Idempotent — aman dipanggil berulang (mis. setelah koreksi data).
========================================================= */

func (ctl *FinalScoreController) Recompute(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "user_id tidak valid")
	}
	courseID, err := uuid.Parse(c.Params("course_id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "course_id tidak valid")
	}

	row, err := ctl.Service.Recompute(c.UserContext(), userID, courseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Final score dihitung ulang", fsdto.NewFinalScoreResponse(row))
}
