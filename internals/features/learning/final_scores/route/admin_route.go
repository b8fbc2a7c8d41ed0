// file: internals/features/learning/final_scores/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	finalscorecontroller "bilearning_backend/internals/features/learning/final_scores/controller"
)

func FinalScoreAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := finalscorecontroller.NewFinalScoreController(db)

	r.Post("/final-scores/:user_id/:course_id/recompute", ctl.Recompute)
}
