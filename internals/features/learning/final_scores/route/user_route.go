// file: internals/features/learning/final_scores/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	finalscorecontroller "bilearning_backend/internals/features/learning/final_scores/controller"
)

func FinalScoreUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := finalscorecontroller.NewFinalScoreController(db)

	r.Get("/final-scores/:course_id", ctl.GetMine)
}
