// file: internals/features/learning/assessments/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assessmentcontroller "bilearning_backend/internals/features/learning/assessments/controller"
)

func AssessmentUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := assessmentcontroller.NewAssessmentController(db)

	r.Get("/assessments/:id", ctl.GetForStudent)
}
