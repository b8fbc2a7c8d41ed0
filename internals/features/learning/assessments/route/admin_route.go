// file: internals/features/learning/assessments/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assessmentcontroller "bilearning_backend/internals/features/learning/assessments/controller"
)

func AssessmentAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := assessmentcontroller.NewAssessmentController(db)

	r.Post("/assessments/:id/questions", ctl.CreateQuestion)
}
