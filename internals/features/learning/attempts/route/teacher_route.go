// file: internals/features/learning/attempts/route/teacher_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attemptcontroller "bilearning_backend/internals/features/learning/attempts/controller"
)

// AttemptTeacherRoutes — grading manual & daftar attempt (group admin/teacher).
func AttemptTeacherRoutes(r fiber.Router, db *gorm.DB) {
	ctl := attemptcontroller.NewAttemptTeacherController(db)

	r.Get("/attempts", ctl.List)
	r.Post("/attempts/:id/grades", ctl.GradeEssays)
}
