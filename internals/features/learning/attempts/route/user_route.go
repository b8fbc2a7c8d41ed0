// file: internals/features/learning/attempts/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attemptcontroller "bilearning_backend/internals/features/learning/attempts/controller"
)

// AttemptUserRoutes — dipasang di group user (sudah lewat AuthJWT).
func AttemptUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := attemptcontroller.NewAttemptUserController(db)

	r.Post("/attempts", ctl.Start)
	r.Get("/attempts/:id", ctl.GetByID)
	r.Patch("/attempts/:id/answers", ctl.SaveProgress)
	r.Post("/attempts/:id/submit", ctl.Submit)
}
