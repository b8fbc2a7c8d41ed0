// file: internals/features/learning/powerups/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	powerupcontroller "bilearning_backend/internals/features/learning/powerups/controller"
)

func PowerupUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := powerupcontroller.NewPowerupUserController(db)

	r.Post("/attempts/:id/powerups", ctl.Use)
}
