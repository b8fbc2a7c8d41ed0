// file: internals/route/index.go
package routes

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bilearning_backend/internals/middlewares"
	routeDetails "bilearning_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up USER group...")
	user := app.Group("/api/u",
		middlewares.AuthJWT(middlewares.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)
	routeDetails.LearningUserRoutes(user, db)

	// ===================== ADMIN / TEACHER =====================
	// NB: penentuan role dilakukan layanan auth di depan; group ini
	// cuma memastikan caller ter-autentikasi.
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a",
		middlewares.AuthJWT(middlewares.AuthJWTOpts{
			Secret:              os.Getenv("JWT_SECRET"),
			AllowCookieFallback: true,
		}),
	)
	routeDetails.LearningAdminRoutes(admin, db)
}
