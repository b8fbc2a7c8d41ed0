// file: internals/route/details/learning_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assessmentroute "bilearning_backend/internals/features/learning/assessments/route"
	attemptroute "bilearning_backend/internals/features/learning/attempts/route"
	finalscoreroute "bilearning_backend/internals/features/learning/final_scores/route"
	poweruproute "bilearning_backend/internals/features/learning/powerups/route"
)

// LearningUserRoutes: semua endpoint murid (group /api/u, sudah lewat AuthJWT).
func LearningUserRoutes(r fiber.Router, db *gorm.DB) {
	g := r.Group("/learning")

	assessmentroute.AssessmentUserRoutes(g, db)
	attemptroute.AttemptUserRoutes(g, db)
	poweruproute.PowerupUserRoutes(g, db)
	finalscoreroute.FinalScoreUserRoutes(g, db)
}

// LearningAdminRoutes: endpoint guru/admin (group /api/a).
func LearningAdminRoutes(r fiber.Router, db *gorm.DB) {
	g := r.Group("/learning")

	assessmentroute.AssessmentAdminRoutes(g, db)
	attemptroute.AttemptTeacherRoutes(g, db)
	finalscoreroute.FinalScoreAdminRoutes(g, db)
}
