package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	lpRoute "lmsku_backend/internals/features/lms/learning_paths/route"
	selRoute "lmsku_backend/internals/features/lms/selection_sessions/route"
	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
	"lmsku_backend/internals/middlewares"
)

// LMSAdminRoutes: semua route admin LMS di bawah /api/a
func LMSAdminRoutes(admin fiber.Router, db *gorm.DB, sel *selSvc.Service) {
	lpRoute.LearningPathAdminRoutes(admin, db, sel, middlewares.BulkRateLimiter())
	selRoute.SelectionAdminRoutes(admin, sel)
}
