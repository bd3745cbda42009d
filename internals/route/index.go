// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"lmsku_backend/internals/configs"
	lpSvc "lmsku_backend/internals/features/lms/learning_paths/service"
	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
	authMiddleware "lmsku_backend/internals/middlewares/auth"
	routeDetails "lmsku_backend/internals/route/details"
)

var startTime time.Time

// SetupRoutes memasang semua route; sel = service seleksi yang sudah di-Register.
func SetupRoutes(app *fiber.App, db *gorm.DB, sel *selSvc.Service) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
		authMiddleware.IsLMSAdmin(),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting LMS routes...")
	routeDetails.LMSAdminRoutes(admin, db, sel)
}

// NewSelectionService: store Postgres + daftar list yang bisa diseleksi.
func NewSelectionService(db *gorm.DB) *selSvc.Service {
	sel := selSvc.NewService(selSvc.NewGormStore(db), configs.SelectionTTL)
	sel.Register(lpSvc.ListKey, lpSvc.NewGormSource(db), lpSvc.FilterKeys...)
	return sel
}
