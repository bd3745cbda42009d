package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	lpCtl "lmsku_backend/internals/features/lms/learning_paths/controller"
	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
)

// Dipanggil dari LMSAdminRoutes; r sudah diproteksi auth + role admin.
// bulk = limiter khusus aksi massal (boleh nil).
func LearningPathAdminRoutes(r fiber.Router, db *gorm.DB, sel *selSvc.Service, bulk fiber.Handler) {
	ctl := lpCtl.NewLearningPathController(db, sel)

	lp := r.Group("/learning-paths")

	// bulk didaftarkan sebelum /:id
	bulkGroup := lp.Group("/bulk")
	if bulk != nil {
		bulkGroup.Use(bulk)
	}
	bulkGroup.Post("/delete", ctl.BulkDelete)
	bulkGroup.Get("/export", ctl.BulkExport)

	lp.Get("/", ctl.List)
	lp.Post("/", ctl.Create)
	lp.Get("/:id", ctl.Detail)
	lp.Patch("/:id", ctl.Patch)
	lp.Delete("/:id", ctl.Delete)
	lp.Post("/:id/restore", ctl.Restore)

	lp.Post("/:id/items", ctl.AddItem)
	lp.Put("/:id/items/order", ctl.ReorderItems)
	lp.Patch("/:id/items/:item_id", ctl.PatchItem)
	lp.Delete("/:id/items/:item_id", ctl.DeleteItem)
	lp.Post("/:id/items/:item_id/move", ctl.MoveItem)
}
