package route

import (
	"github.com/gofiber/fiber/v2"

	selCtl "lmsku_backend/internals/features/lms/selection_sessions/controller"
	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
)

// Dipanggil dari LMSAdminRoutes; r sudah diproteksi auth + role admin.
func SelectionAdminRoutes(r fiber.Router, svc *selSvc.Service) {
	ctl := selCtl.NewSelectionController(svc)

	sel := r.Group("/selections/:list_key")

	sel.Get("/", ctl.Get)             // state + header (opsional visible_ids)
	sel.Post("/rows", ctl.ToggleRow)  // toggle satu baris
	sel.Post("/page", ctl.TogglePage) // select/deselect halaman
	sel.Post("/all", ctl.SelectAll)   // select all across pages
	sel.Post("/header", ctl.Header)   // state checkbox header
	sel.Delete("/", ctl.Clear)        // clear
}
