// file: internals/features/lms/learning_paths/controller/learning_path_bulk_controller.go
package controller

import (
	"bytes"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	lpSvc "lmsku_backend/internals/features/lms/learning_paths/service"
	"lmsku_backend/internals/features/lms/selection"
	helper "lmsku_backend/internals/helpers"
)

// POST /learning-paths/bulk/delete?<filter>
// Target = seleksi milik caller untuk list learning_paths dengan filter yang sama.
func (h *LearningPathController) BulkDelete(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	f, err := lpSvc.ParseFilter(c.Queries())
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var (
		n        int64
		all      bool
		expected int
	)
	err = h.Sel.Consume(helper.ReqCtx(c), ownerID, lpSvc.ListKey, f, func(t selection.Targets, exp int) error {
		all, expected = t.All, exp
		deleted, err := h.softDeleteTargets(helper.ReqCtx(c), h.DB, t, f)
		if err != nil {
			return mapWriteErr(err, "Gagal menghapus learning path")
		}
		n = deleted
		return nil
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	log.Printf("[LEARNING_PATH] bulk delete owner=%s all=%v deleted=%d expected=%d", ownerID, all, n, expected)

	return helper.JsonDeleted(c, fmt.Sprintf("%d learning path dihapus", n), fiber.Map{
		"deleted":  n,
		"expected": expected,
	})
}

// GET /learning-paths/bulk/export?<filter> → text/csv
// Seleksi di atas ExportHardCap ditolak 413 dan seleksi tetap utuh.
func (h *LearningPathController) BulkExport(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	f, err := lpSvc.ParseFilter(c.Queries())
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var buf bytes.Buffer
	err = h.Sel.Consume(helper.ReqCtx(c), ownerID, lpSvc.ListKey, f, func(t selection.Targets, expected int) error {
		if expected > lpSvc.ExportHardCap {
			return lpSvc.ExportTooLarge(expected)
		}
		rows, err := h.findTargets(helper.ReqCtx(c), h.DB, t, f)
		if err != nil {
			return mapWriteErr(err, "Gagal mengambil data export")
		}
		return lpSvc.WriteCSV(&buf, rows)
	})
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	name := fmt.Sprintf("learning-paths-%s.csv", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
