// file: internals/features/lms/selection_sessions/controller/selection_session_controller.go
package controller

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	selDTO "lmsku_backend/internals/features/lms/selection_sessions/dto"
	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
	helper "lmsku_backend/internals/helpers"
)

type SelectionController struct {
	Svc *selSvc.Service
}

func NewSelectionController(svc *selSvc.Service) *SelectionController {
	return &SelectionController{Svc: svc}
}

var validateSelection = validator.New()

/* ================= Helpers ================= */

// who + list + filter (dari query string) untuk setiap request
func (h *SelectionController) scope(c *fiber.Ctx) (uuid.UUID, string, selSvc.Filter, error) {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return uuid.Nil, "", nil, err
	}
	listKey := strings.TrimSpace(c.Params("list_key"))
	if listKey == "" {
		return uuid.Nil, "", nil, fiber.NewError(fiber.StatusBadRequest, "list_key wajib diisi")
	}
	f, err := h.Svc.FilterFor(listKey, c.Queries())
	if err != nil {
		return uuid.Nil, "", nil, err
	}
	return ownerID, listKey, f, nil
}

// visibleFromQuery: batas sama dengan body (MaxVisibleIDs), lebih → 422.
func visibleFromQuery(c *fiber.Ctx) ([]string, error) {
	raw := strings.TrimSpace(c.Query("visible_ids"))
	if raw == "" {
		return nil, nil
	}
	out := make([]string, 0, 16)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) > selDTO.MaxVisibleIDs {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity,
			fmt.Sprintf("visible_ids maksimal %d id", selDTO.MaxVisibleIDs))
	}
	return out, nil
}

/* ================= Handlers ================= */

// GET /selections/:list_key?visible_ids=a,b,c&<filter>
func (h *SelectionController) Get(c *fiber.Ctx) error {
	ownerID, listKey, f, err := h.scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	visible, err := visibleFromQuery(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sess, err := h.Svc.Get(helper.ReqCtx(c), ownerID, listKey, f)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "OK", selDTO.NewSelectionResponse(sess, visible))
}

// POST /selections/:list_key/rows
func (h *SelectionController) ToggleRow(c *fiber.Ctx) error {
	ownerID, listKey, f, err := h.scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req selDTO.ToggleRowRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.ID = strings.TrimSpace(req.ID)
	if err := validateSelection.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	sess, err := h.Svc.ToggleRow(helper.ReqCtx(c), ownerID, listKey, f, req.ID, *req.Checked)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Seleksi diperbarui", selDTO.NewSelectionResponse(sess, nil))
}

// POST /selections/:list_key/page
func (h *SelectionController) TogglePage(c *fiber.Ctx) error {
	ownerID, listKey, f, err := h.scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req selDTO.TogglePageRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validateSelection.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	sess, err := h.Svc.TogglePage(helper.ReqCtx(c), ownerID, listKey, f, *req.Checked, req.VisibleIDs)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Seleksi halaman diperbarui", selDTO.NewSelectionResponse(sess, req.VisibleIDs))
}

// POST /selections/:list_key/all
func (h *SelectionController) SelectAll(c *fiber.Ctx) error {
	ownerID, listKey, f, err := h.scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	visible, err := visibleFromQuery(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	sess, err := h.Svc.SelectAll(helper.ReqCtx(c), ownerID, listKey, f)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Semua baris dipilih", selDTO.NewSelectionResponse(sess, visible))
}

// POST /selections/:list_key/header
func (h *SelectionController) Header(c *fiber.Ctx) error {
	ownerID, listKey, f, err := h.scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req selDTO.HeaderRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validateSelection.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	hs, err := h.Svc.Header(helper.ReqCtx(c), ownerID, listKey, f, req.VisibleIDs)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonOK(c, "OK", selDTO.NewHeaderResponse(hs))
}

// DELETE /selections/:list_key
func (h *SelectionController) Clear(c *fiber.Ctx) error {
	ownerID, listKey, _, err := h.scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := h.Svc.Clear(helper.ReqCtx(c), ownerID, listKey); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonDeleted(c, "Seleksi dikosongkan", fiber.Map{"list_key": listKey, "count": 0})
}
