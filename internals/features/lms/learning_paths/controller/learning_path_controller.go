// file: internals/features/lms/learning_paths/controller/learning_path_controller.go
package controller

import (
	"context"
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	lpDTO "lmsku_backend/internals/features/lms/learning_paths/dto"
	lpModel "lmsku_backend/internals/features/lms/learning_paths/model"
	lpSvc "lmsku_backend/internals/features/lms/learning_paths/service"
	"lmsku_backend/internals/features/lms/selection"
	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
	helper "lmsku_backend/internals/helpers"
)

type LearningPathController struct {
	DB  *gorm.DB
	Sel *selSvc.Service

	// aksi massal; bisa diganti di test
	softDeleteTargets func(context.Context, *gorm.DB, selection.Targets, selSvc.Filter) (int64, error)
	findTargets       func(context.Context, *gorm.DB, selection.Targets, selSvc.Filter) ([]lpModel.LearningPathModel, error)
}

func NewLearningPathController(db *gorm.DB, sel *selSvc.Service) *LearningPathController {
	return &LearningPathController{
		DB:                db,
		Sel:               sel,
		softDeleteTargets: lpSvc.BulkSoftDelete,
		findTargets:       lpSvc.FindTargets,
	}
}

var validateLearningPath = validator.New()

var sortColumns = map[string]string{
	"title":      "learning_path_title",
	"status":     "learning_path_status",
	"created_at": "learning_path_created_at",
	"updated_at": "learning_path_updated_at",
	"duration":   "learning_path_total_duration_minutes",
	"items":      "learning_path_items_count",
}

/* ================= Helpers ================= */

func parseID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
	}
	return id, nil
}

// slug unik di antara path yang hidup (kecuali diri sendiri)
func (h *LearningPathController) uniqueSlug(c *fiber.Ctx, tx *gorm.DB, raw string, self uuid.UUID) (string, error) {
	base := helper.Slugify(raw, helper.DefaultSlugMaxLen)
	return helper.EnsureUniqueSlugCI(helper.ReqCtx(c), tx, "learning_paths", "learning_path_slug", base,
		func(q *gorm.DB) *gorm.DB {
			q = q.Where("learning_path_deleted_at IS NULL")
			if self != uuid.Nil {
				q = q.Where("learning_path_id <> ?", self)
			}
			return q
		}, helper.DefaultSlugMaxLen)
}

func mapWriteErr(err error, fallback string) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe
	case helper.IsUniqueViolation(err):
		return fiber.NewError(fiber.StatusConflict, "Slug learning path sudah dipakai")
	case helper.IsCheckViolation(err):
		return fiber.NewError(fiber.StatusBadRequest, "Data tidak memenuhi constraint")
	}
	log.Printf("[LEARNING_PATH] %s: %v", fallback, err)
	return fiber.NewError(fiber.StatusInternalServerError, fallback)
}

/* ================= Handlers: Path ================= */

// GET /learning-paths?q=&status=&tag=&created_by=&page=&per_page=&sort_by=&order=
func (h *LearningPathController) List(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	f, err := lpSvc.ParseFilter(c.Queries())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	base := h.DB.WithContext(helper.ReqCtx(c)).
		Model(&lpModel.LearningPathModel{}).
		Scopes(lpSvc.ApplyFilter(f))

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return helper.FromFiberError(c, mapWriteErr(err, "Gagal menghitung learning path"))
	}

	var rows []lpModel.LearningPathModel
	if err := base.Session(&gorm.Session{}).
		Order(p.OrderClause(sortColumns, "created_at")).
		Order("learning_path_id ASC").
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.FromFiberError(c, mapWriteErr(err, "Gagal mengambil learning path"))
	}

	// state seleksi (recount + reset kalau filter berubah)
	sess, err := h.Sel.Get(helper.ReqCtx(c), ownerID, lpSvc.ListKey, f)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	visible := make([]string, 0, len(rows))
	out := make([]lpDTO.LearningPathResponse, 0, len(rows))
	for i := range rows {
		r := lpDTO.NewLearningPathResponse(&rows[i])
		sel := sess.State.IsRowSelected(rows[i].LearningPathID.String())
		r.Selected = &sel
		out = append(out, r)
		visible = append(visible, rows[i].LearningPathID.String())
	}

	hs := sess.State.HeaderCheckboxState(visible)
	includes := fiber.Map{
		"selection": fiber.Map{
			"scope":        sess.State.Scope().String(),
			"count":        sess.State.DerivedCount(),
			"filter_reset": sess.FilterReset,
			"header": fiber.Map{
				"checked":       hs.Checked,
				"indeterminate": hs.Indeterminate,
			},
		},
	}
	return helper.JsonListEx(c, "OK", out, len(out), helper.BuildPaginationFromParams(total, p), includes)
}

// POST /learning-paths
func (h *LearningPathController) Create(c *fiber.Ctx) error {
	ownerID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req lpDTO.CreateLearningPathRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := validateLearningPath.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m *lpModel.LearningPathModel
	err = h.DB.WithContext(helper.ReqCtx(c)).Transaction(func(tx *gorm.DB) error {
		src := req.LearningPathSlug
		if src == "" {
			src = req.LearningPathTitle
		}
		slug, err := h.uniqueSlug(c, tx, src, uuid.Nil)
		if err != nil {
			return err
		}
		m = req.ToModel(slug, ownerID)
		return tx.Create(m).Error
	})
	if err != nil {
		return helper.FromFiberError(c, mapWriteErr(err, "Gagal membuat learning path"))
	}
	return helper.JsonCreated(c, "Learning path berhasil dibuat", lpDTO.NewLearningPathResponse(m))
}

// GET /learning-paths/:id
func (h *LearningPathController) Detail(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	db := h.DB.WithContext(helper.ReqCtx(c))
	m, err := lpSvc.FindPath(db, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if m.Items, err = lpSvc.LoadItems(db, id); err != nil {
		return helper.FromFiberError(c, mapWriteErr(err, "Gagal mengambil item"))
	}
	resp := lpDTO.NewLearningPathResponse(m)
	resp.Items = lpDTO.NewItemResponses(m.Items)
	return helper.JsonOK(c, "OK", resp)
}

// PATCH /learning-paths/:id
func (h *LearningPathController) Patch(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req lpDTO.UpdateLearningPathRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := validateLearningPath.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	var m *lpModel.LearningPathModel
	err = h.DB.WithContext(helper.ReqCtx(c)).Transaction(func(tx *gorm.DB) error {
		var err error
		if m, err = lpSvc.FindPath(tx, id); err != nil {
			return err
		}
		req.Apply(m)
		if req.LearningPathSlug != nil && *req.LearningPathSlug != "" {
			if m.LearningPathSlug, err = h.uniqueSlug(c, tx, *req.LearningPathSlug, id); err != nil {
				return err
			}
		}
		return tx.Model(m).Select(
			"learning_path_title",
			"learning_path_slug",
			"learning_path_description",
			"learning_path_status",
			"learning_path_tags",
		).Updates(m).Error
	})
	if err != nil {
		return helper.FromFiberError(c, mapWriteErr(err, "Gagal memperbarui learning path"))
	}
	return helper.JsonUpdated(c, "Learning path diperbarui", lpDTO.NewLearningPathResponse(m))
}

// DELETE /learning-paths/:id (soft delete path + item)
func (h *LearningPathController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	err = h.DB.WithContext(helper.ReqCtx(c)).Transaction(func(tx *gorm.DB) error {
		if _, err := lpSvc.FindPath(tx, id); err != nil {
			return err
		}
		if err := tx.Where("learning_path_id = ?", id).Delete(&lpModel.LearningPathModel{}).Error; err != nil {
			return err
		}
		return tx.Where("learning_path_item_path_id = ?", id).Delete(&lpModel.LearningPathItemModel{}).Error
	})
	if err != nil {
		return helper.FromFiberError(c, mapWriteErr(err, "Gagal menghapus learning path"))
	}
	return helper.JsonDeleted(c, "Learning path dihapus", fiber.Map{"learning_path_id": id})
}

// POST /learning-paths/:id/restore
func (h *LearningPathController) Restore(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var m lpModel.LearningPathModel
	err = h.DB.WithContext(helper.ReqCtx(c)).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("learning_path_id = ? AND learning_path_deleted_at IS NOT NULL", id).
			First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Learning path terhapus tidak ditemukan")
			}
			return err
		}

		var clash int64
		if err := tx.Model(&lpModel.LearningPathModel{}).
			Where("LOWER(learning_path_slug) = LOWER(?) AND learning_path_id <> ?", m.LearningPathSlug, id).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return fiber.NewError(fiber.StatusConflict, "Slug sudah dipakai learning path lain")
		}

		deletedAt := m.LearningPathDeletedAt.Time
		if err := tx.Unscoped().Model(&lpModel.LearningPathModel{}).
			Where("learning_path_id = ?", id).
			Update("learning_path_deleted_at", nil).Error; err != nil {
			return err
		}
		// item yang ikut terhapus bersama path
		if err := tx.Unscoped().Model(&lpModel.LearningPathItemModel{}).
			Where("learning_path_item_path_id = ? AND learning_path_item_deleted_at >= ?", id, deletedAt).
			Update("learning_path_item_deleted_at", nil).Error; err != nil {
			return err
		}
		_, err := lpSvc.RecalcSummary(tx, id)
		return err
	})
	if err != nil {
		return helper.FromFiberError(c, mapWriteErr(err, "Gagal memulihkan learning path"))
	}
	fresh, err := lpSvc.FindPath(h.DB.WithContext(helper.ReqCtx(c)), id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.JsonUpdated(c, "Learning path dipulihkan", lpDTO.NewLearningPathResponse(fresh))
}
