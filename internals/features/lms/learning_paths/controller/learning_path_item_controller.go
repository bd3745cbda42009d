// file: internals/features/lms/learning_paths/controller/learning_path_item_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	lpDTO "lmsku_backend/internals/features/lms/learning_paths/dto"
	lpModel "lmsku_backend/internals/features/lms/learning_paths/model"
	lpSvc "lmsku_backend/internals/features/lms/learning_paths/service"
	helper "lmsku_backend/internals/helpers"
)

type itemsResult struct {
	LearningPathID uuid.UUID                        `json:"learning_path_id"`
	Summary        lpSvc.Summary                    `json:"summary"`
	Items          []lpDTO.LearningPathItemResponse `json:"items"`
}

// withItems: lock path, load items, jalankan fn, hitung ulang ringkasan.
func (h *LearningPathController) withItems(
	c *fiber.Ctx,
	pathID uuid.UUID,
	fn func(tx *gorm.DB, items []lpModel.LearningPathItemModel) error,
) (*itemsResult, error) {
	var res itemsResult
	err := h.DB.WithContext(helper.ReqCtx(c)).Transaction(func(tx *gorm.DB) error {
		var path lpModel.LearningPathModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("learning_path_id = ?", pathID).
			First(&path).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Learning path tidak ditemukan")
			}
			return err
		}
		items, err := lpSvc.LoadItems(tx, pathID)
		if err != nil {
			return err
		}
		if err := fn(tx, items); err != nil {
			return err
		}
		if res.Summary, err = lpSvc.RecalcSummary(tx, pathID); err != nil {
			return err
		}
		fresh, err := lpSvc.LoadItems(tx, pathID)
		if err != nil {
			return err
		}
		res.LearningPathID = pathID
		res.Items = lpDTO.NewItemResponses(fresh)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func findItem(items []lpModel.LearningPathItemModel, id uuid.UUID) *lpModel.LearningPathItemModel {
	for i := range items {
		if items[i].LearningPathItemID == id {
			return &items[i]
		}
	}
	return nil
}

// POST /learning-paths/:id/items
func (h *LearningPathController) AddItem(c *fiber.Ctx) error {
	pathID, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req lpDTO.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validateLearningPath.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := h.withItems(c, pathID, func(tx *gorm.DB, items []lpModel.LearningPathItemModel) error {
		m := req.ToModel(pathID, len(items)+1)
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		if req.Index == nil || *req.Index >= len(items) {
			return nil
		}
		all := append(append([]lpModel.LearningPathItemModel(nil), items...), *m)
		moved, err := lpSvc.Move(all, m.LearningPathItemID, *req.Index)
		if err != nil {
			return err
		}
		return lpSvc.SavePositions(tx, all, moved)
	})
	if err != nil {
		return helper.FromFiberError(c, mapWriteErr(err, "Gagal menambah item"))
	}
	return helper.JsonCreated(c, "Item ditambahkan", res)
}

// PATCH /learning-paths/:id/items/:item_id
func (h *LearningPathController) PatchItem(c *fiber.Ctx) error {
	pathID, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	itemID, err := parseID(c, "item_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req lpDTO.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validateLearningPath.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := h.withItems(c, pathID, func(tx *gorm.DB, items []lpModel.LearningPathItemModel) error {
		it := findItem(items, itemID)
		if it == nil {
			return fiber.NewError(fiber.StatusNotFound, "Item tidak ditemukan")
		}
		req.Apply(it)
		return tx.Model(it).Select(
			"learning_path_item_kind",
			"learning_path_item_ref_id",
			"learning_path_item_title",
			"learning_path_item_duration_minutes",
		).Updates(it).Error
	})
	if err != nil {
		return helper.FromFiberError(c, mapWriteErr(err, "Gagal memperbarui item"))
	}
	return helper.JsonUpdated(c, "Item diperbarui", res)
}

// DELETE /learning-paths/:id/items/:item_id
func (h *LearningPathController) DeleteItem(c *fiber.Ctx) error {
	pathID, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	itemID, err := parseID(c, "item_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res, err := h.withItems(c, pathID, func(tx *gorm.DB, items []lpModel.LearningPathItemModel) error {
		if findItem(items, itemID) == nil {
			return fiber.NewError(fiber.StatusNotFound, "Item tidak ditemukan")
		}
		if err := tx.Where("learning_path_item_id = ?", itemID).
			Delete(&lpModel.LearningPathItemModel{}).Error; err != nil {
			return err
		}
		rest := make([]lpModel.LearningPathItemModel, 0, len(items))
		for _, it := range items {
			if it.LearningPathItemID != itemID {
				rest = append(rest, it)
			}
		}
		return lpSvc.SavePositions(tx, rest, lpSvc.Compact(rest))
	})
	if err != nil {
		return helper.FromFiberError(c, mapWriteErr(err, "Gagal menghapus item"))
	}
	return helper.JsonDeleted(c, "Item dihapus", res)
}

// PUT /learning-paths/:id/items/order
func (h *LearningPathController) ReorderItems(c *fiber.Ctx) error {
	pathID, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req lpDTO.ReorderItemsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validateLearningPath.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := h.withItems(c, pathID, func(tx *gorm.DB, items []lpModel.LearningPathItemModel) error {
		ordered, err := lpSvc.Reorder(items, req.ItemIDs)
		if err != nil {
			return err
		}
		return lpSvc.SavePositions(tx, items, ordered)
	})
	if err != nil {
		return helper.FromFiberError(c, mapWriteErr(err, "Gagal mengurutkan item"))
	}
	return helper.JsonUpdated(c, "Urutan item disimpan", res)
}

// POST /learning-paths/:id/items/:item_id/move
func (h *LearningPathController) MoveItem(c *fiber.Ctx) error {
	pathID, err := parseID(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	itemID, err := parseID(c, "item_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req lpDTO.MoveItemRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := validateLearningPath.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	res, err := h.withItems(c, pathID, func(tx *gorm.DB, items []lpModel.LearningPathItemModel) error {
		moved, err := lpSvc.Move(items, itemID, *req.ToIndex)
		if err != nil {
			return err
		}
		return lpSvc.SavePositions(tx, items, moved)
	})
	if err != nil {
		return helper.FromFiberError(c, mapWriteErr(err, "Gagal memindahkan item"))
	}
	return helper.JsonUpdated(c, "Item dipindahkan", res)
}
