// file: internals/features/lms/learning_paths/service/persist.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lmsku_backend/internals/features/lms/learning_paths/model"
	"lmsku_backend/internals/features/lms/selection"
	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
)

// ExportHardCap batas baris export sekali jalan.
const ExportHardCap = 10_000

/* =========================================================
   LOOKUP
========================================================= */

func FindPath(tx *gorm.DB, id uuid.UUID) (*model.LearningPathModel, error) {
	var m model.LearningPathModel
	if err := tx.Where("learning_path_id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Learning path tidak ditemukan")
		}
		return nil, err
	}
	return &m, nil
}

// LoadItems: item hidup milik path, urut posisi.
func LoadItems(tx *gorm.DB, pathID uuid.UUID) ([]model.LearningPathItemModel, error) {
	var items []model.LearningPathItemModel
	if err := tx.
		Where("learning_path_item_path_id = ?", pathID).
		Order("learning_path_item_position ASC, learning_path_item_created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	SortByPosition(items)
	return items, nil
}

/* =========================================================
   WRITE HELPERS (dipanggil di dalam transaksi)
========================================================= */

// SavePositions menulis posisi baru yang berubah saja.
func SavePositions(tx *gorm.DB, before, after []model.LearningPathItemModel) error {
	old := make(map[uuid.UUID]int, len(before))
	for _, it := range before {
		old[it.LearningPathItemID] = it.LearningPathItemPosition
	}
	for _, it := range after {
		if p, ok := old[it.LearningPathItemID]; ok && p == it.LearningPathItemPosition {
			continue
		}
		if err := tx.Model(&model.LearningPathItemModel{}).
			Where("learning_path_item_id = ?", it.LearningPathItemID).
			Update("learning_path_item_position", it.LearningPathItemPosition).Error; err != nil {
			return err
		}
	}
	return nil
}

// RecalcSummary menghitung ulang total durasi & jumlah item path.
func RecalcSummary(tx *gorm.DB, pathID uuid.UUID) (Summary, error) {
	items, err := LoadItems(tx, pathID)
	if err != nil {
		return Summary{}, err
	}
	sum := Summarize(items)
	err = tx.Model(&model.LearningPathModel{}).
		Where("learning_path_id = ?", pathID).
		Updates(map[string]any{
			"learning_path_total_duration_minutes": sum.TotalDurationMinutes,
			"learning_path_items_count":            sum.ItemsCount,
		}).Error
	return sum, err
}

/* =========================================================
   BULK
========================================================= */

// BulkSoftDelete soft-delete semua path target + item-nya dalam satu transaksi.
// Path dihapus dulu supaya deleted_at item >= deleted_at path (dipakai Restore).
func BulkSoftDelete(ctx context.Context, db *gorm.DB, t selection.Targets, f selSvc.Filter) (int64, error) {
	if t.Empty() {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Tidak ada learning path yang dipilih")
	}

	var affected int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := lockTargetIDs(tx, t, f, &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		res := softDeletePaths(tx, ids)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected

		return softDeletePathItems(tx, ids).Error
	})
	return affected, err
}

// lockTargetIDs: id path target, dikunci FOR UPDATE sampai transaksi selesai.
func lockTargetIDs(tx *gorm.DB, t selection.Targets, f selSvc.Filter, ids *[]uuid.UUID) *gorm.DB {
	return tx.Model(&model.LearningPathModel{}).
		Scopes(ApplyTargets(t, f)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Pluck("learning_path_id", ids)
}

func softDeletePaths(tx *gorm.DB, ids []uuid.UUID) *gorm.DB {
	return tx.Where("learning_path_id IN ?", ids).Delete(&model.LearningPathModel{})
}

func softDeletePathItems(tx *gorm.DB, ids []uuid.UUID) *gorm.DB {
	return tx.Where("learning_path_item_path_id IN ?", ids).Delete(&model.LearningPathItemModel{})
}

// ExportTooLarge: export ditolak utuh, bukan dipotong diam-diam.
func ExportTooLarge(n int) error {
	return fiber.NewError(fiber.StatusRequestEntityTooLarge,
		fmt.Sprintf("Export maksimal %d learning path, terpilih %d. Persempit filter atau seleksi.", ExportHardCap, n))
}

// FindTargets: baris untuk export, urut created_at.
// Lebih dari ExportHardCap baris → 413 (tidak ada export parsial).
func FindTargets(ctx context.Context, db *gorm.DB, t selection.Targets, f selSvc.Filter) ([]model.LearningPathModel, error) {
	if t.Empty() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Tidak ada learning path yang dipilih")
	}
	var rows []model.LearningPathModel
	if err := exportQuery(db.WithContext(ctx), t, f, &rows).Error; err != nil {
		return nil, err
	}
	if len(rows) > ExportHardCap {
		return nil, ExportTooLarge(len(rows))
	}
	return rows, nil
}

func exportQuery(db *gorm.DB, t selection.Targets, f selSvc.Filter, rows *[]model.LearningPathModel) *gorm.DB {
	return db.Scopes(ApplyTargets(t, f)).
		Order("learning_path_created_at ASC, learning_path_id ASC").
		Limit(ExportHardCap + 1).
		Find(rows)
}
