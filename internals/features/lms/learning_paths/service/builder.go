// file: internals/features/lms/learning_paths/service/builder.go
package service

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lmsku_backend/internals/features/lms/learning_paths/model"
)

type Summary struct {
	TotalDurationMinutes int `json:"total_duration_minutes"`
	ItemsCount           int `json:"items_count"`
}

// Summarize menghitung ringkasan path dari item yang masih hidup.
func Summarize(items []model.LearningPathItemModel) Summary {
	var s Summary
	for _, it := range items {
		if it.LearningPathItemDurationMinutes > 0 {
			s.TotalDurationMinutes += it.LearningPathItemDurationMinutes
		}
		s.ItemsCount++
	}
	return s
}

// SortByPosition: urut posisi, tie-break created_at lalu id (stabil).
func SortByPosition(items []model.LearningPathItemModel) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.LearningPathItemPosition != b.LearningPathItemPosition {
			return a.LearningPathItemPosition < b.LearningPathItemPosition
		}
		if !a.LearningPathItemCreatedAt.Equal(b.LearningPathItemCreatedAt) {
			return a.LearningPathItemCreatedAt.Before(b.LearningPathItemCreatedAt)
		}
		return a.LearningPathItemID.String() < b.LearningPathItemID.String()
	})
}

func renumber(items []model.LearningPathItemModel) {
	for i := range items {
		items[i].LearningPathItemPosition = i + 1
	}
}

// Reorder returns the items in the order of orderedIDs with positions 1..n.
// orderedIDs harus permutasi persis dari id item.
func Reorder(items []model.LearningPathItemModel, orderedIDs []uuid.UUID) ([]model.LearningPathItemModel, error) {
	if len(orderedIDs) != len(items) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Urutan harus memuat semua item tepat satu kali")
	}
	byID := make(map[uuid.UUID]model.LearningPathItemModel, len(items))
	for _, it := range items {
		byID[it.LearningPathItemID] = it
	}

	out := make([]model.LearningPathItemModel, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		it, ok := byID[id]
		if !ok {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Item tidak ditemukan di learning path: "+id.String())
		}
		if _, dup := seen[id]; dup {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Item duplikat di urutan: "+id.String())
		}
		seen[id] = struct{}{}
		out = append(out, it)
	}
	renumber(out)
	return out, nil
}

// Move memindahkan satu item ke index (0-based) baru; index di luar batas di-clamp.
func Move(items []model.LearningPathItemModel, id uuid.UUID, toIndex int) ([]model.LearningPathItemModel, error) {
	out := append([]model.LearningPathItemModel(nil), items...)
	SortByPosition(out)

	from := -1
	for i := range out {
		if out[i].LearningPathItemID == id {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Item tidak ditemukan")
	}
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(out)-1 {
		toIndex = len(out) - 1
	}

	it := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:toIndex], append([]model.LearningPathItemModel{it}, out[toIndex:]...)...)
	renumber(out)
	return out, nil
}

// Compact menutup celah posisi (setelah item dihapus).
func Compact(items []model.LearningPathItemModel) []model.LearningPathItemModel {
	out := append([]model.LearningPathItemModel(nil), items...)
	SortByPosition(out)
	renumber(out)
	return out
}
