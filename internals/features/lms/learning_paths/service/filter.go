// file: internals/features/lms/learning_paths/service/filter.go
package service

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"lmsku_backend/internals/features/lms/learning_paths/model"
	"lmsku_backend/internals/features/lms/selection"
	selSvc "lmsku_backend/internals/features/lms/selection_sessions/service"
)

// ListKey = nama list learning path di selection_sessions.
const ListKey = "learning_paths"

// FilterKeys = query param yang menentukan isi list.
var FilterKeys = []string{"q", "status", "tag", "created_by"}

// ParseFilter ambil & validasi filter list dari query string.
func ParseFilter(query map[string]string) (selSvc.Filter, error) {
	kv := make(map[string]string, len(FilterKeys))
	for _, k := range FilterKeys {
		if v, ok := query[k]; ok {
			kv[k] = v
		}
	}
	f := selSvc.NewFilter(kv)

	if st := f.Get("status"); st != "" {
		st = strings.ToLower(st)
		if !model.IsValidStatus(st) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "status harus draft, published, atau archived")
		}
		f["status"] = st
	}
	if cb := f.Get("created_by"); cb != "" {
		if _, err := uuid.Parse(cb); err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "created_by tidak valid")
		}
	}
	if tag := f.Get("tag"); tag != "" {
		f["tag"] = strings.ToLower(tag)
	}
	return f, nil
}

// ApplyFilter: gorm scope untuk filter list (soft-deleted otomatis tersaring).
func ApplyFilter(f selSvc.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q := f.Get("q"); q != "" {
			like := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
			db = db.Where(`(LOWER(learning_path_title) LIKE ? ESCAPE '\' OR learning_path_slug LIKE ? ESCAPE '\')`, like, like)
		}
		if st := f.Get("status"); st != "" {
			db = db.Where("learning_path_status = ?", strings.ToLower(st))
		}
		if tag := f.Get("tag"); tag != "" {
			db = db.Where("? = ANY(learning_path_tags)", strings.ToLower(tag))
		}
		if cb := f.Get("created_by"); cb != "" {
			id, err := uuid.Parse(cb)
			if err != nil {
				return db.Where("1 = 0")
			}
			db = db.Where("learning_path_created_by = ?", id)
		}
		return db
	}
}

// % dan _ dari input user dicari sebagai karakter biasa.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// ApplyTargets: scope untuk aksi massal.
//   - page/custom → id IN (selected)
//   - all         → filter AND id NOT IN (excluded)
func ApplyTargets(t selection.Targets, f selSvc.Filter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if t.Empty() {
			return db.Where("1 = 0")
		}
		if !t.All {
			return db.Where("learning_path_id IN ?", validUUIDs(t.IDs))
		}
		db = ApplyFilter(f)(db)
		if ex := validUUIDs(t.Excluded); len(ex) > 0 {
			db = db.Where("learning_path_id NOT IN ?", ex)
		}
		return db
	}
}

func validUUIDs(ids []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, s := range ids {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}

/* =========================================================
   SOURCE (dipakai selection_sessions)
========================================================= */

type GormSource struct {
	DB *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource { return &GormSource{DB: db} }

func (s *GormSource) Count(ctx context.Context, f selSvc.Filter) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&model.LearningPathModel{}).
		Scopes(ApplyFilter(f)).
		Count(&n).Error
	return n, err
}

func (s *GormSource) MatchIDs(ctx context.Context, f selSvc.Filter, ids []string) ([]string, error) {
	uids := validUUIDs(ids)
	if len(uids) == 0 {
		return []string{}, nil
	}
	var found []uuid.UUID
	if err := s.DB.WithContext(ctx).
		Model(&model.LearningPathModel{}).
		Scopes(ApplyFilter(f)).
		Where("learning_path_id IN ?", uids).
		Pluck("learning_path_id", &found).Error; err != nil {
		return nil, err
	}
	out := make([]string, 0, len(found))
	for _, id := range found {
		out = append(out, id.String())
	}
	return out, nil
}

// CanonicalID: UUID dalam bentuk lowercase; "" kalau bukan UUID.
func (s *GormSource) CanonicalID(id string) string {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return ""
	}
	return uid.String()
}

// ParseFilter: filter list learning path memakai aturan yang sama dengan endpoint list.
func (s *GormSource) ParseFilter(query map[string]string) (selSvc.Filter, error) {
	return ParseFilter(query)
}
