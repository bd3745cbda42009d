package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lmsku_backend/internals/features/lms/selection_sessions/model"
)

// Store persists selection sessions keyed by (owner, list key).
type Store interface {
	// Get returns nil, nil when no session exists.
	Get(ctx context.Context, ownerID uuid.UUID, listKey string) (*model.SelectionSessionModel, error)
	Save(ctx context.Context, m *model.SelectionSessionModel) error
	Delete(ctx context.Context, ownerID uuid.UUID, listKey string) error
	PurgeExpired(ctx context.Context, before time.Time, limit int) (int64, error)
}

/* =========================================================
   GORM (PostgreSQL)
========================================================= */

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

func (s *GormStore) Get(ctx context.Context, ownerID uuid.UUID, listKey string) (*model.SelectionSessionModel, error) {
	var m model.SelectionSessionModel
	err := s.DB.WithContext(ctx).
		Where("selection_session_owner_id = ? AND selection_session_list_key = ?", ownerID, listKey).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormStore) Save(ctx context.Context, m *model.SelectionSessionModel) error {
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "selection_session_owner_id"},
			{Name: "selection_session_list_key"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"selection_session_scope",
			"selection_session_ids",
			"selection_session_total",
			"selection_session_filter_hash",
			"selection_session_filter",
			"selection_session_expires_at",
			"selection_session_updated_at",
		}),
	}).Create(m).Error
}

func (s *GormStore) Delete(ctx context.Context, ownerID uuid.UUID, listKey string) error {
	return s.DB.WithContext(ctx).
		Where("selection_session_owner_id = ? AND selection_session_list_key = ?", ownerID, listKey).
		Delete(&model.SelectionSessionModel{}).Error
}

func (s *GormStore) PurgeExpired(ctx context.Context, before time.Time, limit int) (int64, error) {
	if limit <= 0 {
		limit = 100
	}
	db := s.DB.WithContext(ctx)
	expired := db.Model(&model.SelectionSessionModel{}).
		Select("selection_session_id").
		Where("selection_session_expires_at < ?", before).
		Limit(limit)

	res := db.Where("selection_session_id IN (?)", expired).
		Delete(&model.SelectionSessionModel{})
	return res.RowsAffected, res.Error
}

/* =========================================================
   IN-MEMORY
========================================================= */

type memKey struct {
	owner uuid.UUID
	list  string
}

// MemoryStore keeps sessions in process memory. Satu instance saja; tidak dibagi antar replika.
type MemoryStore struct {
	mutex sync.RWMutex
	table map[memKey]model.SelectionSessionModel
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{table: map[memKey]model.SelectionSessionModel{}}
}

func (s *MemoryStore) Get(_ context.Context, ownerID uuid.UUID, listKey string) (*model.SelectionSessionModel, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	m, ok := s.table[memKey{ownerID, listKey}]
	if !ok {
		return nil, nil
	}
	m.SelectionSessionIDs = append([]string(nil), m.SelectionSessionIDs...)
	return &m, nil
}

func (s *MemoryStore) Save(_ context.Context, m *model.SelectionSessionModel) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	key := memKey{m.SelectionSessionOwnerID, m.SelectionSessionListKey}
	now := time.Now()
	cp := *m
	cp.SelectionSessionIDs = append([]string(nil), m.SelectionSessionIDs...)
	if old, ok := s.table[key]; ok {
		cp.SelectionSessionID = old.SelectionSessionID
		cp.SelectionSessionCreatedAt = old.SelectionSessionCreatedAt
	} else {
		if cp.SelectionSessionID == uuid.Nil {
			cp.SelectionSessionID = uuid.New()
		}
		cp.SelectionSessionCreatedAt = now
	}
	cp.SelectionSessionUpdatedAt = now
	s.table[key] = cp
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, ownerID uuid.UUID, listKey string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.table, memKey{ownerID, listKey})
	return nil
}

func (s *MemoryStore) PurgeExpired(_ context.Context, before time.Time, limit int) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	var n int64
	for k, m := range s.table {
		if limit > 0 && n >= int64(limit) {
			break
		}
		if m.SelectionSessionExpiresAt.Before(before) {
			delete(s.table, k)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.table)
}
