// file: internals/features/lms/selection_sessions/service/service.go
package service

import (
	"context"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lmsku_backend/internals/features/lms/selection"
	"lmsku_backend/internals/features/lms/selection_sessions/model"
)

const DefaultTTL = 2 * time.Hour

// Session = state seleksi yang sudah di-load untuk satu (owner, list).
type Session struct {
	OwnerID uuid.UUID
	ListKey string
	Filter  Filter
	State   selection.State
	// FilterReset true kalau seleksi lama dibuang karena filter berubah.
	FilterReset bool
}

type Service struct {
	store   Store
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	sources map[string]registration
	locks   [64]sync.Mutex
}

type registration struct {
	src  Source
	keys []string
}

func NewService(store Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store:   store,
		ttl:     ttl,
		now:     time.Now,
		sources: map[string]registration{},
	}
}

// Register mendaftarkan list yang bisa diseleksi (mis. "learning_paths").
// filterKeys = query param yang ikut menentukan isi list.
func (s *Service) Register(listKey string, src Source, filterKeys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[listKey] = registration{src: src, keys: filterKeys}
}

func (s *Service) source(listKey string) (Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.sources[listKey]
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "List tidak dikenal: "+listKey)
	}
	return reg.src, nil
}

// FilterFor picks the registered filter keys out of a query string map.
func (s *Service) FilterFor(listKey string, query map[string]string) (Filter, error) {
	s.mu.RLock()
	reg, ok := s.sources[listKey]
	s.mu.RUnlock()
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "List tidak dikenal: "+listKey)
	}
	if p, ok := reg.src.(FilterParser); ok {
		return p.ParseFilter(query)
	}
	kv := make(map[string]string, len(reg.keys))
	for _, k := range reg.keys {
		if v, ok := query[k]; ok {
			kv[k] = v
		}
	}
	return NewFilter(kv), nil
}

func (s *Service) lockFor(ownerID uuid.UUID, listKey string) *sync.Mutex {
	h := fnv.New32a()
	h.Write(ownerID[:])
	h.Write([]byte(listKey))
	return &s.locks[h.Sum32()%uint32(len(s.locks))]
}

/* =========================================================
   OPERATIONS
========================================================= */

// Get returns the current selection. In scope "all" the total is recounted.
func (s *Service) Get(ctx context.Context, ownerID uuid.UUID, listKey string, f Filter) (*Session, error) {
	return s.mutate(ctx, ownerID, listKey, f, func(src Source, st *selection.State) error {
		return recount(ctx, src, f, st)
	})
}

func (s *Service) ToggleRow(ctx context.Context, ownerID uuid.UUID, listKey string, f Filter, id string, checked bool) (*Session, error) {
	return s.mutate(ctx, ownerID, listKey, f, func(src Source, st *selection.State) error {
		if id == "" {
			return nil
		}
		ids, err := canonicalIDs(ctx, src, f, []string{id}, grows(st, checked))
		if err != nil {
			return err
		}
		for _, cid := range ids {
			st.ToggleRow(cid, checked)
		}
		return nil
	})
}

func (s *Service) TogglePage(ctx context.Context, ownerID uuid.UUID, listKey string, f Filter, checked bool, visibleIDs []string) (*Session, error) {
	return s.mutate(ctx, ownerID, listKey, f, func(src Source, st *selection.State) error {
		if len(visibleIDs) == 0 {
			return nil
		}
		ids, err := canonicalIDs(ctx, src, f, visibleIDs, grows(st, checked))
		if err != nil {
			return err
		}
		st.ToggleSelectAllOnPage(checked, ids)
		return nil
	})
}

func (s *Service) SelectAll(ctx context.Context, ownerID uuid.UUID, listKey string, f Filter) (*Session, error) {
	return s.mutate(ctx, ownerID, listKey, f, func(src Source, st *selection.State) error {
		total, err := src.Count(ctx, f)
		if err != nil {
			return err
		}
		st.SelectAllAcrossPages(int(total))
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, ownerID uuid.UUID, listKey string) error {
	if _, err := s.source(listKey); err != nil {
		return err
	}
	lock := s.lockFor(ownerID, listKey)
	lock.Lock()
	defer lock.Unlock()
	return s.store.Delete(ctx, ownerID, listKey)
}

// Peek loads without writing back (untuk render checkbox header / flag per baris).
func (s *Service) Peek(ctx context.Context, ownerID uuid.UUID, listKey string, f Filter) (*Session, error) {
	if _, err := s.source(listKey); err != nil {
		return nil, err
	}
	lock := s.lockFor(ownerID, listKey)
	lock.Lock()
	defer lock.Unlock()
	return s.load(ctx, ownerID, listKey, f)
}

func (s *Service) Header(ctx context.Context, ownerID uuid.UUID, listKey string, f Filter, visibleIDs []string) (selection.HeaderState, error) {
	sess, err := s.Peek(ctx, ownerID, listKey, f)
	if err != nil {
		return selection.HeaderState{}, err
	}
	src, err := s.source(listKey)
	if err != nil {
		return selection.HeaderState{}, err
	}
	return sess.State.HeaderCheckboxState(normalizeIDs(src, visibleIDs)), nil
}

// Targets resolves what a bulk action should touch under filter f.
func (s *Service) Targets(ctx context.Context, ownerID uuid.UUID, listKey string, f Filter) (selection.Targets, int, error) {
	sess, err := s.Get(ctx, ownerID, listKey, f)
	if err != nil {
		return selection.Targets{}, 0, err
	}
	return sess.State.Targets(), sess.State.DerivedCount(), nil
}

// Consume resolve target, jalankan aksi massal, lalu hapus seleksi; semuanya
// di bawah lock (owner, list) yang sama. Seleksi hanya dihapus kalau fn sukses.
func (s *Service) Consume(
	ctx context.Context,
	ownerID uuid.UUID,
	listKey string,
	f Filter,
	fn func(t selection.Targets, expected int) error,
) error {
	src, err := s.source(listKey)
	if err != nil {
		return err
	}
	lock := s.lockFor(ownerID, listKey)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.load(ctx, ownerID, listKey, f)
	if err != nil {
		return err
	}
	if err := recount(ctx, src, f, &sess.State); err != nil {
		return err
	}
	if err := fn(sess.State.Targets(), sess.State.DerivedCount()); err != nil {
		return err
	}
	return s.store.Delete(ctx, ownerID, listKey)
}

// PurgeExpired dipanggil scheduler.
func (s *Service) PurgeExpired(ctx context.Context, limit int) (int64, error) {
	return s.store.PurgeExpired(ctx, s.now(), limit)
}

/* =========================================================
   INTERNALS
========================================================= */

func (s *Service) mutate(
	ctx context.Context,
	ownerID uuid.UUID,
	listKey string,
	f Filter,
	fn func(src Source, st *selection.State) error,
) (*Session, error) {
	src, err := s.source(listKey)
	if err != nil {
		return nil, err
	}
	lock := s.lockFor(ownerID, listKey)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.load(ctx, ownerID, listKey, f)
	if err != nil {
		return nil, err
	}
	if err := fn(src, &sess.State); err != nil {
		return nil, err
	}
	if err := s.persist(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) load(ctx context.Context, ownerID uuid.UUID, listKey string, f Filter) (*Session, error) {
	if f == nil {
		f = Filter{}
	}
	sess := &Session{OwnerID: ownerID, ListKey: listKey, Filter: f}

	m, err := s.store.Get(ctx, ownerID, listKey)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return sess, nil
	}
	if !m.SelectionSessionExpiresAt.After(s.now()) {
		return sess, nil
	}
	if m.SelectionSessionFilterHash != f.Fingerprint() {
		log.Printf("[SELECTION] filter berubah owner=%s list=%s → seleksi direset", ownerID, listKey)
		sess.FilterReset = true
		return sess, nil
	}

	st, err := selection.FromSnapshot(selection.Snapshot{
		Scope: m.SelectionSessionScope,
		IDs:   m.SelectionSessionIDs,
		Total: m.SelectionSessionTotal,
	})
	if err != nil {
		log.Printf("[SELECTION] snapshot rusak owner=%s list=%s: %v", ownerID, listKey, err)
		return sess, nil
	}
	sess.State = st
	return sess, nil
}

func (s *Service) persist(ctx context.Context, sess *Session) error {
	if sess.State.Scope() == selection.ScopeNone {
		return s.store.Delete(ctx, sess.OwnerID, sess.ListKey)
	}
	snap := sess.State.Snapshot()
	return s.store.Save(ctx, &model.SelectionSessionModel{
		SelectionSessionOwnerID:    sess.OwnerID,
		SelectionSessionListKey:    sess.ListKey,
		SelectionSessionScope:      snap.Scope,
		SelectionSessionIDs:        snap.IDs,
		SelectionSessionTotal:      snap.Total,
		SelectionSessionFilterHash: sess.Filter.Fingerprint(),
		SelectionSessionFilter:     sess.Filter.JSON(),
		SelectionSessionExpiresAt:  s.now().Add(s.ttl),
	})
}

func recount(ctx context.Context, src Source, f Filter, st *selection.State) error {
	if st.Scope() != selection.ScopeAll {
		return nil
	}
	total, err := src.Count(ctx, f)
	if err != nil {
		return err
	}

	// baris yang dikecualikan tapi sudah hilang dari list tidak boleh mengurangi count
	excluded := st.Excluded()
	if len(excluded) > 0 {
		known, err := src.MatchIDs(ctx, f, excluded)
		if err != nil {
			return err
		}
		if len(known) != len(excluded) {
			st.SelectAllAcrossPages(int(total))
			st.ToggleSelectAllOnPage(false, known)
			return nil
		}
	}
	st.SetTotal(int(total))
	return nil
}

// grows: operasi ini menambah id ke set aktif (butuh validasi id terhadap list).
func grows(st *selection.State, checked bool) bool {
	if st.Scope() == selection.ScopeAll {
		return !checked
	}
	return checked
}

// canonicalIDs mengubah id dari client ke bentuk kanonik source.
// mustExist=true (set aktif bertambah) → hanya id yang ada di list.
// Saat set menyusut, id yang sudah hilang dari list tetap dipakai apa adanya
// supaya masih bisa dilepas dari seleksi.
func canonicalIDs(ctx context.Context, src Source, f Filter, ids []string, mustExist bool) ([]string, error) {
	if c, ok := src.(Canonicalizer); ok {
		ids = normalizeIDs(c, ids)
		if !mustExist {
			return ids, nil
		}
	}
	known, err := src.MatchIDs(ctx, f, ids)
	if err != nil {
		return nil, err
	}
	if mustExist {
		return known, nil
	}
	return append(known, ids...), nil
}

func normalizeIDs(src any, ids []string) []string {
	c, ok := src.(Canonicalizer)
	if !ok {
		return ids
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if cid := c.CanonicalID(id); cid != "" {
			out = append(out, cid)
		}
	}
	return out
}
