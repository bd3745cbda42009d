// file: internals/features/lms/selection/selection.go
package selection

import (
	"fmt"
	"sort"
	"strings"
)

/* =========================================================
   SCOPE
========================================================= */

// Scope menentukan arti dari set id di State.
type Scope int

const (
	ScopeNone Scope = iota
	ScopePage       // "page or custom": ids = baris yang dipilih
	ScopeAll        // ids = baris yang dikecualikan
)

func (s Scope) String() string {
	switch s {
	case ScopePage:
		return "page"
	case ScopeAll:
		return "all"
	default:
		return "none"
	}
}

// ParseScope menerima "none" | "page" | "all" (case-insensitive).
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ScopeNone, nil
	case "page", "custom":
		return ScopePage, nil
	case "all":
		return ScopeAll, nil
	}
	return ScopeNone, fmt.Errorf("scope tidak dikenal: %q", s)
}

/* =========================================================
   STATE
========================================================= */

// State is the selection of a paginated, filterable list.
//
// Only one id set exists; its meaning follows the scope (selected rows in
// ScopePage, excluded rows in ScopeAll), so a state with both selected and
// excluded rows cannot be built. The zero value is an empty selection.
type State struct {
	scope Scope
	ids   map[string]struct{}
	total int
}

type HeaderState struct {
	Checked       bool `json:"checked"`
	Indeterminate bool `json:"indeterminate"`
}

func (s *State) Scope() Scope { return s.scope }

// Total adalah totalCount terakhir yang dicatat (hanya bermakna di ScopeAll).
func (s *State) Total() int { return s.total }

// ToggleRow sets the membership of a single row.
func (s *State) ToggleRow(id string, checked bool) {
	if id == "" {
		return
	}
	switch s.scope {
	case ScopeAll:
		if checked {
			delete(s.ids, id)
		} else {
			s.add(id)
		}
	default:
		if checked {
			if s.scope == ScopeNone {
				s.scope = ScopePage
				s.ids = map[string]struct{}{}
			}
			s.add(id)
		} else {
			delete(s.ids, id)
		}
	}
	s.resetIfEmpty()
}

// ToggleSelectAllOnPage handles the header checkbox of the current page.
// Checking replaces any previous custom selection with the visible rows.
func (s *State) ToggleSelectAllOnPage(checked bool, visibleIDs []string) {
	if checked {
		if s.scope == ScopeAll || len(visibleIDs) == 0 {
			return
		}
		s.scope = ScopePage
		s.ids = make(map[string]struct{}, len(visibleIDs))
		for _, id := range visibleIDs {
			if id != "" {
				s.ids[id] = struct{}{}
			}
		}
		s.resetIfEmpty()
		return
	}

	for _, id := range visibleIDs {
		if id == "" {
			continue
		}
		if s.scope == ScopeAll {
			s.add(id)
		} else {
			delete(s.ids, id)
		}
	}
	s.resetIfEmpty()
}

// SelectAllAcrossPages selects every row matching the current filter.
func (s *State) SelectAllAcrossPages(totalCount int) {
	if totalCount < 0 {
		totalCount = 0
	}
	s.scope = ScopeAll
	s.ids = map[string]struct{}{}
	s.total = totalCount
	s.resetIfEmpty()
}

// SetTotal mencatat ulang totalCount setelah hitung ulang dengan filter yang sama.
func (s *State) SetTotal(totalCount int) {
	if totalCount < 0 {
		totalCount = 0
	}
	s.total = totalCount
	s.resetIfEmpty()
}

func (s *State) Clear() {
	s.scope = ScopeNone
	s.ids = nil
	s.total = 0
}

func (s *State) IsRowSelected(id string) bool {
	_, in := s.ids[id]
	if s.scope == ScopeAll {
		return !in
	}
	return in
}

func (s *State) DerivedCount() int {
	switch s.scope {
	case ScopeAll:
		if n := s.total - len(s.ids); n > 0 {
			return n
		}
		return 0
	case ScopePage:
		return len(s.ids)
	}
	return 0
}

func (s *State) HeaderCheckboxState(visibleIDs []string) HeaderState {
	if len(visibleIDs) == 0 {
		return HeaderState{}
	}
	n := 0
	for _, id := range visibleIDs {
		if s.IsRowSelected(id) {
			n++
		}
	}
	return HeaderState{
		Checked:       n == len(visibleIDs),
		Indeterminate: n > 0 && n < len(visibleIDs),
	}
}

// Selected returns the explicitly selected ids (empty unless ScopePage).
func (s *State) Selected() []string {
	if s.scope != ScopePage {
		return []string{}
	}
	return s.sortedIDs()
}

// Excluded returns the ids deselected after select-all (empty unless ScopeAll).
func (s *State) Excluded() []string {
	if s.scope != ScopeAll {
		return []string{}
	}
	return s.sortedIDs()
}

func (s *State) add(id string) {
	if s.ids == nil {
		s.ids = map[string]struct{}{}
	}
	s.ids[id] = struct{}{}
}

func (s *State) resetIfEmpty() {
	if s.scope != ScopeNone && s.DerivedCount() == 0 {
		s.Clear()
	}
}

func (s *State) sortedIDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
