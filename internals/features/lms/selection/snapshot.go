package selection

import "fmt"

// Snapshot adalah bentuk serial dari State (untuk disimpan / dikirim ke client).
type Snapshot struct {
	Scope string   `json:"scope"`
	IDs   []string `json:"ids"`
	Total int      `json:"total"`
}

// Targets describes what a bulk action should touch.
// All=false: exactly IDs. All=true: every row matching the filter except Excluded.
type Targets struct {
	All      bool     `json:"all"`
	IDs      []string `json:"ids,omitempty"`
	Excluded []string `json:"excluded,omitempty"`
}

func (t Targets) Empty() bool { return !t.All && len(t.IDs) == 0 }

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{Scope: s.scope.String(), IDs: []string{}}
	switch s.scope {
	case ScopePage:
		snap.IDs = s.sortedIDs()
	case ScopeAll:
		snap.IDs = s.sortedIDs()
		snap.Total = s.total
	}
	return snap
}

// FromSnapshot rebuilds a State. The zero-count rule is applied, so a stored
// "page" snapshot without ids comes back as an empty selection.
func FromSnapshot(snap Snapshot) (State, error) {
	scope, err := ParseScope(snap.Scope)
	if err != nil {
		return State{}, err
	}
	if snap.Total < 0 {
		return State{}, fmt.Errorf("total tidak boleh negatif: %d", snap.Total)
	}

	var st State
	switch scope {
	case ScopePage:
		st.scope = ScopePage
		st.ids = make(map[string]struct{}, len(snap.IDs))
		for _, id := range snap.IDs {
			if id != "" {
				st.ids[id] = struct{}{}
			}
		}
	case ScopeAll:
		st.SelectAllAcrossPages(snap.Total)
		for _, id := range snap.IDs {
			if st.scope != ScopeAll {
				break
			}
			st.ToggleRow(id, false)
		}
	}
	st.resetIfEmpty()
	return st, nil
}

func (s *State) Targets() Targets {
	switch s.scope {
	case ScopeAll:
		return Targets{All: true, Excluded: s.sortedIDs()}
	case ScopePage:
		return Targets{IDs: s.sortedIDs()}
	}
	return Targets{}
}
