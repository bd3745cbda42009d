package selection

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return out
}

func TestToggleRowEntersAndLeavesPageScope(t *testing.T) {
	var s State

	s.ToggleRow("a", true)
	assert.Equal(t, ScopePage, s.Scope())
	assert.Equal(t, []string{"a"}, s.Selected())
	assert.Equal(t, 1, s.DerivedCount())

	s.ToggleRow("a", false)
	assert.Equal(t, ScopeNone, s.Scope())
	assert.Empty(t, s.Selected())
	assert.Equal(t, 0, s.DerivedCount())
}

func TestSelectAllAcrossPagesAndExclusions(t *testing.T) {
	var s State
	all := ids("r", 57)

	s.SelectAllAcrossPages(57)
	assert.Equal(t, ScopeAll, s.Scope())
	assert.Empty(t, s.Excluded())
	assert.Equal(t, 57, s.DerivedCount())

	s.ToggleRow("r1", false)
	assert.Equal(t, []string{"r1"}, s.Excluded())
	assert.Equal(t, 56, s.DerivedCount())
	assert.False(t, s.IsRowSelected("r1"))
	assert.True(t, s.IsRowSelected("r2"))

	for i, id := range all[1:] {
		s.ToggleRow(id, false)
		if i < len(all)-2 {
			require.Equal(t, ScopeAll, s.Scope(), "still all after %d exclusions", i+2)
		}
	}
	assert.Equal(t, ScopeNone, s.Scope())
	assert.Equal(t, 0, s.DerivedCount())
	assert.Empty(t, s.Excluded())
}

func TestReincludeAfterExclusion(t *testing.T) {
	var s State
	s.SelectAllAcrossPages(3)
	s.ToggleRow("x", false)
	s.ToggleRow("x", true)

	assert.Equal(t, ScopeAll, s.Scope())
	assert.Equal(t, 3, s.DerivedCount())
	assert.True(t, s.IsRowSelected("x"))
}

func TestSelectPageReplacesPreviousSelection(t *testing.T) {
	var s State
	s.ToggleRow("other-page", true)

	page := []string{"p1", "p2", "p3"}
	s.ToggleSelectAllOnPage(true, page)

	assert.Equal(t, ScopePage, s.Scope())
	assert.Equal(t, page, s.Selected())
	assert.Equal(t, 3, s.DerivedCount())
	assert.False(t, s.IsRowSelected("other-page"))
	assert.Equal(t, HeaderState{Checked: true}, s.HeaderCheckboxState(page))
}

func TestSelectPageIsNoopInAllScope(t *testing.T) {
	var s State
	s.SelectAllAcrossPages(10)
	s.ToggleRow("p1", false)

	s.ToggleSelectAllOnPage(true, []string{"p1", "p2"})

	assert.Equal(t, ScopeAll, s.Scope())
	assert.Equal(t, []string{"p1"}, s.Excluded())
	assert.Equal(t, 9, s.DerivedCount())
}

func TestDeselectPage(t *testing.T) {
	t.Run("page scope removes visible rows", func(t *testing.T) {
		var s State
		s.ToggleRow("a", true)
		s.ToggleRow("b", true)
		s.ToggleRow("z", true)

		s.ToggleSelectAllOnPage(false, []string{"a", "b"})
		assert.Equal(t, []string{"z"}, s.Selected())

		s.ToggleSelectAllOnPage(false, []string{"z"})
		assert.Equal(t, ScopeNone, s.Scope())
	})

	t.Run("all scope excludes visible rows", func(t *testing.T) {
		var s State
		s.SelectAllAcrossPages(5)
		s.ToggleSelectAllOnPage(false, []string{"a", "b"})

		assert.Equal(t, ScopeAll, s.Scope())
		assert.Equal(t, []string{"a", "b"}, s.Excluded())
		assert.Equal(t, 3, s.DerivedCount())
	})

	t.Run("all scope with a single page resets", func(t *testing.T) {
		var s State
		s.SelectAllAcrossPages(2)
		s.ToggleSelectAllOnPage(false, []string{"a", "b"})

		assert.Equal(t, ScopeNone, s.Scope())
		assert.Empty(t, s.Excluded())
	})
}

func TestSelectAllWithZeroOrNegativeTotal(t *testing.T) {
	var s State
	s.SelectAllAcrossPages(0)
	assert.Equal(t, ScopeNone, s.Scope())

	s.SelectAllAcrossPages(-4)
	assert.Equal(t, ScopeNone, s.Scope())
	assert.Equal(t, 0, s.DerivedCount())
}

func TestSetTotalAfterRecount(t *testing.T) {
	var s State
	s.SelectAllAcrossPages(10)
	s.ToggleRow("a", false)

	s.SetTotal(4)
	assert.Equal(t, 3, s.DerivedCount())

	s.SetTotal(1)
	assert.Equal(t, ScopeNone, s.Scope())
}

func TestUnknownAndEmptyIDsAreIgnored(t *testing.T) {
	var s State
	s.ToggleRow("ghost", false)
	assert.Equal(t, ScopeNone, s.Scope())

	s.ToggleRow("", true)
	assert.Equal(t, ScopeNone, s.Scope())

	s.ToggleSelectAllOnPage(true, nil)
	assert.Equal(t, ScopeNone, s.Scope())
}

func TestToggleRowIsIdempotent(t *testing.T) {
	var once, twice State
	once.ToggleRow("a", true)
	twice.ToggleRow("a", true)
	twice.ToggleRow("a", true)
	assert.Equal(t, once.Snapshot(), twice.Snapshot())

	once.SelectAllAcrossPages(4)
	twice.SelectAllAcrossPages(4)
	once.ToggleRow("b", false)
	twice.ToggleRow("b", false)
	twice.ToggleRow("b", false)
	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestHeaderCheckboxState(t *testing.T) {
	page := []string{"a", "b", "c"}
	var s State

	assert.Equal(t, HeaderState{}, s.HeaderCheckboxState(page))

	s.ToggleRow("b", true)
	assert.Equal(t, HeaderState{Indeterminate: true}, s.HeaderCheckboxState(page))

	s.ToggleSelectAllOnPage(true, page)
	assert.Equal(t, HeaderState{Checked: true}, s.HeaderCheckboxState(page))

	s.SelectAllAcrossPages(30)
	s.ToggleRow("c", false)
	assert.Equal(t, HeaderState{Indeterminate: true}, s.HeaderCheckboxState(page))
	assert.Equal(t, HeaderState{}, s.HeaderCheckboxState(nil))
}

func TestTargets(t *testing.T) {
	var s State
	assert.True(t, s.Targets().Empty())

	s.ToggleRow("b", true)
	s.ToggleRow("a", true)
	assert.Equal(t, Targets{IDs: []string{"a", "b"}}, s.Targets())

	s.SelectAllAcrossPages(9)
	s.ToggleRow("q", false)
	assert.Equal(t, Targets{All: true, Excluded: []string{"q"}}, s.Targets())
}

func TestSnapshotRoundTrip(t *testing.T) {
	var s State
	s.SelectAllAcrossPages(12)
	s.ToggleRow("x", false)
	s.ToggleRow("y", false)

	back, err := FromSnapshot(s.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, ScopeAll, back.Scope())
	assert.Equal(t, 10, back.DerivedCount())
	assert.Equal(t, []string{"x", "y"}, back.Excluded())

	_, err = FromSnapshot(Snapshot{Scope: "everything"})
	assert.Error(t, err)

	empty, err := FromSnapshot(Snapshot{Scope: "page"})
	require.NoError(t, err)
	assert.Equal(t, ScopeNone, empty.Scope())
}

// Random operation sequences over a fixed universe of rows; total == len(universe)
// so every excluded id is a known row.
func TestRandomSequencesKeepInvariants(t *testing.T) {
	universe := ids("u", 20)
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		var s State
		for step := 0; step < 40; step++ {
			switch rng.Intn(5) {
			case 0, 1:
				s.ToggleRow(universe[rng.Intn(len(universe))], rng.Intn(2) == 0)
			case 2:
				start := rng.Intn(len(universe))
				end := start + 1 + rng.Intn(5)
				if end > len(universe) {
					end = len(universe)
				}
				s.ToggleSelectAllOnPage(rng.Intn(2) == 0, universe[start:end])
			case 3:
				if rng.Intn(3) == 0 {
					s.SelectAllAcrossPages(len(universe))
				}
			case 4:
				if rng.Intn(10) == 0 {
					s.Clear()
				}
			}

			counted := 0
			for _, id := range universe {
				if s.IsRowSelected(id) {
					counted++
				}
			}
			require.Equal(t, counted, s.DerivedCount(), "count consistency run=%d step=%d", run, step)

			require.False(t, len(s.Selected()) > 0 && len(s.Excluded()) > 0, "both sets populated")

			if s.DerivedCount() == 0 {
				require.Equal(t, ScopeNone, s.Scope())
				require.Empty(t, s.Selected())
				require.Empty(t, s.Excluded())
			}

			page := universe[:5]
			h := s.HeaderCheckboxState(page)
			n := 0
			for _, id := range page {
				if s.IsRowSelected(id) {
					n++
				}
			}
			require.Equal(t, n == len(page), h.Checked)
			require.Equal(t, n > 0 && n < len(page), h.Indeterminate)
		}
	}
}
