// Package results holds the page of search results shown in the table,
// the selection cursor and the viewport over it.
package results

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"cratetui/internal/registry"
)

const noSelection = -1

// Set is the ordered list of crates on the current page. The selection is
// present exactly when the visible list is non-empty.
type Set struct {
	all      []registry.Crate
	rows     []registry.Crate
	filter   string
	selected int
	offset   int
	height   int
}

// New returns an empty set with no selection
func New() *Set {
	return &Set{selected: noSelection}
}

// crateNames adapts a crate slice to fuzzy.Source
type crateNames []registry.Crate

func (c crateNames) String(i int) string { return c[i].Name }
func (c crateNames) Len() int            { return len(c) }

// Replace swaps in a freshly fetched page. The filter is kept and applied to
// the new rows; the selection moves to the first row.
func (s *Set) Replace(crates []registry.Crate) {
	s.all = crates
	s.rows = s.applyFilter()
	s.offset = 0
	if len(s.rows) == 0 {
		s.selected = noSelection
	} else {
		s.selected = 0
	}
}

// Clear drops every row
func (s *Set) Clear() {
	s.Replace(nil)
}

// SetFilter narrows the visible rows to crates whose name fuzzily matches q.
// It reports whether the selected crate changed.
func (s *Set) SetFilter(q string) bool {
	before, hadBefore := s.Selected()

	s.filter = q
	s.rows = s.applyFilter()
	s.offset = 0
	s.selected = noSelection
	if len(s.rows) > 0 {
		s.selected = 0
		if hadBefore {
			for i, c := range s.rows {
				if c.Name == before.Name {
					s.selected = i
					break
				}
			}
		}
	}
	s.ensureVisible()

	after, hasAfter := s.Selected()
	return hadBefore != hasAfter || before.Name != after.Name
}

// Filter returns the active filter text
func (s *Set) Filter() string {
	return s.filter
}

func (s *Set) applyFilter() []registry.Crate {
	if s.filter == "" {
		return s.all
	}
	matches := fuzzy.FindFrom(s.filter, crateNames(s.all))
	// keep page order rather than score order
	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })

	rows := make([]registry.Crate, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, s.all[m.Index])
	}
	return rows
}

// Rows returns the visible rows
func (s *Set) Rows() []registry.Crate {
	return s.rows
}

// Len returns the number of visible rows
func (s *Set) Len() int {
	return len(s.rows)
}

// Total returns the number of rows on the page before filtering
func (s *Set) Total() int {
	return len(s.all)
}

// SelectedIndex returns the selected row index
func (s *Set) SelectedIndex() (int, bool) {
	if s.selected == noSelection {
		return 0, false
	}
	return s.selected, true
}

// Selected returns the selected crate
func (s *Set) Selected() (registry.Crate, bool) {
	if s.selected == noSelection {
		return registry.Crate{}, false
	}
	return s.rows[s.selected], true
}

// Select moves the selection to row i. Selecting the row that is already
// selected, or an out of range row, is a no-op and returns false.
func (s *Set) Select(i int) bool {
	if i < 0 || i >= len(s.rows) || i == s.selected {
		return false
	}
	s.selected = i
	s.ensureVisible()
	return true
}

// ScrollNext moves the selection down by n rows, wrapping past the end
func (s *Set) ScrollNext(n int) bool {
	if len(s.rows) == 0 {
		return false
	}
	return s.Select((s.selected + n%len(s.rows)) % len(s.rows))
}

// ScrollPrevious moves the selection up by n rows, wrapping past the start
func (s *Set) ScrollPrevious(n int) bool {
	if len(s.rows) == 0 {
		return false
	}
	l := len(s.rows)
	return s.Select((s.selected - n%l + l) % l)
}

// ScrollTop selects the first row
func (s *Set) ScrollTop() bool {
	if len(s.rows) == 0 {
		return false
	}
	return s.Select(0)
}

// ScrollBottom selects the last row
func (s *Set) ScrollBottom() bool {
	if len(s.rows) == 0 {
		return false
	}
	return s.Select(len(s.rows) - 1)
}

// SetHeight sets how many rows fit in the viewport
func (s *Set) SetHeight(h int) {
	s.height = max(h, 0)
	s.ensureVisible()
}

// Offset returns the index of the first row in the viewport
func (s *Set) Offset() int {
	return s.offset
}

// Visible returns the rows inside the viewport and the selected index
// relative to the first of them (-1 when nothing is selected).
func (s *Set) Visible() ([]registry.Crate, int) {
	if len(s.rows) == 0 {
		return nil, noSelection
	}
	end := len(s.rows)
	if s.height > 0 {
		end = min(s.offset+s.height, len(s.rows))
	}
	rel := noSelection
	if s.selected != noSelection {
		rel = s.selected - s.offset
	}
	return s.rows[s.offset:end], rel
}

func (s *Set) ensureVisible() {
	if s.selected == noSelection || s.height == 0 {
		s.offset = 0
		return
	}
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+s.height {
		s.offset = s.selected - s.height + 1
	}
	if maxOffset := max(len(s.rows)-s.height, 0); s.offset > maxOffset {
		s.offset = maxOffset
	}
}
