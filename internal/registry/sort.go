package registry

import (
	"fmt"
	"strings"
)

// Sort is the order the registry returns search results in
type Sort int

const (
	Relevance Sort = iota
	Alphabetical
	Downloads
	RecentDownloads
	RecentUpdates
	NewlyAdded
)

// SortOptions is the cycle ToggleSortBy walks through
var SortOptions = []struct {
	Sort  Sort
	Key   string
	Label string
}{
	{Relevance, "relevance", "Relevance"},
	{Alphabetical, "alpha", "Alphabetical"},
	{Downloads, "downloads", "All-Time Downloads"},
	{RecentDownloads, "recent-downloads", "Recent Downloads"},
	{RecentUpdates, "recent-updates", "Recent Updates"},
	{NewlyAdded, "new", "Newly Added"},
}

func (s Sort) index() int {
	for i, opt := range SortOptions {
		if opt.Sort == s {
			return i
		}
	}
	return 0
}

// Key returns the value of the registry's sort query parameter
func (s Sort) Key() string {
	return SortOptions[s.index()].Key
}

func (s Sort) String() string {
	return SortOptions[s.index()].Label
}

// Next returns the following sort key, wrapping at the end
func (s Sort) Next() Sort {
	return SortOptions[(s.index()+1)%len(SortOptions)].Sort
}

// Prev returns the preceding sort key, wrapping at the start
func (s Sort) Prev() Sort {
	n := len(SortOptions)
	return SortOptions[(s.index()-1+n)%n].Sort
}

// ParseSort accepts either the query key ("recent-downloads") or the
// label ("Recent Downloads"), case-insensitively.
func ParseSort(s string) (Sort, error) {
	for _, opt := range SortOptions {
		if strings.EqualFold(opt.Key, s) || strings.EqualFold(opt.Label, s) {
			return opt.Sort, nil
		}
	}
	return Relevance, fmt.Errorf("unknown sort %q", s)
}
