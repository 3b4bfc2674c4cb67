package mode

import (
	"fmt"
	"strings"
)

// Mode represents the top-level view the user is interacting with
type Mode int

const (
	Common Mode = iota
	Search
	Filter
	Summary
	CrateInfo
	Help
)

var names = map[Mode]string{
	Common:    "Common",
	Search:    "Search",
	Filter:    "Filter",
	Summary:   "Summary",
	CrateInfo: "CrateInfo",
	Help:      "Help",
}

// All lists every mode in declaration order
func All() []Mode {
	return []Mode{Common, Search, Filter, Summary, CrateInfo, Help}
}

func (m Mode) String() string {
	if name, ok := names[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// IsText reports whether the mode captures printable keys into the prompt
func (m Mode) IsText() bool {
	return m == Search || m == Filter
}

// Parse converts a mode name (case-insensitive) into a Mode
func Parse(s string) (Mode, error) {
	for m, name := range names {
		if strings.EqualFold(name, s) {
			return m, nil
		}
	}
	return Common, fmt.Errorf("unknown mode %q", s)
}
