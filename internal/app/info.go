package app

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"cratetui/internal/registry"
)

// TimeLayout formats timestamps in tables
const TimeLayout = "2006-01-02 15:04:05"

// SummaryList selects which front-page list Summary mode shows
type SummaryList int

const (
	NewCrates SummaryList = iota
	MostDownloaded
	JustUpdated
	MostRecentlyDownloaded
	PopularKeywords
	PopularCategories
	summaryListCount
)

var summaryTitles = [...]string{
	NewCrates:              "New Crates",
	MostDownloaded:         "Most Downloaded",
	JustUpdated:            "Just Updated",
	MostRecentlyDownloaded: "Most Recent Downloads",
	PopularKeywords:        "Popular Keywords",
	PopularCategories:      "Popular Categories",
}

func (s SummaryList) String() string {
	if s < 0 || s >= summaryListCount {
		return fmt.Sprintf("SummaryList(%d)", int(s))
	}
	return summaryTitles[s]
}

// Next returns the following list, wrapping
func (s SummaryList) Next() SummaryList {
	return (s + 1) % summaryListCount
}

// Prev returns the preceding list, wrapping
func (s SummaryList) Prev() SummaryList {
	return (s - 1 + summaryListCount) % summaryListCount
}

// SummaryLists returns every list in display order
func SummaryLists() []SummaryList {
	out := make([]SummaryList, 0, summaryListCount)
	for s := NewCrates; s < summaryListCount; s++ {
		out = append(out, s)
	}
	return out
}

// summaryRows flattens one summary list into table rows. Keywords and
// categories become rows whose name is the search term.
func summaryRows(s registry.Summary, list SummaryList) []registry.Crate {
	switch list {
	case NewCrates:
		return s.NewCrates
	case MostDownloaded:
		return s.MostDownloaded
	case JustUpdated:
		return s.JustUpdated
	case MostRecentlyDownloaded:
		return s.MostRecentlyDownloaded
	case PopularKeywords:
		rows := make([]registry.Crate, 0, len(s.PopularKeywords))
		for _, k := range s.PopularKeywords {
			rows = append(rows, registry.Crate{
				Name:        k.ID,
				Description: humanize.Comma(int64(k.CratesCnt)) + " crates",
			})
		}
		return rows
	case PopularCategories:
		rows := make([]registry.Crate, 0, len(s.PopularCategories))
		for _, c := range s.PopularCategories {
			rows = append(rows, registry.Crate{
				Name:        c.Category,
				Description: humanize.Comma(int64(c.CratesCnt)) + " crates",
			})
		}
		return rows
	}
	return nil
}

// InfoRow is one labelled line of the crate info table
type InfoRow struct {
	Label string
	Value string
}

// InfoRows lists the crate info table. Optional fields only appear when
// the registry returned them.
func InfoRows(c registry.Crate) []InfoRow {
	rows := []InfoRow{
		{"Name", c.Name},
		{"Created At", stamp(c.CreatedAt, false)},
		{"Updated At", stamp(c.UpdatedAt, true)},
		{"Max Version", c.MaxVersion},
	}
	if c.Description != "" {
		rows = append(rows, InfoRow{"Description", strings.TrimSpace(c.Description)})
	}
	if c.Homepage != "" {
		rows = append(rows, InfoRow{"Homepage", c.Homepage})
	}
	if c.Repository != "" {
		rows = append(rows, InfoRow{"Repository", c.Repository})
	}
	if c.Documentation != "" {
		rows = append(rows, InfoRow{"Documentation", c.Documentation})
	}
	rows = append(rows, InfoRow{"Downloads", humanize.Comma(int64(c.Downloads))})
	if c.RecentDownloads != nil {
		rows = append(rows, InfoRow{"Recent Downloads", humanize.Comma(int64(*c.RecentDownloads))})
	}
	if c.MaxStableVersion != "" {
		rows = append(rows, InfoRow{"Max Stable Version", c.MaxStableVersion})
	}
	for i, o := range c.Owners {
		label := ""
		if i == 0 {
			label = "Owners"
		}
		owner := o.Login
		if o.Name != "" {
			owner = fmt.Sprintf("%s (%s)", o.Name, o.Login)
		}
		rows = append(rows, InfoRow{label, owner})
	}
	return rows
}

func stamp(t time.Time, relative bool) string {
	if t.IsZero() {
		return ""
	}
	if relative {
		return t.Format(TimeLayout) + " (" + humanize.Time(t) + ")"
	}
	return t.Format(TimeLayout)
}

// CargoAddCommand is the install command copied to the clipboard
func CargoAddCommand(name string) string {
	return "cargo add " + name
}

// DocsURL prefers the crate's own documentation link and falls back to docs.rs
func DocsURL(c registry.Crate) string {
	if c.Documentation != "" {
		return c.Documentation
	}
	name := url.PathEscape(c.Name)
	return fmt.Sprintf("https://docs.rs/%s/latest/%s", name, strings.ReplaceAll(name, "-", "_"))
}

// CratesIOURL is the crate's page on crates.io
func CratesIOURL(name string) string {
	return "https://crates.io/crates/" + url.PathEscape(name)
}
