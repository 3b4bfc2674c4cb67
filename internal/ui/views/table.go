package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"cratetui/internal/registry"
)

// TimeLayout formats the Last Updated column
const TimeLayout = "2006-01-02 15:04:05"

const (
	downloadsWidth = 14
	updatedWidth   = len(TimeLayout)
	columnGap      = 2
)

// TableRenderer draws the results table
type TableRenderer struct {
	styles *Styles
}

// NewTableRenderer creates a new table renderer
func NewTableRenderer(styles *Styles) *TableRenderer {
	return &TableRenderer{styles: styles}
}

type columns struct {
	name, description, downloads, updated int
}

// layout splits width between the columns. Narrow terminals drop the date
// and then the download count.
func layout(width int) columns {
	c := columns{downloads: downloadsWidth, updated: updatedWidth}
	rest := width - c.downloads - c.updated - 3*columnGap
	if rest < 30 {
		c.updated = 0
		rest = width - c.downloads - 2*columnGap
	}
	if rest < 20 {
		c.downloads = 0
		rest = width - columnGap
	}
	rest = max(rest, 2)
	c.name = max(min(rest/3, 32), 1)
	c.description = max(rest-c.name, 1)
	return c
}

// RenderHeader renders the column titles
func (t *TableRenderer) RenderHeader(width int) string {
	c := layout(width)
	return t.styles.Header.Render(t.line(c, "Name", "Description", "Downloads", "Last Updated"))
}

// RenderRows renders the visible rows. selected is relative to offset.
func (t *TableRenderer) RenderRows(rows []registry.Crate, selected, offset, total, width, height int, empty string) string {
	if len(rows) == 0 {
		out := []string{t.styles.Dim.Render(truncate(empty, width))}
		for len(out) < height {
			out = append(out, "")
		}
		return strings.Join(out, "\n")
	}

	c := layout(width)
	lines := make([]string, 0, height)
	for i, crate := range rows {
		if len(lines) == height {
			break
		}
		downloads := humanize.Comma(int64(crate.Downloads))
		updated := ""
		if !crate.UpdatedAt.IsZero() {
			updated = crate.UpdatedAt.Local().Format(TimeLayout)
		}
		text := t.line(c, crate.Name, oneLine(crate.Description), downloads, updated)

		style := t.styles.Row
		switch {
		case i == selected:
			style = t.styles.RowSelected
		case (offset+i)%2 == 1:
			style = t.styles.RowAlt
		}
		lines = append(lines, style.Render(runewidth.FillRight(text, width)))
	}

	// scroll markers take the last line when rows are hidden
	if below := total - offset - len(lines); below > 0 && len(lines) == height && height > 1 {
		lines[height-1] = t.styles.Scroll.Render(fmt.Sprintf("↓ %d more below", below))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (t *TableRenderer) line(c columns, name, description, downloads, updated string) string {
	gap := strings.Repeat(" ", columnGap)
	var b strings.Builder
	b.WriteString(cell(name, c.name))
	b.WriteString(gap)
	b.WriteString(cell(description, c.description))
	if c.downloads > 0 {
		b.WriteString(gap)
		b.WriteString(runewidth.FillLeft(truncate(downloads, c.downloads), c.downloads))
	}
	if c.updated > 0 {
		b.WriteString(gap)
		b.WriteString(cell(updated, c.updated))
	}
	return b.String()
}

func cell(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateANSI(s string, width int) string {
	return ansi.Truncate(s, width, "")
}

func truncateLeftANSI(s string, width int) string {
	return ansi.TruncateLeft(s, width, "")
}
