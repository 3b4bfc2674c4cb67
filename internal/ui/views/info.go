package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// InfoRenderer draws the crate info panel and the help list
type InfoRenderer struct {
	styles *Styles
}

// NewInfoRenderer creates a new info renderer
func NewInfoRenderer(styles *Styles) *InfoRenderer {
	return &InfoRenderer{styles: styles}
}

// RenderInfo renders rows as a bordered two column panel of the given outer
// size, scrolled so that row scroll is at the top
func (r *InfoRenderer) RenderInfo(title string, rows []InfoRow, loading bool, scroll, width, height int) string {
	box := r.styles.InfoBox
	innerW := max(width-box.GetHorizontalFrameSize(), 1)
	innerH := max(height-box.GetVerticalFrameSize()-1, 1)

	heading := r.styles.Title.Render(truncate(title, innerW))
	var body string
	switch {
	case loading && len(rows) == 0:
		body = r.styles.Dim.Render("Loading…")
	case len(rows) == 0:
		body = r.styles.Dim.Render("Nothing selected")
	default:
		body = r.scrolled(r.infoLines(rows, innerW), scroll, innerW, innerH)
	}

	return box.Width(innerW).Height(innerH + 1).Render(heading + "\n" + body)
}

func (r *InfoRenderer) infoLines(rows []InfoRow, width int) []string {
	labelW := 0
	for _, row := range rows {
		labelW = max(labelW, runewidth.StringWidth(row.Label))
	}
	labelW = min(labelW, width/3)
	valueW := max(width-labelW-2, 1)

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		label := r.styles.InfoLabel.Render(cell(row.Label, labelW))
		value := r.styles.InfoValue.Render(truncate(row.Value, valueW))
		lines = append(lines, label+"  "+value)
	}
	return lines
}

// RenderHelp renders the key bindings of one mode
func (r *InfoRenderer) RenderHelp(title string, bindings []key.Binding, scroll, width, height int) string {
	keyW := 0
	for _, b := range bindings {
		keyW = max(keyW, runewidth.StringWidth(b.Help().Key))
	}
	keyW = min(keyW, max(width/3, 1))

	lines := make([]string, 0, len(bindings))
	for _, b := range bindings {
		lines = append(lines, r.styles.HelpKey.Render(cell(b.Help().Key, keyW))+"  "+r.styles.HelpDesc.Render(b.Help().Desc))
	}

	heading := r.styles.Title.Render(title)
	return heading + "\n\n" + r.scrolled(lines, scroll, width, max(height-2, 1))
}

// scrolled shows lines through a viewport with more-above and more-below
// markers
func (r *InfoRenderer) scrolled(lines []string, scroll, width, height int) string {
	vp := viewport.New(width, height)
	vp.SetContent(strings.Join(lines, "\n"))
	vp.SetYOffset(scroll)

	out := strings.Split(vp.View(), "\n")
	if len(out) > 0 && vp.YOffset > 0 {
		out[0] = r.styles.Scroll.Render("↑ more above")
	}
	if len(out) > 1 && !vp.AtBottom() {
		out[len(out)-1] = r.styles.Scroll.Render("↓ more below")
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(out, "\n"))
}
