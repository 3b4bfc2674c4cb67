package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{styles: styles}
}

// RenderPopupOverlay draws popupContent centred over a faded copy of
// mainContent
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	maxW := max(width-6, 10)
	styled := popupStyle.MaxWidth(maxW).Render(wrap(popupContent, maxW-popupStyle.GetHorizontalFrameSize()))

	modalW := lipgloss.Width(styled)
	modalH := lipgloss.Height(styled)
	x := max((width-modalW)/2, 0)
	y := max((height-modalH)/2, 0)

	base := strings.Split(pr.fade(mainContent), "\n")
	for len(base) < height {
		base = append(base, "")
	}

	for i, line := range strings.Split(styled, "\n") {
		row := y + i
		if row >= len(base) {
			break
		}
		base[row] = splice(base[row], line, x, modalW)
	}
	return strings.Join(base, "\n")
}

// fade strips colors from the background so the popup stands out
func (pr *PopupRenderer) fade(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = pr.styles.Faded.Render(ansi.Strip(line))
	}
	return strings.Join(lines, "\n")
}

// splice replaces the cells [x, x+w) of line with overlay
func splice(line, overlay string, x, w int) string {
	left := ansi.Truncate(line, x, "")
	if pad := x - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}
	right := ansi.TruncateLeft(line, x+w, "")
	return left + overlay + right
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Wordwrap(s, width, "")
}
