package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"cratetui/internal/config"
	"cratetui/internal/registry"
)

// InfoRow is one labelled line of the crate info panel
type InfoRow struct {
	Label string
	Value string
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	// Title bar
	Loading     bool
	Spinner     string
	LoadingText string
	Filter      string

	// Prompt box
	PromptTitle  string
	PromptActive bool
	PromptView   string
	Query        string

	// Results table, or the summary list in summary mode
	Rows        []registry.Crate
	Selected    int
	Offset      int
	RowCount    int
	TableHeight int
	InSummary   bool
	SummaryTabs []string
	SummaryTab  int
	EmptyText   string

	// Crate info
	ShowInfoPane bool
	FullInfo     bool
	InfoTitle    string
	InfoRows     []InfoRow
	InfoLoading  bool
	InfoScroll   int

	// Help
	ShowHelp     bool
	HelpTitle    string
	HelpBindings []key.Binding
	HelpScroll   int

	Status    string
	HintModel help.Model
	Hints     []key.Binding

	PopupMessage string
	PopupIsError bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	table       *TableRenderer
	info        *InfoRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(style config.Style) *Renderer {
	styles := NewStyles(style)
	return &Renderer{
		styles:      styles,
		table:       NewTableRenderer(styles),
		info:        NewInfoRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = 80
	}

	var content strings.Builder
	content.WriteString(r.renderTitle(state, width))
	content.WriteString("\n")
	content.WriteString(r.renderPrompt(state, width))
	content.WriteString("\n")
	content.WriteString(r.renderBody(state, width))
	content.WriteString("\n")
	content.WriteString(r.styles.Status.Render(truncate(state.Status, width)))
	content.WriteString("\n")
	state.HintModel.Width = width
	content.WriteString(state.HintModel.ShortHelpView(state.Hints))

	final := content.String()
	if state.Height > 0 {
		final = lipgloss.NewStyle().MaxHeight(state.Height).Render(final)
	}

	if state.ShowHelp {
		body := r.info.RenderHelp(state.HelpTitle, state.HelpBindings, state.HelpScroll, width-10, max(state.Height-8, 5))
		final = r.popupRender.RenderPopupOverlay(final, body, state.Height, width, r.styles.HelpBox)
	}

	if state.PopupMessage != "" {
		style := r.styles.PopupInfo
		if state.PopupIsError {
			style = r.styles.PopupError
		}
		msg := state.PopupMessage + "\n\n" + r.styles.Dim.Render("esc / enter to close")
		final = r.popupRender.RenderPopupOverlay(final, msg, state.Height, width, style)
	}

	return final
}

func (r *Renderer) renderTitle(state ViewState, width int) string {
	logo := r.styles.Title.Render("cratetui")

	var right []string
	if state.Loading {
		right = append(right, r.styles.Dim.Render(fmt.Sprintf("%s %s", state.Spinner, state.LoadingText)))
	}
	if state.Filter != "" {
		right = append(right, r.styles.Filter.Render(fmt.Sprintf("[Filter: %s]", state.Filter)))
	}
	if len(right) == 0 {
		return logo
	}

	rightContent := strings.Join(right, "  ")
	padding := width - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + rightContent
}

func (r *Renderer) renderPrompt(state ViewState, width int) string {
	style := r.styles.PromptBox
	text := state.PromptView
	if !state.PromptActive {
		text = r.styles.Dim.Render(state.Query)
	}
	inner := width - style.GetHorizontalFrameSize()
	box := style.Width(max(inner, 1)).Render(text)
	if state.PromptActive {
		box = r.styles.PromptActive.Width(max(inner, 1)).Render(text)
	}

	// put the title into the top border
	lines := strings.SplitN(box, "\n", 2)
	if len(lines) == 2 && state.PromptTitle != "" {
		title := " " + state.PromptTitle + " "
		top := lines[0]
		if lipgloss.Width(top) > lipgloss.Width(title)+4 {
			lines[0] = truncateANSI(top, 2) + r.styles.Accent.Render(title) + truncateLeftANSI(top, 2+lipgloss.Width(title))
		}
		box = lines[0] + "\n" + lines[1]
	}
	return box
}

func (r *Renderer) renderBody(state ViewState, width int) string {
	height := max(state.TableHeight, 1)

	if state.FullInfo {
		return r.info.RenderInfo(state.InfoTitle, state.InfoRows, state.InfoLoading, state.InfoScroll, width, height+1)
	}

	tableWidth := width
	paneWidth := 0
	if state.ShowInfoPane && !state.InSummary && width >= 60 {
		paneWidth = width * 2 / 5
		tableWidth = width - paneWidth
	}

	var header string
	if state.InSummary {
		header = r.renderTabs(state.SummaryTabs, state.SummaryTab, tableWidth)
	} else {
		header = r.table.RenderHeader(tableWidth)
	}
	table := header + "\n" + r.table.RenderRows(state.Rows, state.Selected, state.Offset, state.RowCount, tableWidth, height, state.EmptyText)

	if paneWidth == 0 {
		return table
	}
	pane := r.info.RenderInfo(state.InfoTitle, state.InfoRows, state.InfoLoading, state.InfoScroll, paneWidth, height+1)
	return lipgloss.JoinHorizontal(lipgloss.Top, table, pane)
}

func (r *Renderer) renderTabs(tabs []string, active, width int) string {
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		if i == active {
			parts = append(parts, r.styles.TabActive.Render(tab))
		} else {
			parts = append(parts, r.styles.Tab.Render(tab))
		}
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, ""))
}
