package viewmodels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/dustin/go-humanize"

	"cratetui/internal/app"
	"cratetui/internal/mode"
	"cratetui/internal/ui/views"
)

// hintCount is how many bindings the bottom hint line shows
const hintCount = 6

// ViewModel transforms controller state into view-ready data
type ViewModel struct {
	ctrl             *app.Controller
	help             help.Model
	inputTransformer *InputTransformer
}

// NewViewModel creates a new view model
func NewViewModel(ctrl *app.Controller) *ViewModel {
	return &ViewModel{
		ctrl:             ctrl,
		help:             help.New(),
		inputTransformer: NewInputTransformer(),
	}
}

// BuildViewState creates a ViewState for rendering. spinner is the current
// spinner frame.
func (vm *ViewModel) BuildViewState(spinner string) views.ViewState {
	c := vm.ctrl
	width, height := c.Size()
	current := c.Mode()
	base := current
	if current == mode.Help {
		base = c.PreviousMode()
	}

	state := views.ViewState{
		Width:       width,
		Height:      height,
		Spinner:     spinner,
		Filter:      c.Filter(),
		PromptTitle: PromptTitle(current, c.Sort()),
		Query:       c.Query(),
		HintModel:   vm.help,
		Status:      vm.status(),
	}

	search, detail, summary := c.Loading()
	state.Loading = search || detail || summary
	state.LoadingText = loadingText(search, detail, summary)

	if current.IsText() {
		state.PromptActive = true
		state.PromptView = vm.inputTransformer.GetInputText(c.Prompt(), width-4)
		if current == mode.Filter {
			state.Filter = c.Prompt().Value()
		}
	}

	rows := c.Results()
	state.EmptyText = "No crates found"
	if base == mode.Summary {
		rows = c.SummaryRows()
		state.InSummary = true
		for _, l := range app.SummaryLists() {
			state.SummaryTabs = append(state.SummaryTabs, l.String())
		}
		state.SummaryTab = int(c.SummaryList())
		state.EmptyText = "Loading summary…"
		if _, ok := c.Summary(); ok {
			state.EmptyText = "Nothing here"
		}
	}
	visible, selected := rows.Visible()
	state.Rows = visible
	state.Selected = selected
	state.Offset = rows.Offset()
	state.RowCount = rows.Len()
	state.TableHeight = max(height-7, 1)

	state.ShowInfoPane = c.ShowCrateInfo()
	state.FullInfo = base == mode.CrateInfo
	if state.ShowInfoPane || state.FullInfo {
		vm.fillInfo(&state, detail)
	}

	if current == mode.Help {
		state.ShowHelp = true
		state.HelpTitle = "Help: " + base.String()
		state.HelpBindings = c.Keys().Help(base)
		state.HelpScroll = c.HelpScroll()
	}

	state.Hints = hints(c.Keys().Help(current))

	if p, ok := c.Popup(); ok {
		state.PopupMessage = p.Message
		state.PopupIsError = p.Kind == app.PopupError
	}
	return state
}

func (vm *ViewModel) fillInfo(state *views.ViewState, loading bool) {
	c := vm.ctrl
	state.InfoScroll = c.InfoScroll()
	if crate, ok := c.Detail(); ok {
		state.InfoTitle = crate.Name
		for _, row := range app.InfoRows(crate) {
			state.InfoRows = append(state.InfoRows, views.InfoRow{Label: row.Label, Value: row.Value})
		}
		return
	}
	if sel, ok := c.Results().Selected(); ok {
		state.InfoTitle = sel.Name
		state.InfoLoading = loading
	}
}

// status is the line under the table: mode, page, totals and sort
func (vm *ViewModel) status() string {
	c := vm.ctrl
	parts := []string{c.Mode().String()}

	if c.Mode() == mode.Summary {
		if s, ok := c.Summary(); ok {
			parts = append(parts,
				fmt.Sprintf("%s crates", humanize.Comma(int64(s.NumCrates))),
				fmt.Sprintf("%s downloads", humanize.Comma(int64(s.NumDownloads))),
			)
		}
		return strings.Join(append(parts, c.SummaryList().String()), " • ")
	}

	if last, ok := c.LastPage(); ok {
		parts = append(parts, fmt.Sprintf("Page %d/%d", c.Page(), last))
	} else {
		parts = append(parts, fmt.Sprintf("Page %d", c.Page()))
	}
	if total, ok := c.Total(); ok {
		parts = append(parts, fmt.Sprintf("%s crates", humanize.Comma(int64(total))))
	}
	if idx, ok := c.Results().SelectedIndex(); ok {
		parts = append(parts, fmt.Sprintf("%d/%d", idx+1, c.Results().Len()))
	}
	parts = append(parts, "Sort: "+c.Sort().String())
	if q := c.Query(); q != "" {
		parts = append(parts, fmt.Sprintf("Query: %q", q))
	}
	return strings.Join(parts, " • ")
}

func loadingText(search, detail, summary bool) string {
	var what []string
	if search {
		what = append(what, "crates")
	}
	if detail {
		what = append(what, "info")
	}
	if summary {
		what = append(what, "summary")
	}
	if len(what) == 0 {
		return ""
	}
	return "Loading " + strings.Join(what, ", ")
}

// hints picks the help binding and a few others for the bottom line
func hints(bindings []key.Binding) []key.Binding {
	out := make([]key.Binding, 0, hintCount)
	for _, b := range bindings {
		if b.Help().Desc == "ToggleShowHelp" {
			out = append([]key.Binding{b}, out...)
			continue
		}
		if len(out) < hintCount {
			out = append(out, b)
		}
	}
	if len(out) > hintCount {
		out = out[:hintCount]
	}
	return out
}
