package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"cratetui/internal/action"
	"cratetui/internal/app"
	"cratetui/internal/ui/viewmodels"
	"cratetui/internal/ui/views"
)

// Model adapts the controller to bubbletea. Every terminal event and every
// queued fetch result becomes an action handed to Dispatch; the model holds
// no session state of its own.
type Model struct {
	ctrl      *app.Controller
	queue     *app.Queue
	ctx       context.Context
	tickRate  time.Duration
	renderer  *views.Renderer
	viewModel *viewmodels.ViewModel
	spinner   spinner.Model

	frame string
	dirty bool
}

// NewModel creates the UI model. ctx bounds the queue listener.
func NewModel(ctx context.Context, ctrl *app.Controller, queue *app.Queue) *Model {
	cfg := ctrl.Config()
	s := spinner.New()
	s.Spinner = spinner.Dot

	tickRate := cfg.TickRate.Duration
	if tickRate <= 0 {
		tickRate = 500 * time.Millisecond
	}

	return &Model{
		ctrl:      ctrl,
		queue:     queue,
		ctx:       ctx,
		tickRate:  tickRate,
		renderer:  views.NewRenderer(cfg.Style),
		viewModel: viewmodels.NewViewModel(ctrl),
		spinner:   s,
		dirty:     true,
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return initMsg{} },
		m.tick(),
		m.listen(),
		m.spinner.Tick,
	)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.tickRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// listen waits for the next queued action
func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		a, err := m.queue.Recv(m.ctx)
		if err != nil {
			return queueClosedMsg{err: err}
		}
		return queuedMsg{action: a}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case initMsg:
		m.dispatch(action.Init{})

	case tea.WindowSizeMsg:
		m.dispatch(action.Resize{Width: msg.Width, Height: msg.Height})

	case tea.KeyMsg:
		for _, a := range keyActions(msg) {
			m.dispatch(a)
		}

	case tea.MouseMsg:
		if a, ok := mouseAction(msg); ok {
			m.dispatch(a)
		}

	case tickMsg:
		m.dispatch(action.Tick{})
		cmds = append(cmds, m.tick())

	case queuedMsg:
		m.dispatch(msg.action)
		cmds = append(cmds, m.listen())

	case queueClosedMsg:
		if !errors.Is(msg.err, context.Canceled) {
			log.WithError(msg.err).Warn("action queue stopped")
		}
		return m, tea.Quit

	case tea.ResumeMsg:
		m.dispatch(action.Resume{})

	case pagerDoneMsg:
		if msg.err != nil {
			m.dispatch(action.ShowErrorPopup{Message: msg.err.Error()})
		}
		m.dispatch(action.Render{})

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
		if m.ctrl.Busy() {
			m.dirty = true
		}
	}

	if m.ctrl.ShouldQuit() {
		return m, tea.Quit
	}
	if m.ctrl.ConsumeSuspend() {
		cmds = append(cmds, tea.Suspend)
	}
	if req, ok := m.ctrl.ConsumePager(); ok {
		cmds = append(cmds, openPager(req))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) dispatch(a action.Action) {
	if m.ctrl.Dispatch(a) {
		m.dirty = true
	}
}

// View repaints only when something changed since the last frame
func (m *Model) View() string {
	if m.dirty {
		m.frame = m.renderer.Render(m.viewModel.BuildViewState(m.spinner.View()))
		m.dirty = false
	}
	return m.frame
}

// keyActions turns a key press into Key actions. Pasted or buffered runes
// arrive as one message and become one action each.
func keyActions(msg tea.KeyMsg) []action.Action {
	if msg.Type == tea.KeyRunes && !msg.Alt && len(msg.Runes) > 1 {
		out := make([]action.Action, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			out = append(out, action.Key{Key: string(r)})
		}
		return out
	}
	return []action.Action{action.Key{Key: msg.String()}}
}

// mouseAction maps the wheel to row scrolling
func mouseAction(msg tea.MouseMsg) (action.Action, bool) {
	if msg.Action != tea.MouseActionPress {
		return nil, false
	}
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		return action.ScrollDown{}, true
	case tea.MouseButtonWheelUp:
		return action.ScrollUp{}, true
	}
	return nil, false
}
