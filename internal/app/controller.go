// Package app is the session controller: it owns every piece of mutable
// state, applies actions to it one at a time, and starts the background
// fetches whose results come back as actions.
package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"cratetui/internal/action"
	"cratetui/internal/config"
	"cratetui/internal/keymap"
	"cratetui/internal/mode"
	"cratetui/internal/prompt"
	"cratetui/internal/registry"
	"cratetui/internal/results"
	"cratetui/internal/tasks"
)

// chromeLines is the number of screen lines around the results table:
// title, prompt box, table header, status bar and hint line.
const chromeLines = 7

// Clipboard receives the install command
type Clipboard interface {
	WriteAll(text string) error
}

// URLOpener launches a browser
type URLOpener interface {
	OpenURL(url string) error
}

// PopupKind distinguishes error popups from informational ones
type PopupKind int

const (
	PopupInfo PopupKind = iota
	PopupError
)

// Popup is a dismissible message drawn over the view
type Popup struct {
	Kind    PopupKind
	Message string
}

// PagerRequest is text the view should hand to the pager
type PagerRequest struct {
	Title string
	Rows  []InfoRow
}

// Options wires a Controller to its collaborators
type Options struct {
	Config    *config.Config
	Keys      *keymap.Table
	Client    registry.Client
	Queue     *Queue
	Clipboard Clipboard
	Opener    URLOpener
	// Context bounds every fetch; cancelling it cancels them all.
	Context context.Context
	// Fatal is called from a fetch goroutine when its result cannot be
	// queued because the consumer is gone. It must stop the process.
	Fatal func(error)
	// Go runs a fetch. Defaults to starting a goroutine.
	Go func(func())
	// Query and Sort seed the first search.
	Query string
	Sort  registry.Sort
}

type searchRequest struct {
	query       string
	page        int
	clearFilter bool
}

// Controller holds all session state. It is driven from a single goroutine.
type Controller struct {
	cfg    *config.Config
	keys   *keymap.Table
	client registry.Client
	queue  *Queue
	clip   Clipboard
	opener URLOpener
	fatal  func(error)
	run    func(func())

	mode    *mode.Machine
	field   *prompt.Field
	results *results.Set
	tasks   *tasks.Registry

	detail        *registry.Crate
	detailPending string
	summary       *registry.Summary
	summaryList   SummaryList
	summaryRows   *results.Set

	query      string
	filter     string
	page       int
	total      uint64
	totalKnown bool
	sort       registry.Sort
	// want is the search the next fetch asks for. query and page only
	// follow it once that fetch succeeds.
	want searchRequest

	popup         *Popup
	pager         *PagerRequest
	showCrateInfo bool
	infoScroll    int
	helpScroll    int
	width         int
	height        int
	recentKeys    []string
	quitting      bool
	suspend       bool
}

// New builds a controller in Common mode with empty state
func New(opts Options) *Controller {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	fatal := opts.Fatal
	if fatal == nil {
		fatal = func(err error) { log.WithError(err).Fatal("controller stopped") }
	}
	run := opts.Go
	if run == nil {
		run = func(f func()) { go f() }
	}

	return &Controller{
		cfg:         opts.Config,
		keys:        opts.Keys,
		client:      opts.Client,
		queue:       opts.Queue,
		clip:        opts.Clipboard,
		opener:      opts.Opener,
		fatal:       fatal,
		run:         run,
		mode:        mode.NewMachine(),
		field:       prompt.New(),
		results:     results.New(),
		tasks:       tasks.NewRegistry(ctx),
		summaryRows: results.New(),
		query:       opts.Query,
		page:        1,
		want:        searchRequest{query: opts.Query, page: 1},
		sort:        opts.Sort,
	}
}

// Dispatch applies a and every follow-up action it produces, in order, and
// reports whether the screen needs repainting. Only Tick and unrecognized
// keys leave the screen as it was.
func (c *Controller) Dispatch(a action.Action) bool {
	pending := []action.Action{a}
	render := false

	for len(pending) > 0 {
		next := pending[0]
		pending = pending[1:]

		switch next.(type) {
		case action.Tick, action.Render:
		default:
			log.WithField("mode", c.mode.Current()).Debug(next.String())
		}

		follow, err := c.apply(next)
		if err != nil {
			log.WithError(err).Warnf("%s failed", next)
			follow = action.ShowErrorPopup{Message: err.Error()}
		}

		switch next.(type) {
		case action.Tick:
		case action.Key:
			// a key only repaints through the action it maps to
		default:
			render = true
		}

		if follow != nil {
			pending = append(pending, follow)
		}
	}

	return render
}

// translate maps a raw key to an action for the current mode
func (c *Controller) translate(k string) (action.Action, bool) {
	if c.popup != nil {
		switch k {
		case "esc", "enter", "q":
			return action.ClosePopup{}, true
		}
	}

	current := c.mode.Current()
	if a, ok := c.keys.Lookup(current, c.recentKeys, k); ok {
		c.recentKeys = nil
		return a, true
	}
	c.recentKeys = append(c.recentKeys, k)

	if k == "esc" && (current.IsText() || current == mode.Help) {
		return action.SwitchMode{Mode: c.mode.Previous()}, true
	}
	if current.IsText() {
		return keymap.Edit(k)
	}
	return nil, false
}

func (c *Controller) spawn(fetch func() action.Action) {
	c.run(func() {
		a := fetch()
		if err := c.queue.Send(a); err != nil {
			c.fatal(fmt.Errorf("failed to deliver %s: %w", a, err))
		}
	})
}

func (c *Controller) startSearch() {
	gen, ctx := c.tasks.Start(tasks.Search)
	q := registry.SearchQuery{
		Text:    c.want.query,
		Page:    c.want.page,
		PerPage: c.cfg.PageSize,
		Sort:    c.sort,
	}
	log.WithFields(log.Fields{"query": q.Text, "page": q.Page, "sort": q.Sort.Key(), "gen": gen}).Debug("search started")

	c.spawn(func() action.Action {
		res, err := c.client.Search(ctx, q)
		return action.SearchCompleted{
			Generation: gen,
			Query:      q.Text,
			Page:       q.Page,
			Crates:     res.Crates,
			Total:      res.Total,
			Err:        err,
		}
	})
}

func (c *Controller) startDetail(name string) {
	gen, ctx := c.tasks.Start(tasks.Detail)
	log.WithFields(log.Fields{"crate": name, "gen": gen}).Debug("detail started")

	c.spawn(func() action.Action {
		crate, err := c.client.Crate(ctx, name)
		return action.DetailCompleted{Generation: gen, Name: name, Crate: crate, Err: err}
	})
}

func (c *Controller) startSummary() {
	gen, ctx := c.tasks.Start(tasks.Summary)

	c.spawn(func() action.Action {
		s, err := c.client.Summary(ctx)
		return action.SummaryCompleted{Generation: gen, Summary: s, Err: err}
	})
}

// refreshDetail makes the detail follow the selected row. Detail belonging
// to another crate is dropped at once so it is never shown.
func (c *Controller) refreshDetail(force bool) {
	selected, ok := c.results.Selected()
	if !ok {
		c.tasks.Cancel(tasks.Detail)
		c.detail = nil
		return
	}
	if c.detail != nil && c.detail.Name == selected.Name && !force {
		return
	}
	if c.detail != nil && c.detail.Name != selected.Name {
		c.detail = nil
	}
	if _, inFlight := c.tasks.Live(tasks.Detail); inFlight && !force && c.detailPending == selected.Name {
		return
	}
	c.detailPending = selected.Name
	c.infoScroll = 0
	c.startDetail(selected.Name)
}

// lastPage is the highest page the known total allows
func (c *Controller) lastPage() (int, bool) {
	if !c.totalKnown {
		return 0, false
	}
	size := uint64(max(c.cfg.PageSize, 1))
	pages := int((c.total + size - 1) / size)
	return max(pages, 1), true
}

func (c *Controller) resize(width, height int) {
	c.width, c.height = width, height
	rows := max(height-chromeLines, 1)
	c.results.SetHeight(rows)
	c.summaryRows.SetHeight(rows)
}
