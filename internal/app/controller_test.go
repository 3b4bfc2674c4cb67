package app

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cratetui/internal/action"
	"cratetui/internal/config"
	"cratetui/internal/keymap"
	"cratetui/internal/mode"
	"cratetui/internal/registry"
	"cratetui/internal/tasks"
)

type fakeClient struct {
	mu       sync.Mutex
	pages    map[string][]registry.Crate
	total    uint64
	crates   map[string]registry.Crate
	summary  registry.Summary
	err      error
	searches []registry.SearchQuery
	details  []string
}

func (f *fakeClient) Search(_ context.Context, q registry.SearchQuery) (registry.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, q)
	if f.err != nil {
		return registry.SearchPage{}, f.err
	}
	return registry.SearchPage{Crates: f.pages[q.Text], Total: f.total}, nil
}

func (f *fakeClient) Crate(_ context.Context, name string) (registry.Crate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details = append(f.details, name)
	c, ok := f.crates[name]
	if !ok {
		return registry.Crate{}, registry.ErrNotFound
	}
	return c, nil
}

func (f *fakeClient) Summary(context.Context) (registry.Summary, error) {
	return f.summary, nil
}

type fakeClipboard struct{ text string }

func (f *fakeClipboard) WriteAll(text string) error {
	f.text = text
	return nil
}

type fakeOpener struct{ urls []string }

func (f *fakeOpener) OpenURL(url string) error {
	f.urls = append(f.urls, url)
	return nil
}

// harness runs fetches only when the test asks, so completions can be
// delivered in any order.
type harness struct {
	t      *testing.T
	c      *Controller
	queue  *Queue
	client *fakeClient
	clip   *fakeClipboard
	opener *fakeOpener
	jobs   []func()
	fatals []error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	keys, err := keymap.New(cfg.KeyBindings)
	require.NoError(t, err)

	h := &harness{
		t:     t,
		queue: NewQueue(),
		client: &fakeClient{
			pages: map[string][]registry.Crate{
				"": {{Name: "serde"}, {Name: "tokio"}, {Name: "rand"}},
			},
			total: 3,
			crates: map[string]registry.Crate{
				"serde": {Name: "serde", Description: "serialization"},
				"tokio": {Name: "tokio", Description: "async runtime"},
				"rand":  {Name: "rand", Description: "random numbers"},
			},
		},
		clip:   &fakeClipboard{},
		opener: &fakeOpener{},
	}
	h.c = New(Options{
		Config:    cfg,
		Keys:      keys,
		Client:    h.client,
		Queue:     h.queue,
		Clipboard: h.clip,
		Opener:    h.opener,
		Fatal:     func(err error) { h.fatals = append(h.fatals, err) },
		Go:        func(f func()) { h.jobs = append(h.jobs, f) },
	})
	h.c.Dispatch(action.Resize{Width: 120, Height: 40})
	return h
}

// run executes job i, leaving the others pending
func (h *harness) run(i int) {
	h.t.Helper()
	require.Less(h.t, i, len(h.jobs))
	job := h.jobs[i]
	h.jobs = append(h.jobs[:i:i], h.jobs[i+1:]...)
	job()
}

// settle runs every pending fetch and applies whatever they queued, until
// nothing is left
func (h *harness) settle() {
	for len(h.jobs) > 0 || h.queue.Len() > 0 {
		for len(h.jobs) > 0 {
			h.run(0)
		}
		h.drain()
	}
}

func (h *harness) drain() {
	for {
		a, ok := h.queue.TryRecv()
		if !ok {
			return
		}
		h.c.Dispatch(a)
	}
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.c.Dispatch(action.Key{Key: k})
	}
}

func (h *harness) selected() string {
	c, ok := h.c.Results().Selected()
	if !ok {
		return ""
	}
	return c.Name
}

func (h *harness) searchCount() int {
	h.client.mu.Lock()
	defer h.client.mu.Unlock()
	return len(h.client.searches)
}

func TestInitLoadsFirstPage(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.Init{})
	h.settle()

	assert.Equal(t, 3, h.c.Results().Len())
	assert.Equal(t, "serde", h.selected())
	total, known := h.c.Total()
	assert.True(t, known)
	assert.EqualValues(t, 3, total)
	_, ok := h.c.Summary()
	assert.True(t, ok)
	assert.False(t, h.c.Busy())
}

func TestStaleDetailIsNeverShown(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.GetCrates{})
	h.run(0)
	h.drain()
	require.Equal(t, "serde", h.selected())
	require.Len(t, h.jobs, 1, "detail fetch for serde pending")

	h.press("j")
	require.Equal(t, "tokio", h.selected())
	_, ok := h.c.Detail()
	assert.False(t, ok)
	require.Len(t, h.jobs, 2)

	// serde's fetch finishes after the selection moved on
	h.run(0)
	h.drain()
	_, ok = h.c.Detail()
	assert.False(t, ok, "serde detail must be dropped")

	h.run(0)
	h.drain()
	d, ok := h.c.Detail()
	require.True(t, ok)
	assert.Equal(t, "tokio", d.Name)
	assert.False(t, h.c.Busy())
}

func TestSelectionWraps(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.GetCrates{})
	h.settle()

	h.press("k")
	assert.Equal(t, "rand", h.selected())
	h.press("j")
	assert.Equal(t, "serde", h.selected())
	h.press("G")
	assert.Equal(t, "rand", h.selected())
	h.press("g", "g")
	assert.Equal(t, "serde", h.selected())
}

func TestTickResetsKeySequence(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.GetCrates{})
	h.settle()
	h.press("G")

	h.press("g")
	assert.False(t, h.c.Dispatch(action.Tick{}))
	h.press("g")
	assert.Equal(t, "rand", h.selected())
}

func TestRenderFlag(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.c.Dispatch(action.Tick{}))
	assert.False(t, h.c.Dispatch(action.Key{Key: "F12"}))
	assert.True(t, h.c.Dispatch(action.Key{Key: "?"}))
	assert.True(t, h.c.Dispatch(action.Render{}))
}

func TestSearchSubmitStartsOneSearch(t *testing.T) {
	h := newHarness(t)
	h.client.pages["tok"] = []registry.Crate{{Name: "tokio"}}

	h.press("/", "x")
	h.press("esc")
	assert.Equal(t, mode.Common, h.c.Mode())

	h.press("/")
	assert.Equal(t, mode.Search, h.c.Mode())
	assert.Empty(t, h.c.Prompt().Value(), "entering search clears the field")

	h.press("t", "o", "k", "enter")
	assert.Equal(t, mode.Common, h.c.Mode())
	assert.Empty(t, h.c.Query(), "the query changes once the search lands")
	assert.Empty(t, h.c.Prompt().Value())
	require.Len(t, h.jobs, 1)

	h.settle()
	assert.Equal(t, "tok", h.c.Query())
	assert.Equal(t, 1, h.searchCount())
	assert.Equal(t, "tokio", h.selected())
}

func TestSearchCancelHasNoSideEffects(t *testing.T) {
	h := newHarness(t)
	h.press("/", "a", "b", "esc")

	assert.Equal(t, mode.Common, h.c.Mode())
	assert.Empty(t, h.c.Query())
	assert.Empty(t, h.jobs)
}

func TestPromptSwallowsBoundKeys(t *testing.T) {
	h := newHarness(t)
	h.press("/", "q", "?", "j")

	assert.Equal(t, mode.Search, h.c.Mode())
	assert.Equal(t, "q?j", h.c.Prompt().Value())
	assert.False(t, h.c.ShouldQuit())
}

func TestFilterNarrowsLive(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.GetCrates{})
	h.settle()

	h.press("f", "t", "o", "k")
	assert.Equal(t, mode.Filter, h.c.Mode())
	assert.Equal(t, 1, h.c.Results().Len())
	assert.Equal(t, "tokio", h.selected())

	h.press("esc")
	assert.Equal(t, 3, h.c.Results().Len())
	assert.Empty(t, h.c.Filter())
}

func TestToggleSortBy(t *testing.T) {
	h := newHarness(t)
	start := h.c.Sort()

	h.c.Dispatch(action.ToggleSortBy{Forward: true})
	assert.Equal(t, start.Next(), h.c.Sort())
	assert.Empty(t, h.jobs)

	h.c.Dispatch(action.ToggleSortBy{Reload: true})
	assert.Equal(t, start, h.c.Sort())
	require.Len(t, h.jobs, 1)
	h.settle()
	assert.Equal(t, start, h.client.searches[0].Sort)
}

func TestPaginationClamps(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.DecrementPage{})
	assert.Equal(t, 1, h.c.Page())
	assert.Empty(t, h.jobs)

	h.client.total = 60
	h.c.Dispatch(action.GetCrates{})
	h.settle()
	last, known := h.c.LastPage()
	require.True(t, known)
	assert.Equal(t, 3, last)

	h.c.Dispatch(action.IncrementPage{})
	h.c.Dispatch(action.IncrementPage{})
	h.settle()
	assert.Equal(t, 3, h.c.Page())
	before := h.searchCount()

	h.c.Dispatch(action.IncrementPage{})
	assert.Equal(t, 3, h.c.Page())
	assert.Empty(t, h.jobs)
	assert.Equal(t, before, h.searchCount())
	assert.Equal(t, 3, h.client.searches[before-1].Page)
}

func TestHelpReturnsToPreviousMode(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.SwitchMode{Mode: mode.Summary})
	h.c.Dispatch(action.ToggleShowHelp{})
	assert.Equal(t, mode.Help, h.c.Mode())

	h.c.Dispatch(action.SwitchMode{Mode: mode.Help})
	assert.Equal(t, mode.Help, h.c.Mode())

	h.press("esc")
	assert.Equal(t, mode.Summary, h.c.Mode())
}

func TestSummarySubmitSearchesSelectedRow(t *testing.T) {
	h := newHarness(t)
	h.client.summary = registry.Summary{
		PopularKeywords: []registry.Keyword{{ID: "async", CratesCnt: 12}},
	}
	h.client.pages["async"] = []registry.Crate{{Name: "tokio"}}

	h.press("S")
	h.settle()
	assert.Equal(t, mode.Summary, h.c.Mode())

	h.c.Dispatch(action.SwitchMode{Mode: mode.Summary})
	for h.c.SummaryList() != PopularKeywords {
		h.c.Dispatch(action.NextSummaryMode{})
	}
	row, ok := h.c.SummaryRows().Selected()
	require.True(t, ok)
	assert.Equal(t, "async", row.Name)

	h.press("enter")
	assert.Equal(t, mode.Common, h.c.Mode())
	h.settle()
	assert.Equal(t, "async", h.c.Query())
	assert.Equal(t, "tokio", h.selected())
}

func TestFetchErrorShowsPopup(t *testing.T) {
	h := newHarness(t)
	h.client.err = errors.New("registry down")
	h.c.Dispatch(action.GetCrates{})
	h.settle()

	p, ok := h.c.Popup()
	require.True(t, ok)
	assert.Equal(t, PopupError, p.Kind)
	assert.Contains(t, p.Message, "registry down")

	h.press("esc")
	_, ok = h.c.Popup()
	assert.False(t, ok)
}

func TestFailedPageKeepsCurrentPage(t *testing.T) {
	h := newHarness(t)
	h.client.total = 60
	h.c.Dispatch(action.GetCrates{})
	h.settle()

	h.client.err = errors.New("registry down")
	h.c.Dispatch(action.IncrementPage{})
	h.settle()
	_, ok := h.c.Popup()
	require.True(t, ok)
	assert.Equal(t, 1, h.c.Page())
	assert.Equal(t, "serde", h.selected())

	h.press("esc")
	h.client.err = nil
	h.c.Dispatch(action.IncrementPage{})
	h.settle()
	assert.Equal(t, 2, h.c.Page())
	assert.Equal(t, 2, h.client.searches[h.searchCount()-1].Page, "page 2 is not skipped")

	h.client.err = errors.New("registry down")
	h.c.Dispatch(action.DecrementPage{})
	h.settle()
	assert.Equal(t, 2, h.c.Page())
}

func TestFailedSearchKeepsQueryAndFilter(t *testing.T) {
	h := newHarness(t)
	h.client.pages["tok"] = []registry.Crate{{Name: "tokio"}}
	h.c.Dispatch(action.GetCrates{})
	h.settle()
	h.press("f", "s", "e", "enter")
	h.settle()
	require.Equal(t, "se", h.c.Filter())

	h.client.err = errors.New("registry down")
	h.press("/", "t", "o", "k", "enter")
	h.settle()
	_, ok := h.c.Popup()
	require.True(t, ok)
	assert.Empty(t, h.c.Query())
	assert.Equal(t, 1, h.c.Page())
	assert.Equal(t, "se", h.c.Filter())

	h.press("esc")
	h.client.err = nil
	h.c.Dispatch(action.ReloadData{})
	h.settle()
	assert.Empty(t, h.c.Query(), "a reload repeats the search that loaded")
	assert.Equal(t, "", h.client.searches[h.searchCount()-1].Text)

	h.press("/", "t", "o", "k", "enter")
	h.settle()
	assert.Equal(t, "tok", h.c.Query())
	assert.Empty(t, h.c.Filter())
	assert.Equal(t, "tokio", h.selected())
}

func TestLeavingFilterDropsPreview(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.GetCrates{})
	h.settle()

	h.press("f", "t", "o", "k")
	require.Equal(t, 1, h.c.Results().Len())

	h.c.Dispatch(action.SwitchMode{Mode: mode.Summary})
	assert.Equal(t, mode.Summary, h.c.Mode())
	assert.Equal(t, 3, h.c.Results().Len())
	assert.Empty(t, h.c.Filter())
	assert.Empty(t, h.c.Prompt().Value())
}

func TestCopyAndOpen(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.CopyCargoAddCommandToClipboard{})
	p, ok := h.c.Popup()
	require.True(t, ok, "no selection is an error")
	assert.Equal(t, PopupError, p.Kind)
	h.c.Dispatch(action.ClosePopup{})

	h.c.Dispatch(action.GetCrates{})
	h.settle()

	h.press("c")
	assert.Equal(t, "cargo add serde", h.clip.text)
	p, ok = h.c.Popup()
	require.True(t, ok)
	assert.Equal(t, PopupInfo, p.Kind)
	h.press("enter")

	h.press("j", "d", "o")
	assert.Equal(t, []string{
		"https://docs.rs/tokio/latest/tokio",
		"https://crates.io/crates/tokio",
	}, h.opener.urls)
}

func TestReloadRefetchesDetail(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.GetCrates{})
	h.settle()
	require.Equal(t, []string{"serde"}, h.client.details)

	h.c.Dispatch(action.ReloadData{})
	h.settle()
	assert.Equal(t, 2, h.searchCount())
	assert.Equal(t, []string{"serde", "serde"}, h.client.details)
}

func TestClearTaskDetailsHandleDropsResult(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.GetCrates{})
	h.c.Dispatch(action.ClearTaskDetailsHandle{Key: tasks.Search})
	h.settle()

	assert.Equal(t, 0, h.c.Results().Len())
	assert.False(t, h.c.Busy())
}

func TestQuitCancelsFetches(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.Init{})
	require.True(t, h.c.Busy())

	h.press("ctrl+c")
	assert.True(t, h.c.ShouldQuit())
	assert.False(t, h.c.Busy())
}

func TestUndeliverableResultIsFatal(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.GetCrates{})
	h.queue.Close()
	h.run(0)

	require.Len(t, h.fatals, 1)
	assert.ErrorIs(t, h.fatals[0], ErrQueueClosed)
}

func TestShowInPager(t *testing.T) {
	h := newHarness(t)
	h.c.Dispatch(action.GetCrates{})
	h.run(0)
	h.drain()

	h.press("P")
	_, ok := h.c.ConsumePager()
	assert.False(t, ok)
	p, ok := h.c.Popup()
	require.True(t, ok)
	assert.Equal(t, PopupError, p.Kind)
	assert.Equal(t, errDetailLoading.Error(), p.Message)
	h.c.Dispatch(action.ClosePopup{})

	h.settle()
	h.press("P")
	req, ok := h.c.ConsumePager()
	require.True(t, ok)
	assert.Equal(t, "serde", req.Title)
	assert.Contains(t, req.Rows, InfoRow{Label: "Description", Value: "serialization"})
	_, ok = h.c.ConsumePager()
	assert.False(t, ok, "request is handed out once")

	h.press("?", "P")
	req, ok = h.c.ConsumePager()
	require.True(t, ok)
	assert.Equal(t, "Help: Common", req.Title)
	assert.NotEmpty(t, req.Rows)
}
