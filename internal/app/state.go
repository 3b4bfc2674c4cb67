package app

import (
	"cratetui/internal/config"
	"cratetui/internal/keymap"
	"cratetui/internal/mode"
	"cratetui/internal/prompt"
	"cratetui/internal/registry"
	"cratetui/internal/results"
	"cratetui/internal/tasks"
)

// The accessors below are read by the view. None of them mutate state.

func (c *Controller) Mode() mode.Mode {
	return c.mode.Current()
}

// PreviousMode is the mode Esc returns to from the current one
func (c *Controller) PreviousMode() mode.Mode {
	return c.mode.Previous()
}

func (c *Controller) Prompt() *prompt.Field {
	return c.field
}

func (c *Controller) Results() *results.Set {
	return c.results
}

func (c *Controller) SummaryRows() *results.Set {
	return c.summaryRows
}

func (c *Controller) SummaryList() SummaryList {
	return c.summaryList
}

// Summary returns the front page data once it has been fetched
func (c *Controller) Summary() (registry.Summary, bool) {
	if c.summary == nil {
		return registry.Summary{}, false
	}
	return *c.summary, true
}

// Detail returns the full record of the selected crate. It is never a
// record of some other crate.
func (c *Controller) Detail() (registry.Crate, bool) {
	if c.detail == nil {
		return registry.Crate{}, false
	}
	if sel, ok := c.results.Selected(); !ok || sel.Name != c.detail.Name {
		return registry.Crate{}, false
	}
	return *c.detail, true
}

func (c *Controller) Query() string {
	return c.query
}

func (c *Controller) Filter() string {
	return c.filter
}

func (c *Controller) Page() int {
	return c.page
}

// LastPage returns the last page, once the total is known
func (c *Controller) LastPage() (int, bool) {
	return c.lastPage()
}

// Total returns the number of crates matching the query, once known
func (c *Controller) Total() (uint64, bool) {
	return c.total, c.totalKnown
}

func (c *Controller) Sort() registry.Sort {
	return c.sort
}

func (c *Controller) Popup() (Popup, bool) {
	if c.popup == nil {
		return Popup{}, false
	}
	return *c.popup, true
}

func (c *Controller) ShowCrateInfo() bool {
	return c.showCrateInfo
}

func (c *Controller) InfoScroll() int {
	return c.infoScroll
}

func (c *Controller) HelpScroll() int {
	return c.helpScroll
}

func (c *Controller) Size() (width, height int) {
	return c.width, c.height
}

// Loading reports which fetches are in flight
func (c *Controller) Loading() (search, detail, summary bool) {
	_, search = c.tasks.Live(tasks.Search)
	_, detail = c.tasks.Live(tasks.Detail)
	_, summary = c.tasks.Live(tasks.Summary)
	return search, detail, summary
}

// Busy reports whether any fetch is in flight
func (c *Controller) Busy() bool {
	return c.tasks.Busy()
}

// InFlight lists the keys of the fetches in flight
func (c *Controller) InFlight() []string {
	return c.tasks.Keys()
}

func (c *Controller) Keys() *keymap.Table {
	return c.keys
}

func (c *Controller) Config() *config.Config {
	return c.cfg
}

// ShouldQuit reports whether Quit has been applied
func (c *Controller) ShouldQuit() bool {
	return c.quitting
}

// ConsumeSuspend reports a pending Suspend and clears it
func (c *Controller) ConsumeSuspend() bool {
	s := c.suspend
	c.suspend = false
	return s
}

// ConsumePager returns a pending pager request and clears it
func (c *Controller) ConsumePager() (PagerRequest, bool) {
	if c.pager == nil {
		return PagerRequest{}, false
	}
	p := *c.pager
	c.pager = nil
	return p, true
}
