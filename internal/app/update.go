package app

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"cratetui/internal/action"
	"cratetui/internal/mode"
	"cratetui/internal/registry"
	"cratetui/internal/tasks"
)

var (
	errNoSelection   = errors.New("no crate selected")
	errDetailLoading = errors.New("crate info is still loading")
)

// apply hands a to the component that owns it. The returned action, if
// any, is processed in the same pass.
func (c *Controller) apply(a action.Action) (action.Action, error) {
	switch a := a.(type) {
	case action.Tick:
		c.recentKeys = nil
		return nil, nil

	case action.Render, action.Refresh, action.Resume:
		return nil, nil

	case action.Init:
		c.startSummary()
		return action.GetCrates{}, nil

	case action.Quit:
		c.quitting = true
		c.tasks.CancelAll()
		return nil, nil

	case action.Suspend:
		c.suspend = true
		return nil, nil

	case action.Resize:
		c.resize(a.Width, a.Height)
		return nil, nil

	case action.Key:
		if next, ok := c.translate(a.Key); ok {
			return next, nil
		}
		return nil, nil

	case action.ShowErrorPopup:
		c.popup = &Popup{Kind: PopupError, Message: a.Message}
		return nil, nil

	case action.ShowInfoPopup:
		c.popup = &Popup{Kind: PopupInfo, Message: a.Message}
		return nil, nil

	case action.ClosePopup:
		c.popup = nil
		return nil, nil

	case action.SwitchMode:
		return c.switchMode(a.Mode), nil

	case action.ToggleShowHelp:
		if c.mode.Current() == mode.Help {
			c.mode.Cancel()
		} else {
			c.mode.Switch(mode.Help)
			c.helpScroll = 0
		}
		return nil, nil

	case action.ToggleShowCrateInfo:
		c.showCrateInfo = !c.showCrateInfo
		if c.showCrateInfo {
			return action.UpdateCurrentSelectionCrateInfo{}, nil
		}
		return nil, nil

	case action.ShowFullCrateInfo:
		if _, ok := c.results.Selected(); !ok {
			return nil, nil
		}
		c.mode.Switch(mode.CrateInfo)
		c.infoScroll = 0
		return action.UpdateCurrentSelectionCrateInfo{}, nil

	case action.ScrollDown:
		return c.scroll(func() bool { return c.activeRows().ScrollNext(1) }), nil
	case action.ScrollUp:
		return c.scroll(func() bool { return c.activeRows().ScrollPrevious(1) }), nil
	case action.ScrollTop:
		return c.scroll(c.activeRows().ScrollTop), nil
	case action.ScrollBottom:
		return c.scroll(c.activeRows().ScrollBottom), nil

	case action.ScrollCrateInfoDown:
		if c.mode.Current() == mode.Help {
			c.helpScroll = min(c.helpScroll+1, max(len(c.keys.Help(c.mode.Previous()))-1, 0))
		} else if c.detail != nil {
			c.infoScroll = min(c.infoScroll+1, max(len(InfoRows(*c.detail))-1, 0))
		}
		return nil, nil

	case action.ScrollCrateInfoUp:
		if c.mode.Current() == mode.Help {
			c.helpScroll = max(c.helpScroll-1, 0)
		} else {
			c.infoScroll = max(c.infoScroll-1, 0)
		}
		return nil, nil

	case action.NextSummaryMode:
		c.setSummaryList(c.summaryList.Next())
		return action.UpdateCurrentSelectionSummary{}, nil

	case action.PreviousSummaryMode:
		c.setSummaryList(c.summaryList.Prev())
		return action.UpdateCurrentSelectionSummary{}, nil

	case action.UpdateCurrentSelectionSummary:
		if c.summary == nil {
			if _, inFlight := c.tasks.Live(tasks.Summary); !inFlight {
				c.startSummary()
			}
		}
		return nil, nil

	case action.UpdateCurrentSelectionCrateInfo:
		c.refreshDetail(false)
		return nil, nil

	case action.GetCrates:
		c.startSearch()
		return nil, nil

	case action.SubmitSearch:
		return c.submit(), nil

	case action.ReloadData:
		c.startSearch()
		if _, ok := c.results.Selected(); ok {
			c.refreshDetail(true)
		}
		return nil, nil

	case action.IncrementPage:
		if last, known := c.lastPage(); known && c.want.page >= last {
			// beyond the last page: clamp, fetch nothing
			return nil, nil
		}
		c.want.page++
		return action.GetCrates{}, nil

	case action.DecrementPage:
		if c.want.page <= 1 {
			return nil, nil
		}
		c.want.page--
		return action.GetCrates{}, nil

	case action.ToggleSortBy:
		if a.Forward {
			c.sort = c.sort.Next()
		} else {
			c.sort = c.sort.Prev()
		}
		if !a.Reload {
			return nil, nil
		}
		c.want.page = 1
		return action.GetCrates{}, nil

	case action.StoreTotalNumberOfCrates:
		c.total = a.Total
		c.totalKnown = true
		return nil, nil

	case action.ClearTaskDetailsHandle:
		c.tasks.Cancel(a.Key)
		return nil, nil

	case action.HandleFilterPromptChange:
		if c.mode.Current() != mode.Filter {
			return nil, nil
		}
		if c.results.SetFilter(c.field.Value()) {
			return action.UpdateCurrentSelectionCrateInfo{}, nil
		}
		return nil, nil

	case action.CopyCargoAddCommandToClipboard:
		crate, ok := c.selectedCrate()
		if !ok {
			return nil, errNoSelection
		}
		cmd := CargoAddCommand(crate.Name)
		if err := c.clip.WriteAll(cmd); err != nil {
			return nil, err
		}
		return action.ShowInfoPopup{Message: fmt.Sprintf("Copied to clipboard: %s", cmd)}, nil

	case action.OpenDocsUrlInBrowser:
		crate, ok := c.selectedCrate()
		if !ok {
			return nil, errNoSelection
		}
		if c.detail != nil && c.detail.Name == crate.Name {
			crate = *c.detail
		}
		return nil, c.opener.OpenURL(DocsURL(crate))

	case action.OpenCratesIOUrlInBrowser:
		crate, ok := c.selectedCrate()
		if !ok {
			return nil, errNoSelection
		}
		return nil, c.opener.OpenURL(CratesIOURL(crate.Name))

	case action.ShowInPager:
		return nil, c.requestPager()

	case action.InsertChar:
		return c.edit(func() { c.field.Insert(a.Char) }), nil
	case action.DeleteBackward:
		return c.edit(func() { c.field.DeleteBefore() }), nil
	case action.DeleteForward:
		return c.edit(func() { c.field.DeleteAfter() }), nil
	case action.CursorLeft:
		return c.edit(c.field.Left), nil
	case action.CursorRight:
		return c.edit(c.field.Right), nil
	case action.CursorStart:
		return c.edit(c.field.Start), nil
	case action.CursorEnd:
		return c.edit(c.field.End), nil
	case action.ClearInput:
		return c.edit(c.field.Clear), nil

	case action.SearchCompleted:
		if !c.tasks.Complete(tasks.Search, a.Generation) {
			log.WithField("gen", a.Generation).Debug("dropping stale search result")
			return nil, nil
		}
		if a.Err != nil {
			// the page and query on screen stay the ones that loaded
			c.want = searchRequest{query: c.query, page: c.page}
			return nil, a.Err
		}
		c.query, c.page = a.Query, a.Page
		if c.want.clearFilter {
			c.want.clearFilter = false
			c.filter = ""
			c.results.SetFilter("")
		}
		c.results.Replace(a.Crates)
		c.refreshDetail(false)
		return action.StoreTotalNumberOfCrates{Total: a.Total}, nil

	case action.DetailCompleted:
		if !c.tasks.Complete(tasks.Detail, a.Generation) {
			log.WithFields(log.Fields{"gen": a.Generation, "crate": a.Name}).Debug("dropping stale detail")
			return nil, nil
		}
		if a.Err != nil {
			return nil, a.Err
		}
		crate := a.Crate
		c.detail = &crate
		return nil, nil

	case action.SummaryCompleted:
		if !c.tasks.Complete(tasks.Summary, a.Generation) {
			log.WithField("gen", a.Generation).Debug("dropping stale summary")
			return nil, nil
		}
		if a.Err != nil {
			return nil, a.Err
		}
		s := a.Summary
		c.summary = &s
		c.setSummaryList(c.summaryList)
		return nil, nil
	}

	return nil, fmt.Errorf("unhandled action %s", a)
}

// switchMode implements SwitchMode. Going back to the mode a prompt or the
// help screen was opened from is a cancel: the prompt is discarded.
// Leaving Filter any way other than submitting drops the live preview.
func (c *Controller) switchMode(to mode.Mode) action.Action {
	from := c.mode.Current()
	if to == from {
		return nil
	}

	if (from.IsText() || from == mode.Help) && to == c.mode.Previous() {
		c.mode.Cancel()
		if from.IsText() {
			c.field.Clear()
		}
		if c.restoreFilter(from) {
			return action.UpdateCurrentSelectionCrateInfo{}
		}
		return nil
	}

	c.mode.Switch(to)
	if from.IsText() || to.IsText() {
		c.field.Clear()
	}
	if c.restoreFilter(from) {
		c.refreshDetail(false)
	}

	switch to {
	case mode.Help:
		c.helpScroll = 0
	case mode.CrateInfo:
		c.infoScroll = 0
		return action.UpdateCurrentSelectionCrateInfo{}
	case mode.Summary:
		return action.UpdateCurrentSelectionSummary{}
	}
	return nil
}

// restoreFilter puts the submitted filter back after leaving Filter and
// reports whether the visible rows changed
func (c *Controller) restoreFilter(from mode.Mode) bool {
	if from != mode.Filter {
		return false
	}
	return c.results.SetFilter(c.filter)
}

// submit turns the prompt or the selected summary row into a search. The
// query and page change once the search comes back.
func (c *Controller) submit() action.Action {
	switch c.mode.Current() {
	case mode.Search:
		c.want = searchRequest{query: c.field.Value(), page: 1, clearFilter: true}
	case mode.Filter:
		c.filter = c.field.Value()
		c.results.SetFilter(c.filter)
		c.want = searchRequest{query: c.query, page: 1}
	case mode.Summary:
		row, ok := c.summaryRows.Selected()
		if !ok {
			return nil
		}
		c.want = searchRequest{query: row.Name, page: 1, clearFilter: true}
		c.mode.Switch(mode.Common)
		return action.GetCrates{}
	default:
		return nil
	}

	c.field.Clear()
	c.mode.Submit()
	return action.GetCrates{}
}

func (c *Controller) edit(op func()) action.Action {
	if !c.mode.Current().IsText() {
		return nil
	}
	op()
	if c.mode.Current() == mode.Filter {
		return action.HandleFilterPromptChange{}
	}
	return nil
}

// activeRows is the list the scroll actions move through
func (c *Controller) activeRows() rowSet {
	if c.mode.Current() == mode.Summary {
		return c.summaryRows
	}
	return c.results
}

type rowSet interface {
	ScrollNext(n int) bool
	ScrollPrevious(n int) bool
	ScrollTop() bool
	ScrollBottom() bool
}

func (c *Controller) scroll(move func() bool) action.Action {
	if !move() {
		return nil
	}
	if c.mode.Current() == mode.Summary {
		return action.UpdateCurrentSelectionSummary{}
	}
	return action.UpdateCurrentSelectionCrateInfo{}
}

func (c *Controller) setSummaryList(list SummaryList) {
	c.summaryList = list
	if c.summary == nil {
		c.summaryRows.Clear()
		return
	}
	c.summaryRows.Replace(summaryRows(*c.summary, list))
}

func (c *Controller) selectedCrate() (registry.Crate, bool) {
	if c.mode.Current() == mode.Summary && c.summaryList < PopularKeywords {
		return c.summaryRows.Selected()
	}
	return c.results.Selected()
}

// requestPager queues the current detail or help text for the pager. The
// view picks it up with ConsumePager.
func (c *Controller) requestPager() error {
	if c.mode.Current() == mode.Help {
		bindings := c.keys.Help(c.mode.Previous())
		rows := make([]InfoRow, 0, len(bindings))
		for _, b := range bindings {
			rows = append(rows, InfoRow{Label: b.Help().Key, Value: b.Help().Desc})
		}
		c.pager = &PagerRequest{Title: "Help: " + c.mode.Previous().String(), Rows: rows}
		return nil
	}

	crate, ok := c.Detail()
	if !ok {
		if _, selected := c.results.Selected(); !selected {
			return errNoSelection
		}
		return errDetailLoading
	}
	c.pager = &PagerRequest{Title: crate.Name, Rows: InfoRows(crate)}
	return nil
}
