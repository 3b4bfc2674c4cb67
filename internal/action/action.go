// Package action defines the event vocabulary of the controller. Every
// input, timer tick, fetch completion and derived follow-up is one Action.
package action

import (
	"fmt"

	"cratetui/internal/mode"
	"cratetui/internal/registry"
)

// Action is a closed set of event values. Only types in this package
// implement it.
//
//sumtype:decl
type Action interface {
	fmt.Stringer
	action()
}

// Lifecycle and terminal actions

type Tick struct{}
type Render struct{}
type Init struct{}
type Refresh struct{}
type Quit struct{}
type Suspend struct{}
type Resume struct{}

type Resize struct {
	Width  int
	Height int
}

// Key is a raw key press, in bubbletea's key string form ("j", "ctrl+c", "enter").
type Key struct {
	Key string
}

// Popups

type ShowErrorPopup struct {
	Message string
}

type ShowInfoPopup struct {
	Message string
}

type ClosePopup struct{}

// Mode and navigation

type SwitchMode struct {
	Mode mode.Mode
}

type ToggleShowHelp struct{}
type ToggleShowCrateInfo struct{}
type ShowFullCrateInfo struct{}
type ScrollTop struct{}
type ScrollBottom struct{}
type ScrollDown struct{}
type ScrollUp struct{}
type ScrollCrateInfoDown struct{}
type ScrollCrateInfoUp struct{}
type NextSummaryMode struct{}
type PreviousSummaryMode struct{}
type UpdateCurrentSelectionCrateInfo struct{}
type UpdateCurrentSelectionSummary struct{}

// Search, paging and sorting

type GetCrates struct{}
type SubmitSearch struct{}
type ReloadData struct{}
type IncrementPage struct{}
type DecrementPage struct{}
type HandleFilterPromptChange struct{}

type ToggleSortBy struct {
	Reload  bool
	Forward bool
}

type StoreTotalNumberOfCrates struct {
	Total uint64
}

// ClearTaskDetailsHandle cancels the live fetch registered under Key.
type ClearTaskDetailsHandle struct {
	Key string
}

// Side effects

type CopyCargoAddCommandToClipboard struct{}
type OpenDocsUrlInBrowser struct{}
type OpenCratesIOUrlInBrowser struct{}

// ShowInPager opens the crate info or the help text in a full screen pager
type ShowInPager struct{}

// Prompt editing

type InsertChar struct {
	Char rune
}

type DeleteBackward struct{}
type DeleteForward struct{}
type CursorLeft struct{}
type CursorRight struct{}
type CursorStart struct{}
type CursorEnd struct{}
type ClearInput struct{}

// Fetch completions. Generation is the tag handed out by the task registry
// when the fetch was started.

type SearchCompleted struct {
	Generation uint64
	Query      string
	Page       int
	Crates     []registry.Crate
	Total      uint64
	Err        error
}

type DetailCompleted struct {
	Generation uint64
	Name       string
	Crate      registry.Crate
	Err        error
}

type SummaryCompleted struct {
	Generation uint64
	Summary    registry.Summary
	Err        error
}

func (Tick) action()                            {}
func (Render) action()                          {}
func (Init) action()                            {}
func (Refresh) action()                         {}
func (Quit) action()                            {}
func (Suspend) action()                         {}
func (Resume) action()                          {}
func (Resize) action()                          {}
func (Key) action()                             {}
func (ShowErrorPopup) action()                  {}
func (ShowInfoPopup) action()                   {}
func (ClosePopup) action()                      {}
func (SwitchMode) action()                      {}
func (ToggleShowHelp) action()                  {}
func (ToggleShowCrateInfo) action()             {}
func (ShowFullCrateInfo) action()               {}
func (ScrollTop) action()                       {}
func (ScrollBottom) action()                    {}
func (ScrollDown) action()                      {}
func (ScrollUp) action()                        {}
func (ScrollCrateInfoDown) action()             {}
func (ScrollCrateInfoUp) action()               {}
func (NextSummaryMode) action()                 {}
func (PreviousSummaryMode) action()             {}
func (UpdateCurrentSelectionCrateInfo) action() {}
func (UpdateCurrentSelectionSummary) action()   {}
func (GetCrates) action()                       {}
func (SubmitSearch) action()                    {}
func (ReloadData) action()                      {}
func (IncrementPage) action()                   {}
func (DecrementPage) action()                   {}
func (HandleFilterPromptChange) action()        {}
func (ToggleSortBy) action()                    {}
func (StoreTotalNumberOfCrates) action()        {}
func (ClearTaskDetailsHandle) action()          {}
func (CopyCargoAddCommandToClipboard) action()  {}
func (OpenDocsUrlInBrowser) action()            {}
func (OpenCratesIOUrlInBrowser) action()        {}
func (ShowInPager) action()                     {}
func (InsertChar) action()                      {}
func (DeleteBackward) action()                  {}
func (DeleteForward) action()                   {}
func (CursorLeft) action()                      {}
func (CursorRight) action()                     {}
func (CursorStart) action()                     {}
func (CursorEnd) action()                       {}
func (ClearInput) action()                      {}
func (SearchCompleted) action()                 {}
func (DetailCompleted) action()                 {}
func (SummaryCompleted) action()                {}

func (Tick) String() string                            { return "Tick" }
func (Render) String() string                          { return "Render" }
func (Init) String() string                            { return "Init" }
func (Refresh) String() string                         { return "Refresh" }
func (Quit) String() string                            { return "Quit" }
func (Suspend) String() string                         { return "Suspend" }
func (Resume) String() string                          { return "Resume" }
func (a Resize) String() string                        { return fmt.Sprintf("Resize %d %d", a.Width, a.Height) }
func (a Key) String() string                           { return fmt.Sprintf("Key %q", a.Key) }
func (a ShowErrorPopup) String() string                { return fmt.Sprintf("ShowErrorPopup %q", a.Message) }
func (a ShowInfoPopup) String() string                 { return fmt.Sprintf("ShowInfoPopup %q", a.Message) }
func (ClosePopup) String() string                      { return "ClosePopup" }
func (a SwitchMode) String() string                    { return "SwitchMode " + a.Mode.String() }
func (ToggleShowHelp) String() string                  { return "ToggleShowHelp" }
func (ToggleShowCrateInfo) String() string             { return "ToggleShowCrateInfo" }
func (ShowFullCrateInfo) String() string               { return "ShowFullCrateInfo" }
func (ScrollTop) String() string                       { return "ScrollTop" }
func (ScrollBottom) String() string                    { return "ScrollBottom" }
func (ScrollDown) String() string                      { return "ScrollDown" }
func (ScrollUp) String() string                        { return "ScrollUp" }
func (ScrollCrateInfoDown) String() string             { return "ScrollCrateInfoDown" }
func (ScrollCrateInfoUp) String() string               { return "ScrollCrateInfoUp" }
func (NextSummaryMode) String() string                 { return "NextSummaryMode" }
func (PreviousSummaryMode) String() string             { return "PreviousSummaryMode" }
func (UpdateCurrentSelectionCrateInfo) String() string { return "UpdateCurrentSelectionCrateInfo" }
func (UpdateCurrentSelectionSummary) String() string   { return "UpdateCurrentSelectionSummary" }
func (GetCrates) String() string                       { return "GetCrates" }
func (SubmitSearch) String() string                    { return "SubmitSearch" }
func (ReloadData) String() string                      { return "ReloadData" }
func (IncrementPage) String() string                   { return "IncrementPage" }
func (DecrementPage) String() string                   { return "DecrementPage" }
func (HandleFilterPromptChange) String() string        { return "HandleFilterPromptChange" }
func (a StoreTotalNumberOfCrates) String() string {
	return fmt.Sprintf("StoreTotalNumberOfCrates %d", a.Total)
}
func (a ClearTaskDetailsHandle) String() string       { return "ClearTaskDetailsHandle " + a.Key }
func (CopyCargoAddCommandToClipboard) String() string { return "CopyCargoAddCommandToClipboard" }
func (OpenDocsUrlInBrowser) String() string           { return "OpenDocsUrlInBrowser" }
func (OpenCratesIOUrlInBrowser) String() string       { return "OpenCratesIOUrlInBrowser" }
func (ShowInPager) String() string                    { return "ShowInPager" }
func (a InsertChar) String() string                   { return fmt.Sprintf("InsertChar %q", a.Char) }
func (DeleteBackward) String() string                 { return "DeleteBackward" }
func (DeleteForward) String() string                  { return "DeleteForward" }
func (CursorLeft) String() string                     { return "CursorLeft" }
func (CursorRight) String() string                    { return "CursorRight" }
func (CursorStart) String() string                    { return "CursorStart" }
func (CursorEnd) String() string                      { return "CursorEnd" }
func (ClearInput) String() string                     { return "ClearInput" }

func (a ToggleSortBy) String() string {
	s := "ToggleSortBy"
	if a.Reload {
		s += " reload"
	}
	if a.Forward {
		s += " forward"
	}
	return s
}

func (a SearchCompleted) String() string {
	if a.Err != nil {
		return fmt.Sprintf("SearchCompleted gen=%d err=%v", a.Generation, a.Err)
	}
	return fmt.Sprintf("SearchCompleted gen=%d query=%q page=%d crates=%d total=%d", a.Generation, a.Query, a.Page, len(a.Crates), a.Total)
}

func (a DetailCompleted) String() string {
	if a.Err != nil {
		return fmt.Sprintf("DetailCompleted gen=%d name=%s err=%v", a.Generation, a.Name, a.Err)
	}
	return fmt.Sprintf("DetailCompleted gen=%d name=%s", a.Generation, a.Name)
}

func (a SummaryCompleted) String() string {
	if a.Err != nil {
		return fmt.Sprintf("SummaryCompleted gen=%d err=%v", a.Generation, a.Err)
	}
	return fmt.Sprintf("SummaryCompleted gen=%d", a.Generation)
}
