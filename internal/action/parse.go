package action

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cratetui/internal/mode"
)

// ErrUnknownAction is returned by Parse for names that cannot be bound to a key
var ErrUnknownAction = errors.New("unknown action")

// bindable lists the actions that may appear in the key-binding config.
// Actions carrying runtime payloads (resize, fetch results, raw keys) are
// produced by the program itself and are not listed.
var bindable = map[string]Action{
	"Quit":                            Quit{},
	"Suspend":                         Suspend{},
	"Refresh":                         Refresh{},
	"Render":                          Render{},
	"ClosePopup":                      ClosePopup{},
	"ToggleShowHelp":                  ToggleShowHelp{},
	"ToggleShowCrateInfo":             ToggleShowCrateInfo{},
	"ShowFullCrateInfo":               ShowFullCrateInfo{},
	"ScrollTop":                       ScrollTop{},
	"ScrollBottom":                    ScrollBottom{},
	"ScrollDown":                      ScrollDown{},
	"ScrollUp":                        ScrollUp{},
	"ScrollCrateInfoDown":             ScrollCrateInfoDown{},
	"ScrollCrateInfoUp":               ScrollCrateInfoUp{},
	"NextSummaryMode":                 NextSummaryMode{},
	"PreviousSummaryMode":             PreviousSummaryMode{},
	"UpdateCurrentSelectionCrateInfo": UpdateCurrentSelectionCrateInfo{},
	"UpdateCurrentSelectionSummary":   UpdateCurrentSelectionSummary{},
	"GetCrates":                       GetCrates{},
	"SubmitSearch":                    SubmitSearch{},
	"ReloadData":                      ReloadData{},
	"IncrementPage":                   IncrementPage{},
	"DecrementPage":                   DecrementPage{},
	"CopyCargoAddCommandToClipboard":  CopyCargoAddCommandToClipboard{},
	"OpenDocsUrlInBrowser":            OpenDocsUrlInBrowser{},
	"OpenCratesIOUrlInBrowser":        OpenCratesIOUrlInBrowser{},
	"ShowInPager":                     ShowInPager{},
	"DeleteBackward":                  DeleteBackward{},
	"DeleteForward":                   DeleteForward{},
	"CursorLeft":                      CursorLeft{},
	"CursorRight":                     CursorRight{},
	"CursorStart":                     CursorStart{},
	"CursorEnd":                       CursorEnd{},
	"ClearInput":                      ClearInput{},
}

// Parse converts the textual form used in key-binding config into an Action.
//
//	Quit
//	SwitchMode Search
//	ToggleSortBy reload forward
//	ClearTaskDetailsHandle detail
func Parse(s string) (Action, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrUnknownAction)
	}
	name, args := fields[0], fields[1:]

	switch name {
	case "SwitchMode":
		if len(args) != 1 {
			return nil, fmt.Errorf("SwitchMode expects one mode argument, got %d", len(args))
		}
		m, err := mode.Parse(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to parse SwitchMode: %w", err)
		}
		return SwitchMode{Mode: m}, nil

	case "ToggleSortBy":
		var a ToggleSortBy
		for _, arg := range args {
			switch strings.ToLower(arg) {
			case "reload":
				a.Reload = true
			case "forward":
				a.Forward = true
			case "backward", "noreload":
			default:
				return nil, fmt.Errorf("ToggleSortBy: unknown flag %q", arg)
			}
		}
		return a, nil

	case "ClearTaskDetailsHandle":
		if len(args) != 1 {
			return nil, fmt.Errorf("ClearTaskDetailsHandle expects a task key")
		}
		return ClearTaskDetailsHandle{Key: args[0]}, nil
	}

	a, ok := bindable[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	if len(args) != 0 {
		return nil, fmt.Errorf("%s takes no arguments", name)
	}
	return a, nil
}

// Names returns every action name Parse accepts, sorted
func Names() []string {
	names := make([]string, 0, len(bindable)+3)
	for name := range bindable {
		names = append(names, name)
	}
	names = append(names, "SwitchMode", "ToggleSortBy", "ClearTaskDetailsHandle")
	sort.Strings(names)
	return names
}
