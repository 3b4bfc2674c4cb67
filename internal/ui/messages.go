package ui

import (
	"time"

	"cratetui/internal/action"
)

// tickMsg is sent on a timer to expire pending key sequences
type tickMsg time.Time

// queuedMsg carries an action received from the controller's queue
type queuedMsg struct {
	action action.Action
}

// initMsg starts the session once the program is running
type initMsg struct{}

// queueClosedMsg signals that the queue was closed and nothing more will
// arrive on it
type queueClosedMsg struct {
	err error
}
