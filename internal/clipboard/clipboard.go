// Package clipboard copies text to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// writeAll is swapped out in tests
var writeAll = clipboard.WriteAll

// System writes to the OS clipboard
type System struct{}

// WriteAll copies text to the clipboard
func (System) WriteAll(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("failed to copy to clipboard: no clipboard utility found")
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
