// Package browser opens URLs with the desktop's default handler.
package browser

import (
	"fmt"
	"io"
	"net/url"

	"github.com/pkg/browser"
)

// openURL is swapped out in tests
var openURL = browser.OpenURL

func init() {
	// the launcher's own output would scribble over the UI
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// System opens URLs in the user's browser
type System struct{}

// OpenURL opens an http or https URL
func (System) OpenURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("failed to parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open %q: not an http url", raw)
	}
	if err := openURL(u.String()); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
