package viewmodels

import (
	"fmt"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"

	"cratetui/internal/mode"
	"cratetui/internal/prompt"
	"cratetui/internal/registry"
)

// InputTransformer renders the prompt field through a textinput so the
// cursor looks like every other bubbles input. The field stays the source
// of truth; the textinput only draws it.
type InputTransformer struct {
	textInput textinput.Model
}

// NewInputTransformer creates a new input transformer
func NewInputTransformer() *InputTransformer {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()
	return &InputTransformer{textInput: ti}
}

// PromptTitle is the title drawn in the prompt border for a mode
func PromptTitle(m mode.Mode, sort registry.Sort) string {
	switch m {
	case mode.Search:
		return fmt.Sprintf("Search: Enter to submit (Sort By: %s)", sort)
	case mode.Filter:
		return "Filter: Enter to submit"
	default:
		return fmt.Sprintf("Sort By: %s", sort)
	}
}

// GetInputText returns the field as the textinput draws it, width cells wide
func (it *InputTransformer) GetInputText(f *prompt.Field, width int) string {
	it.textInput.Width = max(width-1, 1)
	it.textInput.SetValue(f.Value())
	it.textInput.SetCursor(f.Cursor())
	return it.textInput.View()
}
