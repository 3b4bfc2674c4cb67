// Package keymap turns raw key presses into actions using per-mode binding
// tables and a global fallback table.
package keymap

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"

	"cratetui/internal/action"
	"cratetui/internal/mode"
)

// GlobalSection is the config section holding mode-independent bindings
const GlobalSection = "global"

// Table is an immutable key-binding table built once from config
type Table struct {
	modes  map[mode.Mode]map[string]action.Action
	global map[string]action.Action
	// longest key sequence in any table, used to bound history lookups
	longest int
}

// New builds a table from config sections. Section names are mode names
// (case-insensitive) or "global"; keys are bubbletea key strings, with
// space-separated chords for sequences ("g g"); values are action strings
// understood by action.Parse.
func New(sections map[string]map[string]string) (*Table, error) {
	t := &Table{
		modes:   make(map[mode.Mode]map[string]action.Action),
		global:  make(map[string]action.Action),
		longest: 1,
	}

	for section, bindings := range sections {
		target := t.global
		if !strings.EqualFold(section, GlobalSection) {
			m, err := mode.Parse(section)
			if err != nil {
				return nil, fmt.Errorf("failed to parse key bindings: %w", err)
			}
			if t.modes[m] == nil {
				t.modes[m] = make(map[string]action.Action)
			}
			target = t.modes[m]
		}

		for chord, name := range bindings {
			a, err := action.Parse(name)
			if err != nil {
				return nil, fmt.Errorf("failed to parse binding %s.%q: %w", section, chord, err)
			}
			seq := normalize(chord)
			if len(seq) == 0 {
				return nil, fmt.Errorf("empty key chord in section %s", section)
			}
			t.longest = max(t.longest, len(seq))
			target[strings.Join(seq, " ")] = a
		}
	}

	return t, nil
}

func normalize(chord string) []string {
	seq := strings.Fields(chord)
	for i, k := range seq {
		if k == "space" {
			seq[i] = " "
		}
	}
	return seq
}

// Lookup resolves k, pressed after the keys in recent, for mode m. Longer
// sequences win over shorter ones, and mode bindings win over global ones.
func (t *Table) Lookup(m mode.Mode, recent []string, k string) (action.Action, bool) {
	tables := []map[string]action.Action{t.modes[m], t.global}

	// try the longest history suffix first
	for n := min(len(recent), t.longest-1); n >= 0; n-- {
		seq := append(append([]string{}, recent[len(recent)-n:]...), k)
		joined := strings.Join(seq, " ")
		for i, table := range tables {
			if i == 1 && m.IsText() && n == 0 && printable(k) {
				// typed text belongs to the prompt
				continue
			}
			if a, ok := table[joined]; ok {
				return a, true
			}
		}
	}
	return nil, false
}

// Edit maps a key pressed in a text prompt to an editing action. Bindings in
// the table take precedence; Edit covers what is left.
func Edit(k string) (action.Action, bool) {
	switch k {
	case "backspace", "ctrl+h":
		return action.DeleteBackward{}, true
	case "delete", "ctrl+d":
		return action.DeleteForward{}, true
	case "left", "ctrl+b":
		return action.CursorLeft{}, true
	case "right", "ctrl+f":
		return action.CursorRight{}, true
	case "home", "ctrl+a":
		return action.CursorStart{}, true
	case "end", "ctrl+e":
		return action.CursorEnd{}, true
	case "ctrl+u":
		return action.ClearInput{}, true
	}

	if printable(k) {
		r, _ := utf8.DecodeRuneInString(k)
		return action.InsertChar{Char: r}, true
	}
	return nil, false
}

func printable(k string) bool {
	if utf8.RuneCountInString(k) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(k)
	return unicode.IsPrint(r)
}

// Help returns one key.Binding per action bound in mode m (global bindings
// included), for the help views.
func (t *Table) Help(m mode.Mode) []key.Binding {
	byAction := make(map[string][]string)
	collect := func(table map[string]action.Action, skipShadowed bool) {
		for chord, a := range table {
			if _, shadowed := t.modes[m][chord]; skipShadowed && shadowed {
				continue
			}
			name := a.String()
			byAction[name] = append(byAction[name], display(chord))
		}
	}
	collect(t.modes[m], false)
	collect(t.global, true)

	names := make([]string, 0, len(byAction))
	for name := range byAction {
		names = append(names, name)
	}
	sort.Strings(names)

	bindings := make([]key.Binding, 0, len(names))
	for _, name := range names {
		keys := byAction[name]
		sort.Strings(keys)
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(keys...),
			key.WithHelp(strings.Join(keys, "/"), name),
		))
	}
	return bindings
}

func display(chord string) string {
	if chord == " " {
		return "space"
	}
	return chord
}
