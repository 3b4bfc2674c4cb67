// Package prompt holds the single-line text buffer behind the search and
// filter prompts.
package prompt

// Field is an editable line of text with a cursor. The cursor is a rune
// offset in the range [0, Len()].
type Field struct {
	buf    []rune
	cursor int
}

// New returns an empty field
func New() *Field {
	return &Field{}
}

// Value returns the current text
func (f *Field) Value() string {
	return string(f.buf)
}

// Cursor returns the cursor position in runes
func (f *Field) Cursor() int {
	return f.cursor
}

// Len returns the number of runes in the buffer
func (f *Field) Len() int {
	return len(f.buf)
}

// Insert puts r at the cursor and advances past it
func (f *Field) Insert(r rune) {
	if f.cursor == len(f.buf) {
		f.buf = append(f.buf, r)
	} else {
		f.buf = append(f.buf, 0)
		copy(f.buf[f.cursor+1:], f.buf[f.cursor:])
		f.buf[f.cursor] = r
	}
	f.cursor++
}

// DeleteBefore removes the rune left of the cursor (backspace)
func (f *Field) DeleteBefore() bool {
	if f.cursor == 0 {
		return false
	}
	f.buf = append(f.buf[:f.cursor-1], f.buf[f.cursor:]...)
	f.cursor--
	return true
}

// DeleteAfter removes the rune under the cursor (delete)
func (f *Field) DeleteAfter() bool {
	if f.cursor == len(f.buf) {
		return false
	}
	f.buf = append(f.buf[:f.cursor], f.buf[f.cursor+1:]...)
	return true
}

func (f *Field) Left() {
	if f.cursor > 0 {
		f.cursor--
	}
}

func (f *Field) Right() {
	if f.cursor < len(f.buf) {
		f.cursor++
	}
}

func (f *Field) Start() {
	f.cursor = 0
}

func (f *Field) End() {
	f.cursor = len(f.buf)
}

// Set replaces the text and moves the cursor to the end
func (f *Field) Set(s string) {
	f.buf = []rune(s)
	f.cursor = len(f.buf)
}

// Clear empties the field
func (f *Field) Clear() {
	f.buf = f.buf[:0]
	f.cursor = 0
}
