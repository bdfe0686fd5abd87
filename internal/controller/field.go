package controller

import "unicode/utf8"

// TextField models the text input: its value and a selection expressed in rune offsets.
// Start == End means a plain caret.
type TextField struct {
	value string
	start int
	end   int
}

// NewTextField 构造输入框模型，越界的选区会被截断到合法范围。
func NewTextField(value string, start, end int) TextField {
	var f TextField
	f.Set(value, start, end)
	return f
}

// Value returns the current text.
func (f TextField) Value() string {
	return f.value
}

// Selection returns the selection bounds in rune offsets.
func (f TextField) Selection() (int, int) {
	return f.start, f.end
}

// Caret returns the caret position (the selection end).
func (f TextField) Caret() int {
	return f.end
}

// Len returns the value length in runes.
func (f TextField) Len() int {
	return utf8.RuneCountInString(f.value)
}

// Set replaces the value and selection.
func (f *TextField) Set(value string, start, end int) {
	f.value = value
	n := utf8.RuneCountInString(value)
	start = clamp(start, 0, n)
	end = clamp(end, 0, n)
	if start > end {
		start, end = end, start
	}
	f.start, f.end = start, end
}

// Insert 在光标处插入 s，替换当前选区，光标移动到插入内容之后。
func (f *TextField) Insert(s string) {
	runes := []rune(f.value)
	inserted := []rune(s)

	out := make([]rune, 0, len(runes)+len(inserted))
	out = append(out, runes[:f.start]...)
	out = append(out, inserted...)
	out = append(out, runes[f.end:]...)

	caret := f.start + len(inserted)
	f.value = string(out)
	f.start, f.end = caret, caret
}

// Reset 清空输入。
func (f *TextField) Reset() {
	f.value = ""
	f.start, f.end = 0, 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
