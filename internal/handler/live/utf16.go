package live

import "unicode/utf16"

// 浏览器的 selectionStart/selectionEnd 以 UTF-16 码元计数，控制器使用 rune 偏移。

// runeOffset converts a UTF-16 code unit offset within s to a rune offset.
func runeOffset(s string, units int) int {
	if units <= 0 {
		return 0
	}
	n, seen := 0, 0
	for _, r := range s {
		if seen >= units {
			break
		}
		seen += unitLen(r)
		n++
	}
	return n
}

// utf16Offset converts a rune offset within s to a UTF-16 code unit offset.
func utf16Offset(s string, runes int) int {
	units, n := 0, 0
	for _, r := range s {
		if n >= runes {
			break
		}
		units += unitLen(r)
		n++
	}
	return units
}

func unitLen(r rune) int {
	if l := utf16.RuneLen(r); l > 0 {
		return l
	}
	return 1
}
