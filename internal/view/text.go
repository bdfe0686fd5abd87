package view

import (
	"fmt"
	"strings"
)

// Text renders the view-model as plain text, used by the probe CLI.
func Text(vm ViewModel) string {
	var b strings.Builder

	if n := vm.Notification; n != nil {
		fmt.Fprintf(&b, "%s %s\n\n", n.Icon, n.Message)
	}
	if vm.Busy {
		b.WriteString(TriggerBusyLabel + "\n\n")
	}
	if vm.Panel == nil {
		return b.String()
	}

	switch vm.Panel.Kind {
	case PanelResults:
		r := vm.Panel.Results
		fmt.Fprintf(&b, "%s %s  %s confidence", r.Top.Glyph, r.Top.Name, r.Top.Confidence)
		if r.Top.HistoryBadge != "" {
			fmt.Fprintf(&b, "  (saved %s)", r.Top.HistoryBadge)
		}
		b.WriteString("\n\n")
		for _, row := range r.Rows {
			marker := ""
			if row.Top {
				marker = "  <- Top"
			}
			fmt.Fprintf(&b, "%s %-10s %7s  %s%s\n", row.Glyph, row.Name, row.Percent, bar(row.Bar, 20), marker)
		}
		fmt.Fprintf(&b, "\n%s\n\n", r.Text)
		fmt.Fprintf(&b, "%d characters, %d emojis, %s\n", r.CharCount, r.EmojiCount, r.RenderedAt)
	case PanelError:
		e := vm.Panel.Failure
		fmt.Fprintf(&b, "%s %s: %s\n", e.Glyph, e.Title, e.Message)
	default:
		e := vm.Panel.Empty
		fmt.Fprintf(&b, "%s %s\n%s\n", e.Glyph, e.Title, e.Hint)
	}
	return b.String()
}

// bar draws width (0..100) as a fixed-size block bar.
func bar(width float64, size int) string {
	filled := int(width/100*float64(size) + 0.5)
	if filled > size {
		filled = size
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", size-filled)
}
