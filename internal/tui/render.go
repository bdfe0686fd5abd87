package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/zhouzirui/moodlens/internal/view"
)

var errNoAnalyzer = errors.New("no analyzer configured")

const barCells = 24

func render(m Model, vm view.ViewModel) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("MoodLens") + "\n\n")
	b.WriteString(m.input.View() + "\n")

	status := helpStyle.Render(vm.Trigger.Label + "  ctrl+s")
	if vm.Busy {
		status = m.spin.View() + " " + vm.Trigger.Label
	}
	b.WriteString(status + "\n")
	b.WriteString(helpStyle.Render(helpLine(m.emojis)) + "\n\n")

	if n := vm.Notification; n != nil {
		b.WriteString(noticeStyle(n.Color).Render(n.Icon+" "+n.Message) + "\n\n")
	}

	if vm.Panel != nil {
		b.WriteString(panelStyle.Render(renderPanel(vm.Panel, m.width-4)))
		b.WriteString("\n")
	}
	return b.String()
}

func helpLine(emojis []string) string {
	var quick []string
	for i, e := range emojis {
		if i >= 6 {
			break
		}
		quick = append(quick, fmt.Sprintf("f%d %s", i+1, e))
	}
	return "ctrl+l clear · ctrl+h history · alt+1..4 samples · " + strings.Join(quick, " ") + " · esc quit"
}

func renderPanel(p *view.Panel, width int) string {
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	switch p.Kind {
	case view.PanelResults:
		r := p.Results
		head := fmt.Sprintf("%s %s  %s confidence", r.Top.Glyph, colored(r.Top.Color, r.Top.Name), r.Top.Confidence)
		if r.Top.HistoryBadge != "" {
			head += mutedStyle.Render("  saved " + r.Top.HistoryBadge)
		}
		b.WriteString(head + "\n\n")

		for _, row := range r.Rows {
			filled := int(row.Bar/100*barCells + 0.5)
			bar := colored(row.Color, strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", barCells-filled))
			line := fmt.Sprintf("%s %-10s %s %7s", row.Glyph, row.Name, bar, row.Percent)
			if row.Top {
				line += " " + topMarkerStyle.Render("Top")
			}
			b.WriteString(line + "\n")
		}

		b.WriteString("\n" + wordwrap.String(r.Text, width) + "\n\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("📝 %d characters · 😀 %d emojis · 🕒 %s", r.CharCount, r.EmojiCount, r.RenderedAt)))
	case view.PanelError:
		e := p.Failure
		b.WriteString(e.Glyph + " " + errorTitleStyle.Render(e.Title) + "\n")
		b.WriteString(wordwrap.String(e.Message, width) + "\n")
		b.WriteString(mutedStyle.Render("ctrl+s try again · ctrl+l clear"))
	default:
		e := p.Empty
		b.WriteString(e.Glyph + " " + e.Title + "\n")
		b.WriteString(mutedStyle.Render(wordwrap.String("Enter some text and press ctrl+s to see the results here.", width)))
	}
	return b.String()
}
