package view

import (
	"fmt"
	"unicode/utf8"

	"github.com/zhouzirui/moodlens/internal/analysis/emotion"
	"github.com/zhouzirui/moodlens/internal/controller"
)

// 固定文案。
const (
	TriggerLabel     = "Analyze Emotions"
	TriggerBusyLabel = "Analyzing..."
	EmptyTitle       = "Ready to Analyze!"
	EmptyHint        = "Enter some text and click \"Analyze Emotions\" to see the results here."
	EmptyGlyph       = "😊"
	ErrorTitle       = "Analysis Error"
	ErrorGlyph       = "😞"
	TimeLayout       = "15:04:05"
)

// PanelKind 区分结果区域的三种形态。
type PanelKind string

const (
	PanelEmpty   PanelKind = "empty"
	PanelResults PanelKind = "results"
	PanelError   PanelKind = "error"
)

// Action 是结果区域中的操作按钮。
type Action struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

var (
	actionReanalyze = Action{Name: "analyze", Label: "🔄 Analyze Again"}
	actionRetry     = Action{Name: "analyze", Label: "🔄 Try Again"}
	actionClear     = Action{Name: "clear", Label: "🗑️ Clear"}
	actionHistory   = Action{Name: "history", Label: "📊 View History"}
)

// ViewModel is everything a surface needs to draw the current state.
type ViewModel struct {
	Trigger      TriggerView       `json:"trigger"`
	Busy         bool              `json:"busy"`
	Notification *NotificationView `json:"notification,omitempty"`
	// Panel 为 nil 表示宿主没有结果区域。
	Panel *Panel `json:"panel,omitempty"`
}

type TriggerView struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

type NotificationView struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
}

type Panel struct {
	Kind    PanelKind     `json:"kind"`
	Empty   *EmptyPanel   `json:"empty,omitempty"`
	Results *ResultsPanel `json:"results,omitempty"`
	Failure *ErrorPanel   `json:"error,omitempty"`
}

type EmptyPanel struct {
	Glyph string `json:"glyph"`
	Title string `json:"title"`
	Hint  string `json:"hint"`
}

type ErrorPanel struct {
	Glyph   string   `json:"glyph"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Actions []Action `json:"actions"`
}

type TopCard struct {
	Label      string `json:"label"`
	Name       string `json:"name"`
	Glyph      string `json:"glyph"`
	Color      string `json:"color"`
	Confidence string `json:"confidence"`
	// HistoryBadge 形如 "#42"，服务未返回 history_id 时为空。
	HistoryBadge string `json:"historyBadge,omitempty"`
}

type ScoreRow struct {
	Label   string  `json:"label"`
	Name    string  `json:"name"`
	Glyph   string  `json:"glyph"`
	Color   string  `json:"color"`
	Percent string  `json:"percent"`
	Bar     float64 `json:"bar"`
	Top     bool    `json:"top"`
}

type ResultsPanel struct {
	Top        TopCard    `json:"top"`
	Rows       []ScoreRow `json:"rows"`
	Text       string     `json:"text"`
	CharCount  int        `json:"charCount"`
	EmojiCount int        `json:"emojiCount"`
	RenderedAt string     `json:"renderedAt"`
	Actions    []Action   `json:"actions"`
}

// Render builds the view-model for a snapshot. It has no side effects.
func Render(snap controller.Snapshot) ViewModel {
	busy := snap.Busy()
	vm := ViewModel{
		Trigger: TriggerView{Label: TriggerLabel, Disabled: busy},
		Busy:    busy && snap.Surface.Has(controller.BusyIndicator),
	}
	if busy {
		vm.Trigger.Label = TriggerBusyLabel
	}
	if n := snap.Notification; n != nil {
		style := NoticeStyleOf(n.Kind)
		vm.Notification = &NotificationView{
			ID:      n.ID,
			Kind:    string(style.Kind),
			Message: n.Message,
			Icon:    style.Icon,
			Color:   style.Color,
		}
	}
	if snap.Surface.Has(controller.ResultsContainer) {
		p := renderPanel(snap)
		vm.Panel = &p
	}
	return vm
}

func renderPanel(snap controller.Snapshot) Panel {
	switch snap.Panel.Phase {
	case controller.Rendered:
		if snap.Panel.Response != nil {
			return Panel{Kind: PanelResults, Results: renderResults(snap)}
		}
	case controller.Errored:
		return Panel{Kind: PanelError, Failure: &ErrorPanel{
			Glyph:   ErrorGlyph,
			Title:   ErrorTitle,
			Message: snap.Panel.Message,
			Actions: []Action{actionRetry, actionClear},
		}}
	}
	return Panel{Kind: PanelEmpty, Empty: &EmptyPanel{Glyph: EmptyGlyph, Title: EmptyTitle, Hint: EmptyHint}}
}

func renderResults(snap controller.Snapshot) *ResultsPanel {
	resp := snap.Panel.Response
	top := resp.Top()
	topLabel := emotion.Label(top.Label)

	card := TopCard{
		Label:      top.Label,
		Name:       emotion.DisplayName(topLabel),
		Glyph:      string(emotion.GlyphOf(topLabel)),
		Color:      string(emotion.ColorOf(topLabel)),
		Confidence: Percent(top.Confidence),
	}
	if resp.HistoryID != nil {
		card.HistoryBadge = fmt.Sprintf("#%d", *resp.HistoryID)
	}

	ranked := resp.RankedScores()
	rows := make([]ScoreRow, 0, len(ranked))
	for _, s := range ranked {
		label := emotion.Label(s.Label)
		rows = append(rows, ScoreRow{
			Label:   s.Label,
			Name:    emotion.DisplayName(label),
			Glyph:   string(emotion.GlyphOf(label)),
			Color:   string(emotion.ColorOf(label)),
			Percent: Percent(s.Value),
			Bar:     BarWidth(s.Value),
			Top:     s.Label == top.Label,
		})
	}

	return &ResultsPanel{
		Top:        card,
		Rows:       rows,
		Text:       resp.Text,
		CharCount:  utf8.RuneCountInString(resp.Text),
		EmojiCount: resp.EmojiCount(),
		RenderedAt: snap.RenderedAt.Format(TimeLayout),
		Actions:    []Action{actionReanalyze, actionClear, actionHistory},
	}
}
