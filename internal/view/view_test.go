package view_test

import (
	"strings"
	"testing"
	"time"

	"github.com/zhouzirui/moodlens/internal/controller"
	"github.com/zhouzirui/moodlens/internal/model/analysis"
	"github.com/zhouzirui/moodlens/internal/view"
)

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

// rendered drives a controller through a successful analysis of resp.
func rendered(t *testing.T, surface controller.Surface, resp *analysis.AnalysisResponse) controller.Snapshot {
	t.Helper()
	c := controller.New(surface, controller.Options{
		Logger: discardLogger{},
		Now:    func() time.Time { return time.Date(2024, 5, 1, 9, 7, 5, 0, time.Local) },
	})
	c.SetInput("anything here", 0, 0)
	var gen uint64
	for _, e := range c.Trigger() {
		if req, ok := e.(controller.IssueRequest); ok {
			gen = req.Generation
		}
	}
	if gen == 0 {
		t.Fatal("expected request to be issued")
	}
	c.Complete(gen, &analysis.Result{StatusCode: 200, Response: resp}, nil)
	return c.Snapshot()
}

func sampleResponse() *analysis.AnalysisResponse {
	id := int64(42)
	return &analysis.AnalysisResponse{
		Success: true,
		Text:    "I won the lottery 🎉",
		EmotionScores: map[string]float64{
			"joy":      0.827,
			"surprise": 0.1,
			"love":     0.1,
			"sadness":  0.0,
		},
		TopEmotion:  &analysis.TopEmotion{Label: "joy", Confidence: 0.827},
		EmojisFound: []string{"🎉"},
		HistoryID:   &id,
	}
}

func TestRenderResults(t *testing.T) {
	vm := view.Render(rendered(t, controller.FullSurface(), sampleResponse()))

	if vm.Busy || vm.Trigger.Disabled || vm.Trigger.Label != view.TriggerLabel {
		t.Fatalf("unexpected chrome %#v busy=%v", vm.Trigger, vm.Busy)
	}
	if vm.Panel == nil || vm.Panel.Kind != view.PanelResults {
		t.Fatalf("expected results panel, got %#v", vm.Panel)
	}
	r := vm.Panel.Results

	if r.Top.Name != "Joy" || r.Top.Glyph != "😄" || r.Top.Color != "#FFD700" || r.Top.Confidence != "82.7%" {
		t.Fatalf("unexpected top card %#v", r.Top)
	}
	if r.Top.HistoryBadge != "#42" {
		t.Fatalf("expected history badge #42, got %q", r.Top.HistoryBadge)
	}

	wantOrder := []string{"joy", "love", "surprise", "sadness"}
	if len(r.Rows) != len(wantOrder) {
		t.Fatalf("expected %d rows, got %d", len(wantOrder), len(r.Rows))
	}
	topCount := 0
	for i, row := range r.Rows {
		if row.Label != wantOrder[i] {
			t.Fatalf("row %d: expected %s, got %s", i, wantOrder[i], row.Label)
		}
		if row.Top {
			topCount++
		}
	}
	if topCount != 1 || !r.Rows[0].Top {
		t.Fatalf("expected exactly one top marker on joy, got %d", topCount)
	}
	if r.Rows[1].Percent != "10.0%" || r.Rows[3].Percent != "0.0%" {
		t.Fatalf("unexpected percents %q %q", r.Rows[1].Percent, r.Rows[3].Percent)
	}

	if r.CharCount != 19 {
		t.Fatalf("expected 19 characters, got %d", r.CharCount)
	}
	if r.EmojiCount != 1 {
		t.Fatalf("expected 1 emoji, got %d", r.EmojiCount)
	}
	if r.RenderedAt != "09:07:05" {
		t.Fatalf("unexpected timestamp %q", r.RenderedAt)
	}
	if len(r.Actions) != 3 {
		t.Fatalf("expected three actions, got %d", len(r.Actions))
	}
}

func TestRenderUnknownLabelUsesDefaults(t *testing.T) {
	resp := &analysis.AnalysisResponse{
		Success:       true,
		Text:          "hmm what",
		EmotionScores: map[string]float64{"confusion": 0.6, "joy": 0.4},
		TopEmotion:    &analysis.TopEmotion{Label: "confusion", Confidence: 0.6},
	}
	vm := view.Render(rendered(t, controller.FullSurface(), resp))
	r := vm.Panel.Results

	if r.Top.Color != "#808080" || r.Top.Glyph != "😐" || r.Top.Name != "Confusion" {
		t.Fatalf("unexpected defaults %#v", r.Top)
	}
	if r.Top.HistoryBadge != "" {
		t.Fatalf("expected no badge, got %q", r.Top.HistoryBadge)
	}
	if r.EmojiCount != 0 {
		t.Fatalf("expected 0 emojis when absent, got %d", r.EmojiCount)
	}
}

func TestRenderIdleAndError(t *testing.T) {
	c := controller.New(controller.FullSurface(), controller.Options{Logger: discardLogger{}})
	vm := view.Render(c.Snapshot())
	if vm.Panel.Kind != view.PanelEmpty || vm.Panel.Empty.Title != "Ready to Analyze!" {
		t.Fatalf("expected empty placeholder, got %#v", vm.Panel)
	}

	c.SetInput("some text", 0, 0)
	var gen uint64
	for _, e := range c.Trigger() {
		if req, ok := e.(controller.IssueRequest); ok {
			gen = req.Generation
		}
	}
	loading := view.Render(c.Snapshot())
	if !loading.Busy || !loading.Trigger.Disabled || loading.Trigger.Label != view.TriggerBusyLabel {
		t.Fatalf("unexpected loading chrome %#v", loading)
	}

	c.Complete(gen, &analysis.Result{StatusCode: 503}, nil)
	vm = view.Render(c.Snapshot())
	if vm.Panel.Kind != view.PanelError || vm.Panel.Failure.Message != "Server error: 503" {
		t.Fatalf("expected error panel, got %#v", vm.Panel)
	}
	if vm.Panel.Results != nil {
		t.Fatal("error panel must not carry emotion data")
	}
}

func TestRenderMissingElements(t *testing.T) {
	surface := controller.NewSurface(controller.TextInput, controller.TriggerControl)
	c := controller.New(surface, controller.Options{Logger: discardLogger{}})
	c.SetInput("some text", 0, 0)
	c.Trigger()

	vm := view.Render(c.Snapshot())
	if vm.Panel != nil {
		t.Fatal("expected no panel without results container")
	}
	if vm.Busy {
		t.Fatal("expected busy indicator hidden when element is missing")
	}
	if !vm.Trigger.Disabled {
		t.Fatal("expected trigger disabled while loading")
	}
}

func TestNotificationStyles(t *testing.T) {
	cases := map[controller.NoticeKind][2]string{
		controller.NoticeSuccess: {"#10b981", "✅"},
		controller.NoticeError:   {"#ef4444", "❌"},
		controller.NoticeWarning: {"#f59e0b", "⚠️"},
		controller.NoticeInfo:    {"#6366f1", "💡"},
		"bogus":                  {"#6366f1", "💡"},
	}
	for kind, want := range cases {
		s := view.NoticeStyleOf(kind)
		if s.Color != want[0] || s.Icon != want[1] {
			t.Fatalf("unexpected style for %s: %#v", kind, s)
		}
	}
}

func TestBarWidthClamp(t *testing.T) {
	if view.BarWidth(1.5) != 100 || view.BarWidth(-0.2) != 0 {
		t.Fatal("expected bar width clamped to [0,100]")
	}
	if view.Percent(0.91) != "91.0%" {
		t.Fatalf("unexpected percent %q", view.Percent(0.91))
	}
}

func TestPanelHTMLEscapesUserText(t *testing.T) {
	resp := sampleResponse()
	resp.Text = `<script>alert(1)</script> & friends`
	resp.EmotionScores["<img src=x>"] = 0.01

	html, err := view.PanelHTML(view.Render(rendered(t, controller.FullSurface(), resp)).Panel)
	if err != nil {
		t.Fatalf("PanelHTML err: %v", err)
	}
	if strings.Contains(html, "<script>") || strings.Contains(html, "<img") {
		t.Fatalf("expected user content escaped, got %s", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") || !strings.Contains(html, "&amp; friends") {
		t.Fatalf("expected escaped text in output, got %s", html)
	}
	if !strings.Contains(html, "82.7% Confidence") {
		t.Fatalf("expected confidence in output, got %s", html)
	}
	if strings.Count(html, `class="top-marker"`) != 1 {
		t.Fatalf("expected exactly one top marker")
	}
	if !strings.Contains(html, "width: 82.7%; background: #FFD700") {
		t.Fatalf("expected joy bar style, got %s", html)
	}
}

func TestPanelHTMLNil(t *testing.T) {
	html, err := view.PanelHTML(nil)
	if err != nil || html != "" {
		t.Fatalf("expected empty output, got %q err=%v", html, err)
	}
}

func TestTextRender(t *testing.T) {
	out := view.Text(view.Render(rendered(t, controller.FullSurface(), sampleResponse())))
	if !strings.Contains(out, "Joy") || !strings.Contains(out, "82.7%") || !strings.Contains(out, "<- Top") {
		t.Fatalf("unexpected text render:\n%s", out)
	}
}
