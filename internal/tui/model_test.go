package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/zhouzirui/moodlens/internal/controller"
	"github.com/zhouzirui/moodlens/internal/model/analysis"
)

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

func newModel() Model {
	return New(context.Background(), Config{Logger: discardLogger{}, HistoryBase: "http://localhost:8080/"})
}

func typeText(m Model, s string) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return updated.(Model)
}

func press(m Model, key tea.KeyType) (Model, tea.Cmd) {
	updated, cmd := m.Update(tea.KeyMsg{Type: key})
	return updated.(Model), cmd
}

func TestTypingMirrorsIntoController(t *testing.T) {
	m := typeText(newModel(), "hello")
	if got := m.Snapshot().Input.Value(); got != "hello" {
		t.Fatalf("expected controller input hello, got %q", got)
	}
	if got := m.Snapshot().Input.Caret(); got != 5 {
		t.Fatalf("expected caret 5, got %d", got)
	}
}

func TestTriggerAndComplete(t *testing.T) {
	m := typeText(newModel(), "I am so happy")
	m, cmd := press(m, tea.KeyCtrlS)
	if cmd == nil {
		t.Fatal("expected a request command")
	}
	snap := m.Snapshot()
	if !snap.Busy() {
		t.Fatal("expected busy after trigger")
	}

	updated, _ := m.Update(completionMsg{
		generation: m.ctrl.Generation(),
		result: &analysis.Result{StatusCode: 200, Response: &analysis.AnalysisResponse{
			Success:       true,
			Text:          "I am so happy",
			EmotionScores: map[string]float64{"joy": 0.95, "neutral": 0.05},
			TopEmotion:    &analysis.TopEmotion{Label: "joy", Confidence: 0.95},
		}},
	})
	m = updated.(Model)

	out := m.View()
	for _, want := range []string{"Joy", "95.0%", "Top", "I am so happy"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestEmptyTriggerWarns(t *testing.T) {
	m, _ := press(newModel(), tea.KeyCtrlS)
	n := m.Snapshot().Notification
	if n == nil || n.Message != controller.MsgEmptyInput {
		t.Fatalf("expected empty input warning, got %#v", n)
	}
	if !strings.Contains(m.View(), controller.MsgEmptyInput) {
		t.Fatal("expected warning in view")
	}
}

func TestClearResetsTextarea(t *testing.T) {
	m := typeText(newModel(), "some words")
	m, _ = press(m, tea.KeyCtrlL)
	if m.input.Value() != "" {
		t.Fatalf("expected empty textarea, got %q", m.input.Value())
	}
	if n := m.Snapshot().Notification; n == nil || n.Message != controller.MsgCleared {
		t.Fatalf("expected cleared notification, got %#v", n)
	}
}

func TestQuickEmojiInsert(t *testing.T) {
	m := typeText(newModel(), "ab")
	m, _ = press(m, tea.KeyLeft)
	m, _ = press(m, tea.KeyF1)

	if got := m.input.Value(); got != "a😄b" {
		t.Fatalf("expected emoji inserted at caret, got %q", got)
	}
	if got := m.Snapshot().Input.Value(); got != "a😄b" {
		t.Fatalf("expected controller value updated, got %q", got)
	}
}

func TestLoadSampleKey(t *testing.T) {
	m := newModel()
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}, Alt: true})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected delayed trigger command")
	}
	if !strings.Contains(m.input.Value(), "tough day") {
		t.Fatalf("expected second sample loaded, got %q", m.input.Value())
	}
}

func TestTextareaFollowsControllerAcrossKeys(t *testing.T) {
	m := newModel()
	steps := []struct {
		name string
		msg  tea.KeyMsg
		want string
	}{
		{"sample", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}, Alt: true}, "furious"},
		{"clear", tea.KeyMsg{Type: tea.KeyCtrlL}, ""},
		{"emoji", tea.KeyMsg{Type: tea.KeyF2}, "😢"},
	}

	for _, step := range steps {
		updated, _ := m.Update(step.msg)
		m = updated.(Model)
		if got := m.input.Value(); !strings.Contains(got, step.want) || (step.want == "" && got != "") {
			t.Fatalf("%s: expected textarea to contain %q, got %q", step.name, step.want, got)
		}
		if got := m.Snapshot().Input.Value(); got != m.input.Value() {
			t.Fatalf("%s: textarea %q out of sync with controller %q", step.name, m.input.Value(), got)
		}
	}
}

func TestHistoryNavigation(t *testing.T) {
	m, _ := press(newModel(), tea.KeyCtrlH)
	if m.visited != "http://localhost:8080/history" {
		t.Fatalf("unexpected navigation target %q", m.visited)
	}
	if n := m.Snapshot().Notification; n == nil || !strings.Contains(n.Message, "/history") {
		t.Fatalf("expected history notification, got %#v", n)
	}
}

func TestStaleCompletionIgnored(t *testing.T) {
	m := typeText(newModel(), "first text")
	m, _ = press(m, tea.KeyCtrlS)
	gen := m.ctrl.Generation()
	m, _ = press(m, tea.KeyCtrlL)

	updated, _ := m.Update(completionMsg{generation: gen, result: &analysis.Result{StatusCode: 500}})
	m = updated.(Model)
	if m.Snapshot().State.Phase != controller.Idle {
		t.Fatalf("expected idle after stale completion, got %s", m.Snapshot().State.Phase)
	}
}
