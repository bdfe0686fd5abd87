package live

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/moodlens/internal/controller"
	"github.com/zhouzirui/moodlens/internal/model/analysis"
	"github.com/zhouzirui/moodlens/internal/service/session"
	"github.com/zhouzirui/moodlens/internal/view"
)

type discardLogger struct{}

func (discardLogger) Printf(string, ...any) {}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(_ context.Context, req analysis.AnalysisRequest) (*analysis.Result, error) {
	return &analysis.Result{StatusCode: 200, Response: &analysis.AnalysisResponse{
		Success:       true,
		Text:          req.Text,
		EmotionScores: map[string]float64{"joy": 0.7, "sadness": 0.3},
		TopEmotion:    &analysis.TopEmotion{Label: "joy", Confidence: 0.7},
	}}, nil
}

type frame struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

func setup(t *testing.T, cfg Config) (*websocket.Conn, *session.Registry) {
	t.Helper()
	if cfg.NewController == nil {
		cfg.NewController = func(s controller.Surface) *controller.Controller {
			return controller.New(s, controller.Options{Logger: discardLogger{}})
		}
	}
	registry := session.NewRegistry()
	h := NewHandler(registry, cfg)

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/test-session"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws, registry
}

func write(t *testing.T, ws *websocket.Conn, msgType string, data any) {
	t.Helper()
	payload, _ := json.Marshal(data)
	if err := ws.WriteJSON(inboundMessage{Type: msgType, Data: payload}); err != nil {
		t.Fatalf("write err: %v", err)
	}
}

func readUntil(t *testing.T, ws *websocket.Conn, pred func(frame) bool) frame {
	t.Helper()
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var f frame
		if err := ws.ReadJSON(&f); err != nil {
			t.Fatalf("read err: %v", err)
		}
		if pred(f) {
			return f
		}
	}
}

func renderOf(t *testing.T, f frame) RenderFrame {
	t.Helper()
	var rf RenderFrame
	if err := json.Unmarshal(f.Data, &rf); err != nil {
		t.Fatalf("decode render frame: %v", err)
	}
	return rf
}

func allElements() HelloMessage {
	ids := make([]string, 0, len(controller.Elements))
	for _, e := range controller.Elements {
		ids = append(ids, string(e))
	}
	return HelloMessage{Elements: ids}
}

func TestLiveAnalyzeRoundTrip(t *testing.T) {
	ws, registry := setup(t, Config{Analyzer: stubAnalyzer{}})

	write(t, ws, msgHello, allElements())
	first := readUntil(t, ws, func(f frame) bool { return f.Type == msgRender })
	if first.SessionID != "test-session" {
		t.Fatalf("unexpected session id %q", first.SessionID)
	}
	initial := renderOf(t, first)
	if !initial.Focus || initial.PanelKind != view.PanelEmpty || !strings.Contains(initial.HTML, "Ready to Analyze!") {
		t.Fatalf("unexpected initial frame %#v", initial)
	}
	if registry.Count() != 1 {
		t.Fatalf("expected registered session, got %d", registry.Count())
	}

	write(t, ws, msgInput, InputMessage{Value: "I <3 this", SelectionStart: 9, SelectionEnd: 9})
	write(t, ws, msgAnalyze, nil)

	f := readUntil(t, ws, func(f frame) bool {
		return f.Type == msgRender && renderOf(t, f).PanelKind == view.PanelResults
	})
	rf := renderOf(t, f)
	if rf.Busy || rf.Trigger.Disabled {
		t.Fatalf("expected idle chrome after result, got %#v", rf)
	}
	if !strings.Contains(rf.HTML, "I &lt;3 this") {
		t.Fatalf("expected escaped text in html, got %s", rf.HTML)
	}
}

func TestLiveRequiresHello(t *testing.T) {
	ws, _ := setup(t, Config{Analyzer: stubAnalyzer{}})

	write(t, ws, msgAnalyze, nil)
	f := readUntil(t, ws, func(f frame) bool { return true })
	if f.Type != msgError || !strings.Contains(string(f.Data), "hello required") {
		t.Fatalf("expected hello required error, got %s %s", f.Type, f.Data)
	}
}

func TestLiveInsertAndNavigate(t *testing.T) {
	ws, _ := setup(t, Config{Analyzer: stubAnalyzer{}})
	write(t, ws, msgHello, allElements())
	readUntil(t, ws, func(f frame) bool { return f.Type == msgRender })

	// caret after the emoji: 2 UTF-16 units
	write(t, ws, msgInput, InputMessage{Value: "😀!", SelectionStart: 2, SelectionEnd: 2})
	write(t, ws, msgInsert, InsertMessage{Text: "❤️"})
	f := readUntil(t, ws, func(f frame) bool { return f.Type == msgRender && renderOf(t, f).Input != nil })
	in := renderOf(t, f).Input
	if in.Value != "😀❤️!" || in.Caret != 4 {
		t.Fatalf("unexpected input frame %#v", in)
	}

	write(t, ws, msgHistory, nil)
	nav := readUntil(t, ws, func(f frame) bool { return f.Type == msgNavigate })
	if !strings.Contains(string(nav.Data), "/history") {
		t.Fatalf("expected navigate to /history, got %s", nav.Data)
	}
}

func TestLiveRateLimit(t *testing.T) {
	ws, _ := setup(t, Config{Analyzer: stubAnalyzer{}, EventsPerSecond: 0.001, Burst: 1})
	write(t, ws, msgHello, allElements())
	readUntil(t, ws, func(f frame) bool { return f.Type == msgRender })

	write(t, ws, msgClear, nil)
	f := readUntil(t, ws, func(f frame) bool { return f.Type == msgError })
	if !strings.Contains(string(f.Data), "too many events") {
		t.Fatalf("expected rate limit error, got %s", f.Data)
	}
}

func TestUTF16Offsets(t *testing.T) {
	s := "a😀b"
	cases := []struct{ units, runes int }{{0, 0}, {1, 1}, {3, 2}, {4, 3}, {99, 3}}
	for _, tc := range cases {
		if got := runeOffset(s, tc.units); got != tc.runes {
			t.Fatalf("runeOffset(%d) = %d, want %d", tc.units, got, tc.runes)
		}
	}
	if got := utf16Offset(s, 2); got != 3 {
		t.Fatalf("utf16Offset(2) = %d, want 3", got)
	}
	if got := utf16Offset(s, 3); got != 4 {
		t.Fatalf("utf16Offset(3) = %d, want 4", got)
	}
}
