package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newService(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Text string `json:"text"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":        true,
			"text":           payload.Text,
			"emotion_scores": map[string]float64{"sadness": 0.6, "joy": 0.4},
			"top_emotion":    map[string]any{"label": "sadness", "confidence": 0.6},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProbeText(t *testing.T) {
	srv := newService(t)
	var out bytes.Buffer

	err := run(context.Background(), &out, &options{serviceURL: srv.URL, text: "rainy days", format: "text", timeout: time.Second})
	if err != nil {
		t.Fatalf("run err: %v", err)
	}
	for _, want := range []string{"Sadness", "60.0%", "rainy days"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestProbeSampleHTML(t *testing.T) {
	srv := newService(t)
	var out bytes.Buffer

	err := run(context.Background(), &out, &options{serviceURL: srv.URL, sample: 1, format: "html", timeout: time.Second})
	if err != nil {
		t.Fatalf("run err: %v", err)
	}
	if !strings.Contains(out.String(), "results-panel") || !strings.Contains(out.String(), "championship") {
		t.Fatalf("unexpected html output:\n%s", out.String())
	}
}

func TestProbeValidation(t *testing.T) {
	if err := run(context.Background(), &bytes.Buffer{}, &options{serviceURL: "http://127.0.0.1:1", format: "text"}); err == nil {
		t.Fatal("expected error without text or sample")
	}
	if err := run(context.Background(), &bytes.Buffer{}, &options{serviceURL: "http://127.0.0.1:1", sample: 9, format: "text"}); err == nil {
		t.Fatal("expected error for unknown sample")
	}
}
