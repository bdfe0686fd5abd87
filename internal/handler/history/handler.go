package history

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/moodlens/internal/analysis/emotion"
	model "github.com/zhouzirui/moodlens/internal/model/history"
	historyService "github.com/zhouzirui/moodlens/internal/service/history"
	"github.com/zhouzirui/moodlens/internal/view"
	"github.com/zhouzirui/moodlens/pkg/utils"
)

const keepAliveInterval = 25 * time.Second

// Service is the subset of the history service the handler uses.
type Service interface {
	Recent(ctx context.Context, limit int) ([]model.Entry, error)
	Get(ctx context.Context, id int64) (model.Entry, error)
	Subscribe() (<-chan model.Entry, func())
}

// Handler 历史记录的HTTP处理器
type Handler struct {
	svc      Service
	pageSize int
}

// New 创建历史处理器
func New(svc Service, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = 50
	}
	return &Handler{svc: svc, pageSize: pageSize}
}

// RegisterRoutes 注册历史相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/history", h.handlePage)
	r.Route("/api/history", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/stream", h.handleStream)
		r.Get("/{id}", h.handleGet)
	})
}

type entryRow struct {
	ID         int64
	Preview    string
	Name       string
	Glyph      string
	Color      template.CSS
	Confidence string
	EmojiCount int
	Relative   string
	Absolute   string
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Recent(r.Context(), h.pageSize)
	if err != nil {
		log.Printf("[history] list failed: %v", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	rows := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		label := emotion.Label(e.TopLabel)
		rows = append(rows, entryRow{
			ID:         e.ID,
			Preview:    e.Preview(),
			Name:       emotion.DisplayName(label),
			Glyph:      string(emotion.GlyphOf(label)),
			Color:      template.CSS("border-left-color: " + string(emotion.ColorOf(label))),
			Confidence: view.Percent(e.Confidence),
			EmojiCount: e.EmojiCount,
			Relative:   humanize.Time(e.CreatedAt),
			Absolute:   e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, rows); err != nil {
		log.Printf("[history] render page failed: %v", err)
		http.Error(w, "failed to render history", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	limit := h.pageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			utils.RespondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}

	entries, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		log.Printf("[history] list failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	entry, err := h.svc.Get(r.Context(), id)
	if errors.Is(err, historyService.ErrEntryNotFound) {
		utils.RespondError(w, http.StatusNotFound, "entry not found")
		return
	}
	if err != nil {
		log.Printf("[history] get %d failed: %v", id, err)
		utils.RespondError(w, http.StatusInternalServerError, "failed to load entry")
		return
	}
	utils.RespondJSON(w, http.StatusOK, entry)
}

// handleStream 以 SSE 推送新的历史记录
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	updates, cancel := h.svc.Subscribe()
	defer cancel()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	utils.SendSSEComment(w, flusher, fmt.Sprintf("subscribed %d", time.Now().Unix()))

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case entry, ok := <-updates:
			if !ok {
				return
			}
			utils.SendSSEEvent(w, flusher, "entry", entry)
		case <-ticker.C:
			utils.SendSSEComment(w, flusher, "keepalive")
		}
	}
}

var pageTmpl = template.Must(template.New("history").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>MoodLens history</title>
  <style>
    body { font-family: system-ui, sans-serif; background: #f5f7fb; margin: 0; }
    main { max-width: 820px; margin: 0 auto; padding: 24px; }
    .entry { background: #fff; border-left: 6px solid #808080; border-radius: 8px; padding: 12px 16px; margin: 10px 0; }
    .entry-head { display: flex; justify-content: space-between; color: #6b7280; font-size: 13px; }
    .entry-text { margin: 8px 0 0; }
  </style>
</head>
<body>
<main>
  <h1>Analysis history</h1>
  <p><a href="/">← Back to analyzer</a></p>
  {{- if not . }}
  <p class="empty">No analyses yet.</p>
  {{- end }}
  {{- range . }}
  <div class="entry" style="{{ .Color }}">
    <div class="entry-head">
      <span>{{ .Glyph }} <strong>{{ .Name }}</strong> {{ .Confidence }}</span>
      <span title="{{ .Absolute }}">#{{ .ID }} · {{ .Relative }}</span>
    </div>
    <p class="entry-text">{{ .Preview }}</p>
  </div>
  {{- end }}
</main>
</body>
</html>
`))
