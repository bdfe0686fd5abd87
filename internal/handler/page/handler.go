package page

import (
	"bytes"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zhouzirui/moodlens/internal/model/sample"
	"github.com/zhouzirui/moodlens/pkg/utils"
)

// Handler serves the host page, its script and the sample list.
type Handler struct {
	samples sample.Store
	emojis  []string
}

// NewHandler 创建页面处理器
func NewHandler(samples sample.Store) *Handler {
	return &Handler{samples: samples, emojis: sample.QuickEmojis()}
}

// RegisterRoutes 注册页面路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.index)
	r.Get("/static/app.js", h.script)
	r.Get("/api/samples", h.listSamples)
}

type indexData struct {
	SessionID string
	Samples   []sample.Sample
	Emojis    []string
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		SessionID: uuid.NewString(),
		Samples:   h.samples.List(),
		Emojis:    h.emojis,
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		log.Printf("[page] render index failed: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) script(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	_, _ = w.Write([]byte(appJS))
}

func (h *Handler) listSamples(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"samples": h.samples.List(),
		"emojis":  h.emojis,
	})
}

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))
