package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/moodlens/pkg/utils"
)

// SessionCounter reports the number of live controller sessions.
type SessionCounter interface {
	Count() int
}

// Handler 健康检查
type Handler struct {
	analysisURL string
	sessions    SessionCounter
}

// New 创建健康检查处理器
func New(analysisURL string, sessions SessionCounter) *Handler {
	return &Handler{analysisURL: analysisURL, sessions: sessions}
}

// RegisterRoutes 注册健康检查路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	count := 0
	if h.sessions != nil {
		count = h.sessions.Count()
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"analysis_service": h.analysisURL,
		"sessions":         count,
	})
}
