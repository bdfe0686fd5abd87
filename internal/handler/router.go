package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/zhouzirui/moodlens/internal/handler/health"
	"github.com/zhouzirui/moodlens/internal/handler/history"
	"github.com/zhouzirui/moodlens/internal/handler/live"
	"github.com/zhouzirui/moodlens/internal/handler/page"
	"github.com/zhouzirui/moodlens/internal/model/sample"
	"github.com/zhouzirui/moodlens/internal/service/session"
)

// Deps 汇总路由需要的服务。
type Deps struct {
	Samples        sample.Store
	Sessions       *session.Registry
	Live           live.Config
	History        history.Service // 为 nil 时不注册历史路由
	HistoryPage    int
	AnalysisURL    string
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	page.NewHandler(deps.Samples).RegisterRoutes(r)
	live.NewHandler(deps.Sessions, deps.Live).RegisterRoutes(r)
	health.New(deps.AnalysisURL, deps.Sessions).RegisterRoutes(r)

	if deps.History != nil {
		history.New(deps.History, deps.HistoryPage).RegisterRoutes(r)
	} else {
		r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "history is disabled", http.StatusNotFound)
		})
	}

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}
