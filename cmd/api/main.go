package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/moodlens/internal/config"
	"github.com/zhouzirui/moodlens/internal/controller"
	"github.com/zhouzirui/moodlens/internal/handler"
	"github.com/zhouzirui/moodlens/internal/handler/live"
	"github.com/zhouzirui/moodlens/internal/model/sample"
	"github.com/zhouzirui/moodlens/internal/service/analysis"
	"github.com/zhouzirui/moodlens/internal/service/history"
	"github.com/zhouzirui/moodlens/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	client, err := analysis.NewClient(analysis.Config{BaseURL: cfg.Analysis.BaseURL, Timeout: cfg.Analysis.Timeout})
	if err != nil {
		log.Fatalf("failed to initialize analysis client: %v", err)
	}

	samples := loadSamples(cfg.UI.SamplesFile)

	var historySvc *history.Service
	if cfg.History.Enabled {
		store, err := history.OpenSQLite(cfg.History.DBPath)
		if err != nil {
			log.Fatalf("failed to open history database: %v", err)
		}
		historySvc = history.NewService(store)
		defer historySvc.Close()
		log.Printf("History log stored in %s", cfg.History.DBPath)
	} else {
		log.Println("History log disabled by configuration")
	}

	registry := session.NewRegistry()
	defer registry.CloseAll()

	liveCfg := live.Config{
		NewController: func(surface controller.Surface) *controller.Controller {
			return controller.New(surface, controller.Options{
				NotificationTTL: cfg.UI.NotificationTTL,
				SampleDelay:     cfg.UI.SampleDelay,
				Samples:         samples,
			})
		},
		Analyzer:        client,
		EventsPerSecond: cfg.Live.EventsPerSecond,
		Burst:           cfg.Live.Burst,
	}
	deps := handler.Deps{
		Samples:        samples,
		Sessions:       registry,
		Live:           liveCfg,
		HistoryPage:    cfg.History.PageSize,
		AnalysisURL:    client.BaseURL(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if historySvc != nil {
		deps.Live.Recorder = historySvc
		deps.History = historySvc
	}

	startServer(ctx, cfg.Server, handler.NewRouter(deps))
}

func loadSamples(path string) sample.Store {
	if path == "" {
		return sample.NewMemoryStore(sample.Seed())
	}
	items, err := sample.LoadFile(path)
	if err != nil {
		log.Printf("warning: failed to load samples from %s: %v", path, err)
		log.Println("continuing with built-in sample texts")
		return sample.NewMemoryStore(sample.Seed())
	}
	log.Printf("Loaded %d sample texts from %s", len(items), path)
	return sample.NewMemoryStore(items)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("MoodLens listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
