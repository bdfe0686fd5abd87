package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/moodlens/internal/config"
	"github.com/zhouzirui/moodlens/internal/model/sample"
	"github.com/zhouzirui/moodlens/internal/service/analysis"
	"github.com/zhouzirui/moodlens/internal/tui"
)

type options struct {
	serviceURL  string
	webURL      string
	logFile     string
	samplesFile string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "moodlens-term",
		Short: "Analyze the emotions in a text from the terminal",
		Long: `moodlens-term hosts the MoodLens analyzer in the terminal. It talks to the
same Analysis Service as the web page and renders the results with colours and bars.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	defaults, err := config.Load()
	serviceURL, samplesFile := "http://127.0.0.1:5000", ""
	if err == nil {
		serviceURL, samplesFile = defaults.Analysis.BaseURL, defaults.UI.SamplesFile
	}

	cmd.Flags().StringVarP(&opts.serviceURL, "service-url", "u", serviceURL, "Analysis Service base URL")
	cmd.Flags().StringVar(&opts.webURL, "web-url", "http://localhost:8080", "web server used for the history link")
	cmd.Flags().StringVar(&opts.logFile, "log-file", filepath.Join(os.TempDir(), "moodlens-term.log"), "log file path")
	cmd.Flags().StringVar(&opts.samplesFile, "samples", samplesFile, "YAML file overriding the sample texts")
	return cmd
}

func run(ctx context.Context, opts *options) error {
	logFile, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           log.DebugLevel,
		Prefix:          "moodlens-term",
	})
	logger.Info("starting", "service", opts.serviceURL)
	// 其余包使用标准库 log，避免写到终端界面上
	stdlog.SetOutput(logFile)

	client, err := analysis.NewClient(analysis.Config{BaseURL: opts.serviceURL})
	if err != nil {
		return err
	}

	samples := sample.NewMemoryStore(sample.Seed())
	if opts.samplesFile != "" {
		items, err := sample.LoadFile(opts.samplesFile)
		if err != nil {
			logger.Warn("falling back to built-in samples", "file", opts.samplesFile, "err", err)
		} else {
			samples = sample.NewMemoryStore(items)
		}
	}

	model := tui.New(ctx, tui.Config{
		Analyzer:    client,
		Samples:     samples,
		Logger:      logger.StandardLog(),
		HistoryBase: opts.webURL,
	})

	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	logger.Info("exiting", "err", err)
	return err
}
