package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/moodlens/internal/config"
	"github.com/zhouzirui/moodlens/internal/controller"
	"github.com/zhouzirui/moodlens/internal/model/sample"
	"github.com/zhouzirui/moodlens/internal/service/analysis"
	"github.com/zhouzirui/moodlens/internal/view"
)

type options struct {
	serviceURL string
	text       string
	sample     int
	format     string
	timeout    time.Duration
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] failed to load .env, using system environment: %v", err)
	}

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Send one text through the analyzer and print the rendered result",
		Example: `  probe --text "I am so happy today 🎉"
  probe -s 2 --format html`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	serviceURL := "http://127.0.0.1:5000"
	if cfg, err := config.Load(); err == nil {
		serviceURL = cfg.Analysis.BaseURL
	}

	cmd.Flags().StringVarP(&opts.serviceURL, "service-url", "u", serviceURL, "Analysis Service base URL")
	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "text to analyze")
	cmd.Flags().IntVarP(&opts.sample, "sample", "s", 0, "analyze built-in sample N (1-based) instead of --text")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text, html or json")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 45*time.Second, "request timeout")
	return cmd
}

// run drives a controller through a single analysis and writes the rendered view.
func run(ctx context.Context, out io.Writer, opts *options) error {
	if opts.text == "" && opts.sample == 0 {
		return errors.New("either --text or --sample is required")
	}

	client, err := analysis.NewClient(analysis.Config{BaseURL: opts.serviceURL, Timeout: opts.timeout})
	if err != nil {
		return err
	}

	ctrl := controller.New(controller.FullSurface(), controller.Options{
		Samples: sample.NewMemoryStore(sample.Seed()),
	})

	if opts.sample > 0 {
		if ctrl.LoadSample(opts.sample-1) == nil {
			return fmt.Errorf("sample %d does not exist", opts.sample)
		}
	} else {
		ctrl.SetInput(opts.text, 0, 0)
	}

	for _, eff := range ctrl.Trigger() {
		req, ok := eff.(controller.IssueRequest)
		if !ok {
			continue
		}
		reqCtx, cancel := context.WithTimeout(ctx, opts.timeout)
		started := time.Now()
		res, err := client.Analyze(reqCtx, req.Request)
		cancel()
		log.Printf("[probe] analyze finished in %s", time.Since(started).Round(time.Millisecond))
		ctrl.Complete(req.Generation, res, err)
	}

	vm := view.Render(ctrl.Snapshot())
	switch opts.format {
	case "text":
		_, err = io.WriteString(out, view.Text(vm))
	case "html":
		var html string
		html, err = view.PanelHTML(vm.Panel)
		if err == nil {
			_, err = fmt.Fprintln(out, html)
		}
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(vm)
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}
	return err
}
