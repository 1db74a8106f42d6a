// Command vigil analyzes a security log file and prints an analysis report.
//
// Usage:
//
//	vigil <file>    analyze a .log/.txt/.csv file
//	vigil -         analyze stdin
//
// Configuration is read from VIGIL_* environment variables; see
// internal/config.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/crimson-sun/vigil/internal/anomaly"
	"github.com/crimson-sun/vigil/internal/classify"
	"github.com/crimson-sun/vigil/internal/config"
	"github.com/crimson-sun/vigil/internal/logging"
	"github.com/crimson-sun/vigil/internal/output"
	"github.com/crimson-sun/vigil/internal/output/file"
	"github.com/crimson-sun/vigil/internal/output/multi"
	"github.com/crimson-sun/vigil/internal/output/stdout"
	"github.com/crimson-sun/vigil/internal/output/webhook"
	"github.com/crimson-sun/vigil/internal/pipeline"
	"github.com/crimson-sun/vigil/internal/summarize"
	"github.com/crimson-sun/vigil/internal/summarize/embed"
)

func main() {
	cfg := config.Load()
	logging.Init(true, logging.ParseLevel(cfg.LogLevel))

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: vigil <file|->")
		os.Exit(2)
	}

	data, hint, err := readInput(os.Args[1])
	if err != nil {
		log.Fatalf("failed to read input: %v", err)
	}

	// Capabilities are loaded once and reused; summarization model load is
	// the expensive part.
	capability, cleanup, err := buildCapability(cfg.Summary)
	if err != nil {
		log.Fatalf("failed to initialize summarizer: %v", err)
	}
	defer cleanup()

	pipe := pipeline.New(
		&classify.Counter{Exclusive: cfg.Classify.Exclusive},
		anomaly.NewDetector(
			&anomaly.IsolationForest{Trees: cfg.Anomaly.Trees, Subsample: cfg.Anomaly.Subsample},
			cfg.Anomaly.Seed,
		),
		summarize.New(capability, summarize.Config{
			MaxRecords: cfg.Summary.MaxRecords,
			MinLength:  cfg.Summary.MinWords,
			MaxLength:  cfg.Summary.MaxWords,
		}),
		pipeline.Config{
			Contamination:  cfg.Anomaly.Contamination,
			SummaryTimeout: cfg.Summary.Timeout,
		},
	)

	out := buildOutputs(cfg.Output)
	defer func() {
		if err := out.Close(); err != nil {
			slog.Error("failed to close outputs", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, analyzeErr := pipe.Analyze(ctx, data, hint)
	if err := out.Write(ctx, report); err != nil {
		log.Fatalf("failed to write report: %v", err)
	}
	if analyzeErr != nil {
		slog.Error("analysis failed", "error", analyzeErr)
		os.Exit(1)
	}
}

// readInput loads the log bytes and derives a filename hint. "-" reads
// stdin with no hint.
func readInput(arg string) ([]byte, string, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		return data, "", err
	}
	data, err := os.ReadFile(arg)
	return data, arg, err
}

// buildCapability resolves the configured summarization provider. The
// returned cleanup releases provider resources (no-op for most).
func buildCapability(cfg config.SummaryConfig) (summarize.Capability, func(), error) {
	switch cfg.Provider {
	case "openai":
		c, err := summarize.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			return nil, nil, err
		}
		return c, func() {}, nil
	case "local":
		enc, err := embed.NewEncoder(cfg.ModelPath, cfg.VocabPath)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := enc.Close(); err != nil {
				slog.Warn("failed to close encoder", "error", err)
			}
		}
		return summarize.NewExtractive(enc), cleanup, nil
	case "none":
		return summarize.Disabled{}, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown summarizer provider %q", cfg.Provider)
	}
}

// buildOutputs always writes to stdout; file and webhook destinations are
// added when configured.
func buildOutputs(cfg config.OutputConfig) output.Output {
	outputs := []output.Output{stdout.New(cfg.Pretty)}

	if cfg.FilePath != "" {
		f, err := file.New(cfg.FilePath)
		if err != nil {
			log.Fatalf("failed to open output file: %v", err)
		}
		outputs = append(outputs, f)
	}
	if cfg.WebhookURL != "" {
		outputs = append(outputs, webhook.New(cfg.WebhookURL))
	}

	if len(outputs) == 1 {
		return outputs[0]
	}
	return multi.New(outputs...)
}
