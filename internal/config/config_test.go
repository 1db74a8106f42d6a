package config

import (
	"os"
	"testing"
	"time"
)

var allKeys = []string{
	"VIGIL_CONTAMINATION", "VIGIL_SEED", "VIGIL_TREES", "VIGIL_SUBSAMPLE",
	"VIGIL_SUMMARIZER", "VIGIL_SUMMARY_MAX_RECORDS", "VIGIL_SUMMARY_MIN_WORDS",
	"VIGIL_SUMMARY_MAX_WORDS", "VIGIL_SUMMARY_TIMEOUT", "VIGIL_MODEL_PATH",
	"VIGIL_VOCAB_PATH", "VIGIL_OPENAI_MODEL", "OPENAI_API_KEY",
	"VIGIL_EXCLUSIVE_COUNTING", "VIGIL_OUTPUT_PRETTY", "VIGIL_OUTPUT_FILE",
	"VIGIL_WEBHOOK_URL", "VIGIL_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		if v, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, v) })
			os.Unsetenv(key)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Anomaly.Contamination != 0.1 {
		t.Fatalf("expected default contamination 0.1, got %v", cfg.Anomaly.Contamination)
	}
	if cfg.Anomaly.Seed != 42 {
		t.Fatalf("expected default seed 42, got %d", cfg.Anomaly.Seed)
	}
	if cfg.Summary.Provider != "none" {
		t.Fatalf("expected default provider 'none', got %q", cfg.Summary.Provider)
	}
	if cfg.Summary.MaxRecords != 50 || cfg.Summary.MinWords != 30 || cfg.Summary.MaxWords != 120 {
		t.Fatalf("unexpected summary bounds: %+v", cfg.Summary)
	}
	if cfg.Summary.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout 30s, got %v", cfg.Summary.Timeout)
	}
	if cfg.Classify.Exclusive {
		t.Fatal("expected non-exclusive counting by default")
	}
	if cfg.Output.Pretty || cfg.Output.FilePath != "" || cfg.Output.WebhookURL != "" {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected default log level info, got %q", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIGIL_CONTAMINATION", "0.25")
	t.Setenv("VIGIL_SEED", "7")
	t.Setenv("VIGIL_SUMMARIZER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("VIGIL_SUMMARY_TIMEOUT", "5s")
	t.Setenv("VIGIL_EXCLUSIVE_COUNTING", "true")
	t.Setenv("VIGIL_OUTPUT_PRETTY", "1")
	t.Setenv("VIGIL_WEBHOOK_URL", "https://example.com/hook")

	cfg := Load()

	if cfg.Anomaly.Contamination != 0.25 {
		t.Fatalf("expected contamination 0.25, got %v", cfg.Anomaly.Contamination)
	}
	if cfg.Anomaly.Seed != 7 {
		t.Fatalf("expected seed 7, got %d", cfg.Anomaly.Seed)
	}
	if cfg.Summary.Provider != "openai" || cfg.Summary.OpenAIAPIKey != "sk-test" {
		t.Fatalf("unexpected summary config: %+v", cfg.Summary)
	}
	if cfg.Summary.Timeout != 5*time.Second {
		t.Fatalf("expected timeout 5s, got %v", cfg.Summary.Timeout)
	}
	if !cfg.Classify.Exclusive {
		t.Fatal("expected exclusive counting enabled")
	}
	if !cfg.Output.Pretty || cfg.Output.WebhookURL != "https://example.com/hook" {
		t.Fatalf("unexpected output config: %+v", cfg.Output)
	}
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("VIGIL_CONTAMINATION", "lots")
	t.Setenv("VIGIL_SEED", "not-a-number")
	t.Setenv("VIGIL_SUMMARY_TIMEOUT", "soon")
	t.Setenv("VIGIL_OUTPUT_PRETTY", "kinda")

	cfg := Load()

	if cfg.Anomaly.Contamination != 0.1 {
		t.Fatalf("expected fallback contamination, got %v", cfg.Anomaly.Contamination)
	}
	if cfg.Anomaly.Seed != 42 {
		t.Fatalf("expected fallback seed, got %d", cfg.Anomaly.Seed)
	}
	if cfg.Summary.Timeout != 30*time.Second {
		t.Fatalf("expected fallback timeout, got %v", cfg.Summary.Timeout)
	}
	if cfg.Output.Pretty {
		t.Fatal("expected fallback pretty=false")
	}
}
