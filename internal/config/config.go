package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all vigil configuration, read from the environment.
type Config struct {
	Anomaly  AnomalyConfig
	Summary  SummaryConfig
	Classify ClassifyConfig
	Output   OutputConfig
	LogLevel string
}

// AnomalyConfig tunes the isolation forest.
type AnomalyConfig struct {
	Contamination float64 // expected outlier fraction
	Seed          int64   // fixes ensemble randomness
	Trees         int
	Subsample     int
}

// SummaryConfig selects and bounds the summarization capability.
type SummaryConfig struct {
	Provider   string // "openai", "local", or "none"
	MaxRecords int
	MinWords   int
	MaxWords   int
	Timeout    time.Duration

	// Local provider: ONNX encoder files.
	ModelPath string
	VocabPath string

	// OpenAI provider.
	OpenAIModel  string
	OpenAIAPIKey string
}

// ClassifyConfig resolves the error/warning counting quirk.
type ClassifyConfig struct {
	Exclusive bool // count a both-matching record as error only
}

// OutputConfig selects report destinations.
type OutputConfig struct {
	Pretty     bool   // indent stdout JSON
	FilePath   string // when set, also append NDJSON to this file
	WebhookURL string // when set, also POST the report here
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Anomaly: AnomalyConfig{
			Contamination: getenvFloat("VIGIL_CONTAMINATION", 0.1),
			Seed:          getenvInt("VIGIL_SEED", 42),
			Trees:         int(getenvInt("VIGIL_TREES", 100)),
			Subsample:     int(getenvInt("VIGIL_SUBSAMPLE", 256)),
		},
		Summary: SummaryConfig{
			Provider:     getenv("VIGIL_SUMMARIZER", "none"),
			MaxRecords:   int(getenvInt("VIGIL_SUMMARY_MAX_RECORDS", 50)),
			MinWords:     int(getenvInt("VIGIL_SUMMARY_MIN_WORDS", 30)),
			MaxWords:     int(getenvInt("VIGIL_SUMMARY_MAX_WORDS", 120)),
			Timeout:      getenvDuration("VIGIL_SUMMARY_TIMEOUT", 30*time.Second),
			ModelPath:    getenv("VIGIL_MODEL_PATH", "models/model_quantized.onnx"),
			VocabPath:    getenv("VIGIL_VOCAB_PATH", "models/vocab.txt"),
			OpenAIModel:  os.Getenv("VIGIL_OPENAI_MODEL"),
			OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		},
		Classify: ClassifyConfig{
			Exclusive: getenvBool("VIGIL_EXCLUSIVE_COUNTING", false),
		},
		Output: OutputConfig{
			Pretty:     getenvBool("VIGIL_OUTPUT_PRETTY", false),
			FilePath:   os.Getenv("VIGIL_OUTPUT_FILE"),
			WebhookURL: os.Getenv("VIGIL_WEBHOOK_URL"),
		},
		LogLevel: getenv("VIGIL_LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getenvInt(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
