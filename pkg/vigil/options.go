package vigil

import (
	"path/filepath"
	"time"
)

type options struct {
	contamination   float64
	seed            int64
	trees           int
	subsample       int
	exclusiveCounts bool
	summaryWindow   int
	summaryMinWords int
	summaryMaxWords int
	summaryTimeout  time.Duration
	capability      SummaryCapability
	openAIKey       string
	openAIModel     string
	modelDir        string
	modelPath       string
	vocabPath       string
}

// Option configures a Vigil instance.
type Option func(*options)

// WithContamination sets the expected outlier fraction for anomaly
// detection, in (0, 0.5]. Default: 0.1.
func WithContamination(c float64) Option {
	return func(o *options) {
		o.contamination = c
	}
}

// WithSeed sets the random seed for anomaly detection, making scores
// reproducible across runs. Default: 42.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithForestSize sets the number of isolation trees and the per-tree
// subsample size. Defaults: 100 trees, 256 samples.
func WithForestSize(trees, subsample int) Option {
	return func(o *options) {
		o.trees = trees
		o.subsample = subsample
	}
}

// WithExclusiveCounting makes a record that matches both "error" and
// "warn" count only as an error. By default both counters increment.
func WithExclusiveCounting() Option {
	return func(o *options) {
		o.exclusiveCounts = true
	}
}

// WithSummarizer installs a custom summarization capability. Takes
// precedence over WithOpenAI and the local model options.
func WithSummarizer(c SummaryCapability) Option {
	return func(o *options) {
		o.capability = c
	}
}

// WithOpenAI enables abstractive summarization through the OpenAI chat
// API. An empty model selects a sensible default.
func WithOpenAI(apiKey, model string) Option {
	return func(o *options) {
		o.openAIKey = apiKey
		o.openAIModel = model
	}
}

// WithModelDir enables local extractive summarization using an ONNX
// sentence encoder. Expects: model_quantized.onnx, vocab.txt.
func WithModelDir(dir string) Option {
	return func(o *options) {
		o.modelDir = dir
	}
}

// WithModelPaths sets explicit paths for the encoder model and vocab.
// Use this when model files aren't in the default directory layout.
func WithModelPaths(model, vocab string) Option {
	return func(o *options) {
		o.modelPath = model
		o.vocabPath = vocab
	}
}

// WithSummaryWindow sets how many records from the head of the batch
// feed the summarizer. Default: 50.
func WithSummaryWindow(n int) Option {
	return func(o *options) {
		o.summaryWindow = n
	}
}

// WithSummaryLength sets the word bounds for the digest.
// Defaults: 30 and 120.
func WithSummaryLength(minWords, maxWords int) Option {
	return func(o *options) {
		o.summaryMinWords = minWords
		o.summaryMaxWords = maxWords
	}
}

// WithSummaryTimeout bounds the summarization stage per invocation.
// On expiry the report marks the summary unavailable instead of failing.
// Default: 30s.
func WithSummaryTimeout(d time.Duration) Option {
	return func(o *options) {
		o.summaryTimeout = d
	}
}

func defaultOptions() options {
	return options{
		contamination: 0.1,
		seed:          42,
	}
}

// resolveModelPaths determines the encoder and vocab file paths from the
// configured options. Explicit paths take precedence over modelDir.
func resolveModelPaths(o options) (model, vocab string) {
	if o.modelPath != "" {
		return o.modelPath, o.vocabPath
	}
	if o.modelDir == "" {
		return "", ""
	}
	return filepath.Join(o.modelDir, "model_quantized.onnx"),
		filepath.Join(o.modelDir, "vocab.txt")
}
