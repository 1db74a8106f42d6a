package summarize

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeEncoder maps each segment to a fixed vector keyed by content. Segments
// not in the table embed as the zero-adjacent outlier vector.
type fakeEncoder struct {
	table map[string][]float32
	err   error
}

func (f *fakeEncoder) Encode(texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, s := range texts {
		if v, ok := f.table[s]; ok {
			out[i] = v
		} else {
			out[i] = []float32{0, 1}
		}
	}
	return out, nil
}

func TestExtractiveEmptyText(t *testing.T) {
	e := NewExtractive(&fakeEncoder{})
	got, err := e.Summarize(context.Background(), "   ", 30, 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}

func TestExtractiveSingleSegment(t *testing.T) {
	e := NewExtractive(&fakeEncoder{})
	got, err := e.Summarize(context.Background(), "just one segment with no enders", 1, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "just one segment with" {
		t.Fatalf("expected word-truncated passthrough, got %q", got)
	}
}

func TestExtractivePicksCentralSegments(t *testing.T) {
	// Three near-identical vectors and one orthogonal outlier: the central
	// segments should be selected, the outlier dropped by the budget.
	enc := &fakeEncoder{table: map[string][]float32{
		"db timeout on writes":    {1, 0},
		"db timeout on reads":     {1, 0.05},
		"db timeout on replicas":  {1, -0.05},
		"unrelated cosmic event":  {-1, 0.9},
	}}
	e := NewExtractive(enc)

	text := "db timeout on writes. db timeout on reads. db timeout on replicas. unrelated cosmic event."
	got, err := e.Summarize(context.Background(), text, 3, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "cosmic") {
		t.Fatalf("expected outlier segment dropped, got %q", got)
	}
	if !strings.Contains(got, "db timeout on writes") {
		t.Fatalf("expected central segment kept, got %q", got)
	}
	// Original order must be preserved.
	if strings.Index(got, "writes") > strings.Index(got, "replicas") {
		t.Fatalf("expected original segment order, got %q", got)
	}
}

func TestExtractiveRespectsBudget(t *testing.T) {
	e := NewExtractive(&fakeEncoder{})
	text := "alpha beta gamma. delta epsilon zeta. eta theta iota."
	got, err := e.Summarize(context.Background(), text, 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(strings.Fields(got)); n > 3 {
		t.Fatalf("expected at most 3 words, got %d (%q)", n, got)
	}
	if got == "" {
		t.Fatal("expected at least one segment selected")
	}
}

func TestExtractiveEncoderFailure(t *testing.T) {
	e := NewExtractive(&fakeEncoder{err: errors.New("session destroyed")})
	_, err := e.Summarize(context.Background(), "one. two.", 1, 10)
	if err == nil {
		t.Fatal("expected error from encoder failure")
	}
}

func TestExtractiveCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExtractive(&fakeEncoder{})
	_, err := e.Summarize(ctx, "one. two.", 1, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSplitSegments(t *testing.T) {
	got := splitSegments("first line\nsecond. third! fourth? ; ")
	want := []string{"first line", "second", "third", "fourth"}
	if len(got) != len(want) {
		t.Fatalf("splitSegments = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d = %q, want %q", i, got[i], want[i])
		}
	}
}
