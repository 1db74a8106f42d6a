package summarize

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Encoder turns text segments into embedding vectors. Implemented by
// embed.Encoder; kept as an interface so tests can substitute a cheap one.
type Encoder interface {
	Encode(texts []string) ([][]float32, error)
}

// Extractive is an offline summarization capability. It embeds each
// segment of the input, ranks segments by cosine similarity to the
// centroid embedding, and emits the most central segments in their
// original order within the word budget. Deterministic for a fixed
// encoder, which makes it the default when no remote model is configured.
type Extractive struct {
	enc Encoder
}

// NewExtractive creates the capability around an encoder. The encoder is
// expected to be loaded once at process startup.
func NewExtractive(enc Encoder) *Extractive {
	return &Extractive{enc: enc}
}

// Summarize selects the most representative segments of text, bounded to
// roughly maxWords words.
func (e *Extractive) Summarize(ctx context.Context, text string, minWords, maxWords int) (string, error) {
	segments := splitSegments(text)
	if len(segments) == 0 {
		return "", nil
	}
	if len(segments) == 1 {
		return truncateWords(segments[0], maxWords), nil
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	vecs, err := e.enc.Encode(segments)
	if err != nil {
		return "", fmt.Errorf("summarize: encode segments: %w", err)
	}
	if len(vecs) != len(segments) {
		return "", fmt.Errorf("summarize: encoder returned %d vectors for %d segments", len(vecs), len(segments))
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	centroid := meanVector(vecs)

	// Rank segments by centrality, then greedily fill the word budget.
	order := make([]int, len(segments))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return cosine(vecs[order[a]], centroid) > cosine(vecs[order[b]], centroid)
	})

	budget := maxWords
	selected := make(map[int]bool)
	for _, idx := range order {
		words := wordCount(segments[idx])
		if len(selected) > 0 && words > budget {
			continue
		}
		selected[idx] = true
		budget -= words
		if budget <= 0 && len(selected) > 0 {
			break
		}
	}

	// Emit in original order to keep the digest readable.
	var picked []string
	for i, seg := range segments {
		if selected[i] {
			picked = append(picked, seg)
		}
	}
	return truncateWords(strings.Join(picked, " "), maxWords), nil
}

// splitSegments breaks text at sentence enders and newlines, dropping
// empty fragments.
func splitSegments(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '.' || r == '!' || r == '?' || r == ';'
	})
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func truncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:maxWords], " ")
}

func meanVector(vecs [][]float32) []float32 {
	if len(vecs) == 0 {
		return nil
	}
	out := make([]float32, len(vecs[0]))
	for _, v := range vecs {
		for i := range out {
			out[i] += v[i]
		}
	}
	inv := 1.0 / float32(len(vecs))
	for i := range out {
		out[i] *= inv
	}
	return out
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
