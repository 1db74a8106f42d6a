package embed

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// writeVocab builds a small synthetic vocab.txt. Token ID = line number.
func writeVocab(t *testing.T, tokens []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocab.txt")
	data := ""
	for _, tok := range tokens {
		data += tok + "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	return path
}

var testVocab = []string{
	"[PAD]",   // 0
	"[UNK]",   // 1
	"[CLS]",   // 2
	"[SEP]",   // 3
	"error",   // 4
	"conn",    // 5
	"##ect",   // 6
	"##ion",   // 7
	"refused", // 8
	":",       // 9
	"warn",    // 10
}

func testTok(t *testing.T) *tokenizer {
	t.Helper()
	tok, err := newTokenizer(writeVocab(t, testVocab))
	if err != nil {
		t.Fatalf("newTokenizer: %v", err)
	}
	return tok
}

func TestTokenizerMissingSpecials(t *testing.T) {
	path := writeVocab(t, []string{"just", "words"})
	if _, err := newTokenizer(path); err == nil {
		t.Fatal("expected error for vocab without special tokens")
	}
}

func TestTokenizerEmptyVocab(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write vocab: %v", err)
	}
	if _, err := newTokenizer(path); err == nil {
		t.Fatal("expected error for empty vocab")
	}
}

func TestEncodeWordpiece(t *testing.T) {
	tok := testTok(t)

	// "connection" decomposes as conn ##ect ##ion.
	got := tok.encode("error: connection refused")
	want := []int64{2, 4, 9, 5, 6, 7, 8, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("encode = %v, want %v", got, want)
	}
}

func TestEncodeLowercasesAndStripsAccents(t *testing.T) {
	tok := testTok(t)

	if got, want := tok.encode("ERRÓR"), []int64{2, 4, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("encode = %v, want %v", got, want)
	}
}

func TestEncodeUnknownWord(t *testing.T) {
	tok := testTok(t)

	got := tok.encode("error zzzz")
	want := []int64{2, 4, 1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("encode = %v, want %v", got, want)
	}
}

func TestEncodeEmpty(t *testing.T) {
	tok := testTok(t)

	if got, want := tok.encode(""), []int64{2, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("encode = %v, want %v", got, want)
	}
}

func TestEncodeBatchPadding(t *testing.T) {
	tok := testTok(t)

	b := tok.encodeBatch([]string{"error", "error: connection refused"})
	if b.size != 2 {
		t.Fatalf("expected batch size 2, got %d", b.size)
	}
	// Longest sequence: [CLS] error : conn ##ect ##ion refused [SEP] = 8.
	if b.seqLen != 8 {
		t.Fatalf("expected seqLen 8, got %d", b.seqLen)
	}

	// First sequence is [CLS] error [SEP] padded with [PAD]=0, mask 0.
	wantIDs := []int64{2, 4, 3, 0, 0, 0, 0, 0}
	wantMask := []int64{1, 1, 1, 0, 0, 0, 0, 0}
	if !reflect.DeepEqual(b.ids[:8], wantIDs) {
		t.Fatalf("ids = %v, want %v", b.ids[:8], wantIDs)
	}
	if !reflect.DeepEqual(b.mask[:8], wantMask) {
		t.Fatalf("mask = %v, want %v", b.mask[:8], wantMask)
	}
	for _, v := range b.typeIDs {
		if v != 0 {
			t.Fatal("expected all token_type_ids to be zero")
		}
	}
}

func TestEncodeBatchEmpty(t *testing.T) {
	tok := testTok(t)
	b := tok.encodeBatch(nil)
	if b.size != 0 || b.seqLen != 0 {
		t.Fatalf("expected empty batch, got %+v", b)
	}
}

func TestPoolMean(t *testing.T) {
	// 1 sequence, 3 positions, dim 2; last position is padding.
	hidden := []float32{1, 2, 3, 4, 100, 100}
	mask := []int64{1, 1, 0}

	got := poolMean(hidden, mask, 1, 3, 2)
	want := []float32{2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("poolMean = %v, want %v", got, want)
	}
}

func TestPoolMeanAllPadding(t *testing.T) {
	got := poolMean([]float32{5, 5}, []int64{0}, 1, 1, 2)
	want := []float32{0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("poolMean = %v, want %v", got, want)
	}
}
