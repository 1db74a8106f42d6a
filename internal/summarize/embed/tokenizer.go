package embed

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const maxSeqLen = 256

// batch holds tokenized input packed for ONNX inference. All slices are
// flat [size * seqLen], padded to the longest sequence in the batch.
type batch struct {
	ids     []int64
	mask    []int64
	typeIDs []int64
	size    int64
	seqLen  int64
}

// tokenizer performs BERT-style WordPiece tokenization against a
// vocab.txt vocabulary (token ID = line number).
type tokenizer struct {
	tokens map[string]int64
	unkID  int64
	clsID  int64
	sepID  int64
}

func newTokenizer(vocabPath string) (*tokenizer, error) {
	f, err := os.Open(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("embed: open vocab: %w", err)
	}
	defer f.Close()

	tokens := make(map[string]int64, 32768)
	scanner := bufio.NewScanner(f)
	var id int64
	for scanner.Scan() {
		tokens[scanner.Text()] = id
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("embed: read vocab: %w", err)
	}
	if id == 0 {
		return nil, fmt.Errorf("embed: vocab file %s is empty", vocabPath)
	}

	t := &tokenizer{tokens: tokens}
	for _, special := range []struct {
		name string
		dest *int64
	}{
		{"[UNK]", &t.unkID},
		{"[CLS]", &t.clsID},
		{"[SEP]", &t.sepID},
	} {
		tid, ok := tokens[special.name]
		if !ok {
			return nil, fmt.Errorf("embed: vocab missing special token %s", special.name)
		}
		*special.dest = tid
	}
	if _, ok := tokens["[PAD]"]; !ok {
		return nil, fmt.Errorf("embed: vocab missing special token [PAD]")
	}
	return t, nil
}

// encodeBatch tokenizes texts and packs them into flat slices padded to
// the longest sequence, capped at maxSeqLen. Each sequence is wrapped in
// [CLS] ... [SEP]; padding positions carry mask 0.
func (t *tokenizer) encodeBatch(texts []string) batch {
	n := len(texts)
	if n == 0 {
		return batch{}
	}

	seqs := make([][]int64, n)
	longest := 0
	for i, text := range texts {
		ids := t.encode(text)
		seqs[i] = ids
		if len(ids) > longest {
			longest = len(ids)
		}
	}

	size, seqLen := int64(n), int64(longest)
	total := size * seqLen
	b := batch{
		ids:     make([]int64, total),
		mask:    make([]int64, total),
		typeIDs: make([]int64, total), // segment A only, all zeros
		size:    size,
		seqLen:  seqLen,
	}
	for i, ids := range seqs {
		off := int64(i) * seqLen
		copy(b.ids[off:], ids)
		for j := range ids {
			b.mask[off+int64(j)] = 1
		}
		// Remaining positions stay 0: [PAD] with mask 0.
	}
	return b
}

// encode converts one text into [CLS] subword-ids [SEP], truncated to
// maxSeqLen.
func (t *tokenizer) encode(text string) []int64 {
	words := basicTokens(text)

	ids := make([]int64, 0, len(words)+2)
	ids = append(ids, t.clsID)
	for _, w := range words {
		for _, piece := range t.wordpiece(w) {
			ids = append(ids, piece)
			if len(ids) == maxSeqLen-1 {
				return append(ids, t.sepID)
			}
		}
	}
	return append(ids, t.sepID)
}

// wordpiece greedily decomposes one word into the longest matching
// subwords (continuations prefixed with ##). Unknown material maps to a
// single [UNK].
func (t *tokenizer) wordpiece(word string) []int64 {
	runes := []rune(word)
	if len(runes) > 100 {
		return []int64{t.unkID}
	}

	var pieces []int64
	start := 0
	for start < len(runes) {
		end := len(runes)
		matched := false
		for end > start {
			sub := string(runes[start:end])
			if start > 0 {
				sub = "##" + sub
			}
			if id, ok := t.tokens[sub]; ok {
				pieces = append(pieces, id)
				matched = true
				break
			}
			end--
		}
		if !matched {
			return []int64{t.unkID}
		}
		start = end
	}
	return pieces
}

// basicTokens lowercases, strips accents and control characters, and
// splits on whitespace and punctuation, keeping punctuation as separate
// tokens. Matches BERT's BasicTokenizer closely enough for log text.
func basicTokens(text string) []string {
	var cleaned strings.Builder
	cleaned.Grow(len(text))
	for _, r := range norm.NFD.String(strings.ToLower(text)) {
		switch {
		case r == 0 || r == 0xFFFD:
		case unicode.In(r, unicode.Mn): // combining marks from NFD
		case unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r':
		case unicode.IsSpace(r):
			cleaned.WriteByte(' ')
		default:
			cleaned.WriteRune(r)
		}
	}

	var out []string
	for _, field := range strings.Fields(cleaned.String()) {
		var word strings.Builder
		for _, r := range field {
			if isPunct(r) {
				if word.Len() > 0 {
					out = append(out, word.String())
					word.Reset()
				}
				out = append(out, string(r))
				continue
			}
			word.WriteRune(r)
		}
		if word.Len() > 0 {
			out = append(out, word.String())
		}
	}
	return out
}

// isPunct mirrors BERT's punctuation classes: the four ASCII symbol
// ranges plus Unicode punctuation.
func isPunct(r rune) bool {
	if (r >= 33 && r <= 47) || (r >= 58 && r <= 64) ||
		(r >= 91 && r <= 96) || (r >= 123 && r <= 126) {
		return true
	}
	return unicode.IsPunct(r)
}
