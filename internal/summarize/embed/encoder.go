// Package embed runs a BERT-style sentence encoder through ONNX Runtime.
// It backs the extractive summarization capability: one mean-pooled vector
// per input segment.
package embed

import (
	"fmt"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// runtimeInit guards global ONNX Runtime initialization (process-wide).
var runtimeInit struct {
	once sync.Once
	err  error
}

func initRuntime(libPath string) error {
	runtimeInit.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		runtimeInit.err = ort.InitializeEnvironment()
	})
	return runtimeInit.err
}

// Encoder wraps an ONNX inference session and a WordPiece tokenizer.
// Load once at startup — session creation is the expensive part — and
// reuse across invocations. Encode serializes inference internally, so an
// Encoder is safe for concurrent use.
type Encoder struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	tok     *tokenizer
	inputs  []string
	output  string
	dim     int64
}

// NewEncoder loads the model and vocabulary. The ONNX Runtime shared
// library is expected next to the model file as libonnxruntime.so.
func NewEncoder(modelPath, vocabPath string) (*Encoder, error) {
	libPath := filepath.Join(filepath.Dir(modelPath), "libonnxruntime.so")
	if err := initRuntime(libPath); err != nil {
		return nil, fmt.Errorf("embed: initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("embed: read model info: %w", err)
	}

	inputNames, err := requireBERTInputs(inputs)
	if err != nil {
		return nil, err
	}
	if len(outputs) == 0 {
		return nil, fmt.Errorf("embed: model has no outputs")
	}
	dims := outputs[0].Dimensions
	if len(dims) != 3 {
		return nil, fmt.Errorf("embed: expected [batch, seq, dim] output, got %v", dims)
	}

	tok, err := newTokenizer(vocabPath)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("embed: session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(4)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, []string{outputs[0].Name}, opts)
	if err != nil {
		return nil, fmt.Errorf("embed: create session: %w", err)
	}

	return &Encoder{
		session: session,
		tok:     tok,
		inputs:  inputNames,
		output:  outputs[0].Name,
		dim:     dims[2],
	}, nil
}

func requireBERTInputs(inputs []ort.InputOutputInfo) ([]string, error) {
	have := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		have[in.Name] = true
	}
	want := []string{"input_ids", "attention_mask", "token_type_ids"}
	for _, name := range want {
		if !have[name] {
			return nil, fmt.Errorf("embed: model missing input %q", name)
		}
	}
	return want, nil
}

// Dim returns the embedding dimensionality.
func (e *Encoder) Dim() int {
	return int(e.dim)
}

// Encode returns one mean-pooled vector per input text. Inference runs
// under the encoder's lock; ONNX sessions are not safe for concurrent Run.
func (e *Encoder) Encode(texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	b := e.tok.encodeBatch(texts)
	hidden, err := e.infer(b)
	if err != nil {
		return nil, err
	}

	pooled := poolMean(hidden, b.mask, b.size, b.seqLen, e.dim)
	out := make([][]float32, b.size)
	for i := int64(0); i < b.size; i++ {
		out[i] = pooled[i*e.dim : (i+1)*e.dim]
	}
	return out, nil
}

func (e *Encoder) infer(b batch) ([]float32, error) {
	shape := ort.NewShape(b.size, b.seqLen)

	ids, err := ort.NewTensor(shape, b.ids)
	if err != nil {
		return nil, fmt.Errorf("embed: input_ids tensor: %w", err)
	}
	defer ids.Destroy()

	mask, err := ort.NewTensor(shape, b.mask)
	if err != nil {
		return nil, fmt.Errorf("embed: attention_mask tensor: %w", err)
	}
	defer mask.Destroy()

	types, err := ort.NewTensor(shape, b.typeIDs)
	if err != nil {
		return nil, fmt.Errorf("embed: token_type_ids tensor: %w", err)
	}
	defer types.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(b.size, b.seqLen, e.dim))
	if err != nil {
		return nil, fmt.Errorf("embed: output tensor: %w", err)
	}
	defer out.Destroy()

	e.mu.Lock()
	err = e.session.Run([]ort.Value{ids, mask, types}, []ort.Value{out})
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("embed: inference: %w", err)
	}

	src := out.GetData()
	hidden := make([]float32, len(src))
	copy(hidden, src)
	return hidden, nil
}

// Close releases the ONNX session.
func (e *Encoder) Close() error {
	if e.session == nil {
		return nil
	}
	return e.session.Destroy()
}

// poolMean computes attention-weighted mean pooling over the sequence
// dimension: hidden is flat [size*seqLen*dim], mask flat [size*seqLen].
func poolMean(hidden []float32, mask []int64, size, seqLen, dim int64) []float32 {
	out := make([]float32, size*dim)
	for b := int64(0); b < size; b++ {
		var count float32
		for s := int64(0); s < seqLen; s++ {
			if mask[b*seqLen+s] == 1 {
				count++
			}
		}
		if count == 0 {
			continue
		}
		for s := int64(0); s < seqLen; s++ {
			if mask[b*seqLen+s] != 1 {
				continue
			}
			tok := hidden[(b*seqLen+s)*dim : (b*seqLen+s+1)*dim]
			dst := out[b*dim : (b+1)*dim]
			for d, v := range tok {
				dst[d] += v
			}
		}
		inv := 1 / count
		for d := int64(0); d < dim; d++ {
			out[b*dim+d] *= inv
		}
	}
	return out
}
