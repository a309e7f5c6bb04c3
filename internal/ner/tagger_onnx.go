//go:build onnx
// +build onnx

package ner

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"
)

// bioLabels is the label head order of CoNLL-style token classification
// models (e.g. bert-base-NER exported to ONNX).
var bioLabels = []string{
	"O",
	"B-MISC", "I-MISC",
	"B-PER", "I-PER",
	"B-ORG", "I-ORG",
	"B-LOC", "I-LOC",
}

// canonicalLabels maps BIO entity kinds to the labels consumers filter on
var canonicalLabels = map[string]string{
	"PER":  "PERSON",
	"LOC":  "GPE",
	"ORG":  "ORG",
	"MISC": "MISC",
}

// OnnxTagger implements Tagger using an ONNX token-classification model
// (via yalue/onnxruntime_go).
type OnnxTagger struct {
	session    *ort.DynamicAdvancedSession
	inputNames []string
	vocab      map[string]int64
	maxLength  int
	logger     *zap.Logger
	mu         sync.Mutex
}

// NewTagger initializes the ONNX Runtime NER backend. Requires build tag
// 'onnx'. Any load failure wraps ErrModelUnavailable so callers can treat it
// as a startup-time condition.
func NewTagger(config *Config, logger *zap.Logger) (Tagger, error) {
	if shlib := os.Getenv("ONNXRUNTIME_SHARED_LIB"); shlib != "" {
		ort.SetSharedLibraryPath(shlib)
	}

	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, fmt.Errorf("%w: model file %s: %v", ErrModelUnavailable, config.ModelPath, err)
	}

	vocab, err := loadVocab(config.VocabPath)
	if err != nil {
		return nil, fmt.Errorf("%w: vocab: %v", ErrModelUnavailable, err)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("%w: onnx runtime init: %v", ErrModelUnavailable, err)
	}

	inputsInfo, outputsInfo, err := ort.GetInputOutputInfo(config.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: inspect model IO: %v", ErrModelUnavailable, err)
	}
	if len(outputsInfo) == 0 {
		return nil, fmt.Errorf("%w: model reports no outputs", ErrModelUnavailable)
	}

	// Prefer common transformer input order
	preferred := []string{"input_ids", "attention_mask", "token_type_ids"}
	available := map[string]bool{}
	for _, ii := range inputsInfo {
		available[strings.ToLower(ii.Name)] = true
	}
	var inputNames []string
	for _, name := range preferred {
		if available[name] {
			inputNames = append(inputNames, name)
		}
	}
	if len(inputNames) == 0 {
		for _, ii := range inputsInfo {
			inputNames = append(inputNames, ii.Name)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(
		config.ModelPath, inputNames, []string{outputsInfo[0].Name}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: session creation: %v", ErrModelUnavailable, err)
	}

	logger.Info("ONNX NER backend ready",
		zap.String("model", config.ModelPath),
		zap.Strings("inputs", inputNames),
		zap.Int("vocab_size", len(vocab)),
	)

	return &OnnxTagger{
		session:    session,
		inputNames: inputNames,
		vocab:      vocab,
		maxLength:  config.MaxLength,
		logger:     logger,
	}, nil
}

// loadVocab reads a BERT-style vocab.txt (one token per line, id = line index)
func loadVocab(path string) (map[string]int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	vocab := make(map[string]int64)
	scanner := bufio.NewScanner(file)
	var id int64
	for scanner.Scan() {
		vocab[scanner.Text()] = id
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(vocab) == 0 {
		return nil, fmt.Errorf("empty vocab file %s", path)
	}
	return vocab, nil
}

// Tag implements Tagger
func (t *OnnxTagger) Tag(ctx context.Context, text string) ([]Entity, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session == nil {
		return nil, fmt.Errorf("onnx tagger is closed")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	words := splitWords(text)
	if len(words) == 0 {
		return nil, nil
	}
	if len(words) > t.maxLength-2 {
		words = words[:t.maxLength-2]
	}

	inputIDs, attention := t.encode(words)
	seqLen := len(inputIDs)

	shape := ort.NewShape(1, int64(seqLen))
	idsTensor, err := ort.NewTensor[int64](shape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor[int64](shape, attention)
	if err != nil {
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()
	typeTensor, err := ort.NewTensor[int64](shape, make([]int64, seqLen))
	if err != nil {
		return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
	}
	defer typeTensor.Destroy()

	inputs := make([]ort.Value, 0, len(t.inputNames))
	for _, rawName := range t.inputNames {
		switch name := strings.ToLower(rawName); {
		case strings.Contains(name, "ids") && !strings.Contains(name, "token_type"):
			inputs = append(inputs, idsTensor)
		case strings.Contains(name, "attention") || strings.Contains(name, "mask"):
			inputs = append(inputs, maskTensor)
		default:
			inputs = append(inputs, typeTensor)
		}
	}

	outputs := make([]ort.Value, 1)
	if err := t.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("onnx run failed: %w", err)
	}
	defer func() {
		if outputs[0] != nil {
			_ = outputs[0].Destroy()
		}
	}()

	logits, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output type (want float32 tensor)")
	}

	outShape := logits.GetShape()
	if len(outShape) != 3 {
		return nil, fmt.Errorf("unsupported output shape %v", outShape)
	}
	numLabels := int(outShape[2])
	if numLabels != len(bioLabels) {
		return nil, fmt.Errorf("unexpected label head size %d (want %d)", numLabels, len(bioLabels))
	}

	data := logits.GetData()
	// Skip [CLS] at 0 and [SEP] at the end; one label per word token.
	predicted := make([]string, len(words))
	for i := range words {
		offset := (i + 1) * numLabels
		best, bestScore := 0, data[offset]
		for l := 1; l < numLabels; l++ {
			if data[offset+l] > bestScore {
				best, bestScore = l, data[offset+l]
			}
		}
		predicted[i] = bioLabels[best]
	}

	return mergeBIO(words, predicted), nil
}

// encode maps word tokens to vocabulary ids with [CLS]/[SEP] framing
func (t *OnnxTagger) encode(words []string) (inputIDs, attention []int64) {
	unk := t.vocab["[UNK]"]
	inputIDs = make([]int64, 0, len(words)+2)
	inputIDs = append(inputIDs, t.vocab["[CLS]"])
	for _, w := range words {
		id, ok := t.vocab[w]
		if !ok {
			id, ok = t.vocab[strings.ToLower(w)]
		}
		if !ok {
			id = unk
		}
		inputIDs = append(inputIDs, id)
	}
	inputIDs = append(inputIDs, t.vocab["[SEP]"])

	attention = make([]int64, len(inputIDs))
	for i := range attention {
		attention[i] = 1
	}
	return inputIDs, attention
}

// splitWords breaks text into word tokens, keeping punctuation separate the
// way BERT basic tokenization does
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			flush()
			words = append(words, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}

// mergeBIO folds per-token BIO predictions into labeled entity spans
func mergeBIO(words, labels []string) []Entity {
	var entities []Entity
	var kind string
	var span []string

	flush := func() {
		if kind != "" && len(span) > 0 {
			label, ok := canonicalLabels[kind]
			if !ok {
				label = kind
			}
			entities = append(entities, Entity{Label: label, Text: strings.Join(span, " ")})
		}
		kind, span = "", nil
	}

	for i, tag := range labels {
		switch {
		case strings.HasPrefix(tag, "B-"):
			flush()
			kind = strings.TrimPrefix(tag, "B-")
			span = []string{words[i]}
		case strings.HasPrefix(tag, "I-") && kind == strings.TrimPrefix(tag, "I-"):
			span = append(span, words[i])
		case strings.HasPrefix(tag, "I-"):
			// Dangling continuation, treat as a new span
			flush()
			kind = strings.TrimPrefix(tag, "I-")
			span = []string{words[i]}
		default:
			flush()
		}
	}
	flush()
	return entities
}

// Close releases session and environment resources
func (t *OnnxTagger) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session != nil {
		t.session.Destroy()
		t.session = nil
	}
	ort.DestroyEnvironment()
	return nil
}
