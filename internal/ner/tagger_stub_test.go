//go:build !onnx
// +build !onnx

package ner

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestNewTaggerWithoutBackend(t *testing.T) {
	_, err := NewTagger(&Config{
		ModelPath: "models/ner.onnx",
		VocabPath: "models/vocab.txt",
		MaxLength: 512,
	}, zap.NewNop())

	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("Expected ErrModelUnavailable from the default build, got %v", err)
	}
}
