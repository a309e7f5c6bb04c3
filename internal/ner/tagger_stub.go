//go:build !onnx
// +build !onnx

package ner

import (
	"go.uber.org/zap"
)

// NewTagger reports the model as unavailable in builds without the 'onnx'
// build tag. The default build carries no CGO dependency; the statistical
// detector is simply omitted from the registry.
func NewTagger(config *Config, logger *zap.Logger) (Tagger, error) {
	logger.Warn("NER backend not compiled in (build with -tags onnx)",
		zap.String("model_path", config.ModelPath),
	)
	return nil, ErrModelUnavailable
}
