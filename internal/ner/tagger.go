package ner

import (
	"context"
	"errors"

	"github.com/raaihank/pii-sentinel/internal/cache"
	"go.uber.org/zap"
)

// ErrModelUnavailable indicates the underlying NER model or runtime could not
// be loaded at construction time. This is a setup-time failure, distinct from
// per-call tagging errors.
var ErrModelUnavailable = errors.New("ner model unavailable")

// Entity is one annotation produced by the tagger: a label and the exact
// span text it covers. No ordering guarantee is made.
type Entity struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Tagger is the opaque NER capability: given text, produce entity
// annotations. Implementations may use ONNX Runtime or other engines.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Entity, error)
	// Close releases any native resources.
	Close() error
}

// Config contains NER model configuration
type Config struct {
	ModelPath string `yaml:"model_path" mapstructure:"model_path"`
	VocabPath string `yaml:"vocab_path" mapstructure:"vocab_path"`
	MaxLength int    `yaml:"max_length" mapstructure:"max_length"`
}

// AnnotationCache is the cache contract consumed by CachedTagger.
// *cache.EntityCache satisfies it.
type AnnotationCache interface {
	Get(ctx context.Context, text string) ([]cache.Annotation, bool, error)
	Put(ctx context.Context, text string, annotations []cache.Annotation) error
}

// CachedTagger decorates a Tagger with an annotation cache. Cache failures
// degrade to a direct model call; they never fail the tagging request.
type CachedTagger struct {
	inner  Tagger
	store  AnnotationCache
	logger *zap.Logger
}

// NewCachedTagger wraps inner with the given annotation cache
func NewCachedTagger(inner Tagger, store AnnotationCache, logger *zap.Logger) *CachedTagger {
	return &CachedTagger{
		inner:  inner,
		store:  store,
		logger: logger,
	}
}

// Tag implements Tagger
func (t *CachedTagger) Tag(ctx context.Context, text string) ([]Entity, error) {
	cached, hit, err := t.store.Get(ctx, text)
	if err == nil && hit {
		entities := make([]Entity, 0, len(cached))
		for _, a := range cached {
			entities = append(entities, Entity{Label: a.Label, Text: a.Text})
		}
		return entities, nil
	}

	entities, err := t.inner.Tag(ctx, text)
	if err != nil {
		return nil, err
	}

	annotations := make([]cache.Annotation, 0, len(entities))
	for _, e := range entities {
		annotations = append(annotations, cache.Annotation{Label: e.Label, Text: e.Text})
	}
	if err := t.store.Put(ctx, text, annotations); err != nil {
		t.logger.Warn("Failed to cache annotations", zap.Error(err))
	}

	return entities, nil
}

// Close closes the underlying tagger
func (t *CachedTagger) Close() error {
	return t.inner.Close()
}
