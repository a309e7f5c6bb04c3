package ner

import (
	"context"
	"errors"
	"testing"

	"github.com/raaihank/pii-sentinel/internal/cache"
	"go.uber.org/zap"
)

// fakeStore is an in-memory AnnotationCache
type fakeStore struct {
	entries map[string][]cache.Annotation
	getErr  error
	putErr  error
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string][]cache.Annotation)}
}

func (s *fakeStore) Get(ctx context.Context, text string) ([]cache.Annotation, bool, error) {
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	annotations, ok := s.entries[text]
	return annotations, ok, nil
}

func (s *fakeStore) Put(ctx context.Context, text string, annotations []cache.Annotation) error {
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	s.entries[text] = annotations
	return nil
}

// countingTagger records how often the model is actually invoked
type countingTagger struct {
	entities []Entity
	err      error
	calls    int
}

func (t *countingTagger) Tag(ctx context.Context, text string) ([]Entity, error) {
	t.calls++
	return t.entities, t.err
}

func (t *countingTagger) Close() error { return nil }

func TestCachedTagger(t *testing.T) {
	ctx := context.Background()

	t.Run("MissThenHit", func(t *testing.T) {
		inner := &countingTagger{entities: []Entity{{Label: "PERSON", Text: "Jane Doe"}}}
		tagger := NewCachedTagger(inner, newFakeStore(), zap.NewNop())

		first, err := tagger.Tag(ctx, "some corpus chunk")
		if err != nil {
			t.Fatalf("Tag failed: %v", err)
		}
		second, err := tagger.Tag(ctx, "some corpus chunk")
		if err != nil {
			t.Fatalf("Tag failed: %v", err)
		}

		if inner.calls != 1 {
			t.Errorf("Expected 1 model invocation, got %d", inner.calls)
		}
		if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
			t.Errorf("Cached result differs: %+v vs %+v", first, second)
		}
	})

	t.Run("CacheLookupFailureFallsThrough", func(t *testing.T) {
		store := newFakeStore()
		store.getErr = errors.New("redis down")
		inner := &countingTagger{entities: []Entity{{Label: "ORG", Text: "Acme"}}}
		tagger := NewCachedTagger(inner, store, zap.NewNop())

		entities, err := tagger.Tag(ctx, "text")
		if err != nil {
			t.Fatalf("Tag should survive a cache failure: %v", err)
		}
		if len(entities) != 1 {
			t.Errorf("Expected model result despite cache failure, got %+v", entities)
		}
	})

	t.Run("PutFailureIsNonFatal", func(t *testing.T) {
		store := newFakeStore()
		store.putErr = errors.New("redis down")
		inner := &countingTagger{entities: []Entity{{Label: "GPE", Text: "Berlin"}}}
		tagger := NewCachedTagger(inner, store, zap.NewNop())

		if _, err := tagger.Tag(ctx, "text"); err != nil {
			t.Fatalf("Tag should survive a cache write failure: %v", err)
		}
	})

	t.Run("ModelErrorPropagates", func(t *testing.T) {
		inner := &countingTagger{err: errors.New("inference failed")}
		tagger := NewCachedTagger(inner, newFakeStore(), zap.NewNop())

		if _, err := tagger.Tag(ctx, "text"); err == nil {
			t.Error("Expected model error to propagate")
		}
	})
}
