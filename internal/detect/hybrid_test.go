package detect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raaihank/pii-sentinel/internal/analyzer"
	"github.com/raaihank/pii-sentinel/internal/logger"
	"go.uber.org/zap"
)

func newHybridDetector(t *testing.T, handler http.HandlerFunc) (*HybridDetector, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	client := analyzer.New(&analyzer.Config{
		Enabled: true,
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	return NewHybridDetector(client, logger.Nop()), server
}

func TestHybridDetector(t *testing.T) {
	ctx := context.Background()

	t.Run("SlicesRuneOffsets", func(t *testing.T) {
		// "José <ssn>" — the accented rune shifts byte offsets away from
		// character offsets, which is exactly what the slicing must survive.
		text := "José SSN 123-45-6789"

		detector, server := newHybridDetector(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]analyzer.Result{
				{EntityType: "PERSON", Start: 0, End: 4},
				{EntityType: "US_SSN", Start: 9, End: 20},
			})
		})
		defer server.Close()

		findings, err := detector.Detect(ctx, text)
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}

		if !findings.Has("PERSON: José") {
			t.Errorf("Missing person finding, got %v", findings.Strings())
		}
		if !findings.Has("US_SSN: 123-45-6789") {
			t.Errorf("Missing SSN finding, got %v", findings.Strings())
		}
	})

	t.Run("SkipsOutOfRangeOffsets", func(t *testing.T) {
		detector, server := newHybridDetector(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]analyzer.Result{
				{EntityType: "PERSON", Start: 2, End: 999},
				{EntityType: "US_SSN", Start: -1, End: 3},
			})
		})
		defer server.Close()

		findings, err := detector.Detect(ctx, "short")
		if err != nil {
			t.Fatalf("Detect failed: %v", err)
		}
		if findings.Len() != 0 {
			t.Errorf("Out-of-range results should be skipped, got %v", findings.Strings())
		}
	})

	t.Run("ServiceErrorPropagates", func(t *testing.T) {
		detector, server := newHybridDetector(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})
		defer server.Close()

		if _, err := detector.Detect(ctx, "text"); err == nil {
			t.Error("Expected analyzer HTTP error to propagate")
		}
	})
}
