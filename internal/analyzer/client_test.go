package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestClientAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("SendsRequestAndParsesResults", func(t *testing.T) {
		var gotReq analyzeRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/analyze" {
				t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
				t.Fatalf("Failed to decode request: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]Result{
				{EntityType: "EMAIL_ADDRESS", Start: 0, End: 11},
			})
		}))
		defer server.Close()

		client := New(&Config{
			Enabled: true,
			BaseURL: server.URL,
			Timeout: 5 * time.Second,
		}, zap.NewNop())
		defer client.Close()

		entities := []string{"PERSON", "EMAIL_ADDRESS"}
		results, err := client.Analyze(ctx, "a@b.com etc", entities, "en")
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}

		if gotReq.Text != "a@b.com etc" {
			t.Errorf("Expected text forwarded verbatim, got %q", gotReq.Text)
		}
		if !reflect.DeepEqual(gotReq.Entities, entities) {
			t.Errorf("Expected entities %v, got %v", entities, gotReq.Entities)
		}
		if gotReq.Language != "en" {
			t.Errorf("Expected language en, got %q", gotReq.Language)
		}

		if len(results) != 1 || results[0].EntityType != "EMAIL_ADDRESS" {
			t.Errorf("Unexpected results: %+v", results)
		}
	})

	t.Run("MisdeclaredContentType", func(t *testing.T) {
		// Some analyzer deployments answer JSON bodies as text/plain; the
		// client must still decode them instead of returning zero results.
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			json.NewEncoder(w).Encode([]Result{
				{EntityType: "PERSON", Start: 0, End: 4},
			})
		}))
		defer server.Close()

		client := New(&Config{BaseURL: server.URL, Timeout: 5 * time.Second}, zap.NewNop())
		defer client.Close()

		results, err := client.Analyze(ctx, "Jane was here", []string{"PERSON"}, "en")
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if len(results) != 1 || results[0].EntityType != "PERSON" {
			t.Errorf("Expected decoded results despite text/plain header, got %+v", results)
		}
	})

	t.Run("HTTPErrorStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := New(&Config{BaseURL: server.URL, Timeout: 5 * time.Second}, zap.NewNop())
		defer client.Close()

		if _, err := client.Analyze(ctx, "text", []string{"PERSON"}, "en"); err == nil {
			t.Error("Expected error for HTTP 503")
		}
	})

	t.Run("ConnectionRefused", func(t *testing.T) {
		client := New(&Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, zap.NewNop())
		defer client.Close()

		if _, err := client.Analyze(ctx, "text", []string{"PERSON"}, "en"); err == nil {
			t.Error("Expected error for unreachable analyzer")
		}
	})

	t.Run("RateLimiterHonorsContext", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]Result{})
		}))
		defer server.Close()

		// One request per minute with a burst of one: the second call must
		// block, and the cancelled context has to release it.
		client := New(&Config{BaseURL: server.URL, Timeout: 5 * time.Second, RequestsPerMin: 1}, zap.NewNop())
		defer client.Close()

		if _, err := client.Analyze(ctx, "first", []string{"PERSON"}, "en"); err != nil {
			t.Fatalf("First call failed: %v", err)
		}

		cancelled, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()
		if _, err := client.Analyze(cancelled, "second", []string{"PERSON"}, "en"); err == nil {
			t.Error("Expected rate-limited call to fail on context timeout")
		}
	})
}
