package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/inkinno/projects/internal/domain"
)

func newCompletionServer(t *testing.T, status int, content string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			Model          string `json:"model"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ResponseFormat.Type != "json_object" {
			t.Errorf("expected json_object response format, got %q", req.ResponseFormat.Type)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream unavailable","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLLMClassifierParsesReply(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newCompletionServer(t, http.StatusOK, `{"category":"critical milestone","highlight":true,"reason":"major release"}`, &calls)
	c, err := NewLLMClassifier(LLMConfig{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "test-model"})
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	got, err := c.Classify(context.Background(), "Shipped v2 to all users")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got.Category != "critical milestone" || !got.Highlight {
		t.Fatalf("unexpected verdict %+v", got)
	}
}

func TestLLMClassifierMalformedReplyFailsClosed(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newCompletionServer(t, http.StatusOK, `{"category":"normal update","reason":"no highlight field"}`, &calls)
	c, err := NewLLMClassifier(LLMConfig{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "test-model"})
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	if _, err := c.Classify(context.Background(), "Updated docs"); !errors.Is(err, domain.ErrClassification) {
		t.Fatalf("expected classification error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestLLMClassifierUpstreamErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newCompletionServer(t, http.StatusInternalServerError, "", &calls)
	c, err := NewLLMClassifier(LLMConfig{APIKey: "test", BaseURL: srv.URL + "/v1", Model: "test-model"})
	if err != nil {
		t.Fatalf("new classifier: %v", err)
	}
	if _, err := c.Classify(context.Background(), "Updated docs"); !errors.Is(err, domain.ErrClassification) {
		t.Fatalf("expected classification error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestNewLLMClassifierRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewLLMClassifier(LLMConfig{Model: "m"}); err == nil {
		t.Fatalf("expected error without api key")
	}
}
