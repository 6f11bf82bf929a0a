package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"isa/internal/config"
)

func testModels() []config.ModelCandidate {
	return []config.ModelCandidate{
		{ID: "model-a", Name: "Model A"},
		{ID: "model-b", Name: "Model B"},
		{ID: "model-c", Name: "Model C"},
		{ID: "model-d", Name: "Model D"},
		{ID: "model-e", Name: "Model E"},
	}
}

func completionBody(t *testing.T, r *http.Request) string {
	t.Helper()
	var req struct {
		Model string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Fatalf("failed to decode request: %v", err)
	}
	return req.Model
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

func TestGatewayFallbackStopsAtFirstSuccess(t *testing.T) {
	var attempted []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		model := completionBody(t, r)
		attempted = append(attempted, model)
		switch model {
		case "model-a", "model-b":
			w.WriteHeader(http.StatusInternalServerError)
		case "model-c":
			writeCompletion(w, "resposta do terceiro modelo")
		default:
			t.Errorf("model %s should never be attempted", model)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	gateway := NewGateway("test-key", server.URL+"/v1", testModels())
	content, err := gateway.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "oi"}})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != "resposta do terceiro modelo" {
		t.Errorf("content = %q, expected third model's reply", content)
	}
	if len(attempted) != 3 {
		t.Errorf("attempted %d models, expected 3: %v", len(attempted), attempted)
	}
}

func TestGatewaySkipsEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		model := completionBody(t, r)
		if model == "model-a" {
			writeCompletion(w, "   ")
			return
		}
		writeCompletion(w, "resposta válida")
	}))
	defer server.Close()

	gateway := NewGateway("test-key", server.URL+"/v1", testModels())
	content, err := gateway.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "oi"}})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}
	if content != "resposta válida" {
		t.Errorf("content = %q, expected fallback past blank completion", content)
	}
}

func TestGatewayAllModelsFailed(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	gateway := NewGateway("test-key", server.URL+"/v1", testModels())
	_, err := gateway.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "oi"}})
	if !errors.Is(err, ErrAllModelsFailed) {
		t.Fatalf("expected ErrAllModelsFailed, got %v", err)
	}
	if requests != len(testModels()) {
		t.Errorf("attempted %d requests, expected one per model (%d)", requests, len(testModels()))
	}
}
