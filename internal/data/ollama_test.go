package data

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
	"github.com/webexlabs/webex-ai-bot/internal/biz/repo"
	"github.com/webexlabs/webex-ai-bot/internal/conf"
)

func TestOllamaGenerate(t *testing.T) {
	var gotReq ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "generated reply"},
		})
	}))
	defer srv.Close()

	llm := NewOllamaRepo(srv.URL, "llama3")
	reply, err := llm.Generate(context.Background(), &repo.GenerateRequest{
		SystemPrompt: "system prompt",
		Temperature:  0.3,
		MaxTokens:    500,
		History: []domain.Turn{
			{Role: domain.RoleUser, Content: "earlier question"},
			{Role: domain.RoleAssistant, Content: "earlier answer"},
		},
		Text: "current question",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if reply != "generated reply" {
		t.Errorf("Unexpected reply: %q", reply)
	}

	if gotReq.Model != "llama3" || gotReq.Stream {
		t.Errorf("Unexpected request shape: %+v", gotReq)
	}
	if gotReq.Options.Temperature != 0.3 || gotReq.Options.NumPredict != 500 {
		t.Errorf("Personality parameters not mapped: %+v", gotReq.Options)
	}

	// system, two history turns, current message — in order
	want := []ollamaMessage{
		{Role: "system", Content: "system prompt"},
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
		{Role: "user", Content: "current question"},
	}
	if len(gotReq.Messages) != len(want) {
		t.Fatalf("Expected %d messages, got %d", len(want), len(gotReq.Messages))
	}
	for i, m := range want {
		if gotReq.Messages[i] != m {
			t.Errorf("Message %d: expected %v, got %v", i, m, gotReq.Messages[i])
		}
	}
}

func TestOllamaGenerate_ServerErrorIsProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	llm := NewOllamaRepo(srv.URL, "llama3")
	_, err := llm.Generate(context.Background(), &repo.GenerateRequest{Text: "hi"})
	if !errors.Is(err, repo.ErrProviderError) {
		t.Errorf("Expected ErrProviderError, got %v", err)
	}
}

func TestOllamaGenerate_ConnectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens any more

	llm := NewOllamaRepo(srv.URL, "llama3")
	_, err := llm.Generate(context.Background(), &repo.GenerateRequest{Text: "hi"})
	if !errors.Is(err, repo.ErrProviderUnavailable) {
		t.Errorf("Expected ErrProviderUnavailable, got %v", err)
	}
}

func TestOllamaGenerate_CanceledContextIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	llm := NewOllamaRepo(srv.URL, "llama3")
	_, err := llm.Generate(ctx, &repo.GenerateRequest{Text: "hi"})
	if err == nil {
		t.Fatal("Expected an error for a dead context")
	}
}

func TestOllamaHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ollamaTagsResponse{})
	}))
	defer srv.Close()

	llm := NewOllamaRepo(srv.URL, "llama3")
	if !llm.HealthCheck(context.Background()) {
		t.Error("Expected a healthy probe")
	}

	srv.Close()
	if llm.HealthCheck(context.Background()) {
		t.Error("Expected an unhealthy probe once the server is gone")
	}
}

func TestOllamaListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[{"name":"llama3"},{"name":"mistral"}]}`))
	}))
	defer srv.Close()

	llm := NewOllamaRepo(srv.URL, "llama3")
	models, err := llm.ListModels(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(models) != 2 || models[0] != "llama3" || models[1] != "mistral" {
		t.Errorf("Unexpected models: %v", models)
	}
}

func TestOllamaListModels_EmptyIsNotNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	llm := NewOllamaRepo(srv.URL, "llama3")
	models, err := llm.ListModels(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// nil means "listing unsupported"; a local backend with no models
	// must return an empty, non-nil slice
	if models == nil {
		t.Error("Expected a non-nil empty slice")
	}
}

func TestNewLLMRepo_UnknownProvider(t *testing.T) {
	if _, err := NewLLMRepo(conf.LLMConfig{Provider: "watson"}); err == nil {
		t.Error("Expected an error for an unknown provider")
	}
}

func TestNewLLMRepo_KnownProviders(t *testing.T) {
	for _, provider := range []string{"ollama", "openai", "xai", "moonshot"} {
		if _, err := NewLLMRepo(conf.LLMConfig{Provider: provider, APIKey: "k", Model: "m", OllamaURL: "http://localhost:11434"}); err != nil {
			t.Errorf("Provider %s: unexpected error: %v", provider, err)
		}
	}
}
