package data

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
	"github.com/webexlabs/webex-ai-bot/internal/biz/repo"
)

// ollamaRepo implements the LLM repository for local Ollama inference
type ollamaRepo struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaRepo creates an Ollama LLM repository
func NewOllamaRepo(baseURL, model string) repo.LLMRepo {
	return &ollamaRepo{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: repo.GenerateTimeout,
		},
	}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  ollamaOptions   `json:"options"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Generate sends the prompt and history to Ollama
func (r *ollamaRepo) Generate(ctx context.Context, req *repo.GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.GenerateTimeout)
	defer cancel()

	messages := make([]ollamaMessage, 0, len(req.History)+2)
	messages = append(messages, ollamaMessage{Role: "system", Content: req.SystemPrompt})
	for _, turn := range req.History {
		role := "user"
		if turn.Role == domain.RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, ollamaMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, ollamaMessage{Role: "user", Content: req.Text})

	payload := ollamaChatRequest{
		Model:    r.model,
		Messages: messages,
		Stream:   false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", repo.ErrProviderError, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", repo.ErrProviderError, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return "", classifyOllamaError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", repo.ErrProviderError, resp.StatusCode)
	}

	var chatResp ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", repo.ErrProviderError, err)
	}
	return chatResp.Message.Content, nil
}

// HealthCheck probes the tags endpoint
func (r *ollamaRepo) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// ListModels lists locally available models
func (r *ollamaRepo) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repo.ErrProviderError, err)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, classifyOllamaError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", repo.ErrProviderError, resp.StatusCode)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", repo.ErrProviderError, err)
	}

	models := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, m.Name)
	}
	return models, nil
}

// classifyOllamaError maps transport errors onto the provider failure taxonomy
func classifyOllamaError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", repo.ErrProviderTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", repo.ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: %v", repo.ErrProviderUnavailable, err)
}
