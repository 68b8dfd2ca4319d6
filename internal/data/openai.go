package data

import (
	"context"
	"errors"
	"fmt"
	"net"

	openai "github.com/sashabaranov/go-openai"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
	"github.com/webexlabs/webex-ai-bot/internal/biz/repo"
)

// openAIRepo implements the LLM repository for any OpenAI-compatible
// backend (OpenAI, xAI, Moonshot) via a base URL override
type openAIRepo struct {
	client *openai.Client
	model  string
}

// NewOpenAIRepo creates an OpenAI-compatible LLM repository.
// An empty baseURL targets the OpenAI API itself.
func NewOpenAIRepo(apiKey, model, baseURL string) repo.LLMRepo {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &openAIRepo{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Generate sends the prompt and history to the backend
func (r *openAIRepo) Generate(ctx context.Context, req *repo.GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.GenerateTimeout)
	defer cancel()

	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.SystemPrompt,
	})
	for _, turn := range req.History {
		role := openai.ChatMessageRoleUser
		if turn.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Text,
	})

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response choices", repo.ErrProviderError)
	}
	return resp.Choices[0].Message.Content, nil
}

// HealthCheck probes the models endpoint
func (r *openAIRepo) HealthCheck(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, repo.GenerateTimeout)
	defer cancel()

	_, err := r.client.ListModels(ctx)
	return err == nil
}

// ListModels is not supported for cloud providers; the configured model is
// authoritative
func (r *openAIRepo) ListModels(ctx context.Context) ([]string, error) {
	return nil, nil
}

// classifyOpenAIError maps SDK errors onto the provider failure taxonomy
func classifyOpenAIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", repo.ErrProviderTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", repo.ErrProviderTimeout, err)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", repo.ErrProviderError, err)
	}
	return fmt.Errorf("%w: %v", repo.ErrProviderUnavailable, err)
}
