package data

import (
	"fmt"
	"strings"

	"github.com/webexlabs/webex-ai-bot/internal/biz/repo"
	"github.com/webexlabs/webex-ai-bot/internal/conf"
)

const (
	xaiBaseURL      = "https://api.x.ai/v1"
	moonshotBaseURL = "https://api.moonshot.cn/v1"
)

// NewLLMRepo creates the configured LLM repository
func NewLLMRepo(cfg conf.LLMConfig) (repo.LLMRepo, error) {
	switch strings.ToLower(cfg.Provider) {
	case "ollama":
		return NewOllamaRepo(cfg.OllamaURL, cfg.Model), nil
	case "openai":
		return NewOpenAIRepo(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	case "xai":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = xaiBaseURL
		}
		return NewOpenAIRepo(cfg.APIKey, cfg.Model, baseURL), nil
	case "moonshot":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = moonshotBaseURL
		}
		return NewOpenAIRepo(cfg.APIKey, cfg.Model, baseURL), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
