package conf

import (
	"errors"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Webex: WebexConfig{BotToken: "token"},
		LLM:   LLMConfig{Provider: "openai", Model: "gpt-4o"},
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidate_MissingToken(t *testing.T) {
	c := validConfig()
	c.Webex.BotToken = ""

	err := c.Validate()
	var confErr *ConfigError
	if !errors.As(err, &confErr) || confErr.Field != "WEBEX_BOT_TOKEN" {
		t.Errorf("Expected WEBEX_BOT_TOKEN error, got %v", err)
	}
}

func TestValidate_MissingProvider(t *testing.T) {
	c := validConfig()
	c.LLM.Provider = ""

	err := c.Validate()
	var confErr *ConfigError
	if !errors.As(err, &confErr) || confErr.Field != "LLM_PROVIDER" {
		t.Errorf("Expected LLM_PROVIDER error, got %v", err)
	}
}

func TestValidate_ModelRequiredForCloudProviders(t *testing.T) {
	c := validConfig()
	c.LLM.Model = ""

	err := c.Validate()
	var confErr *ConfigError
	if !errors.As(err, &confErr) || confErr.Field != "LLM_MODEL" {
		t.Errorf("Expected LLM_MODEL error, got %v", err)
	}
}

func TestValidate_OllamaNeedsNoModel(t *testing.T) {
	c := validConfig()
	c.LLM.Provider = "ollama"
	c.LLM.Model = ""

	if err := c.Validate(); err != nil {
		t.Errorf("Ollama without a model must pass validation, got %v", err)
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("WEBEX_BOT_TOKEN", "token")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("HISTORY_WINDOW", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("OLLAMA_URL", "")
	t.Setenv("ADMIN_EMAILS", "")
	t.Setenv("USER_DB_PATH", "/tmp/test-users.db")

	c := LoadFromEnv()
	if c.HistoryWindow != 20 {
		t.Errorf("Expected default history window 20, got %d", c.HistoryWindow)
	}
	if c.ListenAddr != ":8080" {
		t.Errorf("Expected default listen address, got %q", c.ListenAddr)
	}
	if c.LLM.OllamaURL != "http://localhost:11434" {
		t.Errorf("Expected default Ollama URL, got %q", c.LLM.OllamaURL)
	}
	if len(c.AdminEmails) != 0 {
		t.Errorf("Expected no admins, got %v", c.AdminEmails)
	}
}

func TestLoadFromEnv_AdminEmailsParsing(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "a@example.com, b@example.com ,,c@example.com")

	c := LoadFromEnv()
	want := []string{"a@example.com", "b@example.com", "c@example.com"}
	if len(c.AdminEmails) != len(want) {
		t.Fatalf("Expected %d admins, got %v", len(want), c.AdminEmails)
	}
	for i, e := range want {
		if c.AdminEmails[i] != e {
			t.Errorf("Admin %d: expected %q, got %q", i, e, c.AdminEmails[i])
		}
	}
}
