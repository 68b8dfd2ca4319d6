package conf

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config represents application configuration
type Config struct {
	// Webex configuration
	Webex WebexConfig

	// LLM provider configuration
	LLM LLMConfig

	// Emails granted admin privilege (loaded at startup, reload is a restart)
	AdminEmails []string

	// Approved-user store path (SQLite)
	UserDBPath string

	// Personalities YAML path ("" = search default locations)
	PersonalitiesPath string

	// Conversation history window per room
	HistoryWindow int

	// HTTP listen address for webhook + health
	ListenAddr string

	// Debug mode
	Debug bool
}

// WebexConfig contains Webex configuration
type WebexConfig struct {
	BotToken string
	BotID    string // the bot's own person ID, used to skip self-messages
}

// LLMConfig contains LLM provider configuration
type LLMConfig struct {
	Provider  string // "openai", "xai", "moonshot", "ollama"
	Model     string
	APIKey    string
	BaseURL   string // optional override for OpenAI-compatible backends
	OllamaURL string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() *Config {
	// Approved-user DB path
	userDBPath := os.Getenv("USER_DB_PATH")
	if userDBPath == "" {
		homeDir, _ := os.UserHomeDir()
		userDBPath = filepath.Join(homeDir, ".webex-ai-bot", "users.db")
	}

	// History window
	historyWindow := 20
	if val := os.Getenv("HISTORY_WINDOW"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			historyWindow = parsed
		}
	}

	// Admin emails, comma separated
	var adminEmails []string
	for _, e := range strings.Split(os.Getenv("ADMIN_EMAILS"), ",") {
		e = strings.TrimSpace(e)
		if e != "" {
			adminEmails = append(adminEmails, e)
		}
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	ollamaURL := os.Getenv("OLLAMA_URL")
	if ollamaURL == "" {
		ollamaURL = "http://localhost:11434"
	}

	return &Config{
		Webex: WebexConfig{
			BotToken: os.Getenv("WEBEX_BOT_TOKEN"),
			BotID:    os.Getenv("WEBEX_BOT_ID"),
		},
		LLM: LLMConfig{
			Provider:  os.Getenv("LLM_PROVIDER"),
			Model:     os.Getenv("LLM_MODEL"),
			APIKey:    os.Getenv("LLM_API_KEY"),
			BaseURL:   os.Getenv("LLM_BASE_URL"),
			OllamaURL: ollamaURL,
		},
		AdminEmails:       adminEmails,
		UserDBPath:        userDBPath,
		PersonalitiesPath: os.Getenv("PERSONALITIES_PATH"),
		HistoryWindow:     historyWindow,
		ListenAddr:        listenAddr,
		Debug:             os.Getenv("DEBUG") == "true",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Webex.BotToken == "" {
		return &ConfigError{Field: "WEBEX_BOT_TOKEN", Message: "required"}
	}
	if c.LLM.Provider == "" {
		return &ConfigError{Field: "LLM_PROVIDER", Message: "required"}
	}
	if c.LLM.Provider != "ollama" && c.LLM.Model == "" {
		return &ConfigError{Field: "LLM_MODEL", Message: "required"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
