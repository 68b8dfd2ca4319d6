package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
	"github.com/webexlabs/webex-ai-bot/internal/biz/repo"
	"github.com/webexlabs/webex-ai-bot/internal/biz/usecase"
)

// command is one entry of the fixed table built at startup
type command struct {
	prefix    string // lowercase; matches the whole text or text + " ..."
	adminOnly bool
	handler   func(ctx context.Context, r *CommandRouter, msg *domain.InboundMessage) string
}

// CommandRouter recognizes built-in textual commands and executes them
// directly, bypassing the LLM pipeline.
//
// Admin-only commands issued by a non-admin are treated as not recognized
// and fall through to the LLM path; no error notice is produced.
type CommandRouter struct {
	gate     *usecase.Gate
	resolver *usecase.Resolver
	llm      repo.LLMRepo

	commands []command
}

// NewCommandRouter builds the router and its command table
func NewCommandRouter(gate *usecase.Gate, resolver *usecase.Resolver, llm repo.LLMRepo) *CommandRouter {
	r := &CommandRouter{
		gate:     gate,
		resolver: resolver,
		llm:      llm,
	}
	r.commands = []command{
		{prefix: "help", handler: handleHelp},
		{prefix: "ping", handler: handlePing},
		{prefix: "health check", handler: handleHealthCheck},
		{prefix: "list models", handler: handleListModels},
		{prefix: "use prompt", handler: handleUsePrompt},
		{prefix: "add user", adminOnly: true, handler: handleAddUser},
		{prefix: "remove user", adminOnly: true, handler: handleRemoveUser},
		{prefix: "list users", adminOnly: true, handler: handleListUsers},
		{prefix: "reload users", adminOnly: true, handler: handleReloadUsers},
		{prefix: "reload prompts", adminOnly: true, handler: handleReloadPrompts},
	}
	return r
}

// TryHandle executes the message as a command when it matches the table.
// Returns the reply text and true on a match; ("", false) means the message
// is not a recognized command for this sender and proceeds to the LLM path.
func (r *CommandRouter) TryHandle(ctx context.Context, msg *domain.InboundMessage) (string, bool) {
	lowered := strings.ToLower(strings.TrimSpace(msg.Text))
	senderIsAdmin := r.gate.IsAdmin(msg.SenderEmail)

	for _, cmd := range r.commands {
		if lowered != cmd.prefix && !strings.HasPrefix(lowered, cmd.prefix+" ") {
			continue
		}
		if cmd.adminOnly && !senderIsAdmin {
			// Silent fallthrough: for this sender the text is not a command
			continue
		}
		return cmd.handler(ctx, r, msg), true
	}
	return "", false
}

func handleHelp(ctx context.Context, r *CommandRouter, msg *domain.InboundMessage) string {
	lines := []string{
		"Available commands:",
		"  help — Show this help message",
		"  ping — Check if the bot is alive",
		"  health check — Check AI service status",
		"  list models — List available models (Ollama only)",
		"  use prompt [name] [question] — Ask with a specific personality",
	}
	if r.gate.IsAdmin(msg.SenderEmail) {
		lines = append(lines,
			"",
			"Admin commands:",
			"  add user [email] — Approve a user",
			"  remove user [email] — Remove a user",
			"  list users — Show approved users",
			"  reload users — Reload approved users from config",
			"  reload prompts — Reload personalities from config",
		)
	}
	return strings.Join(lines, "\n")
}

func handlePing(ctx context.Context, r *CommandRouter, msg *domain.InboundMessage) string {
	return "pong"
}

func handleHealthCheck(ctx context.Context, r *CommandRouter, msg *domain.InboundMessage) string {
	if r.llm.HealthCheck(ctx) {
		return "AI service is healthy and responding."
	}
	return "AI service is not responding."
}

func handleListModels(ctx context.Context, r *CommandRouter, msg *domain.InboundMessage) string {
	models, err := r.llm.ListModels(ctx)
	if err != nil {
		fmt.Printf("[Commands] List models failed: %v\n", err)
		return fallbackReply
	}
	if models == nil {
		return "Model listing is only available for Ollama. " +
			"Cloud providers use the model configured in settings."
	}
	if len(models) == 0 {
		return "No models found."
	}
	lines := make([]string, 0, len(models)+1)
	lines = append(lines, "Available models:")
	for _, m := range models {
		lines = append(lines, "  - "+m)
	}
	return strings.Join(lines, "\n")
}

// handleUsePrompt runs a one-shot personality override for exactly this
// message; future resolution for the sender is unaffected and no history
// is recorded.
func handleUsePrompt(ctx context.Context, r *CommandRouter, msg *domain.InboundMessage) string {
	// "use prompt [name] [question]"
	parts := strings.SplitN(strings.TrimSpace(msg.Text), " ", 4)
	if len(parts) < 4 || strings.TrimSpace(parts[3]) == "" {
		return "Usage: use prompt [name] [question]"
	}
	name := parts[2]
	question := parts[3]

	personality, ok := r.resolver.Get(name)
	if !ok {
		keys := make([]string, 0)
		for _, p := range r.resolver.List() {
			keys = append(keys, p.Key)
		}
		return fmt.Sprintf("Personality '%s' not found. Available: %s", name, strings.Join(keys, ", "))
	}

	reply, err := r.llm.Generate(ctx, &repo.GenerateRequest{
		SystemPrompt: personality.SystemPrompt,
		Temperature:  personality.Temperature,
		MaxTokens:    personality.MaxTokens,
		Text:         question,
	})
	if err != nil {
		fmt.Printf("[Commands] Override generate failed with personality %s: %v\n", name, err)
		return fallbackReply
	}
	return reply
}

func handleAddUser(ctx context.Context, r *CommandRouter, msg *domain.InboundMessage) string {
	parts := strings.Fields(msg.Text)
	if len(parts) < 3 {
		return "Usage: add user [email]"
	}
	email := parts[2]

	added, err := r.gate.AddUser(ctx, email, msg.SenderEmail)
	if err != nil {
		fmt.Printf("[Commands] Add user failed: %v\n", err)
		return "Failed to update the approved user list."
	}
	if added {
		return fmt.Sprintf("User %s has been approved.", email)
	}
	return fmt.Sprintf("User %s is already approved.", email)
}

func handleRemoveUser(ctx context.Context, r *CommandRouter, msg *domain.InboundMessage) string {
	parts := strings.Fields(msg.Text)
	if len(parts) < 3 {
		return "Usage: remove user [email]"
	}
	email := parts[2]

	removed, err := r.gate.RemoveUser(ctx, email)
	if err != nil {
		fmt.Printf("[Commands] Remove user failed: %v\n", err)
		return "Failed to update the approved user list."
	}
	if removed {
		return fmt.Sprintf("User %s has been removed.", email)
	}
	return fmt.Sprintf("User %s was not found in the approved list.", email)
}

func handleListUsers(ctx context.Context, r *CommandRouter, msg *domain.InboundMessage) string {
	users := r.gate.Users()
	if len(users) == 0 {
		return "No approved users."
	}
	lines := make([]string, 0, len(users)+1)
	lines = append(lines, "Approved users:")
	for _, u := range users {
		name := u.Name
		if name == "" {
			name = "N/A"
		}
		lines = append(lines, fmt.Sprintf("  - %s (%s)", u.Email, name))
	}
	return strings.Join(lines, "\n")
}

func handleReloadUsers(ctx context.Context, r *CommandRouter, msg *domain.InboundMessage) string {
	if err := r.gate.Reload(ctx); err != nil {
		fmt.Printf("[Commands] Reload users failed: %v\n", err)
		return "Failed to reload approved users; keeping the previous list."
	}
	return "Approved users reloaded from config."
}

func handleReloadPrompts(ctx context.Context, r *CommandRouter, msg *domain.InboundMessage) string {
	if err := r.resolver.Reload(); err != nil {
		fmt.Printf("[Commands] Reload personalities failed: %v\n", err)
		return "Failed to reload personalities; keeping the previous catalog."
	}
	return "Personalities reloaded from config."
}
