package service

import (
	"context"
	"fmt"
	"time"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
	"github.com/webexlabs/webex-ai-bot/internal/biz/repo"
	"github.com/webexlabs/webex-ai-bot/internal/biz/usecase"
)

// fallbackReply is the single user-facing message for every provider
// failure kind. Internal detail never reaches outbound reply text.
const fallbackReply = "I'm having trouble connecting to the AI service. Please try again in a moment."

// Conversation runs the per-message LLM pipeline: resolve personality,
// read and extend memory, invoke the backend, dispatch the reply.
// It is driven by the room queue, which guarantees per-room exclusivity.
type Conversation struct {
	resolver   *usecase.Resolver
	memory     *usecase.Memory
	llm        repo.LLMRepo
	dispatcher *Dispatcher
}

// NewConversation creates the pipeline
func NewConversation(
	resolver *usecase.Resolver,
	memory *usecase.Memory,
	llm repo.LLMRepo,
	dispatcher *Dispatcher,
) *Conversation {
	return &Conversation{
		resolver:   resolver,
		memory:     memory,
		llm:        llm,
		dispatcher: dispatcher,
	}
}

// Process handles one admitted free-text message
func (c *Conversation) Process(ctx context.Context, msg *domain.InboundMessage) error {
	personality := c.resolver.Resolve(msg.SenderEmail)
	history := c.memory.Recent(msg.RoomID)
	c.memory.Append(msg.RoomID, domain.Turn{
		Role:    domain.RoleUser,
		Content: msg.Text,
		At:      msg.ArrivedAt,
	})

	reply, err := c.llm.Generate(ctx, &repo.GenerateRequest{
		SystemPrompt: personality.SystemPrompt,
		Temperature:  personality.Temperature,
		MaxTokens:    personality.MaxTokens,
		History:      history,
		Text:         msg.Text,
	})
	if err != nil {
		// The user's turn stays in history; no assistant turn is recorded
		// for the failed attempt
		fmt.Printf("[Conversation] Provider error in room %s: %v\n", msg.RoomID, err)
		_ = c.dispatcher.Send(ctx, msg.RoomID, fallbackReply)
		return err
	}

	c.memory.Append(msg.RoomID, domain.Turn{
		Role:    domain.RoleAssistant,
		Content: reply,
		At:      time.Now(),
	})
	return c.dispatcher.Send(ctx, msg.RoomID, reply)
}
