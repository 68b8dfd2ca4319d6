package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/webexlabs/webex-ai-bot/internal/biz/repo"
	"github.com/webexlabs/webex-ai-bot/internal/biz/usecase"
	"github.com/webexlabs/webex-ai-bot/internal/conf"
	"github.com/webexlabs/webex-ai-bot/internal/data"
	"github.com/webexlabs/webex-ai-bot/internal/server"
	"github.com/webexlabs/webex-ai-bot/internal/service"
	"github.com/webexlabs/webex-ai-bot/webex"
)

// Bot wires the whole message pipeline together
type Bot struct {
	config   *conf.Config
	server   *server.Server
	queue    *service.RoomQueue
	userRepo repo.UserRepo
}

// New creates a bot from configuration.
// A malformed initial config (users or personalities) refuses to start.
func New(cfg *conf.Config) (*Bot, error) {
	ctx := context.Background()

	webexClient := webex.NewClient(cfg.Webex.BotToken)

	// Resolve the bot's own identity when not configured, so self-messages
	// can be skipped
	botID := cfg.Webex.BotID
	if botID == "" {
		me, err := webexClient.Me(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve bot identity: %w", err)
		}
		botID = me.ID
	}

	llmRepo, err := data.NewLLMRepo(cfg.LLM)
	if err != nil {
		return nil, err
	}

	userRepo, err := data.NewUserRepo(cfg.UserDBPath)
	if err != nil {
		return nil, err
	}

	gate, err := usecase.NewGate(ctx, userRepo, cfg.AdminEmails)
	if err != nil {
		userRepo.Close()
		return nil, err
	}

	resolver, err := usecase.NewResolver(&conf.CatalogFile{Path: cfg.PersonalitiesPath})
	if err != nil {
		userRepo.Close()
		return nil, err
	}

	memory := usecase.NewMemory(cfg.HistoryWindow)
	chatRepo := data.NewWebexRepo(webexClient)
	dispatcher := service.NewDispatcher(chatRepo)
	conversation := service.NewConversation(resolver, memory, llmRepo, dispatcher)
	queue := service.NewRoomQueue(conversation.Process)
	router := service.NewCommandRouter(gate, resolver, llmRepo)

	srv := server.NewServer(webexClient, botID, gate, router, queue, dispatcher, llmRepo)

	return &Bot{
		config:   cfg,
		server:   srv,
		queue:    queue,
		userRepo: userRepo,
	}, nil
}

// Start runs the HTTP server (blocking)
func (b *Bot) Start() error {
	return b.server.Start(b.config.ListenAddr)
}

// Stop drains in-flight work and shuts down
func (b *Bot) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := b.server.Stop(ctx); err != nil {
		fmt.Printf("[Bot] Server shutdown: %v\n", err)
	}
	b.queue.Wait()
	if err := b.userRepo.Close(); err != nil {
		fmt.Printf("[Bot] User store close: %v\n", err)
	}
}
