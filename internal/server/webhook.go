package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/webexlabs/webex-ai-bot/internal/biz/domain"
	"github.com/webexlabs/webex-ai-bot/internal/biz/repo"
	"github.com/webexlabs/webex-ai-bot/internal/biz/usecase"
	"github.com/webexlabs/webex-ai-bot/internal/service"
	"github.com/webexlabs/webex-ai-bot/webex"
)

// Server receives Webex webhook events and exposes the health endpoint
type Server struct {
	webexClient *webex.Client
	botID       string
	gate        *usecase.Gate
	router      *service.CommandRouter
	queue       *service.RoomQueue
	dispatcher  *service.Dispatcher
	llm         repo.LLMRepo

	startedAt  time.Time
	httpServer *http.Server
}

// NewServer creates the HTTP server
func NewServer(
	webexClient *webex.Client,
	botID string,
	gate *usecase.Gate,
	router *service.CommandRouter,
	queue *service.RoomQueue,
	dispatcher *service.Dispatcher,
	llm repo.LLMRepo,
) *Server {
	return &Server{
		webexClient: webexClient,
		botID:       botID,
		gate:        gate,
		router:      router,
		queue:       queue,
		dispatcher:  dispatcher,
		llm:         llm,
		startedAt:   time.Now(),
	}
}

// Start starts the HTTP server (blocking)
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	fmt.Printf("[Server] Listening on %s\n", addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop shuts the HTTP server down
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// webhookEvent is the part of the Webex webhook payload the bot reads
type webhookEvent struct {
	Data struct {
		ID     string `json:"id"`
		RoomID string `json:"roomId"`
	} `json:"data"`
}

// handleWebhook processes one inbound event.
//
// Flow: fetch the full message by ID, skip the bot's own messages, check
// admission, strip the bot mention in group rooms, then route to the
// command table or the room queue. Always answers 200 so the platform
// doesn't retry delivery.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	defer w.WriteHeader(http.StatusOK)

	if r.Method != http.MethodPost {
		return
	}

	var event webhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		fmt.Printf("[Server] Malformed webhook payload: %v\n", err)
		return
	}
	if event.Data.ID == "" || event.Data.RoomID == "" {
		fmt.Println("[Server] Webhook missing message ID or room ID")
		return
	}

	ctx := r.Context()

	msg, err := s.webexClient.GetMessage(ctx, event.Data.ID)
	if err != nil {
		fmt.Printf("[Server] Failed to fetch message %s: %v\n", event.Data.ID, err)
		return
	}

	// Ignore the bot's own messages
	if msg.PersonID == s.botID {
		return
	}

	// Admission control: silent drop, no further component invoked
	if !s.gate.IsApproved(msg.PersonEmail) {
		fmt.Printf("[Server] Ignoring message from unapproved user: %s\n", msg.PersonEmail)
		return
	}

	text := msg.Text
	stripped := false
	if msg.RoomType == string(domain.RoomTypeGroup) && text != "" {
		// Webex prepends the bot's display name in group rooms; drop the
		// first word
		parts := strings.SplitN(text, " ", 2)
		if len(parts) > 1 {
			text = parts[1]
		} else {
			text = ""
		}
		stripped = true
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	inbound := &domain.InboundMessage{
		RoomID:          msg.RoomID,
		SenderEmail:     msg.PersonEmail,
		Text:            text,
		MentionStripped: stripped,
		ArrivedAt:       time.Now(),
	}

	if reply, handled := s.router.TryHandle(ctx, inbound); handled {
		// Commands reply directly; the LLM path is never entered
		if err := s.dispatcher.Send(ctx, inbound.RoomID, reply); err != nil {
			fmt.Printf("[Server] Failed to send command reply to %s: %v\n", inbound.RoomID, err)
		}
		return
	}

	s.queue.Enqueue(inbound)
}

// healthResponse is the health query contract
type healthResponse struct {
	Status   string `json:"status"`
	Provider bool   `json:"provider"`
	Uptime   string `json:"uptime"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	providerHealthy := s.llm.HealthCheck(r.Context())

	status := "healthy"
	if !providerHealthy {
		status = "degraded"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:   status,
		Provider: providerHealthy,
		Uptime:   time.Since(s.startedAt).Round(time.Second).String(),
	})
}
