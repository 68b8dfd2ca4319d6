package service

import (
	"context"
	"fmt"
	"time"

	"github.com/webexlabs/webex-ai-bot/internal/biz/repo"
)

// dispatchRetryDelay is the fixed pause before the single retry
const dispatchRetryDelay = 2 * time.Second

// Dispatcher delivers reply text to the originating room.
//
// On a transport failure it retries exactly once after a fixed delay; on
// the second failure the reply is dropped and logged. It never re-enters
// the queue or re-invokes the LLM.
type Dispatcher struct {
	chat       repo.ChatRepo
	retryDelay time.Duration
}

// NewDispatcher creates a dispatcher
func NewDispatcher(chat repo.ChatRepo) *Dispatcher {
	return &Dispatcher{
		chat:       chat,
		retryDelay: dispatchRetryDelay,
	}
}

// Send delivers text to a room
func (d *Dispatcher) Send(ctx context.Context, roomID, text string) error {
	err := d.chat.SendText(ctx, roomID, text)
	if err == nil {
		return nil
	}
	fmt.Printf("[Dispatcher] Send failed for room %s, retrying once: %v\n", roomID, err)

	select {
	case <-time.After(d.retryDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := d.chat.SendText(ctx, roomID, text); err != nil {
		fmt.Printf("[Dispatcher] Retry failed for room %s, dropping reply: %v\n", roomID, err)
		return err
	}
	return nil
}
