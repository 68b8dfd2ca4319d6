package data

import (
	"context"

	"github.com/webexlabs/webex-ai-bot/internal/biz/repo"
	"github.com/webexlabs/webex-ai-bot/webex"
)

// webexRepo implements the outbound chat repository over the Webex client
type webexRepo struct {
	client *webex.Client
}

// NewWebexRepo creates a new Webex chat repository
func NewWebexRepo(client *webex.Client) repo.ChatRepo {
	return &webexRepo{client: client}
}

// SendText sends a text message to a room
func (r *webexRepo) SendText(ctx context.Context, roomID, text string) error {
	return r.client.SendText(ctx, roomID, text)
}
