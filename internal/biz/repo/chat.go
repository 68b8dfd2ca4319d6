package repo

import "context"

// ChatRepo is the outbound messaging interface
// Responsible for delivering reply text to a Webex room
type ChatRepo interface {
	// SendText sends a text message to a room
	SendText(ctx context.Context, roomID, text string) error
}
