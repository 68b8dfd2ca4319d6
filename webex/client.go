package webex

import (
	"context"
	"fmt"
	"time"

	webexteams "github.com/jbogarin/go-cisco-webex-teams/sdk"
)

// Client wraps the Webex Teams SDK behind the small surface the bot needs:
// fetching a message by ID, sending text to a room, and identifying itself.
type Client struct {
	sdk *webexteams.Client
}

// NewClient creates a new Webex client
func NewClient(token string) *Client {
	sdk := webexteams.NewClient()
	webexteams.RestyClient.SetAuthToken(token)
	webexteams.RestyClient.SetTimeout(15 * time.Second)
	return &Client{sdk: sdk}
}

// NewClientWithBaseURL creates a client against a non-default API base,
// used in tests
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	webexteams.RestyClient.SetHostURL(baseURL)
	return c
}

// Message represents a Webex message
type Message struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"roomId"`
	RoomType    string    `json:"roomType"` // "group" or "direct"
	PersonID    string    `json:"personId"`
	PersonEmail string    `json:"personEmail"`
	Text        string    `json:"text"`
	Created     time.Time `json:"created"`
}

// Person represents a Webex person (only what the bot reads)
type Person struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// GetMessage fetches the full message for a webhook event.
// The SDK carries no per-call context; the client-level timeout bounds
// each request.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*Message, error) {
	msg, resp, err := c.sdk.Messages.GetMessage(messageID)
	if err != nil {
		return nil, fmt.Errorf("get message %s: %w", messageID, err)
	}
	if !statusOK(resp.StatusCode()) {
		return nil, fmt.Errorf("get message %s: webex api status %d", messageID, resp.StatusCode())
	}
	return &Message{
		ID:          msg.ID,
		RoomID:      msg.RoomID,
		RoomType:    msg.RoomType,
		PersonID:    msg.PersonID,
		PersonEmail: msg.PersonEmail,
		Text:        msg.Text,
		Created:     msg.Created,
	}, nil
}

// SendText sends a plain-text message to a room
func (c *Client) SendText(ctx context.Context, roomID, text string) error {
	_, resp, err := c.sdk.Messages.CreateMessage(&webexteams.MessageCreateRequest{
		RoomID: roomID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send message to %s: %w", roomID, err)
	}
	if !statusOK(resp.StatusCode()) {
		return fmt.Errorf("send message to %s: webex api status %d", roomID, resp.StatusCode())
	}
	return nil
}

// Me returns the bot's own identity, used to ignore self-messages
func (c *Client) Me(ctx context.Context) (*Person, error) {
	me, resp, err := c.sdk.People.GetMe()
	if err != nil {
		return nil, fmt.Errorf("get own identity: %w", err)
	}
	if !statusOK(resp.StatusCode()) {
		return nil, fmt.Errorf("get own identity: webex api status %d", resp.StatusCode())
	}
	return &Person{
		ID:          me.ID,
		DisplayName: me.DisplayName,
	}, nil
}

func statusOK(code int) bool {
	return code >= 200 && code < 300
}
