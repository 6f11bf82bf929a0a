package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"isa/internal/config"
)

// Client talks to the WhatsApp automation gateway (WAHA-compatible API).
// One session per deployment; the gateway multiplexes tenant numbers.
type Client struct {
	baseURL    string
	session    string
	httpClient *http.Client
}

// NewClient creates a new WhatsApp gateway client
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: cfg.WhatsAppBaseURL,
		session: cfg.WhatsAppSession,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Enabled reports whether a gateway URL is configured
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

type sendTextRequest struct {
	Session string `json:"session"`
	ChatID  string `json:"chatId"`
	Text    string `json:"text"`
}

type mediaFile struct {
	URL string `json:"url"`
}

type sendMediaRequest struct {
	Session string    `json:"session"`
	ChatID  string    `json:"chatId"`
	File    mediaFile `json:"file"`
	Caption string    `json:"caption,omitempty"`
}

// SendText sends a plain text message to a chat
func (c *Client) SendText(ctx context.Context, chatID, text string) error {
	return c.post(ctx, "/api/sendText", sendTextRequest{
		Session: c.session,
		ChatID:  chatID,
		Text:    text,
	})
}

// SendImage sends an image by URL with an optional caption
func (c *Client) SendImage(ctx context.Context, chatID, imageURL, caption string) error {
	return c.post(ctx, "/api/sendImage", sendMediaRequest{
		Session: c.session,
		ChatID:  chatID,
		File:    mediaFile{URL: imageURL},
		Caption: caption,
	})
}

// SendVideo sends a video by URL with an optional caption
func (c *Client) SendVideo(ctx context.Context, chatID, videoURL, caption string) error {
	return c.post(ctx, "/api/sendVideo", sendMediaRequest{
		Session: c.session,
		ChatID:  chatID,
		File:    mediaFile{URL: videoURL},
		Caption: caption,
	})
}

// SendMedia dispatches on the stored media type
func (c *Client) SendMedia(ctx context.Context, chatID, mediaURL, mediaType string) error {
	switch mediaType {
	case "video":
		return c.SendVideo(ctx, chatID, mediaURL, "")
	default:
		return c.SendImage(ctx, chatID, mediaURL, "")
	}
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
