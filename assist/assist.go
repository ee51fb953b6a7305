// Package assist implements the AI chat collaborator: a thin
// request/response client that sends a text prompt, optionally with an
// inline image payload, and receives a text reply.
//
// The conversation history is append-only and resent in full on every
// call. Transport failures are caught at this boundary and converted into
// a user-visible fallback message; they never alter local state and never
// propagate into the render loop.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gogpu/daub"
)

// DefaultFallback is the reply produced when the service is unreachable.
const DefaultFallback = "The assistant is unavailable right now. Your image and conversation are unchanged."

// Role identifies the author of a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the conversation transcript. ImagePNG, when
// set, is an inline PNG payload accompanying the text.
type Message struct {
	Role     Role   `json:"role"`
	Text     string `json:"text"`
	ImagePNG []byte `json:"image_png,omitempty"`
}

// Client talks to the chat service. It is not safe for concurrent use;
// drive it from the same loop as the editor.
type Client struct {
	url      string
	httpc    *http.Client
	fallback string
	history  []Message
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpc = h
		}
	}
}

// WithFallback overrides the reply shown when the service cannot be
// reached.
func WithFallback(msg string) Option {
	return func(c *Client) {
		c.fallback = msg
	}
}

// NewClient creates a client for the chat endpoint at url.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:      url,
		httpc:    http.DefaultClient,
		fallback: DefaultFallback,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// History returns a copy of the conversation transcript.
func (c *Client) History() []Message {
	out := make([]Message, len(c.history))
	copy(out, c.history)
	return out
}

type chatRequest struct {
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

// Send submits prompt (plus an optional inline PNG) together with the
// full conversation so far and returns the service's reply. On success
// both the prompt and the reply are appended to the transcript. On any
// transport or protocol failure the transcript is left untouched and the
// fallback message is returned; there is no automatic retry.
func (c *Client) Send(ctx context.Context, prompt string, imagePNG []byte) string {
	outgoing := Message{Role: RoleUser, Text: prompt, ImagePNG: imagePNG}
	payload := chatRequest{Messages: append(c.History(), outgoing)}

	reply, err := c.roundTrip(ctx, payload)
	if err != nil {
		daub.Logger().Warn("assist request failed", "err", err)
		return c.fallback
	}

	c.history = append(c.history, outgoing, Message{Role: RoleAssistant, Text: reply})
	return reply
}

func (c *Client) roundTrip(ctx context.Context, payload chatRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("assist: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("assist: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("assist: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assist: service returned %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("assist: read response: %w", err)
	}
	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("assist: decode response: %w", err)
	}
	return parsed.Reply, nil
}
