// Package chat talks to an OpenAI-compatible completion endpoint on behalf of
// the trip assistant panel.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultEndpoint = "https://ark.cn-beijing.volces.com/api/v3"
	DefaultModel    = "doubao-seed-1-6-flash-250828"
	Temperature     = 0.7
)

var (
	ErrBusy    = errors.New("chat: a reply is already pending")
	ErrEmpty   = errors.New("chat: nothing to send")
	ErrNoReply = errors.New("chat: completion had no choices")
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one line of the transcript as sent on the wire.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Stream      bool      `json:"stream"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Completer is anything that can answer a conversation.
type Completer interface {
	Complete(ctx context.Context, msgs []Message) (string, error)
}

// Client is a minimal non-streaming chat completions client.
type Client struct {
	Endpoint string
	APIKey   string
	Model    string
	HTTP     *http.Client
}

func NewClient(endpoint, apiKey, model string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		Endpoint: strings.TrimRight(endpoint, "/"),
		APIKey:   apiKey,
		Model:    model,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) Complete(ctx context.Context, msgs []Message) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model:       c.Model,
		Messages:    msgs,
		Stream:      false,
		Temperature: Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encode completion: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("completion: read body: %w", err)
	}
	var out completionResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(body, &out) == nil && out.Error != nil {
			return "", fmt.Errorf("completion: http %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("completion: http %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("completion: decode: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", ErrNoReply
	}
	return out.Choices[0].Message.Content, nil
}
