// Package llm wraps the external text and image generation services behind
// narrow request/response types. Callers depend on small interfaces declared
// on their side, so tests substitute fakes without touching this package.
package llm

import (
	"context"
	"encoding/base64"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// CompletionRequest describes one completion call. Prompt is required;
// System is an optional system message prepended to the conversation.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// ImageRequest describes one image generation call. Size uses the service's
// "WxH" string form, e.g. "1024x1024".
type ImageRequest struct {
	Model  string
	Prompt string
	Size   string
}

// Config holds connection settings for the generation service.
type Config struct {
	APIKey  string
	BaseURL string
}

// Client calls the external generation service. It carries no timeout or
// retry policy of its own; a single attempt per call is the contract.
type Client struct {
	api *openai.Client
}

// NewClient creates a client for the configured endpoint.
func NewClient(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &Client{api: openai.NewClientWithConfig(apiCfg)}
}

// Complete performs one chat completion call and returns the raw response
// text. The text may contain fenced JSON; callers strip fences themselves.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("create completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Image performs one image generation call and returns the decoded bytes of
// the first generated image.
func (c *Client) Image(ctx context.Context, req ImageRequest) ([]byte, error) {
	resp, err := c.api.CreateImage(ctx, openai.ImageRequest{
		Model:          req.Model,
		Prompt:         req.Prompt,
		Size:           req.Size,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("image generation returned no data")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	return raw, nil
}
