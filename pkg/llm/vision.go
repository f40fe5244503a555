package llm

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// VisionClient answers questions about an image.
type VisionClient interface {
	AnalyzeImage(ctx context.Context, imageData []byte, mediaType, prompt string) (string, error)
}

// VisionConfig holds image analysis settings.
type VisionConfig struct {
	APIKey string
	Model  string
}

type visionClient struct {
	client *anthropic.Client
	model  string
}

// NewVisionClient creates an Anthropic-backed vision client. With no API key
// configured AnalyzeImage returns ErrNotConfigured.
func NewVisionClient(cfg VisionConfig) VisionClient {
	c := &visionClient{model: cfg.Model}
	if cfg.APIKey != "" {
		c.client = anthropic.NewClient(cfg.APIKey)
	}
	if c.model == "" {
		c.model = "claude-3-5-sonnet-20241022"
	}
	return c
}

func (c *visionClient) AnalyzeImage(ctx context.Context, imageData []byte, mediaType, prompt string) (string, error) {
	if c.client == nil {
		return "", ErrNotConfigured
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(
						anthropic.NewMessageContentSource(
							anthropic.MessagesContentSourceTypeBase64,
							mediaType,
							imageData,
						),
					),
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("image analysis request failed: %w", err)
	}

	for _, content := range resp.Content {
		if content.Text != nil {
			return *content.Text, nil
		}
	}
	return "", fmt.Errorf("image analysis returned no text")
}
