package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Assistant proxy errors. Handlers map these to 500/504/502 respectively.
var (
	ErrNotConfigured = errors.New("assistant not configured")
	ErrRunTimeout    = errors.New("assistant run timed out")
)

// AssistantClient proxies chat messages to a hosted OpenAI assistant,
// maintaining conversation state in OpenAI threads.
type AssistantClient interface {
	Chat(ctx context.Context, message, threadID string) (reply, usedThreadID string, err error)
}

// AssistantConfig holds assistant settings.
type AssistantConfig struct {
	APIKey       string
	AssistantID  string
	PollInterval time.Duration
	Timeout      time.Duration
}

type assistantClient struct {
	client *openai.Client
	cfg    AssistantConfig
	logger *zap.Logger
}

// NewAssistantClient creates an assistant chat client. A nil client config
// (missing key or assistant id) still constructs; Chat returns
// ErrNotConfigured so the handler can answer with a clean error.
func NewAssistantClient(cfg AssistantConfig, logger *zap.Logger) AssistantClient {
	c := &assistantClient{cfg: cfg, logger: logger}
	if cfg.APIKey != "" {
		c.client = openai.NewClient(cfg.APIKey)
	}
	if c.cfg.PollInterval == 0 {
		c.cfg.PollInterval = 750 * time.Millisecond
	}
	if c.cfg.Timeout == 0 {
		c.cfg.Timeout = 30 * time.Second
	}
	return c
}

func (c *assistantClient) Chat(ctx context.Context, message, threadID string) (string, string, error) {
	if c.client == nil || c.cfg.AssistantID == "" {
		return "", "", ErrNotConfigured
	}

	threadID, err := c.resolveThread(ctx, threadID)
	if err != nil {
		return "", "", err
	}

	_, err = c.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    string(openai.ThreadMessageRoleUser),
		Content: message,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to post message to thread %s: %w", threadID, err)
	}

	run, err := c.client.CreateRun(ctx, threadID, openai.RunRequest{
		AssistantID: c.cfg.AssistantID,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to start assistant run: %w", err)
	}

	if err := c.waitForRun(ctx, threadID, run.ID); err != nil {
		return "", "", err
	}

	reply, err := c.latestAssistantReply(ctx, threadID)
	if err != nil {
		return "", "", err
	}
	return reply, threadID, nil
}

// resolveThread reuses the caller's thread when it still exists, otherwise
// creates a fresh one. Ids not shaped like thread ids are rejected outright.
func (c *assistantClient) resolveThread(ctx context.Context, threadID string) (string, error) {
	if threadID != "" {
		if !strings.HasPrefix(threadID, "thread_") {
			return "", fmt.Errorf("malformed thread id %q", threadID)
		}
		if _, err := c.client.RetrieveThread(ctx, threadID); err == nil {
			return threadID, nil
		}
		c.logger.Warn("Assistant thread not found, creating a new one",
			zap.String("thread_id", threadID))
	}

	thread, err := c.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("failed to create assistant thread: %w", err)
	}
	return thread.ID, nil
}

func (c *assistantClient) waitForRun(ctx context.Context, threadID, runID string) error {
	deadline := time.Now().Add(c.cfg.Timeout)
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		run, err := c.client.RetrieveRun(ctx, threadID, runID)
		if err != nil {
			return fmt.Errorf("failed to poll assistant run: %w", err)
		}

		switch run.Status {
		case openai.RunStatusCompleted:
			return nil
		case openai.RunStatusFailed, openai.RunStatusCancelled, openai.RunStatusExpired:
			return fmt.Errorf("assistant run ended with status %s", run.Status)
		}

		if time.Now().After(deadline) {
			return ErrRunTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *assistantClient) latestAssistantReply(ctx context.Context, threadID string) (string, error) {
	limit := 10
	order := "desc"
	msgs, err := c.client.ListMessage(ctx, threadID, &limit, &order, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("failed to list thread messages: %w", err)
	}

	for _, msg := range msgs.Messages {
		if msg.Role != string(openai.ThreadMessageRoleAssistant) {
			continue
		}
		var parts []string
		for _, content := range msg.Content {
			if content.Text != nil {
				parts = append(parts, content.Text.Value)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "\n"), nil
		}
	}

	return "", fmt.Errorf("assistant run produced no reply")
}
