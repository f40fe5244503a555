package services

import (
	"context"
	"strings"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/llm"
)

// AssistantService fronts the hosted assistant. It enforces the chat toggle
// and rejects malformed thread ids before anything reaches the upstream API.
type AssistantService interface {
	Chat(ctx context.Context, message, threadID string) (reply, usedThreadID string, err error)
}

type assistantService struct {
	client   llm.AssistantClient
	settings SettingsService
}

// NewAssistantService creates a new AssistantService.
func NewAssistantService(client llm.AssistantClient, settings SettingsService) AssistantService {
	return &assistantService{client: client, settings: settings}
}

var _ AssistantService = (*assistantService)(nil)

func (s *assistantService) Chat(ctx context.Context, message, threadID string) (string, string, error) {
	enabled, err := s.settings.ChatEnabled(ctx)
	if err != nil {
		return "", "", err
	}
	if !enabled {
		return "", "", apperrors.ErrForbidden
	}

	if threadID != "" && !strings.HasPrefix(threadID, "thread_") {
		return "", "", apperrors.ErrInvalidInput
	}

	return s.client.Chat(ctx, message, threadID)
}
