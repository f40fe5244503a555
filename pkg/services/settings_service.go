package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// SettingsService manages application settings. Chat defaults to enabled
// when the row has never been written. Writes require the admin role, record
// an audit row, and broadcast the new state to SSE subscribers.
type SettingsService interface {
	ChatEnabled(ctx context.Context) (bool, error)
	SetChatEnabled(ctx context.Context, callerID int64, enabled bool) (bool, error)
	Broadcaster() *Broadcaster
}

type settingsService struct {
	settings    repositories.SettingRepository
	users       repositories.UserRepository
	broadcaster *Broadcaster
	logger      *zap.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(
	settings repositories.SettingRepository,
	users repositories.UserRepository,
	broadcaster *Broadcaster,
	logger *zap.Logger,
) SettingsService {
	return &settingsService{
		settings:    settings,
		users:       users,
		broadcaster: broadcaster,
		logger:      logger.Named("settings-service"),
	}
}

var _ SettingsService = (*settingsService)(nil)

func (s *settingsService) ChatEnabled(ctx context.Context) (bool, error) {
	setting, err := s.settings.Get(ctx, models.SettingChatEnabled)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return true, nil
		}
		return false, err
	}

	enabled, err := strconv.ParseBool(setting.Value)
	if err != nil {
		s.logger.Warn("Unparseable chat_enabled value, treating as enabled",
			zap.String("value", setting.Value))
		return true, nil
	}

	return enabled, nil
}

func (s *settingsService) SetChatEnabled(ctx context.Context, callerID int64, enabled bool) (bool, error) {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return false, err
	}
	if caller.Role != models.RoleAdmin {
		return false, apperrors.ErrForbidden
	}

	var oldValue *string
	if existing, err := s.settings.Get(ctx, models.SettingChatEnabled); err == nil {
		oldValue = &existing.Value
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return false, err
	}

	newValue := strconv.FormatBool(enabled)
	if _, err := s.settings.Upsert(ctx, models.SettingChatEnabled, newValue); err != nil {
		return false, err
	}

	change := &models.AppSettingChange{
		Key:       models.SettingChatEnabled,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedBy: callerID,
	}
	if err := s.settings.RecordChange(ctx, change); err != nil {
		return false, err
	}

	event, err := json.Marshal(map[string]any{
		"key":     models.SettingChatEnabled,
		"enabled": enabled,
	})
	if err == nil {
		s.broadcaster.Publish(event)
	}

	return enabled, nil
}

func (s *settingsService) Broadcaster() *Broadcaster {
	return s.broadcaster
}
