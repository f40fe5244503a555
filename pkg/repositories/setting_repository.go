package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// SettingRepository provides data access for application settings and their
// audit trail.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*models.AppSetting, error)
	Upsert(ctx context.Context, key, value string) (*models.AppSetting, error)
	RecordChange(ctx context.Context, change *models.AppSettingChange) error
}

type settingRepository struct {
	db *database.DB
}

// NewSettingRepository creates a new SettingRepository.
func NewSettingRepository(db *database.DB) SettingRepository {
	return &settingRepository{db: db}
}

var _ SettingRepository = (*settingRepository)(nil)

func (r *settingRepository) Get(ctx context.Context, key string) (*models.AppSetting, error) {
	query := `
		SELECT id, key, value, created_at, updated_at
		FROM app_settings
		WHERE key = $1`

	var s models.AppSetting
	err := r.db.QueryRow(ctx, query, key).Scan(&s.ID, &s.Key, &s.Value, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}

	return &s, nil
}

func (r *settingRepository) Upsert(ctx context.Context, key, value string) (*models.AppSetting, error) {
	query := `
		INSERT INTO app_settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		RETURNING id, key, value, created_at, updated_at`

	var s models.AppSetting
	err := r.db.QueryRow(ctx, query, key, value).Scan(&s.ID, &s.Key, &s.Value, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert setting %s: %w", key, err)
	}

	return &s, nil
}

func (r *settingRepository) RecordChange(ctx context.Context, change *models.AppSettingChange) error {
	query := `
		INSERT INTO app_setting_changes (key, old_value, new_value, changed_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		change.Key,
		change.OldValue,
		change.NewValue,
		change.ChangedBy,
	).Scan(&change.ID, &change.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record setting change: %w", err)
	}

	return nil
}
