package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// NotificationRepository provides data access for in-app notifications. All
// id-scoped reads and writes are owner-scoped; another user's row is simply
// not found.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetForUser(ctx context.Context, notificationID, userID int64) (*models.Notification, error)
	ListForUser(ctx context.Context, userID int64, skip int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID int64) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	DeleteForUser(ctx context.Context, notificationID, userID int64) error
}

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *database.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

var _ NotificationRepository = (*notificationRepository)(nil)

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (title, body, inspection_id, user_id, read)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		notification.Title,
		notification.Body,
		notification.InspectionID,
		notification.UserID,
		notification.Read,
	).Scan(&notification.ID, &notification.CreatedAt, &notification.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) GetForUser(ctx context.Context, notificationID, userID int64) (*models.Notification, error) {
	query := `
		SELECT id, title, body, inspection_id, user_id, read, created_at, updated_at
		FROM notifications
		WHERE id = $1 AND user_id = $2`

	notification, err := scanNotification(r.db.QueryRow(ctx, query, notificationID, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return notification, nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID int64, skip int) ([]*models.Notification, error) {
	query := `
		SELECT id, title, body, inspection_id, user_id, read, created_at, updated_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		OFFSET $2`

	rows, err := r.db.Query(ctx, query, userID, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID, userID int64) (*models.Notification, error) {
	query := `
		UPDATE notifications
		SET read = true, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, title, body, inspection_id, user_id, read, created_at, updated_at`

	notification, err := scanNotification(r.db.QueryRow(ctx, query, notificationID, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return notification, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE notifications SET read = true, updated_at = now() WHERE user_id = $1 AND NOT read`,
		userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *notificationRepository) DeleteForUser(ctx context.Context, notificationID, userID int64) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`,
		notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification

	err := row.Scan(
		&n.ID,
		&n.Title,
		&n.Body,
		&n.InspectionID,
		&n.UserID,
		&n.Read,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}

	return &n, nil
}
