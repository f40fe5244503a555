package repositories

import (
	"context"
	"fmt"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// PushSubscriptionRepository provides data access for browser push
// subscriptions. Endpoints are globally unique; re-registering an endpoint
// moves it to the registering user.
type PushSubscriptionRepository interface {
	Upsert(ctx context.Context, sub *models.PushSubscription) error
	DeleteByEndpoint(ctx context.Context, userID int64, endpoint string) error
	DeleteByID(ctx context.Context, subscriptionID int64) error
	ListByUser(ctx context.Context, userID int64) ([]*models.PushSubscription, error)
}

type pushSubscriptionRepository struct {
	db *database.DB
}

// NewPushSubscriptionRepository creates a new PushSubscriptionRepository.
func NewPushSubscriptionRepository(db *database.DB) PushSubscriptionRepository {
	return &pushSubscriptionRepository{db: db}
}

var _ PushSubscriptionRepository = (*pushSubscriptionRepository)(nil)

func (r *pushSubscriptionRepository) Upsert(ctx context.Context, sub *models.PushSubscription) error {
	query := `
		INSERT INTO push_subscriptions (user_id, endpoint, p256dh, auth, expiration_time, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (endpoint) DO UPDATE
		SET user_id = EXCLUDED.user_id, p256dh = EXCLUDED.p256dh,
		    auth = EXCLUDED.auth, expiration_time = EXCLUDED.expiration_time,
		    user_agent = EXCLUDED.user_agent, updated_at = now()
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		sub.UserID,
		sub.Endpoint,
		sub.P256DH,
		sub.Auth,
		sub.ExpirationTime,
		sub.UserAgent,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert push subscription: %w", err)
	}

	return nil
}

func (r *pushSubscriptionRepository) DeleteByEndpoint(ctx context.Context, userID int64, endpoint string) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM push_subscriptions WHERE user_id = $1 AND endpoint = $2`,
		userID, endpoint)
	if err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeleteByID prunes a subscription the push service reported gone.
func (r *pushSubscriptionRepository) DeleteByID(ctx context.Context, subscriptionID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM push_subscriptions WHERE id = $1`, subscriptionID)
	if err != nil {
		return fmt.Errorf("failed to prune push subscription: %w", err)
	}

	return nil
}

func (r *pushSubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]*models.PushSubscription, error) {
	query := `
		SELECT id, user_id, endpoint, p256dh, auth, expiration_time, user_agent,
		       created_at, updated_at
		FROM push_subscriptions
		WHERE user_id = $1
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query push subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []*models.PushSubscription{}
	for rows.Next() {
		var s models.PushSubscription
		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Endpoint,
			&s.P256DH,
			&s.Auth,
			&s.ExpirationTime,
			&s.UserAgent,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan push subscription: %w", err)
		}
		subs = append(subs, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating push subscriptions: %w", err)
	}

	return subs, nil
}
