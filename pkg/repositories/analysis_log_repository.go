package repositories

import (
	"context"
	"fmt"

	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// AnalysisLogRepository records vision-model calls for audit.
type AnalysisLogRepository interface {
	Create(ctx context.Context, log *models.ImageAnalysisLog) error
}

type analysisLogRepository struct {
	db *database.DB
}

// NewAnalysisLogRepository creates a new AnalysisLogRepository.
func NewAnalysisLogRepository(db *database.DB) AnalysisLogRepository {
	return &analysisLogRepository{db: db}
}

var _ AnalysisLogRepository = (*analysisLogRepository)(nil)

func (r *analysisLogRepository) Create(ctx context.Context, log *models.ImageAnalysisLog) error {
	query := `
		INSERT INTO image_analysis_logs (user_id, image_count, result, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		log.UserID,
		log.ImageCount,
		log.Result,
		log.Status,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record image analysis: %w", err)
	}

	return nil
}
