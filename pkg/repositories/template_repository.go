package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// TemplateRepository provides data access for document templates. Listings
// skip the content column; GetByID loads it for downloads.
type TemplateRepository interface {
	Create(ctx context.Context, template *models.DocumentTemplate) error
	GetByID(ctx context.Context, templateID int64) (*models.DocumentTemplate, error)
	List(ctx context.Context, category string) ([]*models.DocumentTemplate, error)
	Delete(ctx context.Context, templateID int64) error
}

type templateRepository struct {
	db *database.DB
}

// NewTemplateRepository creates a new TemplateRepository.
func NewTemplateRepository(db *database.DB) TemplateRepository {
	return &templateRepository{db: db}
}

var _ TemplateRepository = (*templateRepository)(nil)

func (r *templateRepository) Create(ctx context.Context, template *models.DocumentTemplate) error {
	query := `
		INSERT INTO document_templates (name, category, filename, content, license_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		template.Name,
		template.Category,
		template.Filename,
		template.Content,
		template.LicenseType,
	).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create document template: %w", err)
	}

	return nil
}

func (r *templateRepository) GetByID(ctx context.Context, templateID int64) (*models.DocumentTemplate, error) {
	query := `
		SELECT id, name, category, filename, content, license_type, created_at, updated_at
		FROM document_templates
		WHERE id = $1`

	var t models.DocumentTemplate
	err := r.db.QueryRow(ctx, query, templateID).Scan(
		&t.ID,
		&t.Name,
		&t.Category,
		&t.Filename,
		&t.Content,
		&t.LicenseType,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get document template: %w", err)
	}

	return &t, nil
}

func (r *templateRepository) List(ctx context.Context, category string) ([]*models.DocumentTemplate, error) {
	query := `
		SELECT id, name, category, filename, license_type, created_at, updated_at
		FROM document_templates
		WHERE ($1 = '' OR category = $1)
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query document templates: %w", err)
	}
	defer rows.Close()

	templates := []*models.DocumentTemplate{}
	for rows.Next() {
		var t models.DocumentTemplate
		err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Category,
			&t.Filename,
			&t.LicenseType,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document template: %w", err)
		}
		templates = append(templates, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document templates: %w", err)
	}

	return templates, nil
}

func (r *templateRepository) Delete(ctx context.Context, templateID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM document_templates WHERE id = $1`, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete document template: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
