package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// CodeRepository provides data access for municipal code sections.
type CodeRepository interface {
	Create(ctx context.Context, code *models.Code) error
	Update(ctx context.Context, code *models.Code) error
	Delete(ctx context.Context, codeID int64) error
	GetByID(ctx context.Context, codeID int64) (*models.Code, error)
	List(ctx context.Context, skip int) ([]*models.Code, error)
	Search(ctx context.Context, query string) ([]*models.Code, error)
}

type codeRepository struct {
	db *database.DB
}

// NewCodeRepository creates a new CodeRepository.
func NewCodeRepository(db *database.DB) CodeRepository {
	return &codeRepository{db: db}
}

var _ CodeRepository = (*codeRepository)(nil)

func (r *codeRepository) Create(ctx context.Context, code *models.Code) error {
	query := `
		INSERT INTO codes (chapter, section, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		code.Chapter,
		code.Section,
		code.Name,
		code.Description,
	).Scan(&code.ID, &code.CreatedAt, &code.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create code: %w", err)
	}

	return nil
}

func (r *codeRepository) Update(ctx context.Context, code *models.Code) error {
	query := `
		UPDATE codes
		SET chapter = $2, section = $3, name = $4, description = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		code.ID,
		code.Chapter,
		code.Section,
		code.Name,
		code.Description,
	).Scan(&code.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update code: %w", err)
	}

	return nil
}

func (r *codeRepository) Delete(ctx context.Context, codeID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM codes WHERE id = $1`, codeID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to delete code: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *codeRepository) GetByID(ctx context.Context, codeID int64) (*models.Code, error) {
	query := `
		SELECT id, chapter, section, name, description, created_at, updated_at
		FROM codes
		WHERE id = $1`

	code, err := scanCode(r.db.QueryRow(ctx, query, codeID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return code, nil
}

func (r *codeRepository) List(ctx context.Context, skip int) ([]*models.Code, error) {
	query := `
		SELECT id, chapter, section, name, description, created_at, updated_at
		FROM codes
		ORDER BY chapter, section
		OFFSET $1`

	rows, err := r.db.Query(ctx, query, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query codes: %w", err)
	}
	defer rows.Close()

	return collectCodes(rows)
}

func (r *codeRepository) Search(ctx context.Context, query string) ([]*models.Code, error) {
	sql := `
		SELECT id, chapter, section, name, description, created_at, updated_at
		FROM codes
		WHERE chapter ILIKE $1 OR section ILIKE $1 OR name ILIKE $1 OR description ILIKE $1
		ORDER BY chapter, section`

	rows, err := r.db.Query(ctx, sql, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search codes: %w", err)
	}
	defer rows.Close()

	return collectCodes(rows)
}

func scanCode(row pgx.Row) (*models.Code, error) {
	var c models.Code

	err := row.Scan(
		&c.ID,
		&c.Chapter,
		&c.Section,
		&c.Name,
		&c.Description,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan code: %w", err)
	}

	return &c, nil
}

func collectCodes(rows pgx.Rows) ([]*models.Code, error) {
	var codes []*models.Code
	for rows.Next() {
		code, err := scanCode(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating codes: %w", err)
	}

	return codes, nil
}
