package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// CommentRepository provides data access for address comments and contact
// comments. Listing views join the author so callers can show a name without
// a second query.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, commentID int64) error
	GetByID(ctx context.Context, commentID int64) (*models.Comment, error)
	List(ctx context.Context, skip, limit int) ([]*models.Comment, error)
	ListByAddress(ctx context.Context, addressID int64) ([]*models.Comment, error)
	ListByUnit(ctx context.Context, unitID int64) ([]*models.Comment, error)

	CreateContactComment(ctx context.Context, comment *models.ContactComment) error
	ListByContact(ctx context.Context, contactID int64) ([]*models.ContactComment, error)
}

type commentRepository struct {
	db *database.DB
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(db *database.DB) CommentRepository {
	return &commentRepository{db: db}
}

var _ CommentRepository = (*commentRepository)(nil)

const commentColumns = `
	c.id, c.content, c.address_id, c.user_id, c.unit_id, c.created_at,
	c.updated_at, u.id, u.email, u.name, u.role
`

const commentFrom = ` FROM comments c LEFT JOIN users u ON u.id = c.user_id `

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (content, address_id, user_id, unit_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		comment.Content,
		comment.AddressID,
		comment.UserID,
		comment.UnitID,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET content = $2, unit_id = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		comment.ID,
		comment.Content,
		comment.UnitID,
	).Scan(&comment.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update comment: %w", err)
	}

	return nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	query := `SELECT` + commentColumns + commentFrom + `WHERE c.id = $1`

	comment, err := scanComment(r.db.QueryRow(ctx, query, commentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return comment, nil
}

func (r *commentRepository) List(ctx context.Context, skip, limit int) ([]*models.Comment, error) {
	query := `SELECT` + commentColumns + commentFrom + `ORDER BY c.created_at DESC OFFSET $1 LIMIT $2`

	rows, err := r.db.Query(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

func (r *commentRepository) ListByAddress(ctx context.Context, addressID int64) ([]*models.Comment, error) {
	query := `SELECT` + commentColumns + commentFrom + `WHERE c.address_id = $1 ORDER BY c.created_at DESC`

	rows, err := r.db.Query(ctx, query, addressID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments by address: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

func (r *commentRepository) ListByUnit(ctx context.Context, unitID int64) ([]*models.Comment, error) {
	query := `SELECT` + commentColumns + commentFrom + `WHERE c.unit_id = $1 ORDER BY c.created_at DESC`

	rows, err := r.db.Query(ctx, query, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments by unit: %w", err)
	}
	defer rows.Close()

	return collectComments(rows)
}

func (r *commentRepository) CreateContactComment(ctx context.Context, comment *models.ContactComment) error {
	query := `
		INSERT INTO contact_comments (comment, user_id, contact_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		comment.Comment,
		comment.UserID,
		comment.ContactID,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact comment: %w", err)
	}

	return nil
}

func (r *commentRepository) ListByContact(ctx context.Context, contactID int64) ([]*models.ContactComment, error) {
	query := `
		SELECT id, comment, user_id, contact_id, created_at, updated_at
		FROM contact_comments
		WHERE contact_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.ContactComment{}
	for rows.Next() {
		var c models.ContactComment
		if err := rows.Scan(&c.ID, &c.Comment, &c.UserID, &c.ContactID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact comments: %w", err)
	}

	return comments, nil
}

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	var userID *int64
	var userEmail, userName *string
	var userRole *int

	err := row.Scan(
		&c.ID,
		&c.Content,
		&c.AddressID,
		&c.UserID,
		&c.UnitID,
		&c.CreatedAt,
		&c.UpdatedAt,
		&userID,
		&userEmail,
		&userName,
		&userRole,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}

	if userID != nil {
		c.User = &models.User{ID: *userID, Name: userName}
		if userEmail != nil {
			c.User.Email = *userEmail
		}
		if userRole != nil {
			c.User.Role = *userRole
		}
	}

	return &c, nil
}

func collectComments(rows pgx.Rows) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}
