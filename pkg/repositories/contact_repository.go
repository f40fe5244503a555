package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// ContactRepository provides data access for contacts.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	Update(ctx context.Context, contact *models.Contact) error
	Delete(ctx context.Context, contactID int64) error
	GetByID(ctx context.Context, contactID int64) (*models.Contact, error)
	List(ctx context.Context, skip int) ([]*models.Contact, error)
	Search(ctx context.Context, query string) ([]*models.Contact, error)
}

type contactRepository struct {
	db *database.DB
}

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(db *database.DB) ContactRepository {
	return &contactRepository{db: db}
}

var _ ContactRepository = (*contactRepository)(nil)

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	query := `
		INSERT INTO contacts (name, email, phone, notes, hidden)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Notes,
		contact.Hidden,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

func (r *contactRepository) Update(ctx context.Context, contact *models.Contact) error {
	query := `
		UPDATE contacts
		SET name = $2, email = $3, phone = $4, notes = $5, hidden = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		contact.ID,
		contact.Name,
		contact.Email,
		contact.Phone,
		contact.Notes,
		contact.Hidden,
	).Scan(&contact.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update contact: %w", err)
	}

	return nil
}

func (r *contactRepository) Delete(ctx context.Context, contactID int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, contactID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func (r *contactRepository) GetByID(ctx context.Context, contactID int64) (*models.Contact, error) {
	query := `
		SELECT id, name, email, phone, notes, hidden, created_at, updated_at
		FROM contacts
		WHERE id = $1`

	contact, err := scanContact(r.db.QueryRow(ctx, query, contactID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return contact, nil
}

func (r *contactRepository) List(ctx context.Context, skip int) ([]*models.Contact, error) {
	query := `
		SELECT id, name, email, phone, notes, hidden, created_at, updated_at
		FROM contacts
		WHERE NOT hidden
		ORDER BY name
		OFFSET $1`

	rows, err := r.db.Query(ctx, query, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

func (r *contactRepository) Search(ctx context.Context, query string) ([]*models.Contact, error) {
	sql := `
		SELECT id, name, email, phone, notes, hidden, created_at, updated_at
		FROM contacts
		WHERE NOT hidden AND (name ILIKE $1 OR email ILIKE $1)
		ORDER BY name`

	rows, err := r.db.Query(ctx, sql, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

func scanContact(row pgx.Row) (*models.Contact, error) {
	var c models.Contact

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Notes,
		&c.Hidden,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan contact: %w", err)
	}

	return &c, nil
}

func collectContacts(rows pgx.Rows) ([]*models.Contact, error) {
	var contacts []*models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}

	return contacts, nil
}
