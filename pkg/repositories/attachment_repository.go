package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/database"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// AttachmentRepository provides data access for the attachment and blob
// tables the legacy app populated. Attachments point at blobs; a dangling
// attachment (blob row gone) is possible and callers are expected to skip it.
type AttachmentRepository interface {
	CreateBlob(ctx context.Context, blob *models.Blob) error
	GetBlob(ctx context.Context, blobID int64) (*models.Blob, error)
	CreateAttachment(ctx context.Context, attachment *models.Attachment) error
	ListByRecord(ctx context.Context, name, recordType string, recordID int64) ([]*models.Attachment, error)
}

type attachmentRepository struct {
	db *database.DB
}

// NewAttachmentRepository creates a new AttachmentRepository.
func NewAttachmentRepository(db *database.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

var _ AttachmentRepository = (*attachmentRepository)(nil)

func (r *attachmentRepository) CreateBlob(ctx context.Context, blob *models.Blob) error {
	query := `
		INSERT INTO blobs (key, filename, content_type, metadata, service_name, byte_size, checksum)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		blob.Key,
		blob.Filename,
		blob.ContentType,
		blob.Metadata,
		blob.ServiceName,
		blob.ByteSize,
		blob.Checksum,
	).Scan(&blob.ID, &blob.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create blob: %w", err)
	}

	return nil
}

func (r *attachmentRepository) GetBlob(ctx context.Context, blobID int64) (*models.Blob, error) {
	query := `
		SELECT id, key, filename, content_type, metadata, service_name,
		       byte_size, checksum, created_at
		FROM blobs
		WHERE id = $1`

	var b models.Blob
	err := r.db.QueryRow(ctx, query, blobID).Scan(
		&b.ID,
		&b.Key,
		&b.Filename,
		&b.ContentType,
		&b.Metadata,
		&b.ServiceName,
		&b.ByteSize,
		&b.Checksum,
		&b.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blob: %w", err)
	}

	return &b, nil
}

func (r *attachmentRepository) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	query := `
		INSERT INTO attachments (name, record_type, record_id, blob_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		attachment.Name,
		attachment.RecordType,
		attachment.RecordID,
		attachment.BlobID,
	).Scan(&attachment.ID, &attachment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	return nil
}

func (r *attachmentRepository) ListByRecord(ctx context.Context, name, recordType string, recordID int64) ([]*models.Attachment, error) {
	query := `
		SELECT id, name, record_type, record_id, blob_id, created_at
		FROM attachments
		WHERE name = $1 AND record_type = $2 AND record_id = $3
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, name, recordType, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	var attachments []*models.Attachment
	for rows.Next() {
		var a models.Attachment
		err := rows.Scan(&a.ID, &a.Name, &a.RecordType, &a.RecordID, &a.BlobID, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachments: %w", err)
	}

	return attachments, nil
}
