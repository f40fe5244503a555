package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/media"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
	"github.com/civicodehq/civicode-engine/pkg/storage"
)

// Upload is one file received from a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PhotoService stores and serves photo attachments for comments and
// violations. Bytes go to blob storage; the attachment and blob rows mirror
// the tables the legacy app wrote, so old photos keep resolving.
type PhotoService interface {
	// ListPhotos returns signed URLs for a record's photos. No attachment
	// rows at all is ErrNotFound; an attachment whose blob row is missing
	// is skipped.
	ListPhotos(ctx context.Context, recordType string, recordID int64) ([]*models.Photo, error)

	// UploadPhotos normalizes each image, uploads it and writes the
	// attachment rows, returning the stored photos with signed URLs.
	UploadPhotos(ctx context.Context, recordType string, recordID int64, uploads []*Upload) ([]*models.Photo, error)
}

type photoService struct {
	attachments repositories.AttachmentRepository
	store       storage.BlobStore
	logger      *zap.Logger
}

// NewPhotoService creates a new PhotoService.
func NewPhotoService(attachments repositories.AttachmentRepository, store storage.BlobStore, logger *zap.Logger) PhotoService {
	return &photoService{
		attachments: attachments,
		store:       store,
		logger:      logger.Named("photo-service"),
	}
}

var _ PhotoService = (*photoService)(nil)

func (s *photoService) ListPhotos(ctx context.Context, recordType string, recordID int64) ([]*models.Photo, error) {
	attachments, err := s.attachments.ListByRecord(ctx, models.AttachmentNamePhotos, recordType, recordID)
	if err != nil {
		return nil, err
	}
	if len(attachments) == 0 {
		return nil, apperrors.ErrNotFound
	}

	photos := []*models.Photo{}
	for _, attachment := range attachments {
		blob, err := s.attachments.GetBlob(ctx, attachment.BlobID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				s.logger.Warn("Attachment references missing blob, skipping",
					zap.Int64("attachment_id", attachment.ID),
					zap.Int64("blob_id", attachment.BlobID))
				continue
			}
			return nil, err
		}

		url, err := s.store.SignedURL(blob.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to sign photo URL: %w", err)
		}

		photos = append(photos, &models.Photo{
			Filename:    blob.Filename,
			ContentType: blob.ContentType,
			URL:         url,
		})
	}

	return photos, nil
}

func (s *photoService) UploadPhotos(ctx context.Context, recordType string, recordID int64, uploads []*Upload) ([]*models.Photo, error) {
	photos := []*models.Photo{}

	for _, upload := range uploads {
		normalized := media.NormalizeImage(upload.Data, upload.Filename, upload.ContentType)

		key := uuid.NewString()
		if err := s.store.Upload(ctx, key, normalized.Data, normalized.ContentType); err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", normalized.Filename, err)
		}

		contentType := normalized.ContentType
		blob := &models.Blob{
			Key:         key,
			Filename:    normalized.Filename,
			ContentType: &contentType,
			ServiceName: "azure",
			ByteSize:    int64(len(normalized.Data)),
		}
		if err := s.attachments.CreateBlob(ctx, blob); err != nil {
			return nil, err
		}

		attachment := &models.Attachment{
			Name:       models.AttachmentNamePhotos,
			RecordType: recordType,
			RecordID:   recordID,
			BlobID:     blob.ID,
		}
		if err := s.attachments.CreateAttachment(ctx, attachment); err != nil {
			return nil, err
		}

		url, err := s.store.SignedURL(key)
		if err != nil {
			return nil, fmt.Errorf("failed to sign photo URL: %w", err)
		}

		photos = append(photos, &models.Photo{
			Filename:    blob.Filename,
			ContentType: blob.ContentType,
			URL:         url,
		})
	}

	return photos, nil
}
