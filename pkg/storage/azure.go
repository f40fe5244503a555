package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"go.uber.org/zap"
)

// BlobStore uploads attachment bytes to Azure blob storage and signs
// time-limited read URLs for them.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	SignedURL(key string) (string, error)
	SignedDownloadURL(key, filename string) (string, error)
	Container() string
}

// Config holds Azure storage settings.
type Config struct {
	AccountName string
	AccountKey  string
	Container   string
	SASTTL      time.Duration
	SASSkew     time.Duration
}

type azureBlobStore struct {
	client    *azblob.Client
	cred      *azblob.SharedKeyCredential
	account   string
	container string
	sasTTL    time.Duration
	sasSkew   time.Duration
	logger    *zap.Logger
}

// NewAzureBlobStore creates a blob store backed by an Azure storage account.
func NewAzureBlobStore(cfg Config, logger *zap.Logger) (BlobStore, error) {
	cred, err := azblob.NewSharedKeyCredential(cfg.AccountName, cfg.AccountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage credential: %w", err)
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.AccountName)
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	sasTTL := cfg.SASTTL
	if sasTTL == 0 {
		sasTTL = time.Hour
	}
	sasSkew := cfg.SASSkew
	if sasSkew == 0 {
		sasSkew = 5 * time.Minute
	}

	return &azureBlobStore{
		client:    client,
		cred:      cred,
		account:   cfg.AccountName,
		container: cfg.Container,
		sasTTL:    sasTTL,
		sasSkew:   sasSkew,
		logger:    logger,
	}, nil
}

func (s *azureBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	headers := blob.HTTPHeaders{BlobContentType: &contentType}
	_, err := s.client.UploadBuffer(ctx, s.container, key, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &headers,
	})
	if err != nil {
		return fmt.Errorf("failed to upload blob %s: %w", key, err)
	}
	return nil
}

// SignedURL returns a read-only SAS URL for the blob. The start time is
// backdated so slightly skewed client clocks still accept the token.
func (s *azureBlobStore) SignedURL(key string) (string, error) {
	return s.signURL(key, "")
}

// SignedDownloadURL is like SignedURL but forces attachment disposition with
// the given filename.
func (s *azureBlobStore) SignedDownloadURL(key, filename string) (string, error) {
	return s.signURL(key, fmt.Sprintf("attachment; filename=%q", filename))
}

func (s *azureBlobStore) signURL(key, disposition string) (string, error) {
	now := time.Now().UTC()
	values := sas.BlobSignatureValues{
		Protocol:           sas.ProtocolHTTPS,
		StartTime:          now.Add(-s.sasSkew),
		ExpiryTime:         now.Add(s.sasTTL),
		Permissions:        (&sas.BlobPermissions{Read: true}).String(),
		ContainerName:      s.container,
		BlobName:           key,
		ContentDisposition: disposition,
	}

	query, err := values.SignWithSharedKey(s.cred)
	if err != nil {
		return "", fmt.Errorf("failed to sign blob URL for %s: %w", key, err)
	}

	return fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s?%s",
		s.account, s.container, key, query.Encode()), nil
}

func (s *azureBlobStore) Container() string {
	return s.container
}
