package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/llm"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

const defaultAnalysisPrompt = "Describe the property condition shown in this photo, noting any visible code violations."

// ImageAnalysisInput is one image to analyze, supplied inline as base64.
// Data URL prefixes ("data:image/jpeg;base64,...") are accepted.
type ImageAnalysisInput struct {
	Base64    string `json:"base64"`
	MediaType string `json:"media_type"`
}

// ImageService runs vision-model analysis over uploaded images and records
// every call for audit.
type ImageService interface {
	Analyze(ctx context.Context, userID int64, images []ImageAnalysisInput, prompt string) (*models.ImageAnalysisLog, error)
}

type imageService struct {
	vision llm.VisionClient
	logs   repositories.AnalysisLogRepository
	logger *zap.Logger
}

// NewImageService creates a new ImageService.
func NewImageService(vision llm.VisionClient, logs repositories.AnalysisLogRepository, logger *zap.Logger) ImageService {
	return &imageService{
		vision: vision,
		logs:   logs,
		logger: logger.Named("image-service"),
	}
}

var _ ImageService = (*imageService)(nil)

func (s *imageService) Analyze(ctx context.Context, userID int64, images []ImageAnalysisInput, prompt string) (*models.ImageAnalysisLog, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images supplied: %w", apperrors.ErrInvalidInput)
	}
	if prompt == "" {
		prompt = defaultAnalysisPrompt
	}

	var results []string
	status := "completed"

	for i, image := range images {
		data, mediaType, err := decodeImage(image)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}

		result, err := s.vision.AnalyzeImage(ctx, data, mediaType, prompt)
		if err != nil {
			status = "failed"
			s.logger.Warn("Image analysis failed", zap.Int("image", i+1), zap.Error(err))
			s.record(ctx, userID, len(images), nil, status)
			return nil, err
		}
		results = append(results, result)
	}

	combined := strings.Join(results, "\n\n")
	return s.record(ctx, userID, len(images), &combined, status), nil
}

func (s *imageService) record(ctx context.Context, userID int64, count int, result *string, status string) *models.ImageAnalysisLog {
	log := &models.ImageAnalysisLog{
		UserID:     userID,
		ImageCount: count,
		Result:     result,
		Status:     status,
	}
	if err := s.logs.Create(ctx, log); err != nil {
		s.logger.Warn("Failed to record image analysis", zap.Error(err))
	}
	return log
}

func decodeImage(image ImageAnalysisInput) ([]byte, string, error) {
	raw := image.Base64
	mediaType := image.MediaType

	if strings.HasPrefix(raw, "data:") {
		header, body, found := strings.Cut(raw, ",")
		if !found {
			return nil, "", fmt.Errorf("malformed data URL: %w", apperrors.ErrInvalidInput)
		}
		raw = body
		header = strings.TrimPrefix(header, "data:")
		if mt, _, ok := strings.Cut(header, ";"); ok && mediaType == "" {
			mediaType = mt
		}
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 image data: %w", apperrors.ErrInvalidInput)
	}

	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	return data, mediaType, nil
}
