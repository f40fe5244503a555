package services

import (
	"context"
	"errors"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// PermitService manages permits. Creation is idempotent per inspection: a
// second create for the same inspection returns the existing permit.
type PermitService interface {
	Create(ctx context.Context, permit *models.Permit) (*models.Permit, bool, error)
	GetByID(ctx context.Context, permitID int64) (*models.Permit, error)
	List(ctx context.Context, inspectionID int64, skip int) ([]*models.Permit, error)
}

type permitService struct {
	permits     repositories.PermitRepository
	inspections repositories.InspectionRepository
}

// NewPermitService creates a new PermitService.
func NewPermitService(permits repositories.PermitRepository, inspections repositories.InspectionRepository) PermitService {
	return &permitService{permits: permits, inspections: inspections}
}

var _ PermitService = (*permitService)(nil)

// Create returns the permit and whether a new row was written.
func (s *permitService) Create(ctx context.Context, permit *models.Permit) (*models.Permit, bool, error) {
	inspection, err := s.inspections.GetByID(ctx, permit.InspectionID)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.permits.GetByInspection(ctx, permit.InspectionID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}

	if permit.BusinessID == nil {
		permit.BusinessID = inspection.BusinessID
	}

	if err := s.permits.Create(ctx, permit); err != nil {
		// Lost a race with a concurrent create for the same inspection.
		if errors.Is(err, apperrors.ErrConflict) {
			existing, getErr := s.permits.GetByInspection(ctx, permit.InspectionID)
			if getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}

	created, err := s.permits.GetByID(ctx, permit.ID)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

func (s *permitService) GetByID(ctx context.Context, permitID int64) (*models.Permit, error) {
	return s.permits.GetByID(ctx, permitID)
}

func (s *permitService) List(ctx context.Context, inspectionID int64, skip int) ([]*models.Permit, error) {
	return s.permits.List(ctx, inspectionID, skip)
}
