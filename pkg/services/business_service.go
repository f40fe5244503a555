package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// BusinessService manages businesses. Listings resolve each row's address
// independently; a failed join logs and drops the address instead of failing
// the whole page.
type BusinessService interface {
	Create(ctx context.Context, business *models.Business) error
	Update(ctx context.Context, business *models.Business) error
	Delete(ctx context.Context, businessID int64) error
	GetByID(ctx context.Context, businessID int64) (*models.Business, error)
	List(ctx context.Context, skip int) ([]*models.Business, error)
}

type businessService struct {
	businesses repositories.BusinessRepository
	addresses  repositories.AddressRepository
	logger     *zap.Logger
}

// NewBusinessService creates a new BusinessService.
func NewBusinessService(
	businesses repositories.BusinessRepository,
	addresses repositories.AddressRepository,
	logger *zap.Logger,
) BusinessService {
	return &businessService{
		businesses: businesses,
		addresses:  addresses,
		logger:     logger.Named("business-service"),
	}
}

var _ BusinessService = (*businessService)(nil)

func (s *businessService) Create(ctx context.Context, business *models.Business) error {
	return s.businesses.Create(ctx, business)
}

func (s *businessService) Update(ctx context.Context, business *models.Business) error {
	return s.businesses.Update(ctx, business)
}

func (s *businessService) Delete(ctx context.Context, businessID int64) error {
	return s.businesses.Delete(ctx, businessID)
}

func (s *businessService) GetByID(ctx context.Context, businessID int64) (*models.Business, error) {
	business, err := s.businesses.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	s.attachAddress(ctx, business)
	return business, nil
}

func (s *businessService) List(ctx context.Context, skip int) ([]*models.Business, error) {
	businesses, err := s.businesses.List(ctx, skip)
	if err != nil {
		return nil, err
	}

	for _, business := range businesses {
		s.attachAddress(ctx, business)
	}

	return businesses, nil
}

func (s *businessService) attachAddress(ctx context.Context, business *models.Business) {
	if business.AddressID == nil {
		return
	}

	address, err := s.addresses.GetByID(ctx, *business.AddressID)
	if err != nil {
		s.logger.Warn("Failed to resolve business address, omitting",
			zap.Int64("business_id", business.ID),
			zap.Int64("address_id", *business.AddressID),
			zap.Error(err))
		return
	}

	business.Address = address
}
