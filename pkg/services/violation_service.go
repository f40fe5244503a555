package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// ViolationUpdate carries a partial violation update. Nil fields are left
// unchanged.
type ViolationUpdate struct {
	Description   *string    `json:"description"`
	Status        *int       `json:"status"`
	AddressID     *int64     `json:"address_id"`
	Deadline      *string    `json:"deadline"`
	ViolationType *string    `json:"violation_type"`
	Extend        *int       `json:"extend"`
	UnitID        *int64     `json:"unit_id"`
	InspectionID  *int64     `json:"inspection_id"`
	Comment       *string    `json:"comment"`
	BusinessID    *int64     `json:"business_id"`
}

// ViolationService owns violation lifecycle rules. Derived fields (combadd,
// deadline_date) come back filled on every read.
type ViolationService interface {
	Create(ctx context.Context, violation *models.Violation, codeIDs []int64) (*models.Violation, error)
	Update(ctx context.Context, violationID int64, update *ViolationUpdate) (*models.Violation, error)
	UpdateStatus(ctx context.Context, violationID int64, status int) (*models.Violation, error)
	Delete(ctx context.Context, violationID int64) error
	GetByID(ctx context.Context, violationID int64) (*models.Violation, error)
	List(ctx context.Context, skip int) ([]*models.Violation, error)
	ListByAddress(ctx context.Context, addressID int64) ([]*models.Violation, error)
	Search(ctx context.Context, query string) ([]*models.Violation, error)
}

type violationService struct {
	violations repositories.ViolationRepository
	logger     *zap.Logger
}

// NewViolationService creates a new ViolationService.
func NewViolationService(violations repositories.ViolationRepository, logger *zap.Logger) ViolationService {
	return &violationService{
		violations: violations,
		logger:     logger.Named("violation-service"),
	}
}

var _ ViolationService = (*violationService)(nil)

func (s *violationService) Create(ctx context.Context, violation *models.Violation, codeIDs []int64) (*models.Violation, error) {
	if violation.Deadline == "" {
		violation.Deadline = models.DeadlineOptions[0]
	}

	if err := s.violations.Create(ctx, violation, codeIDs); err != nil {
		return nil, err
	}

	// Re-read so the response carries the address join and code list.
	return s.violations.GetByID(ctx, violation.ID)
}

func (s *violationService) Update(ctx context.Context, violationID int64, update *ViolationUpdate) (*models.Violation, error) {
	violation, err := s.violations.GetByID(ctx, violationID)
	if err != nil {
		return nil, err
	}

	if update.Description != nil {
		violation.Description = update.Description
	}
	if update.Status != nil {
		violation.Status = *update.Status
		if *update.Status == models.ViolationStatusResolved && violation.ClosedAt == nil {
			now := time.Now()
			violation.ClosedAt = &now
		}
	}
	if update.AddressID != nil {
		violation.AddressID = *update.AddressID
	}
	if update.Deadline != nil {
		violation.Deadline = *update.Deadline
	}
	if update.ViolationType != nil {
		violation.ViolationType = *update.ViolationType
	}
	if update.Extend != nil {
		violation.Extend = *update.Extend
	}
	if update.UnitID != nil {
		violation.UnitID = update.UnitID
	}
	if update.InspectionID != nil {
		violation.InspectionID = update.InspectionID
	}
	if update.Comment != nil {
		violation.Comment = update.Comment
	}
	if update.BusinessID != nil {
		violation.BusinessID = update.BusinessID
	}

	if err := s.violations.Update(ctx, violation); err != nil {
		return nil, err
	}

	return s.violations.GetByID(ctx, violationID)
}

func (s *violationService) UpdateStatus(ctx context.Context, violationID int64, status int) (*models.Violation, error) {
	return s.violations.UpdateStatus(ctx, violationID, status)
}

func (s *violationService) Delete(ctx context.Context, violationID int64) error {
	return s.violations.Delete(ctx, violationID)
}

func (s *violationService) GetByID(ctx context.Context, violationID int64) (*models.Violation, error) {
	return s.violations.GetByID(ctx, violationID)
}

func (s *violationService) List(ctx context.Context, skip int) ([]*models.Violation, error) {
	return s.violations.List(ctx, skip)
}

func (s *violationService) ListByAddress(ctx context.Context, addressID int64) ([]*models.Violation, error) {
	return s.violations.ListByAddress(ctx, addressID)
}

func (s *violationService) Search(ctx context.Context, query string) ([]*models.Violation, error) {
	return s.violations.Search(ctx, query)
}
