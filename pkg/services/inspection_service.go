package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/mailer"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// InspectionUpdate carries a partial inspection update. Nil fields are left
// unchanged.
type InspectionUpdate struct {
	Source            *string    `json:"source"`
	Status            *string    `json:"status"`
	Result            *string    `json:"result"`
	Description       *string    `json:"description"`
	Thoughts          *string    `json:"thoughts"`
	Originator        *string    `json:"originator"`
	UnitID            *int64     `json:"unit_id"`
	Assignee          *string    `json:"assignee"`
	InspectorID       *int64     `json:"inspector_id"`
	Name              *string    `json:"name"`
	Email             *string    `json:"email"`
	Phone             *string    `json:"phone"`
	ScheduledDatetime *time.Time `json:"scheduled_datetime"`
	ContactID         *int64     `json:"contact_id"`
	Confirmed         *bool      `json:"confirmed"`
	BusinessID        *int64     `json:"business_id"`
	StartTime         *time.Time `json:"start_time"`
	Paid              *bool      `json:"paid"`
}

// InspectionService manages inspections, complaints included. New inspections
// with an assignee trigger a notification email when mail is configured.
type InspectionService interface {
	Create(ctx context.Context, inspection *models.Inspection) error
	Update(ctx context.Context, inspectionID int64, update *InspectionUpdate) (*models.Inspection, error)
	UpdateStatus(ctx context.Context, inspectionID int64, status string) (*models.Inspection, error)
	Delete(ctx context.Context, inspectionID int64) error
	GetByID(ctx context.Context, inspectionID int64) (*models.Inspection, error)
	List(ctx context.Context, filter repositories.InspectionFilter, skip int) ([]*models.Inspection, error)
	ListByAddress(ctx context.Context, addressID int64, source string) ([]*models.Inspection, error)
	ListCodes(ctx context.Context, inspectionID int64) ([]*models.Code, error)
	ReplaceCodes(ctx context.Context, inspectionID int64, codeIDs []int64) ([]*models.Code, error)
}

type inspectionService struct {
	inspections repositories.InspectionRepository
	addresses   repositories.AddressRepository
	users       repositories.UserRepository
	mail        mailer.Mailer
	logger      *zap.Logger
}

// NewInspectionService creates a new InspectionService.
func NewInspectionService(
	inspections repositories.InspectionRepository,
	addresses repositories.AddressRepository,
	users repositories.UserRepository,
	mail mailer.Mailer,
	logger *zap.Logger,
) InspectionService {
	return &inspectionService{
		inspections: inspections,
		addresses:   addresses,
		users:       users,
		mail:        mail,
		logger:      logger.Named("inspection-service"),
	}
}

var _ InspectionService = (*inspectionService)(nil)

func (s *inspectionService) Create(ctx context.Context, inspection *models.Inspection) error {
	if _, err := s.addresses.GetByID(ctx, inspection.AddressID); err != nil {
		return err
	}

	if err := s.inspections.Create(ctx, inspection); err != nil {
		return err
	}

	s.notifyAssignee(ctx, inspection)
	return nil
}

// notifyAssignee emails the assigned inspector about the new inspection.
// Assignee is stored as an email address; failures only log.
func (s *inspectionService) notifyAssignee(ctx context.Context, inspection *models.Inspection) {
	if inspection.Assignee == nil || *inspection.Assignee == "" || !s.mail.Enabled() {
		return
	}

	where := fmt.Sprintf("address %d", inspection.AddressID)
	if address, err := s.addresses.GetByID(ctx, inspection.AddressID); err == nil && address.Combadd != nil {
		where = *address.Combadd
	}

	source := "inspection"
	if inspection.Source != nil {
		source = *inspection.Source
	}

	subject := fmt.Sprintf("New %s assigned at %s", source, where)
	body := fmt.Sprintf("A new %s has been assigned to you at %s.", source, where)

	if err := s.mail.Send(*inspection.Assignee, subject, body, ""); err != nil {
		s.logger.Warn("Failed to send inspection assignment email",
			zap.Int64("inspection_id", inspection.ID), zap.Error(err))
	}
}

func (s *inspectionService) Update(ctx context.Context, inspectionID int64, update *InspectionUpdate) (*models.Inspection, error) {
	inspection, err := s.inspections.GetByID(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	if update.Source != nil {
		inspection.Source = update.Source
	}
	if update.Status != nil {
		inspection.Status = update.Status
	}
	if update.Result != nil {
		inspection.Result = update.Result
	}
	if update.Description != nil {
		inspection.Description = update.Description
	}
	if update.Thoughts != nil {
		inspection.Thoughts = update.Thoughts
	}
	if update.Originator != nil {
		inspection.Originator = update.Originator
	}
	if update.UnitID != nil {
		inspection.UnitID = update.UnitID
	}
	if update.Assignee != nil {
		inspection.Assignee = update.Assignee
	}
	if update.InspectorID != nil {
		inspection.InspectorID = update.InspectorID
	}
	if update.Name != nil {
		inspection.Name = update.Name
	}
	if update.Email != nil {
		inspection.Email = update.Email
	}
	if update.Phone != nil {
		inspection.Phone = update.Phone
	}
	if update.ScheduledDatetime != nil {
		inspection.ScheduledDatetime = update.ScheduledDatetime
	}
	if update.ContactID != nil {
		inspection.ContactID = update.ContactID
	}
	if update.Confirmed != nil {
		inspection.Confirmed = *update.Confirmed
	}
	if update.BusinessID != nil {
		inspection.BusinessID = update.BusinessID
	}
	if update.StartTime != nil {
		inspection.StartTime = update.StartTime
	}
	if update.Paid != nil {
		inspection.Paid = *update.Paid
	}

	if err := s.inspections.Update(ctx, inspection); err != nil {
		return nil, err
	}

	return inspection, nil
}

func (s *inspectionService) UpdateStatus(ctx context.Context, inspectionID int64, status string) (*models.Inspection, error) {
	return s.inspections.UpdateStatus(ctx, inspectionID, status)
}

func (s *inspectionService) Delete(ctx context.Context, inspectionID int64) error {
	return s.inspections.Delete(ctx, inspectionID)
}

func (s *inspectionService) GetByID(ctx context.Context, inspectionID int64) (*models.Inspection, error) {
	return s.inspections.GetByID(ctx, inspectionID)
}

func (s *inspectionService) List(ctx context.Context, filter repositories.InspectionFilter, skip int) ([]*models.Inspection, error) {
	return s.inspections.List(ctx, filter, skip)
}

func (s *inspectionService) ListByAddress(ctx context.Context, addressID int64, source string) ([]*models.Inspection, error) {
	return s.inspections.ListByAddress(ctx, addressID, source)
}

func (s *inspectionService) ListCodes(ctx context.Context, inspectionID int64) ([]*models.Code, error) {
	if _, err := s.inspections.GetByID(ctx, inspectionID); err != nil {
		return nil, err
	}
	return s.inspections.ListCodes(ctx, inspectionID)
}

func (s *inspectionService) ReplaceCodes(ctx context.Context, inspectionID int64, codeIDs []int64) ([]*models.Code, error) {
	if _, err := s.inspections.GetByID(ctx, inspectionID); err != nil {
		return nil, err
	}
	if err := s.inspections.ReplaceCodes(ctx, inspectionID, codeIDs); err != nil {
		return nil, err
	}
	return s.inspections.ListCodes(ctx, inspectionID)
}
