package services

import (
	"context"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// NotificationService manages a user's in-app notifications. Every read and
// write is scoped to the calling user; rows owned by someone else are not
// found. Creation validates the referenced inspection and user, and only
// allows creating notifications for oneself.
type NotificationService interface {
	Create(ctx context.Context, callerID int64, notification *models.Notification) error
	GetByID(ctx context.Context, callerID, notificationID int64) (*models.Notification, error)
	List(ctx context.Context, callerID int64, skip int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, callerID, notificationID int64) (*models.Notification, error)
	MarkAllRead(ctx context.Context, callerID int64) (int64, error)
	Delete(ctx context.Context, callerID, notificationID int64) error
}

type notificationService struct {
	notifications repositories.NotificationRepository
	inspections   repositories.InspectionRepository
	users         repositories.UserRepository
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	notifications repositories.NotificationRepository,
	inspections repositories.InspectionRepository,
	users repositories.UserRepository,
) NotificationService {
	return &notificationService{
		notifications: notifications,
		inspections:   inspections,
		users:         users,
	}
}

var _ NotificationService = (*notificationService)(nil)

func (s *notificationService) Create(ctx context.Context, callerID int64, notification *models.Notification) error {
	if notification.InspectionID != nil {
		if _, err := s.inspections.GetByID(ctx, *notification.InspectionID); err != nil {
			return err
		}
	}
	if _, err := s.users.GetByID(ctx, notification.UserID); err != nil {
		return err
	}
	if notification.UserID != callerID {
		return apperrors.ErrForbidden
	}

	return s.notifications.Create(ctx, notification)
}

func (s *notificationService) GetByID(ctx context.Context, callerID, notificationID int64) (*models.Notification, error) {
	return s.notifications.GetForUser(ctx, notificationID, callerID)
}

func (s *notificationService) List(ctx context.Context, callerID int64, skip int) ([]*models.Notification, error) {
	return s.notifications.ListForUser(ctx, callerID, skip)
}

func (s *notificationService) MarkRead(ctx context.Context, callerID, notificationID int64) (*models.Notification, error) {
	return s.notifications.MarkRead(ctx, notificationID, callerID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, callerID int64) (int64, error) {
	return s.notifications.MarkAllRead(ctx, callerID)
}

func (s *notificationService) Delete(ctx context.Context, callerID, notificationID int64) error {
	return s.notifications.DeleteForUser(ctx, notificationID, callerID)
}
