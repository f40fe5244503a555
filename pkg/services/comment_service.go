package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/push"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

var mentionPattern = regexp.MustCompile(`@([A-Za-z0-9._-]+)`)

// ExtractMentions returns the unique @mention tokens in a comment body, in
// order of first appearance.
func ExtractMentions(content string) []string {
	seen := map[string]bool{}
	var mentions []string
	for _, match := range mentionPattern.FindAllStringSubmatch(content, -1) {
		token := strings.ToLower(match[1])
		if !seen[token] {
			seen[token] = true
			mentions = append(mentions, token)
		}
	}
	return mentions
}

// CommentService manages address comments and contact comments. Creating a
// comment scans the body for @mentions and alerts the mentioned users via
// in-app notification and browser push; alert failures never fail the
// comment write.
type CommentService interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Update(ctx context.Context, commentID int64, content string, unitID *int64) (*models.Comment, error)
	Delete(ctx context.Context, commentID int64) error
	GetByID(ctx context.Context, commentID int64) (*models.Comment, error)
	List(ctx context.Context, skip, limit int) ([]*models.Comment, error)
	ListByAddress(ctx context.Context, addressID int64) ([]*models.Comment, error)
	ListByUnit(ctx context.Context, unitID int64) ([]*models.Comment, error)

	// ListByContact 404s when the contact itself is missing, unlike the
	// address listing which tolerates an absent parent.
	ListByContact(ctx context.Context, contactID int64) ([]*models.ContactComment, error)
	CreateContactComment(ctx context.Context, comment *models.ContactComment) (*models.ContactComment, error)
}

type commentService struct {
	comments      repositories.CommentRepository
	contacts      repositories.ContactRepository
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	subscriptions repositories.PushSubscriptionRepository
	pusher        push.Sender
	logger        *zap.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	comments repositories.CommentRepository,
	contacts repositories.ContactRepository,
	users repositories.UserRepository,
	notifications repositories.NotificationRepository,
	subscriptions repositories.PushSubscriptionRepository,
	pusher push.Sender,
	logger *zap.Logger,
) CommentService {
	return &commentService{
		comments:      comments,
		contacts:      contacts,
		users:         users,
		notifications: notifications,
		subscriptions: subscriptions,
		pusher:        pusher,
		logger:        logger.Named("comment-service"),
	}
}

var _ CommentService = (*commentService)(nil)

func (s *commentService) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.alertMentionedUsers(ctx, comment)

	return s.comments.GetByID(ctx, comment.ID)
}

// alertMentionedUsers matches @tokens against user names and email local
// parts, case-insensitively.
func (s *commentService) alertMentionedUsers(ctx context.Context, comment *models.Comment) {
	mentions := ExtractMentions(comment.Content)
	if len(mentions) == 0 {
		return
	}

	users, err := s.users.List(ctx, 0)
	if err != nil {
		s.logger.Warn("Failed to load users for mention scan", zap.Error(err))
		return
	}

	mentioned := map[string]bool{}
	for _, token := range mentions {
		mentioned[token] = true
	}

	for _, user := range users {
		if user.ID == comment.UserID || !matchesMention(user, mentioned) {
			continue
		}

		notification := &models.Notification{
			Title:  "You were mentioned in a comment",
			Body:   comment.Content,
			UserID: user.ID,
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			s.logger.Warn("Failed to create mention notification",
				zap.Int64("user_id", user.ID), zap.Error(err))
			continue
		}

		s.pushToUser(ctx, user.ID, push.Payload{
			Title: notification.Title,
			Body:  notification.Body,
			URL:   fmt.Sprintf("/addresses/%d", comment.AddressID),
		})
	}
}

func matchesMention(user *models.User, mentioned map[string]bool) bool {
	if local, _, found := strings.Cut(user.Email, "@"); found && mentioned[strings.ToLower(local)] {
		return true
	}
	if user.Name != nil {
		name := strings.ToLower(strings.ReplaceAll(*user.Name, " ", ""))
		if mentioned[name] {
			return true
		}
	}
	return false
}

func (s *commentService) pushToUser(ctx context.Context, userID int64, payload push.Payload) {
	if !s.pusher.Enabled() {
		return
	}

	subs, err := s.subscriptions.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load push subscriptions", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	for _, sub := range subs {
		err := s.pusher.Send(ctx, sub, payload)
		if errors.Is(err, push.ErrSubscriptionGone) {
			if err := s.subscriptions.DeleteByID(ctx, sub.ID); err != nil {
				s.logger.Warn("Failed to prune dead push subscription",
					zap.Int64("subscription_id", sub.ID), zap.Error(err))
			}
			continue
		}
		if err != nil {
			s.logger.Warn("Failed to send push notification",
				zap.Int64("subscription_id", sub.ID), zap.Error(err))
		}
	}
}

func (s *commentService) Update(ctx context.Context, commentID int64, content string, unitID *int64) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	if unitID != nil {
		comment.UnitID = unitID
	}

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.comments.GetByID(ctx, commentID)
}

func (s *commentService) Delete(ctx context.Context, commentID int64) error {
	return s.comments.Delete(ctx, commentID)
}

func (s *commentService) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	return s.comments.GetByID(ctx, commentID)
}

func (s *commentService) List(ctx context.Context, skip, limit int) ([]*models.Comment, error) {
	return s.comments.List(ctx, skip, limit)
}

func (s *commentService) ListByAddress(ctx context.Context, addressID int64) ([]*models.Comment, error) {
	return s.comments.ListByAddress(ctx, addressID)
}

func (s *commentService) ListByUnit(ctx context.Context, unitID int64) ([]*models.Comment, error) {
	return s.comments.ListByUnit(ctx, unitID)
}

func (s *commentService) ListByContact(ctx context.Context, contactID int64) ([]*models.ContactComment, error) {
	if _, err := s.contacts.GetByID(ctx, contactID); err != nil {
		return nil, err
	}
	return s.comments.ListByContact(ctx, contactID)
}

func (s *commentService) CreateContactComment(ctx context.Context, comment *models.ContactComment) (*models.ContactComment, error) {
	if _, err := s.contacts.GetByID(ctx, comment.ContactID); err != nil {
		return nil, err
	}
	if err := s.comments.CreateContactComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
