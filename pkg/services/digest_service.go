package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/mailer"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// DigestService assembles and sends the weekday morning summary email to
// every digest-recipient user.
type DigestService interface {
	Run(ctx context.Context) error
}

type digestService struct {
	stats  repositories.StatsRepository
	users  repositories.UserRepository
	mail   mailer.Mailer
	logger *zap.Logger
}

// NewDigestService creates a new DigestService.
func NewDigestService(
	stats repositories.StatsRepository,
	users repositories.UserRepository,
	mail mailer.Mailer,
	logger *zap.Logger,
) DigestService {
	return &digestService{
		stats:  stats,
		users:  users,
		mail:   mail,
		logger: logger.Named("digest-service"),
	}
}

var _ DigestService = (*digestService)(nil)

func (s *digestService) Run(ctx context.Context) error {
	if !s.mail.Enabled() {
		s.logger.Info("Mail disabled, skipping digest")
		return nil
	}

	recipients, err := s.users.ListByRole(ctx, models.RoleDigestRecipient)
	if err != nil {
		return fmt.Errorf("failed to load digest recipients: %w", err)
	}
	if len(recipients) == 0 {
		s.logger.Info("No digest recipients configured")
		return nil
	}

	stats, err := s.stats.DashboardStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to gather digest stats: %w", err)
	}

	subject := fmt.Sprintf("Code enforcement digest for %s", time.Now().Format("Monday, January 2"))
	body := DigestBody(stats)

	sent := 0
	for _, user := range recipients {
		if err := s.mail.Send(user.Email, subject, body, ""); err != nil {
			s.logger.Warn("Failed to send digest", zap.String("email", user.Email), zap.Error(err))
			continue
		}
		sent++
	}

	s.logger.Info("Digest sent", zap.Int("recipients", sent))
	return nil
}

// DigestBody renders the plain-text digest.
func DigestBody(stats *models.DashboardStats) string {
	lines := []string{
		"Good morning. Here is where things stand:",
		"",
		countLine(stats.OpenViolations, "open violation"),
		countLine(stats.PendingInspections, "pending inspection"),
		countLine(stats.UnresolvedComplaints, "unresolved complaint"),
		countLine(stats.ActiveLicenses, "active license"),
	}
	return strings.Join(lines, "\n")
}

func countLine(count int64, noun string) string {
	if count != 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("- %d %s", count, noun)
}
