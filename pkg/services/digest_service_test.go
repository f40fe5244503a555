package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
)

func TestDigestBodyPluralizes(t *testing.T) {
	body := DigestBody(&models.DashboardStats{
		OpenViolations:       1,
		PendingInspections:   0,
		UnresolvedComplaints: 3,
		ActiveLicenses:       1,
	})

	assert.Contains(t, body, "- 1 open violation\n")
	assert.Contains(t, body, "- 0 pending inspections\n")
	assert.Contains(t, body, "- 3 unresolved complaints\n")
	assert.Contains(t, body, "- 1 active license")
	assert.NotContains(t, body, "violationss")
}

func TestDigestSendsToRecipientsOnly(t *testing.T) {
	users := &mockUserRepo{users: []*models.User{
		{ID: 1, Email: "chief@town.gov", Role: models.RoleDigestRecipient},
		{ID: 2, Email: "clerk@town.gov", Role: 2},
		{ID: 3, Email: "deputy@town.gov", Role: models.RoleDigestRecipient},
	}}
	stats := &mockStatsRepo{stats: &models.DashboardStats{OpenViolations: 2}}
	mail := &mockMailer{enabled: true}

	svc := NewDigestService(stats, users, mail, zap.NewNop())
	require.NoError(t, svc.Run(context.Background()))

	assert.Equal(t, []string{"chief@town.gov", "deputy@town.gov"}, mail.sent)
}

func TestDigestSkipsWhenMailDisabled(t *testing.T) {
	users := &mockUserRepo{users: []*models.User{
		{ID: 1, Email: "chief@town.gov", Role: models.RoleDigestRecipient},
	}}
	mail := &mockMailer{enabled: false}

	svc := NewDigestService(&mockStatsRepo{}, users, mail, zap.NewNop())
	require.NoError(t, svc.Run(context.Background()))

	assert.Empty(t, mail.sent)
}
