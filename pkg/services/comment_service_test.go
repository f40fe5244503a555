package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"no mentions", "roof is collapsing", nil},
		{"single", "ping @jsmith about this", []string{"jsmith"}},
		{"multiple", "@jsmith and @mlopez please review", []string{"jsmith", "mlopez"}},
		{"dedup and case", "@JSmith again @jsmith", []string{"jsmith"}},
		{"dotted", "cc @j.smith-jr", []string{"j.smith-jr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMentions(tt.content))
		})
	}
}

func TestCreateCommentAlertsMentionedUsers(t *testing.T) {
	author := &models.User{ID: 1, Email: "author@town.gov"}
	mentioned := &models.User{ID: 2, Email: "jsmith@town.gov"}
	bystander := &models.User{ID: 3, Email: "other@town.gov"}

	users := &mockUserRepo{users: []*models.User{author, mentioned, bystander}}
	notifications := &mockNotificationRepo{}
	subs := &mockPushRepo{subs: []*models.PushSubscription{
		{ID: 10, UserID: 2, Endpoint: "https://push.example/ep1"},
	}}
	sender := &mockPushSender{enabled: true}
	comments := &mockCommentRepo{}

	svc := NewCommentService(comments, &mockContactRepo{}, users, notifications, subs, sender, zap.NewNop())

	created, err := svc.Create(context.Background(), &models.Comment{
		Content:   "leaking pipe, @jsmith take a look",
		AddressID: 42,
		UserID:    1,
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	require.Len(t, notifications.created, 1)
	assert.Equal(t, int64(2), notifications.created[0].UserID)
	assert.Equal(t, "You were mentioned in a comment", notifications.created[0].Title)

	assert.Equal(t, []string{"https://push.example/ep1"}, sender.sent)
}

func TestCreateCommentDoesNotAlertAuthor(t *testing.T) {
	author := &models.User{ID: 1, Email: "jsmith@town.gov"}
	users := &mockUserRepo{users: []*models.User{author}}
	notifications := &mockNotificationRepo{}
	sender := &mockPushSender{enabled: true}

	svc := NewCommentService(&mockCommentRepo{}, &mockContactRepo{}, users, notifications, &mockPushRepo{}, sender, zap.NewNop())

	_, err := svc.Create(context.Background(), &models.Comment{
		Content: "note to self @jsmith",
		UserID:  1,
	})
	require.NoError(t, err)
	assert.Empty(t, notifications.created)
}

func TestCreateCommentPrunesDeadSubscription(t *testing.T) {
	mentioned := &models.User{ID: 2, Email: "jsmith@town.gov"}
	users := &mockUserRepo{users: []*models.User{mentioned}}
	subs := &mockPushRepo{subs: []*models.PushSubscription{
		{ID: 10, UserID: 2, Endpoint: "https://push.example/gone"},
	}}
	sender := &mockPushSender{enabled: true, goneEndpoint: "https://push.example/gone"}

	svc := NewCommentService(&mockCommentRepo{}, &mockContactRepo{}, users, &mockNotificationRepo{}, subs, sender, zap.NewNop())

	_, err := svc.Create(context.Background(), &models.Comment{
		Content: "hey @jsmith",
		UserID:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, subs.pruned)
}

func TestListByContactRequiresContact(t *testing.T) {
	svc := NewCommentService(&mockCommentRepo{}, &mockContactRepo{}, &mockUserRepo{}, &mockNotificationRepo{}, &mockPushRepo{}, &mockPushSender{}, zap.NewNop())

	_, err := svc.ListByContact(context.Background(), 99)
	assert.Error(t, err)
}
