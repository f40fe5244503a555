package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/auth"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

// authedRequest builds a request whose context carries the given user id,
// the way the auth middleware would.
func authedRequest(method, target string, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(auth.WithUserID(req.Context(), userID))
}

func TestNotificationHandler_Get_OtherUsersRow404s(t *testing.T) {
	svc := &mockNotificationService{notifications: []*models.Notification{
		{ID: 5, Title: "Inspection scheduled", UserID: 2},
	}}
	handler := NewNotificationHandler(svc, zap.NewNop())

	req := authedRequest(http.MethodGet, "/notifications/5", 1)
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationHandler_Get_NoUserInContext401s(t *testing.T) {
	handler := NewNotificationHandler(&mockNotificationService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/notifications/5", nil)
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestNotificationHandler_List_ScopedToCaller(t *testing.T) {
	svc := &mockNotificationService{notifications: []*models.Notification{
		{ID: 1, UserID: 1},
		{ID: 2, UserID: 2},
		{ID: 3, UserID: 1},
	}}
	handler := NewNotificationHandler(svc, zap.NewNop())

	req := authedRequest(http.MethodGet, "/notifications/", 1)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var results []*models.Notification
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&results))
	assert.Len(t, results, 2)
}

func TestNotificationHandler_MarkAllRead_ReportsUpdatedCount(t *testing.T) {
	svc := &mockNotificationService{notifications: []*models.Notification{
		{ID: 1, UserID: 1},
		{ID: 2, UserID: 1, Read: true},
		{ID: 3, UserID: 1},
	}}
	handler := NewNotificationHandler(svc, zap.NewNop())

	req := authedRequest(http.MethodPatch, "/notifications/read-all", 1)
	rec := httptest.NewRecorder()

	handler.MarkAllRead(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response MarkAllReadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, int64(2), response.Updated)
}

func TestNotificationHandler_Delete(t *testing.T) {
	svc := &mockNotificationService{notifications: []*models.Notification{
		{ID: 9, UserID: 1},
	}}
	handler := NewNotificationHandler(svc, zap.NewNop())

	req := authedRequest(http.MethodDelete, "/notifications/9", 1)
	req.SetPathValue("id", "9")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, svc.notifications)
}
