package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/models"
)

func TestViolationHandler_Create_PassesCodeIDs(t *testing.T) {
	svc := &mockViolationService{}
	handler := NewViolationHandler(svc, &mockCitationRepo{}, zap.NewNop())

	body := `{"address_id":3,"user_id":1,"violation_type":"doorhanger","code_ids":[4,5]}`
	req := httptest.NewRequest(http.MethodPost, "/violations/", jsonBody(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var violation models.Violation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&violation))
	assert.Equal(t, int64(3), violation.AddressID)
	assert.NotZero(t, violation.ID)
}

func TestViolationHandler_Delete_ConflictMapsTo400(t *testing.T) {
	svc := &mockViolationService{deleteErr: apperrors.ErrConflict}
	handler := NewViolationHandler(svc, &mockCitationRepo{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/violations/5", nil)
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "violation_in_use", response["error"])
}

func TestViolationHandler_Delete_MissingViolation404s(t *testing.T) {
	handler := NewViolationHandler(&mockViolationService{}, &mockCitationRepo{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodDelete, "/violations/5", nil)
	req.SetPathValue("id", "5")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViolationHandler_ListByAddress_MissingAddressReturnsEmptyList(t *testing.T) {
	handler := NewViolationHandler(&mockViolationService{}, &mockCitationRepo{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/violations/address/999", nil)
	req.SetPathValue("address_id", "999")
	rec := httptest.NewRecorder()

	handler.ListByAddress(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestViolationHandler_ListCitations_EmptyReturns200(t *testing.T) {
	handler := NewViolationHandler(&mockViolationService{}, &mockCitationRepo{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/violation/8/citations", nil)
	req.SetPathValue("id", "8")
	rec := httptest.NewRecorder()

	handler.ListCitations(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestViolationHandler_ListCitations_FiltersByViolation(t *testing.T) {
	citations := &mockCitationRepo{citations: []*models.Citation{
		{ID: 1, ViolationID: 8},
		{ID: 2, ViolationID: 9},
	}}
	handler := NewViolationHandler(&mockViolationService{}, citations, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/violation/8/citations", nil)
	req.SetPathValue("id", "8")
	rec := httptest.NewRecorder()

	handler.ListCitations(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var results []*models.Citation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&results))
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ID)
}

func TestViolationHandler_UpdateStatus(t *testing.T) {
	svc := &mockViolationService{violations: []*models.Violation{{ID: 4, Status: models.ViolationStatusCurrent}}}
	handler := NewViolationHandler(svc, &mockCitationRepo{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPatch, "/violation/4/status", jsonBody(`{"status":1}`))
	req.SetPathValue("id", "4")
	rec := httptest.NewRecorder()

	handler.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var violation models.Violation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&violation))
	assert.Equal(t, models.ViolationStatusResolved, violation.Status)
}
