package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
)

func TestPermitHandler_Create_New201s(t *testing.T) {
	handler := NewPermitHandler(&mockPermitService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/permits/", jsonBody(`{"inspection_id":4}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var permit models.Permit
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&permit))
	assert.NotZero(t, permit.ID)
	assert.Equal(t, int64(4), permit.InspectionID)
}

func TestPermitHandler_Create_ExistingReturns200(t *testing.T) {
	svc := &mockPermitService{permits: []*models.Permit{{ID: 9, InspectionID: 4}}}
	handler := NewPermitHandler(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/permits/", jsonBody(`{"inspection_id":4}`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var permit models.Permit
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&permit))
	assert.Equal(t, int64(9), permit.ID)
	require.Len(t, svc.permits, 1)
}

func TestPermitHandler_List_InvalidInspectionID400s(t *testing.T) {
	handler := NewPermitHandler(&mockPermitService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/permits/?inspection_id=abc", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "invalid_inspection_id", response["error"])
}

func TestPermitHandler_Get_NotFound(t *testing.T) {
	handler := NewPermitHandler(&mockPermitService{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/permits/3", nil)
	req.SetPathValue("id", "3")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
