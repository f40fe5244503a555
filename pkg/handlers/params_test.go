package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseID_RejectsNonNumeric(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/addresses/abc", nil)
	req.SetPathValue("id", "abc")
	rec := httptest.NewRecorder()

	_, ok := ParseID(rec, req, zap.NewNop())

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseID_RejectsNonPositive(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/addresses/0", nil)
	req.SetPathValue("id", "0")
	rec := httptest.NewRecorder()

	_, ok := ParseID(rec, req, zap.NewNop())

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseSkip(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "absent", query: "", want: 0},
		{name: "valid", query: "skip=25", want: 25},
		{name: "malformed", query: "skip=banana", want: 0},
		{name: "negative", query: "skip=-5", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/comments/?"+tt.query, nil)
			assert.Equal(t, tt.want, ParseSkip(req))
		})
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "absent falls back to default", query: "", want: 100},
		{name: "valid", query: "limit=10", want: 10},
		{name: "malformed falls back to default", query: "limit=x", want: 100},
		{name: "negative falls back to default", query: "limit=-1", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/comments/?"+tt.query, nil)
			assert.Equal(t, tt.want, ParseLimit(req, 100))
		})
	}
}
