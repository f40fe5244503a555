package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// mockTemplateRepo implements repositories.TemplateRepository for handler
// tests.
type mockTemplateRepo struct {
	templates []*models.DocumentTemplate
	err       error
}

func (m *mockTemplateRepo) Create(ctx context.Context, template *models.DocumentTemplate) error {
	if m.err != nil {
		return m.err
	}
	template.ID = int64(len(m.templates) + 1)
	m.templates = append(m.templates, template)
	return nil
}

func (m *mockTemplateRepo) GetByID(ctx context.Context, templateID int64) (*models.DocumentTemplate, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, t := range m.templates {
		if t.ID == templateID {
			return t, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockTemplateRepo) List(ctx context.Context, category string) ([]*models.DocumentTemplate, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*models.DocumentTemplate{}
	for _, t := range m.templates {
		if category == "" || t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTemplateRepo) Delete(ctx context.Context, templateID int64) error {
	for i, t := range m.templates {
		if t.ID == templateID {
			m.templates = append(m.templates[:i], m.templates[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

var _ repositories.TemplateRepository = (*mockTemplateRepo)(nil)

func templateUploadRequest(t *testing.T, filename, category string, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("PK\x03\x04docxbytes"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("category", category))
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/templates/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestTemplateHandler_Upload(t *testing.T) {
	repo := &mockTemplateRepo{}
	handler := NewTemplateHandler(repo, zap.NewNop())

	req := templateUploadRequest(t, "notice.docx", "violation", nil)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.DocumentTemplate
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "notice", created.Name)
	assert.Equal(t, "violation", created.Category)
	assert.Equal(t, "notice.docx", created.Filename)
	require.Len(t, repo.templates, 1)
}

func TestTemplateHandler_Upload_InvalidCategory400s(t *testing.T) {
	handler := NewTemplateHandler(&mockTemplateRepo{}, zap.NewNop())

	req := templateUploadRequest(t, "notice.docx", "parking", nil)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "invalid_category", response["error"])
}

func TestTemplateHandler_Upload_RejectsNonDocx(t *testing.T) {
	handler := NewTemplateHandler(&mockTemplateRepo{}, zap.NewNop())

	req := templateUploadRequest(t, "notice.pdf", "violation", nil)
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, "invalid_file_type", response["error"])
}

func TestTemplateHandler_Upload_StripsPathFromFilename(t *testing.T) {
	repo := &mockTemplateRepo{}
	handler := NewTemplateHandler(repo, zap.NewNop())

	req := templateUploadRequest(t, `..\..\evil notice.docx`, "license", map[string]string{"name": "License Notice"})
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.templates, 1)
	assert.Equal(t, "evil_notice.docx", repo.templates[0].Filename)
	assert.Equal(t, "License Notice", repo.templates[0].Name)
}

func TestTemplateHandler_Upload_InvalidLicenseType400s(t *testing.T) {
	handler := NewTemplateHandler(&mockTemplateRepo{}, zap.NewNop())

	req := templateUploadRequest(t, "notice.docx", "license", map[string]string{"license_type": "business"})
	rec := httptest.NewRecorder()

	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTemplateHandler_List_InvalidCategory400s(t *testing.T) {
	handler := NewTemplateHandler(&mockTemplateRepo{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/templates/?category=parking", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTemplateHandler_Download_SetsAttachmentHeaders(t *testing.T) {
	repo := &mockTemplateRepo{templates: []*models.DocumentTemplate{
		{ID: 1, Name: "notice", Filename: "notice.docx", Content: []byte("docxbytes")},
	}}
	handler := NewTemplateHandler(repo, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/templates/1/download", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()

	handler.Download(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="notice.docx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "docxbytes", rec.Body.String())
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "notice.docx", want: "notice.docx"},
		{in: "../../etc/passwd.docx", want: "passwd.docx"},
		{in: `C:\Users\clerk\notice.docx`, want: "notice.docx"},
		{in: "my notice (final).docx", want: "my_notice__final_.docx"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in))
	}
}
