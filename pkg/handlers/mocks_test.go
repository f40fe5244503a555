package handlers

import (
	"context"
	"strings"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
	"github.com/civicodehq/civicode-engine/pkg/services"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockAddressRepo implements repositories.AddressRepository for handler tests.
type mockAddressRepo struct {
	addresses []*models.Address
	units     []*models.Unit
	err       error
}

func (m *mockAddressRepo) Create(ctx context.Context, address *models.Address) error {
	if m.err != nil {
		return m.err
	}
	address.ID = int64(len(m.addresses) + 1)
	m.addresses = append(m.addresses, address)
	return nil
}

func (m *mockAddressRepo) Update(ctx context.Context, address *models.Address) error {
	return m.err
}

func (m *mockAddressRepo) Delete(ctx context.Context, addressID int64) error {
	if m.err != nil {
		return m.err
	}
	for i, a := range m.addresses {
		if a.ID == addressID {
			m.addresses = append(m.addresses[:i], m.addresses[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockAddressRepo) GetByID(ctx context.Context, addressID int64) (*models.Address, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.addresses {
		if a.ID == addressID {
			return a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockAddressRepo) List(ctx context.Context, skip int) ([]*models.Address, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.addresses, nil
}

func (m *mockAddressRepo) Search(ctx context.Context, query string, limit int) ([]*models.Address, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.addresses) > limit {
		return m.addresses[:limit], nil
	}
	return m.addresses, nil
}

func (m *mockAddressRepo) CreateUnit(ctx context.Context, unit *models.Unit) error {
	if m.err != nil {
		return m.err
	}
	unit.ID = int64(len(m.units) + 1)
	m.units = append(m.units, unit)
	return nil
}

func (m *mockAddressRepo) GetUnit(ctx context.Context, unitID int64) (*models.Unit, error) {
	for _, u := range m.units {
		if u.ID == unitID {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockAddressRepo) GetUnitUnderAddress(ctx context.Context, addressID, unitID int64) (*models.Unit, error) {
	for _, u := range m.units {
		if u.ID == unitID && u.AddressID == addressID {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockAddressRepo) ListUnits(ctx context.Context, addressID int64) ([]*models.Unit, error) {
	out := []*models.Unit{}
	for _, u := range m.units {
		if u.AddressID == addressID {
			out = append(out, u)
		}
	}
	return out, nil
}

// mockViolationService implements services.ViolationService for handler tests.
type mockViolationService struct {
	violations []*models.Violation
	deleteErr  error
	err        error
}

func (m *mockViolationService) Create(ctx context.Context, violation *models.Violation, codeIDs []int64) (*models.Violation, error) {
	if m.err != nil {
		return nil, m.err
	}
	violation.ID = int64(len(m.violations) + 1)
	m.violations = append(m.violations, violation)
	return violation, nil
}

func (m *mockViolationService) Update(ctx context.Context, violationID int64, update *services.ViolationUpdate) (*models.Violation, error) {
	return m.get(violationID)
}

func (m *mockViolationService) UpdateStatus(ctx context.Context, violationID int64, status int) (*models.Violation, error) {
	v, err := m.get(violationID)
	if err != nil {
		return nil, err
	}
	v.Status = status
	return v, nil
}

func (m *mockViolationService) Delete(ctx context.Context, violationID int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, err := m.get(violationID); err != nil {
		return err
	}
	return nil
}

func (m *mockViolationService) GetByID(ctx context.Context, violationID int64) (*models.Violation, error) {
	return m.get(violationID)
}

func (m *mockViolationService) List(ctx context.Context, skip int) ([]*models.Violation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.violations, nil
}

func (m *mockViolationService) ListByAddress(ctx context.Context, addressID int64) ([]*models.Violation, error) {
	out := []*models.Violation{}
	for _, v := range m.violations {
		if v.AddressID == addressID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockViolationService) Search(ctx context.Context, query string) ([]*models.Violation, error) {
	return m.violations, m.err
}

func (m *mockViolationService) get(violationID int64) (*models.Violation, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, v := range m.violations {
		if v.ID == violationID {
			return v, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// mockCitationRepo implements repositories.CitationRepository for handler tests.
type mockCitationRepo struct {
	citations []*models.Citation
	err       error
}

func (m *mockCitationRepo) Create(ctx context.Context, citation *models.Citation) error {
	if m.err != nil {
		return m.err
	}
	citation.ID = int64(len(m.citations) + 1)
	m.citations = append(m.citations, citation)
	return nil
}

func (m *mockCitationRepo) Update(ctx context.Context, citation *models.Citation) error {
	return m.err
}

func (m *mockCitationRepo) Delete(ctx context.Context, citationID int64) error {
	if m.err != nil {
		return m.err
	}
	for i, c := range m.citations {
		if c.ID == citationID {
			m.citations = append(m.citations[:i], m.citations[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockCitationRepo) GetByID(ctx context.Context, citationID int64) (*models.Citation, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.citations {
		if c.ID == citationID {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCitationRepo) List(ctx context.Context, skip int) ([]*models.Citation, error) {
	return m.citations, m.err
}

func (m *mockCitationRepo) ListByViolation(ctx context.Context, violationID int64) ([]*models.Citation, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*models.Citation{}
	for _, c := range m.citations {
		if c.ViolationID == violationID {
			out = append(out, c)
		}
	}
	return out, nil
}

// mockCommentService implements services.CommentService for handler tests.
type mockCommentService struct {
	comments        []*models.Comment
	contactComments []*models.ContactComment
	contactErr      error
	err             error
}

func (m *mockCommentService) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	if m.err != nil {
		return nil, m.err
	}
	comment.ID = int64(len(m.comments) + 1)
	m.comments = append(m.comments, comment)
	return comment, nil
}

func (m *mockCommentService) Update(ctx context.Context, commentID int64, content string, unitID *int64) (*models.Comment, error) {
	for _, c := range m.comments {
		if c.ID == commentID {
			c.Content = content
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCommentService) Delete(ctx context.Context, commentID int64) error {
	for i, c := range m.comments {
		if c.ID == commentID {
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockCommentService) GetByID(ctx context.Context, commentID int64) (*models.Comment, error) {
	for _, c := range m.comments {
		if c.ID == commentID {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCommentService) List(ctx context.Context, skip, limit int) ([]*models.Comment, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.comments) > limit {
		return m.comments[:limit], nil
	}
	return m.comments, nil
}

func (m *mockCommentService) ListByAddress(ctx context.Context, addressID int64) ([]*models.Comment, error) {
	out := []*models.Comment{}
	for _, c := range m.comments {
		if c.AddressID == addressID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentService) ListByUnit(ctx context.Context, unitID int64) ([]*models.Comment, error) {
	out := []*models.Comment{}
	for _, c := range m.comments {
		if c.UnitID != nil && *c.UnitID == unitID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentService) ListByContact(ctx context.Context, contactID int64) ([]*models.ContactComment, error) {
	if m.contactErr != nil {
		return nil, m.contactErr
	}
	out := []*models.ContactComment{}
	for _, c := range m.contactComments {
		if c.ContactID == contactID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCommentService) CreateContactComment(ctx context.Context, comment *models.ContactComment) (*models.ContactComment, error) {
	if m.contactErr != nil {
		return nil, m.contactErr
	}
	comment.ID = int64(len(m.contactComments) + 1)
	m.contactComments = append(m.contactComments, comment)
	return comment, nil
}

// mockPhotoService implements services.PhotoService for handler tests.
type mockPhotoService struct {
	photos   []*models.Photo
	listErr  error
	uploaded []*services.Upload
	err      error
}

func (m *mockPhotoService) ListPhotos(ctx context.Context, recordType string, recordID int64) ([]*models.Photo, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.photos, nil
}

func (m *mockPhotoService) UploadPhotos(ctx context.Context, recordType string, recordID int64, uploads []*services.Upload) ([]*models.Photo, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.uploaded = append(m.uploaded, uploads...)
	return m.photos, nil
}

// mockNotificationService implements services.NotificationService for
// handler tests.
type mockNotificationService struct {
	notifications []*models.Notification
	createErr     error
	err           error
}

func (m *mockNotificationService) Create(ctx context.Context, callerID int64, notification *models.Notification) error {
	if m.createErr != nil {
		return m.createErr
	}
	notification.ID = int64(len(m.notifications) + 1)
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *mockNotificationService) GetByID(ctx context.Context, callerID, notificationID int64) (*models.Notification, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, n := range m.notifications {
		if n.ID == notificationID && n.UserID == callerID {
			return n, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockNotificationService) List(ctx context.Context, callerID int64, skip int) ([]*models.Notification, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*models.Notification{}
	for _, n := range m.notifications {
		if n.UserID == callerID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotificationService) MarkRead(ctx context.Context, callerID, notificationID int64) (*models.Notification, error) {
	n, err := m.GetByID(ctx, callerID, notificationID)
	if err != nil {
		return nil, err
	}
	n.Read = true
	return n, nil
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context, callerID int64) (int64, error) {
	var updated int64
	for _, n := range m.notifications {
		if n.UserID == callerID && !n.Read {
			n.Read = true
			updated++
		}
	}
	return updated, m.err
}

func (m *mockNotificationService) Delete(ctx context.Context, callerID, notificationID int64) error {
	for i, n := range m.notifications {
		if n.ID == notificationID && n.UserID == callerID {
			m.notifications = append(m.notifications[:i], m.notifications[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// mockAssistantService implements services.AssistantService for handler tests.
type mockAssistantService struct {
	reply    string
	threadID string
	err      error
}

func (m *mockAssistantService) Chat(ctx context.Context, message, threadID string) (string, string, error) {
	if m.err != nil {
		return "", "", m.err
	}
	return m.reply, m.threadID, nil
}

// mockPermitService implements services.PermitService for handler tests.
type mockPermitService struct {
	permits []*models.Permit
	err     error
}

func (m *mockPermitService) Create(ctx context.Context, permit *models.Permit) (*models.Permit, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	for _, p := range m.permits {
		if p.InspectionID == permit.InspectionID {
			return p, false, nil
		}
	}
	permit.ID = int64(len(m.permits) + 1)
	m.permits = append(m.permits, permit)
	return permit, true, nil
}

func (m *mockPermitService) GetByID(ctx context.Context, permitID int64) (*models.Permit, error) {
	for _, p := range m.permits {
		if p.ID == permitID {
			return p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockPermitService) List(ctx context.Context, inspectionID int64, skip int) ([]*models.Permit, error) {
	return m.permits, m.err
}

// mockInspectionService implements services.InspectionService for handler
// tests.
type mockInspectionService struct {
	inspections []*models.Inspection
	codes       []*models.Code
	deleteErr   error
	err         error
}

func (m *mockInspectionService) Create(ctx context.Context, inspection *models.Inspection) error {
	if m.err != nil {
		return m.err
	}
	inspection.ID = int64(len(m.inspections) + 1)
	m.inspections = append(m.inspections, inspection)
	return nil
}

func (m *mockInspectionService) Update(ctx context.Context, inspectionID int64, update *services.InspectionUpdate) (*models.Inspection, error) {
	return m.get(inspectionID)
}

func (m *mockInspectionService) UpdateStatus(ctx context.Context, inspectionID int64, status string) (*models.Inspection, error) {
	i, err := m.get(inspectionID)
	if err != nil {
		return nil, err
	}
	i.Status = &status
	return i, nil
}

func (m *mockInspectionService) Delete(ctx context.Context, inspectionID int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, insp := range m.inspections {
		if insp.ID == inspectionID {
			m.inspections = append(m.inspections[:i], m.inspections[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (m *mockInspectionService) GetByID(ctx context.Context, inspectionID int64) (*models.Inspection, error) {
	return m.get(inspectionID)
}

func (m *mockInspectionService) List(ctx context.Context, filter repositories.InspectionFilter, skip int) ([]*models.Inspection, error) {
	return m.inspections, m.err
}

func (m *mockInspectionService) ListByAddress(ctx context.Context, addressID int64, source string) ([]*models.Inspection, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []*models.Inspection{}
	for _, i := range m.inspections {
		if i.AddressID == addressID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *mockInspectionService) ListCodes(ctx context.Context, inspectionID int64) ([]*models.Code, error) {
	return m.codes, m.err
}

func (m *mockInspectionService) ReplaceCodes(ctx context.Context, inspectionID int64, codeIDs []int64) ([]*models.Code, error) {
	return m.codes, m.err
}

func (m *mockInspectionService) get(inspectionID int64) (*models.Inspection, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, i := range m.inspections {
		if i.ID == inspectionID {
			return i, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// mockSettingsService implements services.SettingsService for handler tests.
// It carries a real Broadcaster so the SSE stream can be exercised.
type mockSettingsService struct {
	enabled     bool
	readErr     error
	setErr      error
	broadcaster *services.Broadcaster
}

func (m *mockSettingsService) ChatEnabled(ctx context.Context) (bool, error) {
	if m.readErr != nil {
		return false, m.readErr
	}
	return m.enabled, nil
}

func (m *mockSettingsService) SetChatEnabled(ctx context.Context, callerID int64, enabled bool) (bool, error) {
	if m.setErr != nil {
		return false, m.setErr
	}
	m.enabled = enabled
	return enabled, nil
}

func (m *mockSettingsService) Broadcaster() *services.Broadcaster {
	return m.broadcaster
}

// Interface checks for the mocks above.
var (
	_ repositories.AddressRepository  = (*mockAddressRepo)(nil)
	_ repositories.CitationRepository = (*mockCitationRepo)(nil)
	_ services.ViolationService       = (*mockViolationService)(nil)
	_ services.CommentService         = (*mockCommentService)(nil)
	_ services.PhotoService           = (*mockPhotoService)(nil)
	_ services.NotificationService    = (*mockNotificationService)(nil)
	_ services.AssistantService       = (*mockAssistantService)(nil)
	_ services.PermitService          = (*mockPermitService)(nil)
	_ services.SettingsService        = (*mockSettingsService)(nil)
	_ services.InspectionService      = (*mockInspectionService)(nil)
)

// jsonBody wraps a JSON literal for request construction.
func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
