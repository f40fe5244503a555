package services

import (
	"context"
	"time"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/push"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// mockUserRepo is a configurable in-memory user repository.
type mockUserRepo struct {
	users []*models.User
	err   error
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.err != nil {
		return m.err
	}
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, user)
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockUserRepo) List(ctx context.Context, skip int) ([]*models.User, error) {
	return m.users, m.err
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role int) ([]*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*models.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

// mockNotificationRepo records created notifications.
type mockNotificationRepo struct {
	repositories.NotificationRepository
	created []*models.Notification
	err     error
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *models.Notification) error {
	if m.err != nil {
		return m.err
	}
	n.ID = int64(len(m.created) + 1)
	m.created = append(m.created, n)
	return nil
}

// mockPushRepo serves canned subscriptions and records prunes.
type mockPushRepo struct {
	repositories.PushSubscriptionRepository
	subs   []*models.PushSubscription
	pruned []int64
}

func (m *mockPushRepo) ListByUser(ctx context.Context, userID int64) ([]*models.PushSubscription, error) {
	var out []*models.PushSubscription
	for _, s := range m.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockPushRepo) DeleteByID(ctx context.Context, id int64) error {
	m.pruned = append(m.pruned, id)
	return nil
}

// mockPushSender records sends and can fail specific endpoints.
type mockPushSender struct {
	enabled      bool
	sent         []string
	goneEndpoint string
}

func (m *mockPushSender) Enabled() bool     { return m.enabled }
func (m *mockPushSender) PublicKey() string { return "test-key" }

func (m *mockPushSender) Send(ctx context.Context, sub *models.PushSubscription, payload push.Payload) error {
	if sub.Endpoint == m.goneEndpoint {
		return push.ErrSubscriptionGone
	}
	m.sent = append(m.sent, sub.Endpoint)
	return nil
}

// mockCommentRepo is a minimal comment store.
type mockCommentRepo struct {
	repositories.CommentRepository
	comments []*models.Comment
	err      error
}

func (m *mockCommentRepo) Create(ctx context.Context, c *models.Comment) error {
	if m.err != nil {
		return m.err
	}
	c.ID = int64(len(m.comments) + 1)
	c.CreatedAt = time.Now()
	m.comments = append(m.comments, c)
	return nil
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	for _, c := range m.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// mockSettingRepo is an in-memory settings store with audit capture.
type mockSettingRepo struct {
	values  map[string]string
	changes []*models.AppSettingChange
	err     error
}

func (m *mockSettingRepo) Get(ctx context.Context, key string) (*models.AppSetting, error) {
	if m.err != nil {
		return nil, m.err
	}
	value, ok := m.values[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &models.AppSetting{Key: key, Value: value}, nil
}

func (m *mockSettingRepo) Upsert(ctx context.Context, key, value string) (*models.AppSetting, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return &models.AppSetting{Key: key, Value: value}, nil
}

func (m *mockSettingRepo) RecordChange(ctx context.Context, change *models.AppSettingChange) error {
	m.changes = append(m.changes, change)
	return nil
}

// mockLicenseRepo is an in-memory license store.
type mockLicenseRepo struct {
	licenses []*models.License
	err      error
}

func (m *mockLicenseRepo) Create(ctx context.Context, l *models.License) error {
	if m.err != nil {
		return m.err
	}
	l.ID = int64(len(m.licenses) + 1)
	l.CreatedAt = time.Now()
	m.licenses = append(m.licenses, l)
	return nil
}

func (m *mockLicenseRepo) Update(ctx context.Context, l *models.License) error {
	return m.err
}

func (m *mockLicenseRepo) Delete(ctx context.Context, id int64) error {
	return m.err
}

func (m *mockLicenseRepo) GetByID(ctx context.Context, id int64) (*models.License, error) {
	for _, l := range m.licenses {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockLicenseRepo) List(ctx context.Context, skip int) ([]*models.License, error) {
	return m.licenses, m.err
}

func (m *mockLicenseRepo) GetByInspection(ctx context.Context, inspectionID int64) (*models.License, error) {
	for _, l := range m.licenses {
		if l.InspectionID == inspectionID {
			return l, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockLicenseRepo) GetByNumber(ctx context.Context, number string) (*models.License, error) {
	for _, l := range m.licenses {
		if l.LicenseNumber != nil && *l.LicenseNumber == number {
			return l, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// mockInspectionRepo is an in-memory inspection store.
type mockInspectionRepo struct {
	repositories.InspectionRepository
	inspections []*models.Inspection
	err         error
}

func (m *mockInspectionRepo) Create(ctx context.Context, i *models.Inspection) error {
	if m.err != nil {
		return m.err
	}
	i.ID = int64(len(m.inspections) + 1)
	m.inspections = append(m.inspections, i)
	return nil
}

func (m *mockInspectionRepo) GetByID(ctx context.Context, id int64) (*models.Inspection, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, i := range m.inspections {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// mockBusinessRepo serves canned businesses.
type mockBusinessRepo struct {
	repositories.BusinessRepository
	businesses []*models.Business
}

func (m *mockBusinessRepo) GetByID(ctx context.Context, id int64) (*models.Business, error) {
	for _, b := range m.businesses {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// mockAddressRepo serves canned addresses.
type mockAddressRepo struct {
	repositories.AddressRepository
	addresses []*models.Address
}

func (m *mockAddressRepo) GetByID(ctx context.Context, id int64) (*models.Address, error) {
	for _, a := range m.addresses {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// mockPermitRepo is an in-memory permit store.
type mockPermitRepo struct {
	permits []*models.Permit
	err     error
}

func (m *mockPermitRepo) Create(ctx context.Context, p *models.Permit) error {
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.permits {
		if existing.InspectionID == p.InspectionID {
			return apperrors.ErrConflict
		}
	}
	p.ID = int64(len(m.permits) + 1)
	m.permits = append(m.permits, p)
	return nil
}

func (m *mockPermitRepo) GetByID(ctx context.Context, id int64) (*models.Permit, error) {
	for _, p := range m.permits {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockPermitRepo) GetByInspection(ctx context.Context, inspectionID int64) (*models.Permit, error) {
	for _, p := range m.permits {
		if p.InspectionID == inspectionID {
			return p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockPermitRepo) List(ctx context.Context, inspectionID int64, skip int) ([]*models.Permit, error) {
	return m.permits, m.err
}

// mockStatsRepo serves canned dashboard stats.
type mockStatsRepo struct {
	repositories.StatsRepository
	stats *models.DashboardStats
}

func (m *mockStatsRepo) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	return m.stats, nil
}

// mockMailer records sent mail.
type mockMailer struct {
	enabled bool
	sent    []string
	err     error
}

func (m *mockMailer) Enabled() bool { return m.enabled }

func (m *mockMailer) Send(toEmail, subject, plainBody, htmlBody string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, toEmail)
	return nil
}

// mockViolationRepo is a minimal violation store.
type mockViolationRepo struct {
	repositories.ViolationRepository
	violations []*models.Violation
	err        error
}

func (m *mockViolationRepo) Create(ctx context.Context, v *models.Violation, codeIDs []int64) error {
	if m.err != nil {
		return m.err
	}
	v.ID = int64(len(m.violations) + 1)
	v.CreatedAt = time.Now()
	m.violations = append(m.violations, v)
	return nil
}

func (m *mockViolationRepo) Update(ctx context.Context, v *models.Violation) error {
	return m.err
}

func (m *mockViolationRepo) GetByID(ctx context.Context, id int64) (*models.Violation, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, v := range m.violations {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// mockAnalysisLogRepo records image analysis audit rows.
type mockAnalysisLogRepo struct {
	logs []*models.ImageAnalysisLog
	err  error
}

func (m *mockAnalysisLogRepo) Create(ctx context.Context, log *models.ImageAnalysisLog) error {
	if m.err != nil {
		return m.err
	}
	log.ID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, log)
	return nil
}

// mockVisionClient returns a canned analysis and captures inputs.
type mockVisionClient struct {
	result     string
	err        error
	mediaTypes []string
	prompts    []string
}

func (m *mockVisionClient) AnalyzeImage(ctx context.Context, imageData []byte, mediaType, prompt string) (string, error) {
	m.mediaTypes = append(m.mediaTypes, mediaType)
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.result, nil
}

// mockContactRepo serves canned contacts.
type mockContactRepo struct {
	repositories.ContactRepository
	contacts []*models.Contact
}

func (m *mockContactRepo) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	for _, c := range m.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// mockAttachmentRepo serves canned attachment and blob rows.
type mockAttachmentRepo struct {
	attachments []*models.Attachment
	blobs       []*models.Blob
	err         error
}

func (m *mockAttachmentRepo) CreateBlob(ctx context.Context, blob *models.Blob) error {
	if m.err != nil {
		return m.err
	}
	blob.ID = int64(len(m.blobs) + 1)
	m.blobs = append(m.blobs, blob)
	return nil
}

func (m *mockAttachmentRepo) GetBlob(ctx context.Context, blobID int64) (*models.Blob, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, b := range m.blobs {
		if b.ID == blobID {
			return b, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockAttachmentRepo) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	if m.err != nil {
		return m.err
	}
	attachment.ID = int64(len(m.attachments) + 1)
	m.attachments = append(m.attachments, attachment)
	return nil
}

func (m *mockAttachmentRepo) ListByRecord(ctx context.Context, name, recordType string, recordID int64) ([]*models.Attachment, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*models.Attachment
	for _, a := range m.attachments {
		if a.Name == name && a.RecordType == recordType && a.RecordID == recordID {
			out = append(out, a)
		}
	}
	return out, nil
}

// mockBlobStore records uploads and signs predictable URLs.
type mockBlobStore struct {
	uploaded map[string][]byte
	signErr  error
}

func (m *mockBlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if m.uploaded == nil {
		m.uploaded = map[string][]byte{}
	}
	m.uploaded[key] = data
	return nil
}

func (m *mockBlobStore) SignedURL(key string) (string, error) {
	if m.signErr != nil {
		return "", m.signErr
	}
	return "https://blobs.example/" + key + "?sig=test", nil
}

func (m *mockBlobStore) SignedDownloadURL(key, filename string) (string, error) {
	return m.SignedURL(key)
}

func (m *mockBlobStore) Container() string { return "test-container" }
