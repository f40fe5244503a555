package models

import "time"

// SettingChatEnabled is the key for the assistant chat toggle.
const SettingChatEnabled = "chat_enabled"

// AppSetting is a key/value application setting.
type AppSetting struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppSettingChange is an audit row recorded on every settings write.
type AppSettingChange struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	OldValue  *string   `json:"old_value,omitempty"`
	NewValue  string    `json:"new_value"`
	ChangedBy int64     `json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentTemplate is an uploaded .docx notice template. Content is stored
// in the database; generation from templates happens outside this service.
type DocumentTemplate struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Filename    string    `json:"filename"`
	Content     []byte    `json:"-"`
	LicenseType *int      `json:"license_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TemplateCategories are the accepted document template categories.
var TemplateCategories = []string{"violation", "compliance", "license"}

// IsValidTemplateCategory reports whether c is an accepted category.
func IsValidTemplateCategory(c string) bool {
	for _, v := range TemplateCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ImageAnalysisLog records one vision-model call.
type ImageAnalysisLog struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ImageCount int       `json:"image_count"`
	Result     *string   `json:"result,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
