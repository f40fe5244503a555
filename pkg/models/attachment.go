package models

import "time"

// Attachment record types, matching the ActiveStorage rows the legacy app
// wrote. RecordType names the owning table's model, Name the attachment slot.
const (
	AttachmentRecordComment          = "Comment"
	AttachmentRecordViolation        = "Violation"
	AttachmentRecordViolationComment = "ViolationComment"

	AttachmentNamePhotos = "photos"
	AttachmentNameFiles  = "attachments"
)

// Attachment links a record to a blob. Bytes live in Azure, addressed by the
// blob's key.
type Attachment struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	RecordType string    `json:"record_type"`
	RecordID   int64     `json:"record_id"`
	BlobID     int64     `json:"blob_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Blob is the metadata row for an object in blob storage.
type Blob struct {
	ID          int64     `json:"id"`
	Key         string    `json:"key"`
	Filename    string    `json:"filename"`
	ContentType *string   `json:"content_type,omitempty"`
	Metadata    *string   `json:"metadata,omitempty"`
	ServiceName string    `json:"service_name"`
	ByteSize    int64     `json:"byte_size"`
	Checksum    *string   `json:"checksum,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Photo is the externally addressable view of an attachment returned by the
// photo endpoints.
type Photo struct {
	Filename    string  `json:"filename"`
	ContentType *string `json:"content_type"`
	URL         string  `json:"url"`
}
