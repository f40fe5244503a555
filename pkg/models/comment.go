package models

import "time"

// Comment is a note on an address, optionally scoped to a unit. Photo
// attachments hang off it through the attachments/blobs tables.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	AddressID int64     `json:"address_id"`
	UserID    int64     `json:"user_id"`
	UnitID    *int64    `json:"unit_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined at read time for listing views.
	User *User `json:"user,omitempty"`
}

// ContactComment is a note on a contact.
type ContactComment struct {
	ID        int64     `json:"id"`
	Comment   string    `json:"comment"`
	UserID    int64     `json:"user_id"`
	ContactID int64     `json:"contact_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contact is a person associated with addresses, units or businesses.
type Contact struct {
	ID        int64     `json:"id"`
	Name      *string   `json:"name,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Notes     string    `json:"notes"`
	Hidden    bool      `json:"hidden"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
