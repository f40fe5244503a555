package models

import "time"

// User roles. Role 1 users receive the weekday digest; role 3 is admin.
const (
	RoleDigestRecipient = 1
	RoleAdmin           = 3
)

// User is a staff account. The password column keeps the legacy Rails name.
type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	EncryptedPassword string    `json:"-"`
	Name              *string   `json:"name,omitempty"`
	Phone             *string   `json:"phone,omitempty"`
	Role              int       `json:"role"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Notification is an in-app alert owned by one user. Most are tied to an
// inspection; mention alerts are not.
type Notification struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	InspectionID *int64    `json:"inspection_id,omitempty"`
	UserID       int64     `json:"user_id"`
	Read         bool      `json:"read"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PushSubscription is a browser Web Push endpoint registered by a user.
type PushSubscription struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Endpoint       string     `json:"endpoint"`
	P256DH         string     `json:"-"`
	Auth           string     `json:"-"`
	ExpirationTime *time.Time `json:"expiration_time,omitempty"`
	UserAgent      *string    `json:"user_agent,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
