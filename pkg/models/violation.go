package models

import "time"

// Violation status values. Stored as integers in the legacy schema.
const (
	ViolationStatusCurrent      = 0
	ViolationStatusResolved     = 1
	ViolationStatusPendingTrial = 2
	ViolationStatusDismissed    = 3
)

// DeadlineOptions are the human-readable deadline choices for a violation.
// DeadlineValues holds the matching number of days, index-aligned.
var (
	DeadlineOptions = []string{"Immediate", "1 day", "3 days", "7 days", "14 days", "30 days"}
	DeadlineValues  = []int{0, 1, 3, 7, 14, 30}
)

// DeadlineDays maps a deadline option string to its day count. Unknown
// strings map to zero days, same as "Immediate".
func DeadlineDays(deadline string) int {
	for i, opt := range DeadlineOptions {
		if opt == deadline {
			return DeadlineValues[i]
		}
	}
	return 0
}

// Violation is a code violation recorded against an address.
type Violation struct {
	ID            int64      `json:"id"`
	Description   *string    `json:"description,omitempty"`
	Status        int        `json:"status"`
	AddressID     int64      `json:"address_id"`
	UserID        int64      `json:"user_id"`
	Deadline      string     `json:"deadline"`
	ViolationType string     `json:"violation_type"`
	Extend        int        `json:"extend"`
	UnitID        *int64     `json:"unit_id,omitempty"`
	InspectionID  *int64     `json:"inspection_id,omitempty"`
	Comment       *string    `json:"comment,omitempty"`
	BusinessID    *int64     `json:"business_id,omitempty"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Derived at read time, never persisted.
	Combadd      *string    `json:"combadd"`
	DeadlineDate *time.Time `json:"deadline_date"`
	Codes        []*Code    `json:"codes,omitempty"`
}

// ComputeDeadlineDate derives the violation's effective deadline from its
// creation time, the deadline option and any extension days. The result is
// what read paths return as deadline_date; it is never stored.
func (v *Violation) ComputeDeadlineDate() time.Time {
	days := DeadlineDays(v.Deadline) + v.Extend
	return v.CreatedAt.AddDate(0, 0, days)
}

// ViolationComment is a discussion entry on a violation.
type ViolationComment struct {
	ID          int64     `json:"id"`
	ViolationID int64     `json:"violation_id"`
	UserID      int64     `json:"user_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
