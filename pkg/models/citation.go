package models

import "time"

// Citation is a fine issued under a violation. Deadline here is the
// citation's own stored date, unlike the violation's derived one.
type Citation struct {
	ID          int64      `json:"id"`
	Fine        *int       `json:"fine,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	ViolationID int64      `json:"violation_id"`
	UserID      int64      `json:"user_id"`
	Status      *int       `json:"status,omitempty"`
	TrialDate   *time.Time `json:"trial_date,omitempty"`
	CodeID      int64      `json:"code_id"`
	CitationID  *string    `json:"citationid,omitempty"`
	UnitID      *int64     `json:"unit_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Derived at read time, never persisted.
	Combadd  *string `json:"combadd,omitempty"`
	CodeName *string `json:"code_name,omitempty"`
}

// Code is a municipal code section a violation or citation can reference.
type Code struct {
	ID          int64     `json:"id"`
	Chapter     string    `json:"chapter"`
	Section     string    `json:"section"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
