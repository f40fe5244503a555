package models

import "time"

// Inspection covers complaints, license inspections and permit inspections.
// Status and source are opaque workflow strings passed through unchanged.
type Inspection struct {
	ID                int64      `json:"id"`
	Source            *string    `json:"source,omitempty"`
	Status            *string    `json:"status,omitempty"`
	Result            *string    `json:"result,omitempty"`
	Description       *string    `json:"description,omitempty"`
	Thoughts          *string    `json:"thoughts,omitempty"`
	Originator        *string    `json:"originator,omitempty"`
	UnitID            *int64     `json:"unit_id,omitempty"`
	AddressID         int64      `json:"address_id"`
	Assignee          *string    `json:"assignee,omitempty"`
	InspectorID       *int64     `json:"inspector_id,omitempty"`
	Name              *string    `json:"name,omitempty"`
	Email             *string    `json:"email,omitempty"`
	Phone             *string    `json:"phone,omitempty"`
	ScheduledDatetime *time.Time `json:"scheduled_datetime,omitempty"`
	ContactID         *int64     `json:"contact_id,omitempty"`
	Confirmed         bool       `json:"confirmed"`
	BusinessID        *int64     `json:"business_id,omitempty"`
	StartTime         *time.Time `json:"start_time,omitempty"`
	Paid              bool       `json:"paid"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// License is issued off a completed inspection.
// License types: 1 business, 2 single family, 3 multifamily.
type License struct {
	ID             int64      `json:"id"`
	InspectionID   int64      `json:"inspection_id"`
	Sent           *bool      `json:"sent,omitempty"`
	Revoked        *bool      `json:"revoked,omitempty"`
	FiscalYear     *string    `json:"fiscal_year,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	LicenseType    int        `json:"license_type"`
	BusinessID     *int64     `json:"business_id,omitempty"`
	LicenseNumber  *string    `json:"license_number,omitempty"`
	DateIssued     *time.Time `json:"date_issued,omitempty"`
	Conditions     *string    `json:"conditions,omitempty"`
	Paid           bool       `json:"paid"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Derived at read time through the inspection join.
	AddressID *int64  `json:"address_id,omitempty"`
	Combadd   *string `json:"combadd,omitempty"`
}

// Permit is issued off an inspection, one per inspection.
type Permit struct {
	ID             int64      `json:"id"`
	InspectionID   int64      `json:"inspection_id"`
	PermitType     *string    `json:"permit_type,omitempty"`
	BusinessID     *int64     `json:"business_id,omitempty"`
	PermitNumber   *string    `json:"permit_number,omitempty"`
	DateIssued     *time.Time `json:"date_issued,omitempty"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Conditions     *string    `json:"conditions,omitempty"`
	Paid           bool       `json:"paid"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Derived at read time through the inspection join.
	AddressID *int64  `json:"address_id,omitempty"`
	Combadd   *string `json:"combadd,omitempty"`
}
