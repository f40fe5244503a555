package models

import "time"

// Address is a physical location tracked by code enforcement. It owns units,
// violations, inspections and comments. Most parcel columns come straight from
// the county assessment import and are nullable.
type Address struct {
	ID              int64     `json:"id"`
	PID             *string   `json:"pid,omitempty"`
	OwnerName       *string   `json:"ownername,omitempty"`
	OwnerAddress    *string   `json:"owneraddress,omitempty"`
	OwnerCity       *string   `json:"ownercity,omitempty"`
	OwnerState      *string   `json:"ownerstate,omitempty"`
	OwnerZip        *string   `json:"ownerzip,omitempty"`
	StreetNumb      *string   `json:"streetnumb,omitempty"`
	StreetName      *string   `json:"streetname,omitempty"`
	StreetType      *string   `json:"streettype,omitempty"`
	LandUseCode     *string   `json:"landusecode,omitempty"`
	Zoning          *string   `json:"zoning,omitempty"`
	OwnerOccupiedIn *string   `json:"owneroccupiedin,omitempty"`
	Vacant          *string   `json:"vacant,omitempty"`
	Absent          *string   `json:"absent,omitempty"`
	PremiseZip      *string   `json:"premisezip,omitempty"`
	Combadd         *string   `json:"combadd"`
	Outstanding     bool      `json:"outstanding"`
	Name            *string   `json:"name,omitempty"`
	PropType        int       `json:"proptype"`
	PropertyType    *string   `json:"property_type,omitempty"`
	PropertyName    *string   `json:"property_name,omitempty"`
	AKA             *string   `json:"aka,omitempty"`
	District        *string   `json:"district,omitempty"`
	PropertyID      *string   `json:"property_id,omitempty"`
	VacancyStatus   *string   `json:"vacancy_status,omitempty"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Unit is a rentable unit under an address.
type Unit struct {
	ID            int64     `json:"id"`
	Number        string    `json:"number"`
	AddressID     int64     `json:"address_id"`
	VacancyStatus *string   `json:"vacancy_status,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
