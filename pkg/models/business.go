package models

import "time"

// Business is a commercial operation, optionally tied to an address.
type Business struct {
	ID        int64     `json:"id"`
	Name      *string   `json:"name,omitempty"`
	AddressID *int64    `json:"address_id,omitempty"`
	UnitID    *int64    `json:"unit_id,omitempty"`
	Website   *string   `json:"website,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	TradingAs *string   `json:"trading_as,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined at read time on listing views; omitted per row when the
	// association cannot be resolved.
	Address *Address `json:"address,omitempty"`
}
