package types

import "time"

// PricingRule describes a rate card entry for a plan, optionally scoped
// to a location or space.
//
// Rules are data only: no code path currently applies the multipliers.
// The schema is carried so rate cards entered by operators survive a
// future pricing engine.
type PricingRule struct {
	// ID is the unique identifier of the rule.
	ID int `json:"id" db:"id"`

	// LocationID optionally scopes the rule to a location.
	LocationID *int `json:"location_id,omitempty" db:"location_id"`

	// SpaceID optionally scopes the rule to a space.
	SpaceID *int `json:"space_id,omitempty" db:"space_id"`

	// Plan is the billing granularity the rule prices.
	Plan Plan `json:"plan" db:"plan"`

	// BaseRate is the undiscounted rate per plan unit.
	BaseRate float64 `json:"base_rate" db:"base_rate"`

	// Currency is the ISO currency code of BaseRate.
	Currency string `json:"currency" db:"currency"`

	// WeekendMultiplier optionally scales the rate on weekends.
	WeekendMultiplier *float64 `json:"weekend_multiplier,omitempty" db:"weekend_multiplier"`

	// PeakHourMultiplier optionally scales the rate during peak hours.
	PeakHourMultiplier *float64 `json:"peak_hour_multiplier,omitempty" db:"peak_hour_multiplier"`

	// HolidayMultiplier optionally scales the rate on holidays.
	HolidayMultiplier *float64 `json:"holiday_multiplier,omitempty" db:"holiday_multiplier"`

	// Active indicates whether the rule is part of the current rate card.
	Active bool `json:"active" db:"active"`

	// CreatedAt is the timestamp at which the rule was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the rule.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
