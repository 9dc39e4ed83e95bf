package types

import "time"

// SpaceType classifies a bookable space.
type SpaceType string

const (
	SpaceDesk          SpaceType = "desk"
	SpaceMeetingRoom   SpaceType = "meeting_room"
	SpacePrivateOffice SpaceType = "private_office"
	SpaceOpenArea      SpaceType = "open_area"
)

// Valid reports whether t is one of the known space types.
func (t SpaceType) Valid() bool {
	switch t {
	case SpaceDesk, SpaceMeetingRoom, SpacePrivateOffice, SpaceOpenArea:
		return true
	}
	return false
}

// WorkingHours describes the opening window for one day of the week.
type WorkingHours struct {
	// DayOfWeek is the day this entry applies to, 0 (Sunday) through 6.
	DayOfWeek int `json:"day_of_week"`

	// Open is the opening time in "HH:MM" form.
	Open string `json:"open"`

	// Close is the closing time in "HH:MM" form.
	Close string `json:"close"`

	// IsClosed marks the location closed for the whole day.
	IsClosed bool `json:"is_closed"`
}

// Location is a physical site containing bookable spaces.
type Location struct {
	// ID is the unique identifier of the location.
	ID int `json:"id" db:"id"`

	// Name is the human-readable name of the location.
	Name string `json:"name" db:"name"`

	// Address is the street address.
	Address string `json:"address" db:"address"`

	// City is the city the location is in.
	City string `json:"city" db:"city"`

	// Country is the country the location is in.
	Country string `json:"country" db:"country"`

	// Timezone is the IANA timezone name for the location.
	Timezone string `json:"timezone" db:"timezone"`

	// Photos are object-storage keys of the location's photos.
	Photos []string `json:"photos" db:"photos"`

	// Amenities are free-form amenity labels for the whole site.
	Amenities []string `json:"amenities" db:"amenities"`

	// WorkingHours lists the opening windows per day of week.
	WorkingHours []WorkingHours `json:"working_hours" db:"working_hours"`

	// CreatedAt is the timestamp at which the location was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the location.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Space is a single bookable unit within a location.
type Space struct {
	// ID is the unique identifier of the space.
	ID int `json:"id" db:"id"`

	// LocationID references the location the space belongs to.
	LocationID int `json:"location_id" db:"location_id"`

	// Name is the human-readable name of the space.
	Name string `json:"name" db:"name"`

	// Type classifies the space.
	Type SpaceType `json:"type" db:"type"`

	// Floor optionally names the floor the space is on.
	Floor *string `json:"floor,omitempty" db:"floor"`

	// Capacity is the number of people the space accommodates.
	Capacity int `json:"capacity" db:"capacity"`

	// Amenities are free-form amenity labels for this space.
	Amenities []string `json:"amenities" db:"amenities"`

	// IsActive indicates whether the space is open for booking.
	// Inactive spaces are hidden from public browsing.
	IsActive bool `json:"is_active" db:"is_active"`

	// CreatedAt is the timestamp at which the space was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the space.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
