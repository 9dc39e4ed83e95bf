package types

import "time"

// Plan is a booking's billing granularity.
type Plan string

const (
	PlanHourly  Plan = "hourly"
	PlanDaily   Plan = "daily"
	PlanWeekly  Plan = "weekly"
	PlanMonthly Plan = "monthly"
)

// Valid reports whether p is one of the known plans.
func (p Plan) Valid() bool {
	switch p {
	case PlanHourly, PlanDaily, PlanWeekly, PlanMonthly:
		return true
	}
	return false
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingNoShow    BookingStatus = "no_show"
)

// PaymentStatus is the settlement state of a booking.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "unpaid"
	PaymentPaid          PaymentStatus = "paid"
	PaymentRefunded      PaymentStatus = "refunded"
	PaymentPartialRefund PaymentStatus = "partial_refund"
	PaymentFailed        PaymentStatus = "failed"
)

// DefaultCurrency is applied when a booking request omits the currency.
const DefaultCurrency = "INR"

// Booking represents a workspace reservation.
//
// A booking always belongs to exactly one user; space and location
// references are optional. Status transitions are driven by downstream
// processes, not by the create/list API.
type Booking struct {
	// ID is the unique identifier of the booking.
	ID int `json:"id" db:"id"`

	// UserID references the user that owns the booking. Always set.
	UserID int `json:"user_id" db:"user_id"`

	// SpaceID optionally references the reserved space.
	SpaceID *int `json:"space_id,omitempty" db:"space_id"`

	// LocationID optionally references the location of the reservation.
	LocationID *int `json:"location_id,omitempty" db:"location_id"`

	// StartTime is when the reservation begins.
	StartTime time.Time `json:"start_time" db:"start_time"`

	// EndTime is when the reservation ends.
	EndTime time.Time `json:"end_time" db:"end_time"`

	// Plan is the billing granularity of the reservation.
	Plan Plan `json:"plan" db:"plan"`

	// Status is the lifecycle state. New bookings start as pending.
	Status BookingStatus `json:"status" db:"status"`

	// PaymentStatus is the settlement state. New bookings start unpaid.
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`

	// Amount is the quoted price of the reservation.
	Amount float64 `json:"amount" db:"amount"`

	// Currency is the ISO currency code of Amount.
	Currency string `json:"currency" db:"currency"`

	// DiscountCode is an optional promotion code applied at booking time.
	DiscountCode *string `json:"discount_code,omitempty" db:"discount_code"`

	// Metadata is a free-form map carried through from the client,
	// used by calendar and reporting views.
	Metadata map[string]any `json:"metadata,omitempty" db:"metadata"`

	// User is the owning user, populated by listings that join users.
	User *UserSummary `json:"user,omitempty" db:"-"`

	// Space is the reserved space, populated by listings that join spaces.
	Space *Space `json:"space,omitempty" db:"-"`

	// Location is the reservation's location, populated by listings
	// that join locations.
	Location *Location `json:"location,omitempty" db:"-"`

	// CreatedAt is the timestamp at which the booking was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the booking.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BookingSlot is the projection returned by range queries for calendar
// and heatmap views.
type BookingSlot struct {
	StartTime time.Time      `json:"start_time" db:"start_time"`
	Plan      Plan           `json:"plan" db:"plan"`
	Metadata  map[string]any `json:"metadata,omitempty" db:"metadata"`
}

// BookingCreatedEvent is the payload published on the booking.created
// channel after a booking is persisted. Downstream consumers (billing,
// notifications) key off the booking id.
type BookingCreatedEvent struct {
	BookingID int       `json:"booking_id"`
	UserID    int       `json:"user_id"`
	Plan      Plan      `json:"plan"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}
