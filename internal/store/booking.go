package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/deskhive/apiserver/types"
)

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking types.Booking) (types.Booking, error) {
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	var metadataJSON any
	if booking.Metadata != nil {
		raw, err := json.Marshal(booking.Metadata)
		if err != nil {
			return types.Booking{}, err
		}
		metadataJSON = raw
	}

	const query = `
		INSERT INTO bookings (user_id, space_id, location_id, start_time, end_time, plan,
			status, payment_status, amount, currency, discount_code, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		booking.UserID,
		booking.SpaceID,
		booking.LocationID,
		booking.StartTime,
		booking.EndTime,
		booking.Plan,
		booking.Status,
		booking.PaymentStatus,
		booking.Amount,
		booking.Currency,
		booking.DiscountCode,
		metadataJSON,
		booking.CreatedAt,
		booking.UpdatedAt,
	).Scan(&booking.ID); err != nil {
		return types.Booking{}, err
	}
	return booking, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int) (types.Booking, error) {
	const query = `
		SELECT id, user_id, space_id, location_id, start_time, end_time, plan,
			status, payment_status, amount, currency, discount_code, metadata, created_at, updated_at
		FROM bookings
		WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var booking types.Booking
	var metadataJSON []byte
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SpaceID,
		&booking.LocationID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Plan,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.Amount,
		&booking.Currency,
		&booking.DiscountCode,
		&metadataJSON,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return types.Booking{}, ErrNotFound
		}
		return types.Booking{}, err
	}
	if metadataJSON != nil {
		_ = json.Unmarshal(metadataJSON, &booking.Metadata)
	}
	return booking, nil
}

// ListByUser returns the user's bookings joined with the referenced
// space and location, most recent start time first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int) ([]types.Booking, error) {
	const query = `
		SELECT b.id, b.user_id, b.space_id, b.location_id, b.start_time, b.end_time, b.plan,
			b.status, b.payment_status, b.amount, b.currency, b.discount_code, b.metadata,
			b.created_at, b.updated_at,
			s.id, s.location_id, s.name, s.type, s.floor, s.capacity, s.amenities, s.is_active,
			s.created_at, s.updated_at,
			l.id, l.name, l.address, l.city, l.country, l.timezone, l.photos, l.amenities,
			l.working_hours, l.created_at, l.updated_at
		FROM bookings b
		LEFT JOIN spaces s ON s.id = b.space_id
		LEFT JOIN locations l ON l.id = b.location_id
		WHERE b.user_id = $1
		ORDER BY b.start_time DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]types.Booking, 0)
	for rows.Next() {
		booking, err := scanBookingWithPlace(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// ListAll returns every booking joined with the owning user, most
// recent start time first.
func (r *BookingRepository) ListAll(ctx context.Context) ([]types.Booking, error) {
	const query = `
		SELECT b.id, b.user_id, b.space_id, b.location_id, b.start_time, b.end_time, b.plan,
			b.status, b.payment_status, b.amount, b.currency, b.discount_code, b.metadata,
			b.created_at, b.updated_at,
			u.id, u.email, u.name, u.role
		FROM bookings b
		JOIN users u ON u.id = b.user_id
		ORDER BY b.start_time DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]types.Booking, 0)
	for rows.Next() {
		var booking types.Booking
		var metadataJSON []byte
		var user types.UserSummary
		if err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.SpaceID,
			&booking.LocationID,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Plan,
			&booking.Status,
			&booking.PaymentStatus,
			&booking.Amount,
			&booking.Currency,
			&booking.DiscountCode,
			&metadataJSON,
			&booking.CreatedAt,
			&booking.UpdatedAt,
			&user.ID,
			&user.Email,
			&user.Name,
			&user.Role,
		); err != nil {
			return nil, err
		}
		if metadataJSON != nil {
			_ = json.Unmarshal(metadataJSON, &booking.Metadata)
		}
		booking.User = &user
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// ListRange returns the slot projection of bookings whose start time
// falls within [start, end].
func (r *BookingRepository) ListRange(ctx context.Context, start, end time.Time) ([]types.BookingSlot, error) {
	const query = `
		SELECT start_time, plan, metadata
		FROM bookings
		WHERE start_time >= $1 AND start_time <= $2
		ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]types.BookingSlot, 0)
	for rows.Next() {
		var slot types.BookingSlot
		var metadataJSON []byte
		if err := rows.Scan(&slot.StartTime, &slot.Plan, &metadataJSON); err != nil {
			return nil, err
		}
		if metadataJSON != nil {
			_ = json.Unmarshal(metadataJSON, &slot.Metadata)
		}
		slots = append(slots, slot)
	}
	return slots, rows.Err()
}

func scanBookingWithPlace(rows *sql.Rows) (types.Booking, error) {
	var booking types.Booking
	var metadataJSON []byte

	var spaceID, spaceLocationID, spaceCapacity sql.NullInt64
	var spaceName, spaceType, spaceFloor sql.NullString
	var spaceAmenities []byte
	var spaceActive sql.NullBool
	var spaceCreated, spaceUpdated sql.NullTime

	var locID sql.NullInt64
	var locName, locAddress, locCity, locCountry, locTimezone sql.NullString
	var locPhotos, locAmenities, locHours []byte
	var locCreated, locUpdated sql.NullTime

	if err := rows.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SpaceID,
		&booking.LocationID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Plan,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.Amount,
		&booking.Currency,
		&booking.DiscountCode,
		&metadataJSON,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&spaceID,
		&spaceLocationID,
		&spaceName,
		&spaceType,
		&spaceFloor,
		&spaceCapacity,
		&spaceAmenities,
		&spaceActive,
		&spaceCreated,
		&spaceUpdated,
		&locID,
		&locName,
		&locAddress,
		&locCity,
		&locCountry,
		&locTimezone,
		&locPhotos,
		&locAmenities,
		&locHours,
		&locCreated,
		&locUpdated,
	); err != nil {
		return types.Booking{}, err
	}

	if metadataJSON != nil {
		_ = json.Unmarshal(metadataJSON, &booking.Metadata)
	}

	if spaceID.Valid {
		space := types.Space{
			ID:         int(spaceID.Int64),
			LocationID: int(spaceLocationID.Int64),
			Name:       spaceName.String,
			Type:       types.SpaceType(spaceType.String),
			Capacity:   int(spaceCapacity.Int64),
			IsActive:   spaceActive.Bool,
			CreatedAt:  spaceCreated.Time,
			UpdatedAt:  spaceUpdated.Time,
		}
		if spaceFloor.Valid {
			floor := spaceFloor.String
			space.Floor = &floor
		}
		_ = json.Unmarshal(spaceAmenities, &space.Amenities)
		booking.Space = &space
	}

	if locID.Valid {
		location := types.Location{
			ID:        int(locID.Int64),
			Name:      locName.String,
			Address:   locAddress.String,
			City:      locCity.String,
			Country:   locCountry.String,
			Timezone:  locTimezone.String,
			CreatedAt: locCreated.Time,
			UpdatedAt: locUpdated.Time,
		}
		_ = json.Unmarshal(locPhotos, &location.Photos)
		_ = json.Unmarshal(locAmenities, &location.Amenities)
		_ = json.Unmarshal(locHours, &location.WorkingHours)
		booking.Location = &location
	}

	return booking, nil
}
