package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/deskhive/apiserver/types"
)

// SpaceRepository handles persistence for locations and spaces.
type SpaceRepository struct {
	db *sql.DB
}

func NewSpaceRepository(db *sql.DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

func (r *SpaceRepository) CreateLocation(ctx context.Context, location types.Location) (types.Location, error) {
	now := time.Now()
	location.CreatedAt = now
	location.UpdatedAt = now
	if location.Photos == nil {
		location.Photos = []string{}
	}
	if location.Amenities == nil {
		location.Amenities = []string{}
	}
	if location.WorkingHours == nil {
		location.WorkingHours = []types.WorkingHours{}
	}

	photosJSON, err := json.Marshal(location.Photos)
	if err != nil {
		return types.Location{}, err
	}
	amenitiesJSON, err := json.Marshal(location.Amenities)
	if err != nil {
		return types.Location{}, err
	}
	hoursJSON, err := json.Marshal(location.WorkingHours)
	if err != nil {
		return types.Location{}, err
	}

	const query = `
		INSERT INTO locations (name, address, city, country, timezone, photos, amenities, working_hours, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		location.Name,
		location.Address,
		location.City,
		location.Country,
		location.Timezone,
		photosJSON,
		amenitiesJSON,
		hoursJSON,
		location.CreatedAt,
		location.UpdatedAt,
	).Scan(&location.ID); err != nil {
		return types.Location{}, err
	}
	return location, nil
}

func (r *SpaceRepository) GetLocation(ctx context.Context, id int) (types.Location, error) {
	const query = `
		SELECT id, name, address, city, country, timezone, photos, amenities, working_hours, created_at, updated_at
		FROM locations
		WHERE id = $1`
	var location types.Location
	var photosJSON, amenitiesJSON, hoursJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&location.ID,
		&location.Name,
		&location.Address,
		&location.City,
		&location.Country,
		&location.Timezone,
		&photosJSON,
		&amenitiesJSON,
		&hoursJSON,
		&location.CreatedAt,
		&location.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Location{}, ErrNotFound
		}
		return types.Location{}, err
	}

	_ = json.Unmarshal(photosJSON, &location.Photos)
	_ = json.Unmarshal(amenitiesJSON, &location.Amenities)
	_ = json.Unmarshal(hoursJSON, &location.WorkingHours)
	return location, nil
}

func (r *SpaceRepository) ListLocations(ctx context.Context) ([]types.Location, error) {
	const query = `
		SELECT id, name, address, city, country, timezone, photos, amenities, working_hours, created_at, updated_at
		FROM locations
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]types.Location, 0)
	for rows.Next() {
		var location types.Location
		var photosJSON, amenitiesJSON, hoursJSON []byte
		if err := rows.Scan(
			&location.ID,
			&location.Name,
			&location.Address,
			&location.City,
			&location.Country,
			&location.Timezone,
			&photosJSON,
			&amenitiesJSON,
			&hoursJSON,
			&location.CreatedAt,
			&location.UpdatedAt,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(photosJSON, &location.Photos)
		_ = json.Unmarshal(amenitiesJSON, &location.Amenities)
		_ = json.Unmarshal(hoursJSON, &location.WorkingHours)
		locations = append(locations, location)
	}
	return locations, rows.Err()
}

// AddLocationPhoto appends an object-storage key to the location's
// photo list.
func (r *SpaceRepository) AddLocationPhoto(ctx context.Context, id int, key string) error {
	keyJSON, err := json.Marshal(key)
	if err != nil {
		return err
	}

	const query = `
		UPDATE locations
		SET photos = photos || jsonb_build_array($1::jsonb),
			updated_at = $2
		WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, keyJSON, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SpaceRepository) CreateSpace(ctx context.Context, space types.Space) (types.Space, error) {
	now := time.Now()
	space.CreatedAt = now
	space.UpdatedAt = now
	if space.Amenities == nil {
		space.Amenities = []string{}
	}

	amenitiesJSON, err := json.Marshal(space.Amenities)
	if err != nil {
		return types.Space{}, err
	}

	const query = `
		INSERT INTO spaces (location_id, name, type, floor, capacity, amenities, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		space.LocationID,
		space.Name,
		space.Type,
		space.Floor,
		space.Capacity,
		amenitiesJSON,
		space.IsActive,
		space.CreatedAt,
		space.UpdatedAt,
	).Scan(&space.ID); err != nil {
		return types.Space{}, err
	}
	return space, nil
}

// ListSpacesByLocation returns the spaces of a location. When
// activeOnly is set, inactive spaces are filtered out.
func (r *SpaceRepository) ListSpacesByLocation(ctx context.Context, locationID int, activeOnly bool) ([]types.Space, error) {
	const query = `
		SELECT id, location_id, name, type, floor, capacity, amenities, is_active, created_at, updated_at
		FROM spaces
		WHERE location_id = $1 AND (NOT $2 OR is_active)
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, locationID, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spaces := make([]types.Space, 0)
	for rows.Next() {
		var space types.Space
		var amenitiesJSON []byte
		if err := rows.Scan(
			&space.ID,
			&space.LocationID,
			&space.Name,
			&space.Type,
			&space.Floor,
			&space.Capacity,
			&amenitiesJSON,
			&space.IsActive,
			&space.CreatedAt,
			&space.UpdatedAt,
		); err != nil {
			return nil, err
		}
		_ = json.Unmarshal(amenitiesJSON, &space.Amenities)
		spaces = append(spaces, space)
	}
	return spaces, rows.Err()
}
