package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/deskhive/apiserver/internal/metrics"
	"github.com/deskhive/apiserver/types"
)

// BookingCreatedChannel is the broker channel booking creation events
// are published on.
const BookingCreatedChannel = "booking.created"

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking types.Booking) (types.Booking, error)
	GetByID(ctx context.Context, id int) (types.Booking, error)
	ListByUser(ctx context.Context, userID int) ([]types.Booking, error)
	ListAll(ctx context.Context) ([]types.Booking, error)
	ListRange(ctx context.Context, start, end time.Time) ([]types.BookingSlot, error)
}

// EventPublisher publishes domain events to a broker channel.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// BookingService encapsulates booking use-cases.
type BookingService struct {
	repo      BookingRepository
	publisher EventPublisher
}

// NewBookingService constructs a BookingService. publisher may be nil,
// in which case booking events are not emitted.
func NewBookingService(repo BookingRepository, publisher EventPublisher) *BookingService {
	return &BookingService{repo: repo, publisher: publisher}
}

// Create persists a booking owned by the given user with the standard
// lifecycle defaults and emits a booking.created event.
func (s *BookingService) Create(ctx context.Context, booking types.Booking) (types.Booking, error) {
	booking.Status = types.BookingPending
	booking.PaymentStatus = types.PaymentUnpaid
	if booking.Currency == "" {
		booking.Currency = types.DefaultCurrency
	}

	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		return types.Booking{}, err
	}

	metrics.ObserveBookingCreated()
	s.publishCreated(ctx, created)
	return created, nil
}

func (s *BookingService) ListByUser(ctx context.Context, userID int) ([]types.Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *BookingService) ListAll(ctx context.Context) ([]types.Booking, error) {
	return s.repo.ListAll(ctx)
}

func (s *BookingService) ListRange(ctx context.Context, start, end time.Time) ([]types.BookingSlot, error) {
	return s.repo.ListRange(ctx, start, end)
}

// publishCreated emits the booking.created event. Publishing is best
// effort: the booking is already persisted, so failures are logged and
// do not fail the request.
func (s *BookingService) publishCreated(ctx context.Context, booking types.Booking) {
	if s.publisher == nil {
		return
	}

	event := types.BookingCreatedEvent{
		BookingID: booking.ID,
		UserID:    booking.UserID,
		Plan:      booking.Plan,
		Amount:    booking.Amount,
		Currency:  booking.Currency,
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
	}
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to encode booking event", "booking_id", booking.ID, "error", err)
		return
	}

	if _, err := s.publisher.Publish(ctx, BookingCreatedChannel, data, nil); err != nil {
		slog.Error("failed to publish booking event", "booking_id", booking.ID, "error", err)
	}
}
