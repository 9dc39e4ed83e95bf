package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/deskhive/apiserver/internal/services"
	"github.com/deskhive/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// BookingHandler provides HTTP handlers for bookings.
type BookingHandler struct {
	bookingService *services.BookingService
}

// NewBookingHandler constructs a handler with the provided service.
func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// BookingRouter registers booking routes on the given router.
func BookingRouter(
	r chi.Router,
	bookingService *services.BookingService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewBookingHandler(bookingService)
	manageBookings := RequireCapability(types.Role.CanManageBookings)

	r.With(authMiddleware).Post("/", handler.CreateBooking)
	r.With(authMiddleware).Get("/me", handler.ListMyBookings)
	r.With(authMiddleware, manageBookings).Get("/", handler.ListAllBookings)
	r.With(authMiddleware, manageBookings).Get("/range", handler.ListBookingsInRange)
}

// CreateBookingRequest is the booking submission payload. The owning
// user always comes from the principal, never from the body.
type CreateBookingRequest struct {
	StartTime *time.Time     `json:"startTime"`
	EndTime   *time.Time     `json:"endTime"`
	Plan      types.Plan     `json:"plan"`
	Amount    *float64       `json:"amount"`
	Currency  string         `json:"currency"`
	Metadata  map[string]any `json:"metadata"`
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.StartTime == nil || req.EndTime == nil || req.Plan == "" || req.Amount == nil {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if !req.Plan.Valid() {
		writeError(w, http.StatusBadRequest, "invalid plan")
		return
	}

	booking, err := h.bookingService.Create(r.Context(), types.Booking{
		UserID:    principal.UserID,
		StartTime: *req.StartTime,
		EndTime:   *req.EndTime,
		Plan:      req.Plan,
		Amount:    *req.Amount,
		Currency:  req.Currency,
		Metadata:  req.Metadata,
	})
	if err != nil {
		slog.Error("failed to create booking", "user_id", principal.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create booking")
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	principal, err := principalFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	bookings, err := h.bookingService.ListByUser(r.Context(), principal.UserID)
	if err != nil {
		slog.Error("failed to list bookings", "user_id", principal.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch bookings")
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) ListAllBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListAll(r.Context())
	if err != nil {
		slog.Error("failed to list all bookings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch bookings")
		return
	}

	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) ListBookingsInRange(w http.ResponseWriter, r *http.Request) {
	start, err := parseRangeParam(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start and end query params are required")
		return
	}
	end, err := parseRangeParam(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start and end query params are required")
		return
	}

	slots, err := h.bookingService.ListRange(r.Context(), start, end)
	if err != nil {
		slog.Error("failed to list bookings in range", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch bookings")
		return
	}

	writeJSON(w, http.StatusOK, slots)
}

// parseRangeParam accepts RFC 3339 timestamps and bare dates.
func parseRangeParam(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing range boundary")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
