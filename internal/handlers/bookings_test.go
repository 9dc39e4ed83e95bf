package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/deskhive/apiserver/types"
)

func validBookingRequest() map[string]any {
	return map[string]any{
		"startTime": "2026-09-01T09:00:00Z",
		"endTime":   "2026-09-01T12:00:00Z",
		"plan":      "hourly",
		"amount":    50.0,
	}
}

func TestCreateBooking(t *testing.T) {
	env := newTestEnv()
	alice, token, err := env.registerUser("alice@example.com", types.RoleCustomer)
	if err != nil {
		t.Fatalf("register user: %v", err)
	}

	rec := doJSON(t, env, http.MethodPost, "/api/v1/bookings", token, validBookingRequest())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	booking := decodeBody[types.Booking](t, rec)
	if booking.ID == 0 {
		t.Fatal("booking id not assigned")
	}
	if booking.UserID != alice.ID {
		t.Fatalf("booking owner = %d, want %d", booking.UserID, alice.ID)
	}
	if booking.Plan != types.PlanHourly || booking.Amount != 50 {
		t.Fatalf("unexpected booking: plan=%q amount=%v", booking.Plan, booking.Amount)
	}
	if booking.Status != types.BookingPending {
		t.Fatalf("status = %q, want %q", booking.Status, types.BookingPending)
	}
	if booking.PaymentStatus != types.PaymentUnpaid {
		t.Fatalf("payment status = %q, want %q", booking.PaymentStatus, types.PaymentUnpaid)
	}
	if booking.Currency != types.DefaultCurrency {
		t.Fatalf("currency = %q, want %q", booking.Currency, types.DefaultCurrency)
	}
}

func TestCreateBookingOwnerFromToken(t *testing.T) {
	env := newTestEnv()
	alice, _, err := env.registerUser("alice@example.com", types.RoleCustomer)
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	bob, token, err := env.registerUser("bob@example.com", types.RoleCustomer)
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}

	// A user_id in the body must not override the token's principal.
	req := validBookingRequest()
	req["user_id"] = alice.ID
	req["userId"] = alice.ID

	rec := doJSON(t, env, http.MethodPost, "/api/v1/bookings", token, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	booking := decodeBody[types.Booking](t, rec)
	if booking.UserID != bob.ID {
		t.Fatalf("booking owner = %d, want token principal %d", booking.UserID, bob.ID)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	env := newTestEnv()
	_, token, err := env.registerUser("alice@example.com", types.RoleCustomer)
	if err != nil {
		t.Fatalf("register user: %v", err)
	}

	for _, field := range []string{"startTime", "endTime", "plan", "amount"} {
		t.Run("missing "+field, func(t *testing.T) {
			req := validBookingRequest()
			delete(req, field)
			rec := doJSON(t, env, http.MethodPost, "/api/v1/bookings", token, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}

	t.Run("invalid plan", func(t *testing.T) {
		req := validBookingRequest()
		req["plan"] = "yearly"
		rec := doJSON(t, env, http.MethodPost, "/api/v1/bookings", token, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	if len(env.bookingRepo.bookings) != 0 {
		t.Fatalf("expected no persisted bookings, got %d", len(env.bookingRepo.bookings))
	}
}

func TestCreateBookingUnauthenticated(t *testing.T) {
	env := newTestEnv()

	rec := doJSON(t, env, http.MethodPost, "/api/v1/bookings", "", validBookingRequest())
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if len(env.bookingRepo.bookings) != 0 {
		t.Fatalf("expected no persisted bookings, got %d", len(env.bookingRepo.bookings))
	}
}

func TestListMyBookings(t *testing.T) {
	env := newTestEnv()
	_, aliceToken, err := env.registerUser("alice@example.com", types.RoleCustomer)
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	_, bobToken, err := env.registerUser("bob@example.com", types.RoleCustomer)
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}

	makeBooking := func(token, start string) {
		req := validBookingRequest()
		req["startTime"] = start
		if rec := doJSON(t, env, http.MethodPost, "/api/v1/bookings", token, req); rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
		}
	}
	makeBooking(aliceToken, "2026-09-01T09:00:00Z")
	makeBooking(aliceToken, "2026-09-03T09:00:00Z")
	makeBooking(aliceToken, "2026-09-02T09:00:00Z")
	makeBooking(bobToken, "2026-09-05T09:00:00Z")

	rec := doJSON(t, env, http.MethodGet, "/api/v1/bookings/me", aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", rec.Code, rec.Body.String())
	}
	bookings := decodeBody[[]types.Booking](t, rec)
	if len(bookings) != 3 {
		t.Fatalf("alice sees %d bookings, want 3", len(bookings))
	}
	for i := 1; i < len(bookings); i++ {
		if bookings[i].StartTime.After(bookings[i-1].StartTime) {
			t.Fatalf("bookings not in descending start order: %v before %v",
				bookings[i-1].StartTime, bookings[i].StartTime)
		}
	}

	// Listings are reads: a second call returns the same set.
	rec = doJSON(t, env, http.MethodGet, "/api/v1/bookings/me", aliceToken, nil)
	again := decodeBody[[]types.Booking](t, rec)
	if len(again) != len(bookings) {
		t.Fatalf("second read returned %d bookings, want %d", len(again), len(bookings))
	}

	rec = doJSON(t, env, http.MethodGet, "/api/v1/bookings/me", bobToken, nil)
	bobBookings := decodeBody[[]types.Booking](t, rec)
	if len(bobBookings) != 1 {
		t.Fatalf("bob sees %d bookings, want 1", len(bobBookings))
	}
}

func TestListAllBookingsRequiresManagerRole(t *testing.T) {
	env := newTestEnv()
	_, customerToken, err := env.registerUser("customer@example.com", types.RoleCustomer)
	if err != nil {
		t.Fatalf("register customer: %v", err)
	}
	_, staffToken, err := env.registerUser("staff@example.com", types.RoleStaff)
	if err != nil {
		t.Fatalf("register staff: %v", err)
	}
	_, managerToken, err := env.registerUser("manager@example.com", types.RoleManager)
	if err != nil {
		t.Fatalf("register manager: %v", err)
	}

	if rec := doJSON(t, env, http.MethodPost, "/api/v1/bookings", customerToken, validBookingRequest()); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	for name, token := range map[string]string{"customer": customerToken, "staff": staffToken} {
		if rec := doJSON(t, env, http.MethodGet, "/api/v1/bookings", token, nil); rec.Code != http.StatusForbidden {
			t.Fatalf("%s list-all status = %d, want %d", name, rec.Code, http.StatusForbidden)
		}
		if rec := doJSON(t, env, http.MethodGet, "/api/v1/bookings/range?start=2026-09-01&end=2026-09-02", token, nil); rec.Code != http.StatusForbidden {
			t.Fatalf("%s range status = %d, want %d", name, rec.Code, http.StatusForbidden)
		}
	}

	rec := doJSON(t, env, http.MethodGet, "/api/v1/bookings", managerToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("manager list-all status = %d: %s", rec.Code, rec.Body.String())
	}
	bookings := decodeBody[[]types.Booking](t, rec)
	if len(bookings) != 1 {
		t.Fatalf("manager sees %d bookings, want 1", len(bookings))
	}
}

func TestListBookingsInRange(t *testing.T) {
	env := newTestEnv()
	_, adminToken, err := env.registerUser("admin@example.com", types.RoleAdmin)
	if err != nil {
		t.Fatalf("register admin: %v", err)
	}
	_, customerToken, err := env.registerUser("customer@example.com", types.RoleCustomer)
	if err != nil {
		t.Fatalf("register customer: %v", err)
	}

	starts := []string{
		"2026-08-31T10:00:00Z",
		"2026-09-01T00:00:00Z",
		"2026-09-02T15:00:00Z",
		"2026-09-04T09:00:00Z",
	}
	for _, start := range starts {
		req := validBookingRequest()
		req["startTime"] = start
		req["metadata"] = map[string]any{"source": "test"}
		if rec := doJSON(t, env, http.MethodPost, "/api/v1/bookings", customerToken, req); rec.Code != http.StatusCreated {
			t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
		}
	}

	// Bare dates are accepted; both boundaries are inclusive.
	rec := doJSON(t, env, http.MethodGet, "/api/v1/bookings/range?start=2026-09-01&end=2026-09-03", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("range status = %d: %s", rec.Code, rec.Body.String())
	}
	slots := decodeBody[[]types.BookingSlot](t, rec)
	if len(slots) != 2 {
		t.Fatalf("range returned %d slots, want 2", len(slots))
	}
	for _, slot := range slots {
		if !slot.Plan.Valid() {
			t.Fatalf("slot has invalid plan: %+v", slot)
		}
		if slot.Metadata["source"] != "test" {
			t.Fatalf("slot metadata not carried through: %+v", slot)
		}
	}

	rec = doJSON(t, env, http.MethodGet,
		"/api/v1/bookings/range?start=2026-08-31T00:00:00Z&end=2026-09-05T00:00:00Z", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("rfc3339 range status = %d: %s", rec.Code, rec.Body.String())
	}
	if slots := decodeBody[[]types.BookingSlot](t, rec); len(slots) != 4 {
		t.Fatalf("wide range returned %d slots, want 4", len(slots))
	}

	for _, query := range []string{"", "start=2026-09-01", "end=2026-09-01", "start=bogus&end=2026-09-01"} {
		rec := doJSON(t, env, http.MethodGet, "/api/v1/bookings/range?"+query, adminToken, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("range %q status = %d, want %d", query, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestParseRangeParam(t *testing.T) {
	if _, err := parseRangeParam("2026-09-01T10:30:00Z"); err != nil {
		t.Fatalf("rfc3339 rejected: %v", err)
	}

	parsed, err := parseRangeParam("2026-09-01")
	if err != nil {
		t.Fatalf("bare date rejected: %v", err)
	}
	if want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC); !parsed.Equal(want) {
		t.Fatalf("bare date = %v, want %v", parsed, want)
	}

	for _, raw := range []string{"", "   ", "next tuesday", "2026/09/01"} {
		if _, err := parseRangeParam(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestBookingFlow(t *testing.T) {
	env := newTestEnv()

	rec := doJSON(t, env, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Email:    "alice@example.com",
		Password: "pw",
		Name:     "Alice",
		Role:     types.RoleCustomer,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, env, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "pw",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	token := decodeBody[AuthResponse](t, rec).Token

	if rec := doJSON(t, env, http.MethodPost, "/api/v1/bookings", token, validBookingRequest()); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, env, http.MethodGet, "/api/v1/bookings/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", rec.Code, rec.Body.String())
	}
	bookings := decodeBody[[]types.Booking](t, rec)
	if len(bookings) != 1 {
		t.Fatalf("bookings = %d, want 1", len(bookings))
	}
	if bookings[0].Plan != types.PlanHourly || bookings[0].Amount != 50 {
		t.Fatalf("unexpected booking: plan=%q amount=%v", bookings[0].Plan, bookings[0].Amount)
	}
}

func TestCreateBookingMetadataRoundtrip(t *testing.T) {
	env := newTestEnv()
	_, token, err := env.registerUser("alice@example.com", types.RoleCustomer)
	if err != nil {
		t.Fatalf("register user: %v", err)
	}

	req := validBookingRequest()
	req["metadata"] = map[string]any{"seats": json.Number("4"), "team": "platform"}
	rec := doJSON(t, env, http.MethodPost, "/api/v1/bookings", token, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	booking := decodeBody[types.Booking](t, rec)
	if booking.Metadata["team"] != "platform" {
		t.Fatalf("metadata not carried through: %+v", booking.Metadata)
	}
}
