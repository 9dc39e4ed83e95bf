package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/deskhive/apiserver/internal/services"
	"github.com/deskhive/apiserver/internal/store"
	"github.com/deskhive/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const testJWTSecret = "test-secret"

// fakeUserRepo is an in-memory services.UserRepository.
type fakeUserRepo struct {
	nextID int
	users  map[int]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]types.User)}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (types.User, error) {
	user, ok := r.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	user.ID = r.nextID
	r.nextID++
	user.IsActive = true
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user types.User) (types.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return user, nil
}

// fakeBookingRepo is an in-memory services.BookingRepository. Listings
// reproduce the store's ordering contract.
type fakeBookingRepo struct {
	nextID   int
	bookings map[int]types.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{nextID: 1, bookings: make(map[int]types.Booking)}
}

func (r *fakeBookingRepo) Create(_ context.Context, booking types.Booking) (types.Booking, error) {
	booking.ID = r.nextID
	r.nextID++
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.bookings[booking.ID] = booking
	return booking, nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id int) (types.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return types.Booking{}, store.ErrNotFound
	}
	return booking, nil
}

func (r *fakeBookingRepo) ListByUser(_ context.Context, userID int) ([]types.Booking, error) {
	bookings := make([]types.Booking, 0)
	for _, booking := range r.bookings {
		if booking.UserID == userID {
			bookings = append(bookings, booking)
		}
	}
	sortByStartDesc(bookings)
	return bookings, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context) ([]types.Booking, error) {
	bookings := make([]types.Booking, 0)
	for _, booking := range r.bookings {
		bookings = append(bookings, booking)
	}
	sortByStartDesc(bookings)
	return bookings, nil
}

func (r *fakeBookingRepo) ListRange(_ context.Context, start, end time.Time) ([]types.BookingSlot, error) {
	slots := make([]types.BookingSlot, 0)
	for _, booking := range r.bookings {
		if !booking.StartTime.Before(start) && !booking.StartTime.After(end) {
			slots = append(slots, types.BookingSlot{
				StartTime: booking.StartTime,
				Plan:      booking.Plan,
				Metadata:  booking.Metadata,
			})
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].StartTime.Before(slots[j].StartTime) })
	return slots, nil
}

func sortByStartDesc(bookings []types.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].StartTime.After(bookings[j].StartTime)
	})
}

// fakeSpaceRepo is an in-memory services.SpaceRepository.
type fakeSpaceRepo struct {
	nextLocationID int
	nextSpaceID    int
	locations      map[int]types.Location
	spaces         map[int]types.Space
}

func newFakeSpaceRepo() *fakeSpaceRepo {
	return &fakeSpaceRepo{
		nextLocationID: 1,
		nextSpaceID:    1,
		locations:      make(map[int]types.Location),
		spaces:         make(map[int]types.Space),
	}
}

func (r *fakeSpaceRepo) CreateLocation(_ context.Context, location types.Location) (types.Location, error) {
	location.ID = r.nextLocationID
	r.nextLocationID++
	if location.Photos == nil {
		location.Photos = []string{}
	}
	r.locations[location.ID] = location
	return location, nil
}

func (r *fakeSpaceRepo) GetLocation(_ context.Context, id int) (types.Location, error) {
	location, ok := r.locations[id]
	if !ok {
		return types.Location{}, store.ErrNotFound
	}
	return location, nil
}

func (r *fakeSpaceRepo) ListLocations(_ context.Context) ([]types.Location, error) {
	locations := make([]types.Location, 0)
	for id := 1; id < r.nextLocationID; id++ {
		if location, ok := r.locations[id]; ok {
			locations = append(locations, location)
		}
	}
	return locations, nil
}

func (r *fakeSpaceRepo) AddLocationPhoto(_ context.Context, id int, key string) error {
	location, ok := r.locations[id]
	if !ok {
		return store.ErrNotFound
	}
	location.Photos = append(location.Photos, key)
	r.locations[id] = location
	return nil
}

func (r *fakeSpaceRepo) CreateSpace(_ context.Context, space types.Space) (types.Space, error) {
	space.ID = r.nextSpaceID
	r.nextSpaceID++
	r.spaces[space.ID] = space
	return space, nil
}

func (r *fakeSpaceRepo) ListSpacesByLocation(_ context.Context, locationID int, activeOnly bool) ([]types.Space, error) {
	spaces := make([]types.Space, 0)
	for id := 1; id < r.nextSpaceID; id++ {
		space, ok := r.spaces[id]
		if !ok || space.LocationID != locationID {
			continue
		}
		if activeOnly && !space.IsActive {
			continue
		}
		spaces = append(spaces, space)
	}
	return spaces, nil
}

// fakePricingRepo is an in-memory services.PricingRuleRepository.
type fakePricingRepo struct {
	nextID int
	rules  []types.PricingRule
}

func newFakePricingRepo() *fakePricingRepo {
	return &fakePricingRepo{nextID: 1}
}

func (r *fakePricingRepo) Create(_ context.Context, rule types.PricingRule) (types.PricingRule, error) {
	rule.ID = r.nextID
	r.nextID++
	r.rules = append(r.rules, rule)
	return rule, nil
}

func (r *fakePricingRepo) List(_ context.Context) ([]types.PricingRule, error) {
	return append([]types.PricingRule(nil), r.rules...), nil
}

// testEnv bundles the fakes behind a fully wired API router.
type testEnv struct {
	router      *chi.Mux
	userRepo    *fakeUserRepo
	bookingRepo *fakeBookingRepo
	spaceRepo   *fakeSpaceRepo
	pricingRepo *fakePricingRepo
}

func newTestEnv() *testEnv {
	env := &testEnv{
		userRepo:    newFakeUserRepo(),
		bookingRepo: newFakeBookingRepo(),
		spaceRepo:   newFakeSpaceRepo(),
		pricingRepo: newFakePricingRepo(),
	}

	userService := services.NewUserService(env.userRepo)
	bookingService := services.NewBookingService(env.bookingRepo, nil)
	spaceService := services.NewSpaceService(env.spaceRepo, nil)
	pricingService := services.NewPricingRuleService(env.pricingRepo)

	authMiddleware := RequireAuth(testJWTSecret)

	router := chi.NewRouter()
	router.Get("/health", Health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			AuthRouter(r, userService, testJWTSecret)
		})
		r.Route("/bookings", func(r chi.Router) {
			BookingRouter(r, bookingService, authMiddleware)
		})
		r.Route("/spaces", func(r chi.Router) {
			SpaceRouter(r, spaceService, pricingService, authMiddleware)
		})
	})

	env.router = router
	return env
}

// tokenFor mints a valid token directly, bypassing registration.
func (env *testEnv) tokenFor(userID int, role types.Role) (string, error) {
	return issueToken(userID, role, []byte(testJWTSecret), time.Hour)
}

// registerUser creates a user through the repo and returns a token.
func (env *testEnv) registerUser(email string, role types.Role) (types.User, string, error) {
	user, err := env.userRepo.Create(context.Background(), types.User{
		Email:        email,
		Name:         "Test User",
		Role:         role,
		PasswordHash: "x",
	})
	if err != nil {
		return types.User{}, "", err
	}
	token, err := env.tokenFor(user.ID, user.Role)
	return user, token, err
}

func authHeader(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
}
