package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/deskhive/apiserver/config"
	"github.com/deskhive/apiserver/internal/db"
	"github.com/deskhive/apiserver/internal/handlers"
	"github.com/deskhive/apiserver/internal/metrics"
	"github.com/deskhive/apiserver/internal/mq"
	"github.com/deskhive/apiserver/internal/services"
	"github.com/deskhive/apiserver/internal/storage"
	"github.com/deskhive/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server wraps the HTTP server and the resources it owns.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
}

// New constructs a Server: it opens the database, the optional broker
// and photo store, and wires repositories, services, and routes.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	jwtSecret := strings.TrimSpace(cfg.JWT.Secret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	broker, err := mq.NewFromConfig(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	photoStore, err := storage.NewFromConfig(ctx, cfg.Storage)
	if err != nil {
		closeAll(dbConn, broker)
		return nil, err
	}
	if photoStore != nil {
		if err := photoStore.EnsureBucket(ctx); err != nil {
			closeAll(dbConn, broker)
			return nil, err
		}
	}

	userRepo := store.NewUserRepository(dbConn)
	bookingRepo := store.NewBookingRepository(dbConn)
	spaceRepo := store.NewSpaceRepository(dbConn)
	pricingRepo := store.NewPricingRuleRepository(dbConn)

	userService := services.NewUserService(userRepo)
	spaceService := services.NewSpaceService(spaceRepo, photoStore)
	pricingService := services.NewPricingRuleService(pricingRepo)

	var publisher services.EventPublisher
	if broker != nil {
		publisher = broker
	}
	bookingService := services.NewBookingService(bookingRepo, publisher)

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		metrics.Middleware,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/health", handlers.Health)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, userService, jwtSecret)
		})
		r.Route("/bookings", func(r chi.Router) {
			handlers.BookingRouter(r, bookingService, authMiddleware)
		})
		r.Route("/spaces", func(r chi.Router) {
			handlers.SpaceRouter(r, spaceService, pricingService, authMiddleware)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown and releases owned resources.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.httpServer.Shutdown(ctx)
	closeAll(s.db, s.broker)
	return err
}

func closeAll(db *sql.DB, broker *mq.MQ) {
	if broker != nil {
		_ = broker.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}
