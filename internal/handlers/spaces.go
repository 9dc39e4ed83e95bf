package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/deskhive/apiserver/internal/services"
	"github.com/deskhive/apiserver/internal/store"
	"github.com/deskhive/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const (
	maxMultipartMemory = 16 << 20
	maxPhotoBytes      = 8 << 20
	formFieldPhoto     = "photo"
)

// SpaceHandler provides HTTP handlers for inventory: locations, spaces,
// location photos, and rate-card rules.
type SpaceHandler struct {
	spaceService   *services.SpaceService
	pricingService *services.PricingRuleService
}

// NewSpaceHandler constructs a handler with the provided services.
func NewSpaceHandler(spaceService *services.SpaceService, pricingService *services.PricingRuleService) *SpaceHandler {
	return &SpaceHandler{
		spaceService:   spaceService,
		pricingService: pricingService,
	}
}

// SpaceRouter registers inventory routes on the given router.
func SpaceRouter(
	r chi.Router,
	spaceService *services.SpaceService,
	pricingService *services.PricingRuleService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewSpaceHandler(spaceService, pricingService)
	manageInventory := RequireCapability(types.Role.CanManageInventory)

	r.With(authMiddleware, manageInventory).Post("/locations", handler.CreateLocation)
	r.With(authMiddleware, manageInventory).Post("/locations/{locationID}/photos", handler.UploadLocationPhoto)
	r.With(authMiddleware, manageInventory).Post("/spaces", handler.CreateSpace)
	r.With(authMiddleware, manageInventory).Post("/pricing-rules", handler.CreatePricingRule)
	r.With(authMiddleware, manageInventory).Get("/pricing-rules", handler.ListPricingRules)

	r.Get("/public/locations", handler.ListPublicLocations)
	r.Get("/public/locations/{locationID}/spaces", handler.ListPublicSpaces)
}

// CreateLocationRequest is the location creation payload.
type CreateLocationRequest struct {
	Name         string               `json:"name"`
	Address      string               `json:"address"`
	City         string               `json:"city"`
	Country      string               `json:"country"`
	Timezone     string               `json:"timezone"`
	Amenities    []string             `json:"amenities"`
	WorkingHours []types.WorkingHours `json:"workingHours"`
}

func (h *SpaceHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Address == "" || req.City == "" || req.Country == "" || req.Timezone == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	location, err := h.spaceService.CreateLocation(r.Context(), types.Location{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		Country:      req.Country,
		Timezone:     req.Timezone,
		Amenities:    req.Amenities,
		WorkingHours: req.WorkingHours,
	})
	if err != nil {
		slog.Error("failed to create location", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create location")
		return
	}

	writeJSON(w, http.StatusCreated, location)
}

// CreateSpaceRequest is the space creation payload.
type CreateSpaceRequest struct {
	LocationID int             `json:"locationId"`
	Name       string          `json:"name"`
	Type       types.SpaceType `json:"type"`
	Floor      *string         `json:"floor"`
	Capacity   int             `json:"capacity"`
	Amenities  []string        `json:"amenities"`
	IsActive   *bool           `json:"isActive"`
}

func (h *SpaceHandler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	var req CreateSpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.LocationID < 1 || req.Name == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if !req.Type.Valid() {
		writeError(w, http.StatusBadRequest, "invalid space type")
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	space, err := h.spaceService.CreateSpace(r.Context(), types.Space{
		LocationID: req.LocationID,
		Name:       req.Name,
		Type:       req.Type,
		Floor:      req.Floor,
		Capacity:   req.Capacity,
		Amenities:  req.Amenities,
		IsActive:   isActive,
	})
	if err != nil {
		slog.Error("failed to create space", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create space")
		return
	}

	writeJSON(w, http.StatusCreated, space)
}

func (h *SpaceHandler) UploadLocationPhoto(w http.ResponseWriter, r *http.Request) {
	locationID, err := parseLocationID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File[formFieldPhoto]) != 1 {
		writeError(w, http.StatusBadRequest, "exactly one photo file is required")
		return
	}

	fileHeader := r.MultipartForm.File[formFieldPhoto][0]
	file, err := fileHeader.Open()
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read photo")
		return
	}
	data, err := readFileLimited(file, maxPhotoBytes)
	_ = file.Close()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key, err := h.spaceService.UploadLocationPhoto(
		r.Context(),
		locationID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoPhotoStorage):
			writeError(w, http.StatusServiceUnavailable, "photo storage is not configured")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "location not found")
		default:
			slog.Error("failed to upload photo", "location_id", locationID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to upload photo")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}

// CreatePricingRuleRequest is the rate-card row payload.
type CreatePricingRuleRequest struct {
	LocationID         *int       `json:"locationId"`
	SpaceID            *int       `json:"spaceId"`
	Plan               types.Plan `json:"plan"`
	BaseRate           *float64   `json:"baseRate"`
	Currency           string     `json:"currency"`
	WeekendMultiplier  *float64   `json:"weekendMultiplier"`
	PeakHourMultiplier *float64   `json:"peakHourMultiplier"`
	HolidayMultiplier  *float64   `json:"holidayMultiplier"`
	Active             *bool      `json:"active"`
}

func (h *SpaceHandler) CreatePricingRule(w http.ResponseWriter, r *http.Request) {
	var req CreatePricingRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if !req.Plan.Valid() || req.BaseRate == nil {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	rule, err := h.pricingService.Create(r.Context(), types.PricingRule{
		LocationID:         req.LocationID,
		SpaceID:            req.SpaceID,
		Plan:               req.Plan,
		BaseRate:           *req.BaseRate,
		Currency:           req.Currency,
		WeekendMultiplier:  req.WeekendMultiplier,
		PeakHourMultiplier: req.PeakHourMultiplier,
		HolidayMultiplier:  req.HolidayMultiplier,
		Active:             active,
	})
	if err != nil {
		slog.Error("failed to create pricing rule", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create pricing rule")
		return
	}

	writeJSON(w, http.StatusCreated, rule)
}

func (h *SpaceHandler) ListPricingRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.pricingService.List(r.Context())
	if err != nil {
		slog.Error("failed to list pricing rules", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch pricing rules")
		return
	}

	writeJSON(w, http.StatusOK, rules)
}

func (h *SpaceHandler) ListPublicLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.spaceService.ListLocations(r.Context())
	if err != nil {
		slog.Error("failed to list locations", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch locations")
		return
	}

	writeJSON(w, http.StatusOK, locations)
}

func (h *SpaceHandler) ListPublicSpaces(w http.ResponseWriter, r *http.Request) {
	locationID, err := parseLocationID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	spaces, err := h.spaceService.ListSpacesByLocation(r.Context(), locationID, true)
	if err != nil {
		slog.Error("failed to list spaces", "location_id", locationID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch spaces")
		return
	}

	writeJSON(w, http.StatusOK, spaces)
}

func parseLocationID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "locationID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid location id")
	}
	return id, nil
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
