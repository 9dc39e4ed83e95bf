package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/deskhive/apiserver/internal/storage"
	"github.com/deskhive/apiserver/types"
)

// ErrNoPhotoStorage is returned when a photo upload arrives and no
// object storage backend is configured.
var ErrNoPhotoStorage = errors.New("photo storage is not configured")

// SpaceRepository defines persistence operations for locations and spaces.
type SpaceRepository interface {
	CreateLocation(ctx context.Context, location types.Location) (types.Location, error)
	GetLocation(ctx context.Context, id int) (types.Location, error)
	ListLocations(ctx context.Context) ([]types.Location, error)
	AddLocationPhoto(ctx context.Context, id int, key string) error
	CreateSpace(ctx context.Context, space types.Space) (types.Space, error)
	ListSpacesByLocation(ctx context.Context, locationID int, activeOnly bool) ([]types.Space, error)
}

// SpaceService encapsulates inventory use-cases.
type SpaceService struct {
	repo    SpaceRepository
	storage *storage.Storage
}

// NewSpaceService constructs a SpaceService. storage may be nil, in
// which case photo uploads are rejected with ErrNoPhotoStorage.
func NewSpaceService(repo SpaceRepository, store *storage.Storage) *SpaceService {
	return &SpaceService{repo: repo, storage: store}
}

func (s *SpaceService) CreateLocation(ctx context.Context, location types.Location) (types.Location, error) {
	return s.repo.CreateLocation(ctx, location)
}

func (s *SpaceService) GetLocation(ctx context.Context, id int) (types.Location, error) {
	return s.repo.GetLocation(ctx, id)
}

func (s *SpaceService) ListLocations(ctx context.Context) ([]types.Location, error) {
	return s.repo.ListLocations(ctx)
}

func (s *SpaceService) CreateSpace(ctx context.Context, space types.Space) (types.Space, error) {
	if space.Capacity < 1 {
		space.Capacity = 1
	}
	return s.repo.CreateSpace(ctx, space)
}

func (s *SpaceService) ListSpacesByLocation(ctx context.Context, locationID int, activeOnly bool) ([]types.Space, error) {
	return s.repo.ListSpacesByLocation(ctx, locationID, activeOnly)
}

// UploadLocationPhoto stores a photo under a content-addressed key and
// appends the key to the location's photo list. Returns the stored key.
func (s *SpaceService) UploadLocationPhoto(ctx context.Context, locationID int, filename, contentType string, data []byte) (string, error) {
	if s.storage == nil {
		return "", ErrNoPhotoStorage
	}
	if len(data) == 0 {
		return "", errors.New("empty photo data")
	}

	if _, err := s.repo.GetLocation(ctx, locationID); err != nil {
		return "", err
	}

	hash := sha256.Sum256(data)
	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("locations/%d/%s%s", locationID, hex.EncodeToString(hash[:]), ext)

	if err := s.storage.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return "", err
	}

	if err := s.repo.AddLocationPhoto(ctx, locationID, key); err != nil {
		return "", err
	}
	return key, nil
}
