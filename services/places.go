package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"tripplanner/database"
)

const (
	catalogueTTL     = 10 * time.Minute
	catalogueCleanup = 30 * time.Minute
)

// PlaceReader is the read side of the place and hotel catalogue.
type PlaceReader interface {
	ListPlaces(ctx context.Context) ([]database.Place, error)
	GetPlace(ctx context.Context, id int64) (*database.Place, error)
	ListHotels(ctx context.Context, placeID int64) ([]database.Hotel, error)
	GetHotel(ctx context.Context, id int64) (*database.Hotel, error)
}

// PlaceService is a read-through cache in front of a PlaceReader. Concurrent misses for
// the same key share one store call. Errors are never cached.
type PlaceService struct {
	store PlaceReader
	cache *cache.Cache
	group singleflight.Group
}

var _ PlaceReader = (*PlaceService)(nil)

func NewPlaceService(store PlaceReader) *PlaceService {
	return &PlaceService{
		store: store,
		cache: cache.New(catalogueTTL, catalogueCleanup),
	}
}

func (s *PlaceService) ListPlaces(ctx context.Context) ([]database.Place, error) {
	return cached(s, "places", func() ([]database.Place, error) {
		return s.store.ListPlaces(ctx)
	})
}

func (s *PlaceService) GetPlace(ctx context.Context, id int64) (*database.Place, error) {
	return cached(s, fmt.Sprintf("place:%d", id), func() (*database.Place, error) {
		return s.store.GetPlace(ctx, id)
	})
}

func (s *PlaceService) ListHotels(ctx context.Context, placeID int64) ([]database.Hotel, error) {
	return cached(s, fmt.Sprintf("place:%d:hotels", placeID), func() ([]database.Hotel, error) {
		return s.store.ListHotels(ctx, placeID)
	})
}

func (s *PlaceService) GetHotel(ctx context.Context, id int64) (*database.Hotel, error) {
	return cached(s, fmt.Sprintf("hotel:%d", id), func() (*database.Hotel, error) {
		return s.store.GetHotel(ctx, id)
	})
}

func cached[T any](s *PlaceService, key string, load func() (T, error)) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.(T), nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, v, cache.DefaultExpiration)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
