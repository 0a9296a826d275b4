package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"hotel_directory/internal/domain"
)

type HotelService struct {
	repo domain.HotelRepository
}

func NewHotelService(r domain.HotelRepository) *HotelService {
	return &HotelService{repo: r}
}

func (s *HotelService) List(ctx context.Context) ([]domain.Hotel, error) {
	return s.repo.Find(ctx, domain.Filter{})
}

func (s *HotelService) ByName(ctx context.Context, name string) ([]domain.Hotel, error) {
	return s.repo.Find(ctx, domain.Filter{Field: domain.FieldName, Value: name})
}

func (s *HotelService) ByCategory(ctx context.Context, category string) ([]domain.Hotel, error) {
	return s.repo.Find(ctx, domain.Filter{Field: domain.FieldCategory, Value: category})
}

// ByRating casts the raw path value to a number before querying, so "4" and
// "4.0" both find hotels rated 4.
func (s *HotelService) ByRating(ctx context.Context, raw string) ([]domain.Hotel, error) {
	f, err := ratingFilter(raw)
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, f)
}

func (s *HotelService) ByPhone(ctx context.Context, phone string) ([]domain.Hotel, error) {
	return s.repo.Find(ctx, domain.Filter{Field: domain.FieldPhoneNumber, Value: phone})
}

// ByPriceRange compares as a string; a numerically stored price range does
// not match its string form.
func (s *HotelService) ByPriceRange(ctx context.Context, priceRange string) ([]domain.Hotel, error) {
	return s.repo.Find(ctx, domain.Filter{Field: domain.FieldPriceRange, Value: priceRange})
}

func (s *HotelService) WithParking(ctx context.Context) ([]domain.Hotel, error) {
	return s.repo.Find(ctx, domain.Filter{Field: domain.FieldIsParkingAvailable, Value: true})
}

func (s *HotelService) WithRestaurant(ctx context.Context) ([]domain.Hotel, error) {
	return s.repo.Find(ctx, domain.Filter{Field: domain.FieldIsRestaurantAvailable, Value: true})
}

// Ping reports whether the backing store is reachable.
func (s *HotelService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func ratingFilter(raw string) (domain.Filter, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return domain.Filter{}, fmt.Errorf("rating %q: %w", raw, domain.ErrInvalidValue)
	}
	return domain.Filter{Field: domain.FieldRating, Value: n}, nil
}
