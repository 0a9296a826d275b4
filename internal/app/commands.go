package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"hotel_directory/internal/domain"
)

// Create persists h with a store-assigned identifier. Any identifier in the
// input is discarded.
func (s *HotelService) Create(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	h.ID = ""
	return s.repo.Create(ctx, h)
}

// UpdateByID merges patch into the hotel and returns the post-update record.
func (s *HotelService) UpdateByID(ctx context.Context, id string, patch domain.Hotel) (domain.Hotel, error) {
	patch.ID = ""
	return s.repo.UpdateByID(ctx, id, patch)
}

// UpdateByName updates the first hotel with the given name.
func (s *HotelService) UpdateByName(ctx context.Context, name string, patch domain.Hotel) (domain.Hotel, error) {
	patch.ID = ""
	return s.repo.UpdateOne(ctx, domain.Filter{Field: domain.FieldName, Value: name}, patch)
}

// UpdateByPhone updates the first hotel with the given phone number.
func (s *HotelService) UpdateByPhone(ctx context.Context, phone string, patch domain.Hotel) (domain.Hotel, error) {
	patch.ID = ""
	return s.repo.UpdateOne(ctx, domain.Filter{Field: domain.FieldPhoneNumber, Value: phone}, patch)
}

// DeleteByID removes the hotel if it exists. A missing hotel is not an error;
// the outcome is only visible in the server log.
func (s *HotelService) DeleteByID(ctx context.Context, id string) error {
	h, err := s.repo.DeleteByID(ctx, id)
	return logDeleted("id", id, h, err)
}

// DeleteByPhone removes the first hotel with the given phone number.
func (s *HotelService) DeleteByPhone(ctx context.Context, phone string) error {
	h, err := s.repo.DeleteOne(ctx, domain.Filter{Field: domain.FieldPhoneNumber, Value: phone})
	return logDeleted("phoneNumber", phone, h, err)
}

func logDeleted(key, val string, h domain.Hotel, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		log.Info().Str(key, val).Msg("delete: no hotel matched")
		return nil
	}
	if err != nil {
		return err
	}
	log.Info().Str(key, val).Interface("hotel", h).Msg("deleted hotel")
	return nil
}
