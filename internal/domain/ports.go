package domain

import "context"

// HotelRepository is implemented by every store backend. Each method issues
// a single logical operation against the hotels collection.
type HotelRepository interface {
	// Write paths
	Create(ctx context.Context, h Hotel) (Hotel, error)
	UpdateByID(ctx context.Context, id string, patch Hotel) (Hotel, error)
	UpdateOne(ctx context.Context, f Filter, patch Hotel) (Hotel, error)
	DeleteByID(ctx context.Context, id string) (Hotel, error)
	DeleteOne(ctx context.Context, f Filter) (Hotel, error)

	// Read paths
	Find(ctx context.Context, f Filter) ([]Hotel, error)

	Ping(ctx context.Context) error
}

// HotelCreator posts new hotels to a running API.
type HotelCreator interface {
	CreateHotel(ctx context.Context, h Hotel) (Hotel, error)
}
