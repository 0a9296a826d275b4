package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"hotel_directory/internal/domain"
)

type Seeder struct {
	api     domain.HotelCreator
	workers int
}

type SeedReport struct {
	Created int
	Failed  int
}

func NewSeeder(api domain.HotelCreator, workers int) *Seeder {
	if workers <= 0 {
		workers = 1
	}
	return &Seeder{api: api, workers: workers}
}

// ReadHotels decodes a JSON array of hotels.
func ReadHotels(r io.Reader) ([]domain.Hotel, error) {
	var hs []domain.Hotel
	if err := json.NewDecoder(r).Decode(&hs); err != nil {
		return nil, fmt.Errorf("decode hotels: %w", err)
	}
	return hs, nil
}

// Seed creates every hotel through the API with at most s.workers requests
// in flight. Individual failures are counted, not returned; only a cancelled
// context stops the run early.
func (s *Seeder) Seed(ctx context.Context, hotels []domain.Hotel) (SeedReport, error) {
	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup
	var created, failed atomic.Int64

	for i, h := range hotels {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return SeedReport{Created: int(created.Load()), Failed: int(failed.Load())}, err
		}

		wg.Add(1)
		go func(idx int, h domain.Hotel) {
			defer wg.Done()
			defer sem.Release(1)

			out, err := s.api.CreateHotel(ctx, h)
			if err != nil {
				failed.Add(1)
				log.Warn().Int("index", idx).Err(err).Msg("seed failed")
				return
			}
			created.Add(1)
			log.Debug().Int("index", idx).Str("id", out.ID).Msg("seed ok")
		}(i, h)
	}

	wg.Wait()
	return SeedReport{Created: int(created.Load()), Failed: int(failed.Load())}, nil
}
