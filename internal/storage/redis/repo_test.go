package redisstore_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"hotel_directory/internal/domain"
	redisstore "hotel_directory/internal/storage/redis"
)

func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }
func pbool(b bool) *bool        { return &b }

func newRepo(t *testing.T) (*redisstore.Repo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = c.Close() })
	return redisstore.New(c, "test"), mr
}

func TestCreateAndFind_InsertionOrder(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, domain.Hotel{Name: pstr("Seaside"), Rating: pfloat(4), PriceRange: "$$"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, _ := repo.Create(ctx, domain.Hotel{Name: pstr("Downtown"), Rating: pfloat(3), IsParkingAvailable: pbool(true)})

	if len(a.ID) != 24 {
		t.Fatalf("unexpected id %q", a.ID)
	}
	if !mr.Exists("test:doc:" + a.ID) {
		t.Fatalf("document key missing")
	}

	all, err := repo.Find(ctx, domain.Filter{})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != b.ID {
		t.Fatalf("unexpected order: %+v", all)
	}

	parking, _ := repo.Find(ctx, domain.Filter{Field: domain.FieldIsParkingAvailable, Value: true})
	if len(parking) != 1 || parking[0].ID != b.ID {
		t.Fatalf("parking: %+v", parking)
	}
	rated, _ := repo.Find(ctx, domain.Filter{Field: domain.FieldRating, Value: 4.0})
	if len(rated) != 1 || rated[0].ID != a.ID {
		t.Fatalf("rating: %+v", rated)
	}
}

func TestFind_Empty(t *testing.T) {
	repo, _ := newRepo(t)
	out, err := repo.Find(context.Background(), domain.Filter{})
	if err != nil || len(out) != 0 {
		t.Fatalf("want empty, got %v %+v", err, out)
	}
}

func TestUpdateByID(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	a, _ := repo.Create(ctx, domain.Hotel{Name: pstr("Seaside"), Rating: pfloat(4), PhoneNumber: pstr("111")})

	up, err := repo.UpdateByID(ctx, a.ID, domain.Hotel{Rating: pfloat(5)})
	if err != nil {
		t.Fatalf("UpdateByID: %v", err)
	}
	if *up.Rating != 5 || *up.Name != "Seaside" || *up.PhoneNumber != "111" {
		t.Fatalf("unexpected: %+v", up)
	}
	got, _ := repo.Find(ctx, domain.Filter{Field: domain.FieldRating, Value: 5.0})
	if len(got) != 1 {
		t.Fatalf("update not persisted")
	}

	if _, err := repo.UpdateByID(ctx, "missing", domain.Hotel{Rating: pfloat(1)}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdateOneAndDeleteOne_FirstMatch(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	a, _ := repo.Create(ctx, domain.Hotel{Name: pstr("Twin"), PhoneNumber: pstr("111")})
	b, _ := repo.Create(ctx, domain.Hotel{Name: pstr("Twin"), PhoneNumber: pstr("111")})

	up, err := repo.UpdateOne(ctx, domain.Filter{Field: domain.FieldName, Value: "Twin"}, domain.Hotel{Category: pstr("Resort")})
	if err != nil || up.ID != a.ID {
		t.Fatalf("UpdateOne: %v %+v", err, up)
	}

	del, err := repo.DeleteOne(ctx, domain.Filter{Field: domain.FieldPhoneNumber, Value: "111"})
	if err != nil || del.ID != a.ID {
		t.Fatalf("DeleteOne: %v %+v", err, del)
	}
	left, _ := repo.Find(ctx, domain.Filter{})
	if len(left) != 1 || left[0].ID != b.ID {
		t.Fatalf("unexpected remaining: %+v", left)
	}

	if _, err := repo.DeleteOne(ctx, domain.Filter{Field: domain.FieldPhoneNumber, Value: "999"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteByID(t *testing.T) {
	repo, mr := newRepo(t)
	ctx := context.Background()
	a, _ := repo.Create(ctx, domain.Hotel{Name: pstr("Gone")})

	del, err := repo.DeleteByID(ctx, a.ID)
	if err != nil || *del.Name != "Gone" {
		t.Fatalf("DeleteByID: %v %+v", err, del)
	}
	if mr.Exists("test:doc:" + a.ID) {
		t.Fatalf("document still present")
	}
	if _, err := repo.DeleteByID(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdateByID_Concurrent(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()
	a, _ := repo.Create(ctx, domain.Hotel{Name: pstr("Busy")})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = repo.UpdateByID(ctx, a.ID, domain.Hotel{Rating: pfloat(float64(n))})
		}(i)
	}
	wg.Wait()

	all, _ := repo.Find(ctx, domain.Filter{})
	if len(all) != 1 || *all[0].Name != "Busy" || all[0].Rating == nil {
		t.Fatalf("unexpected state: %+v", all)
	}
}

func TestPing(t *testing.T) {
	repo, mr := newRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	mr.Close()
	if err := repo.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping failure after close")
	}
}
