//go:build integration

package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"hotel_directory/internal/adapters/hotelsapi"
	server "hotel_directory/internal/adapters/http_server"
	"hotel_directory/internal/app"
	"hotel_directory/internal/domain"
	"hotel_directory/internal/shared"
	"hotel_directory/internal/storage"
)

// ---------- helpers ----------
func pstr(s string) *string     { return &s }
func pfloat(f float64) *float64 { return &f }
func pbool(b bool) *bool        { return &b }

func openMongoStore(t *testing.T) *storage.Store {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mongo: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	cfg := shared.Config{
		StoreDriver:     shared.DriverMongo,
		MongoURI:        fmt.Sprintf("mongodb://127.0.0.1:%s", resource.GetPort("27017/tcp")),
		MongoDB:         "hotels_e2e",
		MongoCollection: "hotels",
	}
	var st *storage.Store
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var e error
		st, e = storage.Open(ctx, cfg)
		return e
	}); err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

// ---------- the test ----------
func TestHTTP_EndToEnd_SeedAndList(t *testing.T) {
	st := openMongoStore(t)

	srv := server.New(10 * time.Second)
	srv.MountHandlers(&server.Handlers{S: app.NewHotelService(st.Repo)})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	client, err := hotelsapi.New(ts.URL, 100)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	ctx := context.Background()

	// empty store lists as no hotels
	all, err := client.ListHotels(ctx, domain.Filter{})
	if err != nil {
		t.Fatalf("list empty: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected empty list, got %d", len(all))
	}

	hotels := []domain.Hotel{
		{Name: pstr("Seaside"), Category: pstr("Resort"), Rating: pfloat(4.5), PhoneNumber: pstr("111"),
			PriceRange: "$$$", IsParkingAvailable: pbool(true), IsRestaurantAvailable: pbool(true)},
		{Name: pstr("Downtown"), Category: pstr("Business"), Rating: pfloat(4), PhoneNumber: pstr("222"),
			PriceRange: "$$", IsParkingAvailable: pbool(false), IsRestaurantAvailable: pbool(true)},
		{Name: pstr("Hostel 9"), Category: pstr("Budget"), Rating: pfloat(3), PhoneNumber: pstr("333"),
			PriceRange: "$", IsParkingAvailable: pbool(true), IsRestaurantAvailable: pbool(false)},
	}
	rep, err := app.NewSeeder(client, 3).Seed(ctx, hotels)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if rep.Created != 3 || rep.Failed != 0 {
		t.Fatalf("unexpected seed report %+v", rep)
	}

	all, err = client.ListHotels(ctx, domain.Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 hotels, got %d", len(all))
	}
	for _, h := range all {
		if len(h.ID) != 24 {
			t.Fatalf("unexpected id %q", h.ID)
		}
	}

	names := func(hs []domain.Hotel) []string {
		var out []string
		for _, h := range hs {
			out = append(out, *h.Name)
		}
		sort.Strings(out)
		return out
	}

	cases := []struct {
		filter domain.Filter
		want   []string
	}{
		{domain.Filter{Field: domain.FieldName, Value: "Downtown"}, []string{"Downtown"}},
		{domain.Filter{Field: domain.FieldCategory, Value: "Budget"}, []string{"Hostel 9"}},
		{domain.Filter{Field: domain.FieldRating, Value: "4.5"}, []string{"Seaside"}},
		{domain.Filter{Field: domain.FieldPhoneNumber, Value: "222"}, []string{"Downtown"}},
		{domain.Filter{Field: domain.FieldPriceRange, Value: "$$"}, []string{"Downtown"}},
		{domain.Filter{Field: domain.FieldIsParkingAvailable, Value: true}, []string{"Hostel 9", "Seaside"}},
		{domain.Filter{Field: domain.FieldIsRestaurantAvailable, Value: true}, []string{"Downtown", "Seaside"}},
		{domain.Filter{Field: domain.FieldCategory, Value: "Castle"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.filter.String(), func(t *testing.T) {
			got, err := client.ListHotels(ctx, tc.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			g := names(got)
			if len(g) != len(tc.want) {
				t.Fatalf("got %v want %v", g, tc.want)
			}
			for i := range g {
				if g[i] != tc.want[i] {
					t.Fatalf("got %v want %v", g, tc.want)
				}
			}
		})
	}
}
