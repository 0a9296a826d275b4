package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"hotel_directory/internal/domain"
)

func TestUnmarshal_CastsLooseValues(t *testing.T) {
	var h domain.Hotel
	body := `{"_id":"64b7f0c2a1b2c3d4e5f60718","name":123,"category":true,"rating":" 4.5 ",
		"phoneNumber":5550101,"priceRange":{"min":50,"max":90},
		"isParkingAvailable":"yes","isRestaurantAvailable":0,"stars":7}`
	if err := json.Unmarshal([]byte(body), &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if h.ID != "64b7f0c2a1b2c3d4e5f60718" {
		t.Fatalf("id: %q", h.ID)
	}
	if *h.Name != "123" || *h.Category != "true" || *h.PhoneNumber != "5550101" {
		t.Fatalf("strings: %q %q %q", *h.Name, *h.Category, *h.PhoneNumber)
	}
	if *h.Rating != 4.5 {
		t.Fatalf("rating: %v", *h.Rating)
	}
	if !*h.IsParkingAvailable || *h.IsRestaurantAvailable {
		t.Fatalf("bools: %v %v", *h.IsParkingAvailable, *h.IsRestaurantAvailable)
	}
	if pr, ok := h.PriceRange.(map[string]any); !ok || pr["max"] != 90.0 {
		t.Fatalf("priceRange: %#v", h.PriceRange)
	}
}

func TestUnmarshal_NullAndBlankLeaveUnset(t *testing.T) {
	var h domain.Hotel
	if err := json.Unmarshal([]byte(`{"name":null,"rating":"","isParkingAvailable":null}`), &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(h.SetFields()) != 0 {
		t.Fatalf("expected no fields, got %+v", h.SetFields())
	}
}

func TestUnmarshal_UncastableValues(t *testing.T) {
	for _, body := range []string{
		`{"rating":"five"}`,
		`{"rating":[4]}`,
		`{"isParkingAvailable":"maybe"}`,
		`{"isRestaurantAvailable":2}`,
		`{"name":{"first":"A"}}`,
		`{"phoneNumber":["1"]}`,
	} {
		var h domain.Hotel
		err := json.Unmarshal([]byte(body), &h)
		if !errors.Is(err, domain.ErrInvalidValue) {
			t.Fatalf("%s: want ErrInvalidValue, got %v", body, err)
		}
	}
}

func TestUnmarshal_IntegerNumbersFormatWithoutFraction(t *testing.T) {
	var h domain.Hotel
	if err := json.Unmarshal([]byte(`{"name":2.5,"phoneNumber":1e3}`), &h); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if *h.Name != "2.5" || *h.PhoneNumber != "1000" {
		t.Fatalf("got %q %q", *h.Name, *h.PhoneNumber)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	in := domain.Hotel{ID: "abc", Name: ptr("Seaside"), Rating: ptr(4.0), IsParkingAvailable: ptr(false), PriceRange: "$$"}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out domain.Hotel
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID != "abc" || *out.Name != "Seaside" || *out.Rating != 4 || *out.IsParkingAvailable || out.PriceRange != "$$" {
		t.Fatalf("round trip: %+v", out)
	}
}
