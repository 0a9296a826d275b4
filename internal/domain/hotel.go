package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidValue = errors.New("invalid value")
)

// Hotel is a single hotel record. Every attribute is optional; when a Hotel
// is used as a patch, nil fields are left untouched.
type Hotel struct {
	ID                    string   `json:"_id"`
	Name                  *string  `json:"name,omitempty"`
	Category              *string  `json:"category,omitempty"`
	PriceRange            any      `json:"priceRange,omitempty"` // string or number, stored as supplied
	Rating                *float64 `json:"rating,omitempty"`
	PhoneNumber           *string  `json:"phoneNumber,omitempty"`
	IsParkingAvailable    *bool    `json:"isParkingAvailable,omitempty"`
	IsRestaurantAvailable *bool    `json:"isRestaurantAvailable,omitempty"`
}

type Field string

const (
	FieldName                  Field = "name"
	FieldCategory              Field = "category"
	FieldPriceRange            Field = "priceRange"
	FieldRating                Field = "rating"
	FieldPhoneNumber           Field = "phoneNumber"
	FieldIsParkingAvailable    Field = "isParkingAvailable"
	FieldIsRestaurantAvailable Field = "isRestaurantAvailable"
)

// Fields lists the hotel attributes in storage order.
var Fields = []Field{
	FieldName,
	FieldCategory,
	FieldPriceRange,
	FieldRating,
	FieldPhoneNumber,
	FieldIsParkingAvailable,
	FieldIsRestaurantAvailable,
}

// Filter is a single-field equality filter. The zero Filter matches everything.
type Filter struct {
	Field Field
	Value any
}

func (f Filter) IsZero() bool { return f.Field == "" }

func (f Filter) String() string {
	if f.IsZero() {
		return "all"
	}
	return fmt.Sprintf("%s=%v", f.Field, f.Value)
}

// FieldValue pairs an attribute with its value.
type FieldValue struct {
	Field Field
	Value any
}

// Get returns the value of field f, or nil if it is unset.
func (h Hotel) Get(f Field) any {
	switch f {
	case FieldName:
		return deref(h.Name)
	case FieldCategory:
		return deref(h.Category)
	case FieldPriceRange:
		return h.PriceRange
	case FieldRating:
		return deref(h.Rating)
	case FieldPhoneNumber:
		return deref(h.PhoneNumber)
	case FieldIsParkingAvailable:
		return deref(h.IsParkingAvailable)
	case FieldIsRestaurantAvailable:
		return deref(h.IsRestaurantAvailable)
	}
	return nil
}

// SetFields returns the non-nil attributes of h in storage order.
func (h Hotel) SetFields() []FieldValue {
	out := make([]FieldValue, 0, len(Fields))
	for _, f := range Fields {
		if v := h.Get(f); v != nil {
			out = append(out, FieldValue{Field: f, Value: v})
		}
	}
	return out
}

// Merge returns h with every non-nil attribute of patch applied.
// The identifier is never changed.
func (h Hotel) Merge(patch Hotel) Hotel {
	out := h
	if patch.Name != nil {
		out.Name = patch.Name
	}
	if patch.Category != nil {
		out.Category = patch.Category
	}
	if patch.PriceRange != nil {
		out.PriceRange = patch.PriceRange
	}
	if patch.Rating != nil {
		out.Rating = patch.Rating
	}
	if patch.PhoneNumber != nil {
		out.PhoneNumber = patch.PhoneNumber
	}
	if patch.IsParkingAvailable != nil {
		out.IsParkingAvailable = patch.IsParkingAvailable
	}
	if patch.IsRestaurantAvailable != nil {
		out.IsRestaurantAvailable = patch.IsRestaurantAvailable
	}
	return out
}

// Matches reports whether h satisfies f. Values compare with their stored
// type, so the string "3" does not match the number 3.
func (h Hotel) Matches(f Filter) bool {
	if f.IsZero() {
		return true
	}
	v := h.Get(f.Field)
	if v == nil || f.Value == nil {
		return false
	}
	switch want := f.Value.(type) {
	case float64:
		got, ok := asFloat(v)
		return ok && got == want
	case int:
		got, ok := asFloat(v)
		return ok && got == float64(want)
	case string:
		got, ok := v.(string)
		return ok && got == want
	case bool:
		got, ok := v.(bool)
		return ok && got == want
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
