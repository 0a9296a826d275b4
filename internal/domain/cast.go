package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UnmarshalJSON decodes a loosely typed hotel body. Each attribute is cast
// to its field type: "4.5" becomes 4.5, "true" becomes true and 123 becomes
// "123". A value that cannot be cast fails with ErrInvalidValue. Unknown
// keys are ignored; null leaves the attribute unset.
func (h *Hotel) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("hotel body: %w", err)
	}

	var out Hotel
	var err error
	if id, ok := m["_id"].(string); ok {
		out.ID = id
	}
	if out.Name, err = castString(m, FieldName); err != nil {
		return err
	}
	if out.Category, err = castString(m, FieldCategory); err != nil {
		return err
	}
	out.PriceRange = m[string(FieldPriceRange)]
	if out.Rating, err = castFloat(m, FieldRating); err != nil {
		return err
	}
	if out.PhoneNumber, err = castString(m, FieldPhoneNumber); err != nil {
		return err
	}
	if out.IsParkingAvailable, err = castBool(m, FieldIsParkingAvailable); err != nil {
		return err
	}
	if out.IsRestaurantAvailable, err = castBool(m, FieldIsRestaurantAvailable); err != nil {
		return err
	}
	*h = out
	return nil
}

func castError(f Field, v any) error {
	return fmt.Errorf("%s: cannot cast %#v: %w", f, v, ErrInvalidValue)
}

// castString: strings pass through, numbers and booleans are formatted.
func castString(m map[string]any, f Field) (*string, error) {
	var s string
	switch v := m[string(f)].(type) {
	case nil:
		return nil, nil
	case string:
		s = v
	case float64:
		s = formatNumber(v)
	case bool:
		s = strconv.FormatBool(v)
	default:
		return nil, castError(f, v)
	}
	return &s, nil
}

// castFloat: numbers pass through, numeric strings are parsed, booleans
// count as 1 and 0. A blank string leaves the attribute unset.
func castFloat(m map[string]any, f Field) (*float64, error) {
	var n float64
	switch v := m[string(f)].(type) {
	case nil:
		return nil, nil
	case float64:
		n = v
	case bool:
		if v {
			n = 1
		}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, castError(f, v)
		}
		n = x
	default:
		return nil, castError(f, v)
	}
	return &n, nil
}

// castBool accepts true/false, 1/0 and the strings "true", "1", "yes" and
// "false", "0", "no".
func castBool(m map[string]any, f Field) (*bool, error) {
	var b bool
	switch v := m[string(f)].(type) {
	case nil:
		return nil, nil
	case bool:
		b = v
	case float64:
		switch v {
		case 1:
			b = true
		case 0:
			b = false
		default:
			return nil, castError(f, v)
		}
	case string:
		switch v {
		case "true", "1", "yes":
			b = true
		case "false", "0", "no":
			b = false
		default:
			return nil, castError(f, v)
		}
	default:
		return nil, castError(f, v)
	}
	return &b, nil
}

// formatNumber prints integers without a fraction and switches to
// exponent form from 1e21 up.
func formatNumber(v float64) string {
	if math.Abs(v) >= 1e21 {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
