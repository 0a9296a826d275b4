// internal/adapters/hotelsapi/client.go
package hotelsapi

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotel_directory/internal/adapters/observability"
	"hotel_directory/internal/domain"
)

const maxAttempts = 4

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter
}

func New(base string, rps int) (*Client, error) {
	if base == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("base URL: %w", err)
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

// CreateHotel posts h and returns the stored record.
func (c *Client) CreateHotel(ctx context.Context, h domain.Hotel) (domain.Hotel, error) {
	body, err := json.Marshal(h)
	if err != nil {
		return domain.Hotel{}, err
	}
	var out struct {
		Hotel domain.Hotel `json:"hotel"`
	}
	if err := c.do(ctx, "create", http.MethodPost, c.base+"/hotels", body, &out); err != nil {
		return domain.Hotel{}, err
	}
	return out.Hotel, nil
}

// ListHotels fetches hotels matching f. The API answers 404 for an empty
// result; that is returned as an empty slice.
func (c *Client) ListHotels(ctx context.Context, f domain.Filter) ([]domain.Hotel, error) {
	p, err := listPath(f)
	if err != nil {
		return nil, err
	}
	var out []domain.Hotel
	err = c.do(ctx, "list", http.MethodGet, c.base+p, nil, &out)
	if errors.Is(err, ErrNotFound) {
		return []domain.Hotel{}, nil
	}
	return out, err
}

func listPath(f domain.Filter) (string, error) {
	v := url.PathEscape(fmt.Sprint(f.Value))
	switch f.Field {
	case "":
		return "/hotels", nil
	case domain.FieldName:
		return "/hotels/" + v, nil
	case domain.FieldCategory:
		return "/hotels/category/" + v, nil
	case domain.FieldRating:
		return "/hotels/rating/" + v, nil
	case domain.FieldPhoneNumber:
		return "/hotels/directory/" + v, nil
	case domain.FieldPriceRange:
		return "/hotels/price/" + v, nil
	case domain.FieldIsParkingAvailable:
		return "/hotels/amenities/parking", nil
	case domain.FieldIsRestaurantAvailable:
		return "/hotels/amenities/restaurant", nil
	}
	return "", fmt.Errorf("no route filters by %q: %w", f.Field, domain.ErrInvalidValue)
}

// ---- Internals ----

var ErrNotFound = errors.New("hotels api: not found")

// retryable reports whether a response status may be retried for method.
// POST is only retried when the server refused it outright.
func retryable(method string, status int) bool {
	switch status {
	case http.StatusTooManyRequests:
		return true
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return method == http.MethodGet
	}
	return false
}

// do performs a request with client-side rate limiting on every attempt, retries, and JSON decode into out.
// Honors Retry-After when provided.
func (c *Client) do(ctx context.Context, endpoint, method, target string, body []byte, out any) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		// client-side rate limiting, retries included
		if err := c.rl.Wait(ctx); err != nil {
			return err
		}

		// build a fresh request each attempt
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, rd)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hotelctl/1.0")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.hc.Do(req)
		if err != nil {
			// network error or context canceled
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if method == http.MethodGet && i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveClient(endpoint, resp.StatusCode)

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case resp.StatusCode == http.StatusNotFound:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return ErrNotFound

		case retryable(method, resp.StatusCode):
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			return statusError(resp)
		}
	}

	return lastErr
}

// statusError reads the API's {"error": "..."} body for diagnostics.
func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns 200ms doubled per attempt plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
