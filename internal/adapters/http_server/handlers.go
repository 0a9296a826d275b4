// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_directory/internal/app"
	"hotel_directory/internal/domain"
)

type Handlers struct{ S *app.HotelService }

type errorBody struct {
	Error string `json:"error"`
}

// lookup describes a read route: how to fetch, and what to answer when the
// result is empty or the fetch fails. Failure statuses differ per route.
type lookup struct {
	name       string
	param      string
	fetch      func(ctx context.Context, v string) ([]domain.Hotel, error)
	emptyMsg   string
	failStatus int
	failMsg    string
}

const (
	msgNoHotels       = "No Hotels Found."
	msgFetchHotels    = "Failed to fetch the hotels."
	msgHotelNotFound  = "Hotel not found."
	msgUpdateFailed   = "Failed to update the hotel."
	msgUpdated        = "Hotel updated successfully."
	msgDeleted        = "Hotel deleted successfully."
	msgDeleteFailed   = "Failed to delete the hotel."
	msgAdded          = "Hotel added successfully."
	msgAddFailed      = "Failed to add the hotel"
	msgNoCategory     = "No hotels found of the given category"
	msgFetchCategory  = "Failed to fetch the hotel through category"
	msgFetchByPhoneNo = "Failed to fetch the hotel."
)

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.ready)

	s.mux.Route("/hotels", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list(lookup{
			name:       "list",
			fetch:      func(ctx context.Context, _ string) ([]domain.Hotel, error) { return h.S.List(ctx) },
			emptyMsg:   msgNoHotels,
			failStatus: http.StatusInternalServerError, failMsg: msgFetchHotels,
		}))
		r.Get("/category/{hotelCategory}", h.list(lookup{
			name: "by_category", param: "hotelCategory", fetch: h.S.ByCategory,
			emptyMsg:   msgNoCategory,
			failStatus: http.StatusInternalServerError, failMsg: msgFetchCategory,
		}))
		r.Get("/rating/{hotelRating}", h.list(lookup{
			name: "by_rating", param: "hotelRating", fetch: h.S.ByRating,
			emptyMsg:   msgNoHotels,
			failStatus: http.StatusInternalServerError, failMsg: msgFetchHotels,
		}))
		r.Get("/directory/{phoneNumber}", h.list(lookup{
			name: "by_phone", param: "phoneNumber", fetch: h.S.ByPhone,
			emptyMsg:   msgNoHotels,
			failStatus: http.StatusNotFound, failMsg: msgFetchByPhoneNo,
		}))
		r.Get("/price/{priceRange}", h.list(lookup{
			name: "by_price", param: "priceRange", fetch: h.S.ByPriceRange,
			emptyMsg:   msgNoHotels,
			failStatus: http.StatusInternalServerError, failMsg: msgFetchHotels,
		}))
		r.Get("/amenities/parking", h.list(lookup{
			name:       "with_parking",
			fetch:      func(ctx context.Context, _ string) ([]domain.Hotel, error) { return h.S.WithParking(ctx) },
			emptyMsg:   msgNoHotels,
			failStatus: http.StatusInternalServerError, failMsg: msgFetchHotels,
		}))
		r.Get("/amenities/restaurant", h.list(lookup{
			name:       "with_restaurant",
			fetch:      func(ctx context.Context, _ string) ([]domain.Hotel, error) { return h.S.WithRestaurant(ctx) },
			emptyMsg:   msgNoHotels,
			failStatus: http.StatusInternalServerError, failMsg: msgFetchHotels,
		}))
		r.Get("/{hotelName}", h.list(lookup{
			name: "by_name", param: "hotelName", fetch: h.S.ByName,
			emptyMsg:   msgNoHotels,
			failStatus: http.StatusNotFound, failMsg: msgFetchHotels,
		}))

		r.Post("/name/{hotelName}", h.update("hotelName", h.S.UpdateByName))
		r.Post("/directory/{phoneNumber}", h.update("phoneNumber", h.S.UpdateByPhone))
		r.Post("/{hotelsId}", h.update("hotelsId", h.S.UpdateByID))

		r.Delete("/directory/{phoneNumber}", h.remove("phoneNumber", h.S.DeleteByPhone))
		r.Delete("/{hotelId}", h.remove("hotelId", h.S.DeleteByID))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// decodeHotel reads a hotel body. A missing body reads as {}.
func decodeHotel(r *http.Request) (domain.Hotel, error) {
	var h domain.Hotel
	if err := json.NewDecoder(r.Body).Decode(&h); err != nil && !errors.Is(err, io.EOF) {
		return domain.Hotel{}, err
	}
	return h, nil
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeHotel(r)
	if err != nil {
		log.Error().Err(err).Msg("create: decode body")
		writeError(w, http.StatusInternalServerError, msgAddFailed)
		return
	}
	out, err := h.S.Create(r.Context(), in)
	if err != nil {
		log.Error().Err(err).Msg("create: store")
		writeError(w, http.StatusInternalServerError, msgAddFailed)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message string       `json:"message"`
		Hotel   domain.Hotel `json:"hotel"`
	}{msgAdded, out})
}

func (h *Handlers) list(l lookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v string
		if l.param != "" {
			v = chi.URLParam(r, l.param)
		}
		hotels, err := l.fetch(r.Context(), v)
		if err != nil {
			log.Error().Err(err).Str("lookup", l.name).Str("value", v).Msg("hotel lookup failed")
			writeError(w, l.failStatus, l.failMsg)
			return
		}
		if len(hotels) == 0 {
			writeError(w, http.StatusNotFound, l.emptyMsg)
			return
		}

		etag, body := calcETagAndBody(hotels)
		// If client already has this version, short-circuit.
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag) // include ETag on 304
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			log.Error().Err(err).Str("lookup", l.name).Msg("failed to write hotels body")
		}
	}
}

// update serves every update route. Not-found and all other failures both
// answer 404, with different messages.
func (h *Handlers) update(param string, apply func(context.Context, string, domain.Hotel) (domain.Hotel, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, param)
		patch, err := decodeHotel(r)
		if err != nil {
			log.Error().Err(err).Str(param, key).Msg("update: decode body")
			writeError(w, http.StatusNotFound, msgUpdateFailed)
			return
		}
		out, err := apply(r.Context(), key, patch)
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, msgHotelNotFound)
			return
		}
		if err != nil {
			log.Error().Err(err).Str(param, key).Msg("update failed")
			writeError(w, http.StatusNotFound, msgUpdateFailed)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Message      string       `json:"message"`
			UpdatedHotel domain.Hotel `json:"updatedHotel"`
		}{msgUpdated, out})
	}
}

// remove answers 200 whether or not anything was deleted.
func (h *Handlers) remove(param string, del func(context.Context, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, param)
		if err := del(r.Context(), key); err != nil {
			log.Error().Err(err).Str(param, key).Msg("delete failed")
			writeError(w, http.StatusInternalServerError, msgDeleteFailed)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Message string `json:"message"`
		}{msgDeleted})
	}
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	if err := h.S.Ping(r.Context()); err != nil {
		log.Warn().Err(err).Msg("readiness check failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
