package ginserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventspace/internal/app/dto"
	"eventspace/internal/app/registry"
	domainvenues "eventspace/internal/domain/venues"
	"eventspace/internal/infra/obs"
	"eventspace/internal/infra/storage/memory"
)

var fixedNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	factory := memory.NewFactory()
	venue, err := domainvenues.NewVenue(domainvenues.CreateParams{
		ID:         "v1",
		ProviderID: "provider-1",
		Details: domainvenues.Details{
			Name:           "Salon Real",
			Zone:           "Norte",
			Category:       domainvenues.CategorySalonEventos,
			Price:          50000,
			Capacity:       200,
			PaymentMethods: []domainvenues.PaymentMethod{domainvenues.PaymentCash},
		},
		Status: domainvenues.StatusActive,
		Now:    fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.VenuesRepo.Save(context.Background(), venue))

	buses := registry.Build(registry.Deps{
		UoWFactory: factory,
		Outbox:     memory.NewOutbox(),
		Clock:      func() time.Time { return fixedNow },
	}, registry.Pipeline{
		Idempotency:    memory.NewIdempotencyStore(),
		IdempotencyTTL: time.Hour,
	})
	h := NewHandlers(buses.Commands, buses.Queries, nil)
	h.Venues.Now = func() time.Time { return fixedNow }
	return NewRouter("test", obs.Middleware{}, obs.HealthHandlers{}, h)
}

func do(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCatalogETag(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/v1/venues?page=1&pageSize=5", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.VenuePage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 5, page.PageSize)
	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)

	w = do(r, http.MethodGet, "/api/v1/venues?page=1&pageSize=5", nil, map[string]string{"If-None-Match": tag})
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestCatalogRejectsMalformedFilter(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/v1/venues?priceMin=cheap", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "priceMin", body.Field)
}

func TestDetailNotFound(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/v1/venues/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDetailCountsViews(t *testing.T) {
	r := newTestRouter(t)
	do(r, http.MethodGet, "/api/v1/venues/v1", nil, nil)
	w := do(r, http.MethodGet, "/api/v1/venues/v1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var venue dto.Venue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &venue))
	assert.Equal(t, 2, venue.Views)
}

func TestAvailabilityMonth(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/v1/venues/v1/availability?month=1&year=2028", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var days []dto.DateAvailability
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &days))
	assert.Len(t, days, 29)

	w = do(r, http.MethodGet, "/api/v1/venues/v1/availability?month=12&year=2026", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/venues/v1/availability", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &days))
	assert.Len(t, days, 31)
}

func TestQuote(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/v1/venues/v1/quote", quoteRequest{GuestCount: 100}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var quote dto.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quote))
	assert.InDelta(t, 48500.0, quote.Total, 0.001)
}

func TestFavoriteRequiresCaller(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/v1/venues/v1/favorite", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/api/v1/venues/v1/favorite", nil, map[string]string{UserIDHeader: "u1"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/v1/me/favorites", nil, map[string]string{UserIDHeader: "u1"})
	require.Equal(t, http.StatusOK, w.Code)
	var favs []dto.Venue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &favs))
	assert.Len(t, favs, 1)
}

func TestBookingConflictsAndIdempotency(t *testing.T) {
	r := newTestRouter(t)
	req := createBookingRequest{
		VenueID:       "v1",
		Date:          "2026-04-01",
		GuestCount:    150,
		PaymentMethod: "efectivo",
	}
	headers := map[string]string{UserIDHeader: "client-1", IdempotencyHeader: "abc"}

	w := do(r, http.MethodPost, "/api/v1/bookings", req, headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first dto.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, "abc", w.Header().Get(IdempotencyHeader))

	w = do(r, http.MethodPost, "/api/v1/bookings", req, headers)
	require.Equal(t, http.StatusCreated, w.Code)
	var replay dto.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replay))
	assert.Equal(t, first.ID, replay.ID)

	headers[IdempotencyHeader] = "other"
	w = do(r, http.MethodPost, "/api/v1/bookings", req, headers)
	assert.Equal(t, http.StatusConflict, w.Code)

	req.Date = "2026-04-02"
	req.GuestCount = 500
	w = do(r, http.MethodPost, "/api/v1/bookings", req, headers)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "guestCount", body.Field)

	w = do(r, http.MethodPost, "/api/v1/bookings/"+first.ID+"/confirm", nil, map[string]string{UserIDHeader: "client-1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = do(r, http.MethodPost, "/api/v1/bookings/"+first.ID+"/confirm", nil, map[string]string{UserIDHeader: "provider-1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEditReview(t *testing.T) {
	r := newTestRouter(t)
	clientHeaders := map[string]string{UserIDHeader: "client-1", IdempotencyHeader: "rev"}
	providerHeaders := map[string]string{UserIDHeader: "provider-1"}

	w := do(r, http.MethodPost, "/api/v1/bookings", createBookingRequest{
		VenueID: "v1", Date: "2026-04-01", GuestCount: 100, PaymentMethod: "EFECTIVO",
	}, clientHeaders)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var booking dto.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	for _, step := range []string{"confirm", "complete"} {
		w = do(r, http.MethodPost, "/api/v1/bookings/"+booking.ID+"/"+step, nil, providerHeaders)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	path := "/api/v1/bookings/" + booking.ID + "/review"
	w = do(r, http.MethodPut, path, submitReviewRequest{Rating: 3}, clientHeaders)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, path, submitReviewRequest{Rating: 5, Text: "Great"}, clientHeaders)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPut, path, submitReviewRequest{Rating: 3}, providerHeaders)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(r, http.MethodPut, path, submitReviewRequest{Rating: 3, Text: "Good"}, clientHeaders)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var review dto.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &review))
	assert.Equal(t, 3, review.Rating)
	assert.Equal(t, "Good", review.Text)

	w = do(r, http.MethodGet, "/api/v1/venues/v1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var venue dto.Venue
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &venue))
	assert.InDelta(t, 3.0, venue.Rating, 0.001)
	assert.Equal(t, 1, venue.ReviewCount)
}

func TestAdminStatus(t *testing.T) {
	r := newTestRouter(t)
	body := statusRequest{Action: "feature"}

	w := do(r, http.MethodPost, "/api/v1/admin/venues/v1/status", body, map[string]string{UserIDHeader: "provider-1"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin := map[string]string{UserIDHeader: "root", UserRoleHeader: "Admin"}
	w = do(r, http.MethodPost, "/api/v1/admin/venues/v1/status", body, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/v1/admin/venues/v1/status", body, admin)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSwaggerDoc(t *testing.T) {
	r := newTestRouter(t)
	w := do(r, http.MethodGet, "/swagger/doc.json", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "EventSpace API")
}

func TestETagMatching(t *testing.T) {
	assert.True(t, etagMatches(`W/"abc"`, `W/"abc"`))
	assert.True(t, etagMatches(`"x", "abc"`, `W/"abc"`))
	assert.True(t, etagMatches(`*`, `W/"abc"`))
	assert.False(t, etagMatches(`"def"`, `W/"abc"`))
	assert.False(t, etagMatches("", `W/"abc"`))
}
