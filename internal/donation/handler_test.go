package donation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpinghands/volunteer-api/internal/httputil"
	"github.com/helpinghands/volunteer-api/internal/logging"
)

// fakeStore keeps donations in memory, newest first on List.
type fakeStore struct {
	donations map[uuid.UUID]*Donation
}

func newFakeStore(donations ...*Donation) *fakeStore {
	f := &fakeStore{donations: map[uuid.UUID]*Donation{}}
	for _, d := range donations {
		f.donations[d.ID] = d
	}
	return f
}

func (f *fakeStore) List(ctx context.Context) ([]*Donation, error) {
	out := make([]*Donation, 0, len(f.donations))
	for _, d := range f.donations {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DonatedAt.After(out[j].DonatedAt) })
	return out, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*Donation, error) {
	if d, ok := f.donations[id]; ok {
		return d, nil
	}
	return nil, ErrNotFound
}

func (f *fakeStore) Create(ctx context.Context, d *Donation) (*Donation, error) {
	stored := *d
	stored.ID = uuid.New()
	stored.DonatedAt = time.Now()
	f.donations[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeStore) ApplyUpdate(ctx context.Context, id uuid.UUID, upd *Update) (*Donation, error) {
	d, ok := f.donations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Amount != nil {
		d.Amount = *upd.Amount
	}
	if upd.Currency != nil {
		d.Currency = *upd.Currency
	}
	if upd.PaymentIntentID != nil {
		d.PaymentIntentID = upd.PaymentIntentID
	}
	if upd.Status != nil {
		d.Status = *upd.Status
	}
	return d, nil
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.donations[id]; !ok {
		return ErrNotFound
	}
	delete(f.donations, id)
	return nil
}

// testRouter mounts the handler the same way the real router does, so
// chi URL params resolve.
func testRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/donations", h.HandleList)
	r.Get("/api/donations/{id}", h.HandleGetByID)
	r.Post("/api/donations", h.HandleCreate)
	r.Put("/api/donations/{id}", h.HandleUpdate)
	r.Delete("/api/donations/{id}", h.HandleDelete)
	return r
}

func newTestHandler(store Store) *Handler {
	return NewHandler(store, nil, nil, logging.NewLogger(true))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func donationFixture(amount float64, donatedAt time.Time) *Donation {
	ownerID := uuid.New()
	return &Donation{
		ID:        uuid.New(),
		UserID:    &ownerID,
		Amount:    amount,
		Currency:  "USD",
		Status:    StatusCompleted,
		DonatedAt: donatedAt,
		Owner: &Owner{
			ID:        ownerID,
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
		},
	}
}

func TestHandleList(t *testing.T) {
	older := donationFixture(10, time.Now().Add(-time.Hour))
	newer := donationFixture(25, time.Now())
	router := testRouter(newTestHandler(newFakeStore(older, newer)))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/donations", nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, newer.ID, resp[0].ID)
	assert.Equal(t, older.ID, resp[1].ID)

	// The list view shows the donor's name but not their email
	require.NotNil(t, resp[0].User)
	assert.Equal(t, "Ada Lovelace", resp[0].User.FullName)
	assert.Empty(t, resp[0].User.Email)
}

func TestHandleGetByID(t *testing.T) {
	d := donationFixture(50, time.Now())
	router := testRouter(newTestHandler(newFakeStore(d)))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/donations/"+d.ID.String(), nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, d.ID, resp.ID)
	assert.Equal(t, 50.0, resp.Amount)
	// The detail view includes the donor's email
	require.NotNil(t, resp.User)
	assert.Equal(t, "ada@example.com", resp.User.Email)
}

func TestHandleGetByID_NotFound(t *testing.T) {
	router := testRouter(newTestHandler(newFakeStore()))

	// Unknown and malformed ids get the same 404
	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/donations/"+id, nil))

		assert.Equal(t, http.StatusNotFound, rr.Code, "id %q", id)
		assert.Equal(t, "Donation not found", decodeError(t, rr).Error)
	}
}

func TestHandleCreate(t *testing.T) {
	store := newFakeStore()
	router := testRouter(newTestHandler(store))
	userID := uuid.New()

	body, _ := json.Marshal(map[string]any{"amount": 25.5, "currency": "USD"})
	req := httptest.NewRequest(http.MethodPost, "/api/donations", bytes.NewReader(body))
	req = req.WithContext(httputil.WithUserID(req.Context(), userID))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, 25.5, resp.Amount)
	assert.Equal(t, "USD", resp.Currency)
	// Status defaults to completed when not supplied
	assert.Equal(t, StatusCompleted, resp.Status)
	assert.False(t, resp.DonatedAt.IsZero())

	stored := store.donations[resp.ID]
	require.NotNil(t, stored)
	require.NotNil(t, stored.UserID)
	assert.Equal(t, userID, *stored.UserID)
}

func TestHandleCreate_Validation(t *testing.T) {
	router := testRouter(newTestHandler(newFakeStore()))

	cases := map[string]struct {
		body  map[string]any
		field string
		msg   string
	}{
		"missing amount":   {map[string]any{"currency": "USD"}, "amount", "Amount is required and must be a number"},
		"amount below min": {map[string]any{"amount": 0.5, "currency": "USD"}, "amount", "Donation amount must be at least $1."},
		"missing currency": {map[string]any{"amount": 10}, "currency", "Currency is required"},
		"bad status":       {map[string]any{"amount": 10, "currency": "USD", "status": "refunded"}, "status", "Invalid status"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			body, _ := json.Marshal(tc.body)
			req := httptest.NewRequest(http.MethodPost, "/api/donations", bytes.NewReader(body))
			req = req.WithContext(httputil.WithUserID(req.Context(), uuid.New()))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			resp := decodeError(t, rr)
			assert.Equal(t, httputil.CodeValidationFailed, resp.Code)
			assert.Equal(t, tc.msg, resp.Details[tc.field])
		})
	}
}

func TestHandleCreate_NoIdentity(t *testing.T) {
	router := testRouter(newTestHandler(newFakeStore()))

	body, _ := json.Marshal(map[string]any{"amount": 10, "currency": "USD"})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/donations", bytes.NewReader(body)))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandleUpdate(t *testing.T) {
	d := donationFixture(10, time.Now())
	d.Status = StatusPending
	store := newFakeStore(d)
	router := testRouter(newTestHandler(store))

	body, _ := json.Marshal(map[string]any{"status": StatusCompleted})
	req := httptest.NewRequest(http.MethodPut, "/api/donations/"+d.ID.String(), bytes.NewReader(body))
	req = req.WithContext(httputil.WithUserID(req.Context(), uuid.New()))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, StatusCompleted, resp.Status)
	// Fields not in the request are untouched
	assert.Equal(t, 10.0, resp.Amount)
	assert.Equal(t, "USD", resp.Currency)
}

func TestHandleUpdate_NotFound(t *testing.T) {
	router := testRouter(newTestHandler(newFakeStore()))

	body, _ := json.Marshal(map[string]any{"status": StatusCompleted})
	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		req := httptest.NewRequest(http.MethodPut, "/api/donations/"+id, bytes.NewReader(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code, "id %q", id)
		assert.Equal(t, "Donation not found", decodeError(t, rr).Error)
	}
}

func TestHandleDelete(t *testing.T) {
	d := donationFixture(10, time.Now())
	store := newFakeStore(d)
	router := testRouter(newTestHandler(store))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/donations/"+d.ID.String(), nil))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Donation removed", resp["message"])
	assert.Empty(t, store.donations)
}

func TestHandleDelete_NotFound(t *testing.T) {
	router := testRouter(newTestHandler(newFakeStore()))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/donations/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
