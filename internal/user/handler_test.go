package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpinghands/volunteer-api/internal/httputil"
	"github.com/helpinghands/volunteer-api/internal/logging"
)

func newTestHandler(store Store) *Handler {
	return NewHandler(NewService(store), logging.NewLogger(true))
}

func authedRequest(method, path string, body []byte, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	return req.WithContext(httputil.WithUserID(req.Context(), userID))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestGetMe(t *testing.T) {
	u := testUser()
	h := newTestHandler(newFakeStore(u))

	rr := httptest.NewRecorder()
	h.GetMe(rr, authedRequest(http.MethodGet, "/api/profile/me", nil, u.ID))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp ProfileResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, u.ID, resp.ID)
	assert.Equal(t, "Ada Lovelace", resp.FullName)
	assert.Equal(t, "ada@example.com", resp.Email)
}

func TestGetMe_UnknownUser(t *testing.T) {
	h := newTestHandler(newFakeStore())

	rr := httptest.NewRecorder()
	h.GetMe(rr, authedRequest(http.MethodGet, "/api/profile/me", nil, uuid.New()))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found.", decodeError(t, rr).Error)
}

func TestGetMe_NoIdentity(t *testing.T) {
	h := newTestHandler(newFakeStore())

	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	rr := httptest.NewRecorder()
	h.GetMe(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdateMe(t *testing.T) {
	u := testUser()
	h := newTestHandler(newFakeStore(u))

	body, _ := json.Marshal(map[string]string{"city": "London", "phone": "9876543210"})
	rr := httptest.NewRecorder()
	h.UpdateMe(rr, authedRequest(http.MethodPut, "/api/profile/me", body, u.ID))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp UpdateProfileResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Profile updated successfully.", resp.Message)
	assert.Equal(t, "London", resp.User.City)
	assert.Equal(t, "9876543210", resp.User.Phone)
	// Untouched fields come back unchanged
	assert.Equal(t, "Ada", resp.User.FirstName)
}

func TestUpdateMe_EmailInUse(t *testing.T) {
	u := testUser()
	other := &User{ID: uuid.New(), FirstName: "Grace", Email: "grace@example.com"}
	h := newTestHandler(newFakeStore(u, other))

	body, _ := json.Marshal(map[string]string{"email": "grace@example.com"})
	rr := httptest.NewRecorder()
	h.UpdateMe(rr, authedRequest(http.MethodPut, "/api/profile/me", body, u.ID))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeError(t, rr)
	assert.Equal(t, "This email is already in use by another account.", resp.Error)
	assert.Equal(t, httputil.CodeEmailInUse, resp.Code)
}

func TestUpdateMe_ValidationDetails(t *testing.T) {
	u := testUser()
	h := newTestHandler(newFakeStore(u))

	body, _ := json.Marshal(map[string]string{"dateOfBirth": "not-a-date"})
	rr := httptest.NewRecorder()
	h.UpdateMe(rr, authedRequest(http.MethodPut, "/api/profile/me", body, u.ID))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeError(t, rr)
	assert.Equal(t, httputil.CodeValidationFailed, resp.Code)
	assert.Equal(t, "Invalid data format for: dateOfBirth", resp.Details["dateOfBirth"])
}

func TestUpdateMe_MalformedBody(t *testing.T) {
	u := testUser()
	h := newTestHandler(newFakeStore(u))

	rr := httptest.NewRecorder()
	h.UpdateMe(rr, authedRequest(http.MethodPut, "/api/profile/me", []byte(`{"city":`), u.ID))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, httputil.CodeInvalidRequestBody, decodeError(t, rr).Code)
}

func TestDeleteMe(t *testing.T) {
	u := testUser()
	store := newFakeStore(u)
	h := newTestHandler(store)

	rr := httptest.NewRecorder()
	h.DeleteMe(rr, authedRequest(http.MethodDelete, "/api/profile/me", nil, u.ID))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Your account has been successfully deleted.", resp["message"])
	assert.Empty(t, store.users)
}

func TestDeleteMe_UnknownUser(t *testing.T) {
	h := newTestHandler(newFakeStore())

	rr := httptest.NewRecorder()
	h.DeleteMe(rr, authedRequest(http.MethodDelete, "/api/profile/me", nil, uuid.New()))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found.", decodeError(t, rr).Error)
}
