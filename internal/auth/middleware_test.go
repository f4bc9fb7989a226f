package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpinghands/volunteer-api/internal/httputil"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestRequireAuth_MissingToken(t *testing.T) {
	svc, err := NewJWTService(testJWTSecret)
	require.NoError(t, err)
	mw := NewMiddleware(svc)

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	resp := decodeError(t, rr)
	assert.Equal(t, "No token, authorization denied", resp.Error)
	assert.Equal(t, httputil.CodeMissingAuth, resp.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	svc, err := NewJWTService(testJWTSecret)
	require.NoError(t, err)
	mw := NewMiddleware(svc)

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	req.Header.Set(TokenHeader, "not-a-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	resp := decodeError(t, rr)
	assert.Equal(t, "Token is not valid", resp.Error)
	assert.Equal(t, httputil.CodeInvalidToken, resp.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	svc, err := NewJWTService(testJWTSecret)
	require.NoError(t, err)
	mw := NewMiddleware(svc)

	token, err := svc.CreateToken(uuid.New(), -time.Minute)
	require.NoError(t, err)

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	req.Header.Set(TokenHeader, token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	// Expired and malformed tokens get the same answer
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Token is not valid", decodeError(t, rr).Error)
}

func TestRequireAuth_NoTokenService(t *testing.T) {
	mw := NewMiddleware(nil)

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	req.Header.Set(TokenHeader, "anything")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Token is not valid", decodeError(t, rr).Error)
}

func TestRequireAuth_ValidTokenAttachesUserID(t *testing.T) {
	svc, err := NewJWTService(testJWTSecret)
	require.NoError(t, err)
	mw := NewMiddleware(svc)

	userID := uuid.New()
	token, err := svc.CreateToken(userID, time.Hour)
	require.NoError(t, err)

	var gotID uuid.UUID
	var gotOK bool
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = httputil.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile/me", nil)
	req.Header.Set(TokenHeader, token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.True(t, gotOK)
	assert.Equal(t, userID, gotID)
}
