package auth

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/helpinghands/volunteer-api/internal/httputil"
)

// TokenHeader is the request header carrying the raw signed token.
// Clients send the token itself, not a "Bearer ..." scheme.
const TokenHeader = "x-auth-token"

// Middleware handles authentication for protected routes
type Middleware struct {
	tokenService TokenService
}

func NewMiddleware(tokenService TokenService) *Middleware {
	return &Middleware{tokenService: tokenService}
}

// RequireAuth validates the x-auth-token header and attaches the resolved
// user id to the request context. Requests never reach the wrapped handler
// unless verification succeeded. There is no retry, refresh, or rate
// limiting here.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if token == "" {
			httputil.RespondErrorWithCode(w, "No token, authorization denied", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		// A token service is only absent when no signing secret was
		// configured, in which case no valid token can exist either.
		if m.tokenService == nil {
			httputil.RespondErrorWithCode(w, "Token is not valid", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokenService.VerifyToken(token)
		if err != nil {
			// Expired and malformed tokens get the same answer.
			httputil.RespondErrorWithCode(w, "Token is not valid", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			httputil.RespondErrorWithCode(w, "Token is not valid", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(httputil.WithUserID(r.Context(), userID)))
	})
}
