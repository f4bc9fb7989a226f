package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/helpinghands/volunteer-api/internal/httputil"
	"github.com/helpinghands/volunteer-api/internal/logging"
)

// Handler contains HTTP handlers for the profile endpoints. All of them
// sit behind the auth gate; the resolved identity comes from the context.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// UpdateProfileRequest represents the profile update request body.
// Omitted and empty fields are ignored, never written.
type UpdateProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	Country     string `json:"country"`
	City        string `json:"city"`
}

// ProfileResponse is the user projection returned by the profile routes.
// The password hash never appears.
type ProfileResponse struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	FullName    string     `json:"fullName"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Country     string     `json:"country,omitempty"`
	City        string     `json:"city,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// UpdateProfileResponse wraps the updated projection with a confirmation
type UpdateProfileResponse struct {
	Message string          `json:"message"`
	User    ProfileResponse `json:"user"`
}

func toProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		FullName:    u.FullName(),
		Email:       u.Email,
		Phone:       u.Phone,
		DateOfBirth: u.DateOfBirth,
		Gender:      u.Gender,
		Country:     u.Country,
		City:        u.City,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// GetMe returns the authenticated user's profile
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Success      200 {object} ProfileResponse
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/profile/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "No token, authorization denied", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	u, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "User not found.", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to fetch profile", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server error occurred while fetching profile.", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, toProfileResponse(u), http.StatusOK)
}

// UpdateMe updates the authenticated user's profile
// @Summary      Update own profile
// @Description  Sparse update: only non-empty fields are written. Empty values never clear a stored field.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Fields to update"
// @Success      200 {object} UpdateProfileResponse
// @Failure      400 {object} httputil.ErrorResponse "Validation error or email already in use"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/profile/me [put]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "No token, authorization denied", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid profile update request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), userID, UpdateProfileInput(req))
	if err != nil {
		var ve *ValidationError
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			logger.Warn("profile update failed: email in use")
			httputil.RespondErrorWithCode(w, "This email is already in use by another account.", httputil.CodeEmailInUse, http.StatusBadRequest)
		case errors.Is(err, ErrNotFound):
			httputil.RespondErrorWithCode(w, "User not found.", httputil.CodeNotFound, http.StatusNotFound)
		case errors.As(err, &ve):
			logger.Warn("profile update failed: validation error", "error", ve.Error())
			httputil.RespondValidationError(w, ve.Error(), ve.Fields)
		default:
			logger.Error("failed to update profile", "error", err.Error())
			httputil.RespondErrorWithCode(w, "Server error occurred while updating profile.", httputil.CodeInternalError, http.StatusInternalServerError)
		}
		return
	}

	logger.Info("profile updated", "user_id", userID)

	httputil.RespondJSON(w, UpdateProfileResponse{
		Message: "Profile updated successfully.",
		User:    toProfileResponse(updated),
	}, http.StatusOK)
}

// DeleteMe deletes the authenticated user's account
// @Summary      Delete own account
// @Description  Deletes the user record. Donations and signups are not cascaded.
// @Tags         profile
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "User not found"
// @Router       /api/profile/me [delete]
func (h *Handler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "No token, authorization denied", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	if err := h.service.DeleteAccount(r.Context(), userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "User not found.", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete account", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server error occurred while deleting account.", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("account deleted", "user_id", userID)

	httputil.RespondJSON(w, map[string]string{
		"message": "Your account has been successfully deleted.",
	}, http.StatusOK)
}
