package signup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/helpinghands/volunteer-api/internal/httputil"
	"github.com/helpinghands/volunteer-api/internal/logging"
	"github.com/helpinghands/volunteer-api/internal/opportunity"
)

// Store is the slice of the repository the handlers need.
type Store interface {
	Create(ctx context.Context, userID, opportunityID uuid.UUID) (*Signup, error)
	Exists(ctx context.Context, userID, opportunityID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Signup, error)
}

// OpportunityGetter verifies the referenced opportunity exists.
type OpportunityGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*opportunity.Opportunity, error)
}

type Handler struct {
	store         Store
	opportunities OpportunityGetter
	logger        *logging.Logger
}

func NewHandler(store Store, opportunities OpportunityGetter, logger *logging.Logger) *Handler {
	return &Handler{
		store:         store,
		opportunities: opportunities,
		logger:        logger,
	}
}

// CreateRequest represents the signup request body
type CreateRequest struct {
	OpportunityID string `json:"opportunityId"`
}

// CreateResponse wraps the created signup with a confirmation
type CreateResponse struct {
	Message string  `json:"message"`
	Signup  *Signup `json:"userOpportunity"`
}

// HandleCreate signs the authenticated user up for an opportunity
// @Summary      Sign up for a volunteer opportunity
// @Tags         user-opportunities
// @Accept       json
// @Produce      json
// @Param        request body CreateRequest true "Opportunity to sign up for"
// @Success      201 {object} CreateResponse
// @Failure      400 {object} httputil.ErrorResponse "Missing/malformed opportunity id or already signed up"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "Volunteer opportunity not found"
// @Router       /api/user-opportunities [post]
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "No token, authorization denied", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid signup request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if req.OpportunityID == "" {
		httputil.RespondErrorWithCode(w, "Opportunity ID is required", httputil.CodeMissingFields, http.StatusBadRequest)
		return
	}

	opportunityID, err := uuid.Parse(req.OpportunityID)
	if err != nil {
		httputil.RespondErrorWithCode(w, "Invalid Opportunity ID format", httputil.CodeValidationFailed, http.StatusBadRequest)
		return
	}

	if _, err := h.opportunities.GetByID(r.Context(), opportunityID); err != nil {
		if errors.Is(err, opportunity.ErrNotFound) {
			httputil.RespondErrorWithCode(w, "Volunteer opportunity not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to look up opportunity", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server Error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	// Friendlier answer than the unique-index violation. The index still
	// decides the race; a duplicate-key insert below lands in the same 400.
	exists, err := h.store.Exists(r.Context(), userID, opportunityID)
	if err != nil {
		logger.Error("failed to check existing signup", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server Error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}
	if exists {
		httputil.RespondErrorWithCode(w, "You have already signed up for this opportunity", httputil.CodeAlreadySignedUp, http.StatusBadRequest)
		return
	}

	created, err := h.store.Create(r.Context(), userID, opportunityID)
	if err != nil {
		if errors.Is(err, ErrAlreadySignedUp) {
			httputil.RespondErrorWithCode(w, "You have already signed up for this opportunity", httputil.CodeAlreadySignedUp, http.StatusBadRequest)
			return
		}
		logger.Error("failed to create signup", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server Error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("signup created", "user_id", userID, "opportunity_id", opportunityID)

	httputil.RespondJSON(w, CreateResponse{
		Message: "Successfully signed up for the opportunity",
		Signup:  created,
	}, http.StatusCreated)
}

// HandleListMine returns the authenticated user's signups
// @Summary      List own signups
// @Description  All opportunities the authenticated user signed up for, each with a reduced opportunity projection.
// @Tags         user-opportunities
// @Produce      json
// @Success      200 {array} Signup
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Router       /api/user-opportunities/me [get]
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "No token, authorization denied", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	signups, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		logger.Error("failed to list signups", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server Error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, signups, http.StatusOK)
}
