package donation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/helpinghands/volunteer-api/internal/httputil"
	"github.com/helpinghands/volunteer-api/internal/logging"
	"github.com/helpinghands/volunteer-api/internal/user"
)

// Store is the slice of the repository the handlers need.
type Store interface {
	List(ctx context.Context) ([]*Donation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Donation, error)
	Create(ctx context.Context, d *Donation) (*Donation, error)
	ApplyUpdate(ctx context.Context, id uuid.UUID, upd *Update) (*Donation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserDirectory resolves a user for the receipt email.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Receipts sends donation receipts. May be nil when SMTP is not configured.
type Receipts interface {
	SendDonationReceipt(ctx context.Context, toEmail, firstName string, amount float64, currency string) error
}

// Handler contains HTTP handlers for the donation endpoints.
//
// Mutation routes require a valid token but do not check that the caller
// owns the donation; any authenticated user may update or delete any
// record. That matches the deployed behavior this service replaces and is
// tracked as an open policy decision.
type Handler struct {
	store    Store
	users    UserDirectory
	receipts Receipts
	logger   *logging.Logger
}

func NewHandler(store Store, users UserDirectory, receipts Receipts, logger *logging.Logger) *Handler {
	return &Handler{
		store:    store,
		users:    users,
		receipts: receipts,
		logger:   logger,
	}
}

// CreateRequest represents the donation creation request body
type CreateRequest struct {
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	PaymentIntentID string  `json:"paymentIntentId"`
	Status          string  `json:"status"`
}

// UpdateRequest represents the donation update request body. Absent and
// empty fields are ignored.
type UpdateRequest struct {
	Amount          *float64 `json:"amount"`
	Currency        string   `json:"currency"`
	PaymentIntentID string   `json:"paymentIntentId"`
	Status          string   `json:"status"`
}

// ownerResponse is the joined user projection on a donation
type ownerResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email,omitempty"`
}

// Response is a donation as returned by the API
type Response struct {
	ID              uuid.UUID      `json:"id"`
	Amount          float64        `json:"amount"`
	Currency        string         `json:"currency"`
	PaymentIntentID *string        `json:"paymentIntentId,omitempty"`
	Status          string         `json:"status"`
	DonatedAt       time.Time      `json:"donatedAt"`
	User            *ownerResponse `json:"user,omitempty"`
}

func toResponse(d *Donation, includeOwnerEmail bool) Response {
	resp := Response{
		ID:              d.ID,
		Amount:          d.Amount,
		Currency:        d.Currency,
		PaymentIntentID: d.PaymentIntentID,
		Status:          d.Status,
		DonatedAt:       d.DonatedAt,
	}

	if d.Owner != nil {
		resp.User = &ownerResponse{
			ID:        d.Owner.ID,
			FirstName: d.Owner.FirstName,
			LastName:  d.Owner.LastName,
			FullName:  d.Owner.FullName(),
		}
		if includeOwnerEmail {
			resp.User.Email = d.Owner.Email
		}
	}

	return resp
}

// HandleList returns all donations
// @Summary      List donations
// @Description  All donations, newest first, with the owning user's display fields when not anonymous.
// @Tags         donations
// @Produce      json
// @Success      200 {array} Response
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /api/donations [get]
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	donations, err := h.store.List(r.Context())
	if err != nil {
		logger.Error("failed to list donations", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server Error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	responses := make([]Response, 0, len(donations))
	for _, d := range donations {
		responses = append(responses, toResponse(d, false))
	}

	httputil.RespondJSON(w, responses, http.StatusOK)
}

// HandleGetByID returns a single donation
// @Summary      Get donation by id
// @Tags         donations
// @Produce      json
// @Param        id path string true "Donation id"
// @Success      200 {object} Response
// @Failure      404 {object} httputil.ErrorResponse "Donation not found (also for malformed ids)"
// @Router       /api/donations/{id} [get]
func (h *Handler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	// A malformed id is indistinguishable from an unknown one to callers.
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "Donation not found", httputil.CodeNotFound, http.StatusNotFound)
		return
	}

	d, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "Donation not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to get donation", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server Error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, toResponse(d, true), http.StatusOK)
}

// HandleCreate records a donation by the authenticated user
// @Summary      Create a donation
// @Tags         donations
// @Accept       json
// @Produce      json
// @Param        request body CreateRequest true "Donation fields"
// @Success      200 {object} Response
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Router       /api/donations [post]
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	userID, ok := httputil.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "No token, authorization denied", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid donation request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	details := map[string]string{}
	if req.Amount == 0 {
		details["amount"] = "Amount is required and must be a number"
	} else if req.Amount < MinAmount {
		details["amount"] = "Donation amount must be at least $1."
	}
	if strings.TrimSpace(req.Currency) == "" {
		details["currency"] = "Currency is required"
	}
	if req.Status != "" && !ValidStatus(req.Status) {
		details["status"] = "Invalid status"
	}
	if len(details) > 0 {
		httputil.RespondValidationError(w, "donation validation failed", details)
		return
	}

	status := req.Status
	if status == "" {
		status = StatusCompleted
	}

	newDonation := &Donation{
		UserID:   &userID,
		Amount:   req.Amount,
		Currency: strings.TrimSpace(req.Currency),
		Status:   status,
	}
	if req.PaymentIntentID != "" {
		newDonation.PaymentIntentID = &req.PaymentIntentID
	}

	created, err := h.store.Create(r.Context(), newDonation)
	if err != nil {
		logger.Error("failed to create donation", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server Error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("donation created", "donation_id", created.ID, "user_id", userID)

	h.sendReceipt(created, userID)

	httputil.RespondJSON(w, toResponse(created, false), http.StatusOK)
}

// HandleUpdate updates a donation
// @Summary      Update a donation
// @Description  Sparse update; absent and empty fields are left unchanged.
// @Tags         donations
// @Accept       json
// @Produce      json
// @Param        id path string true "Donation id"
// @Param        request body UpdateRequest true "Fields to update"
// @Success      200 {object} Response
// @Failure      400 {object} httputil.ErrorResponse "Validation error"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "Donation not found (also for malformed ids)"
// @Router       /api/donations/{id} [put]
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "Donation not found", httputil.CodeNotFound, http.StatusNotFound)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid donation update body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	details := map[string]string{}
	if req.Amount != nil && *req.Amount < MinAmount {
		details["amount"] = "Donation amount must be at least $1."
	}
	if req.Status != "" && !ValidStatus(req.Status) {
		details["status"] = "Invalid status"
	}
	if len(details) > 0 {
		httputil.RespondValidationError(w, "donation validation failed", details)
		return
	}

	upd := &Update{}
	if req.Amount != nil {
		upd.Amount = req.Amount
	}
	if v := strings.TrimSpace(req.Currency); v != "" {
		upd.Currency = &v
	}
	if req.PaymentIntentID != "" {
		upd.PaymentIntentID = &req.PaymentIntentID
	}
	if req.Status != "" {
		upd.Status = &req.Status
	}

	updated, err := h.store.ApplyUpdate(r.Context(), id, upd)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "Donation not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to update donation", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server Error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("donation updated", "donation_id", id)

	httputil.RespondJSON(w, toResponse(updated, false), http.StatusOK)
}

// HandleDelete deletes a donation
// @Summary      Delete a donation
// @Tags         donations
// @Produce      json
// @Param        id path string true "Donation id"
// @Success      200 {object} map[string]string
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid token"
// @Failure      404 {object} httputil.ErrorResponse "Donation not found (also for malformed ids)"
// @Router       /api/donations/{id} [delete]
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondErrorWithCode(w, "Donation not found", httputil.CodeNotFound, http.StatusNotFound)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httputil.RespondErrorWithCode(w, "Donation not found", httputil.CodeNotFound, http.StatusNotFound)
			return
		}
		logger.Error("failed to delete donation", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server Error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("donation deleted", "donation_id", id)

	httputil.RespondJSON(w, map[string]string{"message": "Donation removed"}, http.StatusOK)
}

// sendReceipt mails a receipt for a completed donation, best-effort.
func (h *Handler) sendReceipt(d *Donation, userID uuid.UUID) {
	if h.receipts == nil || h.users == nil || d.Status != StatusCompleted {
		return
	}

	go func() {
		ctx := context.Background()
		owner, err := h.users.GetByID(ctx, userID)
		if err != nil {
			h.logger.Warn("failed to resolve donor for receipt", "user_id", userID, "error", err.Error())
			return
		}
		if err := h.receipts.SendDonationReceipt(ctx, owner.Email, owner.FirstName, d.Amount, d.Currency); err != nil {
			h.logger.Warn("failed to send donation receipt", "email", owner.Email, "error", err.Error())
		}
	}()
}
