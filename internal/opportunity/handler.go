package opportunity

import (
	"context"
	"net/http"

	"github.com/helpinghands/volunteer-api/internal/httputil"
	"github.com/helpinghands/volunteer-api/internal/logging"
)

// Lister is the slice of the repository the handler needs.
type Lister interface {
	List(ctx context.Context) ([]*Opportunity, error)
}

type Handler struct {
	store  Lister
	logger *logging.Logger
}

func NewHandler(store Lister, logger *logging.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// HandleList returns all volunteer opportunities
// @Summary      List volunteer opportunities
// @Description  All opportunities, newest first. No filtering or pagination.
// @Tags         opportunities
// @Produce      json
// @Success      200 {array} Opportunity
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /api/opportunities [get]
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	opportunities, err := h.store.List(r.Context())
	if err != nil {
		logger.Error("failed to list opportunities", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server Error", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, opportunities, http.StatusOK)
}
