package handler

import (
	"encoding/json"
	"net/http"

	"github.com/alex-user-go/voyage/internal/middleware"
	"github.com/alex-user-go/voyage/internal/pricing"
)

const maxPricingBody = 64 << 10

// ActionRequest is the body of POST /pricing/action.
type ActionRequest struct {
	State pricing.State `json:"state"`
}

// PricingActionHandler handles POST /pricing/action requests.
func (h *Handler) PricingActionHandler(w http.ResponseWriter, r *http.Request) {
	logger := middleware.Logger(r.Context(), h.logger)

	var body ActionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPricingBody))
	if err := dec.Decode(&body); err != nil {
		logger.Debug("invalid pricing request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(body.State) == 0 {
		writeError(w, http.StatusBadRequest, "empty state")
		return
	}

	decision, err := pricing.Decide(body.State)
	if err != nil {
		logger.Debug("invalid pricing state", "error", err)
		writeError(w, http.StatusBadRequest, "invalid state")
		return
	}

	writeJSON(w, http.StatusOK, decision, logger)
}

// PricingStatusHandler handles GET /pricing/status requests.
func (h *Handler) PricingStatusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"policy": pricing.Policy,
	}, middleware.Logger(r.Context(), h.logger))
}
