package handlers

import (
	"net/http"

	"couple-space-backend/internal/services"
)

// CoupleHandler serves the couple overview
type CoupleHandler struct {
	pairService *services.PairService
}

// NewCoupleHandler creates a new couple handler
func NewCoupleHandler(pairService *services.PairService) *CoupleHandler {
	return &CoupleHandler{pairService: pairService}
}

// GetCouple handles GET /api/v1/couple
func (h *CoupleHandler) GetCouple(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	summary, err := h.pairService.Summary(r.Context(), p)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
