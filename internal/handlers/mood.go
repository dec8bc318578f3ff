package handlers

import (
	"net/http"

	"couple-space-backend/internal/services"
)

// MoodHandler handles mood check-ins
type MoodHandler struct {
	moodService *services.MoodService
}

// NewMoodHandler creates a new mood handler
func NewMoodHandler(moodService *services.MoodService) *MoodHandler {
	return &MoodHandler{moodService: moodService}
}

// GetMoods handles GET /api/v1/moods
func (h *MoodHandler) GetMoods(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	moods, err := h.moodService.List(r.Context(), p)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(moods))
}

// GetLatestMoods handles GET /api/v1/moods/latest
func (h *MoodHandler) GetLatestMoods(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	moods, err := h.moodService.Latest(r.Context(), p)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(moods))
}

// CreateMood handles POST /api/v1/moods
func (h *MoodHandler) CreateMood(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.CreateMoodRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	mood, err := h.moodService.Create(r.Context(), p, req)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mood)
}
