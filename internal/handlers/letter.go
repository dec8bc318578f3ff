package handlers

import (
	"net/http"

	"couple-space-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// LetterHandler handles letter-related HTTP requests
type LetterHandler struct {
	letterService *services.LetterService
}

// NewLetterHandler creates a new letter handler
func NewLetterHandler(letterService *services.LetterService) *LetterHandler {
	return &LetterHandler{letterService: letterService}
}

// GetLetters handles GET /api/v1/letters
func (h *LetterHandler) GetLetters(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	letters, err := h.letterService.List(r.Context(), p)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nonNil(letters))
}

// CreateLetter handles POST /api/v1/letters
func (h *LetterHandler) CreateLetter(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.CreateLetterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	letter, err := h.letterService.Create(r.Context(), p, req)
	if err != nil {
		respondAppError(w, err)
		return
	}

	log.Info().
		Str("user_id", p.ID).
		Str("letter_id", letter.ID).
		Str("to_user_id", letter.ToUserID).
		Msg("Letter created")

	respondJSON(w, http.StatusOK, letter)
}

// DeleteLetter handles DELETE /api/v1/letters/{letter_id}
func (h *LetterHandler) DeleteLetter(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	letterID := chi.URLParam(r, "letter_id")

	if err := h.letterService.Delete(r.Context(), p, letterID); err != nil {
		log.Warn().
			Err(err).
			Str("user_id", p.ID).
			Str("letter_id", letterID).
			Msg("Failed to delete letter")
		respondAppError(w, err)
		return
	}

	log.Info().Str("user_id", p.ID).Str("letter_id", letterID).Msg("Letter deleted")

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Letter deleted successfully"})
}

// nonNil keeps empty lists encoded as [] rather than null
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
