package handlers

import (
	"net/http"

	"couple-space-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

// GetPhotos handles GET /api/v1/photos
func (h *PhotoHandler) GetPhotos(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	photos, err := h.photoService.List(r.Context(), p)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", p.ID).
			Msg("Failed to get photos")
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, nonNil(photos))
}

// UploadPhoto handles POST /api/v1/photos
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.UploadRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	photo, err := h.photoService.Upload(r.Context(), p, req)
	if err != nil {
		respondAppError(w, err)
		return
	}

	log.Info().
		Str("user_id", p.ID).
		Str("photo_id", photo.ID).
		Bool("object_storage", photo.ImageKey != "").
		Msg("Photo uploaded")

	respondJSON(w, http.StatusOK, photo)
}

// DeletePhoto handles DELETE /api/v1/photos/{photo_id}
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	photoID := chi.URLParam(r, "photo_id")

	if err := h.photoService.Delete(r.Context(), p, photoID); err != nil {
		log.Warn().
			Err(err).
			Str("user_id", p.ID).
			Str("photo_id", photoID).
			Msg("Failed to delete photo")
		respondAppError(w, err)
		return
	}

	log.Info().Str("user_id", p.ID).Str("photo_id", photoID).Msg("Photo deleted")

	respondJSON(w, http.StatusOK, MessageResponse{Message: "Photo deleted successfully"})
}
