package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"couple-space-backend/internal/models"
	"couple-space-backend/internal/repository"
	"couple-space-backend/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxPhotoBytes = 10 << 20

// PhotoService handles photo-related business logic
type PhotoService struct {
	photoRepo PhotoStore
	blobs     BlobStore
	now       func() time.Time
}

// NewPhotoService creates a new photo service. With a nil blob store image
// payloads are kept inline in the database.
func NewPhotoService(photoRepo PhotoStore, blobs BlobStore) *PhotoService {
	return &PhotoService{
		photoRepo: photoRepo,
		blobs:     blobs,
		now:       time.Now,
	}
}

// UploadRequest represents a photo upload
type UploadRequest struct {
	ImageBase64 string `json:"image_base64"`
	Caption     string `json:"caption"`
	Date        string `json:"date"`
}

// List returns the photos uploaded by the couple, newest first
func (s *PhotoService) List(ctx context.Context, principal models.Principal) ([]*models.Photo, error) {
	photos, err := s.photoRepo.ListByUploaders(ctx, principal.CoupleScope())
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if s.blobs != nil {
		for _, photo := range photos {
			if photo.ImageKey == "" {
				continue
			}
			url, err := s.blobs.URL(ctx, photo.ImageKey)
			if err != nil {
				log.Error().Err(err).Str("photo_id", photo.ID).Msg("Failed to sign photo URL")
				continue
			}
			photo.ImageURL = url
		}
	}

	return photos, nil
}

// Upload stores a new photo for the principal
func (s *PhotoService) Upload(ctx context.Context, principal models.Principal, req UploadRequest) (*models.Photo, error) {
	if req.ImageBase64 == "" {
		return nil, models.NewInvalidInputError("image_base64 is required")
	}
	if req.Date != "" {
		if _, err := ParseDate(req.Date); err != nil {
			return nil, models.NewInvalidInputError("date must be a YYYY-MM-DD date")
		}
	}

	data, contentType, err := decodeImage(req.ImageBase64)
	if err != nil {
		return nil, models.NewInvalidInputError(err.Error())
	}

	photo := &models.Photo{
		ID:           uuid.New().String(),
		Caption:      req.Caption,
		Date:         req.Date,
		UploadedBy:   principal.ID,
		UploaderName: principal.DisplayName,
		CreatedAt:    s.now().UTC(),
	}

	if s.blobs != nil {
		photo.ImageKey = storage.PhotoKey(principal.ID, photo.ID)
		if err := s.blobs.Put(ctx, photo.ImageKey, data, contentType); err != nil {
			return nil, models.NewInternalError(err)
		}
	} else {
		photo.ImageBase64 = req.ImageBase64
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, models.NewInternalError(err)
	}

	if photo.ImageKey != "" {
		if url, err := s.blobs.URL(ctx, photo.ImageKey); err == nil {
			photo.ImageURL = url
		}
	}

	return photo, nil
}

// Delete removes a photo; its uploader or the uploader's partner may delete it
func (s *PhotoService) Delete(ctx context.Context, principal models.Principal, photoID string) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.NewNotFoundError("photo")
		}
		return models.NewInternalError(err)
	}

	if !principal.InScope(photo.UploadedBy) {
		return models.NewForbiddenError("you can only delete photos from your relationship")
	}

	if err := s.photoRepo.Delete(ctx, photoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.NewNotFoundError("photo")
		}
		return models.NewInternalError(err)
	}

	if photo.ImageKey != "" && s.blobs != nil {
		if err := s.blobs.Delete(ctx, photo.ImageKey); err != nil {
			log.Error().Err(err).Str("photo_id", photo.ID).Msg("Failed to delete photo object")
		}
	}
	return nil
}

// decodeImage accepts plain base64 or a data URL and returns the decoded
// bytes with their content type
func decodeImage(payload string) ([]byte, string, error) {
	contentType := ""
	if strings.HasPrefix(payload, "data:") {
		header, body, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, "", fmt.Errorf("malformed data URL")
		}
		contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = body
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("image_base64 is not valid base64")
	}
	if len(data) > maxPhotoBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxPhotoBytes)
	}

	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("payload is not an image")
	}
	return data, contentType, nil
}
