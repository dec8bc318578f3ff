package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"couple-space-backend/internal/models"
	"couple-space-backend/internal/repository"

	"github.com/google/uuid"
)

// LetterService handles letters between partners
type LetterService struct {
	letterRepo LetterStore
	now        func() time.Time
}

// NewLetterService creates a new letter service
func NewLetterService(letterRepo LetterStore) *LetterService {
	return &LetterService{letterRepo: letterRepo, now: time.Now}
}

// CreateLetterRequest represents a new letter. ToUserID defaults to the partner.
type CreateLetterRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ToUserID string `json:"to_user_id"`
}

// List returns letters sent or received by the couple, newest first
func (s *LetterService) List(ctx context.Context, principal models.Principal) ([]*models.Letter, error) {
	letters, err := s.letterRepo.ListForUsers(ctx, principal.CoupleScope())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return letters, nil
}

// Create writes a letter from the principal
func (s *LetterService) Create(ctx context.Context, principal models.Principal, req CreateLetterRequest) (*models.Letter, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, models.NewInvalidInputError("title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, models.NewInvalidInputError("content is required")
	}

	to := req.ToUserID
	if to == "" {
		if !principal.HasPartner() {
			return nil, models.NewInvalidInputError("to_user_id is required until a partner is linked")
		}
		to = principal.PartnerID
	}
	if !principal.InScope(to) {
		return nil, models.NewForbiddenError("letters can only be sent within your relationship")
	}

	letter := &models.Letter{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Content:    req.Content,
		FromUserID: principal.ID,
		FromName:   principal.DisplayName,
		ToUserID:   to,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.letterRepo.Create(ctx, letter); err != nil {
		return nil, models.NewInternalError(err)
	}
	return letter, nil
}

// Delete removes a letter; only its sender may delete it
func (s *LetterService) Delete(ctx context.Context, principal models.Principal, letterID string) error {
	letter, err := s.letterRepo.GetByID(ctx, letterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.NewNotFoundError("letter")
		}
		return models.NewInternalError(err)
	}

	if letter.FromUserID != principal.ID {
		return models.NewForbiddenError("you can only delete your own letters")
	}

	if err := s.letterRepo.Delete(ctx, letterID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.NewNotFoundError("letter")
		}
		return models.NewInternalError(err)
	}
	return nil
}
