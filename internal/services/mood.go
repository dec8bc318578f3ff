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

// MoodService handles mood check-ins
type MoodService struct {
	moodRepo MoodStore
	now      func() time.Time
}

// NewMoodService creates a new mood service
func NewMoodService(moodRepo MoodStore) *MoodService {
	return &MoodService{moodRepo: moodRepo, now: time.Now}
}

// CreateMoodRequest represents a mood check-in
type CreateMoodRequest struct {
	Mood  string `json:"mood"`
	Emoji string `json:"emoji"`
	Note  string `json:"note"`
}

// List returns the couple's mood history, newest first
func (s *MoodService) List(ctx context.Context, principal models.Principal) ([]*models.Mood, error) {
	moods, err := s.moodRepo.ListByUsers(ctx, principal.CoupleScope())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return moods, nil
}

// Latest returns the most recent mood of the principal and of the partner
func (s *MoodService) Latest(ctx context.Context, principal models.Principal) ([]*models.Mood, error) {
	moods := make([]*models.Mood, 0, 2)
	for _, userID := range principal.CoupleScope() {
		mood, err := s.moodRepo.Latest(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, models.NewInternalError(err)
		}
		moods = append(moods, mood)
	}
	return moods, nil
}

// Create records a mood for the principal
func (s *MoodService) Create(ctx context.Context, principal models.Principal, req CreateMoodRequest) (*models.Mood, error) {
	if strings.TrimSpace(req.Mood) == "" {
		return nil, models.NewInvalidInputError("mood is required")
	}

	mood := &models.Mood{
		ID:        uuid.New().String(),
		UserID:    principal.ID,
		Username:  principal.Username,
		Role:      principal.Role,
		Mood:      req.Mood,
		Emoji:     req.Emoji,
		Note:      req.Note,
		CreatedAt: s.now().UTC(),
	}
	if err := s.moodRepo.Create(ctx, mood); err != nil {
		return nil, models.NewInternalError(err)
	}
	return mood, nil
}
