package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"couple-space-backend/internal/metrics"
	"couple-space-backend/internal/models"
	"couple-space-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

// PairService handles partner linking and couple-level views
type PairService struct {
	userRepo UserStore
	pairRepo PairStore
	loc      *time.Location
	now      func() time.Time
}

// NewPairService creates a new pair service
func NewPairService(userRepo UserStore, pairRepo PairStore, loc *time.Location) *PairService {
	return &PairService{
		userRepo: userRepo,
		pairRepo: pairRepo,
		loc:      loc,
		now:      time.Now,
	}
}

// LinkPartnerRequest represents a request to link with a partner
type LinkPartnerRequest struct {
	PartnerUsername string `json:"partner_username"`
}

// LinkPartner links the principal and the user named partnerUsername in both
// directions and returns the partner. Relinking an existing pair is a no-op.
func (s *PairService) LinkPartner(ctx context.Context, principal models.Principal, partnerUsername string) (*models.User, error) {
	partnerUsername = strings.TrimSpace(partnerUsername)
	if partnerUsername == "" {
		return nil, models.NewInvalidInputError("partner_username is required")
	}

	self, err := s.userRepo.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("user")
		}
		return nil, models.NewInternalError(err)
	}

	partner, err := s.userRepo.GetByUsername(ctx, partnerUsername)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("partner")
		}
		return nil, models.NewInternalError(err)
	}

	if partner.Role == self.Role {
		return nil, models.NewInvalidStateError("roles must differ: partner must have a different role (one boyfriend, one girlfriend)")
	}

	if self.HasPartner() && *self.PartnerID != partner.ID {
		return nil, models.NewConflictError("you are already linked with another partner")
	}
	if partner.HasPartner() && *partner.PartnerID != self.ID {
		return nil, models.NewConflictError("partner is already linked with someone else")
	}

	if self.HasPartner() && partner.HasPartner() {
		return partner, nil
	}

	if err := s.pairRepo.Link(ctx, self.ID, partner.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, models.NewConflictError("partner is already linked with someone else")
		case errors.Is(err, repository.ErrNotFound):
			return nil, models.NewNotFoundError("partner")
		}
		return nil, models.NewInternalError(err)
	}
	metrics.PartnerLinks.Inc()

	log.Info().
		Str("user_id", self.ID).
		Str("partner_id", partner.ID).
		Msg("Partners linked")

	selfID := self.ID
	partner.PartnerID = &selfID
	return partner, nil
}

// CoupleSummary is the couple overview shown on the dashboard
type CoupleSummary struct {
	User                 *models.User `json:"user"`
	Partner              *models.User `json:"partner,omitempty"`
	DaysTogether         *int         `json:"days_together,omitempty"`
	DaysUntilAnniversary *int         `json:"days_until_anniversary,omitempty"`
	NextAnniversary      string       `json:"next_anniversary,omitempty"`
}

// Summary returns the principal, the partner and the relationship counters
func (s *PairService) Summary(ctx context.Context, principal models.Principal) (*CoupleSummary, error) {
	user, err := s.userRepo.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("user")
		}
		return nil, models.NewInternalError(err)
	}

	summary := &CoupleSummary{User: user}

	if user.HasPartner() {
		partner, err := s.userRepo.GetByID(ctx, *user.PartnerID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewInternalError(err)
		}
		summary.Partner = partner
	}

	today := Today(s.now(), s.loc)

	if user.RelationshipStart != nil {
		if start, err := ParseDate(*user.RelationshipStart); err == nil && !start.After(today) {
			days := DaysBetween(start, today)
			summary.DaysTogether = &days
		}
	}

	if user.AnniversaryDate != nil {
		if anniversary, err := ParseDate(*user.AnniversaryDate); err == nil {
			next := NextAnniversary(anniversary, today)
			days := DaysBetween(today, next)
			summary.DaysUntilAnniversary = &days
			summary.NextAnniversary = next.Format(DateLayout)
		}
	}

	return summary, nil
}
