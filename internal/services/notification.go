package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"couple-space-backend/internal/metrics"
	"couple-space-backend/internal/models"
	"couple-space-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	notificationListLimit = 100
	regenerateLockTTL     = 30 * time.Second
)

// anniversaryMessages maps days until the anniversary to the reminder sent
// on that day. Other offsets produce nothing.
var anniversaryMessages = map[int]string{
	7: "Your anniversary is coming up in 7 days! 💕",
	1: "Tomorrow is your special day! Don't forget to celebrate 🎉",
	0: "Happy Anniversary! 💕🎊 Wishing you both a wonderful day!",
}

// AnniversaryMessage returns the reminder for daysUntil, if any
func AnniversaryMessage(daysUntil int) (string, bool) {
	msg, ok := anniversaryMessages[daysUntil]
	return msg, ok
}

// Outcome is the result of processing one user during regeneration
type Outcome struct {
	UserID    string
	DaysUntil int
	Message   string
	Created   bool
	Err       error
}

// AnniversaryGenerator materializes anniversary reminders for every user
type AnniversaryGenerator struct {
	userRepo         UserStore
	notificationRepo NotificationStore
	cache            Cache
}

// NewAnniversaryGenerator creates a new generator
func NewAnniversaryGenerator(userRepo UserStore, notificationRepo NotificationStore, cache Cache) *AnniversaryGenerator {
	return &AnniversaryGenerator{
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		cache:            orNoopCache(cache),
	}
}

// Regenerate creates the reminders due on today. It is idempotent per day:
// a reminder whose (user_id, type, date, message) already exists is skipped.
// A failure for one user is recorded in its Outcome and does not stop the
// others; only a failure to list users is returned as an error.
func (g *AnniversaryGenerator) Regenerate(ctx context.Context, today time.Time) ([]Outcome, error) {
	lockKey := "notifications:regenerate:" + today.Format(DateLayout)
	locked, err := g.cache.TryLock(ctx, lockKey, regenerateLockTTL)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("Regeneration lock unavailable, continuing without it")
	case !locked:
		log.Debug().Str("lock", lockKey).Msg("Regeneration already running elsewhere")
		return nil, nil
	}
	defer func() {
		if err := g.cache.Unlock(ctx, lockKey); err != nil {
			log.Warn().Err(err).Str("lock", lockKey).Msg("Failed to release regeneration lock")
		}
	}()

	users, err := g.userRepo.ListWithAnniversary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users with anniversary: %w", err)
	}

	outcomes := make([]Outcome, 0, len(users))
	for _, user := range users {
		if user.AnniversaryDate == nil || *user.AnniversaryDate == "" {
			continue
		}

		outcome := g.processUser(ctx, user, today)
		if outcome.Err != nil {
			metrics.NotificationFailures.Inc()
			log.Error().
				Err(outcome.Err).
				Str("user_id", user.ID).
				Msg("Failed to process anniversary")
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

func (g *AnniversaryGenerator) processUser(ctx context.Context, user *models.User, today time.Time) Outcome {
	outcome := Outcome{UserID: user.ID}

	anniversary, err := ParseDate(*user.AnniversaryDate)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.DaysUntil = DaysBetween(today, NextAnniversary(anniversary, today))

	message, ok := AnniversaryMessage(outcome.DaysUntil)
	if !ok {
		return outcome
	}
	outcome.Message = message

	date := *user.AnniversaryDate
	exists, err := g.notificationRepo.Exists(ctx, user.ID, models.NotificationTypeAnniversary, date, message)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	if exists {
		return outcome
	}

	created, err := g.notificationRepo.CreateIfAbsent(ctx, &models.Notification{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Type:      models.NotificationTypeAnniversary,
		Message:   message,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		outcome.Err = err
		return outcome
	}
	if created {
		metrics.NotificationsCreated.WithLabelValues(models.NotificationTypeAnniversary).Inc()
	}
	outcome.Created = created
	return outcome
}

// NotificationService serves a user's notifications
type NotificationService struct {
	notificationRepo NotificationStore
	generator        *AnniversaryGenerator
	loc              *time.Location
	now              func() time.Time
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo NotificationStore, generator *AnniversaryGenerator, loc *time.Location) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		generator:        generator,
		loc:              loc,
		now:              time.Now,
	}
}

// List regenerates due reminders and returns the principal's notifications,
// newest first. Regeneration problems are logged, never returned.
func (s *NotificationService) List(ctx context.Context, principal models.Principal) ([]*models.Notification, error) {
	if _, err := s.generator.Regenerate(ctx, Today(s.now(), s.loc)); err != nil {
		log.Error().Err(err).Str("user_id", principal.ID).Msg("Failed to regenerate notifications")
	}

	notifications, err := s.notificationRepo.ListByUser(ctx, principal.ID, notificationListLimit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return notifications, nil
}

// MarkRead marks one of the principal's notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, principal models.Principal, notificationID string) error {
	n, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.NewNotFoundError("notification")
		}
		return models.NewInternalError(err)
	}

	if n.UserID != principal.ID {
		return models.NewForbiddenError("this notification doesn't belong to you")
	}

	if err := s.notificationRepo.MarkRead(ctx, notificationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.NewNotFoundError("notification")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// UnreadCount returns the number of unread notifications of the principal
func (s *NotificationService) UnreadCount(ctx context.Context, principal models.Principal) (int, error) {
	count, err := s.notificationRepo.CountUnread(ctx, principal.ID)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
