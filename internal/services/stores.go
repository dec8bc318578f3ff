package services

import (
	"context"
	"errors"
	"time"

	"couple-space-backend/internal/models"
)

// The store interfaces below are satisfied by the repositories in
// internal/repository.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ListWithAnniversary(ctx context.Context) ([]*models.User, error)
}

type PairStore interface {
	Link(ctx context.Context, userID, partnerID string) error
}

type LetterStore interface {
	Create(ctx context.Context, letter *models.Letter) error
	GetByID(ctx context.Context, id string) (*models.Letter, error)
	ListForUsers(ctx context.Context, userIDs []string) ([]*models.Letter, error)
	Delete(ctx context.Context, id string) error
}

type MoodStore interface {
	Create(ctx context.Context, mood *models.Mood) error
	ListByUsers(ctx context.Context, userIDs []string) ([]*models.Mood, error)
	Latest(ctx context.Context, userID string) (*models.Mood, error)
}

type PhotoStore interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	ListByUploaders(ctx context.Context, userIDs []string) ([]*models.Photo, error)
	Delete(ctx context.Context, id string) error
}

type QuestionStore interface {
	CreateIfAbsent(ctx context.Context, question *models.Question) (bool, error)
	GetByDate(ctx context.Context, date string) (*models.Question, error)
	GetByID(ctx context.Context, id string) (*models.Question, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Question, error)
}

type AnswerStore interface {
	Upsert(ctx context.Context, answer *models.Answer) (*models.Answer, error)
	ListByQuestion(ctx context.Context, questionID string, userIDs []string) ([]*models.Answer, error)
}

type NotificationStore interface {
	Exists(ctx context.Context, userID, notifType, date, message string) (bool, error)
	CreateIfAbsent(ctx context.Context, n *models.Notification) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

// Cache is satisfied by *cache.RedisCache, including a nil one
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// BlobStore is satisfied by *storage.S3Store
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type noopCache struct{}

func (noopCache) GetJSON(context.Context, string, any) error { return errCacheMiss }
func (noopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) TryLock(context.Context, string, time.Duration) (bool, error) { return true, nil }
func (noopCache) Unlock(context.Context, string) error { return nil }

var errCacheMiss = errors.New("cache miss")

func orNoopCache(c Cache) Cache {
	if c == nil {
		return noopCache{}
	}
	return c
}
