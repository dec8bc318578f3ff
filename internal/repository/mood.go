package repository

import (
	"context"
	"fmt"

	"couple-space-backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var moodColumns = []string{
	"id", "user_id", "username", "role", "mood", "emoji", "note", "created_at",
}

// MoodRepository handles database operations for moods
type MoodRepository struct {
	db DBTX
}

// NewMoodRepository creates a new mood repository
func NewMoodRepository(db DBTX) *MoodRepository {
	return &MoodRepository{db: db}
}

// Create creates a new mood
func (r *MoodRepository) Create(ctx context.Context, mood *models.Mood) error {
	query := `
		INSERT INTO moods (id, user_id, username, role, mood, emoji, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		mood.ID, mood.UserID, mood.Username, string(mood.Role), mood.Mood, mood.Emoji,
		mood.Note, mood.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create mood: %w", mapError(err))
	}
	return nil
}

// ListByUsers retrieves moods of the given users, newest first
func (r *MoodRepository) ListByUsers(ctx context.Context, userIDs []string) ([]*models.Mood, error) {
	query, args, err := psql.Select(moodColumns...).
		From("moods").
		Where(sq.Eq{"user_id": userIDs}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build moods query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get moods: %w", err)
	}
	defer rows.Close()

	var moods []*models.Mood
	for rows.Next() {
		mood, err := scanMood(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mood: %w", err)
		}
		moods = append(moods, mood)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating moods: %w", err)
	}
	return moods, nil
}

// Latest retrieves the most recent mood of a user
func (r *MoodRepository) Latest(ctx context.Context, userID string) (*models.Mood, error) {
	query, args, err := psql.Select(moodColumns...).
		From("moods").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build latest mood query: %w", err)
	}
	mood, err := scanMood(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to get latest mood: %w", mapError(err))
	}
	return mood, nil
}

func scanMood(row pgx.Row) (*models.Mood, error) {
	var (
		mood models.Mood
		role string
	)
	err := row.Scan(
		&mood.ID, &mood.UserID, &mood.Username, &role, &mood.Mood, &mood.Emoji,
		&mood.Note, &mood.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	mood.Role = models.Role(role)
	return &mood, nil
}
