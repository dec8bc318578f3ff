package repository

import (
	"context"
	"fmt"

	"couple-space-backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var letterColumns = []string{
	"id", "title", "content", "from_user_id", "from_name", "to_user_id", "created_at",
}

// LetterRepository handles database operations for letters
type LetterRepository struct {
	db DBTX
}

// NewLetterRepository creates a new letter repository
func NewLetterRepository(db DBTX) *LetterRepository {
	return &LetterRepository{db: db}
}

// Create creates a new letter
func (r *LetterRepository) Create(ctx context.Context, letter *models.Letter) error {
	query := `
		INSERT INTO letters (id, title, content, from_user_id, from_name, to_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		letter.ID, letter.Title, letter.Content, letter.FromUserID, letter.FromName,
		letter.ToUserID, letter.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create letter: %w", mapError(err))
	}
	return nil
}

// GetByID retrieves a letter by ID
func (r *LetterRepository) GetByID(ctx context.Context, id string) (*models.Letter, error) {
	query, args, err := psql.Select(letterColumns...).From("letters").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build letter query: %w", err)
	}
	letter, err := scanLetter(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to get letter: %w", mapError(err))
	}
	return letter, nil
}

// ListForUsers retrieves letters sent by or addressed to any of the given users, newest first
func (r *LetterRepository) ListForUsers(ctx context.Context, userIDs []string) ([]*models.Letter, error) {
	query, args, err := psql.Select(letterColumns...).
		From("letters").
		Where(sq.Or{sq.Eq{"from_user_id": userIDs}, sq.Eq{"to_user_id": userIDs}}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build letters query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get letters: %w", err)
	}
	defer rows.Close()

	var letters []*models.Letter
	for rows.Next() {
		letter, err := scanLetter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan letter: %w", err)
		}
		letters = append(letters, letter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating letters: %w", err)
	}
	return letters, nil
}

// Delete deletes a letter by ID
func (r *LetterRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM letters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete letter: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete letter: %w", ErrNotFound)
	}
	return nil
}

func scanLetter(row pgx.Row) (*models.Letter, error) {
	var letter models.Letter
	err := row.Scan(
		&letter.ID, &letter.Title, &letter.Content, &letter.FromUserID, &letter.FromName,
		&letter.ToUserID, &letter.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &letter, nil
}
