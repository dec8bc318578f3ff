package repository

import (
	"context"
	"fmt"

	"couple-space-backend/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var answerColumns = []string{
	"id", "question_id", "user_id", "username", "role", "answer_text", "created_at",
}

// AnswerRepository handles database operations for answers
type AnswerRepository struct {
	db DBTX
}

// NewAnswerRepository creates a new answer repository
func NewAnswerRepository(db DBTX) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Upsert stores the answer, replacing the text of an existing answer by the
// same user to the same question. It returns the stored row.
func (r *AnswerRepository) Upsert(ctx context.Context, answer *models.Answer) (*models.Answer, error) {
	query := `
		INSERT INTO answers (id, question_id, user_id, username, role, answer_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (question_id, user_id) DO UPDATE SET answer_text = EXCLUDED.answer_text
		RETURNING id, question_id, user_id, username, role, answer_text, created_at
	`
	stored, err := scanAnswer(r.db.QueryRow(ctx, query,
		answer.ID, answer.QuestionID, answer.UserID, answer.Username, string(answer.Role),
		answer.AnswerText, answer.CreatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert answer: %w", mapError(err))
	}
	return stored, nil
}

// ListByQuestion retrieves the answers of the given users to a question
func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID string, userIDs []string) ([]*models.Answer, error) {
	query, args, err := psql.Select(answerColumns...).
		From("answers").
		Where(sq.Eq{"question_id": questionID, "user_id": userIDs}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build answers query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	defer rows.Close()

	var answers []*models.Answer
	for rows.Next() {
		answer, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating answers: %w", err)
	}
	return answers, nil
}

func scanAnswer(row pgx.Row) (*models.Answer, error) {
	var (
		answer models.Answer
		role   string
	)
	err := row.Scan(
		&answer.ID, &answer.QuestionID, &answer.UserID, &answer.Username, &role,
		&answer.AnswerText, &answer.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	answer.Role = models.Role(role)
	return &answer, nil
}
