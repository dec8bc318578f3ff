package repository

import (
	"context"
	"fmt"

	"couple-space-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

const questionColumns = `id, question_text, category, date`

// QuestionRepository handles database operations for daily questions
type QuestionRepository struct {
	db DBTX
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// CreateIfAbsent inserts the question unless one already exists for its date.
// It reports whether a row was inserted.
func (r *QuestionRepository) CreateIfAbsent(ctx context.Context, question *models.Question) (bool, error) {
	query := `
		INSERT INTO questions (id, question_text, category, date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date) DO NOTHING
	`
	result, err := r.db.Exec(ctx, query, question.ID, question.QuestionText, question.Category, question.Date)
	if err != nil {
		return false, fmt.Errorf("failed to create question: %w", mapError(err))
	}
	return result.RowsAffected() > 0, nil
}

// GetByDate retrieves the question for a calendar date
func (r *QuestionRepository) GetByDate(ctx context.Context, date string) (*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE date = $1`
	question, err := scanQuestion(r.db.QueryRow(ctx, query, date))
	if err != nil {
		return nil, fmt.Errorf("failed to get question by date: %w", mapError(err))
	}
	return question, nil
}

// GetByID retrieves a question by ID
func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	question, err := scanQuestion(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", mapError(err))
	}
	return question, nil
}

// ListRecent retrieves past daily questions, newest date first
func (r *QuestionRepository) ListRecent(ctx context.Context, limit int) ([]*models.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY date DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}

func scanQuestion(row pgx.Row) (*models.Question, error) {
	var question models.Question
	if err := row.Scan(&question.ID, &question.QuestionText, &question.Category, &question.Date); err != nil {
		return nil, err
	}
	return &question, nil
}
