package services

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"time"

	"couple-space-backend/internal/metrics"
	"couple-space-backend/internal/models"
	"couple-space-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	dailyQuestionTTL    = 24 * time.Hour
	defaultHistoryLimit = 30
	maxHistoryLimit     = 365
)

// QuestionTemplate is one entry of the daily question pool
type QuestionTemplate struct {
	Text     string
	Category string
}

// questionPool is the fixed, ordered pool daily questions are drawn from.
// Its order is part of the selection contract.
var questionPool = []QuestionTemplate{
	{"What's your favorite memory of us together?", "memories"},
	{"What makes you smile when you think of me?", "feelings"},
	{"If we could travel anywhere together, where would it be?", "dreams"},
	{"What's one thing you appreciate about our relationship?", "appreciation"},
	{"What song reminds you of us?", "music"},
	{"What's your favorite thing we do together?", "activities"},
	{"How do you feel loved by me?", "love_language"},
	{"What's something new you'd like us to try together?", "adventure"},
	{"What was your first impression of me?", "memories"},
	{"What's your favorite physical feature of mine?", "attraction"},
	{"What do you think makes our relationship special?", "relationship"},
	{"What's a goal you have for us as a couple?", "future"},
	{"What's the sweetest thing I've ever done for you?", "appreciation"},
	{"What's your favorite way to spend time together?", "quality_time"},
	{"What's one thing you want me to know but haven't told me?", "communication"},
}

// QuestionIndex maps a YYYY-MM-DD date string to a pool index: the 32-bit
// FNV-1a hash (offset basis 2166136261, prime 16777619) of the string's
// bytes, modulo the pool size.
func QuestionIndex(date string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(date))
	return int(h.Sum32() % uint32(len(questionPool)))
}

// SelectQuestion returns the pool entry for date
func SelectQuestion(date string) QuestionTemplate {
	return questionPool[QuestionIndex(date)]
}

// QuestionService handles daily questions and answers
type QuestionService struct {
	questionRepo QuestionStore
	answerRepo   AnswerStore
	cache        Cache
	loc          *time.Location
	now          func() time.Time
}

// NewQuestionService creates a new question service
func NewQuestionService(questionRepo QuestionStore, answerRepo AnswerStore, cache Cache, loc *time.Location) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		cache:        orNoopCache(cache),
		loc:          loc,
		now:          time.Now,
	}
}

// Today returns today's date in the service time zone
func (s *QuestionService) Today() time.Time {
	return Today(s.now(), s.loc)
}

// DailyQuestion returns the question for today, persisting it on first access
func (s *QuestionService) DailyQuestion(ctx context.Context, today time.Time) (*models.Question, error) {
	date := today.Format(DateLayout)
	cacheKey := "daily_question:" + date

	var cached models.Question
	if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && cached.ID != "" {
		return &cached, nil
	}

	question, err := s.questionRepo.GetByDate(ctx, date)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewInternalError(err)
		}
		question, err = s.createDaily(ctx, date)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	if err := s.cache.SetJSON(ctx, cacheKey, question, dailyQuestionTTL); err != nil {
		log.Warn().Err(err).Str("date", date).Msg("Failed to cache daily question")
	}
	return question, nil
}

// createDaily persists the selected question for date. A concurrent caller
// may win the insert, so the stored row is re-read and returned.
func (s *QuestionService) createDaily(ctx context.Context, date string) (*models.Question, error) {
	tmpl := SelectQuestion(date)
	created, err := s.questionRepo.CreateIfAbsent(ctx, &models.Question{
		ID:           uuid.New().String(),
		QuestionText: tmpl.Text,
		Category:     tmpl.Category,
		Date:         date,
	})
	if err != nil {
		return nil, err
	}
	if created {
		metrics.DailyQuestionsCreated.Inc()
		log.Info().Str("date", date).Str("category", tmpl.Category).Msg("Daily question created")
	}
	return s.questionRepo.GetByDate(ctx, date)
}

// History returns past daily questions, newest first
func (s *QuestionService) History(ctx context.Context, limit int) ([]*models.Question, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	questions, err := s.questionRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return questions, nil
}

// SubmitAnswerRequest represents an answer submission
type SubmitAnswerRequest struct {
	QuestionID string `json:"question_id"`
	AnswerText string `json:"answer_text"`
}

// SubmitAnswer stores the principal's answer; a resubmission replaces the text
func (s *QuestionService) SubmitAnswer(ctx context.Context, principal models.Principal, req SubmitAnswerRequest) (*models.Answer, error) {
	if req.QuestionID == "" {
		return nil, models.NewInvalidInputError("question_id is required")
	}
	if strings.TrimSpace(req.AnswerText) == "" {
		return nil, models.NewInvalidInputError("answer_text is required")
	}

	if _, err := s.questionRepo.GetByID(ctx, req.QuestionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("question")
		}
		return nil, models.NewInternalError(err)
	}

	answer, err := s.answerRepo.Upsert(ctx, &models.Answer{
		ID:         uuid.New().String(),
		QuestionID: req.QuestionID,
		UserID:     principal.ID,
		Username:   principal.Username,
		Role:       principal.Role,
		AnswerText: req.AnswerText,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return answer, nil
}

// Answers returns the couple's answers to a question
func (s *QuestionService) Answers(ctx context.Context, principal models.Principal, questionID string) ([]*models.Answer, error) {
	answers, err := s.answerRepo.ListByQuestion(ctx, questionID, principal.CoupleScope())
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return answers, nil
}
