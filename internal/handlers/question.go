package handlers

import (
	"net/http"
	"strconv"

	"couple-space-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// QuestionHandler handles daily questions and answers
type QuestionHandler struct {
	questionService *services.QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(questionService *services.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// GetDailyQuestion handles GET /api/v1/questions/daily
func (h *QuestionHandler) GetDailyQuestion(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}

	question, err := h.questionService.DailyQuestion(r.Context(), h.questionService.Today())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, question)
}

// GetHistory handles GET /api/v1/questions/history
func (h *QuestionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			respondError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	questions, err := h.questionService.History(r.Context(), limit)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(questions))
}

// SubmitAnswer handles POST /api/v1/questions/answers
func (h *QuestionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.SubmitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	answer, err := h.questionService.SubmitAnswer(r.Context(), p, req)
	if err != nil {
		respondAppError(w, err)
		return
	}

	log.Info().
		Str("user_id", p.ID).
		Str("question_id", answer.QuestionID).
		Msg("Answer submitted")

	respondJSON(w, http.StatusOK, answer)
}

// GetAnswers handles GET /api/v1/questions/answers/{question_id}
func (h *QuestionHandler) GetAnswers(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	answers, err := h.questionService.Answers(r.Context(), p, chi.URLParam(r, "question_id"))
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nonNil(answers))
}
