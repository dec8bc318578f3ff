package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"couple-space-backend/internal/middleware"
	"couple-space-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageResponse is returned by operations without a resource body
type MessageResponse struct {
	Message string `json:"message"`
}

var kindStatus = map[models.ErrorKind]int{
	models.KindInvalidInput: http.StatusBadRequest,
	models.KindInvalidState: http.StatusBadRequest,
	models.KindUnauthorized: http.StatusUnauthorized,
	models.KindForbidden:    http.StatusForbidden,
	models.KindNotFound:     http.StatusNotFound,
	models.KindConflict:     http.StatusConflict,
	models.KindInternal:     http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for an error kind
func StatusFor(kind models.ErrorKind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondAppError maps a service error to its status. Internal causes are
// logged and replaced by a generic message.
func respondAppError(w http.ResponseWriter, err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}
	if appErr.Kind == models.KindInternal {
		log.Error().Err(appErr.Err).Msg("Request failed")
	}
	respondJSON(w, StatusFor(appErr.Kind), ErrorResponse{Error: appErr.Message, Code: string(appErr.Kind)})
}

// decodeJSON decodes the request body into dst
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	return json.NewDecoder(r.Body).Decode(dst)
}

// principal returns the authenticated caller or writes 401
func principal(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		respondError(w, "Authentication required", http.StatusUnauthorized)
	}
	return p, ok
}
