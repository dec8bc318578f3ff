package handlers

import (
	"net/http"

	"couple-space-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles authentication and identity requests
type UserHandler struct {
	userService *services.UserService
	pairService *services.PairService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, pairService *services.PairService) *UserHandler {
	return &UserHandler{
		userService: userService,
		pairService: pairService,
	}
}

// LoginRequest represents the login body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LinkPartnerResponse is returned after a successful link. AccessToken
// carries the refreshed partner claim.
type LinkPartnerResponse struct {
	Message     string `json:"message"`
	PartnerName string `json:"partner_name"`
	AccessToken string `json:"access_token,omitempty"`
}

// Register handles POST /api/v1/auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(r.Context(), req)
	if err != nil {
		respondAppError(w, err)
		return
	}

	log.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Str("role", string(user.Role)).
		Msg("User registered")

	respondJSON(w, http.StatusOK, user)
}

// Login handles POST /api/v1/auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.userService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		log.Warn().Str("username", req.Username).Msg("Login failed")
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/v1/auth/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	user, err := h.userService.Me(r.Context(), p)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// LinkPartner handles POST /api/v1/auth/link-partner
func (h *UserHandler) LinkPartner(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.LinkPartnerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	partner, err := h.pairService.LinkPartner(r.Context(), p, req.PartnerUsername)
	if err != nil {
		log.Warn().
			Err(err).
			Str("user_id", p.ID).
			Str("partner_username", req.PartnerUsername).
			Msg("Failed to link partner")
		respondAppError(w, err)
		return
	}

	resp := LinkPartnerResponse{
		Message:     "Successfully linked with partner",
		PartnerName: partner.DisplayName,
	}

	token, err := h.userService.RefreshToken(r.Context(), p.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", p.ID).Msg("Failed to refresh token after link")
	} else {
		resp.AccessToken = token
	}

	respondJSON(w, http.StatusOK, resp)
}
