package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"couple-space-backend/internal/models"
	"couple-space-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	minPasswordLength = 6
	maxUsernameLength = 50
)

// Claims are the JWT claims identifying a principal
type Claims struct {
	Username    string `json:"username"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	PartnerID   string `json:"partner_id,omitempty"`
	jwt.RegisteredClaims
}

// UserService handles registration, login and token handling
type UserService struct {
	userRepo  UserStore
	hasher    PasswordHasher
	jwtSecret string
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewUserService creates a new user service
func NewUserService(userRepo UserStore, hasher PasswordHasher, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		userRepo:  userRepo,
		hasher:    hasher,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// RegisterRequest represents a registration
type RegisterRequest struct {
	Username          string      `json:"username"`
	Password          string      `json:"password"`
	Role              models.Role `json:"role"`
	DisplayName       string      `json:"display_name"`
	AnniversaryDate   *string     `json:"anniversary_date,omitempty"`
	RelationshipStart *string     `json:"relationship_start,omitempty"`
}

// Validate checks the registration fields
func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.DisplayName = strings.TrimSpace(r.DisplayName)

	if r.Username == "" || len(r.Username) > maxUsernameLength {
		return models.NewInvalidInputError(fmt.Sprintf("username must be 1-%d characters", maxUsernameLength))
	}
	if len(r.Password) < minPasswordLength {
		return models.NewInvalidInputError(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if !r.Role.Valid() {
		return models.NewInvalidInputError("role must be either 'boyfriend' or 'girlfriend'")
	}
	if r.DisplayName == "" {
		return models.NewInvalidInputError("display_name is required")
	}
	for field, value := range map[string]*string{
		"anniversary_date":   r.AnniversaryDate,
		"relationship_start": r.RelationshipStart,
	} {
		if value == nil || *value == "" {
			continue
		}
		if _, err := ParseDate(*value); err != nil {
			return models.NewInvalidInputError(field + " must be a YYYY-MM-DD date")
		}
	}
	return nil
}

// LoginResponse carries the issued token and the public user record
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// Register creates a new user
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, models.NewConflictError("username already registered")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, models.NewInternalError(err)
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		ID:                uuid.New().String(),
		Username:          req.Username,
		PasswordHash:      digest,
		Role:              req.Role,
		DisplayName:       req.DisplayName,
		AnniversaryDate:   emptyToNil(req.AnniversaryDate),
		RelationshipStart: emptyToNil(req.RelationshipStart),
		CreatedAt:         s.now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, models.NewConflictError("username already registered")
		}
		return nil, models.NewInternalError(err)
	}

	return user, nil
}

// Login verifies credentials and issues a token
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewUnauthorizedError("incorrect username or password")
		}
		return nil, models.NewInternalError(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, models.NewUnauthorizedError("incorrect username or password")
	}

	token, err := s.GenerateJWT(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &LoginResponse{AccessToken: token, TokenType: "bearer", User: user}, nil
}

// Me returns the stored record of the principal
func (s *UserService) Me(ctx context.Context, principal models.Principal) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, models.NewNotFoundError("user")
		}
		return nil, models.NewInternalError(err)
	}
	return user, nil
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		Username:    user.Username,
		Role:        string(user.Role),
		DisplayName: user.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	if user.PartnerID != nil {
		claims.PartnerID = *user.PartnerID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the principal it asserts
func (s *UserService) ValidateJWT(tokenString string) (models.Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return models.Principal{}, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return models.Principal{}, fmt.Errorf("invalid token")
	}

	if claims.Subject == "" {
		return models.Principal{}, fmt.Errorf("subject not found in token")
	}

	return models.Principal{
		ID:          claims.Subject,
		Username:    claims.Username,
		Role:        models.Role(claims.Role),
		DisplayName: claims.DisplayName,
		PartnerID:   claims.PartnerID,
	}, nil
}

// Authenticate verifies a token and refreshes the principal from the store,
// so a partner link made after the token was issued is visible.
func (s *UserService) Authenticate(ctx context.Context, token string) (models.Principal, error) {
	asserted, err := s.ValidateJWT(token)
	if err != nil {
		return models.Principal{}, models.NewUnauthorizedError("invalid token")
	}

	user, err := s.userRepo.GetByID(ctx, asserted.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Principal{}, models.NewUnauthorizedError("invalid token")
		}
		return models.Principal{}, models.NewInternalError(err)
	}

	return models.PrincipalFromUser(user), nil
}

// RefreshToken issues a new token reflecting the user's current state
func (s *UserService) RefreshToken(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	token, err := s.GenerateJWT(user)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return token, nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
