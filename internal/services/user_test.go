package services

import (
	"context"
	"testing"
	"time"

	"couple-space-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-12345678901234567890"

func newUserFixture(users ...*models.User) (*UserService, *memUsers) {
	store := newMemUsers(users...)
	svc := NewUserService(store, &BcryptHasher{Cost: bcrypt.MinCost}, testSecret, time.Hour)
	return svc, store
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Username:        "alex",
		Password:        "secret1",
		Role:            models.RoleBoyfriend,
		DisplayName:     "Alex",
		AnniversaryDate: strPtr("2020-03-10"),
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, store := newUserFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.HasPartner())

	stored, err := store.GetByUsername(ctx, "alex")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	resp, err := svc.Login(ctx, "alex", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, user.ID, resp.User.ID)

	principal, err := svc.ValidateJWT(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, models.RoleBoyfriend, principal.Role)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)
	_, err = svc.Register(ctx, validRegistration())
	assert.Equal(t, models.KindConflict, models.KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"empty username", func(r *RegisterRequest) { r.Username = " " }},
		{"short password", func(r *RegisterRequest) { r.Password = "abc" }},
		{"bad role", func(r *RegisterRequest) { r.Role = "friend" }},
		{"missing display name", func(r *RegisterRequest) { r.DisplayName = "" }},
		{"bad anniversary", func(r *RegisterRequest) { r.AnniversaryDate = strPtr("10/03/2020") }},
		{"bad start", func(r *RegisterRequest) { r.RelationshipStart = strPtr("2020-13-01") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newUserFixture()
			req := validRegistration()
			tt.mutate(&req)
			_, err := svc.Register(context.Background(), req)
			assert.Equal(t, models.KindInvalidInput, models.KindOf(err))
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newUserFixture()
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alex", "wrong-password")
	assert.Equal(t, models.KindUnauthorized, models.KindOf(err))

	_, err = svc.Login(ctx, "nobody", "secret1")
	assert.Equal(t, models.KindUnauthorized, models.KindOf(err))
}

func TestValidateJWT(t *testing.T) {
	alex := newUser("u-alex", "alex", models.RoleBoyfriend)
	svc, _ := newUserFixture(alex)

	token, err := svc.GenerateJWT(alex)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewUserService(newMemUsers(), &BcryptHasher{Cost: bcrypt.MinCost}, "another-secret", time.Hour)
		_, err := other.ValidateJWT(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewUserService(newMemUsers(), &BcryptHasher{Cost: bcrypt.MinCost}, testSecret, time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.ValidateJWT(token)
		assert.Error(t, err)
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-alex",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateJWT(unsigned)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateJWT("not.a.token")
		assert.Error(t, err)
	})
}

func TestAuthenticateRefreshesPartner(t *testing.T) {
	alex := newUser("u-alex", "alex", models.RoleBoyfriend)
	sam := newUser("u-sam", "sam", models.RoleGirlfriend)
	svc, store := newUserFixture(alex, sam)
	ctx := context.Background()

	token, err := svc.GenerateJWT(alex)
	require.NoError(t, err)

	require.NoError(t, (&memPairs{users: store}).Link(ctx, "u-alex", "u-sam"))

	principal, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "u-sam", principal.PartnerID)

	refreshed, err := svc.RefreshToken(ctx, "u-alex")
	require.NoError(t, err)
	asserted, err := svc.ValidateJWT(refreshed)
	require.NoError(t, err)
	assert.Equal(t, "u-sam", asserted.PartnerID)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc, _ := newUserFixture()
	ghost := newUser("u-ghost", "ghost", models.RoleBoyfriend)
	token, err := svc.GenerateJWT(ghost)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), token)
	assert.Equal(t, models.KindUnauthorized, models.KindOf(err))
}
