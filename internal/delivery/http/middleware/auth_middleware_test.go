package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medcare-api/config"
	"medcare-api/internal/domain/entity"
	"medcare-api/internal/service"
	"medcare-api/pkg/jwt"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	jwt        *jwt.JWTService
	tokenStore service.TokenStore
	middleware *AuthMiddleware
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	log, _ := test.NewNullLogger()
	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "middleware-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
	store := service.NewMemoryTokenStore()
	return &authFixture{
		jwt:        jwtService,
		tokenStore: store,
		middleware: NewAuthMiddleware(jwtService, store, log),
	}
}

func (f *authFixture) issueAccess(t *testing.T, userID, roleID int) (string, string) {
	t.Helper()
	token, tokenID, err := f.jwt.GenerateAccessToken(jwt.Subject{UserID: userID, Email: "user@example.com", RoleID: roleID})
	require.NoError(t, err)
	require.NoError(t, f.tokenStore.Save(context.Background(), jwt.AccessToken, userID, tokenID, 15*time.Minute))
	return token, tokenID
}

func serveAuthenticated(m *AuthMiddleware, header string) (*httptest.ResponseRecorder, *entity.Actor) {
	var seen *entity.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actor, ok := GetActorFromContext(r.Context()); ok {
			seen = &actor
		}
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	m.Authenticate(next).ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthenticateStoresActor(t *testing.T) {
	f := newAuthFixture(t)
	token, _ := f.issueAccess(t, 11, entity.RoleIDDoctor)

	rec, actor := serveAuthenticated(f.middleware, "Bearer "+token)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, actor)
	assert.Equal(t, 11, actor.UserID)
	assert.Equal(t, entity.RoleDoctor, actor.Role)
}

func TestAuthenticateRejectsBadHeaders(t *testing.T) {
	f := newAuthFixture(t)

	for _, header := range []string{"", "Token abc", "Bearer", "Bearer not-a-jwt"} {
		rec, actor := serveAuthenticated(f.middleware, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Nil(t, actor)
	}
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	token, tokenID, err := f.jwt.GenerateRefreshToken(jwt.Subject{UserID: 3, RoleID: entity.RoleIDPatient})
	require.NoError(t, err)
	require.NoError(t, f.tokenStore.Save(context.Background(), jwt.RefreshToken, 3, tokenID, time.Hour))

	_, err = f.middleware.ResolveAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	rec, _ := serveAuthenticated(f.middleware, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	f := newAuthFixture(t)
	token, tokenID := f.issueAccess(t, 5, entity.RoleIDPatient)
	require.NoError(t, f.tokenStore.Revoke(context.Background(), jwt.AccessToken, 5, tokenID))

	_, err := f.middleware.ResolveAccessToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrAccessTokenRevoked)

	rec, _ := serveAuthenticated(f.middleware, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked")
}

func TestGetActorFromContextRequiresClaims(t *testing.T) {
	_, ok := GetActorFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithClaims(context.Background(), &jwt.Claims{UserID: 9, RoleID: entity.RoleIDAdmin, TokenID: "t-1"})
	actor, ok := GetActorFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, entity.Actor{UserID: 9, Role: entity.RoleAdmin}, actor)

	tokenID, ok := GetTokenIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "t-1", tokenID)
}
