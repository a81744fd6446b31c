package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"medcare-api/config"
	"medcare-api/internal/delivery/http/middleware"
	"medcare-api/internal/infrastructure/database"
	gormrepo "medcare-api/internal/repository"
	"medcare-api/internal/service"
	"medcare-api/internal/usecase"
	"medcare-api/pkg/jwt"
	"medcare-api/pkg/validator"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFlow struct {
	handler *AuthHandler
	auth    *middleware.AuthMiddleware
}

func newAuthFlow(t *testing.T) *authFlow {
	t.Helper()
	log, _ := test.NewNullLogger()

	db, err := database.NewSQLiteConnection("", false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "handler-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
	tokenStore := service.NewMemoryTokenStore()
	authUsecase := usecase.NewAuthUsecase(
		db, log,
		gormrepo.NewUserRepository(),
		gormrepo.NewPatientRepository(),
		jwtService, tokenStore,
		service.NewAuditService(log, gormrepo.NewAuditLogRepository()),
	)

	return &authFlow{
		handler: NewAuthHandler(authUsecase, validator.NewValidator()),
		auth:    middleware.NewAuthMiddleware(jwtService, tokenStore, log),
	}
}

func (f *authFlow) post(h http.HandlerFunc, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth", strings.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	if bearer != "" {
		f.auth.Authenticate(h).ServeHTTP(rec, req)
	} else {
		h(rec, req)
	}
	return rec
}

func (f *authFlow) me(token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.auth.Authenticate(http.HandlerFunc(f.handler.GetCurrentUser)).ServeHTTP(rec, req)
	return rec
}

func tokensFrom(t *testing.T, rec *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var body struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.AccessToken)
	return body.Data.AccessToken, body.Data.RefreshToken
}

const signup = `{"email":"rina@example.com","password":"s3cret!","first_name":"Rina","gender":"Female","date_of_birth":"1990-04-12"}`

func TestAuthRegisterLoginLogout(t *testing.T) {
	f := newAuthFlow(t)

	rec := f.post(f.handler.Register, signup, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.post(f.handler.Register, signup, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.post(f.handler.Login, `{"email":"rina@example.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.post(f.handler.Login, `{"email":"rina@example.com","password":"s3cret!"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	access, refresh := tokensFrom(t, rec)

	rec = f.me(access)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rina@example.com")

	rec = f.post(f.handler.Logout, `{"refresh_token":"`+refresh+`"}`, access)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, f.me(access).Code)

	rec = f.post(f.handler.RefreshToken, `{"refresh_token":"`+refresh+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRefreshRotates(t *testing.T) {
	f := newAuthFlow(t)
	require.Equal(t, http.StatusCreated, f.post(f.handler.Register, signup, "").Code)

	rec := f.post(f.handler.Login, `{"email":"rina@example.com","password":"s3cret!"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, refresh := tokensFrom(t, rec)

	rec = f.post(f.handler.RefreshToken, `{"refresh_token":"`+refresh+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	access, _ := tokensFrom(t, rec)
	assert.Equal(t, http.StatusOK, f.me(access).Code)

	// replaying the old refresh token fails
	rec = f.post(f.handler.RefreshToken, `{"refresh_token":"`+refresh+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthLogoutWithoutBody(t *testing.T) {
	f := newAuthFlow(t)
	require.Equal(t, http.StatusCreated, f.post(f.handler.Register, signup, "").Code)
	rec := f.post(f.handler.Login, `{"email":"rina@example.com","password":"s3cret!"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	access, _ := tokensFrom(t, rec)

	rec = f.post(f.handler.Logout, "", access)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAuthRegisterValidation(t *testing.T) {
	f := newAuthFlow(t)

	rec := f.post(f.handler.Register, `{"email":"not-an-email","password":"123"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Validation failed")
}
