package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"medcare-api/internal/domain/entity"
	"medcare-api/internal/service"
	"medcare-api/pkg/jwt"
	"medcare-api/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	RoleIDKey    contextKey = "role_id"
	TokenIDKey   contextKey = "token_id"
)

var (
	ErrInvalidAccessToken = errors.New("invalid or expired token")
	ErrWrongTokenType     = errors.New("invalid token type")
	ErrAccessTokenRevoked = errors.New("token has been revoked")
)

type AuthMiddleware struct {
	jwtService *jwt.JWTService
	tokenStore service.TokenStore
	log        *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, tokenStore service.TokenStore, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		tokenStore: tokenStore,
		log:        log,
	}
}

// ResolveAccessToken validates a raw access token and checks that it was
// not revoked. Errors other than the three sentinels are store failures.
func (m *AuthMiddleware) ResolveAccessToken(ctx context.Context, tokenString string) (*jwt.Claims, error) {
	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidAccessToken
	}

	if claims.TokenType != jwt.AccessToken {
		return nil, ErrWrongTokenType
	}

	exists, err := m.tokenStore.Exists(ctx, jwt.AccessToken, claims.UserID, claims.TokenID)
	if err != nil {
		m.log.Warnf("Failed to check access token: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrAccessTokenRevoked
	}

	return claims, nil
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.ResolveAccessToken(r.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidAccessToken):
				response.Unauthorized(w, "Invalid or expired token")
			case errors.Is(err, ErrWrongTokenType):
				response.Unauthorized(w, "Invalid token type")
			case errors.Is(err, ErrAccessTokenRevoked):
				response.Unauthorized(w, "Token has been revoked")
			default:
				response.InternalServerError(w, "Failed to validate token")
			}
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// WithClaims stores the identity carried by claims in ctx.
func WithClaims(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
	ctx = context.WithValue(ctx, RoleIDKey, claims.RoleID)
	ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)
	return ctx
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}

// GetUserEmailFromContext extracts user email from context
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// GetTokenIDFromContext extracts token ID from context
func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	tokenID, ok := ctx.Value(TokenIDKey).(string)
	return tokenID, ok
}

// GetRoleIDFromContext extracts role ID from context
func GetRoleIDFromContext(ctx context.Context) (int, bool) {
	roleID, ok := ctx.Value(RoleIDKey).(int)
	return roleID, ok
}

// GetActorFromContext builds the acting identity from the authenticated claims.
func GetActorFromContext(ctx context.Context) (entity.Actor, bool) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return entity.Actor{}, false
	}
	roleID, ok := GetRoleIDFromContext(ctx)
	if !ok {
		return entity.Actor{}, false
	}
	return entity.Actor{UserID: userID, Role: entity.RoleFromID(roleID)}, true
}
