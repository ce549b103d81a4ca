package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"medcenter-booking/pkg/jwt"
	"medcenter-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserEmailKey contextKey = "user_email"
	RoleIDKey    contextKey = "role_id"
	TokenIDKey   contextKey = "token_id"
)

// authFailure is the response written when a bearer token is rejected
type authFailure struct {
	status  int
	message string
}

func unauthorized(message string) *authFailure {
	return &authFailure{status: http.StatusUnauthorized, message: message}
}

// TokenChecker reports whether an access token id is still live
type TokenChecker interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

type AuthMiddleware struct {
	jwtService  *jwt.JWTService
	redisClient TokenChecker
}

func NewAuthMiddleware(jwtService *jwt.JWTService, redisClient TokenChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		redisClient: redisClient,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, failure := m.authenticate(r)
		if failure != nil {
			response.Error(w, failure.status, failure.message, nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthenticate attaches the user to the context when a valid bearer
// token is sent. Requests without a header pass through anonymously; a
// header carrying a bad token is still rejected.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		m.Authenticate(next).ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (context.Context, *authFailure) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, unauthorized("Authorization header is required")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, unauthorized("Invalid authorization header format")
	}

	claims, err := m.jwtService.ValidateToken(parts[1])
	if err != nil {
		return nil, unauthorized("Invalid or expired token")
	}
	if claims.TokenType != jwt.AccessToken {
		return nil, unauthorized("Invalid token type")
	}

	// Check if token exists in Redis (not revoked)
	tokenKey := fmt.Sprintf("access_token:%s:%s", claims.UserID.String(), claims.TokenID)
	exists, err := m.redisClient.Exists(r.Context(), tokenKey).Result()
	if err != nil {
		return nil, &authFailure{status: http.StatusInternalServerError, message: "Failed to validate token"}
	}
	if exists == 0 {
		return nil, unauthorized("Token has been revoked")
	}

	ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
	ctx = context.WithValue(ctx, RoleIDKey, claims.RoleID)
	ctx = context.WithValue(ctx, TokenIDKey, claims.TokenID)
	return ctx, nil
}

// GetUserIDFromContext extracts user ID from context
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
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
