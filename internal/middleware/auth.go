package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/diirlabs/station-service/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated caller id
	UserIDKey ContextKey = "user_id"
)

// AuthMiddleware validates caller identity tokens. Outside development the
// token is a HS256 JWT whose subject claim is the caller id. In development,
// where no identity provider runs, an X-User-Id header stands in so local
// testing does not need token plumbing.
type AuthMiddleware struct {
	secret         []byte
	devPassthrough bool
}

// NewAuthMiddleware creates a new authentication middleware.
func NewAuthMiddleware(secret string, devPassthrough bool) *AuthMiddleware {
	return &AuthMiddleware{
		secret:         []byte(secret),
		devPassthrough: devPassthrough,
	}
}

// Authenticate validates the request's identity and stores the caller id in
// the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			if m.devPassthrough {
				if uid := r.Header.Get("X-User-Id"); uid != "" {
					next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), uid)))
					return
				}
			}
			m.writeError(w, apperrors.Auth("missing bearer token"))
			return
		}

		userID, err := m.subjectFromToken(parts[1])
		if err != nil {
			m.writeError(w, apperrors.Auth(err.Error()))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// subjectFromToken parses and validates the JWT and returns its subject.
func (m *AuthMiddleware) subjectFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject claim")
	}

	return sub, nil
}

func (m *AuthMiddleware) writeError(w http.ResponseWriter, err *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	json.NewEncoder(w).Encode(err)
}

// WithUserID stores the caller id in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// GetUserID returns the caller id from the context, or empty when the request
// was not authenticated.
func GetUserID(ctx context.Context) string {
	if uid, ok := ctx.Value(UserIDKey).(string); ok {
		return uid
	}
	return ""
}
