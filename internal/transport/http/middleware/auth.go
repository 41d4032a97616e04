package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/markov9/courier/internal/domain"
)

type contextKey string

const userKey contextKey = "user"

// IdentityResolver maps an external identity id to the local user row.
// Implemented by service.UserService.
type IdentityResolver interface {
	Resolve(ctx context.Context, externalID string) (*domain.User, error)
}

// Auth is the authorization gate. It verifies the bearer identity token,
// resolves it to a local user, and attaches that user to the request
// context. No domain data is touched for an unauthenticated call.
func Auth(jwtSecret string, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"Missing or invalid token"}}`, http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")

			externalID, err := ParseIdentityToken(tokenStr, jwtSecret)
			if err != nil {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"Invalid or expired token"}}`, http.StatusUnauthorized)
				return
			}

			user, err := resolver.Resolve(r.Context(), externalID)
			if err != nil {
				http.Error(w, `{"error":{"code":"INTERNAL","message":"Something went wrong"}}`, http.StatusInternalServerError)
				return
			}
			if user == nil {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"Unknown identity"}}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseIdentityToken verifies the token signature and returns its
// subject, the external identity id.
func ParseIdentityToken(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", jwt.ErrTokenInvalidSubject
	}
	return sub, nil
}

// GetUser extracts the resolved caller from the request context.
func GetUser(ctx context.Context) *domain.User {
	return ctx.Value(userKey).(*domain.User)
}
