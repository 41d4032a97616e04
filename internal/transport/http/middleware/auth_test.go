package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/markov9/courier/internal/domain"
)

const testSecret = "test-secret"

type staticResolver struct {
	users map[string]*domain.User
}

func (r *staticResolver) Resolve(_ context.Context, externalID string) (*domain.User, error) {
	return r.users[externalID], nil
}

func signToken(t *testing.T, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthMissingToken(t *testing.T) {
	handler := Auth(testSecret, &staticResolver{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	req := httptest.NewRequest("GET", "/api/v1/friends", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthInvalidToken(t *testing.T) {
	handler := Auth(testSecret, &staticResolver{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a bad token")
	}))

	req := httptest.NewRequest("GET", "/api/v1/friends", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthWrongSigningKey(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ext-1"})
	signed, err := token.SignedString([]byte("some-other-secret"))
	require.NoError(t, err)

	handler := Auth(testSecret, &staticResolver{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with a forged token")
	}))

	req := httptest.NewRequest("GET", "/api/v1/friends", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

// A valid token whose identity was never synced is still unauthorized.
func TestAuthUnknownIdentity(t *testing.T) {
	handler := Auth(testSecret, &staticResolver{users: map[string]*domain.User{}})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run for an unknown identity")
		}))

	req := httptest.NewRequest("GET", "/api/v1/friends", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "ext-stranger"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthResolvesUser(t *testing.T) {
	alice := &domain.User{ID: uuid.New(), Username: "alice", ExternalID: "ext-alice"}
	resolver := &staticResolver{users: map[string]*domain.User{"ext-alice": alice}}

	var seen *domain.User
	handler := Auth(testSecret, resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUser(r.Context())
	}))

	req := httptest.NewRequest("GET", "/api/v1/friends", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "ext-alice"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seen)
	require.Equal(t, alice.ID, seen.ID)
}

func TestRelayAuth(t *testing.T) {
	handler := RelayAuth("relay-token")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest("POST", "/api/v1/webhooks/identity", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest("POST", "/api/v1/webhooks/identity", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest("POST", "/api/v1/webhooks/identity", nil)
	req.Header.Set("Authorization", "Bearer relay-token")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
}
