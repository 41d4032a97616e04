package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// RelayAuth guards the identity-sync endpoints. The event relay
// authenticates with a static bearer token; it has already verified the
// upstream webhook signature, so no further checking happens here.
func RelayAuth(relayToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"Missing relay token"}}`, http.StatusUnauthorized)
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(token), []byte(relayToken)) != 1 {
				http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"Invalid relay token"}}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
