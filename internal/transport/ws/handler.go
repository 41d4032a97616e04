package ws

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"nhooyr.io/websocket"

	"github.com/markov9/courier/internal/transport/http/middleware"
)

// ServeWS returns an HTTP handler that upgrades to WebSocket.
// Auth is done via ?token=xxx query param (WebSocket can't send headers);
// the token is the same external identity token the REST gate accepts.
func ServeWS(hub *Hub, jwtSecret string, resolver middleware.IdentityResolver, access ThreadAccess, typing TypingSink, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		externalID, err := middleware.ParseIdentityToken(tokenStr, jwtSecret)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		user, err := resolver.Resolve(r.Context(), externalID)
		if err != nil || user == nil {
			http.Error(w, "unknown identity", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			logger.WithField("error", err).Warn("ws: accept error")
			return
		}

		client := NewClient(hub, conn, user, access, typing)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
