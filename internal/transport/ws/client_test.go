package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/markov9/courier/internal/domain"
)

// When the hub drops a client its send channel closes; WritePump must
// close the connection too, so the socket does not linger until the
// peer hangs up.
func TestHubDropClosesConnection(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	clients := make(chan *Client, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		user := &domain.User{ID: uuid.New(), Username: "dropped"}
		client := NewClient(hub, conn, user, nil, nil)
		hub.register <- client
		clients <- client
		go client.WritePump()
		client.ReadPump()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	client := <-clients
	hub.unregister <- client

	// The peer's read returns a close, not a deadline.
	_, _, err = conn.Read(ctx)
	require.Error(t, err)
	require.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))
}
