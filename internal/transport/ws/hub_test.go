package ws

import (
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/markov9/courier/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(hub *Hub, username string) *Client {
	user := &domain.User{ID: uuid.New(), Username: username}
	return NewClient(hub, nil, user, nil, nil)
}

// Direct sends run on the hub goroutine, so issuing them while clients
// connect must be safe and the event must still land.
func TestSendToUserDuringConnects(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	target := newTestClient(hub, "target")
	hub.register <- target

	evt, err := NewEvent(EventTypeThreadCreated, nil, ThreadCreatedPayload{ThreadID: uuid.New()})
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.register <- newTestClient(hub, "burst")
		}
	}()
	for i := 0; i < 200; i++ {
		hub.SendToUser(target.user.ID, evt)
	}
	wg.Wait()

	select {
	case data := <-target.send:
		var got Event
		require.NoError(t, json.Unmarshal(data, &got))
		require.Equal(t, EventTypeThreadCreated, got.Type)
	case <-time.After(time.Second):
		t.Fatal("expected a direct event to reach the target client")
	}
}

// A send to a user without a connection is dropped, not an error.
func TestSendToUserNotConnected(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	evt, err := NewEvent(EventTypePong, nil, nil)
	require.NoError(t, err)
	hub.SendToUser(uuid.New(), evt)
}

func TestBroadcastToThreadSkipsUnsubscribed(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	threadID := uuid.New()

	subscribed := newTestClient(hub, "subscribed")
	subscribed.subscribe(threadID)
	other := newTestClient(hub, "other")
	hub.register <- subscribed
	hub.register <- other

	evt, err := NewEvent(EventTypeTyping, &threadID, TypingPayload{UserID: uuid.New(), Username: "alice"})
	require.NoError(t, err)
	hub.BroadcastToThread(threadID, evt, nil)

	select {
	case <-subscribed.send:
	case <-time.After(time.Second):
		t.Fatal("expected the subscriber to receive the event")
	}
	select {
	case <-other.send:
		t.Fatal("unsubscribed client must not receive thread events")
	case <-time.After(50 * time.Millisecond):
	}
}
