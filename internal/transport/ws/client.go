package ws

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/markov9/courier/internal/domain"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	sendBufSize  = 256
)

// ThreadAccess answers whether a user may read a thread. Satisfied by
// the thread repository; subscriptions go through the same membership
// rule as the query operations.
type ThreadAccess interface {
	IsMember(ctx context.Context, threadID, userID uuid.UUID) (bool, error)
}

// TypingSink receives typing keystrokes arriving over the socket.
// Satisfied by service.TypingService.
type TypingSink interface {
	Upsert(ctx context.Context, caller *domain.User, threadID uuid.UUID) error
}

// Client represents a single WebSocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	user *domain.User

	access ThreadAccess
	typing TypingSink

	// subscribedThreads tracks which threads this client listens to.
	subscribedThreads map[uuid.UUID]struct{}
	mu                sync.RWMutex

	send chan []byte
}

func NewClient(hub *Hub, conn *websocket.Conn, user *domain.User, access ThreadAccess, typing TypingSink) *Client {
	return &Client{
		hub:               hub,
		conn:              conn,
		user:              user,
		access:            access,
		typing:            typing,
		subscribedThreads: make(map[uuid.UUID]struct{}),
		send:              make(chan []byte, sendBufSize),
	}
}

// IsSubscribed checks if this client is subscribed to a thread.
func (c *Client) IsSubscribed(threadID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.subscribedThreads[threadID]
	return ok
}

func (c *Client) subscribe(threadID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribedThreads[threadID] = struct{}{}
}

func (c *Client) unsubscribe(threadID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscribedThreads, threadID)
}

// ReadPump reads events from the WebSocket and routes them.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		if err := wsjson.Read(context.Background(), c.conn, &event); err != nil {
			return
		}
		c.handleEvent(&event)
	}
}

// WritePump pushes hub events out and keeps the connection alive.
// Closing the connection on exit unblocks ReadPump, so a client the hub
// dropped (send channel closed) does not linger until the peer hangs up.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer c.conn.Close(websocket.StatusNormalClosure, "")

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeThreadSubscribe:
		if event.ThreadID == nil {
			c.sendError("MISSING_THREAD", "thread_id is required")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		member, err := c.access.IsMember(ctx, *event.ThreadID, c.user.ID)
		cancel()
		if err != nil || !member {
			c.sendError("FORBIDDEN", "You are not a member of this thread")
			return
		}
		c.subscribe(*event.ThreadID)

	case EventTypeThreadUnsubscribe:
		if event.ThreadID != nil {
			c.unsubscribe(*event.ThreadID)
		}

	case EventTypeTypingStart:
		if event.ThreadID == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		err := c.typing.Upsert(ctx, c.user, *event.ThreadID)
		cancel()
		if err != nil {
			c.sendError("FORBIDDEN", "Cannot mark typing in this thread")
		}

	case EventTypePing:
		if evt, err := NewEvent(EventTypePong, nil, nil); err == nil {
			c.enqueue(evt)
		}
	}
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, nil, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	c.enqueue(evt)
}

func (c *Client) enqueue(event *Event) {
	data, err := marshalEvent(event)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
