package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/markov9/courier/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeThreadSubscribe   = "thread.subscribe"
	EventTypeThreadUnsubscribe = "thread.unsubscribe"
	EventTypeTypingStart       = "typing.start"
	EventTypePing              = "ping"
)

// Event types - Server → Client
const (
	EventTypeMessageNew     = "message.new"
	EventTypeMessageDeleted = "message.deleted"
	EventTypeTyping         = "typing"
	EventTypeFriendRequest  = "friend.request"
	EventTypeFriendUpdated  = "friend.updated"
	EventTypeThreadCreated  = "thread.created"
	EventTypePong           = "pong"
	EventTypeError          = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	ThreadID  *uuid.UUID      `json:"thread_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type ThreadPayload struct {
	ThreadID uuid.UUID `json:"thread_id"`
}

// --- Server → Client payloads ---

type MessagePayload struct {
	domain.Message
}

type MessageDeletedPayload struct {
	ID uuid.UUID `json:"id"`
}

type TypingPayload struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

type FriendRequestPayload struct {
	domain.FriendshipWithUser
}

type FriendUpdatedPayload struct {
	domain.Friendship
}

type ThreadCreatedPayload struct {
	ThreadID uuid.UUID `json:"thread_id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func marshalEvent(e *Event) ([]byte, error) {
	return json.Marshal(e)
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, threadID *uuid.UUID, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		ThreadID:  threadID,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
