package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message belongs to a thread. Content may be empty when an attachment
// is present. AttachmentKey is an opaque blob-store handle; it is never
// exposed directly, readers get a short-lived resolved URL instead.
type Message struct {
	ID            uuid.UUID `json:"id"`
	ThreadID      uuid.UUID `json:"thread_id"`
	SenderID      uuid.UUID `json:"sender_id"`
	Content       string    `json:"content"`
	AttachmentKey *string   `json:"-"`
	CreatedAt     time.Time `json:"created_at"`

	// Joined fields
	SenderUsername string `json:"sender_username"`
	SenderImageURL string `json:"sender_image_url,omitempty"`
	// AttachmentURL is resolved at read time and expires shortly after.
	AttachmentURL string `json:"attachment_url,omitempty"`
}

// GuestMessage is a row on the legacy anonymous board.
//
// Deprecated: the anonymous mode predates authenticated threads and is
// kept only for old clients.
type GuestMessage struct {
	ID        uuid.UUID `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
