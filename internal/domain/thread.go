package domain

import (
	"time"

	"github.com/google/uuid"
)

// Thread is a two-party direct-message conversation. It carries no
// attributes of its own; existence implies exactly two membership rows.
type Thread struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// ThreadMember links one user to one thread and establishes read/write
// eligibility. Membership rows are written once and never mutated.
type ThreadMember struct {
	ID       uuid.UUID `json:"id"`
	ThreadID uuid.UUID `json:"thread_id"`
	UserID   uuid.UUID `json:"user_id"`
}

// ThreadWithUser is a thread resolved to the other member's profile.
type ThreadWithUser struct {
	Thread
	User User `json:"user"`
}
