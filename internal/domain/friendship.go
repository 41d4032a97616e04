package domain

import (
	"time"

	"github.com/google/uuid"
)

// FriendshipStatus is a closed set; anything outside the three constants
// is rejected before it reaches storage.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipRejected FriendshipStatus = "rejected"
)

func (s FriendshipStatus) Valid() bool {
	switch s {
	case FriendshipPending, FriendshipAccepted, FriendshipRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is defined out of s.
func (s FriendshipStatus) Terminal() bool {
	return s == FriendshipAccepted || s == FriendshipRejected
}

// Friendship is the single record per unordered user pair. User1 is the
// requester, User2 the recipient; only the recipient may respond.
type Friendship struct {
	ID        uuid.UUID        `json:"id"`
	User1ID   uuid.UUID        `json:"user1_id"`
	User2ID   uuid.UUID        `json:"user2_id"`
	Status    FriendshipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// FriendshipWithUser pairs a friendship row with the other party's
// profile, as returned by the list queries.
type FriendshipWithUser struct {
	Friendship
	User User `json:"user"`
}
