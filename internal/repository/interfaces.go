package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/markov9/courier/internal/domain"
)

type UserRepository interface {
	// Upsert inserts or updates a user keyed by external identity id.
	Upsert(ctx context.Context, user *domain.User) error
	DeleteByExternalID(ctx context.Context, externalID string) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// FriendshipJoin is a friendship row joined to the other party's user
// record. User is nil when the reference dangles; callers decide how to
// handle the gap.
type FriendshipJoin struct {
	Friendship domain.Friendship
	User       *domain.User
}

type FriendshipRepository interface {
	// Insert adds a pending friendship if and only if no record exists
	// for the unordered pair. Returns false when the pair is taken.
	Insert(ctx context.Context, f *domain.Friendship) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Friendship, error)
	// UpdateStatus moves a still-pending row to status. Returns false
	// when the row was already answered (or gone), so two concurrent
	// responses cannot both win.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FriendshipStatus) (bool, error)
	// ListPendingForRecipient returns pending rows where userID is the
	// recipient, each joined to the requester.
	ListPendingForRecipient(ctx context.Context, userID uuid.UUID) ([]FriendshipJoin, error)
	// ListAcceptedFor returns accepted rows in either direction, each
	// joined to the other party.
	ListAcceptedFor(ctx context.Context, userID uuid.UUID) ([]FriendshipJoin, error)
}

// ThreadJoin is a thread row joined to the other member's user record.
type ThreadJoin struct {
	Thread domain.Thread
	User   *domain.User
}

type ThreadRepository interface {
	// CreateWithMembers inserts the thread and both membership rows as
	// one transaction.
	CreateWithMembers(ctx context.Context, thread *domain.Thread, userA, userB uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Thread, error)
	// SharedThread finds a thread both users are members of, nil if none.
	SharedThread(ctx context.Context, userA, userB uuid.UUID) (*domain.Thread, error)
	IsMember(ctx context.Context, threadID, userID uuid.UUID) (bool, error)
	// OtherMember returns the membership row in threadID that is not
	// userID, nil if the thread has no second member.
	OtherMember(ctx context.Context, threadID, userID uuid.UUID) (*domain.ThreadMember, error)
	// ListForUser returns every thread userID belongs to, joined to the
	// other member. User is nil on a dangling reference.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]ThreadJoin, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	// ListByThread returns messages in insertion order with sender
	// fields joined. A deleted sender leaves SenderUsername empty.
	ListByThread(ctx context.Context, threadID uuid.UUID) ([]domain.Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type GuestMessageRepository interface {
	Create(ctx context.Context, msg *domain.GuestMessage) error
	List(ctx context.Context) ([]domain.GuestMessage, error)
}
