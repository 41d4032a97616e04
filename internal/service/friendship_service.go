package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/markov9/courier/internal/domain"
	"github.com/markov9/courier/internal/repository"
)

var (
	ErrFriendUserNotFound   = domain.NotFound("user not found")
	ErrCannotFriendSelf     = domain.InvalidOperation("cannot send a friend request to yourself")
	ErrFriendshipExists     = domain.Conflict("a friendship already exists between these users")
	ErrFriendshipNotFound   = domain.NotFound("friend request not found")
	ErrNotRequestRecipient  = domain.Forbidden("only the request recipient can respond")
	ErrInvalidStatusChange  = domain.InvalidOperation("friend requests can only be accepted or rejected")
	ErrRequestAlreadyClosed = domain.InvalidOperation("this friend request was already answered")
)

type FriendshipService struct {
	friendRepo repository.FriendshipRepository
	userRepo   repository.UserRepository
	notifier   Notifier
	logger     *logrus.Logger
}

func NewFriendshipService(friendRepo repository.FriendshipRepository, userRepo repository.UserRepository, logger *logrus.Logger) *FriendshipService {
	return &FriendshipService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *FriendshipService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Create sends a friend request to targetUsername. At most one record
// exists per unordered pair; the insert is atomic so a concurrent
// request in the opposite direction cannot slip in a duplicate.
func (s *FriendshipService) Create(ctx context.Context, requester *domain.User, targetUsername string) (*domain.Friendship, error) {
	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if target == nil {
		return nil, ErrFriendUserNotFound
	}
	if target.ID == requester.ID {
		return nil, ErrCannotFriendSelf
	}

	f := &domain.Friendship{
		ID:        uuid.New(),
		User1ID:   requester.ID,
		User2ID:   target.ID,
		Status:    domain.FriendshipPending,
		CreatedAt: time.Now(),
	}
	inserted, err := s.friendRepo.Insert(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("creating friend request: %w", err)
	}
	if !inserted {
		return nil, ErrFriendshipExists
	}

	if s.notifier != nil {
		s.notifier.NotifyFriendRequest(target.ID, &domain.FriendshipWithUser{
			Friendship: *f,
			User:       *requester,
		})
	}

	return f, nil
}

// UpdateStatus answers a pending request. Only the recipient may call
// it, and accepted/rejected are terminal.
func (s *FriendshipService) UpdateStatus(ctx context.Context, callerID, friendshipID uuid.UUID, status domain.FriendshipStatus) (*domain.Friendship, error) {
	if status != domain.FriendshipAccepted && status != domain.FriendshipRejected {
		return nil, ErrInvalidStatusChange
	}

	f, err := s.friendRepo.GetByID(ctx, friendshipID)
	if err != nil {
		return nil, fmt.Errorf("looking up friendship: %w", err)
	}
	if f == nil {
		return nil, ErrFriendshipNotFound
	}
	if f.User2ID != callerID {
		return nil, ErrNotRequestRecipient
	}
	if f.Status.Terminal() {
		return nil, ErrRequestAlreadyClosed
	}

	// The update itself only moves pending rows, so a concurrent answer
	// that slipped past the read above still loses here.
	updated, err := s.friendRepo.UpdateStatus(ctx, friendshipID, status)
	if err != nil {
		return nil, fmt.Errorf("updating friendship status: %w", err)
	}
	if !updated {
		return nil, ErrRequestAlreadyClosed
	}
	f.Status = status

	if s.notifier != nil {
		s.notifier.NotifyFriendUpdated(f.User1ID, f)
	}

	return f, nil
}

// ListPending returns requests awaiting the caller's answer, each with
// the requester's profile. A dangling requester reference drops that
// row, the rest of the list still comes back.
func (s *FriendshipService) ListPending(ctx context.Context, callerID uuid.UUID) ([]domain.FriendshipWithUser, error) {
	joins, err := s.friendRepo.ListPendingForRecipient(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("listing pending requests: %w", err)
	}
	return s.collectJoins(joins), nil
}

// ListAccepted returns the caller's friends in both directions, same
// partial-result policy as ListPending.
func (s *FriendshipService) ListAccepted(ctx context.Context, callerID uuid.UUID) ([]domain.FriendshipWithUser, error) {
	joins, err := s.friendRepo.ListAcceptedFor(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	return s.collectJoins(joins), nil
}

func (s *FriendshipService) collectJoins(joins []repository.FriendshipJoin) []domain.FriendshipWithUser {
	out := make([]domain.FriendshipWithUser, 0, len(joins))
	for _, j := range joins {
		if j.User == nil {
			s.logger.WithFields(logrus.Fields{
				"friendship_id": j.Friendship.ID,
			}).Warn("dropping friendship with dangling user reference")
			continue
		}
		out = append(out, domain.FriendshipWithUser{
			Friendship: j.Friendship,
			User:       *j.User,
		})
	}
	return out
}
