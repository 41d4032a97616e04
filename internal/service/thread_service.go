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
	ErrThreadUserNotFound = domain.NotFound("user not found")
	ErrCannotThreadSelf   = domain.InvalidOperation("cannot open a thread with yourself")
	ErrNotThreadMember    = domain.Forbidden("you are not a member of this thread")
	ErrThreadCorrupt      = domain.Internal("thread has no second member")
)

type ThreadService struct {
	threadRepo repository.ThreadRepository
	userRepo   repository.UserRepository
	notifier   Notifier
	logger     *logrus.Logger
}

func NewThreadService(threadRepo repository.ThreadRepository, userRepo repository.UserRepository, logger *logrus.Logger) *ThreadService {
	return &ThreadService{
		threadRepo: threadRepo,
		userRepo:   userRepo,
		logger:     logger,
	}
}

func (s *ThreadService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Create opens a thread with targetUsername, or returns the existing
// one. Idempotent and commutative: Create(a→b) and Create(b→a) hand
// back the same thread id, never a duplicate pair.
func (s *ThreadService) Create(ctx context.Context, caller *domain.User, targetUsername string) (*domain.Thread, error) {
	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if target == nil {
		return nil, ErrThreadUserNotFound
	}
	if target.ID == caller.ID {
		return nil, ErrCannotThreadSelf
	}

	existing, err := s.threadRepo.SharedThread(ctx, caller.ID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("checking for existing thread: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	thread := &domain.Thread{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
	}
	if err := s.threadRepo.CreateWithMembers(ctx, thread, caller.ID, target.ID); err != nil {
		return nil, fmt.Errorf("creating thread: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyThreadCreated(target.ID, thread.ID)
	}

	return thread, nil
}

// Get returns the thread with the other member's profile. Callers that
// are not members are refused before the thread itself is touched.
func (s *ThreadService) Get(ctx context.Context, callerID, threadID uuid.UUID) (*domain.ThreadWithUser, error) {
	member, err := s.threadRepo.IsMember(ctx, threadID, callerID)
	if err != nil {
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	if !member {
		return nil, ErrNotThreadMember
	}

	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("loading thread: %w", err)
	}
	if thread == nil {
		return nil, ErrThreadCorrupt
	}

	other, err := s.threadRepo.OtherMember(ctx, threadID, callerID)
	if err != nil {
		return nil, fmt.Errorf("loading other member: %w", err)
	}
	if other == nil {
		return nil, ErrThreadCorrupt
	}

	user, err := s.userRepo.GetByID(ctx, other.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading other member's user: %w", err)
	}
	if user == nil {
		return nil, ErrThreadCorrupt
	}

	return &domain.ThreadWithUser{Thread: *thread, User: *user}, nil
}

// List returns every thread the caller belongs to, resolved to the
// other member. Threads whose other member's user row is gone are
// dropped with a logged warning rather than failing the list.
func (s *ThreadService) List(ctx context.Context, callerID uuid.UUID) ([]domain.ThreadWithUser, error) {
	joins, err := s.threadRepo.ListForUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("listing threads: %w", err)
	}

	out := make([]domain.ThreadWithUser, 0, len(joins))
	for _, j := range joins {
		if j.User == nil {
			s.logger.WithFields(logrus.Fields{
				"thread_id": j.Thread.ID,
			}).Warn("dropping thread with dangling member reference")
			continue
		}
		out = append(out, domain.ThreadWithUser{Thread: j.Thread, User: *j.User})
	}
	return out, nil
}
