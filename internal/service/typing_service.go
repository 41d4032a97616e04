package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/markov9/courier/internal/domain"
	"github.com/markov9/courier/internal/repository"
)

// TypingLedger is the ephemeral presence store. Markers expire on their
// own; Clear only exists for the send-message fast path.
type TypingLedger interface {
	Mark(ctx context.Context, threadID, userID uuid.UUID, username string) error
	Clear(ctx context.Context, threadID, userID uuid.UUID) error
	Active(ctx context.Context, threadID uuid.UUID) (map[uuid.UUID]string, error)
}

type TypingService struct {
	ledger     TypingLedger
	threadRepo repository.ThreadRepository
	notifier   Notifier
}

func NewTypingService(ledger TypingLedger, threadRepo repository.ThreadRepository) *TypingService {
	return &TypingService{
		ledger:     ledger,
		threadRepo: threadRepo,
	}
}

func (s *TypingService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Upsert refreshes the caller's typing marker. Membership is enforced;
// a non-member cannot plant presence in a thread it cannot read.
func (s *TypingService) Upsert(ctx context.Context, caller *domain.User, threadID uuid.UUID) error {
	member, err := s.threadRepo.IsMember(ctx, threadID, caller.ID)
	if err != nil {
		return fmt.Errorf("checking membership: %w", err)
	}
	if !member {
		return ErrNotThreadMember
	}

	if err := s.ledger.Mark(ctx, threadID, caller.ID, caller.Username); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NotifyTyping(threadID, caller.ID, caller.Username)
	}
	return nil
}

// List returns who is typing in the thread right now, the caller
// excluded. Users never see their own marker.
func (s *TypingService) List(ctx context.Context, callerID, threadID uuid.UUID) ([]string, error) {
	member, err := s.threadRepo.IsMember(ctx, threadID, callerID)
	if err != nil {
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	if !member {
		return nil, ErrNotThreadMember
	}

	active, err := s.ledger.Active(ctx, threadID)
	if err != nil {
		return nil, err
	}

	usernames := make([]string, 0, len(active))
	for userID, username := range active {
		if userID == callerID {
			continue
		}
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	return usernames, nil
}
