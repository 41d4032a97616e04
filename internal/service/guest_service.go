package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/markov9/courier/internal/domain"
	"github.com/markov9/courier/internal/repository"
)

var ErrEmptyGuestMessage = domain.InvalidOperation("sender and content are required")

// GuestService serves the legacy anonymous board.
//
// Deprecated: predates authenticated threads; kept only so old clients
// keep working. No authorization gate applies here.
type GuestService struct {
	guestRepo repository.GuestMessageRepository
}

func NewGuestService(guestRepo repository.GuestMessageRepository) *GuestService {
	return &GuestService{guestRepo: guestRepo}
}

func (s *GuestService) List(ctx context.Context) ([]domain.GuestMessage, error) {
	msgs, err := s.guestRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing guest messages: %w", err)
	}
	if msgs == nil {
		msgs = []domain.GuestMessage{}
	}
	return msgs, nil
}

func (s *GuestService) Create(ctx context.Context, sender, content string) (*domain.GuestMessage, error) {
	if sender == "" || content == "" {
		return nil, ErrEmptyGuestMessage
	}
	msg := &domain.GuestMessage{
		ID:        uuid.New(),
		Sender:    sender,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.guestRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating guest message: %w", err)
	}
	return msg, nil
}
