package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/markov9/courier/internal/domain"
	"github.com/markov9/courier/internal/repository"
)

// UserService handles identity sync from the external provider and
// resolution of identity tokens to local user rows. Sync operations are
// invoked by a trusted event relay; the relay verifies authenticity
// before calling, this layer does no signature checking of its own.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// SyncUpsert creates or updates the local user row for an external
// identity. Idempotent, keyed by externalID.
func (s *UserService) SyncUpsert(ctx context.Context, externalID, username, imageURL string) error {
	now := time.Now()
	user := &domain.User{
		ID:         uuid.New(),
		Username:   username,
		ImageURL:   imageURL,
		ExternalID: externalID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return fmt.Errorf("syncing user %s: %w", externalID, err)
	}
	return nil
}

// SyncDelete removes the local user row. Best effort and not cascading:
// the user's messages, friendships and memberships keep their dangling
// references and readers render the sender as a deleted user.
func (s *UserService) SyncDelete(ctx context.Context, externalID string) error {
	if err := s.userRepo.DeleteByExternalID(ctx, externalID); err != nil {
		return fmt.Errorf("deleting user %s: %w", externalID, err)
	}
	return nil
}

// Resolve maps an external identity id to the local user, nil if the
// identity has not been synced yet.
func (s *UserService) Resolve(ctx context.Context, externalID string) (*domain.User, error) {
	user, err := s.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("resolving identity: %w", err)
	}
	return user, nil
}
