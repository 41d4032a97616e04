package postgres

import (
	"time"

	"github.com/google/uuid"

	"github.com/markov9/courier/internal/domain"
)

// nullableUser scans the user side of a LEFT JOIN. Every column is a
// pointer so a dangling reference scans as all-nil instead of erroring.
type nullableUser struct {
	ID         *uuid.UUID
	Username   *string
	ImageURL   *string
	ExternalID *string
	CreatedAt  *time.Time
	UpdatedAt  *time.Time
}

func (n *nullableUser) toUser() *domain.User {
	if n.ID == nil {
		return nil
	}
	return &domain.User{
		ID:         *n.ID,
		Username:   *n.Username,
		ImageURL:   *n.ImageURL,
		ExternalID: *n.ExternalID,
		CreatedAt:  *n.CreatedAt,
		UpdatedAt:  *n.UpdatedAt,
	}
}
