package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	ImageURL   string    `json:"image_url"`
	ExternalID string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DeletedUsername is rendered in place of a sender whose user row no
// longer exists. User deletion does not cascade to messages.
const DeletedUsername = "Deleted User"
