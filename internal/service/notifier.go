package service

import (
	"github.com/google/uuid"

	"github.com/markov9/courier/internal/domain"
)

// Notifier pushes store changes out to connected clients so subscribed
// readers re-render without polling. Implemented by the ws hub; services
// treat it as optional and never block on it.
type Notifier interface {
	NotifyNewMessage(msg *domain.Message)
	NotifyDeletedMessage(threadID, messageID uuid.UUID)
	NotifyTyping(threadID, userID uuid.UUID, username string)
	NotifyFriendRequest(userID uuid.UUID, f *domain.FriendshipWithUser)
	NotifyFriendUpdated(userID uuid.UUID, f *domain.Friendship)
	NotifyThreadCreated(userID, threadID uuid.UUID)
}
