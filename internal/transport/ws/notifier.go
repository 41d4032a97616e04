package ws

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/markov9/courier/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub    *Hub
	logger *logrus.Logger
}

func NewHubNotifier(hub *Hub, logger *logrus.Logger) *HubNotifier {
	return &HubNotifier{hub: hub, logger: logger}
}

func (n *HubNotifier) NotifyNewMessage(msg *domain.Message) {
	evt, err := NewEvent(EventTypeMessageNew, &msg.ThreadID, MessagePayload{Message: *msg})
	if err != nil {
		n.logger.WithField("error", err).Warn("ws notifier: marshal error")
		return
	}
	n.hub.BroadcastToThread(msg.ThreadID, evt, nil)
}

func (n *HubNotifier) NotifyDeletedMessage(threadID, messageID uuid.UUID) {
	evt, err := NewEvent(EventTypeMessageDeleted, &threadID, MessageDeletedPayload{ID: messageID})
	if err != nil {
		n.logger.WithField("error", err).Warn("ws notifier: marshal error")
		return
	}
	n.hub.BroadcastToThread(threadID, evt, nil)
}

func (n *HubNotifier) NotifyTyping(threadID, userID uuid.UUID, username string) {
	evt, err := NewEvent(EventTypeTyping, &threadID, TypingPayload{UserID: userID, Username: username})
	if err != nil {
		n.logger.WithField("error", err).Warn("ws notifier: marshal error")
		return
	}
	// The typist doesn't need their own marker echoed back.
	n.hub.BroadcastToThread(threadID, evt, &userID)
}

func (n *HubNotifier) NotifyFriendRequest(userID uuid.UUID, f *domain.FriendshipWithUser) {
	evt, err := NewEvent(EventTypeFriendRequest, nil, FriendRequestPayload{FriendshipWithUser: *f})
	if err != nil {
		n.logger.WithField("error", err).Warn("ws notifier: marshal error")
		return
	}
	n.hub.SendToUser(userID, evt)
}

func (n *HubNotifier) NotifyFriendUpdated(userID uuid.UUID, f *domain.Friendship) {
	evt, err := NewEvent(EventTypeFriendUpdated, nil, FriendUpdatedPayload{Friendship: *f})
	if err != nil {
		n.logger.WithField("error", err).Warn("ws notifier: marshal error")
		return
	}
	n.hub.SendToUser(userID, evt)
}

func (n *HubNotifier) NotifyThreadCreated(userID, threadID uuid.UUID) {
	evt, err := NewEvent(EventTypeThreadCreated, &threadID, ThreadCreatedPayload{ThreadID: threadID})
	if err != nil {
		n.logger.WithField("error", err).Warn("ws notifier: marshal error")
		return
	}
	n.hub.SendToUser(userID, evt)
}
