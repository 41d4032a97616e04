package ws

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Hub manages all active WebSocket clients and routes events.
type Hub struct {
	// clients maps userID → client.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg
	direct     chan *directMsg

	logger *logrus.Logger
}

type broadcastMsg struct {
	threadID uuid.UUID
	data     []byte
	// excludeID skips this user, typically the sender.
	excludeID *uuid.UUID
}

type directMsg struct {
	userID uuid.UUID
	data   []byte
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMsg, 256),
		direct:     make(chan *directMsg, 256),
		logger:     logger,
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.user.ID] = client
			h.logger.WithFields(logrus.Fields{
				"user_id": client.user.ID,
				"total":   len(h.clients),
			}).Info("ws client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client.user.ID]; ok {
				delete(h.clients, client.user.ID)
				close(client.send)
				h.logger.WithFields(logrus.Fields{
					"user_id": client.user.ID,
					"total":   len(h.clients),
				}).Info("ws client disconnected")
			}

		case msg := <-h.broadcast:
			for _, client := range h.clients {
				if msg.excludeID != nil && client.user.ID == *msg.excludeID {
					continue
				}
				if !client.IsSubscribed(msg.threadID) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					delete(h.clients, client.user.ID)
					close(client.send)
				}
			}

		case msg := <-h.direct:
			if client, ok := h.clients[msg.userID]; ok {
				select {
				case client.send <- msg.data:
				default:
				}
			}
		}
	}
}

// BroadcastToThread sends an event to all subscribers of a thread.
func (h *Hub) BroadcastToThread(threadID uuid.UUID, event *Event, excludeUserID *uuid.UUID) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.WithField("error", err).Warn("ws hub: marshal error")
		return
	}
	h.broadcast <- &broadcastMsg{
		threadID:  threadID,
		data:      data,
		excludeID: excludeUserID,
	}
}

// SendToUser sends an event directly to a specific user if connected.
// The lookup runs on the hub goroutine; callers never touch the client
// map themselves.
func (h *Hub) SendToUser(userID uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	h.direct <- &directMsg{userID: userID, data: data}
}
