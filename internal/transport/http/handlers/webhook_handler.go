package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/markov9/courier/internal/service"
)

// WebhookHandler receives identity lifecycle events from the external
// relay: user.created, user.updated, user.deleted.
type WebhookHandler struct {
	userService *service.UserService
	logger      *logrus.Logger
}

func NewWebhookHandler(userService *service.UserService, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{userService: userService, logger: logger}
}

type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		SubjectID string `json:"subject_id"`
		Username  string `json:"username"`
		ImageURL  string `json:"image_url"`
	} `json:"data"`
}

func (h *WebhookHandler) HandleIdentityEvent(w http.ResponseWriter, r *http.Request) {
	var event identityEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid event body")
		return
	}
	if event.Data.SubjectID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_SUBJECT", "subject_id is required")
		return
	}

	var err error
	switch event.Type {
	case "user.created", "user.updated":
		err = h.userService.SyncUpsert(r.Context(), event.Data.SubjectID, event.Data.Username, event.Data.ImageURL)
	case "user.deleted":
		err = h.userService.SyncDelete(r.Context(), event.Data.SubjectID)
	default:
		writeError(w, http.StatusBadRequest, "UNKNOWN_EVENT", "Unknown event type")
		return
	}

	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"event": event.Type,
			"error": err,
		}).Error("identity sync failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
