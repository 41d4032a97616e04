package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/markov9/courier/internal/service"
)

// GuestHandler serves the legacy anonymous board. No authorization gate.
//
// Deprecated: kept for old clients only.
type GuestHandler struct {
	guestService *service.GuestService
	logger       *logrus.Logger
}

func NewGuestHandler(guestService *service.GuestService, logger *logrus.Logger) *GuestHandler {
	return &GuestHandler{guestService: guestService, logger: logger}
}

func (h *GuestHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.guestService.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "guest.list", err)
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}

func (h *GuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Sender  string `json:"sender"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	msg, err := h.guestService.Create(r.Context(), input.Sender, input.Content)
	if err != nil {
		writeServiceError(w, h.logger, "guest.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}
