package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/markov9/courier/internal/service"
	"github.com/markov9/courier/internal/transport/http/middleware"
)

type TypingHandler struct {
	typingService *service.TypingService
	logger        *logrus.Logger
}

func NewTypingHandler(typingService *service.TypingService, logger *logrus.Logger) *TypingHandler {
	return &TypingHandler{typingService: typingService, logger: logger}
}

func (h *TypingHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())

	threadID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid thread ID")
		return
	}

	if err := h.typingService.Upsert(r.Context(), caller, threadID); err != nil {
		writeServiceError(w, h.logger, "typing.upsert", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TypingHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())

	threadID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid thread ID")
		return
	}

	usernames, err := h.typingService.List(r.Context(), caller.ID, threadID)
	if err != nil {
		writeServiceError(w, h.logger, "typing.list", err)
		return
	}

	writeJSON(w, http.StatusOK, usernames)
}
