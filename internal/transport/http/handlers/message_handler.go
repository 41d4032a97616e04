package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/markov9/courier/internal/service"
	"github.com/markov9/courier/internal/transport/http/middleware"
	"github.com/markov9/courier/pkg/validator"
)

type MessageHandler struct {
	messageService *service.MessageService
	logger         *logrus.Logger
}

func NewMessageHandler(messageService *service.MessageService, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{messageService: messageService, logger: logger}
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())

	threadID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid thread ID")
		return
	}

	msgs, err := h.messageService.List(r.Context(), caller.ID, threadID)
	if err != nil {
		writeServiceError(w, h.logger, "message.list", err)
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}

func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())

	threadID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid thread ID")
		return
	}

	var input struct {
		Content       string  `json:"content"`
		AttachmentKey *string `json:"attachment_key,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.ValidateMessage(input.Content, input.AttachmentKey != nil); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	msg, err := h.messageService.Create(r.Context(), caller, threadID, input.Content, input.AttachmentKey)
	if err != nil {
		writeServiceError(w, h.logger, "message.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

func (h *MessageHandler) Remove(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())

	messageID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid message ID")
		return
	}

	if err := h.messageService.Remove(r.Context(), caller.ID, messageID); err != nil {
		writeServiceError(w, h.logger, "message.remove", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MessageHandler) GenerateUploadTarget(w http.ResponseWriter, r *http.Request) {
	target, err := h.messageService.GenerateUploadTarget(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "message.generateUploadTarget", err)
		return
	}

	writeJSON(w, http.StatusOK, target)
}
