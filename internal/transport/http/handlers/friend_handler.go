package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/markov9/courier/internal/domain"
	"github.com/markov9/courier/internal/service"
	"github.com/markov9/courier/internal/transport/http/middleware"
	"github.com/markov9/courier/pkg/validator"
)

type FriendHandler struct {
	friendService *service.FriendshipService
	logger        *logrus.Logger
}

func NewFriendHandler(friendService *service.FriendshipService, logger *logrus.Logger) *FriendHandler {
	return &FriendHandler{friendService: friendService, logger: logger}
}

func (h *FriendHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())

	var input struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if errs := validator.ValidateUsername(input.Username); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	f, err := h.friendService.Create(r.Context(), caller, input.Username)
	if err != nil {
		writeServiceError(w, h.logger, "friend.create", err)
		return
	}

	writeJSON(w, http.StatusCreated, f)
}

func (h *FriendHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())

	friendshipID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid friendship ID")
		return
	}

	var input struct {
		Status domain.FriendshipStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	f, err := h.friendService.UpdateStatus(r.Context(), caller.ID, friendshipID, input.Status)
	if err != nil {
		writeServiceError(w, h.logger, "friend.updateStatus", err)
		return
	}

	writeJSON(w, http.StatusOK, f)
}

func (h *FriendHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())

	list, err := h.friendService.ListPending(r.Context(), caller.ID)
	if err != nil {
		writeServiceError(w, h.logger, "friend.listPending", err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (h *FriendHandler) ListAccepted(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())

	list, err := h.friendService.ListAccepted(r.Context(), caller.ID)
	if err != nil {
		writeServiceError(w, h.logger, "friend.listAccepted", err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}
