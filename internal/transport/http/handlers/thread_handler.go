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

type ThreadHandler struct {
	threadService *service.ThreadService
	logger        *logrus.Logger
}

func NewThreadHandler(threadService *service.ThreadService, logger *logrus.Logger) *ThreadHandler {
	return &ThreadHandler{threadService: threadService, logger: logger}
}

func (h *ThreadHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	thread, err := h.threadService.Create(r.Context(), caller, input.Username)
	if err != nil {
		writeServiceError(w, h.logger, "dm.create", err)
		return
	}

	writeJSON(w, http.StatusOK, thread)
}

func (h *ThreadHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())

	threadID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid thread ID")
		return
	}

	thread, err := h.threadService.Get(r.Context(), caller.ID, threadID)
	if err != nil {
		writeServiceError(w, h.logger, "dm.get", err)
		return
	}

	writeJSON(w, http.StatusOK, thread)
}

func (h *ThreadHandler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.GetUser(r.Context())

	threads, err := h.threadService.List(r.Context(), caller.ID)
	if err != nil {
		writeServiceError(w, h.logger, "dm.list", err)
		return
	}

	writeJSON(w, http.StatusOK, threads)
}
