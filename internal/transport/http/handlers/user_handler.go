package handlers

import (
	"net/http"

	"github.com/markov9/courier/internal/transport/http/middleware"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Get returns the caller's own resolved profile. The gate already did
// the lookup; this just echoes what is on the context.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.GetUser(r.Context()))
}
