package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/markov9/courier/internal/domain"
	"github.com/markov9/courier/pkg/validator"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION",
			"fields": errs,
		},
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

var statusByCode = map[domain.Code]int{
	domain.CodeUnauthorized:     http.StatusUnauthorized,
	domain.CodeForbidden:        http.StatusForbidden,
	domain.CodeNotFound:         http.StatusNotFound,
	domain.CodeConflict:         http.StatusConflict,
	domain.CodeInvalidOperation: http.StatusBadRequest,
	domain.CodeInternal:         http.StatusInternalServerError,
}

// writeServiceError maps a service error onto the wire. Taxonomy errors
// are surfaced verbatim; anything unclassified is logged and returned
// as a generic internal failure.
func writeServiceError(w http.ResponseWriter, logger *logrus.Logger, op string, err error) {
	code := domain.ErrorCode(err)
	status := statusByCode[code]
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if code == domain.CodeInternal {
		logger.WithFields(logrus.Fields{
			"op":    op,
			"error": err,
		}).Error("request failed")
		writeError(w, status, string(code), "Something went wrong")
		return
	}

	var de *domain.Error
	message := err.Error()
	if errors.As(err, &de) {
		message = de.Message
	}
	writeError(w, status, string(code), message)
}
