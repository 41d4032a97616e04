package validator

import (
	"regexp"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const maxMessageLength = 4000

func ValidateUsername(username string) ValidationErrors {
	errs := make(ValidationErrors)

	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 3 {
		errs.Add("username", "Username must be at least 3 characters")
	} else if len(username) > 50 {
		errs.Add("username", "Username is too long")
	} else if !usernameRegex.MatchString(username) {
		errs.Add("username", "Username can only contain letters, numbers, _ and -")
	}

	return errs
}

// ValidateMessage allows empty content only when an attachment rides
// along.
func ValidateMessage(content string, hasAttachment bool) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(content) == "" && !hasAttachment {
		errs.Add("content", "Message content is required")
	}
	if len(content) > maxMessageLength {
		errs.Add("content", "Message is too long")
	}

	return errs
}
