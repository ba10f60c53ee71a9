package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// GenericFailure is shown when an error carries no message meant for users.
const GenericFailure = "Something went wrong. Please try again."

// Error is a non-2xx response. Message is the server's own text when the body
// carried one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

func (e *Error) UserMessage() string { return e.Message }

func newError(status int, body []byte) *Error {
	e := &Error{Status: status}
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(body, &parsed); err != nil {
		return e
	}
	for _, key := range []string{"message", "error", "msg"} {
		raw, ok := parsed[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			e.Message = strings.TrimSpace(s)
			return e
		}
		// {"error": {"message": "..."}}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
			e.Message = nested.Message
			return e
		}
	}
	return e
}

// IsStatus reports whether err is an API error with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// UserMessage converts any error into the text shown inline next to a form:
// the server's or storage's own message when there is one, else GenericFailure.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var m interface{ UserMessage() string }
	if errors.As(err, &m) {
		if msg := strings.TrimSpace(m.UserMessage()); msg != "" {
			return msg
		}
	}
	return GenericFailure
}
