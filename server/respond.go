package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"catalogadmin/api"
	"catalogadmin/dashboard"
	"catalogadmin/form"
	"catalogadmin/logger"
	"catalogadmin/normalize"
	"catalogadmin/storage"
)

type errorBody struct {
	Message string           `json:"message"`
	Fields  []form.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("writing response", logger.ErrorField(err))
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}

// writeError maps an error to a status and the same inline message the
// dashboard forms show.
func writeError(w http.ResponseWriter, err error) {
	var (
		verr *form.ValidationError
		aerr *api.Error
		uerr *storage.UploadError
	)
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Message: verr.UserMessage(), Fields: verr.Fields})
		return
	case errors.As(err, &aerr):
		status := aerr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		writeMessage(w, status, api.UserMessage(err))
		return
	case errors.Is(err, storage.ErrEmptyFile), errors.Is(err, storage.ErrNotImage):
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, storage.ErrTooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	case errors.Is(err, storage.ErrUnknownTarget):
		writeMessage(w, http.StatusNotFound, err.Error())
		return
	case errors.As(err, &uerr):
		writeMessage(w, http.StatusBadGateway, uerr.UserMessage())
		return
	case errors.Is(err, dashboard.ErrNoUploader):
		writeMessage(w, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, normalize.ErrMissingIdentity):
		writeMessage(w, http.StatusBadGateway, err.Error())
		return
	}
	logger.Error("admin request failed", logger.ErrorField(err))
	writeMessage(w, http.StatusBadGateway, api.UserMessage(err))
}
