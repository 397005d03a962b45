package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/autogen/autogen/internal/db"
)

// MessageResponse is the body shape for plain status and error replies.
type MessageResponse struct {
	Message string `json:"message"`
}

// Pagination carries result-set metadata for list endpoints.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, MessageResponse{Message: message})
}

// writeStoreError maps a storage-layer error to its HTTP status. Unknown
// errors become an opaque 500; the underlying cause is the caller's to log.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrCarNotFound),
		errors.Is(err, db.ErrGarageNotFound),
		errors.Is(err, db.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, db.ErrNotOwner):
		writeMessage(w, http.StatusForbidden, "Not authorized")
	case errors.Is(err, db.ErrDuplicateVIN),
		errors.Is(err, db.ErrAlreadySaved),
		errors.Is(err, db.ErrAlreadyWatchlisted):
		writeMessage(w, http.StatusConflict, err.Error())
	default:
		writeMessage(w, http.StatusInternalServerError, "Server error")
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
