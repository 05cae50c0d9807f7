package response

import (
	"encoding/json"
	"net/http"
)

const contentTypeJSON = "application/json; charset=utf-8"

// MessageBody is the {"message": ...} reply of mutating endpoints.
type MessageBody struct {
	Message string `json:"message"`
}

// WriteJSON encodes v with status. A Content-Type already set by the caller wins.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	h := w.Header()
	if h.Get("Content-Type") == "" {
		h.Set("Content-Type", contentTypeJSON)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, v any)      { WriteJSON(w, http.StatusOK, v) }
func Created(w http.ResponseWriter, v any) { WriteJSON(w, http.StatusCreated, v) }

func Message(w http.ResponseWriter, msg string) {
	OK(w, MessageBody{Message: msg})
}
