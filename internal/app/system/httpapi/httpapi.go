// internal/app/system/httpapi/httpapi.go

// Package httpapi holds the JSON envelope helpers shared by the feature
// handlers. The wire shape is deliberately thin: the engine's contract
// lives in the store and synchronizer operations, not here.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
)

// maxBodyBytes caps JSON request bodies. File uploads use multipart
// limits instead.
const maxBodyBytes = 1 << 20

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the error envelope with the given status.
func Error(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, errorBody{Error: msg})
}

// BadRequest writes a 400 envelope.
func BadRequest(w http.ResponseWriter, msg string) {
	Error(w, http.StatusBadRequest, msg)
}

// NotFound writes a 404 envelope. Absent targets are client errors and
// are never retried.
func NotFound(w http.ResponseWriter, msg string) {
	Error(w, http.StatusNotFound, msg)
}

// Unavailable writes a 503 envelope for transient storage failures.
func Unavailable(w http.ResponseWriter, msg string) {
	if msg == "" {
		msg = "storage unavailable, retry later"
	}
	Error(w, http.StatusServiceUnavailable, msg)
}

// Decode reads a size-limited JSON body into v.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}

// StoreError maps a store failure onto the envelope: a NotFound
// sentinel becomes 404, anything else is treated as the backend being
// unreachable and becomes 503.
func StoreError(w http.ResponseWriter, err error, notFound error, notFoundMsg string) {
	if errors.Is(err, notFound) {
		NotFound(w, notFoundMsg)
		return
	}
	Unavailable(w, "")
}
