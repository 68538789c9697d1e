// Package cloud implements the optional cloud-save service: an HTTP
// key/value API for player progress, a websocket hub relaying host
// lifecycle signals, and the client the game uses to talk to both.
package cloud

import (
	"encoding/json"
	"net/http"
)

// DataEnvelope is the request and response body of the data endpoints.
type DataEnvelope struct {
	Data map[string]json.RawMessage `json:"data"`
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}
