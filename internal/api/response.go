package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the standard response shape: {success, message?, data|profile|user}.
type envelope map[string]any

// jsonResponse writes an envelope with the given status code.
func jsonResponse(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// jsonData writes a successful response carrying a data payload.
func jsonData(w http.ResponseWriter, status int, data any) {
	jsonResponse(w, status, envelope{"success": true, "data": data})
}

// jsonMessage writes a successful response carrying only a message.
func jsonMessage(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, envelope{"success": true, "message": message})
}

// jsonError writes a failed response. Internal detail stays in the logs;
// only the given message reaches the client.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, envelope{"success": false, "message": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
