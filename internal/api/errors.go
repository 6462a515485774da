package api

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the error body for every non-2xx response.
// Details carries optional diagnostic text and serialises as null when
// absent.
type ErrorResponse struct {
	Error   string  `json:"error"`
	Details *string `json:"details"`
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, message string, details *string) {
	writeJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, message, nil)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, message, nil)
}

// writeBadRequest writes a 400 error response with diagnostic details.
func writeBadRequest(w http.ResponseWriter, message, details string) {
	writeError(w, http.StatusBadRequest, message, &details)
}

// writeInternalError writes a generic 500 error response.
// The underlying cause is logged server-side and never leaked here.
func writeInternalError(w http.ResponseWriter) {
	writeError(w, http.StatusInternalServerError, "Internal server error", nil)
}
