package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nerrad567/switchhook/internal/webhook"
)

// handleWebhook executes a switch command.
//
// The body is handed to the dispatcher whole; error mapping is the only
// HTTP concern here. Validation failures become 400, an unconfigured
// switch becomes 404 naming the switch, and anything unexpected becomes
// a generic 500.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "Invalid request body", err.Error())
		return
	}

	result, err := s.dispatcher.Dispatch(r.Context(), body)
	if err != nil {
		s.writeDispatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// writeDispatchError maps dispatcher errors onto HTTP error responses.
func (s *Server) writeDispatchError(w http.ResponseWriter, err error) {
	var notFound *webhook.NotFoundError
	if errors.As(err, &notFound) {
		writeNotFound(w, fmt.Sprintf("Switch '%s' is not configured", notFound.SwitchID))
		return
	}

	switch {
	case errors.Is(err, webhook.ErrMalformedBody),
		errors.Is(err, webhook.ErrUnknownAction),
		errors.Is(err, webhook.ErrBadAttributes):
		writeBadRequest(w, "Invalid request body", err.Error())
	default:
		// Cause already logged by the dispatcher.
		writeInternalError(w)
	}
}
