package webhook

import (
	"errors"
	"fmt"

	"github.com/nerrad567/switchhook/internal/vswitch"
)

// Validation and dispatch errors.
//
// These errors can be checked using errors.Is() for error handling. The
// HTTP layer maps them onto response statuses: validation errors become
// 400, ErrInternal becomes a generic 500.
var (
	// ErrMalformedBody is returned when the payload is not valid JSON or
	// is missing a required field.
	ErrMalformedBody = errors.New("webhook: malformed request body")

	// ErrUnknownAction is returned when the action field is not one of
	// the recognised literals. Matching is case-sensitive.
	ErrUnknownAction = errors.New("webhook: unknown action")

	// ErrBadAttributes is returned when the attributes field is present
	// but does not decode into a key/value mapping.
	ErrBadAttributes = errors.New("webhook: invalid attributes")

	// ErrInternal wraps unexpected failures from dispatch. The cause is
	// logged server-side and never leaked to the caller.
	ErrInternal = errors.New("webhook: internal error")
)

// NotFoundError reports a command targeting a switch that is not
// configured. It carries the switch identifier so the HTTP layer can
// name the switch in its 404 response.
type NotFoundError struct {
	SwitchID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("webhook: switch %q is not configured", e.SwitchID)
}

// Unwrap makes errors.Is(err, vswitch.ErrSwitchNotFound) hold.
func (e *NotFoundError) Unwrap() error {
	return vswitch.ErrSwitchNotFound
}
