package vswitch

import "errors"

// Domain errors for the vswitch package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, vswitch.ErrSwitchNotFound) {
//	    // respond 404
//	}
var (
	// ErrSwitchNotFound is returned when a switch id is not configured.
	ErrSwitchNotFound = errors.New("vswitch: switch not found")

	// ErrInvalidSwitchID is returned when an id does not match the
	// allowed pattern (letters, digits, underscores).
	ErrInvalidSwitchID = errors.New("vswitch: invalid switch id")

	// ErrDuplicateSwitchID is returned when two definitions share an id.
	ErrDuplicateSwitchID = errors.New("vswitch: duplicate switch id")

	// ErrInvalidDefinition is returned when a switch definition is
	// otherwise malformed (e.g. missing name).
	ErrInvalidDefinition = errors.New("vswitch: invalid definition")

	// ErrInvalidAction is returned when Apply is handed an action outside
	// the closed set. Request validation should make this unreachable.
	ErrInvalidAction = errors.New("vswitch: invalid action")
)
