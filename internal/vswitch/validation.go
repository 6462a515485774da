package vswitch

import (
	"fmt"
	"regexp"
)

// switchIDPattern defines the valid format for switch identifiers.
// Matches the webhook wire contract: letters, digits, underscores.
var switchIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// maxNameLength bounds display names to keep state payloads small.
const maxNameLength = 100

// ValidateDefinition checks a single switch definition.
// Returns an error describing the first failure found.
func ValidateDefinition(d Definition) error {
	if d.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidSwitchID)
	}
	if !switchIDPattern.MatchString(d.ID) {
		return fmt.Errorf("%w: %q must contain only letters, digits, and underscores", ErrInvalidSwitchID, d.ID)
	}
	if d.Name == "" {
		return fmt.Errorf("%w: switch %q: name is required", ErrInvalidDefinition, d.ID)
	}
	if len(d.Name) > maxNameLength {
		return fmt.Errorf("%w: switch %q: name exceeds %d characters", ErrInvalidDefinition, d.ID, maxNameLength)
	}
	return nil
}

// ValidateDefinitions checks a full switch list, including id uniqueness.
// The registry refuses to construct from a list that fails this check.
func ValidateDefinitions(defs []Definition) error {
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if err := ValidateDefinition(d); err != nil {
			return err
		}
		if seen[d.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateSwitchID, d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}
