package vswitch

import "time"

// Action is a webhook-controllable operation on a switch.
// The set is closed: anything else is a validation error upstream,
// never a silent fallthrough.
type Action string

const (
	// ActionOn turns the switch on.
	ActionOn Action = "on"

	// ActionOff turns the switch off.
	ActionOff Action = "off"

	// ActionToggle inverts the current power state.
	ActionToggle Action = "toggle"

	// ActionStatus reads the switch without mutating power state.
	ActionStatus Action = "status"
)

// AllActions returns every recognised action.
func AllActions() []Action {
	return []Action{ActionOn, ActionOff, ActionToggle, ActionStatus}
}

// IsValidAction reports whether a is one of the recognised actions.
// Matching is case-sensitive: "ON" is not an action.
func IsValidAction(a Action) bool {
	switch a {
	case ActionOn, ActionOff, ActionToggle, ActionStatus:
		return true
	default:
		return false
	}
}

// Definition describes a switch as configured. Definitions are immutable;
// the registry turns each one into a live SwitchState at construction.
type Definition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
}

// SwitchState is the live state of one virtual switch.
//
// ID is immutable after creation. Attributes holds the custom attribute map
// supplied by webhook callers; it is replaced wholesale on each update, never
// merged. LastTriggeredAt is stamped on every power mutation (including
// idempotent ones) and nil until the switch is first triggered.
type SwitchState struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Icon            string         `json:"icon,omitempty"`
	IsOn            bool           `json:"is_on"`
	LastTriggeredAt *time.Time     `json:"last_triggered_at,omitempty"`
	Attributes      map[string]any `json:"attributes,omitempty"`
}

// Snapshot is the persistable subset of SwitchState, used to seed the
// registry with prior state after a restart.
type Snapshot struct {
	IsOn            bool
	LastTriggeredAt *time.Time
	Attributes      map[string]any
}

// PowerString renders the power flag as the wire-level "on"/"off" literal.
func (s *SwitchState) PowerString() string {
	if s.IsOn {
		return "on"
	}
	return "off"
}

// AttributesSnapshot builds the attribute map reflected back to webhook
// callers: the switch id, the last-triggered timestamp when set, and the
// caller-supplied custom attributes when non-empty.
func (s *SwitchState) AttributesSnapshot() map[string]any {
	attrs := map[string]any{
		"switch_id": s.ID,
	}
	if s.LastTriggeredAt != nil {
		attrs["last_triggered_at"] = s.LastTriggeredAt.UTC().Format(time.RFC3339)
	}
	if len(s.Attributes) > 0 {
		attrs["custom_attributes"] = deepCopyMap(s.Attributes)
	}
	return attrs
}

// DeepCopy returns a copy of the switch state that shares no mutable
// structure with the original. Callers can safely modify the result.
func (s *SwitchState) DeepCopy() *SwitchState {
	cp := *s
	if s.LastTriggeredAt != nil {
		ts := *s.LastTriggeredAt
		cp.LastTriggeredAt = &ts
	}
	cp.Attributes = deepCopyMap(s.Attributes)
	return &cp
}

// deepCopyMap copies a JSON-shaped map, recursing into nested maps and
// slices. Scalar values are immutable and copied by assignment.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = deepCopyValue(v)
	}
	return cp
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		cp := make([]any, len(val))
		for i, e := range val {
			cp[i] = deepCopyValue(e)
		}
		return cp
	default:
		return val
	}
}
