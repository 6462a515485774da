package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/switchhook/internal/vswitch"
)

// Command is a validated webhook request. Immutable once parsed.
//
// Attributes is nil when the caller omitted the field entirely; an
// explicit JSON null is treated the same as omission.
type Command struct {
	SwitchID   string
	Action     vswitch.Action
	Attributes map[string]any
}

// rawCommand is the wire shape of a webhook request body.
// Attributes stays raw so a present-but-malformed value can be told apart
// from an absent one.
type rawCommand struct {
	SwitchID   string          `json:"switch_id"`
	Action     string          `json:"action"`
	Attributes json.RawMessage `json:"attributes"`
}

// ParseCommand validates a raw request body into a Command.
//
// Validation is purely structural; no registry lookup happens here:
//   - switch_id must be a non-empty string
//   - action must be exactly one of on, off, toggle, status
//   - attributes, when present, must be a JSON object
//
// Returns ErrMalformedBody, ErrUnknownAction, or ErrBadAttributes.
func ParseCommand(raw []byte) (Command, error) {
	var req rawCommand
	if err := json.Unmarshal(raw, &req); err != nil {
		return Command{}, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	if req.SwitchID == "" {
		return Command{}, fmt.Errorf("%w: switch_id is required", ErrMalformedBody)
	}

	action := vswitch.Action(req.Action)
	if !vswitch.IsValidAction(action) {
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}

	cmd := Command{
		SwitchID: req.SwitchID,
		Action:   action,
	}

	if len(req.Attributes) > 0 && !bytes.Equal(bytes.TrimSpace(req.Attributes), []byte("null")) {
		if err := json.Unmarshal(req.Attributes, &cmd.Attributes); err != nil {
			return Command{}, fmt.Errorf("%w: attributes must be an object", ErrBadAttributes)
		}
		if cmd.Attributes == nil {
			cmd.Attributes = map[string]any{}
		}
	}

	return cmd, nil
}
