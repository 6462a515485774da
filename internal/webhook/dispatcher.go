package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/nerrad567/switchhook/internal/vswitch"
)

// Logger defines the logging interface used by the Dispatcher.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Result is the success payload echoed back to the webhook caller.
// Constructed once per request, never mutated after return.
type Result struct {
	Status     string         `json:"status"`
	SwitchID   string         `json:"switch_id"`
	Action     string         `json:"action"`
	State      string         `json:"state"`
	Attributes map[string]any `json:"attributes"`
}

// Dispatcher orchestrates validated commands against the switch registry.
//
// Safe for concurrent use; all per-switch serialisation lives in the
// registry itself.
type Dispatcher struct {
	registry *vswitch.Registry
	logger   Logger
}

// NewDispatcher creates a dispatcher bound to one registry.
func NewDispatcher(registry *vswitch.Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the dispatcher.
func (d *Dispatcher) SetLogger(logger Logger) {
	d.logger = logger
}

// Dispatch parses and executes a webhook request body.
//
// The action and any supplied attributes are applied as one atomic
// registry operation; attributes commit only after the action step, and
// they may accompany any action including status. The returned error is
// one of the package validation errors, a *NotFoundError for an
// unconfigured switch, or ErrInternal for anything unexpected (logged in
// full here, reported generically to the caller).
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) (*Result, error) {
	cmd, err := ParseCommand(raw)
	if err != nil {
		d.logger.Warn("webhook validation failed", "error", err)
		return nil, err
	}

	d.logger.Info("webhook received",
		"switch_id", cmd.SwitchID,
		"action", string(cmd.Action),
	)

	state, err := d.registry.Apply(ctx, cmd.SwitchID, cmd.Action, cmd.Attributes)
	if err != nil {
		if errors.Is(err, vswitch.ErrSwitchNotFound) {
			d.logger.Warn("webhook for unknown switch", "switch_id", cmd.SwitchID)
			return nil, &NotFoundError{SwitchID: cmd.SwitchID}
		}
		d.logger.Error("webhook dispatch failed",
			"switch_id", cmd.SwitchID,
			"action", string(cmd.Action),
			"error", err,
		)
		return nil, fmt.Errorf("%w: applying %s to %s: %w", ErrInternal, cmd.Action, cmd.SwitchID, err)
	}

	result := &Result{
		Status:     "success",
		SwitchID:   cmd.SwitchID,
		Action:     string(cmd.Action),
		State:      state.PowerString(),
		Attributes: state.AttributesSnapshot(),
	}

	d.logger.Info("webhook processed",
		"switch_id", cmd.SwitchID,
		"action", string(cmd.Action),
		"state", result.State,
	)

	return result, nil
}
