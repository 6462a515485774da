package vswitch

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
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

// Registry is the in-memory authoritative store of all switch states for
// one configuration.
//
// It is built from a validated switch list, optionally seeded from a prior
// state snapshot via Restore(), and mutated only through its methods. A
// registry-wide mutex serialises mutations; see the package documentation.
type Registry struct {
	mu       sync.RWMutex
	switches map[string]*SwitchState
	order    []string // definition order, for stable List() output

	store    Store
	onChange func(SwitchState)
	logger   Logger
}

// NewRegistry creates a registry from the configured switch list.
// Every switch starts off with no attributes and no trigger timestamp.
//
// Returns an error if the list contains duplicate or malformed ids; the
// registry refuses to construct from an invalid configuration.
func NewRegistry(defs []Definition) (*Registry, error) {
	if err := ValidateDefinitions(defs); err != nil {
		return nil, fmt.Errorf("validating switch list: %w", err)
	}

	r := &Registry{
		switches: make(map[string]*SwitchState, len(defs)),
		order:    make([]string, 0, len(defs)),
		logger:   noopLogger{},
	}
	for _, d := range defs {
		r.switches[d.ID] = &SwitchState{
			ID:   d.ID,
			Name: d.Name,
			Icon: d.Icon,
		}
		r.order = append(r.order, d.ID)
	}
	return r, nil
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// SetStore attaches a persistence store. Mutations are written through to
// the store best-effort; call Restore() afterwards to seed prior state.
func (r *Registry) SetStore(store Store) {
	r.store = store
}

// SetOnChange registers a callback invoked after every committed mutation
// with a copy of the new state. Used to mirror state changes to external
// consumers (MQTT). The callback runs outside the registry lock and must
// not call back into mutators synchronously from a mutation path.
func (r *Registry) SetOnChange(fn func(SwitchState)) {
	r.onChange = fn
}

// Restore seeds switches from the store's last persisted snapshot.
// Snapshots for ids no longer configured are ignored; configured switches
// without a snapshot keep their initial off state. Call before serving
// traffic.
func (r *Registry) Restore(ctx context.Context) error {
	if r.store == nil {
		return nil
	}

	snapshots, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading switch snapshots: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	restored := 0
	for id, snap := range snapshots {
		sw, ok := r.switches[id]
		if !ok {
			r.logger.Debug("ignoring snapshot for unconfigured switch", "switch_id", id)
			continue
		}
		sw.IsOn = snap.IsOn
		sw.LastTriggeredAt = snap.LastTriggeredAt
		sw.Attributes = deepCopyMap(snap.Attributes)
		restored++
	}

	r.logger.Info("switch states restored", "restored", restored, "configured", len(r.switches))
	return nil
}

// Get retrieves a switch by id.
// Returns ErrSwitchNotFound if the id is not configured.
// The returned state is a deep copy; callers can safely modify it.
func (r *Registry) Get(id string) (*SwitchState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sw, ok := r.switches[id]
	if !ok {
		return nil, ErrSwitchNotFound
	}
	return sw.DeepCopy(), nil
}

// List returns all switches in definition order.
// The returned states are deep copies; callers can safely modify them.
func (r *Registry) List() []SwitchState {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]SwitchState, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.switches[id].DeepCopy())
	}
	return out
}

// Count returns the number of configured switches.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.switches)
}

// SetPower sets the power flag and stamps the last-triggered timestamp.
// Repeating "on" on an already-on switch keeps it on and still updates
// the timestamp.
func (r *Registry) SetPower(ctx context.Context, id string, on bool) (*SwitchState, error) {
	action := ActionOff
	if on {
		action = ActionOn
	}
	return r.Apply(ctx, id, action, nil)
}

// Toggle inverts the power flag and stamps the last-triggered timestamp.
func (r *Registry) Toggle(ctx context.Context, id string) (*SwitchState, error) {
	return r.Apply(ctx, id, ActionToggle, nil)
}

// SetAttributes replaces the custom-attributes map in full.
// The power flag and last-triggered timestamp are not altered.
func (r *Registry) SetAttributes(ctx context.Context, id string, attrs map[string]any) (*SwitchState, error) {
	return r.Apply(ctx, id, ActionStatus, attrs)
}

// Apply executes an action and an optional attribute replacement as a
// single critical section: no other request can interleave between the two
// phases. Attributes commit only after the action phase; a nil attrs map
// leaves existing attributes untouched.
//
// The mutation is fully applied in memory before persistence or
// notification run, so a cancelled request context can never leave a
// half-updated switch visible.
func (r *Registry) Apply(ctx context.Context, id string, action Action, attrs map[string]any) (*SwitchState, error) {
	if !IsValidAction(action) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	r.mu.Lock()
	sw, ok := r.switches[id]
	if !ok {
		r.mu.Unlock()
		return nil, ErrSwitchNotFound
	}

	mutated := false
	switch action {
	case ActionOn:
		sw.IsOn = true
		r.stampTriggered(sw)
		mutated = true
	case ActionOff:
		sw.IsOn = false
		r.stampTriggered(sw)
		mutated = true
	case ActionToggle:
		sw.IsOn = !sw.IsOn
		r.stampTriggered(sw)
		mutated = true
	case ActionStatus:
		// read-only action
	}

	if attrs != nil {
		sw.Attributes = deepCopyMap(attrs)
		mutated = true
	}

	result := sw.DeepCopy()
	r.mu.Unlock()

	if mutated {
		r.persist(ctx, result)
		if r.onChange != nil {
			r.onChange(*result.DeepCopy())
		}
		r.logger.Debug("switch updated",
			"switch_id", id,
			"action", string(action),
			"state", result.PowerString(),
		)
	}

	return result, nil
}

// stampTriggered records a power mutation time. Always UTC.
func (r *Registry) stampTriggered(sw *SwitchState) {
	now := time.Now().UTC()
	sw.LastTriggeredAt = &now
}

// persist writes the state through to the store, best-effort.
// The in-memory registry stays authoritative; failures are logged only.
func (r *Registry) persist(ctx context.Context, sw *SwitchState) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, sw); err != nil {
		r.logger.Warn("failed to persist switch state",
			"switch_id", sw.ID,
			"error", err,
		)
	}
}
