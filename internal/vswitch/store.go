package vswitch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Store persists last-known switch state across restarts.
//
// The registry treats the store as write-through and best-effort: Load is
// called once at startup to seed prior state, Save after every mutation.
type Store interface {
	// Load returns the last persisted snapshot per switch id.
	Load(ctx context.Context) (map[string]Snapshot, error)

	// Save upserts the snapshot for one switch.
	Save(ctx context.Context, state *SwitchState) error
}

// SQLiteStore persists switch snapshots to the switch_states table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store backed by the given database connection.
// The switch_states table must exist (created by migrations).
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context) (map[string]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, is_on, last_triggered_at, attributes FROM switch_states",
	)
	if err != nil {
		return nil, fmt.Errorf("querying switch states: %w", err)
	}
	defer rows.Close()

	snapshots := make(map[string]Snapshot)
	for rows.Next() {
		var (
			id            string
			isOn          int
			lastTriggered sql.NullString
			attrsJSON     string
		)
		if err := rows.Scan(&id, &isOn, &lastTriggered, &attrsJSON); err != nil {
			return nil, fmt.Errorf("scanning switch state row: %w", err)
		}

		snap := Snapshot{IsOn: isOn != 0}

		if lastTriggered.Valid && lastTriggered.String != "" {
			ts, err := time.Parse(time.RFC3339, lastTriggered.String)
			if err != nil {
				return nil, fmt.Errorf("parsing last_triggered_at for %q: %w", id, err)
			}
			snap.LastTriggeredAt = &ts
		}

		if attrsJSON != "" && attrsJSON != "{}" {
			if err := json.Unmarshal([]byte(attrsJSON), &snap.Attributes); err != nil {
				return nil, fmt.Errorf("parsing attributes for %q: %w", id, err)
			}
		}

		snapshots[id] = snap
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating switch states: %w", err)
	}
	return snapshots, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, state *SwitchState) error {
	attrsJSON, err := json.Marshal(state.Attributes)
	if err != nil {
		return fmt.Errorf("encoding attributes for %q: %w", state.ID, err)
	}
	if state.Attributes == nil {
		attrsJSON = []byte("{}")
	}

	var lastTriggered any
	if state.LastTriggeredAt != nil {
		lastTriggered = state.LastTriggeredAt.UTC().Format(time.RFC3339)
	}

	isOn := 0
	if state.IsOn {
		isOn = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO switch_states (id, is_on, last_triggered_at, attributes, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			is_on = excluded.is_on,
			last_triggered_at = excluded.last_triggered_at,
			attributes = excluded.attributes,
			updated_at = excluded.updated_at
	`, state.ID, isOn, lastTriggered, string(attrsJSON), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving switch state for %q: %w", state.ID, err)
	}
	return nil
}
