// Package vswitch implements the virtual switch registry for switchhook.
//
// A virtual switch is a named boolean device with no physical backing:
// external services flip it over the webhook API and downstream consumers
// react to the resulting state changes. The Registry owns all switch state
// for one configuration and is the only cross-request mutable state in the
// process.
//
// # Concurrency
//
// All Registry methods are safe for concurrent use. Mutations run under a
// single registry-wide mutex, so two requests targeting the same switch can
// never interleave their read-modify-write, and a mutation is either fully
// visible to other readers or not at all. Expected throughput is low enough
// that per-switch locking would buy nothing.
//
// # Persistence
//
// The registry is rebuilt from the configured switch list on every start.
// When a Store is attached, Restore() seeds switches from the last persisted
// snapshot before traffic is served, and every mutation is written through
// best-effort. The in-memory state stays authoritative; a failed write is
// logged and does not fail the webhook request.
package vswitch
