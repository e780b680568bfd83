// Package index defines the capability surface between the index-update
// coordination layer and individual index implementations.
//
// The coordination layer never depends on a concrete index type. It sees an
// index only through Proxy (the catalog's handle to the index's current
// runtime state) and Updater (a transaction-scoped writer produced by a
// proxy). Backends live elsewhere (e.g. the memindex package) and plug in by
// implementing these interfaces.
package index

import (
	"context"

	"github.com/hupe1980/graphidx/schema"
)

// UpdateMode is the fixed policy under which every updater of one
// transaction applies its changes. It is configuration for the whole
// updater map, not per-call state.
type UpdateMode uint8

const (
	// ModeOnline is the normal transactional apply path.
	ModeOnline UpdateMode = iota

	// ModeRecovery is replay of changes during crash recovery. Changes may
	// be seen more than once, so updaters must tolerate re-application.
	ModeRecovery
)

// RequiresIdempotency reports whether updaters must tolerate the same
// change record being applied more than once.
func (m UpdateMode) RequiresIdempotency() bool { return m == ModeRecovery }

// RequiresRefresh reports whether indexes should be refreshed after the
// mode's apply phase completes.
func (m UpdateMode) RequiresRefresh() bool { return m == ModeOnline }

// String returns a short name for the mode.
func (m UpdateMode) String() string {
	switch m {
	case ModeOnline:
		return "online"
	case ModeRecovery:
		return "recovery"
	default:
		return "unknown"
	}
}

// State is the lifecycle state of an index as exposed by its proxy.
type State uint8

const (
	// StatePopulating means the index is still being built.
	StatePopulating State = iota

	// StateOnline means the index is fully built and serving.
	StateOnline

	// StateFailed means population or a later write failed permanently.
	StateFailed
)

// String returns a short name for the state.
func (s State) String() string {
	switch s {
	case StatePopulating:
		return "populating"
	case StateOnline:
		return "online"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Updater is a stateful writer bound to one index for the duration of one
// transaction. Writes submitted through Process are applied in submission
// order. Close flushes buffered changes and runs deferred validation, so
// Close is where entry conflicts surface.
//
// An Updater must be closed exactly once. Implementations are strict about
// this and return ErrUpdaterClosed on use after Close; the updater map owns
// the exactly-once guarantee for its callers.
type Updater interface {
	// Process applies one change record to the index.
	Process(ctx context.Context, update EntityUpdate) error

	// Close flushes and validates all processed changes, then releases the
	// updater. A uniqueness violation detected during the final validation
	// pass is returned as *EntryConflictError.
	Close() error
}

// Proxy is the catalog's handle to one index's current runtime state.
type Proxy interface {
	// Descriptor returns the identity of the underlying index.
	Descriptor() schema.Descriptor

	// State returns the index's current lifecycle state.
	State() State

	// NewUpdater produces a fresh writer for one transaction. A proxy may
	// refuse, e.g. when the index has failed (ErrIndexFailed) or been
	// dropped (ErrIndexDropped).
	NewUpdater(mode UpdateMode) (Updater, error)

	// Refresh makes previously closed writes visible to readers.
	Refresh(ctx context.Context) error
}
