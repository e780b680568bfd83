package index

import (
	"errors"
	"fmt"

	"github.com/hupe1980/graphidx/schema"
)

var (
	// ErrUpdaterClosed is returned when an updater is used after Close.
	ErrUpdaterClosed = errors.New("index updater already closed")

	// ErrIndexFailed is returned by a proxy that refuses to produce an
	// updater because the index failed permanently.
	ErrIndexFailed = errors.New("index is in failed state")

	// ErrIndexDropped is returned by a proxy whose index has been dropped.
	ErrIndexDropped = errors.New("index has been dropped")
)

// EntryConflictError reports a uniqueness violation detected during an
// updater's final validation pass.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type EntryConflictError struct {
	// Descriptor identifies the unique index that detected the conflict.
	Descriptor schema.Descriptor

	// Values is the conflicting value tuple.
	Values []Value

	// ExistingEntityID is the entity already indexed under Values.
	ExistingEntityID int64

	// NewEntityID is the entity whose insert collided.
	NewEntityID int64

	cause error
}

func (e *EntryConflictError) Error() string {
	return fmt.Sprintf("index %s: value %s already indexed for entity %d, conflicting insert for entity %d",
		e.Descriptor, FormatValues(e.Values), e.ExistingEntityID, e.NewEntityID)
}

func (e *EntryConflictError) Unwrap() error { return e.cause }
