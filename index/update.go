package index

import (
	"fmt"

	"github.com/hupe1980/graphidx/schema"
)

// UpdateKind says what happened to an entity's indexed value tuple.
type UpdateKind uint8

const (
	// UpdateAdded means the entity newly matches the index.
	UpdateAdded UpdateKind = iota

	// UpdateChanged means the entity's indexed values changed.
	UpdateChanged

	// UpdateRemoved means the entity no longer matches the index.
	UpdateRemoved
)

// String returns a short name for the update kind.
func (k UpdateKind) String() string {
	switch k {
	case UpdateAdded:
		return "added"
	case UpdateChanged:
		return "changed"
	case UpdateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// EntityUpdate is one change record for one index: the values of one entity,
// projected into the index's property order.
type EntityUpdate struct {
	// Kind is what happened to the entity with respect to this index.
	Kind UpdateKind

	// EntityID identifies the node or relationship.
	EntityID int64

	// Descriptor identifies the index the update targets.
	Descriptor schema.Descriptor

	// Values holds the entity's current value tuple in the descriptor's
	// property order. Empty for UpdateRemoved.
	Values []Value

	// Before holds the previous value tuple for UpdateChanged and
	// UpdateRemoved; nil for UpdateAdded.
	Before []Value
}

// Added builds an UpdateAdded record.
func Added(d schema.Descriptor, entityID int64, values []Value) EntityUpdate {
	return EntityUpdate{Kind: UpdateAdded, EntityID: entityID, Descriptor: d, Values: values}
}

// Changed builds an UpdateChanged record.
func Changed(d schema.Descriptor, entityID int64, before, after []Value) EntityUpdate {
	return EntityUpdate{Kind: UpdateChanged, EntityID: entityID, Descriptor: d, Values: after, Before: before}
}

// Removed builds an UpdateRemoved record.
func Removed(d schema.Descriptor, entityID int64, before []Value) EntityUpdate {
	return EntityUpdate{Kind: UpdateRemoved, EntityID: entityID, Descriptor: d, Before: before}
}

// String formats the update for logs and errors.
func (u EntityUpdate) String() string {
	return fmt.Sprintf("%s entity=%d index=%s values=%s", u.Kind, u.EntityID, u.Descriptor, FormatValues(u.Values))
}
