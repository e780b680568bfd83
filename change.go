package graphidx

import (
	"github.com/hupe1980/graphidx/index"
	"github.com/hupe1980/graphidx/schema"
)

// EntityChange describes what one transaction did to one entity, in terms
// the routing layer understands: which tokens the entity carries, which
// properties were touched, and the property values before and after.
type EntityChange struct {
	// EntityID identifies the node or relationship.
	EntityID int64

	// Kind is the entity kind the change applies to.
	Kind schema.EntityKind

	// Tokens are the entity's label ids (nodes) or its relationship type id
	// (relationships). For a deleted entity, the tokens it carried before.
	Tokens []uint32

	// Changed lists the property ids the transaction touched. Empty means a
	// membership change (entity created or deleted), which affects every
	// index on the entity's tokens.
	Changed []uint32

	// Before holds the entity's indexed property values before the change;
	// nil for a created entity.
	Before map[uint32]index.Value

	// After holds the entity's indexed property values after the change;
	// nil for a deleted entity.
	After map[uint32]index.Value
}

// projectUpdate projects an entity change into one index's change record.
// The second return is false when the change is a no-op for this index,
// e.g. the entity never had all of the index's properties.
func projectUpdate(d schema.Descriptor, change EntityChange) (index.EntityUpdate, bool) {
	before, hadBefore := projectValues(d, change.Before)
	after, hasAfter := projectValues(d, change.After)

	switch {
	case hadBefore && hasAfter:
		if tuplesEqual(before, after) {
			return index.EntityUpdate{}, false
		}
		return index.Changed(d, change.EntityID, before, after), true
	case hasAfter:
		return index.Added(d, change.EntityID, after), true
	case hadBefore:
		return index.Removed(d, change.EntityID, before), true
	default:
		return index.EntityUpdate{}, false
	}
}

// projectValues extracts the descriptor's value tuple from a property map.
// The entity only matches the index when every indexed property is present.
func projectValues(d schema.Descriptor, props map[uint32]index.Value) ([]index.Value, bool) {
	if props == nil {
		return nil, false
	}
	ids := d.PropertyIDs()
	values := make([]index.Value, 0, len(ids))
	for _, id := range ids {
		v, ok := props[id]
		if !ok || !v.IsValid() {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

func tuplesEqual(a, b []index.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
