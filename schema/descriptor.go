// Package schema defines the identity model for secondary indexes.
//
// A Descriptor is the stable, comparable key under which every other layer
// (catalog, updater map, index backends) files an index. It is a value type
// and safe to copy; two descriptors built from the same inputs compare equal
// with ==, which makes Descriptor usable directly as a map key.
package schema

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unique"
)

// EntityKind says which kind of graph entity an index covers.
type EntityKind uint8

const (
	// EntityNode indexes nodes by label.
	EntityNode EntityKind = iota

	// EntityRelationship indexes relationships by relationship type.
	EntityRelationship
)

// String returns a short human-readable name for the entity kind.
func (k EntityKind) String() string {
	switch k {
	case EntityNode:
		return "node"
	case EntityRelationship:
		return "rel"
	default:
		return "unknown"
	}
}

// Descriptor identifies one secondary index: entity kind, entity token
// (label id or relationship type id), ordered property ids and uniqueness.
//
// The property-id list is interned, so Descriptor is comparable and its
// equality and hash stay stable for the life of the process. The zero
// Descriptor is not a valid index identity; always build one via New or
// NewUnique.
type Descriptor struct {
	kind     EntityKind
	token    uint32
	props    unique.Handle[string]
	isUnique bool
}

// New returns the descriptor of a non-unique index over the given token and
// property ids. Property order is part of the identity.
func New(kind EntityKind, token uint32, propertyIDs []uint32) Descriptor {
	return Descriptor{
		kind:  kind,
		token: token,
		props: unique.Make(packPropertyIDs(propertyIDs)),
	}
}

// NewUnique returns the descriptor of a uniqueness-enforcing index.
func NewUnique(kind EntityKind, token uint32, propertyIDs []uint32) Descriptor {
	d := New(kind, token, propertyIDs)
	d.isUnique = true
	return d
}

// EntityKind returns the kind of entity the index covers.
func (d Descriptor) EntityKind() EntityKind { return d.kind }

// Token returns the label id (nodes) or relationship type id (relationships).
func (d Descriptor) Token() uint32 { return d.token }

// IsUnique reports whether the index enforces value uniqueness.
func (d Descriptor) IsUnique() bool { return d.isUnique }

// PropertyIDs returns the indexed property ids in identity order.
// The returned slice is freshly allocated on every call.
func (d Descriptor) PropertyIDs() []uint32 {
	if d.props == (unique.Handle[string]{}) {
		return nil
	}
	return unpackPropertyIDs(d.props.Value())
}

// ContainsProperty reports whether the index covers the given property id.
func (d Descriptor) ContainsProperty(id uint32) bool {
	if d.props == (unique.Handle[string]{}) {
		return false
	}
	packed := d.props.Value()
	for i := 0; i+4 <= len(packed); i += 4 {
		if binary.BigEndian.Uint32([]byte(packed[i:i+4])) == id {
			return true
		}
	}
	return false
}

// String returns the canonical name of the index, e.g.
// "node(3).props(7,9).unique".
func (d Descriptor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(%d).props(", d.kind, d.token)
	for i, id := range d.PropertyIDs() {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", id)
	}
	sb.WriteByte(')')
	if d.isUnique {
		sb.WriteString(".unique")
	}
	return sb.String()
}

func packPropertyIDs(ids []uint32) string {
	buf := make([]byte, 0, len(ids)*4)
	for _, id := range ids {
		buf = binary.BigEndian.AppendUint32(buf, id)
	}
	return string(buf)
}

func unpackPropertyIDs(packed string) []uint32 {
	ids := make([]uint32, 0, len(packed)/4)
	for i := 0; i+4 <= len(packed); i += 4 {
		ids = append(ids, binary.BigEndian.Uint32([]byte(packed[i:i+4])))
	}
	return ids
}
