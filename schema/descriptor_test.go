package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptor(t *testing.T) {
	t.Run("EqualityIsStructural", func(t *testing.T) {
		a := New(EntityNode, 3, []uint32{7, 9})
		b := New(EntityNode, 3, []uint32{7, 9})
		assert.Equal(t, a, b)
		assert.True(t, a == b)

		seen := map[Descriptor]int{a: 1}
		assert.Equal(t, 1, seen[b])
	})

	t.Run("IdentityDimensions", func(t *testing.T) {
		base := New(EntityNode, 3, []uint32{7, 9})

		assert.NotEqual(t, base, New(EntityNode, 4, []uint32{7, 9}))
		assert.NotEqual(t, base, New(EntityRelationship, 3, []uint32{7, 9}))
		assert.NotEqual(t, base, New(EntityNode, 3, []uint32{9, 7}), "property order is part of the identity")
		assert.NotEqual(t, base, NewUnique(EntityNode, 3, []uint32{7, 9}))
	})

	t.Run("Accessors", func(t *testing.T) {
		d := NewUnique(EntityRelationship, 12, []uint32{7, 9})

		assert.Equal(t, EntityRelationship, d.EntityKind())
		assert.Equal(t, uint32(12), d.Token())
		assert.True(t, d.IsUnique())
		assert.Equal(t, []uint32{7, 9}, d.PropertyIDs())
		assert.True(t, d.ContainsProperty(9))
		assert.False(t, d.ContainsProperty(8))
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "node(3).props(7,9)", New(EntityNode, 3, []uint32{7, 9}).String())
		assert.Equal(t, "rel(5).props(2).unique", NewUnique(EntityRelationship, 5, []uint32{2}).String())
	})

	t.Run("ZeroValueIsInert", func(t *testing.T) {
		var d Descriptor
		assert.Nil(t, d.PropertyIDs())
		assert.False(t, d.ContainsProperty(1))
	})
}
