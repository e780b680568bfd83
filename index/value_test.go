package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	t.Run("Comparable", func(t *testing.T) {
		assert.True(t, StringValue("bob") == StringValue("bob"))
		assert.False(t, StringValue("bob") == StringValue("alice"))
		assert.True(t, IntValue(42) == IntValue(42))
		assert.False(t, IntValue(42) == FloatValue(42))
	})

	t.Run("Accessors", func(t *testing.T) {
		assert.Equal(t, int64(42), IntValue(42).Int())
		assert.Equal(t, 4.2, FloatValue(4.2).Float())
		assert.Equal(t, "bob", StringValue("bob").Str())
		assert.True(t, BoolValue(true).Bool())

		var zero Value
		assert.False(t, zero.IsValid())
		assert.True(t, IntValue(0).IsValid())
	})

	t.Run("EncodingDistinguishesKinds", func(t *testing.T) {
		pairs := []Value{IntValue(1), FloatValue(1), StringValue("1"), BoolValue(true)}
		seen := make(map[string]Value, len(pairs))
		for _, v := range pairs {
			enc := string(v.AppendEncoded(nil))
			prev, dup := seen[enc]
			assert.False(t, dup, "%s and %s encode identically", prev, v)
			seen[enc] = v
		}
	})

	t.Run("EncodingIsCanonical", func(t *testing.T) {
		a := EncodeValues([]Value{StringValue("bob"), IntValue(7)})
		b := EncodeValues([]Value{StringValue("bob"), IntValue(7)})
		assert.Equal(t, a, b)

		// Length-prefixed strings keep tuple boundaries unambiguous.
		c := EncodeValues([]Value{StringValue("bo"), StringValue("b")})
		d := EncodeValues([]Value{StringValue("b"), StringValue("ob")})
		assert.NotEqual(t, c, d)
	})

	t.Run("Format", func(t *testing.T) {
		assert.Equal(t, `(42, "bob", true)`,
			FormatValues([]Value{IntValue(42), StringValue("bob"), BoolValue(true)}))
	})
}
