package updaters

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/graphidx/index"
	"github.com/hupe1980/graphidx/schema"
)

func TestCloseError(t *testing.T) {
	dName := schema.NewUnique(schema.EntityNode, 1, []uint32{7})
	dAge := schema.New(schema.EntityNode, 1, []uint32{9})

	errIO := errors.New("short write")
	conflict := &index.EntryConflictError{
		Descriptor:       dName,
		Values:           []index.Value{index.StringValue("bob")},
		ExistingEntityID: 10,
		NewEntityID:      11,
	}

	ce := &CloseError{Failures: []CloseFailure{
		{Descriptor: dName, Err: conflict},
		{Descriptor: dAge, Err: errIO},
	}}

	t.Run("MessageNamesEveryIndex", func(t *testing.T) {
		msg := ce.Error()
		assert.Contains(t, msg, "2 indexes")
		assert.Contains(t, msg, dName.String())
		assert.Contains(t, msg, dAge.String())
	})

	t.Run("UnwrapReachesCauses", func(t *testing.T) {
		assert.ErrorIs(t, ce, errIO)

		var ece *index.EntryConflictError
		require.ErrorAs(t, ce, &ece)
		assert.Equal(t, int64(10), ece.ExistingEntityID)
	})

	t.Run("For", func(t *testing.T) {
		f, ok := ce.For(dAge)
		require.True(t, ok)
		assert.ErrorIs(t, f.Err, errIO)

		_, ok = ce.For(schema.New(schema.EntityRelationship, 5, []uint32{1}))
		assert.False(t, ok)
	})
}
