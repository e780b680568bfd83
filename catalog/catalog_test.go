package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/graphidx/index"
	"github.com/hupe1980/graphidx/schema"
)

// stubProxy is a minimal index.Proxy for catalog tests.
type stubProxy struct {
	descriptor schema.Descriptor
}

func (p *stubProxy) Descriptor() schema.Descriptor { return p.descriptor }
func (p *stubProxy) State() index.State            { return index.StateOnline }
func (p *stubProxy) Refresh(context.Context) error { return nil }

func (p *stubProxy) NewUpdater(index.UpdateMode) (index.Updater, error) {
	return nil, index.ErrIndexFailed
}

func proxyFor(d schema.Descriptor) *stubProxy { return &stubProxy{descriptor: d} }

func TestCatalogRegistration(t *testing.T) {
	t.Run("AddAndLookup", func(t *testing.T) {
		c := New()
		d := schema.New(schema.EntityNode, 1, []uint32{7})
		p := proxyFor(d)

		c.Add(p)

		got, ok := c.Lookup(d)
		require.True(t, ok)
		assert.Same(t, p, got)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("AddReplacesProxyInPlace", func(t *testing.T) {
		c := New()
		d := schema.New(schema.EntityNode, 1, []uint32{7})
		first, second := proxyFor(d), proxyFor(d)

		c.Add(first)
		c.Add(second)

		got, ok := c.Lookup(d)
		require.True(t, ok)
		assert.Same(t, second, got)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("Remove", func(t *testing.T) {
		c := New()
		d := schema.New(schema.EntityNode, 1, []uint32{7})
		c.Add(proxyFor(d))

		c.Remove(d)

		_, ok := c.Lookup(d)
		assert.False(t, ok)
		assert.Equal(t, 0, c.Len())
		assert.Empty(t, c.RelevantTo(schema.EntityNode, []uint32{1}, []uint32{7}))

		// Removing twice is a no-op.
		c.Remove(d)
	})
}

func TestCatalogAll(t *testing.T) {
	c := New()
	descriptors := []schema.Descriptor{
		schema.New(schema.EntityNode, 1, []uint32{7}),
		schema.New(schema.EntityNode, 2, []uint32{7}),
		schema.New(schema.EntityRelationship, 3, []uint32{9}),
	}
	for _, d := range descriptors {
		c.Add(proxyFor(d))
	}

	seen := make(map[schema.Descriptor]bool)
	for p := range c.All() {
		seen[p.Descriptor()] = true
	}

	require.Len(t, seen, 3)
	for _, d := range descriptors {
		assert.True(t, seen[d], "missing %s", d)
	}
}

func TestCatalogRelevantTo(t *testing.T) {
	c := New()
	nameIdx := schema.New(schema.EntityNode, 1, []uint32{7})
	ageIdx := schema.New(schema.EntityNode, 1, []uint32{9})
	cityIdx := schema.New(schema.EntityNode, 2, []uint32{7})
	relIdx := schema.New(schema.EntityRelationship, 1, []uint32{7})
	for _, d := range []schema.Descriptor{nameIdx, ageIdx, cityIdx, relIdx} {
		c.Add(proxyFor(d))
	}

	t.Run("TokenAndPropertyIntersection", func(t *testing.T) {
		got := c.RelevantTo(schema.EntityNode, []uint32{1}, []uint32{7})
		assert.ElementsMatch(t, []schema.Descriptor{nameIdx}, got)
	})

	t.Run("MultipleTokens", func(t *testing.T) {
		got := c.RelevantTo(schema.EntityNode, []uint32{1, 2}, []uint32{7})
		assert.ElementsMatch(t, []schema.Descriptor{nameIdx, cityIdx}, got)
	})

	t.Run("EmptyPropertiesMeansMembershipChange", func(t *testing.T) {
		got := c.RelevantTo(schema.EntityNode, []uint32{1}, nil)
		assert.ElementsMatch(t, []schema.Descriptor{nameIdx, ageIdx}, got)
	})

	t.Run("KindsDoNotMix", func(t *testing.T) {
		got := c.RelevantTo(schema.EntityRelationship, []uint32{1}, []uint32{7})
		assert.ElementsMatch(t, []schema.Descriptor{relIdx}, got)
	})

	t.Run("NoMatch", func(t *testing.T) {
		assert.Empty(t, c.RelevantTo(schema.EntityNode, []uint32{42}, []uint32{7}))
		assert.Empty(t, c.RelevantTo(schema.EntityNode, []uint32{1}, []uint32{42}))
	})

	t.Run("CacheSurvivesRepeatsAndInvalidatesOnMutation", func(t *testing.T) {
		first := c.RelevantTo(schema.EntityNode, []uint32{1}, []uint32{7})
		second := c.RelevantTo(schema.EntityNode, []uint32{1}, []uint32{7})
		assert.Equal(t, first, second)

		extra := schema.NewUnique(schema.EntityNode, 1, []uint32{7})
		c.Add(proxyFor(extra))

		got := c.RelevantTo(schema.EntityNode, []uint32{1}, []uint32{7})
		assert.ElementsMatch(t, []schema.Descriptor{nameIdx, extra}, got)
	})
}
