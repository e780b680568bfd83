// Package catalog tracks the currently known indexes and routes entity
// changes to the indexes they affect.
//
// The catalog is the one shared, mutable structure of the coordination
// layer: index creation, drop and lifecycle transitions all land here, so it
// guards itself with a lock. Transaction-scoped consumers (the updater map)
// treat lookups as atomic point-in-time reads and carry no synchronization of
// their own.
package catalog

import (
	"encoding/binary"
	"iter"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/graphidx/index"
	"github.com/hupe1980/graphidx/schema"
)

const routingCacheSize = 1024

type tokenKey struct {
	kind  schema.EntityKind
	token uint32
}

// Catalog maps index descriptors to their current proxies and answers
// "which indexes does this change affect" queries via per-token and
// per-property bitmaps.
type Catalog struct {
	mu      sync.RWMutex
	proxies map[schema.Descriptor]index.Proxy

	// Dense internal ids drive the routing bitmaps. An id is assigned when
	// a descriptor is first registered and survives proxy replacement.
	ids    map[schema.Descriptor]uint32
	byID   map[uint32]schema.Descriptor
	nextID uint32

	byToken    map[tokenKey]*roaring.Bitmap
	byProperty map[uint32]*roaring.Bitmap

	routing *lru.Cache[uint64, []schema.Descriptor]
}

// New returns an empty catalog.
func New() *Catalog {
	routing, _ := lru.New[uint64, []schema.Descriptor](routingCacheSize)
	return &Catalog{
		proxies:    make(map[schema.Descriptor]index.Proxy),
		ids:        make(map[schema.Descriptor]uint32),
		byID:       make(map[uint32]schema.Descriptor),
		byToken:    make(map[tokenKey]*roaring.Bitmap),
		byProperty: make(map[uint32]*roaring.Bitmap),
		routing:    routing,
	}
}

// Add registers a proxy under its descriptor. Registering a descriptor that
// is already present replaces the proxy in place; this is how an index
// transitions between lifecycle states (populating -> online, -> failed).
func (c *Catalog) Add(proxy index.Proxy) {
	d := proxy.Descriptor()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.ids[d]; !ok {
		id := c.nextID
		c.nextID++
		c.ids[d] = id
		c.byID[id] = d

		tk := tokenKey{kind: d.EntityKind(), token: d.Token()}
		bm, ok := c.byToken[tk]
		if !ok {
			bm = roaring.New()
			c.byToken[tk] = bm
		}
		bm.Add(id)

		for _, pid := range d.PropertyIDs() {
			bm, ok := c.byProperty[pid]
			if !ok {
				bm = roaring.New()
				c.byProperty[pid] = bm
			}
			bm.Add(id)
		}
	}

	c.proxies[d] = proxy
	c.routing.Purge()
}

// Remove deregisters the index with the given descriptor. Removing an
// unknown descriptor is a no-op.
func (c *Catalog) Remove(d schema.Descriptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, ok := c.ids[d]
	if !ok {
		return
	}

	delete(c.proxies, d)
	delete(c.ids, d)
	delete(c.byID, id)

	tk := tokenKey{kind: d.EntityKind(), token: d.Token()}
	if bm, ok := c.byToken[tk]; ok {
		bm.Remove(id)
		if bm.IsEmpty() {
			delete(c.byToken, tk)
		}
	}
	for _, pid := range d.PropertyIDs() {
		if bm, ok := c.byProperty[pid]; ok {
			bm.Remove(id)
			if bm.IsEmpty() {
				delete(c.byProperty, pid)
			}
		}
	}

	c.routing.Purge()
}

// Lookup returns the current proxy for the given descriptor.
func (c *Catalog) Lookup(d schema.Descriptor) (index.Proxy, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	proxy, ok := c.proxies[d]
	return proxy, ok
}

// Len returns the number of registered indexes.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.proxies)
}

// All returns a sequence over the currently registered proxies.
//
// The sequence iterates a snapshot of the registration set taken when
// iteration starts; indexes added or removed afterwards are not reflected.
// Order is unspecified.
func (c *Catalog) All() iter.Seq[index.Proxy] {
	return func(yield func(index.Proxy) bool) {
		c.mu.RLock()
		snapshot := make([]index.Proxy, 0, len(c.proxies))
		for _, proxy := range c.proxies {
			snapshot = append(snapshot, proxy)
		}
		c.mu.RUnlock()

		for _, proxy := range snapshot {
			if !yield(proxy) {
				return
			}
		}
	}
}

// RelevantTo returns the descriptors of all indexes affected by a change to
// an entity of the given kind carrying the given tokens, where the supplied
// property ids changed. An empty propertyIDs slice means "any property"
// (e.g. entity creation or deletion) and matches every index on the tokens.
func (c *Catalog) RelevantTo(kind schema.EntityKind, tokens, propertyIDs []uint32) []schema.Descriptor {
	key := routingKey(kind, tokens, propertyIDs)
	if cached, ok := c.routing.Get(key); ok {
		return cached
	}

	c.mu.RLock()
	matched := roaring.New()
	for _, token := range tokens {
		if bm, ok := c.byToken[tokenKey{kind: kind, token: token}]; ok {
			matched.Or(bm)
		}
	}
	if len(propertyIDs) > 0 {
		byProps := roaring.New()
		for _, pid := range propertyIDs {
			if bm, ok := c.byProperty[pid]; ok {
				byProps.Or(bm)
			}
		}
		matched.And(byProps)
	}

	var descriptors []schema.Descriptor
	matched.Iterate(func(id uint32) bool {
		if d, ok := c.byID[id]; ok {
			descriptors = append(descriptors, d)
		}
		return true
	})
	c.mu.RUnlock()

	c.routing.Add(key, descriptors)

	return descriptors
}

func routingKey(kind schema.EntityKind, tokens, propertyIDs []uint32) uint64 {
	h := xxhash.New()
	var buf [4]byte

	_, _ = h.Write([]byte{byte(kind)})
	for _, t := range tokens {
		binary.BigEndian.PutUint32(buf[:], t)
		_, _ = h.Write(buf[:])
	}
	_, _ = h.Write([]byte{0xff})
	for _, p := range propertyIDs {
		binary.BigEndian.PutUint32(buf[:], p)
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}
