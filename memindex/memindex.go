// Package memindex provides an in-memory value index.
//
// It is the reference backend for the coordination layer's capability
// interfaces: an Index acts as its own catalog proxy and hands out
// transaction-scoped updaters that buffer change records and apply them on
// Close. Unique indexes run their uniqueness validation during that final
// apply, which is why entry conflicts surface from Close rather than from
// Process.
//
// Postings are keyed by the xxhash of the canonical value-tuple encoding and
// verified against the stored encoding on lookup, so hash collisions cannot
// produce false matches.
package memindex

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/graphidx/index"
	"github.com/hupe1980/graphidx/schema"
)

// Index is an in-memory secondary index over one value tuple per entity.
// It implements index.Proxy.
type Index struct {
	descriptor schema.Descriptor

	mu       sync.RWMutex
	state    index.State
	failure  error
	dropped  bool
	entries  map[int64]string
	postings map[uint64]*roaring64.Bitmap
}

var _ index.Proxy = (*Index)(nil)

// New returns an empty online index for the given descriptor.
func New(d schema.Descriptor) *Index {
	return &Index{
		descriptor: d,
		state:      index.StateOnline,
		entries:    make(map[int64]string),
		postings:   make(map[uint64]*roaring64.Bitmap),
	}
}

// Descriptor returns the index identity.
func (ix *Index) Descriptor() schema.Descriptor { return ix.descriptor }

// State returns the index's current lifecycle state.
func (ix *Index) State() index.State {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return ix.state
}

// MarkOnline transitions the index to the online state.
func (ix *Index) MarkOnline() {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.state = index.StateOnline
	ix.failure = nil
}

// MarkFailed transitions the index to the failed state. Subsequent
// NewUpdater calls are refused with index.ErrIndexFailed.
func (ix *Index) MarkFailed(cause error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.state = index.StateFailed
	ix.failure = cause
}

// Drop discards the index contents and refuses all further updaters.
func (ix *Index) Drop() {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.dropped = true
	ix.entries = nil
	ix.postings = nil
}

// NewUpdater produces a transaction-scoped writer. It refuses when the index
// has been dropped or is in the failed state.
func (ix *Index) NewUpdater(mode index.UpdateMode) (index.Updater, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.dropped {
		return nil, fmt.Errorf("index %s: %w", ix.descriptor, index.ErrIndexDropped)
	}
	if ix.state == index.StateFailed {
		return nil, fmt.Errorf("index %s: %w: %v", ix.descriptor, index.ErrIndexFailed, ix.failure)
	}

	return &updater{idx: ix, mode: mode}, nil
}

// Refresh makes closed writes visible to readers. Writes are immediately
// visible in memory, so this only honors context cancellation.
func (ix *Index) Refresh(ctx context.Context) error {
	return ctx.Err()
}

// Len returns the number of indexed entities.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	return len(ix.entries)
}

// Seek returns the ids of all entities indexed under the given value tuple,
// in ascending order.
func (ix *Index) Seek(values []index.Value) iter.Seq[int64] {
	encoded := string(index.EncodeValues(values))

	return func(yield func(int64) bool) {
		ix.mu.RLock()
		var candidates []int64
		if bm, ok := ix.postings[xxhash.Sum64String(encoded)]; ok {
			it := bm.Iterator()
			for it.HasNext() {
				id := int64(it.Next())
				if ix.entries[id] == encoded {
					candidates = append(candidates, id)
				}
			}
		}
		ix.mu.RUnlock()

		for _, id := range candidates {
			if !yield(id) {
				return
			}
		}
	}
}

func (ix *Index) apply(pending []index.EntityUpdate, mode index.UpdateMode) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.dropped {
		return fmt.Errorf("index %s: %w", ix.descriptor, index.ErrIndexDropped)
	}

	for _, u := range pending {
		switch u.Kind {
		case index.UpdateRemoved:
			ix.removeLocked(u.EntityID)
		case index.UpdateAdded, index.UpdateChanged:
			encoded := string(index.EncodeValues(u.Values))
			if prev, ok := ix.entries[u.EntityID]; ok {
				if prev == encoded {
					// Same tuple again; recovery replay lands here.
					continue
				}
				ix.removeLocked(u.EntityID)
			}
			if ix.descriptor.IsUnique() {
				if existing, ok := ix.lookupLocked(encoded, u.EntityID); ok {
					return &index.EntryConflictError{
						Descriptor:       ix.descriptor,
						Values:           u.Values,
						ExistingEntityID: existing,
						NewEntityID:      u.EntityID,
					}
				}
			}
			ix.entries[u.EntityID] = encoded
			key := xxhash.Sum64String(encoded)
			bm, ok := ix.postings[key]
			if !ok {
				bm = roaring64.New()
				ix.postings[key] = bm
			}
			bm.Add(uint64(u.EntityID))
		}
	}

	return nil
}

// lookupLocked finds an entity other than self indexed under encoded.
func (ix *Index) lookupLocked(encoded string, self int64) (int64, bool) {
	bm, ok := ix.postings[xxhash.Sum64String(encoded)]
	if !ok {
		return 0, false
	}
	it := bm.Iterator()
	for it.HasNext() {
		id := int64(it.Next())
		if id != self && ix.entries[id] == encoded {
			return id, true
		}
	}
	return 0, false
}

func (ix *Index) removeLocked(entityID int64) {
	encoded, ok := ix.entries[entityID]
	if !ok {
		return
	}
	delete(ix.entries, entityID)

	key := xxhash.Sum64String(encoded)
	if bm, ok := ix.postings[key]; ok {
		bm.Remove(uint64(entityID))
		if bm.IsEmpty() {
			delete(ix.postings, key)
		}
	}
}
