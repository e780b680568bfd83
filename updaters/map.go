// Package updaters holds the per-transaction cache of open index updaters.
//
// A Map is created at the start of a transaction's apply phase and owns one
// live updater per affected index. It creates updaters lazily through the
// catalog, memoizes them by descriptor, and guarantees every one of them is
// closed exactly once through the aggregated Close, no matter how many
// individual closes fail along the way.
//
// A Map is a transaction-scoped resource with a single owner. It is never
// shared between concurrently running transactions and performs no locking.
package updaters

import (
	"iter"

	"github.com/hupe1980/graphidx/index"
	"github.com/hupe1980/graphidx/schema"
)

// Source is the catalog capability the map consumes: lookup of one proxy by
// descriptor and enumeration of all currently known proxies. *catalog.Catalog
// satisfies it.
type Source interface {
	// Lookup returns the current proxy for the given descriptor.
	Lookup(d schema.Descriptor) (index.Proxy, bool)

	// All enumerates all currently known proxies. Order and behavior under
	// concurrent catalog mutation are unspecified.
	All() iter.Seq[index.Proxy]
}

// Map caches the one live updater per index for one transaction.
type Map struct {
	mode     index.UpdateMode
	source   Source
	updaters map[schema.Descriptor]index.Updater
}

// NewMap returns an empty updater map. All updaters it creates will use the
// given mode for the map's entire lifetime.
func NewMap(source Source, mode index.UpdateMode) *Map {
	return &Map{
		mode:     mode,
		source:   source,
		updaters: make(map[schema.Descriptor]index.Updater),
	}
}

// Mode returns the update mode the map was created with.
func (m *Map) Mode() index.UpdateMode { return m.mode }

// Get returns the updater for the given descriptor, creating and memoizing
// it on first request.
//
// A nil updater with a nil error means no index currently exists for the
// descriptor; callers treat that as "this index does not participate" and
// move on. An error means the proxy refused to produce an updater; creation
// errors are never masked.
func (m *Map) Get(d schema.Descriptor) (index.Updater, error) {
	if updater, ok := m.updaters[d]; ok {
		return updater, nil
	}

	proxy, ok := m.source.Lookup(d)
	if !ok {
		return nil, nil
	}

	updater, err := proxy.NewUpdater(m.mode)
	if err != nil {
		return nil, err
	}
	m.updaters[d] = updater

	return updater, nil
}

func (m *Map) getForProxy(proxy index.Proxy) (index.Updater, error) {
	d := proxy.Descriptor()
	if updater, ok := m.updaters[d]; ok {
		return updater, nil
	}

	updater, err := proxy.NewUpdater(m.mode)
	if err != nil {
		return nil, err
	}
	m.updaters[d] = updater

	return updater, nil
}

// All returns a lazy sequence of updaters covering every index currently
// known to the source, not just the ones already requested via Get. Each
// step resolves the next proxy through the same memoization path as Get, so
// an index touched both ways still shares a single updater instance.
//
// Creation failures are yielded to the consumer as a nil updater with the
// error; enumeration continues with the next proxy. The sequence is
// single-pass and not restartable; a fresh call reuses the map's accumulated
// state rather than starting clean.
func (m *Map) All() iter.Seq2[index.Updater, error] {
	return func(yield func(index.Updater, error) bool) {
		for proxy := range m.source.All() {
			if !yield(m.getForProxy(proxy)) {
				return
			}
		}
	}
}

// Close closes every memoized updater, then empties the map.
//
// Closing continues past individual failures; each failure is tagged with
// the descriptor that produced it and collected. The map is empty when Close
// returns, whether or not it reports failure. A non-nil return is always a
// *CloseError carrying the full failure set.
func (m *Map) Close() error {
	var failures []CloseFailure

	for d, updater := range m.updaters {
		if err := updater.Close(); err != nil {
			failures = append(failures, CloseFailure{Descriptor: d, Err: err})
		}
	}

	m.Clear()

	if len(failures) > 0 {
		return &CloseError{Failures: failures}
	}

	return nil
}

// Clear drops all memoized updaters without closing them. Only safe after a
// Close, or when the caller has independently closed every updater.
func (m *Map) Clear() {
	clear(m.updaters)
}

// Len returns the number of live updaters, not the catalog size.
func (m *Map) Len() int { return len(m.updaters) }

// IsEmpty reports whether the map holds no live updaters.
func (m *Map) IsEmpty() bool { return len(m.updaters) == 0 }
