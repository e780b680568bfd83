// Package graphidx is the index-update coordination layer of a transactional
// graph database.
//
// It routes a transaction's entity changes to every secondary index they
// affect, obtains exactly one writer per index for the transaction's
// lifetime, and guarantees that every writer is released even when some fail
// to close, without dropping any failure.
//
// # Architecture
//
// Three layers collaborate, leaves first:
//
//   - catalog.Catalog: the shared registry of currently known indexes. Maps
//     a schema.Descriptor to the index's current proxy and answers routing
//     queries ("which indexes does this change affect") via roaring bitmaps.
//   - updaters.Map: a transaction-scoped, single-owner cache of open index
//     updaters. Creates them lazily through the catalog, memoizes them by
//     descriptor, and closes all of them exactly once through the aggregated
//     close protocol.
//   - Service: the facade the transaction machinery talks to. Projects
//     entity changes into per-index change records, drives the updater map,
//     and refreshes indexes after apply.
//
// Index implementations plug in through the capability interfaces in the
// index package; the memindex package ships an in-memory backend.
//
// # Quick Start
//
//	cat := catalog.New()
//	cat.Add(memindex.New(schema.New(schema.EntityNode, personLabel, []uint32{nameProp})))
//
//	svc := graphidx.New(cat)
//	err := svc.Apply(ctx, index.ModeOnline, []graphidx.EntityChange{{
//	    EntityID: 1,
//	    Kind:     schema.EntityNode,
//	    Tokens:   []uint32{personLabel},
//	    Changed:  []uint32{nameProp},
//	    After:    map[uint32]index.Value{nameProp: index.StringValue("bob")},
//	}})
//
// A failed commit surfaces one composite *updaters.CloseError enumerating
// every index that failed to close; errors.As reaches the per-index causes.
package graphidx
