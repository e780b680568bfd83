package memindex

import (
	"context"
	"fmt"

	"github.com/hupe1980/graphidx/index"
)

// updater buffers change records for one transaction and applies them to the
// index on Close. Deferring the apply keeps uniqueness validation at the
// flush boundary, where the aggregated close protocol expects it.
type updater struct {
	idx     *Index
	mode    index.UpdateMode
	pending []index.EntityUpdate
	closed  bool
}

var _ index.Updater = (*updater)(nil)

func (u *updater) Process(ctx context.Context, update index.EntityUpdate) error {
	if u.closed {
		return index.ErrUpdaterClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if update.Kind != index.UpdateRemoved {
		want := len(u.idx.descriptor.PropertyIDs())
		if len(update.Values) != want {
			return fmt.Errorf("index %s: update for entity %d carries %d values, want %d",
				u.idx.descriptor, update.EntityID, len(update.Values), want)
		}
	}

	u.pending = append(u.pending, update)

	return nil
}

func (u *updater) Close() error {
	if u.closed {
		return index.ErrUpdaterClosed
	}
	u.closed = true

	pending := u.pending
	u.pending = nil

	return u.idx.apply(pending, u.mode)
}
