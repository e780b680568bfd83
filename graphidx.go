package graphidx

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/graphidx/catalog"
	"github.com/hupe1980/graphidx/index"
	"github.com/hupe1980/graphidx/updaters"
)

// The updater map consumes the catalog through its Source capability only.
var _ updaters.Source = (*catalog.Catalog)(nil)

// Service is the facade the transaction machinery talks to. It owns the
// routing from entity changes to affected indexes and drives one updater map
// per apply batch.
type Service struct {
	catalog *catalog.Catalog
	logger  *Logger
	metrics MetricsCollector

	maxConcurrentRefresh int
	refreshLimiter       *rate.Limiter
}

// New returns a Service over the given catalog.
func New(cat *catalog.Catalog, optFns ...Option) *Service {
	o := options{
		logger:               NoopLogger(),
		metrics:              NoopMetricsCollector{},
		maxConcurrentRefresh: 4,
	}
	for _, fn := range optFns {
		fn(&o)
	}

	return &Service{
		catalog:              cat,
		logger:               o.logger,
		metrics:              o.metrics,
		maxConcurrentRefresh: o.maxConcurrentRefresh,
		refreshLimiter:       o.refreshLimiter,
	}
}

// Catalog returns the catalog the service routes against.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Apply routes one transaction's entity changes to every affected index and
// writes them through a fresh updater map.
//
// Whatever happens during the apply phase, every updater the batch opened is
// driven through the aggregated close before Apply returns; an apply-phase
// error and a close error are joined. Commit and rollback both end here,
// there is no separate abort path.
func (s *Service) Apply(ctx context.Context, mode index.UpdateMode, changes []EntityChange) error {
	start := time.Now()

	um := updaters.NewMap(s.catalog, mode)

	var applyErr error
loop:
	for _, change := range changes {
		for _, d := range s.catalog.RelevantTo(change.Kind, change.Tokens, change.Changed) {
			update, ok := projectUpdate(d, change)
			if !ok {
				continue
			}
			updater, err := um.Get(d)
			if err != nil {
				applyErr = err
				break loop
			}
			if updater == nil {
				// Index dropped between routing and lookup; it no longer
				// participates.
				continue
			}
			if err := updater.Process(ctx, update); err != nil {
				applyErr = err
				break loop
			}
		}
	}

	closeErr := um.Close()

	var ce *updaters.CloseError
	if errors.As(closeErr, &ce) {
		for _, f := range ce.Failures {
			s.metrics.RecordCloseFailure(f.Descriptor, f.Err)
		}
	}

	err := errors.Join(applyErr, closeErr)
	s.metrics.RecordApply(mode, len(changes), time.Since(start), err)
	s.logger.LogApply(ctx, mode, len(changes), err)

	return err
}

// RefreshAll refreshes every index currently known to the catalog, making
// closed writes visible to readers. Refreshes run concurrently, bounded by
// the configured limit and paced by the optional rate limiter.
func (s *Service) RefreshAll(ctx context.Context) error {
	start := time.Now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrentRefresh)

	indexes := 0
	for proxy := range s.catalog.All() {
		indexes++
		g.Go(func() error {
			if s.refreshLimiter != nil {
				if err := s.refreshLimiter.Wait(ctx); err != nil {
					return err
				}
			}
			return proxy.Refresh(ctx)
		})
	}

	err := g.Wait()
	s.metrics.RecordRefreshAll(indexes, time.Since(start), err)
	s.logger.LogRefreshAll(ctx, indexes, err)

	return err
}
