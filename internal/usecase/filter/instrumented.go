package filter

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/filtering/internal/domain"
	domfilter "github.com/kailas-cloud/filtering/internal/domain/filter"
	"github.com/kailas-cloud/filtering/internal/metrics"
)

// InstrumentedRepository wraps a Repository with store metrics and logging.
type InstrumentedRepository struct {
	inner  Repository
	logger *zap.Logger
}

// NewInstrumentedRepository wraps repo with observability.
func NewInstrumentedRepository(repo Repository, logger *zap.Logger) *InstrumentedRepository {
	return &InstrumentedRepository{inner: repo, logger: logger}
}

// Get delegates to the inner repository. A missing record is not logged as a failure.
func (r *InstrumentedRepository) Get(ctx context.Context, key domfilter.Key) (domfilter.Filter, error) {
	start := time.Now()
	f, err := r.inner.Get(ctx, key)
	r.observe("get", key, start, err)
	return f, err
}

// Replace delegates to the inner repository.
func (r *InstrumentedRepository) Replace(ctx context.Context, f domfilter.Filter) error {
	start := time.Now()
	err := r.inner.Replace(ctx, f)
	r.observe("replace", f.Key(), start, err)
	return err
}

// Merge delegates to the inner repository.
func (r *InstrumentedRepository) Merge(ctx context.Context, key domfilter.Key, values map[string]any) error {
	start := time.Now()
	err := r.inner.Merge(ctx, key, values)
	r.observe("merge", key, start, err)
	return err
}

func (r *InstrumentedRepository) observe(op string, key domfilter.Key, start time.Time, err error) {
	duration := time.Since(start)

	status := metrics.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		status = metrics.StatusNotFound
	default:
		status = metrics.StatusError
		r.logger.Error("Filter store operation failed",
			zap.String("op", op),
			zap.Stringer("filter", key),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
	}
	metrics.ObserveStoreOperation(op, status, duration.Seconds())
}
