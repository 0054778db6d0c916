package filter

import (
	"context"

	domfilter "github.com/kailas-cloud/filtering/internal/domain/filter"
	"github.com/kailas-cloud/filtering/pkg/filterable"
)

// Repository defines the storage contract for filter records.
type Repository interface {
	Get(ctx context.Context, key domfilter.Key) (domfilter.Filter, error)
	Replace(ctx context.Context, f domfilter.Filter) error
	Merge(ctx context.Context, key domfilter.Key, values map[string]any) error
}

// Discoverer flattens the marked fields of an entity.
type Discoverer interface {
	Inspect(entity any) filterable.Report
}
