package filtering

import (
	"context"

	domfilter "github.com/kailas-cloud/filtering/internal/domain/filter"
	healthuc "github.com/kailas-cloud/filtering/internal/usecase/health"
)

type mockFilterUC struct {
	findOneFn       func(ctx context.Context, identifier, entityType string) (domfilter.Filter, error)
	updateFiltersFn func(ctx context.Context, identifier, entityType string, values map[string]any) error
	refreshFn       func(ctx context.Context, entity any, identifier string) (domfilter.Filter, error)
	mergeFn         func(ctx context.Context, entity any, identifier string) error
}

func (m *mockFilterUC) FindOne(ctx context.Context, identifier, entityType string) (domfilter.Filter, error) {
	return m.findOneFn(ctx, identifier, entityType)
}

func (m *mockFilterUC) UpdateFilters(ctx context.Context, identifier, entityType string, values map[string]any) error {
	return m.updateFiltersFn(ctx, identifier, entityType, values)
}

func (m *mockFilterUC) Refresh(ctx context.Context, entity any, identifier string) (domfilter.Filter, error) {
	return m.refreshFn(ctx, entity, identifier)
}

func (m *mockFilterUC) Merge(ctx context.Context, entity any, identifier string) error {
	return m.mergeFn(ctx, entity, identifier)
}

type mockIndexer struct {
	err   error
	calls int
}

func (m *mockIndexer) EnsureIndex(context.Context) error {
	m.calls++
	return m.err
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }
