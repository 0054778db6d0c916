package filter

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/filtering/internal/domain"
	domfilter "github.com/kailas-cloud/filtering/internal/domain/filter"
	"github.com/kailas-cloud/filtering/internal/logger"
	"github.com/kailas-cloud/filtering/internal/metrics"
	"github.com/kailas-cloud/filtering/pkg/filterable"
)

// Service reads and writes filter records.
type Service struct {
	repo       Repository
	discoverer Discoverer
}

// New creates a filtering service.
func New(repo Repository, discoverer Discoverer) *Service {
	return &Service{repo: repo, discoverer: discoverer}
}

// FindOne returns the stored record, or an empty one when nothing is stored.
func (s *Service) FindOne(ctx context.Context, identifier, entityType string) (domfilter.Filter, error) {
	key, err := domfilter.NewKey(identifier, entityType)
	if err != nil {
		return domfilter.Filter{}, err
	}

	f, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domfilter.New(key), nil
		}
		return domfilter.Filter{}, fmt.Errorf("find filter %s: %w", key, err)
	}
	return f, nil
}

// UpdateFilters merges values into the record: new keys are added,
// existing keys overwritten, all others kept.
func (s *Service) UpdateFilters(ctx context.Context, identifier, entityType string, values map[string]any) error {
	key, err := domfilter.NewKey(identifier, entityType)
	if err != nil {
		return err
	}
	if err := s.repo.Merge(ctx, key, values); err != nil {
		return fmt.Errorf("update filters %s: %w", key, err)
	}
	return nil
}

// Refresh rediscovers entity and replaces the stored map with the result.
// Keys that disappeared from the entity disappear from the record.
func (s *Service) Refresh(ctx context.Context, entity any, identifier string) (domfilter.Filter, error) {
	key, values, err := s.discover(ctx, entity, identifier)
	if err != nil {
		return domfilter.Filter{}, err
	}

	f := domfilter.Reconstruct(key, values)
	if err := s.repo.Replace(ctx, f); err != nil {
		return domfilter.Filter{}, fmt.Errorf("refresh filters %s: %w", key, err)
	}
	return f, nil
}

// Merge rediscovers entity and merges the result into the stored map.
func (s *Service) Merge(ctx context.Context, entity any, identifier string) error {
	key, values, err := s.discover(ctx, entity, identifier)
	if err != nil {
		return err
	}
	if err := s.repo.Merge(ctx, key, values); err != nil {
		return fmt.Errorf("merge filters %s: %w", key, err)
	}
	return nil
}

func (s *Service) discover(ctx context.Context, entity any, identifier string) (domfilter.Key, map[string]any, error) {
	if entity == nil {
		return domfilter.Key{}, nil, fmt.Errorf("entity is required: %w", domain.ErrInvalidKey)
	}
	key, err := domfilter.NewKey(identifier, filterable.TypeName(entity))
	if err != nil {
		return domfilter.Key{}, nil, err
	}

	report := s.discoverer.Inspect(entity)

	metrics.DiscoveredFieldsTotal.Add(float64(len(report.Values)))
	for _, skip := range report.Skips {
		metrics.DiscoverySkipsTotal.WithLabelValues(skip.Reason.String()).Inc()
	}

	logger.FromContext(ctx).Debug("Entity discovered",
		zap.Stringer("filter", key),
		zap.Int("values", len(report.Values)),
		zap.Int("skipped", len(report.Skips)),
	)
	return key, report.Values, nil
}
