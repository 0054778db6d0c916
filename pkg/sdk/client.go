package filtering

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/filtering/internal/db"
	dbRedis "github.com/kailas-cloud/filtering/internal/db/redis"
	domfilter "github.com/kailas-cloud/filtering/internal/domain/filter"
	filterrepo "github.com/kailas-cloud/filtering/internal/repository/filter"
	filteruc "github.com/kailas-cloud/filtering/internal/usecase/filter"
	healthuc "github.com/kailas-cloud/filtering/internal/usecase/health"
	"github.com/kailas-cloud/filtering/pkg/filterable"
)

const defaultReadinessTimeout = 10 * time.Second

// Filter is a stored filter record.
type Filter struct {
	Identifier string
	Type       string
	Values     map[string]any
}

// Internal interfaces for substitution in tests.
type filterUseCase interface {
	FindOne(ctx context.Context, identifier, entityType string) (domfilter.Filter, error)
	UpdateFilters(ctx context.Context, identifier, entityType string, values map[string]any) error
	Refresh(ctx context.Context, entity any, identifier string) (domfilter.Filter, error)
	Merge(ctx context.Context, entity any, identifier string) error
}

type indexer interface {
	EnsureIndex(ctx context.Context) error
}

// Client is the filtering SDK entry point.
type Client struct {
	store     db.Store
	filterSvc filterUseCase
	index     indexer
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("filtering: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c := wireClient(store, cfg, obs)
	if cfg.ensureIndex {
		if err := c.EnsureIndex(ctx); err != nil {
			store.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *clientConfig) validate() error {
	if len(c.addrs) == 0 {
		return errors.New("filtering: database address required (use WithValkey or WithRedis)")
	}
	switch c.layout {
	case "", LayoutJSON, LayoutHash:
	default:
		return fmt.Errorf("filtering: unknown layout %q", c.layout)
	}
	if c.dotReplacement != "" {
		if err := filterrepo.ValidateDotReplacement(c.dotReplacement); err != nil {
			return fmt.Errorf("filtering: %w", err)
		}
	}
	return nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
			DB:       cfg.db,
		})
		if err != nil {
			return nil, fmt.Errorf("filtering: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("filtering: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) *Client {
	repo := filterrepo.New(store, filterrepo.Options{
		KeyPrefix:      cfg.keyPrefix,
		Layout:         filterrepo.Layout(cfg.layout),
		DotReplacement: cfg.dotReplacement,
	})
	discoverer := filterable.New(filterable.WithLogger(obs.logger))

	return &Client{
		store:     store,
		filterSvc: filteruc.New(filteruc.NewInstrumentedRepository(repo, obs.logger), discoverer),
		index:     repo,
		healthSvc: healthuc.New(store),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// EnsureIndex creates the FT index over filter records if it is missing.
func (c *Client) EnsureIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ensure_index", start, err) }()

	if err = c.index.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// FindOne returns the record for (identifier, entityType). A missing record
// comes back empty, not as an error.
func (c *Client) FindOne(ctx context.Context, identifier, entityType string) (_ Filter, err error) {
	start := time.Now()
	defer func() { c.obs.observe("find_one", start, err) }()

	f, err := c.filterSvc.FindOne(ctx, identifier, entityType)
	if err != nil {
		return Filter{}, err
	}
	return filterFromDomain(&f), nil
}

// UpdateFilters merges values into the record, creating it when missing.
func (c *Client) UpdateFilters(ctx context.Context, identifier, entityType string, values map[string]any) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("update_filters", start, err) }()

	return c.filterSvc.UpdateFilters(ctx, identifier, entityType, values)
}

// Refresh discovers entity's filters and replaces the stored record.
// The record type is filterable.TypeName(entity).
func (c *Client) Refresh(ctx context.Context, entity any, identifier string) (_ Filter, err error) {
	start := time.Now()
	defer func() { c.obs.observe("refresh", start, err) }()

	f, err := c.filterSvc.Refresh(ctx, entity, identifier)
	if err != nil {
		return Filter{}, err
	}
	return filterFromDomain(&f), nil
}

// Merge discovers entity's filters and merges them into the stored record.
func (c *Client) Merge(ctx context.Context, entity any, identifier string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("merge", start, err) }()

	return c.filterSvc.Merge(ctx, entity, identifier)
}

func filterFromDomain(f *domfilter.Filter) Filter {
	return Filter{
		Identifier: f.Key().Identifier,
		Type:       f.Key().Type,
		Values:     f.Values(),
	}
}
