package filter

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/filtering/internal/db"
	"github.com/kailas-cloud/filtering/internal/domain"
	domfilter "github.com/kailas-cloud/filtering/internal/domain/filter"
)

// store is the consumer interface for filter records (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HReplace(ctx context.Context, key string, fields map[string]string) error
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// Layout selects how a record is stored.
type Layout string

const (
	// LayoutJSON stores one RedisJSON document per record.
	LayoutJSON Layout = "json"
	// LayoutHash stores one hash per record, one field per filter key.
	LayoutHash Layout = "hash"
)

// Options configures a Repo. Zero values fall back to defaults.
type Options struct {
	KeyPrefix      string
	Layout         Layout
	DotReplacement string
}

// Repo implements usecase/filter.Repository.
type Repo struct {
	store  store
	keys   keyspace
	esc    fieldEscaper
	layout Layout
}

// New creates a filter repository.
func New(s store, opts Options) *Repo {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if opts.Layout == "" {
		opts.Layout = LayoutJSON
	}
	if opts.DotReplacement == "" {
		opts.DotReplacement = DefaultDotReplacement
	}
	return &Repo{
		store:  s,
		keys:   keyspace{prefix: opts.KeyPrefix},
		esc:    fieldEscaper{replacement: opts.DotReplacement},
		layout: opts.Layout,
	}
}

// Get returns the stored record for key or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, key domfilter.Key) (domfilter.Filter, error) {
	k := r.keys.recordKey(key)

	if r.layout == LayoutHash {
		m, err := r.store.HGetAll(ctx, k)
		if err != nil {
			if errors.Is(err, db.ErrKeyNotFound) {
				return domfilter.Filter{}, domain.ErrNotFound
			}
			return domfilter.Filter{}, fmt.Errorf("hgetall %s: %w", k, err)
		}
		return parseHashFields(r.esc, key, m)
	}

	raw, err := r.store.JSONGet(ctx, k, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domfilter.Filter{}, domain.ErrNotFound
		}
		return domfilter.Filter{}, fmt.Errorf("json.get %s: %w", k, err)
	}
	return parseJSONGetResult(r.esc, key, raw)
}

// Replace overwrites the whole record with f.
func (r *Repo) Replace(ctx context.Context, f domfilter.Filter) error {
	k := r.keys.recordKey(f.Key())

	if r.layout == LayoutHash {
		fields, err := buildHashFields(r.esc, f.Key(), f.Values(), true)
		if err != nil {
			return err
		}
		if err := r.store.HReplace(ctx, k, fields); err != nil {
			return fmt.Errorf("hreplace %s: %w", k, err)
		}
		return nil
	}

	return r.setJSON(ctx, k, &f)
}

// Merge adds values to the record under key, creating it when missing.
// Keys not present in values keep their stored value.
func (r *Repo) Merge(ctx context.Context, key domfilter.Key, values map[string]any) error {
	k := r.keys.recordKey(key)

	if r.layout == LayoutHash {
		fields, err := buildHashFields(r.esc, key, values, true)
		if err != nil {
			return err
		}
		if err := r.store.HSet(ctx, k, fields); err != nil {
			return fmt.Errorf("hset %s: %w", k, err)
		}
		return nil
	}

	current, err := r.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		current = domfilter.New(key)
	}
	current.Merge(values)
	return r.setJSON(ctx, k, &current)
}

// EnsureIndex creates the FT index over filter records. An existing index
// is not an error.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def, err := buildIndex(r.keys, r.layout)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return nil
}

func (r *Repo) setJSON(ctx context.Context, k string, f *domfilter.Filter) error {
	data, err := buildJSONDoc(r.esc, f)
	if err != nil {
		return err
	}
	if err := r.store.JSONSet(ctx, k, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", k, err)
	}
	return nil
}
