package filter

import (
	"fmt"

	"github.com/kailas-cloud/filtering/internal/domain"
)

// Key is the composite identity of a filter record: a free-form entity
// identifier plus the entity-type discriminator.
type Key struct {
	Identifier string
	Type       string
}

// NewKey validates and creates a Key.
func NewKey(identifier, entityType string) (Key, error) {
	if identifier == "" {
		return Key{}, fmt.Errorf("identifier is required: %w", domain.ErrInvalidKey)
	}
	if entityType == "" {
		return Key{}, fmt.Errorf("entity type is required: %w", domain.ErrInvalidKey)
	}
	return Key{Identifier: identifier, Type: entityType}, nil
}

// String returns "<type>/<identifier>" for logs.
func (k Key) String() string { return k.Type + "/" + k.Identifier }

// Filter is the filter record aggregate: a Key and its flattened values.
type Filter struct {
	key    Key
	values map[string]any
}

// New creates an empty Filter for key.
func New(key Key) Filter {
	return Filter{key: key, values: make(map[string]any)}
}

// Reconstruct creates a Filter without validation (storage hydration).
func Reconstruct(key Key, values map[string]any) Filter {
	if values == nil {
		values = make(map[string]any)
	}
	return Filter{key: key, values: values}
}

// Key returns the composite key.
func (f *Filter) Key() Key { return f.key }

// Values returns a copy of the flattened values.
func (f *Filter) Values() map[string]any { return cloneValues(f.values) }

// Len returns the number of stored values.
func (f *Filter) Len() int { return len(f.values) }

// Get returns the value stored under key path k.
func (f *Filter) Get(k string) (any, bool) {
	v, ok := f.values[k]
	return v, ok
}

// Merge adds values to the record: new keys are added, existing keys
// overwritten, keys missing from values are left untouched.
func (f *Filter) Merge(values map[string]any) {
	if f.values == nil {
		f.values = make(map[string]any, len(values))
	}
	for k, v := range values {
		f.values[k] = v
	}
}

// Replace swaps the whole value map for values.
func (f *Filter) Replace(values map[string]any) {
	f.values = cloneValues(values)
}

func cloneValues(m map[string]any) map[string]any {
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
