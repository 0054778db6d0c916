package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kailas-cloud/filtering/internal/domain"
	domfilter "github.com/kailas-cloud/filtering/internal/domain/filter"
)

// Reserved hash fields carrying the record key in the hash layout.
const (
	hashFieldIdentifier = "__identifier"
	hashFieldType       = "__type"
)

// jsonDoc is the stored shape of a record in the JSON layout.
type jsonDoc struct {
	Identifier string                     `json:"identifier"`
	Type       string                     `json:"type"`
	Filters    map[string]json.RawMessage `json:"filters"`
}

// encodeValues JSON-encodes every value under its escaped field name.
func encodeValues(esc fieldEscaper, values map[string]any) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode filter %q: %w", k, err)
		}
		out[esc.escape(k)] = raw
	}
	return out, nil
}

// decodeValue decodes one stored value. Numbers come back as json.Number.
func decodeValue(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeValues(esc fieldEscaper, stored map[string]json.RawMessage) (map[string]any, error) {
	out := make(map[string]any, len(stored))
	for k, raw := range stored {
		v, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("decode filter %q: %w: %w", k, domain.ErrCorruptRecord, err)
		}
		out[esc.unescape(k)] = v
	}
	return out, nil
}

// buildJSONDoc converts a Filter into its stored JSON document.
func buildJSONDoc(esc fieldEscaper, f *domfilter.Filter) ([]byte, error) {
	filters, err := encodeValues(esc, f.Values())
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonDoc{
		Identifier: f.Key().Identifier,
		Type:       f.Key().Type,
		Filters:    filters,
	})
}

// parseJSONGetResult parses a JSON.GET ... $ reply, which wraps the
// document in a one-element array.
func parseJSONGetResult(esc fieldEscaper, key domfilter.Key, raw []byte) (domfilter.Filter, error) {
	var docs []jsonDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domfilter.Filter{}, fmt.Errorf("unmarshal %s: %w: %w", key, domain.ErrCorruptRecord, err)
	}
	if len(docs) == 0 {
		return domfilter.Filter{}, domain.ErrNotFound
	}
	values, err := decodeValues(esc, docs[0].Filters)
	if err != nil {
		return domfilter.Filter{}, err
	}
	return domfilter.Reconstruct(key, values), nil
}

// buildHashFields converts values into hash fields. withKey adds the
// reserved identity fields.
func buildHashFields(esc fieldEscaper, key domfilter.Key, values map[string]any, withKey bool) (map[string]string, error) {
	encoded, err := encodeValues(esc, values)
	if err != nil {
		return nil, err
	}
	m := make(map[string]string, len(encoded)+2)
	for k, raw := range encoded {
		if isReservedField(k) {
			return nil, fmt.Errorf("filter key %q is reserved: %w", k, domain.ErrInvalidKey)
		}
		m[k] = string(raw)
	}
	if withKey {
		m[hashFieldIdentifier] = key.Identifier
		m[hashFieldType] = key.Type
	}
	return m, nil
}

// parseHashFields converts an HGETALL reply back into a Filter.
func parseHashFields(esc fieldEscaper, key domfilter.Key, m map[string]string) (domfilter.Filter, error) {
	values := make(map[string]any, len(m))
	for k, s := range m {
		if isReservedField(k) {
			continue
		}
		v, err := decodeValue([]byte(s))
		if err != nil {
			return domfilter.Filter{}, fmt.Errorf("decode filter %q: %w: %w", k, domain.ErrCorruptRecord, err)
		}
		values[esc.unescape(k)] = v
	}
	return domfilter.Reconstruct(key, values), nil
}

func isReservedField(name string) bool {
	return strings.HasPrefix(name, "__")
}
