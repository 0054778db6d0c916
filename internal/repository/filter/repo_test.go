package filter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kailas-cloud/filtering/internal/db"
	"github.com/kailas-cloud/filtering/internal/domain"
	domfilter "github.com/kailas-cloud/filtering/internal/domain/filter"
)

func testKey(t *testing.T) domfilter.Key {
	t.Helper()
	key, err := domfilter.NewKey(uuid.NewString(), "catalog.item")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	return key
}

func TestKeyspace(t *testing.T) {
	ks := keyspace{prefix: "app:"}
	key := domfilter.Key{Identifier: "42", Type: "shop.Product"}

	if got := ks.recordKey(key); got != "app:filters:shop.Product:42" {
		t.Errorf("recordKey = %q", got)
	}
	if got := ks.indexName(); got != "app:filters:idx" {
		t.Errorf("indexName = %q", got)
	}
	if got := ks.recordPrefix(); got != "app:filters:" {
		t.Errorf("recordPrefix = %q", got)
	}
}

func TestFieldEscaper(t *testing.T) {
	esc := fieldEscaper{replacement: DefaultDotReplacement}
	tests := []struct {
		in, stored string
	}{
		{"name", "name"},
		{"deepObject.id", "deepObject．id"},
		{"a.b.c", "a．b．c"},
	}
	for _, tc := range tests {
		if got := esc.escape(tc.in); got != tc.stored {
			t.Errorf("escape(%q) = %q, want %q", tc.in, got, tc.stored)
		}
		if got := esc.unescape(tc.stored); got != tc.in {
			t.Errorf("unescape(%q) = %q, want %q", tc.stored, got, tc.in)
		}
	}
}

func TestValidateDotReplacement(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{DefaultDotReplacement, false},
		{"~", false},
		{"::", false},
		{"", true},
		{".", true},
		{"_", true},
		{"x", true},
		{"7", true},
		{"~_~", true},
	}
	for _, tc := range tests {
		err := ValidateDotReplacement(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ValidateDotReplacement(%q) err = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
	}
}

func TestFieldEscaper_RoundTripsUnderscoreKeys(t *testing.T) {
	for _, replacement := range []string{DefaultDotReplacement, "~"} {
		esc := fieldEscaper{replacement: replacement}
		for _, key := range []string{"my_field.id", "deep_object.inner_id", "__x"} {
			if got := esc.unescape(esc.escape(key)); got != key {
				t.Errorf("replacement %q: round trip of %q = %q", replacement, key, got)
			}
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	r := New(&mockStore{}, Options{})
	if r.layout != LayoutJSON {
		t.Errorf("layout = %q, want %q", r.layout, LayoutJSON)
	}
	if r.keys.prefix != DefaultKeyPrefix {
		t.Errorf("prefix = %q", r.keys.prefix)
	}
	if r.esc.replacement != DefaultDotReplacement {
		t.Errorf("replacement = %q", r.esc.replacement)
	}
}

// --- JSON layout ---

func TestJSON_Replace(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutJSON)
	key := domfilter.Key{Identifier: "1", Type: "t"}

	var gotKey, gotPath string
	var gotDoc map[string]any
	ms.jsonSetFn = func(_ context.Context, key, path string, data []byte) error {
		gotKey, gotPath = key, path
		return json.Unmarshal(data, &gotDoc)
	}

	f := domfilter.Reconstruct(key, map[string]any{"deep.id": 7, "name": "x"})
	if err := repo.Replace(context.Background(), f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotKey != "filtering:filters:t:1" || gotPath != "$" {
		t.Errorf("JSON.SET %s %s", gotKey, gotPath)
	}
	if gotDoc["identifier"] != "1" || gotDoc["type"] != "t" {
		t.Errorf("identity fields: %v", gotDoc)
	}
	filters := gotDoc["filters"].(map[string]any)
	if _, ok := filters["deep．id"]; !ok {
		t.Errorf("expected escaped key, got %v", filters)
	}
	if _, ok := filters["deep.id"]; ok {
		t.Errorf("raw separator must not be stored: %v", filters)
	}
}

func TestJSON_Get(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutJSON)
	key := domfilter.Key{Identifier: "1", Type: "t"}

	ms.jsonGetFn = func(_ context.Context, k string, paths ...string) ([]byte, error) {
		if k != "filtering:filters:t:1" || len(paths) != 1 || paths[0] != "$" {
			t.Errorf("JSON.GET %s %v", k, paths)
		}
		return []byte(`[{"identifier":"1","type":"t","filters":{"deep．id":7,"name":"x","tags":["a"]}}]`), nil
	}

	f, err := repo.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Key() != key {
		t.Errorf("key = %v", f.Key())
	}
	if v, _ := f.Get("deep.id"); v != json.Number("7") {
		t.Errorf("deep.id = %#v", v)
	}
	if v, _ := f.Get("name"); v != "x" {
		t.Errorf("name = %#v", v)
	}
	if f.Len() != 3 {
		t.Errorf("len = %d", f.Len())
	}
}

func TestJSON_GetNotFound(t *testing.T) {
	repo, _ := newTestRepo(t, LayoutJSON)
	_, err := repo.Get(context.Background(), testKey(t))
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJSON_GetCorrupt(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutJSON)
	ms.jsonGetFn = func(context.Context, string, ...string) ([]byte, error) {
		return []byte(`{not json`), nil
	}
	_, err := repo.Get(context.Background(), testKey(t))
	if !errors.Is(err, domain.ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestJSON_GetStoreError(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutJSON)
	storeErr := &db.Error{Op: db.OpJSONGet, Err: errors.New("boom")}
	ms.jsonGetFn = func(context.Context, string, ...string) ([]byte, error) {
		return nil, storeErr
	}
	_, err := repo.Get(context.Background(), testKey(t))
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestJSON_MergeExisting(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutJSON)
	key := domfilter.Key{Identifier: "1", Type: "t"}

	ms.jsonGetFn = func(context.Context, string, ...string) ([]byte, error) {
		return []byte(`[{"identifier":"1","type":"t","filters":{"a":1,"b":2}}]`), nil
	}
	var saved jsonDoc
	ms.jsonSetFn = func(_ context.Context, _, _ string, data []byte) error {
		return json.Unmarshal(data, &saved)
	}

	if err := repo.Merge(context.Background(), key, map[string]any{"b": 20, "c": 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{"a": "1", "b": "20", "c": "3"}
	if len(saved.Filters) != len(want) {
		t.Fatalf("filters = %v", saved.Filters)
	}
	for k, v := range want {
		if string(saved.Filters[k]) != v {
			t.Errorf("%s = %s, want %s", k, saved.Filters[k], v)
		}
	}
}

func TestJSON_MergeCreates(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutJSON)
	key := testKey(t)

	var saved jsonDoc
	ms.jsonSetFn = func(_ context.Context, _, _ string, data []byte) error {
		return json.Unmarshal(data, &saved)
	}

	if err := repo.Merge(context.Background(), key, map[string]any{"x": true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Identifier != key.Identifier || string(saved.Filters["x"]) != "true" {
		t.Errorf("saved = %+v", saved)
	}
}

func TestJSON_ReplaceUnencodable(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutJSON)
	ms.jsonSetFn = func(context.Context, string, string, []byte) error {
		t.Fatal("JSON.SET must not be called")
		return nil
	}
	f := domfilter.Reconstruct(testKey(t), map[string]any{"ch": make(chan int)})
	if err := repo.Replace(context.Background(), f); err == nil {
		t.Fatal("expected encode error")
	}
}

// --- HASH layout ---

func TestHash_Replace(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutHash)
	key := domfilter.Key{Identifier: "1", Type: "t"}

	var got map[string]string
	ms.hreplaceFn = func(_ context.Context, k string, fields map[string]string) error {
		if k != "filtering:filters:t:1" {
			t.Errorf("key = %q", k)
		}
		got = fields
		return nil
	}

	f := domfilter.Reconstruct(key, map[string]any{"deep.id": "abc", "n": 3})
	if err := repo.Replace(context.Background(), f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"__identifier": "1",
		"__type":       "t",
		"deep．id":      `"abc"`,
		"n":            "3",
	}
	if len(got) != len(want) {
		t.Fatalf("fields = %v", got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestHash_MergeWritesOnlyNewFields(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutHash)
	key := domfilter.Key{Identifier: "1", Type: "t"}

	ms.hgetAllFn = func(context.Context, string) (map[string]string, error) {
		t.Fatal("hash merge must not read the record")
		return nil, nil
	}
	var got map[string]string
	ms.hsetFn = func(_ context.Context, _ string, fields map[string]string) error {
		got = fields
		return nil
	}

	if err := repo.Merge(context.Background(), key, map[string]any{"color": "red"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["color"] != `"red"` || got["__type"] != "t" || len(got) != 3 {
		t.Errorf("fields = %v", got)
	}
}

func TestHash_MergeReservedKey(t *testing.T) {
	repo, _ := newTestRepo(t, LayoutHash)
	err := repo.Merge(context.Background(), testKey(t), map[string]any{"__type": "x"})
	if !errors.Is(err, domain.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestHash_Get(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutHash)
	key := domfilter.Key{Identifier: "1", Type: "t"}

	ms.hgetAllFn = func(context.Context, string) (map[string]string, error) {
		return map[string]string{
			"__identifier": "1",
			"__type":       "t",
			"a．b":          `{"c":1}`,
			"s":            `"v"`,
		}, nil
	}

	f, err := repo.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Len() != 2 {
		t.Fatalf("values = %v", f.Values())
	}
	nested, _ := f.Get("a.b")
	if m, ok := nested.(map[string]any); !ok || m["c"] != json.Number("1") {
		t.Errorf("a.b = %#v", nested)
	}
	if v, _ := f.Get("s"); v != "v" {
		t.Errorf("s = %#v", v)
	}
}

func TestHash_GetNotFound(t *testing.T) {
	repo, _ := newTestRepo(t, LayoutHash)
	if _, err := repo.Get(context.Background(), testKey(t)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHash_GetCorrupt(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutHash)
	ms.hgetAllFn = func(context.Context, string) (map[string]string, error) {
		return map[string]string{"x": "not-json"}, nil
	}
	if _, err := repo.Get(context.Background(), testKey(t)); !errors.Is(err, domain.ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

// --- index ---

func TestEnsureIndex(t *testing.T) {
	tests := []struct {
		layout  Layout
		storage db.StorageType
		field   string
	}{
		{LayoutJSON, db.StorageJSON, "$.type"},
		{LayoutHash, db.StorageHash, "__type"},
	}
	for _, tc := range tests {
		t.Run(string(tc.layout), func(t *testing.T) {
			repo, ms := newTestRepo(t, tc.layout)
			var got *db.IndexDefinition
			ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
				got = def
				return nil
			}
			if err := repo.EnsureIndex(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != "filtering:filters:idx" || got.StorageType != tc.storage {
				t.Errorf("def = %s", got)
			}
			if got.Prefixes[0] != "filtering:filters:" {
				t.Errorf("prefixes = %v", got.Prefixes)
			}
			if got.Fields[1].Name != tc.field || got.Fields[1].Alias != "type" {
				t.Errorf("fields = %+v", got.Fields)
			}
		})
	}
}

func TestEnsureIndex_AlreadyExists(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutJSON)
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		return db.ErrIndexExists
	}
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("existing index must be tolerated, got %v", err)
	}
}

func TestEnsureIndex_Error(t *testing.T) {
	repo, ms := newTestRepo(t, LayoutJSON)
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		return errors.New("unknown command FT.CREATE")
	}
	if err := repo.EnsureIndex(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
