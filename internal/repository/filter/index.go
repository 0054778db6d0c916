package filter

import "github.com/kailas-cloud/filtering/internal/db"

// buildIndex defines TAG fields over the record identity so records can be
// looked up by type or identifier with FT.SEARCH.
func buildIndex(keys keyspace, layout Layout) (*db.IndexDefinition, error) {
	b := db.NewIndex(keys.indexName()).Prefix(keys.recordPrefix())
	if layout == LayoutHash {
		return b.OnHash().
			TagAs(hashFieldIdentifier, "identifier").
			TagAs(hashFieldType, "type").
			Build()
	}
	return b.OnJSON().
		TagAs("$.identifier", "identifier").
		TagAs("$.type", "type").
		Build()
}
