// Package filtering is the Go client for filter records: flattened,
// queryable projections of tagged entities stored in Valkey or Redis.
//
// Entities mark the fields that become filters with the `filter` struct tag
// (see package filterable):
//
//	type Product struct {
//	    ID     string  `filter:"id"`
//	    Brand  *Brand  `filter:"brand,deep"`
//	    Vendor *Vendor `filter:"vendor,grab=Code"`
//	}
//
//	client, _ := filtering.New(ctx, filtering.WithValkey("localhost:6379", ""))
//	defer client.Close()
//
//	// Rediscover and replace the stored map.
//	f, _ := client.Refresh(ctx, product, product.ID)
//
//	// Merge hand-picked pairs into an existing record.
//	_ = client.UpdateFilters(ctx, product.ID, f.Type, map[string]any{"promoted": true})
package filtering
