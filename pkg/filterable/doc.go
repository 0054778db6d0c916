// Package filterable projects a tagged object graph into a flat map of
// dotted key paths to values, suitable for storing as a filter document.
//
// Fields take part in discovery only when they carry a `filter` struct tag:
//
//	type Order struct {
//	    ID       string            `json:"id"`                        // not a filter
//	    Status   string            `filter:"status"`                  // direct copy
//	    Labels   map[string]string `filter:"labels"`                  // direct copy, any shape
//	    Customer *Customer         `filter:"customer,grab=ID"`        // customer.ID only
//	    Shipping *Address          `filter:"shipping,deep"`           // shipping.<tagged fields>
//	    Notes    []string          `filter:",omitempty"`              // key "Notes", skipped when empty
//	}
//
// Discover never fails. A field that cannot be read, a missing grab target or
// a nil nested object only means that this field contributes nothing; the
// reason is logged and, through Inspect, returned to the caller as a Skip.
//
// Only the struct's own declared fields are inspected: fields promoted from
// embedded structs are not walked unless the embedded field itself is tagged.
// Values are copied by reference, never cloned or converted.
package filterable
