package filterable

// Reason explains why a tagged field contributed nothing.
type Reason int

const (
	// ReasonNone marks an extracted value.
	ReasonNone Reason = iota
	// ReasonFieldAccessDenied means the field (or grabbed sub-field) is unexported.
	ReasonFieldAccessDenied
	// ReasonNestedValueAbsent means a deep-dive field holds no value.
	ReasonNestedValueAbsent
	// ReasonGrabTargetNotFound means the grab target is not declared on the field type.
	ReasonGrabTargetNotFound
	// ReasonCycle means a deep dive would re-enter an object already on the current path.
	ReasonCycle
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonFieldAccessDenied:
		return "field_access_denied"
	case ReasonNestedValueAbsent:
		return "nested_value_absent"
	case ReasonGrabTargetNotFound:
		return "grab_target_not_found"
	case ReasonCycle:
		return "cycle"
	default:
		return "unknown"
	}
}

// Outcome is the result of processing one tagged field: either an extracted
// value under Key, or a skip with a Reason. It is never an error.
type Outcome struct {
	Key    string
	Value  any
	Reason Reason
}

// Extracted builds an outcome carrying a value.
func Extracted(key string, value any) Outcome {
	return Outcome{Key: key, Value: value}
}

// Skipped builds an outcome carrying a skip reason.
func Skipped(key string, reason Reason) Outcome {
	return Outcome{Key: key, Reason: reason}
}

// IsSkipped reports whether the outcome carries no value.
func (o Outcome) IsSkipped() bool { return o.Reason != ReasonNone }

// Skip records a tagged field that contributed nothing.
type Skip struct {
	Key    string // key path the field would have produced
	Field  string // Go field name, qualified by its struct type
	Reason Reason
}

// Report is the full result of a discovery: extracted values and skips.
type Report struct {
	Values map[string]any
	Skips  []Skip
}

// SkipCount returns the number of skips with the given reason.
func (r Report) SkipCount(reason Reason) int {
	n := 0
	for _, s := range r.Skips {
		if s.Reason == reason {
			n++
		}
	}
	return n
}
