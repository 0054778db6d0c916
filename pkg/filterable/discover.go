package filterable

import (
	"reflect"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Discoverer flattens tagged fields of an entity. It holds no per-call state
// and is safe for concurrent use.
type Discoverer struct {
	logger *zap.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithLogger sets the logger used for skip diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(d *Discoverer) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Discoverer. Without WithLogger it logs nothing.
func New(opts ...Option) *Discoverer {
	d := &Discoverer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover flattens entity with a Discoverer bound to the global zap logger.
func Discover(entity any) map[string]any {
	return New(WithLogger(zap.L())).Discover(entity)
}

// Discover returns the flattened map of entity's tagged fields.
// A nil entity yields an empty map. The result is never nil.
func (d *Discoverer) Discover(entity any) map[string]any {
	return d.Inspect(entity).Values
}

// Inspect is Discover plus the list of fields that were skipped and why.
func (d *Discoverer) Inspect(entity any) Report {
	w := &walker{
		logger: d.logger,
		report: Report{Values: make(map[string]any)},
		onPath: make(map[visit]struct{}),
	}
	if entity == nil {
		return w.report
	}

	w.enter(reflect.ValueOf(entity), "")
	return w.report
}

// visit identifies an object on the current deep-dive path.
type visit struct {
	ptr uintptr
	typ reflect.Type
}

// walker carries the accumulator of a single Inspect call.
type walker struct {
	logger *zap.Logger
	report Report
	onPath map[visit]struct{}
}

// enter unwraps interfaces and pointers down to a struct and walks it with
// the given prefix. It returns false when it hits a pointer already on the
// current path; nil and non-struct values are walked as empty.
func (w *walker) enter(v reflect.Value, prefix string) bool {
	var entered []visit
	defer func() {
		for _, k := range entered {
			delete(w.onPath, k)
		}
	}()

	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return true
		}
		if v.Kind() == reflect.Pointer {
			k := visit{ptr: v.Pointer(), typ: v.Type()}
			if _, seen := w.onPath[k]; seen {
				return false
			}
			w.onPath[k] = struct{}{}
			entered = append(entered, k)
		}
		v = v.Elem()
	}

	if !v.IsValid() || v.Kind() != reflect.Struct {
		return true
	}
	w.walk(v, prefix)
	return true
}

// walk dispatches every tagged field of struct value v to its strategy.
func (w *walker) walk(v reflect.Value, prefix string) {
	plan := planFor(v.Type())
	for i := range plan.fields {
		fp := &plan.fields[i]
		key := JoinKey(prefix, fp.key)

		var out Outcome
		switch fp.mode {
		case modeDeep:
			out = w.deepDive(v, fp, key)
		case modeGrab:
			out = w.grab(v, fp, key)
		default:
			out = w.direct(v, fp, key)
		}
		w.record(plan.typ, fp, out)
	}
}

// direct copies the field value verbatim under key.
func (w *walker) direct(v reflect.Value, fp *fieldPlan, key string) Outcome {
	if !fp.exported {
		return Skipped(key, ReasonFieldAccessDenied)
	}
	fv := v.Field(fp.index)
	if isAbsent(fv, fp.omitEmpty) {
		return Outcome{}
	}
	return Extracted(key, fv.Interface())
}

// grab copies one declared sub-field of the field value under key.target.
func (w *walker) grab(v reflect.Value, fp *fieldPlan, key string) Outcome {
	if !fp.exported {
		return Skipped(key, ReasonFieldAccessDenied)
	}
	if fp.grabIndex < 0 {
		return Skipped(key, ReasonGrabTargetNotFound)
	}

	root := v.Field(fp.index)
	for root.Kind() == reflect.Pointer {
		if root.IsNil() {
			return Outcome{}
		}
		root = root.Elem()
	}

	grabKey := JoinKey(key, fp.grab)
	if !fp.grabExported {
		return Skipped(grabKey, ReasonFieldAccessDenied)
	}
	gv := root.Field(fp.grabIndex)
	if isAbsent(gv, fp.grabOmitEmpty) {
		return Outcome{}
	}
	return Extracted(grabKey, gv.Interface())
}

// deepDive walks the field value with key as the new prefix.
func (w *walker) deepDive(v reflect.Value, fp *fieldPlan, key string) Outcome {
	if !fp.exported {
		return Skipped(key, ReasonFieldAccessDenied)
	}
	nested := v.Field(fp.index)
	if isAbsent(nested, false) {
		return Skipped(key, ReasonNestedValueAbsent)
	}
	if !w.enter(nested, key) {
		return Skipped(key, ReasonCycle)
	}
	return Outcome{}
}

// record stores a value or a skip. Empty outcomes are dropped.
func (w *walker) record(typ reflect.Type, fp *fieldPlan, out Outcome) {
	if !out.IsSkipped() {
		if out.Key != "" {
			w.report.Values[out.Key] = out.Value
		}
		return
	}

	field := typ.String() + "." + fp.goName
	w.report.Skips = append(w.report.Skips, Skip{Key: out.Key, Field: field, Reason: out.Reason})

	level := zapcore.WarnLevel
	if out.Reason == ReasonNestedValueAbsent {
		level = zapcore.DebugLevel
	}
	if ce := w.logger.Check(level, "filterable field skipped"); ce != nil {
		fields := []zap.Field{
			zap.String("key", out.Key),
			zap.String("field", field),
			zap.String("mode", fp.mode.String()),
			zap.Stringer("reason", out.Reason),
		}
		if fp.mode == modeGrab {
			fields = append(fields, zap.String("grab", fp.grab), zap.String("declared_type", fp.grabNamedType))
		}
		ce.Write(fields...)
	}
}

// isAbsent reports whether v holds no value. With omitEmpty, zero scalars
// and empty strings, slices and maps count as absent too.
func isAbsent(v reflect.Value, omitEmpty bool) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		if v.IsNil() {
			return true
		}
	}
	if !omitEmpty {
		return false
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.String, reflect.Array:
		return v.Len() == 0
	}
	return v.IsZero()
}
