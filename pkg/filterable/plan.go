package filterable

import (
	"reflect"
	"sync"
)

// fieldPlan describes one tagged field of a struct type.
type fieldPlan struct {
	index     int
	goName    string
	key       string
	mode      mode
	exported  bool
	omitEmpty bool

	// grab options, resolved against the declared field type.
	grab          string
	grabIndex     int // -1 when the target does not exist on the declared type
	grabExported  bool
	grabOmitEmpty bool
	grabNamedType string
}

// typePlan is the list of tagged fields of a struct type, in declaration order.
type typePlan struct {
	typ    reflect.Type
	fields []fieldPlan
}

// planCache memoizes typePlan by struct type.
var planCache sync.Map // key: reflect.Type, val: *typePlan

// planFor returns the plan for struct type t, building it on first use.
func planFor(t reflect.Type) *typePlan {
	if p, ok := planCache.Load(t); ok {
		return p.(*typePlan)
	}
	p, _ := planCache.LoadOrStore(t, buildPlan(t))
	return p.(*typePlan)
}

// buildPlan inspects the declared fields of t. Promoted fields of embedded
// structs are not expanded; an embedded field is considered on its own tag.
func buildPlan(t reflect.Type) *typePlan {
	p := &typePlan{typ: t}

	for i := range t.NumField() {
		f := t.Field(i)
		tag, present := f.Tag.Lookup(tagKey)
		cfg, ok := parseTag(f.Name, tag, present)
		if !ok {
			continue
		}

		fp := fieldPlan{
			index:     i,
			goName:    f.Name,
			key:       cfg.name,
			mode:      cfg.mode(),
			exported:  f.IsExported(),
			omitEmpty: cfg.omitEmpty,
			grabIndex: -1,
		}
		if fp.mode == modeGrab {
			fp.grab = cfg.grab
			resolveGrab(&fp, f.Type)
		}
		p.fields = append(p.fields, fp)
	}

	return p
}

// resolveGrab looks the grab target up on the declared type of the field,
// never on the runtime type of its value. Interface-typed fields and fields
// of non-struct types therefore never resolve.
func resolveGrab(fp *fieldPlan, declared reflect.Type) {
	t := declared
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	fp.grabNamedType = t.String()
	if fp.grab == "" || t.Kind() != reflect.Struct {
		return
	}

	if sf, ok := declaredField(t, fp.grab); ok {
		fp.grabIndex = sf.Index[0]
		fp.grabExported = sf.IsExported()
		tag, present := sf.Tag.Lookup(tagKey)
		cfg, _ := parseTag(sf.Name, tag, present)
		fp.grabOmitEmpty = fp.omitEmpty || cfg.omitEmpty
	}
}

// declaredField finds a field declared directly on t, first by Go name,
// then by filter tag name.
func declaredField(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := range t.NumField() {
		if f := t.Field(i); f.Name == name {
			return f, true
		}
	}
	for i := range t.NumField() {
		f := t.Field(i)
		tag, present := f.Tag.Lookup(tagKey)
		if cfg, ok := parseTag(f.Name, tag, present); ok && cfg.name == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}
