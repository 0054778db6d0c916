package filterable

import (
	"reflect"
	"strings"
	"sync"
)

// Namer lets an entity choose its own type discriminator.
type Namer interface {
	FilterType() string
}

// typeNameCache caches discriminators by reflect.Type.
var typeNameCache sync.Map // key: reflect.Type, val: string

// TypeName returns the entity-type discriminator used to key stored filters:
// FilterType() when entity implements Namer, otherwise "<import path>.<Type>"
// of the pointer-unwrapped type. Nil entities and unnamed types yield "".
func TypeName(entity any) string {
	if entity == nil {
		return ""
	}
	v := reflect.ValueOf(entity)
	if n, ok := entity.(Namer); ok && !(v.Kind() == reflect.Pointer && v.IsNil()) {
		return n.FilterType()
	}
	return typeName(v.Type())
}

func typeName(t reflect.Type) string {
	if v, ok := typeNameCache.Load(t); ok {
		return v.(string)
	}

	base := t
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	name := stripTypeParams(base.Name())
	if name != "" {
		if p := base.PkgPath(); p != "" {
			name = p + "." + name
		}
	}

	typeNameCache.Store(t, name)
	return name
}

// stripTypeParams removes a generic instantiation suffix: "Box[int]" -> "Box".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
