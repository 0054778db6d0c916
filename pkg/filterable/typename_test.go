package filterable

import "testing"

func TestTypeName(t *testing.T) {
	const pkg = "github.com/kailas-cloud/filtering/pkg/filterable"

	var nilComposed *composedObject
	var nilNamed *namedEntity

	tests := []struct {
		name   string
		entity any
		want   string
	}{
		{"nil", nil, ""},
		{"struct value", composedObject{}, pkg + ".composedObject"},
		{"pointer", &composedObject{}, pkg + ".composedObject"},
		{"typed nil pointer", nilComposed, pkg + ".composedObject"},
		{"namer", namedEntity{}, "catalog.item"},
		{"namer pointer", &namedEntity{}, "catalog.item"},
		{"nil namer pointer", nilNamed, pkg + ".namedEntity"},
		{"generic", box[int]{}, pkg + ".box"},
		{"builtin", 42, "int"},
		{"unnamed", struct{}{}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TypeName(tc.entity); got != tc.want {
				t.Errorf("TypeName() = %q, want %q", got, tc.want)
			}
		})
	}
}
