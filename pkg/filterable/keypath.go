package filterable

// Separator joins key path segments. Field names containing it are not escaped.
const Separator = "."

// JoinKey composes a key path from a prefix and a field name.
// The root prefix is empty, so top-level keys carry no leading separator.
func JoinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + Separator + name
}
