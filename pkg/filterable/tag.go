package filterable

import "strings"

const tagKey = "filter"

// mode selects the extraction strategy of a tagged field.
type mode int

const (
	modeDirect mode = iota
	modeGrab
	modeDeep
)

func (m mode) String() string {
	switch m {
	case modeGrab:
		return "grab"
	case modeDeep:
		return "deep"
	default:
		return "direct"
	}
}

// fieldConfig is the parsed form of a `filter:"name,deep,grab=X,omitempty"` tag.
type fieldConfig struct {
	name      string
	deep      bool
	grab      string
	hasGrab   bool
	omitEmpty bool
}

// mode resolves the strategy. Deep dive is checked before grab.
func (c fieldConfig) mode() mode {
	switch {
	case c.deep:
		return modeDeep
	case c.hasGrab:
		return modeGrab
	default:
		return modeDirect
	}
}

// parseTag reads a filter tag. ok is false for untagged fields and for "-".
// Unknown options are ignored.
func parseTag(fieldName, tag string, present bool) (cfg fieldConfig, ok bool) {
	if !present || tag == "-" {
		return fieldConfig{}, false
	}

	name, opts, _ := strings.Cut(tag, ",")
	cfg.name = strings.TrimSpace(name)
	if cfg.name == "" {
		cfg.name = fieldName
	}

	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		opt = strings.TrimSpace(opt)

		switch {
		case opt == "deep":
			cfg.deep = true
		case opt == "omitempty":
			cfg.omitEmpty = true
		case strings.HasPrefix(opt, "grab="):
			cfg.hasGrab = true
			cfg.grab = strings.TrimSpace(strings.TrimPrefix(opt, "grab="))
		}
	}
	return cfg, true
}
