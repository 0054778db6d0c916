package filter

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	domfilter "github.com/kailas-cloud/filtering/internal/domain/filter"
	"github.com/kailas-cloud/filtering/pkg/filterable"
)

// DefaultKeyPrefix namespaces every key the repository writes.
const DefaultKeyPrefix = "filtering:"

// DefaultDotReplacement stands in for the key-path separator inside stored
// field names (U+FF0E FULLWIDTH FULL STOP).
const DefaultDotReplacement = "．"

// ValidateDotReplacement checks that s can stand in for the key-path
// separator and still decode unambiguously. Filter keys are built from field
// and tag names, so letters, digits and "_" are refused along with "." itself.
func ValidateDotReplacement(s string) error {
	if s == "" {
		return errors.New("dot replacement must not be empty")
	}
	if strings.Contains(s, filterable.Separator) {
		return fmt.Errorf("dot replacement %q must not contain %q", s, filterable.Separator)
	}
	if strings.ContainsFunc(s, isNameRune) {
		return fmt.Errorf("dot replacement %q must not contain letters, digits or \"_\"", s)
	}
	return nil
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// keyspace builds storage keys and index names under one prefix.
type keyspace struct {
	prefix string
}

// recordPrefix is the prefix shared by all filter records: <prefix>filters:
func (k keyspace) recordPrefix() string {
	return k.prefix + "filters:"
}

// recordKey is <prefix>filters:<type>:<identifier>.
func (k keyspace) recordKey(key domfilter.Key) string {
	return k.recordPrefix() + key.Type + ":" + key.Identifier
}

// indexName is <prefix>filters:idx.
func (k keyspace) indexName() string {
	return k.recordPrefix() + "idx"
}

// fieldEscaper re-encodes the key-path separator in field names. Stored
// documents never see a literal "." in a filter key, so JSONPath and index
// expressions over the filters object stay unambiguous.
type fieldEscaper struct {
	replacement string
}

func (e fieldEscaper) escape(name string) string {
	return strings.ReplaceAll(name, filterable.Separator, e.replacement)
}

func (e fieldEscaper) unescape(name string) string {
	return strings.ReplaceAll(name, e.replacement, filterable.Separator)
}
