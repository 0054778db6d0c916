package filtering

import "github.com/kailas-cloud/filtering/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidKey    = domain.ErrInvalidKey
	ErrCorruptRecord = domain.ErrCorruptRecord
)
