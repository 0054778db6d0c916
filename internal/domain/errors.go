package domain

import "errors"

var (
	// ErrNotFound signals a missing filter record.
	ErrNotFound = errors.New("not found")
	// ErrInvalidKey signals an empty identifier or entity type.
	ErrInvalidKey = errors.New("invalid filter key")
	// ErrCorruptRecord signals a stored record that cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt filter record")
)
