// Package errors holds sentinel errors shared across the coordinator
// storage and API layers.
package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyKey     = errors.New("empty key")
	ErrInvalidData  = errors.New("invalid data type")
	ErrEntityExists = errors.New("entity already exists")

	ErrMissingID          = errors.New("missing entity identifier")
	ErrInvalidQueryParams = errors.New("invalid query parameters")
)
