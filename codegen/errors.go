package codegen

import "errors"

var (
	// ErrIdentifierCollision is returned when two grammar names map to the same Go identifier.
	ErrIdentifierCollision = errors.New("generated identifier collision")
	// ErrInvalidPackageName is returned for a package name that is not a Go identifier.
	ErrInvalidPackageName = errors.New("invalid package name")
)
