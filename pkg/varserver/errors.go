package varserver

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// Sentinel errors returned by descriptor validation and client operations.
// Callers distinguish them with errors.Is; every returned error wraps one of
// these (or a transport error) with context about the offending value.
var (
	// ErrUnknownType indicates a type name or value outside the supported set.
	ErrUnknownType = errors.New("unknown variable type")

	// ErrUnknownFlag indicates a flag name outside the flag vocabulary.
	ErrUnknownFlag = errors.New("unknown flag name")

	// ErrTooLong indicates a string field that exceeds its bounded buffer.
	ErrTooLong = errors.New("value exceeds maximum length")

	// ErrTooManyPrincipals indicates a permission list over MaxPrincipals.
	ErrTooManyPrincipals = errors.New("too many principals")

	// ErrMissingName indicates a descriptor or alias with an empty name.
	ErrMissingName = errors.New("missing variable name")

	// ErrExists indicates a name or alias already bound in the instance.
	ErrExists = errors.New("variable already exists")

	// ErrNotFound indicates no variable bound to the given name or handle.
	ErrNotFound = errors.New("variable not found")

	// ErrTypeMismatch indicates a value write whose type differs from the
	// variable's stored type.
	ErrTypeMismatch = errors.New("variable type mismatch")

	// ErrInvalidHandle indicates an operation on InvalidHandle.
	ErrInvalidHandle = errors.New("invalid variable handle")
)

// IsNotFound returns true if the error indicates a missing variable, either
// from this package or as a raw Redis "key not found".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, redis.Nil)
}

// IsExists returns true if the error indicates a name collision on creation
// or aliasing.
func IsExists(err error) bool {
	return errors.Is(err, ErrExists)
}
