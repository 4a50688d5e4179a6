package varcreate

import "errors"

// Sentinel errors for attribute extraction failures. Size-exceeded and
// vocabulary failures reuse the varserver sentinels (ErrTooLong,
// ErrUnknownType, ErrUnknownFlag, ErrTooManyPrincipals, ErrMissingName)
// since those limits belong to the server model.
var (
	// ErrWrongType indicates a JSON value of the wrong shape for its
	// attribute, e.g. a number where a string is required.
	ErrWrongType = errors.New("attribute has wrong JSON type")

	// ErrBadValue indicates attribute text that cannot be parsed, e.g. a
	// malformed GUID or length.
	ErrBadValue = errors.New("attribute value cannot be parsed")
)
