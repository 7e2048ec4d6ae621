package uri

import "errors"

var (
	// ErrMismatchedRepresentation is returned when the parts of a URI share no
	// common representation form
	ErrMismatchedRepresentation = errors.New("uri parts have no common representation")
	// ErrInvalidAddressComponent is returned when an authority, entity or
	// resource is built from out-of-range ids or invalid names
	ErrInvalidAddressComponent = errors.New("invalid address component")
	// ErrMalformedURI is returned when a URI string cannot be parsed
	ErrMalformedURI = errors.New("malformed uri")
	// ErrNotRepresentable is returned when a URI is rendered in a form it does not carry
	ErrNotRepresentable = errors.New("uri not representable in requested form")
)
