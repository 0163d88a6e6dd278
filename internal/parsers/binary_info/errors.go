package binaryinfo

import "errors"

var (
	// ErrHeaderNotFound is returned when no intact header is in the searched range.
	ErrHeaderNotFound = errors.New("binary info header not found")
	// ErrInvalidMarker is returned when a header's magic numbers do not match.
	ErrInvalidMarker = errors.New("invalid binary info marker")
	// ErrUnmappedAddress is returned for an address outside the image and every mapping range.
	ErrUnmappedAddress = errors.New("address is not in the image or any mapping range")
	// ErrUnterminatedString is returned when a string runs to the end of the image.
	ErrUnterminatedString = errors.New("string is not NUL-terminated")
	// ErrMissingSentinel is returned when a mapping table runs to the end of the image.
	ErrMissingSentinel = errors.New("mapping table has no sentinel")
)
