package eep

import "errors"

// Domain errors for EEP decoding and encoding.
var (
	// ErrDecodeValue is returned when a matched profile receives malformed
	// or out-of-range field data. The telegram is discarded and counted,
	// never fatal.
	ErrDecodeValue = errors.New("eep: malformed field data")

	// ErrEncodeRange is returned when a value to encode lies outside the
	// profile's representable range.
	ErrEncodeRange = errors.New("eep: value out of profile range")
)
