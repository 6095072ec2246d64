package domain

import "errors"

var (
	// ErrNilArgument is returned when a required collection argument is nil.
	ErrNilArgument = errors.New("required argument is nil")

	// ErrNoFilterValues is returned when a persisted grant filter has no values set.
	ErrNoFilterValues = errors.New("no filter values set")

	// ErrDeviceCodeNotFound is returned when an update targets a user code that was never stored.
	ErrDeviceCodeNotFound = errors.New("could not update device code")

	// ErrUnknownEnumValue is returned when a stored integer does not map to a known enumeration.
	ErrUnknownEnumValue = errors.New("unknown enumeration value")
)
