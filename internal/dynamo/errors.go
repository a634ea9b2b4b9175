package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for basin computations.
var (
	// ErrCapacityExceeded indicates more attractors than a set can hold.
	ErrCapacityExceeded = errors.New("dynamo: attractor capacity exceeded")

	// ErrEmptySet indicates a query against a set with no attractors.
	ErrEmptySet = errors.New("dynamo: attractor set is empty")

	// ErrInvalidAttractor indicates an attractor with out-of-range fields.
	ErrInvalidAttractor = errors.New("dynamo: invalid attractor")

	// ErrInvalidDomain indicates a non-positive output domain or viewport.
	ErrInvalidDomain = errors.New("dynamo: invalid domain size")

	// ErrInvalidParams indicates integrator parameters outside valid range.
	ErrInvalidParams = errors.New("dynamo: integrator parameter out of valid bounds")

	// ErrUnknownProfile indicates an integrator profile name nobody registered.
	ErrUnknownProfile = errors.New("dynamo: unknown integrator profile")

	// ErrUnknownFilter indicates a compositor filter name nobody registered.
	ErrUnknownFilter = errors.New("dynamo: unknown filter")

	// ErrInvalidLayout indicates a malformed binary attractor block.
	ErrInvalidLayout = errors.New("dynamo: invalid attractor layout")
)

// AttractorError wraps an error with the index of the attractor that caused it.
type AttractorError struct {
	Index   int
	Reason  string
	Wrapped error
}

func (e *AttractorError) Error() string {
	return fmt.Sprintf("attractor %d: %s: %v", e.Index, e.Reason, e.Wrapped)
}

func (e *AttractorError) Unwrap() error {
	return e.Wrapped
}
