package sim

import "errors"

// Sentinel errors for the simulation kernel. Callers match them with
// errors.Is; call sites wrap them with fmt.Errorf("%w: ...") context.
var (
	// ErrInvalidDuration is returned when a negative delay or an
	// absolute time earlier than the current clock is scheduled.
	ErrInvalidDuration = errors.New("invalid duration")

	// ErrInvalidRelease is returned when a resource request is released
	// that was never granted, was already released, or belongs to a
	// different pool. It indicates a scheduling bug, not a recoverable
	// condition.
	ErrInvalidRelease = errors.New("invalid release")

	// ErrInvalidConfiguration is returned when scenario input is
	// inconsistent: non-positive capacity, an unknown resource or
	// activity reference, or contradictory sampler bounds. Raised
	// before the simulation run starts.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
