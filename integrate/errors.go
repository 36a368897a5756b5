package integrate

import "errors"

// ErrMismatchedLengths is returned when the positions/velocities/masses/
// forces slices passed to Step don't all have the same length.
var ErrMismatchedLengths = errors.New("integrate: positions, velocities, masses, and forces must have equal length")

// ErrNonPositiveMass is returned when a leaf's mass is not strictly
// positive.
var ErrNonPositiveMass = errors.New("integrate: mass must be positive")
