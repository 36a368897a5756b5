package interaction

import "errors"

// ErrInvalidTheta is returned when theta is negative.
var ErrInvalidTheta = errors.New("interaction: theta must be non-negative")

// ErrInvalidBufferBudget is returned when deviceMaxBufferBytes is too
// small to hold even a single interaction record for the tree's
// branching factor.
var ErrInvalidBufferBudget = errors.New("interaction: device_max_buffer_bytes too small for one batch entry")
