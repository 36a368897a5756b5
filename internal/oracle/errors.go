package oracle

import "errors"

// ErrMismatchedLengths is returned when positions and charges differ in
// length.
var ErrMismatchedLengths = errors.New("oracle: positions and charges must have equal length")
