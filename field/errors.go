package field

import "errors"

// ErrInvalidConfig is returned when a Config's force_constant/epsilon
// combination cannot produce a well-defined field.
var ErrInvalidConfig = errors.New("field: invalid configuration")
