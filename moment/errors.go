package moment

import "errors"

// ErrEmptyTree is returned by Aggregate when asked to aggregate a tree with
// no leaves at all; there is no sensible root moment to report.
var ErrEmptyTree = errors.New("moment: tree has no leaves")
