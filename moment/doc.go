// Package moment implements the truncated multipole representation used by
// the Barnes-Hut force pipeline: a per-leaf monopole charge, and a per-node
// aggregate (charge, dipole, quadrupole) expanded about the node's
// geometric center. It also implements the bottom-up wavefront pass that
// aggregates leaf moments into node moments, one wave per tree level,
// without requiring a node to know its depth in advance.
package moment
