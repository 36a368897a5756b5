// Package engine wires orthtree, moment, interaction, field, integrate and
// kernel into a single step driver: a single-threaded, synchronous state
// machine (Idle -> Aggregating -> Interacting -> FieldEval -> Integrating
// -> Rebuilding -> Idle) that advances a fixed set of charged bodies by
// one time step per Step call.
//
// A step is atomic: either every phase completes and the tree advances by
// one Δt, or a pre-step snapshot is restored and the error is surfaced.
// Cancellation is checked only at phase boundaries.
package engine
