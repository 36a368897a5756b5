package engine

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/katalvlaran/nbody/moment"
	"github.com/katalvlaran/nbody/orthtree"
)

// persistedState is the gob-encoded layout snapshot/restore round-trips.
// moment.Node's scratch pending/ready fields are unexported and so never
// survive a round-trip -- harmless, since they are meaningless outside a
// running Aggregate pass and are reset at the start of the next one.
type persistedState struct {
	Leaves []orthtree.Leaf[Body]
	Nodes  []orthtree.Node[moment.Node]
	Time   float64
}

// Snapshot serializes the engine's current tree and time to bytes. The
// layout is implementation-defined, intended for tests and checkpoints,
// and round-trips exactly through Restore.
func (e *Engine) Snapshot() ([]byte, error) {
	state := persistedState{
		Leaves: e.tree.CloneLeaves(),
		Nodes:  e.tree.CloneNodes(),
		Time:   e.time,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, fmt.Errorf("engine.Snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Restore replaces the engine's tree contents and time from data
// previously produced by Snapshot.
func (e *Engine) Restore(data []byte) error {
	var state persistedState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return fmt.Errorf("engine.Restore: %w", err)
	}
	e.tree.Restore(state.Leaves, state.Nodes)
	e.time = state.Time
	return nil
}
