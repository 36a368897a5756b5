package orthtree

// CloneLeaves returns a deep copy of the tree's leaf buffer, used by the
// step driver (engine package) to take a pre-step snapshot it can roll
// back to on failure or cancellation.
func (t *Tree[LV, NV]) CloneLeaves() []Leaf[LV] {
	out := make([]Leaf[LV], len(t.leaves))
	copy(out, t.leaves)
	return out
}

// CloneNodes returns a deep copy of the tree's node buffer (ChildOffsets
// slices included).
func (t *Tree[LV, NV]) CloneNodes() []Node[NV] {
	out := make([]Node[NV], len(t.nodes))
	for i, n := range t.nodes {
		out[i] = n
		if n.ChildOffsets != nil {
			out[i].ChildOffsets = append([]uint32(nil), n.ChildOffsets...)
		}
	}
	return out
}

// Restore replaces the tree's leaf and node buffers wholesale, e.g. from a
// CloneLeaves/CloneNodes pair taken earlier. The caller is responsible for
// passing buffers that satisfy the tree's structural invariants -- this is
// a raw restore, not a validated one.
func (t *Tree[LV, NV]) Restore(leaves []Leaf[LV], nodes []Node[NV]) {
	t.leaves = leaves
	t.nodes = nodes
}
