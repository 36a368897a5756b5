package orthtree

// merge collapses the subtree rooted at nodeIdx back into a single
// leaf-node: the descendant node records are deleted and HasChildren is
// cleared. Leaves never move -- the subtree's leaf range was already
// contiguous and remains owned, in full, by nodeIdx.
func (t *Tree[LV, NV]) merge(nodeIdx uint32) {
	n := &t.nodes[nodeIdx]
	if !n.HasChildren {
		return
	}
	end := nodeIdx + n.ChildOffsets[t.children]

	kept := make([]Node[NV], 0, len(t.nodes)-int(end-nodeIdx-1))
	kept = append(kept, t.nodes[:nodeIdx+1]...)
	kept = append(kept, t.nodes[end:]...)
	t.nodes = kept

	n = &t.nodes[nodeIdx]
	n.HasChildren = false
	n.ChildOffsets = nil

	t.relink()
}
