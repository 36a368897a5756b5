package orthtree

// relink recomputes ChildOffsets, ParentOffset, SiblingIndex, and Depth for
// every node from scratch, given only each node's HasChildren flag and the
// tree's fixed branching factor. It must be called after any operation
// that inserts or removes node records (split, merge) -- operations that
// only touch leaf bookkeeping (plain Insert/Erase/Move of a leaf that
// doesn't trigger Adjust) never change node count or shape and so never
// need it.
//
// relink relies on (and re-establishes) the pre-order/subtree-contiguity
// invariant: a node's children occupy the slots immediately following it,
// each child's subtree is contiguous, and child subtrees appear in
// increasing child-index order.
func (t *Tree[LV, NV]) relink() {
	root := &t.nodes[0]
	root.HasParent = false
	root.ParentOffset = 0
	root.SiblingIndex = 0
	root.Depth = 0
	t.relinkSubtree(0)
}

// relinkSubtree fixes node i (assumed already positioned correctly, with
// Depth/ParentOffset/SiblingIndex/HasParent already set by the caller) and
// recurses into its children, returning the size of i's subtree.
func (t *Tree[LV, NV]) relinkSubtree(i uint32) uint32 {
	n := &t.nodes[i]
	if !n.HasChildren {
		n.ChildOffsets = nil
		return 1
	}

	if len(n.ChildOffsets) != t.children+1 {
		n.ChildOffsets = make([]uint32, t.children+1)
	}

	childAbs := i + 1
	for c := 0; c < t.children; c++ {
		n.ChildOffsets[c] = childAbs - i

		child := &t.nodes[childAbs]
		child.HasParent = true
		child.ParentOffset = int32(i) - int32(childAbs)
		child.SiblingIndex = uint32(c)
		child.Depth = n.Depth + 1

		size := t.relinkSubtree(childAbs)
		childAbs += size
	}
	n.ChildOffsets[t.children] = childAbs - i

	return childAbs - i
}
