package orthtree

import "github.com/katalvlaran/nbody/vec3"

// Move relocates the leaf at leafIdx to newPosition. If newPosition is
// still inside the leaf's current node box, the position is updated in
// place with no structural change. Otherwise the leaf is spliced out of
// its old contiguous range and into the destination node's range, and
// (when Config.Adjust is enabled) both lineages are adjusted: the source
// side may merge if it dropped to or below NodeCapacity, the destination
// side may split if it now exceeds it. Returns ErrOutOfBounds, leaving the
// tree unchanged, if newPosition does not lie in the root's box.
func (t *Tree[LV, NV]) Move(leafIdx uint32, newPosition vec3.Vec3) error {
	srcNodeIdx, srcPath, err := t.findByLeafIndex(leafIdx)
	if err != nil {
		return wrapf("Move", err)
	}

	srcNode := &t.nodes[srcNodeIdx]
	if srcNode.contains(newPosition, t.dim) {
		t.leaves[leafIdx].Position = newPosition
		return nil
	}

	// Validate the destination before mutating anything, so an
	// out-of-bounds target leaves the tree untouched.
	if _, _, err := t.find(newPosition); err != nil {
		return wrapf("Move", ErrOutOfBounds)
	}

	value := t.leaves[leafIdx].Value

	copy(t.leaves[leafIdx:], t.leaves[leafIdx+1:])
	t.leaves = t.leaves[:len(t.leaves)-1]
	t.applyLeafRemoveShift(srcPath, leafIdx)

	dstNodeIdx, dstPath, err := t.find(newPosition)
	if err != nil {
		panic("orthtree: destination vanished after removal -- invariant violated")
	}
	dn := &t.nodes[dstNodeIdx]
	insertAt := dn.LeafStart + dn.LeafCount

	t.leaves = append(t.leaves, Leaf[LV]{})
	copy(t.leaves[insertAt+1:], t.leaves[insertAt:len(t.leaves)-1])
	t.leaves[insertAt] = Leaf[LV]{Position: newPosition, Value: value}
	t.applyLeafInsertShift(dstPath, insertAt)

	if !t.adjust {
		return nil
	}

	for i := len(srcPath) - 1; i >= 0; i-- {
		idx := srcPath[i]
		n := &t.nodes[idx]
		if n.HasChildren && n.LeafCount <= t.nodeCapacity {
			t.merge(idx)
		}
	}

	// Any merge above may have shifted the node array; re-resolve the
	// destination leaf-node fresh rather than trust the earlier index.
	finalDstIdx, _, ferr := t.find(newPosition)
	if ferr != nil {
		panic("orthtree: destination vanished after adjust -- invariant violated")
	}
	fd := &t.nodes[finalDstIdx]
	if fd.LeafCount > t.nodeCapacity && fd.Depth < t.maxDepth {
		t.split(finalDstIdx, nil)
	}

	return nil
}
