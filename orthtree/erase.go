package orthtree

// findByLeafIndex descends from the root to the leaf-node owning leafIdx,
// using each node's contiguous [LeafStart, LeafStart+LeafCount) range
// rather than a position test -- the lookup Erase and Move need, since a
// leaf index must be resolved to its node independent of (possibly
// duplicate) positions.
func (t *Tree[LV, NV]) findByLeafIndex(leafIdx uint32) (uint32, []uint32, error) {
	if leafIdx >= uint32(len(t.leaves)) {
		return 0, nil, wrapf("findByLeafIndex", ErrInvalidLeaf)
	}

	path := []uint32{0}
	cur := uint32(0)
	for {
		n := &t.nodes[cur]
		if !n.HasChildren {
			return cur, path, nil
		}
		found := false
		for c := 0; c < t.children; c++ {
			childIdx := cur + n.ChildOffsets[c]
			child := &t.nodes[childIdx]
			if leafIdx >= child.LeafStart && leafIdx < child.LeafStart+child.LeafCount {
				cur = childIdx
				path = append(path, cur)
				found = true
				break
			}
		}
		if !found {
			panic("orthtree: leaf index not contained by any child -- invariant violated")
		}
	}
}

// Erase removes the leaf at leafIdx from the tree, decrementing every
// ancestor's LeafCount. When Config.Adjust is enabled, any ancestor whose
// subtree LeafCount has dropped to at most NodeCapacity is merged back
// into a single leaf-node, processed bottom-up.
func (t *Tree[LV, NV]) Erase(leafIdx uint32) (nodeIdx uint32, err error) {
	nodeIdx, path, err := t.findByLeafIndex(leafIdx)
	if err != nil {
		return 0, wrapf("Erase", err)
	}

	copy(t.leaves[leafIdx:], t.leaves[leafIdx+1:])
	t.leaves = t.leaves[:len(t.leaves)-1]
	t.applyLeafRemoveShift(path, leafIdx)

	if t.adjust {
		for i := len(path) - 1; i >= 0; i-- {
			idx := path[i]
			n := &t.nodes[idx]
			if n.HasChildren && n.LeafCount <= t.nodeCapacity {
				t.merge(idx)
				nodeIdx = idx
			}
		}
	}

	return nodeIdx, nil
}
