package orthtree

import "github.com/katalvlaran/nbody/vec3"

// Insert locates the leaf-node containing position, appends a new leaf to
// that node's slice of the leaf buffer, and updates every ancestor's
// LeafCount. If the resulting LeafCount exceeds NodeCapacity and the node
// is above MaxDepth and Config.Adjust is enabled, the node is split
// (recursively, see split in split.go). Returns ErrOutOfBounds,
// leaving the tree unchanged, if position does not lie in the root's box.
func (t *Tree[LV, NV]) Insert(position vec3.Vec3, value LV) (leafIdx uint32, nodeIdx uint32, err error) {
	nodeIdx, path, err := t.find(position)
	if err != nil {
		return 0, 0, wrapf("Insert", ErrOutOfBounds)
	}

	n := &t.nodes[nodeIdx]
	insertAt := n.LeafStart + n.LeafCount

	t.leaves = append(t.leaves, Leaf[LV]{})
	copy(t.leaves[insertAt+1:], t.leaves[insertAt:len(t.leaves)-1])
	t.leaves[insertAt] = Leaf[LV]{Position: position, Value: value}

	t.applyLeafInsertShift(path, insertAt)
	leafIdx = insertAt

	n = &t.nodes[nodeIdx]
	if t.adjust && n.LeafCount > t.nodeCapacity && n.Depth < t.maxDepth {
		track := leafIdx
		t.split(nodeIdx, &track)
		leafIdx = track
		if finalIdx, _, ferr := t.find(position); ferr == nil {
			nodeIdx = finalIdx
		}
	}

	return leafIdx, nodeIdx, nil
}

// IsOverCapacity reports whether the leaf-node at nodeIdx holds more
// leaves than NodeCapacity -- a non-fatal condition accepted silently by
// Insert when MaxDepth has been reached, inspectable here by the caller.
func (t *Tree[LV, NV]) IsOverCapacity(nodeIdx uint32) bool {
	n := &t.nodes[nodeIdx]
	return !n.HasChildren && n.LeafCount > t.nodeCapacity
}
