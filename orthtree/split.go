package orthtree

import "github.com/katalvlaran/nbody/vec3"

// childGeometry returns the position and dimensions of child c of a node
// occupying [parentPos, parentPos+parentDims). Only the tree's first dim
// axes are ever split; axes beyond dim (when dim < 3) are carried through
// unchanged, per Config.Dim's doc comment.
func childGeometry(parentPos, parentDims vec3.Vec3, dim int, c int) (vec3.Vec3, vec3.Vec3) {
	pos, dims := parentPos, parentDims
	for d := 0; d < dim; d++ {
		half := parentDims.At(d) / 2
		dims = dims.WithAt(d, half)
		if c&(1<<uint(d)) != 0 {
			pos = pos.WithAt(d, parentPos.At(d)+half)
		}
	}
	return pos, dims
}

// split partitions nodeIdx's leaves across 2^Dim new children, inserted
// into t.nodes immediately after nodeIdx, and recurses into any child that
// still exceeds capacity within the depth bound. If track is non-nil, *track
// is updated to the tracked leaf's new absolute index in t.leaves as the
// partition (and any recursive partition) moves it.
//
// Algorithm:
//  1. compute each child's half-size box;
//  2. stably partition the node's leaf range into per-child buckets;
//  3. insert 2^Dim fresh node records after nodeIdx;
//  4. relink the whole tree's offsets (see relink.go);
//  5. recurse into any still-over-capacity child, processing children in
//     descending sibling order so recursion never invalidates an
//     as-yet-unprocessed sibling's absolute index.
func (t *Tree[LV, NV]) split(nodeIdx uint32, track *uint32) {
	n := &t.nodes[nodeIdx]
	k := t.children
	leafStart, leafCount, depth := n.LeafStart, n.LeafCount, n.Depth
	parentPos, parentDims := n.Position, n.Dimensions
	c := Center(n)

	buckets := make([][]Leaf[LV], k)
	trackBucket, trackOffset := -1, -1
	for i := leafStart; i < leafStart+leafCount; i++ {
		leaf := t.leaves[i]
		ci := t.childIndexFor(c, leaf.Position)
		if track != nil && i == *track {
			trackBucket = ci
			trackOffset = len(buckets[ci])
		}
		buckets[ci] = append(buckets[ci], leaf)
	}

	pos := leafStart
	childLeafStart := make([]uint32, k)
	childLeafCount := make([]uint32, k)
	for ci := 0; ci < k; ci++ {
		childLeafStart[ci] = pos
		childLeafCount[ci] = uint32(len(buckets[ci]))
		for _, lf := range buckets[ci] {
			t.leaves[pos] = lf
			pos++
		}
	}
	if track != nil && trackBucket >= 0 {
		*track = childLeafStart[trackBucket] + uint32(trackOffset)
	}

	blanks := make([]Node[NV], k)
	rest := make([]Node[NV], len(t.nodes)-int(nodeIdx)-1)
	copy(rest, t.nodes[nodeIdx+1:])
	t.nodes = append(t.nodes[:nodeIdx+1], append(blanks, rest...)...)

	n = &t.nodes[nodeIdx]
	n.HasChildren = true
	for ci := 0; ci < k; ci++ {
		childPos, childDims := childGeometry(parentPos, parentDims, t.dim, ci)
		t.nodes[nodeIdx+1+uint32(ci)] = Node[NV]{
			Depth:      depth + 1,
			Position:   childPos,
			Dimensions: childDims,
			LeafStart:  childLeafStart[ci],
			LeafCount:  childLeafCount[ci],
		}
	}

	t.relink()

	for ci := k - 1; ci >= 0; ci-- {
		childIdx := nodeIdx + 1 + uint32(ci)
		child := &t.nodes[childIdx]
		if child.LeafCount > t.nodeCapacity && child.Depth < t.maxDepth {
			t.split(childIdx, track)
		}
	}
}
