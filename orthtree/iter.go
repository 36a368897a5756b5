package orthtree

import "github.com/katalvlaran/nbody/vec3"

// PreOrder calls visit once for every node, in depth-first (pre-order)
// array order -- the traversal is simply an index increment, since
// nodes[] is already kept in pre-order. Stops early if visit returns
// false.
func (t *Tree[LV, NV]) PreOrder(visit func(idx uint32, n *Node[NV]) bool) {
	for i := range t.nodes {
		if !visit(uint32(i), &t.nodes[i]) {
			return
		}
	}
}

// LeafNodes calls visit once for every leaf-node (HasChildren == false),
// in pre-order. Stops early if visit returns false.
func (t *Tree[LV, NV]) LeafNodes(visit func(idx uint32, n *Node[NV]) bool) {
	for i := range t.nodes {
		if t.nodes[i].HasChildren {
			continue
		}
		if !visit(uint32(i), &t.nodes[i]) {
			return
		}
	}
}

// Overlapping calls visit for every node whose box intersects the closed
// region [lower, lower+dims], descending only into subtrees that can
// possibly intersect it -- a region containment query over the tree's
// first Dim axes.
func (t *Tree[LV, NV]) Overlapping(lower, dims vec3.Vec3, visit func(idx uint32, n *Node[NV]) bool) {
	t.overlapping(0, lower, dims, visit)
}

func (t *Tree[LV, NV]) overlapping(idx uint32, lower, dims vec3.Vec3, visit func(uint32, *Node[NV]) bool) bool {
	n := &t.nodes[idx]
	if !boxesIntersect(n.Position, n.Dimensions, lower, dims, t.dim) {
		return true
	}
	if !visit(idx, n) {
		return false
	}
	if !n.HasChildren {
		return true
	}
	for c := 0; c < t.children; c++ {
		childIdx := idx + n.ChildOffsets[c]
		if !t.overlapping(childIdx, lower, dims, visit) {
			return false
		}
	}
	return true
}

func boxesIntersect(aPos, aDim, bPos, bDim vec3.Vec3, dim int) bool {
	for d := 0; d < dim; d++ {
		aLo, aHi := aPos.At(d), aPos.At(d)+aDim.At(d)
		bLo, bHi := bPos.At(d), bPos.At(d)+bDim.At(d)
		if aHi < bLo || bHi < aLo {
			return false
		}
	}
	return true
}

// Contains reports whether p lies in this node's half-open box, over the
// tree's first dim axes.
func (n *Node[NV]) Contains(p vec3.Vec3, dim int) bool { return n.contains(p, dim) }
