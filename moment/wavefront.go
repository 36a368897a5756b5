package moment

import (
	"github.com/katalvlaran/nbody/orthtree"
)

// Aggregate runs a two-kernel, wave-fronted bottom-up moment pass over
// tree: a leaf-to-node kernel computes every leaf-node's moment directly
// from its leaves, then repeated node-to-node kernels aggregate each
// wavefront's nodes from their (already-ready) children, until the
// wavefront empties. It returns the total number of kernel waves run,
// counting the initial leaf-to-node kernel as wave 1 -- a depth-6 tree
// finishes in exactly 7 waves, one leaf-to-node wave plus 6 node-to-node
// waves, one per internal depth.
//
// LV must expose a scalar charge via ChargeValue; Aggregate treats every
// leaf as a point monopole at its position.
func Aggregate[LV Charger](tree *orthtree.Tree[LV, Node]) (waves int, err error) {
	if tree.NumLeaves() == 0 {
		return 0, ErrEmptyTree
	}

	n := tree.NumNodes()
	// Reset scratch state left over from a previous pass.
	for i := 0; i < n; i++ {
		node := tree.NodeAt(uint32(i))
		node.Value.ready = false
		if node.HasChildren {
			node.Value.pending = uint32(tree.Children())
		}
	}

	var next []uint32
	leafToNodeKernel(tree, &next)
	waves = 1 // the leaf-to-node kernel is itself the first wave

	for len(next) > 0 {
		wave := compact(next)
		next = next[:0]
		nodeToNodeKernel(tree, wave, &next)
		waves++
	}

	return waves, nil
}

// leafToNodeKernel computes the moment of every leaf-node (one work item
// per node, order-independent) and emits each node's parent into next the
// moment it completes the parent's last pending child.
func leafToNodeKernel[LV Charger](tree *orthtree.Tree[LV, Node], next *[]uint32) {
	n := tree.NumNodes()
	for i := 0; i < n; i++ {
		node := tree.NodeAt(uint32(i))
		if node.HasChildren {
			continue
		}
		node.Value = finalizeLeafNode(tree, uint32(i))
		reportReady(tree, uint32(i), next)
	}
}

// nodeToNodeKernel aggregates every node in the current wavefront from its
// children (guaranteed ready by construction) and emits completed parents
// into next.
func nodeToNodeKernel[LV Charger](tree *orthtree.Tree[LV, Node], wave []uint32, next *[]uint32) {
	for _, idx := range wave {
		node := tree.NodeAt(idx)
		center := orthtree.Center(node)

		agg := Node{}
		for c := 0; c < tree.Children(); c++ {
			childIdx := idx + node.ChildOffsets[c]
			child := tree.NodeAt(childIdx)
			delta := orthtree.Center(child).Sub(center)
			agg = Add(agg, Translate(child.Value, delta))
		}
		agg.ready = true
		node.Value = agg
		reportReady(tree, idx, next)
	}
}

// finalizeLeafNode computes a leaf-node's own moment directly from its
// leaves, each translated from the leaf's own position (its trivial,
// zero-extent expansion point) to the node's geometric center.
func finalizeLeafNode[LV Charger](tree *orthtree.Tree[LV, Node], idx uint32) Node {
	node := tree.NodeAt(idx)
	center := orthtree.Center(node)

	agg := Node{}
	for l := node.LeafStart; l < node.LeafStart+node.LeafCount; l++ {
		leaf := tree.LeafAt(l)
		delta := leaf.Position.Sub(center)
		point := FromCharge(leaf.Value.ChargeValue())
		agg = Add(agg, Translate(point, delta))
	}
	agg.ready = true
	return agg
}

// reportReady decrements idx's parent's pending-child counter (if any)
// and, if that was the parent's last pending child, appends the parent to
// next: a node only enters the next wavefront once every one of its
// children has finished.
func reportReady[LV Charger](tree *orthtree.Tree[LV, Node], idx uint32, next *[]uint32) {
	node := tree.NodeAt(idx)
	if !node.HasParent {
		return
	}
	parentIdx := uint32(int64(idx) + int64(node.ParentOffset))
	parent := tree.NodeAt(parentIdx)
	parent.Value.pending--
	if parent.Value.pending == 0 {
		*next = append(*next, parentIdx)
	}
}

// compact returns wave with any duplicate entries removed. A node can only
// be its parent's "last pending child" once, so duplicates cannot arise in
// practice; compact exists to make that invariant explicit and cheap to
// check between kernel waves.
func compact(wave []uint32) []uint32 {
	seen := make(map[uint32]struct{}, len(wave))
	out := wave[:0:0]
	for _, idx := range wave {
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		out = append(out, idx)
	}
	return out
}

// RootMoment returns the tree root's aggregate moment, valid only after a
// successful Aggregate call. Exposed for the root-monopole invariant
// test: root.moment.charge must equal the sum of all leaf charges.
func RootMoment[LV Charger](tree *orthtree.Tree[LV, Node]) Node {
	return tree.NodeAt(0).Value
}
