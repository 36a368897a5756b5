package interaction

import "github.com/katalvlaran/nbody/orthtree"

// SlotLayout is the dense per-leaf field-slot layout: a prefix-sum array
// over leaves (length NumLeaves+1), giving each leaf a
// contiguous, non-overlapping run of scratch slots to write its
// near-field and far-field contributions into.
type SlotLayout struct {
	NearBase []uint32
	FarBase  []uint32

	// NodeFarAncestorBase[n] is the number of far-field slots a descendant
	// leaf of n must skip, within its own FarBase block, to reach the
	// slots node n itself (as opposed to one of n's ancestors) owns --
	// i.e. nFarPath of n's parent, or 0 at the root. A far pair's ASlot/
	// BSlot are ranks among the interactions owned directly by their node,
	// so a leaf's absolute slot for a pair owned by ancestor n is
	// FarBase[leaf] + NodeFarAncestorBase[n] + pair.ASlot (or BSlot).
	NodeFarAncestorBase []uint32
}

// NearSlotCount returns the number of near-field scratch slots reserved
// for leaf l.
func (s SlotLayout) NearSlotCount(l uint32) uint32 { return s.NearBase[l+1] - s.NearBase[l] }

// FarSlotCount returns the number of far-field scratch slots reserved for
// leaf l.
func (s SlotLayout) FarSlotCount(l uint32) uint32 { return s.FarBase[l+1] - s.FarBase[l] }

// ComputeSlots assigns each pair's ASlot/BSlot and returns the leaf-level
// prefix-sum layout those slots live in. near and far are mutated in
// place (ASlot/BSlot fields populated).
//
// Near slots: every leaf in leaf-node k reserves n_near[k] *
// max_peer_leaves[k] slots, where n_near[k] counts k's near-interactions
// and max_peer_leaves[k] is the largest peer.leaf_count among them (the
// near-field kernel's tile width).
//
// Far slots: every leaf in node k reserves n_far_path[k] slots, one per
// far-interaction that k or any of its ancestors participates in (the far
// kernel evaluates one multipole value per far-pair per leaf on each
// side, with no peer-leaf tiling).
func ComputeSlots[LV any, NV any](tree *orthtree.Tree[LV, NV], near, far []Pair) SlotLayout {
	numNodes := tree.NumNodes()
	nNear := make([]uint32, numNodes)
	maxPeerLeaves := make([]uint32, numNodes)

	recordNearSide := func(self, peer uint32) {
		nNear[self]++
		if peerLeaves := tree.NodeAt(peer).LeafCount; peerLeaves > maxPeerLeaves[self] {
			maxPeerLeaves[self] = peerLeaves
		}
	}
	for i := range near {
		p := &near[i]
		recordNearSide(p.AIndex, p.BIndex)
		if p.AIndex != p.BIndex {
			recordNearSide(p.BIndex, p.AIndex)
		}
	}

	nFarOwn := make([]uint32, numNodes)
	for i := range far {
		p := &far[i]
		nFarOwn[p.AIndex]++
		if p.BIndex != p.AIndex {
			nFarOwn[p.BIndex]++
		}
	}
	// Propagate each node's own far-interaction count down to its
	// descendants by a single pre-order pass: a node's path-count is its
	// parent's path-count plus its own, and parents are always visited
	// before their children in pre-order.
	nFarPath := make([]uint32, numNodes)
	ancestorBase := make([]uint32, numNodes)
	tree.PreOrder(func(idx uint32, node *orthtree.Node[NV]) bool {
		if !node.HasParent {
			ancestorBase[idx] = 0
			nFarPath[idx] = nFarOwn[idx]
			return true
		}
		parentIdx := uint32(int64(idx) + int64(node.ParentOffset))
		ancestorBase[idx] = nFarPath[parentIdx]
		nFarPath[idx] = nFarPath[parentIdx] + nFarOwn[idx]
		return true
	})

	numLeaves := uint32(tree.NumLeaves())
	layout := SlotLayout{
		NearBase:            make([]uint32, numLeaves+1),
		FarBase:             make([]uint32, numLeaves+1),
		NodeFarAncestorBase: ancestorBase,
	}
	tree.LeafNodes(func(idx uint32, node *orthtree.Node[NV]) bool {
		perLeafNear := nNear[idx] * maxPeerLeaves[idx]
		perLeafFar := nFarPath[idx]
		for l := node.LeafStart; l < node.LeafStart+node.LeafCount; l++ {
			layout.NearBase[l+1] = layout.NearBase[l] + perLeafNear
			layout.FarBase[l+1] = layout.FarBase[l] + perLeafFar
		}
		return true
	})

	assignSlots(tree, near, nNear, maxPeerLeaves)
	assignFarSlots(far, nFarOwn)

	return layout
}

// assignSlots gives each near-pair's two sides a distinct slot within
// their respective leaf-node's reserved block: slot index within the
// block is simply that pair's rank among the node's near-interactions so
// far, times the node's max-peer-leaves tile width (field kernels address
// individual peer leaves within that tile themselves).
func assignSlots[LV any, NV any](tree *orthtree.Tree[LV, NV], near []Pair, nNear, maxPeerLeaves []uint32) {
	used := make([]uint32, tree.NumNodes())
	for i := range near {
		p := &near[i]
		p.ASlot = used[p.AIndex] * maxPeerLeaves[p.AIndex]
		used[p.AIndex]++
		if p.BIndex != p.AIndex {
			p.BSlot = used[p.BIndex] * maxPeerLeaves[p.BIndex]
			used[p.BIndex]++
		} else {
			p.BSlot = p.ASlot
		}
	}
}

// assignFarSlots gives each far-pair's two sides a distinct rank among
// the direct (non-path-propagated) far-interactions of that exact node.
func assignFarSlots(far []Pair, nFarOwn []uint32) {
	used := make([]uint32, len(nFarOwn))
	for i := range far {
		p := &far[i]
		p.ASlot = used[p.AIndex]
		used[p.AIndex]++
		if p.BIndex != p.AIndex {
			p.BSlot = used[p.BIndex]
			used[p.BIndex]++
		} else {
			p.BSlot = p.ASlot
		}
	}
}
