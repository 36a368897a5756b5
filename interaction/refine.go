package interaction

import (
	"github.com/katalvlaran/nbody/orthtree"
)

// walker holds the refinement worklist and the two output lists, in the
// same single-purpose-struct-plus-loop shape used elsewhere in this
// codebase for frontier processing.
type walker[LV any, NV any] struct {
	tree  *orthtree.Tree[LV, NV]
	theta float64

	queue []Pair
	near  []Pair
	far   []Pair
}

// Refine builds the near/far interaction lists for tree by breadth-first
// cell-pair refinement starting from the root self-pair.
// deviceMaxBufferBytes bounds how many refinable pairs are drained
// from the queue per round, mirroring the batch-size cap a real
// accelerator executor would impose on one kernel launch.
func Refine[LV any, NV any](tree *orthtree.Tree[LV, NV], theta float64, deviceMaxBufferBytes uint64) (near, far []Pair, err error) {
	if theta < 0 {
		return nil, nil, ErrInvalidTheta
	}
	batchSize, err := batchSize(tree.Children(), deviceMaxBufferBytes)
	if err != nil {
		return nil, nil, err
	}

	w := &walker[LV, NV]{
		tree:  tree,
		theta: theta,
		queue: []Pair{{AIndex: 0, BIndex: 0, Refinable: true}},
	}
	for len(w.queue) > 0 {
		n := batchSize
		if n > len(w.queue) {
			n = len(w.queue)
		}
		batch := w.queue[:n]
		w.queue = w.queue[n:]
		for _, p := range batch {
			w.refineOne(p)
		}
	}
	return w.near, w.far, nil
}

// batchSize computes how many refinable pairs may be drained per round:
// device_max_buffer_bytes / (children_per_node^2 * sizeof(Interaction))
// -- the worst-case per-pair child-pair count is
// children^2 (a distinct-pair refinement), so that bounds every batch
// entry's output regardless of whether it turns out to be a self-pair.
func batchSize(children int, deviceMaxBufferBytes uint64) (int, error) {
	perPair := uint64(children*children) * uint64(interactionRecordBytes)
	if perPair == 0 || deviceMaxBufferBytes < perPair {
		return 0, ErrInvalidBufferBudget
	}
	n := deviceMaxBufferBytes / perPair
	if n == 0 {
		return 0, ErrInvalidBufferBudget
	}
	if n > uint64(1<<30) {
		n = 1 << 30 // refuse to report an unbounded batch; plenty for any real tree
	}
	return int(n), nil
}

func (w *walker[LV, NV]) refineOne(p Pair) {
	a := w.tree.NodeAt(p.AIndex)
	if p.AIndex == p.BIndex {
		w.refineSelf(p.AIndex, a)
		return
	}
	b := w.tree.NodeAt(p.BIndex)
	w.refineDistinct(p.AIndex, p.BIndex, a, b)
}

// refineSelf expands the self-pair (idx, idx): if idx is a leaf-node, it
// is its own near-field interaction (direct sum over its own leaves);
// otherwise every pair of its children is classified, including each
// child's own self-pair.
func (w *walker[LV, NV]) refineSelf(idx uint32, n *orthtree.Node[NV]) {
	if !n.HasChildren {
		w.near = append(w.near, Pair{AIndex: idx, BIndex: idx})
		return
	}
	k := w.tree.Children()
	for ci := 0; ci < k; ci++ {
		cIdx := idx + n.ChildOffsets[ci]
		w.classifyCandidate(cIdx, cIdx)
	}
	// Upper-triangular only: child indices increase with sibling index,
	// so ci < cj already gives ascending node indices, which is enough to
	// dedup symmetric pairs.
	for ci := 0; ci < k; ci++ {
		for cj := ci + 1; cj < k; cj++ {
			w.classifyCandidate(idx+n.ChildOffsets[ci], idx+n.ChildOffsets[cj])
		}
	}
}

// refineDistinct expands a distinct pair (aIdx, bIdx). It is only ever
// reached via the queue, which classifyCandidate only populates with
// non-admissible distinct pairs where at least one side has children.
// The side without children (if any) stays fixed and only the side with
// children is opened, so a near pair can never end up with an internal
// node on either side -- every near pair that reaches the index/field
// stage is guaranteed leaf-vs-leaf. Because aIdx < bIdx and the two
// subtrees are disjoint ranges in pre-order (neither is an ancestor of
// the other, by construction), every child of a has a strictly smaller
// index than every child of b, so no additional ordering check is needed
// for the dedup invariant.
func (w *walker[LV, NV]) refineDistinct(aIdx, bIdx uint32, a, b *orthtree.Node[NV]) {
	k := w.tree.Children()
	switch {
	case a.HasChildren && b.HasChildren:
		for ca := 0; ca < k; ca++ {
			for cb := 0; cb < k; cb++ {
				w.classifyCandidate(aIdx+a.ChildOffsets[ca], bIdx+b.ChildOffsets[cb])
			}
		}
	case a.HasChildren:
		for ca := 0; ca < k; ca++ {
			w.classifyCandidate(aIdx+a.ChildOffsets[ca], bIdx)
		}
	case b.HasChildren:
		for cb := 0; cb < k; cb++ {
			w.classifyCandidate(aIdx, bIdx+b.ChildOffsets[cb])
		}
	default:
		panic("interaction: refineDistinct called on a non-refinable pair -- invariant violated")
	}
}

// classifyCandidate classifies one candidate child-pair as near, far, or
// still-refinable, appending it to near, far, or back onto the refinable
// queue. A distinct pair is only ever near once neither side has
// children left to open -- as long as either side still has children,
// a non-admissible pair keeps refining (opening the side that has them)
// rather than falling back to a direct sum against an entire internal
// subtree.
func (w *walker[LV, NV]) classifyCandidate(aIdx, bIdx uint32) {
	a := w.tree.NodeAt(aIdx)
	b := w.tree.NodeAt(bIdx)

	if aIdx == bIdx {
		// A node is never admissibly far from itself; as long as it has
		// children it stays refinable, otherwise it is its own near pair.
		if a.HasChildren {
			w.queue = append(w.queue, Pair{AIndex: aIdx, BIndex: bIdx, Refinable: true})
		} else {
			w.near = append(w.near, Pair{AIndex: aIdx, BIndex: bIdx})
		}
		return
	}
	if admissible(a, b, w.theta) {
		w.far = append(w.far, Pair{AIndex: aIdx, BIndex: bIdx, Admissible: true})
		return
	}
	if a.HasChildren || b.HasChildren {
		w.queue = append(w.queue, Pair{AIndex: aIdx, BIndex: bIdx, Refinable: true})
		return
	}
	w.near = append(w.near, Pair{AIndex: aIdx, BIndex: bIdx})
}
