package field

import (
	"math"

	"github.com/katalvlaran/nbody/interaction"
	"github.com/katalvlaran/nbody/kernel"
	"github.com/katalvlaran/nbody/moment"
	"github.com/katalvlaran/nbody/orthtree"
	"github.com/katalvlaran/nbody/vec3"
)

// ComputeNear evaluates every near pair's direct Coulomb/Newton field
// contribution: for each pair, every leaf of one side is tiled against
// every leaf of the other, in a tile of width max_peer_leaves -- exactly
// the shape interaction.ComputeSlots reserved slots for. Near pairs are
// always leaf-vs-leaf (interaction.Refine never classifies an internal
// node into a near pair), so LeafStart/LeafCount here always range over
// a single node's own leaves, never a subtree.
//
// ex dispatches one work item per pair; every pair writes to a disjoint
// range of slots (its own ASlot/BSlot rank within each side's reserved
// block), so no synchronization is needed across work items: writes by
// distinct work items address distinct memory.
//
// slots is the flat scratch buffer addressed by layout.NearBase; its
// length must be layout.NearBase[tree.NumLeaves()].
func ComputeNear[LV moment.Charger](ex kernel.Executor[int], tree *orthtree.Tree[LV, moment.Node], pairs []interaction.Pair, layout interaction.SlotLayout, cfg Config, slots []vec3.Vec3) error {
	return ex.Launch([]int{len(pairs)}, nil, func(id []int) error {
		p := pairs[id[0]]
		nodeA := tree.NodeAt(p.AIndex)
		nodeB := tree.NodeAt(p.BIndex)
		self := p.AIndex == p.BIndex

		for la := nodeA.LeafStart; la < nodeA.LeafStart+nodeA.LeafCount; la++ {
			leafA := tree.LeafAt(la)
			localA := la - nodeA.LeafStart
			for lb := nodeB.LeafStart; lb < nodeB.LeafStart+nodeB.LeafCount; lb++ {
				if self && lb <= la {
					continue // upper-triangular: skip self and already-visited pairs
				}
				leafB := tree.LeafAt(lb)
				localB := lb - nodeB.LeafStart

				contrib := pairwiseNear(leafA.Position, leafB.Position, leafA.Value.ChargeValue(), leafB.Value.ChargeValue(), cfg)

				slotA := layout.NearBase[la] + p.ASlot + localB
				slots[slotA] = slots[slotA].Add(contrib)
				slotB := layout.NearBase[lb] + p.BSlot + localA
				slots[slotB] = slots[slotB].Sub(contrib)
			}
		}
		return nil
	})
}

// pairwiseNear returns the field contribution exerted on a leaf at posA
// by a leaf at posB, with Epsilon softening the denominator so it stays
// finite as posA and posB coincide. Delta uses every axis of the
// displacement, so the resulting contribution is never artificially
// aligned to a single coordinate axis.
func pairwiseNear(posA, posB vec3.Vec3, chargeA, chargeB float64, cfg Config) vec3.Vec3 {
	delta := posB.Sub(posA)
	denom := math.Pow(delta.NormSq()+cfg.Epsilon*cfg.Epsilon, 1.5)
	scale := cfg.ForceConstant * chargeA * chargeB / denom
	return delta.Scale(scale)
}
