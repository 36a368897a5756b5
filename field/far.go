package field

import (
	"math"

	"github.com/katalvlaran/nbody/interaction"
	"github.com/katalvlaran/nbody/kernel"
	"github.com/katalvlaran/nbody/moment"
	"github.com/katalvlaran/nbody/orthtree"
	"github.com/katalvlaran/nbody/vec3"
)

// ComputeFar evaluates every far pair's multipole-expansion contribution:
// every leaf under one side's subtree receives the
// field of the other side's aggregate moment, expanded about that other
// side's center and truncated at quadrupole order. Unlike near pairs, a
// far pair's sides can be internal nodes (an admissible distinct pair is
// accepted as far as soon as it opens, regardless of whether either side
// has been refined down to leaf-nodes), so every leaf in the subtree --
// not just the direct leaf-node -- receives a contribution; the slot
// layout's NodeFarAncestorBase locates that node's own reserved rank
// within any descendant leaf's per-leaf block.
//
// slots is the flat scratch buffer addressed by layout.FarBase; its
// length must be layout.FarBase[tree.NumLeaves()]. ex dispatches one work
// item per pair; each pair's two sides write to disjoint leaf ranges at a
// rank no other pair shares, so no synchronization is needed.
func ComputeFar[LV moment.Charger](ex kernel.Executor[int], tree *orthtree.Tree[LV, moment.Node], pairs []interaction.Pair, layout interaction.SlotLayout, cfg Config, slots []vec3.Vec3) error {
	return ex.Launch([]int{len(pairs)}, nil, func(id []int) error {
		p := pairs[id[0]]
		nodeA := tree.NodeAt(p.AIndex)
		nodeB := tree.NodeAt(p.BIndex)
		centerA := orthtree.Center(nodeA)
		centerB := orthtree.Center(nodeB)

		applySide(tree, nodeA, centerB, nodeB.Value, cfg, layout, layout.NodeFarAncestorBase[p.AIndex]+p.ASlot, slots)
		applySide(tree, nodeB, centerA, nodeA.Value, cfg, layout, layout.NodeFarAncestorBase[p.BIndex]+p.BSlot, slots)
		return nil
	})
}

func applySide[LV moment.Charger](tree *orthtree.Tree[LV, moment.Node], node *orthtree.Node[moment.Node], sourceCenter vec3.Vec3, source moment.Node, cfg Config, layout interaction.SlotLayout, rank uint32, slots []vec3.Vec3) {
	for l := node.LeafStart; l < node.LeafStart+node.LeafCount; l++ {
		leaf := tree.LeafAt(l)
		contrib := multipoleField(leaf.Position, sourceCenter, source, cfg.ForceConstant, leaf.Value.ChargeValue())
		slot := layout.FarBase[l] + rank
		slots[slot] = slots[slot].Add(contrib)
	}
}

// multipoleQuadTimesVec returns M*v for the symmetric second-moment
// tensor M encoded as m.QuadTrace (diagonal: xx,yy,zz) and m.QuadCross
// (off-diagonal: xy,yz,zx).
func multipoleQuadTimesVec(m moment.Node, v vec3.Vec3) vec3.Vec3 {
	return vec3.Vec3{
		X: m.QuadTrace.X*v.X + m.QuadCross.X*v.Y + m.QuadCross.Z*v.Z,
		Y: m.QuadCross.X*v.X + m.QuadTrace.Y*v.Y + m.QuadCross.Y*v.Z,
		Z: m.QuadCross.Z*v.X + m.QuadCross.Y*v.Y + m.QuadTrace.Z*v.Z,
	}
}

// multipoleField evaluates the force a source moment m, centered at
// sourceCenter, exerts on a leaf of charge leafCharge at targetPos,
// truncated at quadrupole order.
//
// Derivation: the pseudo-potential of a point charge q at s acting on a
// leaf at p is k*leafCharge*q/|p-s|, with force = +grad_p of that (the
// same gravity-like sign convention pairwiseNear uses: equal-sign charges
// attract). Replacing the point charge with a charge distribution and
// Taylor-expanding 1/|p-s| about the expansion center through second
// order in the source's displacement from center reproduces exactly the
// monopole/dipole/quadrupole terms below; m's fields are already those
// Taylor coefficients (moment.Translate/Aggregate build them as raw sums
// of charge times displacement powers, not the traceless reduced tensor
// some texts use), so no further conversion is needed.
func multipoleField(targetPos, sourceCenter vec3.Vec3, m moment.Node, forceConstant, leafCharge float64) vec3.Vec3 {
	r := targetPos.Sub(sourceCenter)
	r2 := r.NormSq()
	if r2 == 0 {
		return vec3.Zero
	}
	rNorm := math.Sqrt(r2)
	invR3 := 1 / (rNorm * r2)
	invR5 := invR3 / r2
	invR7 := invR5 / r2

	trM := m.QuadTrace.X + m.QuadTrace.Y + m.QuadTrace.Z
	mr := multipoleQuadTimesVec(m, r)
	rMr := r.Dot(mr)
	rD := r.Dot(m.Dipole)

	f := r.Scale(-m.Charge * invR3)
	f = f.Add(m.Dipole.Scale(invR3))
	f = f.Sub(r.Scale(3 * rD * invR5))
	f = f.Add(mr.Scale(3 * invR5))
	f = f.Add(r.Scale(1.5 * trM * invR5))
	f = f.Sub(r.Scale(7.5 * rMr * invR7))

	return f.Scale(forceConstant * leafCharge)
}
