package oracle

import (
	"math"

	"github.com/katalvlaran/nbody/vec3"
)

// Forces computes the direct O(N^2) force on every body: for every pair
// i<j, force = forceConstant * charge_i * charge_j * delta /
// (r^2+epsilon^2)^1.5, applied to i and the negated reaction to j.
//
// Delta uses every axis of the displacement -- a component-wise delta,
// not a single axis broadcast across all three -- and epsilon softens
// the singularity at r=0 the same way the tree-based near kernel does,
// so this oracle is directly comparable to the engine's output at
// theta=0.
func Forces(positions []vec3.Vec3, charges []float64, forceConstant, epsilon float64) ([]vec3.Vec3, error) {
	if len(positions) != len(charges) {
		return nil, ErrMismatchedLengths
	}
	forces := make([]vec3.Vec3, len(positions))
	for i := 1; i < len(positions); i++ {
		for j := 0; j < i; j++ {
			delta := positions[j].Sub(positions[i])
			denom := math.Pow(delta.NormSq()+epsilon*epsilon, 1.5)
			scale := forceConstant * charges[i] * charges[j] / denom
			f := delta.Scale(scale)
			forces[i] = forces[i].Add(f)
			forces[j] = forces[j].Sub(f)
		}
	}
	return forces, nil
}
