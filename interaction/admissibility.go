package interaction

import (
	"github.com/katalvlaran/nbody/orthtree"
)

// admissible implements the opening criterion for a
// distinct pair: s = max(extent of a, extent of b); r = distance between
// centers; admissible iff s/r <= theta. A zero-distance distinct pair
// (coincident centers) is never admissible -- s/0 is infinite.
func admissible[NV any](a, b *orthtree.Node[NV], theta float64) bool {
	s := a.Dimensions.MaxComponent()
	if bs := b.Dimensions.MaxComponent(); bs > s {
		s = bs
	}
	r := orthtree.Center(a).Sub(orthtree.Center(b)).Norm()
	if r == 0 {
		return false
	}
	return s/r <= theta
}
