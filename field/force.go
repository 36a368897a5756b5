package field

import (
	"github.com/katalvlaran/nbody/interaction"
	"github.com/katalvlaran/nbody/kernel"
	"github.com/katalvlaran/nbody/vec3"
)

// ExtractForces sums every near- and far-field slot belonging to each
// leaf into a single force vector. out must have length layout's leaf
// count; it is overwritten,
// not accumulated into. ex dispatches one work item per leaf; every leaf
// only ever reads its own slot ranges and writes its own out entry.
func ExtractForces(ex kernel.Executor[int], layout interaction.SlotLayout, nearSlots, farSlots []vec3.Vec3, out []vec3.Vec3) error {
	numLeaves := len(layout.NearBase) - 1
	return ex.Launch([]int{numLeaves}, nil, func(id []int) error {
		l := id[0]
		sum := vec3.Zero
		for _, v := range nearSlots[layout.NearBase[l]:layout.NearBase[l+1]] {
			sum = sum.Add(v)
		}
		for _, v := range farSlots[layout.FarBase[l]:layout.FarBase[l+1]] {
			sum = sum.Add(v)
		}
		out[l] = sum
		return nil
	})
}
