package integrate

import (
	"github.com/katalvlaran/nbody/kernel"
	"github.com/katalvlaran/nbody/vec3"
)

// Step advances every leaf by one kick-drift leapfrog timestep:
//
//	v_new = v + (F / m) * dt
//	p_new = p + v * dt   // pre-update v
//
// positions and velocities are updated in place; masses and forces are
// read-only. For zero force this is exact and time-reversible. ex
// dispatches one work item per leaf; every leaf only ever reads and
// writes its own slice index.
func Step(ex kernel.Executor[int], positions, velocities []vec3.Vec3, masses []float64, forces []vec3.Vec3, dt float64) error {
	n := len(positions)
	if len(velocities) != n || len(masses) != n || len(forces) != n {
		return ErrMismatchedLengths
	}
	for _, m := range masses {
		if m <= 0 {
			return ErrNonPositiveMass
		}
	}

	return ex.Launch([]int{n}, nil, func(id []int) error {
		i := id[0]
		vOld := velocities[i]
		velocities[i] = vOld.Add(forces[i].Scale(dt / masses[i]))
		positions[i] = positions[i].Add(vOld.Scale(dt))
		return nil
	})
}
