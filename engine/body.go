package engine

import "github.com/katalvlaran/nbody/vec3"

// Body is the leaf value an Engine's tree carries: the per-particle state
// that survives a rebuild (velocity, mass, charge), as distinct from
// position, which the tree itself owns. Body implements moment.Charger.
type Body struct {
	Velocity vec3.Vec3
	Mass     float64
	Charge   float64
}

// ChargeValue implements moment.Charger.
func (b Body) ChargeValue() float64 { return b.Charge }

// Particle is the host-facing view of one tracked body, returned by
// Engine.Particles and accepted by Engine.Insert -- position and velocity
// together, in contrast to Body, which the tree stores alongside its own
// position field.
type Particle struct {
	Position vec3.Vec3
	Velocity vec3.Vec3
	Mass     float64
	Charge   float64
}
