package moment

import "github.com/katalvlaran/nbody/vec3"

// Leaf is the moment carried directly by a leaf: a signed point charge.
type Leaf struct {
	Charge float64
}

// Node is the aggregate moment carried by a tree node, expanded about the
// node's geometric center: total charge, dipole moment, and the
// off-diagonal (Cross) and diagonal (Trace) components of the quadrupole
// tensor.
type Node struct {
	Charge     float64
	Dipole     vec3.Vec3
	QuadCross  vec3.Vec3
	QuadTrace  vec3.Vec3

	// pending counts how many of this node's children have not yet
	// reported their moment during aggregation. It is scratch state owned
	// entirely by Aggregate and is meaningless outside of a running
	// aggregation pass.
	pending uint32
	ready   bool
}

// Ready reports whether this node's moment reflects the most recent
// Aggregate pass. Aggregate clears this at the start of every pass and
// sets it as each node's moment is finalized.
func (n Node) Ready() bool { return n.ready }

// Charger is implemented by a tree's leaf value type to expose the scalar
// charge Aggregate needs; the engine's particle/body type satisfies it
// directly.
type Charger interface {
	ChargeValue() float64
}

// FromCharge builds the point moment of a single charge: no dipole or
// quadrupole contribution at its own expansion point.
func FromCharge(charge float64) Node {
	return Node{Charge: charge}
}

// Translate shifts m, expanded about some point P, to the moment of the
// same distribution expanded about P-delta (i.e. delta is the vector from
// the new expansion point to the old one). This is the rule of spec
// section 3.3: charge is invariant, dipole picks up charge*delta, and the
// quadrupole picks up the corresponding rank-2 correction.
func Translate(m Node, delta vec3.Vec3) Node {
	out := Node{Charge: m.Charge}
	out.Dipole = m.Dipole.Add(delta.Scale(m.Charge))

	// quad'_ii = quad_ii + 2*delta_i*dipole_i + charge*delta_i^2
	out.QuadTrace = vec3.Vec3{
		X: m.QuadTrace.X + 2*delta.X*m.Dipole.X + m.Charge*delta.X*delta.X,
		Y: m.QuadTrace.Y + 2*delta.Y*m.Dipole.Y + m.Charge*delta.Y*delta.Y,
		Z: m.QuadTrace.Z + 2*delta.Z*m.Dipole.Z + m.Charge*delta.Z*delta.Z,
	}
	// quad'_xy = quad_xy + (delta_x*dipole_y + delta_y*dipole_x) + charge*delta_x*delta_y,
	// and cyclically for yz, zx -- QuadCross packs (xy, yz, zx) in (X, Y, Z).
	out.QuadCross = vec3.Vec3{
		X: m.QuadCross.X + delta.X*m.Dipole.Y + delta.Y*m.Dipole.X + m.Charge*delta.X*delta.Y,
		Y: m.QuadCross.Y + delta.Y*m.Dipole.Z + delta.Z*m.Dipole.Y + m.Charge*delta.Y*delta.Z,
		Z: m.QuadCross.Z + delta.Z*m.Dipole.X + delta.X*m.Dipole.Z + m.Charge*delta.Z*delta.X,
	}
	return out
}

// Add combines two moments already expanded about the same point. Moment
// aggregation is associative and commutative once every contributor has
// been translated to a common center.
func Add(a, b Node) Node {
	return Node{
		Charge:    a.Charge + b.Charge,
		Dipole:    a.Dipole.Add(b.Dipole),
		QuadCross: a.QuadCross.Add(b.QuadCross),
		QuadTrace: a.QuadTrace.Add(b.QuadTrace),
	}
}
