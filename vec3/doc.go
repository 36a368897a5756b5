// Package vec3 provides a fixed three-component floating point vector with
// elementwise arithmetic. It is the only "tensor" type the force engine
// needs: positions, velocities, forces, and the dipole/quadrupole moment
// components of moment.Node are all vec3.Vec3 triples.
//
// A Vec3 is a plain value type: no pointers, no hidden state, safe for
// concurrent read access and for copying by value across kernel buffers.
package vec3
