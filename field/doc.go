// Package field evaluates the pairwise Coulomb/Newton field and force
// contributions that the interaction engine's near- and far-pair lists
// describe: direct leaf-to-leaf sums for near pairs, and a quadrupole-order
// multipole expansion of the peer's aggregate moment for far pairs. A final
// force-extraction pass sums every slot belonging to a leaf into one Vec3.
package field
