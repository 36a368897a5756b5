// Package integrate advances leaf positions and velocities by one
// timestep using a kick-drift leapfrog scheme.
package integrate
