package integrate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nbody/kernel"
	"github.com/katalvlaran/nbody/vec3"
)

func TestStepZeroForceIsExactAndReversible(t *testing.T) {
	ex := kernel.NewCPUExecutor[int](0)
	positions := []vec3.Vec3{{X: 1, Y: 2, Z: 3}}
	velocities := []vec3.Vec3{{X: 0.5, Y: -0.25, Z: 0}}
	masses := []float64{2}
	forces := []vec3.Vec3{{}}

	want := positions[0].Add(velocities[0].Scale(0.1))
	require.NoError(t, Step(ex, positions, velocities, masses, forces, 0.1))
	require.Equal(t, want, positions[0])
	require.Equal(t, vec3.Vec3{X: 0.5, Y: -0.25, Z: 0}, velocities[0], "zero force leaves velocity unchanged")

	// Reversing with -dt and the updated velocity returns the original
	// position exactly (symplectic Euler's time-reversibility for F=0).
	require.NoError(t, Step(ex, positions, velocities, masses, forces, -0.1))
	require.InDelta(t, 1, positions[0].X, 1e-12)
	require.InDelta(t, 2, positions[0].Y, 1e-12)
	require.InDelta(t, 3, positions[0].Z, 1e-12)
}

func TestStepUsesPreUpdateVelocityForPosition(t *testing.T) {
	ex := kernel.NewCPUExecutor[int](0)
	positions := []vec3.Vec3{{}}
	velocities := []vec3.Vec3{{X: 1}}
	masses := []float64{1}
	forces := []vec3.Vec3{{X: 10}}

	require.NoError(t, Step(ex, positions, velocities, masses, forces, 1))
	// Position must advance by the OLD velocity (1), not the new one (11).
	require.Equal(t, 1.0, positions[0].X)
	require.Equal(t, 11.0, velocities[0].X)
}

func TestStepRejectsMismatchedLengths(t *testing.T) {
	ex := kernel.NewCPUExecutor[int](0)
	err := Step(ex, []vec3.Vec3{{}}, nil, []float64{1}, []vec3.Vec3{{}}, 1)
	require.ErrorIs(t, err, ErrMismatchedLengths)
}

func TestStepRejectsNonPositiveMass(t *testing.T) {
	ex := kernel.NewCPUExecutor[int](0)
	err := Step(ex, []vec3.Vec3{{}}, []vec3.Vec3{{}}, []float64{0}, []vec3.Vec3{{}}, 1)
	require.ErrorIs(t, err, ErrNonPositiveMass)
}

func TestStepMultiBodyEachLeafIndependent(t *testing.T) {
	ex := kernel.NewCPUExecutor[int](4)
	n := 50
	positions := make([]vec3.Vec3, n)
	velocities := make([]vec3.Vec3, n)
	masses := make([]float64, n)
	forces := make([]vec3.Vec3, n)
	for i := range positions {
		velocities[i] = vec3.Vec3{X: float64(i)}
		masses[i] = 1
		forces[i] = vec3.Vec3{Y: float64(i)}
	}

	require.NoError(t, Step(ex, positions, velocities, masses, forces, 2))
	for i := range positions {
		require.Equal(t, float64(i)*2, positions[i].X)
		require.Equal(t, float64(i)*2, velocities[i].Y)
	}
}
