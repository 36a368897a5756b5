package vec3_test

import (
	"testing"

	"github.com/katalvlaran/nbody/vec3"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	t.Parallel()

	a := vec3.Vec3{X: 1, Y: 2, Z: 3}
	b := vec3.Vec3{X: 4, Y: -1, Z: 0.5}

	require.Equal(t, vec3.Vec3{X: 5, Y: 1, Z: 3.5}, a.Add(b))
	require.Equal(t, vec3.Vec3{X: -3, Y: 3, Z: 2.5}, a.Sub(b))
	require.Equal(t, vec3.Vec3{X: 2, Y: 4, Z: 6}, a.Scale(2))
	require.Equal(t, vec3.Vec3{X: 4, Y: -2, Z: 1.5}, a.Mul(b))
	require.InDelta(t, 4-2+1.5, a.Dot(b), 1e-12)
	require.Equal(t, vec3.Vec3{X: -1, Y: -2, Z: -3}, a.Neg())
}

func TestNorm(t *testing.T) {
	t.Parallel()

	v := vec3.Vec3{X: 3, Y: 4, Z: 0}
	require.InDelta(t, 25, v.NormSq(), 1e-12)
	require.InDelta(t, 5, v.Norm(), 1e-12)
}

func TestAtAndWithAt(t *testing.T) {
	t.Parallel()

	v := vec3.Vec3{X: 1, Y: 2, Z: 3}
	for d, want := range []float64{1, 2, 3} {
		require.Equal(t, want, v.At(d))
	}

	v2 := v.WithAt(1, 9)
	require.Equal(t, vec3.Vec3{X: 1, Y: 9, Z: 3}, v2)
	require.Equal(t, vec3.Vec3{X: 1, Y: 2, Z: 3}, v, "WithAt must not mutate receiver")
}

func TestAtPanicsOutOfRange(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		vec3.Vec3{}.At(3)
	})
}

func TestMinMaxComponent(t *testing.T) {
	t.Parallel()

	v := vec3.Vec3{X: -1, Y: 5, Z: 2}
	require.Equal(t, 5.0, v.MaxComponent())
	require.Equal(t, -1.0, v.MinComponent())

	w := vec3.Vec3{X: 3, Y: -2, Z: 7}
	require.Equal(t, vec3.Vec3{X: 3, Y: 5, Z: 7}, v.Max(w))
}
