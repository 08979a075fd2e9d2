package bind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpm-shape-transfer/internal/mathutil"
	"rpm-shape-transfer/internal/mesh"
)

func quadSource() *mesh.Mesh {
	return mesh.New([]mathutil.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	}, [][3]int{{0, 1, 2}, {0, 2, 3}})
}

func TestComputeDegenerateSource(t *testing.T) {
	target := quadSource()
	source := mesh.New([]mathutil.Vec3{{0, 0, 0}}, nil)

	_, err := Compute(target, source)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateSource)
}

func TestComputeDeterministic(t *testing.T) {
	source := quadSource()
	target := mesh.New([]mathutil.Vec3{
		{0.2, 0.1, 0.5}, {0.8, 0.9, -0.3}, {0.5, 0.5, 0.01}, {2, 2, 2},
	}, nil)

	b1, err := Compute(target, source)
	require.NoError(t, err)
	b2, err := Compute(target, source)
	require.NoError(t, err)
	assert.Equal(t, b1.Entries, b2.Entries)
}

func TestComputeTieResolvesToLowestFace(t *testing.T) {
	// Two identical stacked faces: every query ties, face 0 must win.
	source := mesh.New([]mathutil.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0},
	}, [][3]int{{0, 1, 2}, {0, 1, 2}})
	target := mesh.New([]mathutil.Vec3{{0.25, 0.25, 1}, {0.1, 0.1, -2}}, nil)

	b, err := Compute(target, source)
	require.NoError(t, err)
	for _, e := range b.Entries {
		assert.Equal(t, 0, e.Face)
	}
}

func TestBindingTracksSurface(t *testing.T) {
	source := quadSource()
	// Target vertices sit on the surface and slightly above it.
	target := mesh.New([]mathutil.Vec3{
		{0.25, 0.25, 0},
		{0.75, 0.25, 0.5},
	}, nil)

	b, err := Compute(target, source)
	require.NoError(t, err)

	// Undisplaced source reproduces the target's base positions.
	same := b.Evaluate(source.Positions)
	for i, p := range same {
		require.InDelta(t, target.Positions[i][0], p[0], 1e-9)
		require.InDelta(t, target.Positions[i][1], p[1], 1e-9)
		require.InDelta(t, target.Positions[i][2], p[2], 1e-9)
	}

	// Rigid translation of the source carries bound vertices along.
	shift := mathutil.Vec3{0.1, -0.2, 0.3}
	displaced := make([]mathutil.Vec3, len(source.Positions))
	for i, p := range source.Positions {
		displaced[i] = p.Add(shift)
	}
	moved := b.Evaluate(displaced)
	for i := range moved {
		want := target.Positions[i].Add(shift)
		assert.InDelta(t, want[0], moved[i][0], 1e-9)
		assert.InDelta(t, want[1], moved[i][1], 1e-9)
		assert.InDelta(t, want[2], moved[i][2], 1e-9)
	}
}

func TestBindingOffsetSign(t *testing.T) {
	source := quadSource()
	above := mesh.New([]mathutil.Vec3{{0.5, 0.25, 0.7}}, nil)
	below := mesh.New([]mathutil.Vec3{{0.5, 0.25, -0.7}}, nil)

	ba, err := Compute(above, source)
	require.NoError(t, err)
	bb, err := Compute(below, source)
	require.NoError(t, err)

	assert.InDelta(t, 0.7, ba.Entries[0].Offset, 1e-9)
	assert.InDelta(t, -0.7, bb.Entries[0].Offset, 1e-9)
}
