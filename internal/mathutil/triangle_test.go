package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClosestPointTriangleInterior(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{2, 0, 0}
	c := Vec3{0, 2, 0}

	// Directly above the centroid: closest point is the projection.
	p := Vec3{2.0 / 3, 2.0 / 3, 5}
	pt, bary := ClosestPointTriangle(p, a, b, c)
	assert.InDelta(t, 2.0/3, pt[0], 1e-12)
	assert.InDelta(t, 2.0/3, pt[1], 1e-12)
	assert.InDelta(t, 0, pt[2], 1e-12)
	assert.InDelta(t, 1.0/3, bary[0], 1e-12)
	assert.InDelta(t, 1.0/3, bary[1], 1e-12)
	assert.InDelta(t, 1.0/3, bary[2], 1e-12)
}

func TestClosestPointTriangleVertexRegions(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{1, 0, 0}
	c := Vec3{0, 1, 0}

	cases := []struct {
		p    Vec3
		want Vec3
		bary [3]float64
	}{
		{Vec3{-1, -1, 0}, a, [3]float64{1, 0, 0}},
		{Vec3{3, -1, 2}, b, [3]float64{0, 1, 0}},
		{Vec3{-1, 3, -2}, c, [3]float64{0, 0, 1}},
	}
	for _, tc := range cases {
		pt, bary := ClosestPointTriangle(tc.p, a, b, c)
		assert.Equal(t, tc.want, pt)
		assert.Equal(t, tc.bary, bary)
	}
}

func TestClosestPointTriangleEdge(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{2, 0, 0}
	c := Vec3{0, 2, 0}

	// Below edge AB, halfway along.
	pt, bary := ClosestPointTriangle(Vec3{1, -1, 0}, a, b, c)
	assert.InDelta(t, 1, pt[0], 1e-12)
	assert.InDelta(t, 0, pt[1], 1e-12)
	assert.InDelta(t, 0.5, bary[0], 1e-12)
	assert.InDelta(t, 0.5, bary[1], 1e-12)
	assert.InDelta(t, 0, bary[2], 1e-12)
}

func TestClosestPointBarycentricReconstruction(t *testing.T) {
	a := Vec3{0.3, -1.2, 0.5}
	b := Vec3{2.1, 0.4, -0.3}
	c := Vec3{-0.7, 1.9, 1.1}

	for _, p := range []Vec3{{0, 0, 0}, {5, 2, -3}, {0.5, 0.5, 0.5}, {-2, -2, 2}} {
		pt, bary := ClosestPointTriangle(p, a, b, c)
		rec := a.Scale(bary[0]).Add(b.Scale(bary[1])).Add(c.Scale(bary[2]))
		require.InDelta(t, pt[0], rec[0], 1e-9)
		require.InDelta(t, pt[1], rec[1], 1e-9)
		require.InDelta(t, pt[2], rec[2], 1e-9)
		assert.InDelta(t, 1.0, bary[0]+bary[1]+bary[2], 1e-9)
	}
}

func TestTriangleNormal(t *testing.T) {
	n := TriangleNormal(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0}).Normalize()
	assert.InDelta(t, 0, n[0], 1e-12)
	assert.InDelta(t, 0, n[1], 1e-12)
	assert.InDelta(t, 1, n[2], 1e-12)

	// Degenerate triangle collapses to zero.
	assert.Equal(t, Vec3{}, TriangleNormal(Vec3{0, 0, 0}, Vec3{1, 1, 1}, Vec3{2, 2, 2}))
}
