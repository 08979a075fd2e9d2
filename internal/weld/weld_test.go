package weld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpm-shape-transfer/internal/mathutil"
	"rpm-shape-transfer/internal/mesh"
	"rpm-shape-transfer/internal/shape"
)

// splitQuad builds two triangles that should share an edge but carry
// duplicated vertices along it, the typical hard-edge split from
// interchange import.
func splitQuad() *mesh.Mesh {
	return mesh.New([]mathutil.Vec3{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, // tri 1
		{1, 1, 0}, {0, 1, 0}, {0, 0, 0}, // tri 2, verts 3 and 5 duplicate 2 and 0
	}, [][3]int{{0, 1, 2}, {3, 4, 5}})
}

func TestWeldMergesDuplicates(t *testing.T) {
	m := splitQuad()
	welded, remap := Weld(m, nil, 1e-4)

	// Two clusters of two members each: 6 - 2 = 4 vertices.
	assert.Equal(t, 4, welded.VertexCount())
	assert.Len(t, remap, 6)
	assert.Equal(t, remap[2], remap[3])
	assert.Equal(t, remap[0], remap[5])
	assert.Equal(t, 2, welded.FaceCount())

	// Input mesh untouched: a new instance, fresh index space.
	assert.Equal(t, 6, m.VertexCount())
}

func TestWeldNeverIncreasesVertexCount(t *testing.T) {
	m := splitQuad()
	for _, tol := range []float64{0, 1e-6, 1e-4, 0.5, 10} {
		welded, _ := Weld(m, nil, tol)
		assert.LessOrEqual(t, welded.VertexCount(), m.VertexCount(), "tolerance %g", tol)
	}
}

func TestWeldClusterArithmetic(t *testing.T) {
	// k=3 clusters with 3, 2 and 1 members: expect 9 - (2+1+0) = 6... with
	// three lone extras the count is members minus one per cluster.
	positions := []mathutil.Vec3{
		{0, 0, 0}, {0, 0, 0}, {0, 0, 0}, // cluster of 3
		{5, 0, 0}, {5, 0, 1e-5}, // cluster of 2
		{9, 9, 9}, // singleton
	}
	m := mesh.New(positions, nil)
	welded, _ := Weld(m, nil, 1e-4)
	assert.Equal(t, 3, welded.VertexCount())
}

func TestWeldSubsetAndNoOps(t *testing.T) {
	m := splitQuad()

	// Empty (non-nil) subset: no-op.
	welded, _ := Weld(m, []int{}, 1e-4)
	assert.Equal(t, m.VertexCount(), welded.VertexCount())

	// Subset covering only one duplicate pair merges just that pair.
	welded, remap := Weld(m, []int{2, 3}, 1e-4)
	assert.Equal(t, 5, welded.VertexCount())
	assert.Equal(t, remap[2], remap[3])
	assert.NotEqual(t, remap[0], remap[5])

	// Empty mesh: no-op.
	empty, remap := Weld(mesh.New(nil, nil), nil, 1e-4)
	assert.Equal(t, 0, empty.VertexCount())
	assert.Empty(t, remap)
}

func TestWeldNegativeToleranceMergesExactOnly(t *testing.T) {
	m := mesh.New([]mathutil.Vec3{
		{0, 0, 0}, {0, 0, 0}, {0, 0, 1e-7},
	}, nil)
	welded, _ := Weld(m, nil, -1)
	assert.Equal(t, 2, welded.VertexCount())
}

func TestWeldAveragesPositions(t *testing.T) {
	m := mesh.New([]mathutil.Vec3{
		{0, 0, 0}, {1e-5, 0, 0},
	}, nil)
	welded, _ := Weld(m, nil, 1e-4)
	require.Equal(t, 1, welded.VertexCount())
	assert.InDelta(t, 5e-6, welded.Positions[0][0], 1e-12)
}

func TestWeldRemapsGroupsAndShapes(t *testing.T) {
	m := splitQuad()
	g := m.AddGroup("anchors")
	g.Assign([]int{2}, 1.0)
	g.Assign([]int{3}, 0.25)

	offs := make([]mathutil.Vec3, 6)
	offs[2] = mathutil.Vec3{0, 0, 1}
	offs[3] = mathutil.Vec3{0, 0, 3}
	m.Shapes.Put(&shape.Key{Name: "male", Offsets: offs})

	welded, remap := Weld(m, nil, 1e-4)

	// Max weight survives the merge.
	assert.Equal(t, 1.0, welded.Groups["anchors"].Weight(remap[2]))

	// Shape offsets are averaged per cluster.
	k, ok := welded.Shapes.Get("male")
	require.True(t, ok)
	assert.InDelta(t, 2.0, k.Offsets[remap[2]][2], 1e-12)
}

func TestWeldDropsDegenerateFaces(t *testing.T) {
	// A sliver triangle whose vertices all collapse into one cluster.
	m := mesh.New([]mathutil.Vec3{
		{0, 0, 0}, {1e-6, 0, 0}, {0, 1e-6, 0},
		{5, 0, 0}, {6, 0, 0}, {5, 1, 0},
	}, [][3]int{{0, 1, 2}, {3, 4, 5}})
	welded, _ := Weld(m, nil, 1e-4)
	assert.Equal(t, 4, welded.VertexCount())
	assert.Equal(t, 1, welded.FaceCount())
}
