// Package mesh is the substrate the transfer pipeline operates on: vertex
// positions, triangle topology, named vertex groups and the owned shape
// library.
package mesh

import (
	"rpm-shape-transfer/internal/mathutil"
	"rpm-shape-transfer/internal/shape"
)

// Mesh holds geometry with a stable vertex index space. Vertex indices are
// valid for the lifetime of the instance; topology-changing operations
// (welding) must build a new Mesh rather than renumber this one.
type Mesh struct {
	Positions []mathutil.Vec3
	Faces     [][3]int
	Groups    map[string]*VertexGroup
	Shapes    *shape.Library

	adjacency [][]int // vertex -> neighbor vertices, built on demand
}

func New(positions []mathutil.Vec3, faces [][3]int) *Mesh {
	return &Mesh{
		Positions: positions,
		Faces:     faces,
		Groups:    make(map[string]*VertexGroup),
		Shapes:    shape.NewLibrary(),
	}
}

func (m *Mesh) VertexCount() int { return len(m.Positions) }
func (m *Mesh) FaceCount() int   { return len(m.Faces) }

// Clone deep-copies the mesh, including groups and shape keys.
func (m *Mesh) Clone() *Mesh {
	c := New(make([]mathutil.Vec3, len(m.Positions)), make([][3]int, len(m.Faces)))
	copy(c.Positions, m.Positions)
	copy(c.Faces, m.Faces)
	for name, g := range m.Groups {
		c.Groups[name] = g.Clone()
	}
	c.Shapes = m.Shapes.Clone()
	return c
}

// EvaluatedPositions returns base positions with all shape keys applied at
// their current weights.
func (m *Mesh) EvaluatedPositions() []mathutil.Vec3 {
	return m.Shapes.Displace(m.Positions)
}

// Adjacency returns, per vertex, the sorted unique neighbor vertices along
// face edges. Built once and cached; callers must not mutate Faces after
// the first call.
func (m *Mesh) Adjacency() [][]int {
	if m.adjacency != nil {
		return m.adjacency
	}
	sets := make([]map[int]struct{}, len(m.Positions))
	link := func(a, b int) {
		if sets[a] == nil {
			sets[a] = make(map[int]struct{}, 6)
		}
		sets[a][b] = struct{}{}
	}
	for _, f := range m.Faces {
		link(f[0], f[1])
		link(f[1], f[0])
		link(f[1], f[2])
		link(f[2], f[1])
		link(f[2], f[0])
		link(f[0], f[2])
	}
	adj := make([][]int, len(m.Positions))
	for i, s := range sets {
		if len(s) == 0 {
			continue
		}
		nb := make([]int, 0, len(s))
		for j := range s {
			nb = append(nb, j)
		}
		// Deterministic order for reproducible relaxation sweeps.
		sortInts(nb)
		adj[i] = nb
	}
	m.adjacency = adj
	return adj
}

func sortInts(a []int) {
	// Insertion sort: neighbor lists are tiny (valence ~6).
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j] < a[j-1]; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}

// Bounds returns the axis-aligned bounding box of the given positions, or
// of the mesh's own base positions when pos is nil.
func (m *Mesh) Bounds(pos []mathutil.Vec3) (min, max mathutil.Vec3) {
	if pos == nil {
		pos = m.Positions
	}
	if len(pos) == 0 {
		return mathutil.Vec3{}, mathutil.Vec3{}
	}
	min, max = pos[0], pos[0]
	for _, p := range pos[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max
}
