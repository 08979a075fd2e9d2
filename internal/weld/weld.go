// Package weld merges near-coincident vertices. Interchange formats split
// vertices at hard edges (same position, different normals/UVs); left
// un-welded, the propagator treats the duplicates as independent anchors
// and the transferred deformation tears at the seams.
package weld

import (
	"math"

	"rpm-shape-transfer/internal/mathutil"
	"rpm-shape-transfer/internal/mesh"
	"rpm-shape-transfer/internal/shape"
)

// DefaultTolerance is the merge distance used when the caller passes no
// explicit tolerance. Matches the interchange-import welding distance the
// asset pipeline has been validated against.
const DefaultTolerance = 1e-4

// Weld merges all vertices within tolerance of each other into one vertex
// placed at the cluster average, and rebuilds topology in a NEW mesh with a
// fresh index space. Vertex groups keep the maximum member weight; shape
// key offsets are averaged per cluster. Degenerate faces produced by the
// merge are dropped.
//
// subset restricts merging to the given vertex indices; nil means all
// vertices, an empty non-nil slice is a no-op. A negative tolerance is
// treated as zero (only exact duplicates merge). There is no error path:
// welding an empty mesh is a no-op.
//
// The returned remap slice maps each old vertex index to its new index.
// Any deformation binding computed against the input mesh is stale after
// this call and must be recomputed.
func Weld(m *mesh.Mesh, subset []int, tolerance float64) (*mesh.Mesh, []int) {
	n := m.VertexCount()
	if tolerance < 0 {
		tolerance = 0
	}

	eligible := make([]bool, n)
	if subset == nil {
		for i := range eligible {
			eligible[i] = true
		}
	} else {
		for _, i := range subset {
			if i >= 0 && i < n {
				eligible[i] = true
			}
		}
	}

	uf := newUnionFind(n)
	if n > 0 {
		clusterize(m.Positions, eligible, tolerance, uf)
	}

	// New index space: clusters numbered by their lowest member index, in
	// ascending order, so repeated welds are reproducible.
	remap := make([]int, n)
	newIndex := make(map[int]int)
	count := 0
	for i := 0; i < n; i++ {
		root := uf.find(i)
		ni, ok := newIndex[root]
		if !ok {
			ni = count
			newIndex[root] = ni
			count++
		}
		remap[i] = ni
	}

	positions := make([]mathutil.Vec3, count)
	members := make([]int, count)
	for i := 0; i < n; i++ {
		ni := remap[i]
		positions[ni] = positions[ni].Add(m.Positions[i])
		members[ni]++
	}
	for i := range positions {
		positions[i] = positions[i].Scale(1 / float64(members[i]))
	}

	faces := make([][3]int, 0, len(m.Faces))
	for _, f := range m.Faces {
		nf := [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
		if nf[0] == nf[1] || nf[1] == nf[2] || nf[0] == nf[2] {
			continue
		}
		faces = append(faces, nf)
	}

	out := mesh.New(positions, faces)
	for name, g := range m.Groups {
		ng := out.AddGroup(name)
		for _, i := range g.Indices() {
			w := g.Weight(i)
			if w > ng.Weight(remap[i]) {
				ng.Assign([]int{remap[i]}, w)
			}
		}
	}
	for _, name := range m.Shapes.Names() {
		k, _ := m.Shapes.Get(name)
		offs := make([]mathutil.Vec3, count)
		for i := 0; i < n && i < len(k.Offsets); i++ {
			ni := remap[i]
			offs[ni] = offs[ni].Add(k.Offsets[i])
		}
		for i := range offs {
			offs[i] = offs[i].Scale(1 / float64(members[i]))
		}
		out.Shapes.Put(&shape.Key{Name: k.Name, Offsets: offs, Weight: k.Weight})
	}
	return out, remap
}

// clusterize unions every eligible vertex pair within tolerance, using a
// uniform grid so only the 27 neighboring cells are compared.
func clusterize(pos []mathutil.Vec3, eligible []bool, tol float64, uf *unionFind) {
	cell := tol
	if cell <= 0 {
		cell = 1e-12 // exact duplicates land in the same cell
	}
	tolSq := tol * tol

	grid := make(map[[3]int][]int, len(pos))
	key := func(p mathutil.Vec3) [3]int {
		return [3]int{
			int(math.Floor(p[0] / cell)),
			int(math.Floor(p[1] / cell)),
			int(math.Floor(p[2] / cell)),
		}
	}
	for i, p := range pos {
		if !eligible[i] {
			continue
		}
		k := key(p)
		grid[k] = append(grid[k], i)
	}

	for i, p := range pos {
		if !eligible[i] {
			continue
		}
		k := key(p)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					for _, j := range grid[[3]int{k[0] + dx, k[1] + dy, k[2] + dz}] {
						if j <= i {
							continue
						}
						if p.DistSq(pos[j]) <= tolSq {
							uf.union(i, j)
						}
					}
				}
			}
		}
	}
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

// union attaches the higher root to the lower one so cluster
// representatives are always the lowest member index.
func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}
