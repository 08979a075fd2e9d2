package mesh

// VertexGroup is a sparse per-vertex weight map in [0,1], used to mark
// roles such as smoothing anchors.
type VertexGroup struct {
	Name    string
	weights map[int]float64
}

func NewVertexGroup(name string) *VertexGroup {
	return &VertexGroup{Name: name, weights: make(map[int]float64)}
}

// Assign sets the weight for every index. Out-of-range clamping is the
// caller's concern; weights outside [0,1] are clamped here.
func (g *VertexGroup) Assign(indices []int, weight float64) {
	if weight < 0 {
		weight = 0
	} else if weight > 1 {
		weight = 1
	}
	for _, i := range indices {
		g.weights[i] = weight
	}
}

// Weight returns the weight for a vertex, 0 when unassigned.
func (g *VertexGroup) Weight(i int) float64 {
	return g.weights[i]
}

func (g *VertexGroup) Len() int { return len(g.weights) }

// Indices returns the assigned vertex indices in unspecified order.
func (g *VertexGroup) Indices() []int {
	out := make([]int, 0, len(g.weights))
	for i := range g.weights {
		out = append(out, i)
	}
	return out
}

func (g *VertexGroup) Clone() *VertexGroup {
	c := NewVertexGroup(g.Name)
	for i, w := range g.weights {
		c.weights[i] = w
	}
	return c
}

// AddGroup creates (or replaces) a named vertex group on the mesh.
func (m *Mesh) AddGroup(name string) *VertexGroup {
	g := NewVertexGroup(name)
	m.Groups[name] = g
	return g
}

// AddAllGroup creates a group containing every vertex at weight 1.0, the
// conventional "all" anchor set for the propagator.
func (m *Mesh) AddAllGroup(name string) *VertexGroup {
	g := m.AddGroup(name)
	idx := make([]int, len(m.Positions))
	for i := range idx {
		idx[i] = i
	}
	g.Assign(idx, 1.0)
	return g
}

func (m *Mesh) RemoveGroup(name string) {
	delete(m.Groups, name)
}
