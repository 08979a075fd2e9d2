package transfer

import (
	"fmt"

	"rpm-shape-transfer/internal/mathutil"
	"rpm-shape-transfer/internal/mesh"
	"rpm-shape-transfer/internal/shape"
)

// bakeKey reads the working copy's current positions as a displacement
// field relative to the target's base positions and installs it as a named
// shape key on the target, replacing any key of the same name.
func bakeKey(working, target *mesh.Mesh, name string) (*shape.Key, error) {
	if working.VertexCount() != target.VertexCount() {
		return nil, fmt.Errorf("bake %q: working copy has %d vertices, target has %d",
			name, working.VertexCount(), target.VertexCount())
	}
	offsets := make([]mathutil.Vec3, target.VertexCount())
	for i := range offsets {
		offsets[i] = working.Positions[i].Sub(target.Positions[i])
	}
	k := &shape.Key{Name: name, Offsets: offsets}
	target.Shapes.Put(k)
	return k, nil
}

// AddBasisKey installs an all-zero key of the given name if absent. The
// gender set keeps an explicit neutral basis alongside the sculpted shapes.
func AddBasisKey(m *mesh.Mesh, name string) {
	if m.Shapes.Has(name) {
		return
	}
	m.Shapes.Put(&shape.Key{
		Name:    name,
		Offsets: make([]mathutil.Vec3, m.VertexCount()),
	})
}
