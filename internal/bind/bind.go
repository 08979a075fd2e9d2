// Package bind computes topology-independent surface bindings: every vertex
// of a target mesh is tied to its nearest point on a source mesh's surface
// so it can ride along when the source deforms.
package bind

import (
	"errors"
	"fmt"

	"rpm-shape-transfer/internal/mathutil"
	"rpm-shape-transfer/internal/mesh"
)

// ErrDegenerateSource is returned when the source mesh has no faces to
// bind against.
var ErrDegenerateSource = errors.New("source mesh has no faces")

// Entry ties one target vertex to a point on the source surface: the face,
// the barycentric coordinates of the closest point on it, and the signed
// distance from that point along the face normal.
type Entry struct {
	Face   int
	Bary   [3]float64
	Offset float64
}

// Binding is a per-vertex correspondence from a target mesh onto a source
// mesh's surface. It is computed on base (neutral) geometry and becomes
// stale if either mesh's topology changes; recompute, never patch.
type Binding struct {
	Entries []Entry
	faces   [][3]int // source topology snapshot
}

// Compute builds the binding on the meshes' base positions. Must be called
// before any shape is activated on the source. Ties in the nearest-point
// search resolve to the lowest face index, so identical input yields a
// bit-identical binding.
func Compute(target, source *mesh.Mesh) (*Binding, error) {
	if source.FaceCount() == 0 {
		return nil, fmt.Errorf("bind: %w", ErrDegenerateSource)
	}

	faces := make([][3]int, len(source.Faces))
	copy(faces, source.Faces)

	b := &Binding{
		Entries: make([]Entry, target.VertexCount()),
		faces:   faces,
	}
	src := source.Positions
	for vi, p := range target.Positions {
		best := Entry{Face: -1}
		bestD := -1.0
		var bestPoint mathutil.Vec3
		for fi, f := range faces {
			pt, bary := mathutil.ClosestPointTriangle(p, src[f[0]], src[f[1]], src[f[2]])
			d := p.DistSq(pt)
			if best.Face < 0 || d < bestD {
				bestD = d
				best = Entry{Face: fi, Bary: bary}
				bestPoint = pt
			}
		}
		f := faces[best.Face]
		n := mathutil.TriangleNormal(src[f[0]], src[f[1]], src[f[2]]).Normalize()
		best.Offset = p.Sub(bestPoint).Dot(n)
		b.Entries[vi] = best
	}
	return b, nil
}

// Evaluate returns, per bound vertex, where it would sit if it rode along
// with its surface point, given the source's displaced positions. This is
// the raw (un-smoothed) deformation signal fed to the propagator.
func (b *Binding) Evaluate(displaced []mathutil.Vec3) []mathutil.Vec3 {
	out := make([]mathutil.Vec3, len(b.Entries))
	for vi, e := range b.Entries {
		f := b.faces[e.Face]
		a, bb, c := displaced[f[0]], displaced[f[1]], displaced[f[2]]
		pt := a.Scale(e.Bary[0]).Add(bb.Scale(e.Bary[1])).Add(c.Scale(e.Bary[2]))
		n := mathutil.TriangleNormal(a, bb, c).Normalize()
		out[vi] = pt.Add(n.Scale(e.Offset))
	}
	return out
}
