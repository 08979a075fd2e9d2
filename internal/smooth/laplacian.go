// Package smooth runs the anchor-constrained Laplacian relaxation that
// turns the binder's raw correspondence signal into a seam-free deformation
// of the working copy. Even with every vertex anchored, routing positions
// through this step avoids exact snapping to a differently-tessellated
// source signal, which would bake in discontinuities where the nearest-face
// choice flips between adjacent vertices.
package smooth

import (
	"rpm-shape-transfer/internal/logging"
	"rpm-shape-transfer/internal/mathutil"
	"rpm-shape-transfer/internal/mesh"
)

// Options tune the relaxation. The defaults were validated against the
// fixture meshes; they are configuration, not universal constants.
type Options struct {
	// AnchorStiffness scales how hard anchored vertices are pulled toward
	// the raw signal, relative to the smoothing term.
	AnchorStiffness float64
	// Smoothing weights the term preserving each vertex's base Laplacian
	// offset from its neighbors.
	Smoothing float64
	// MaxIterations bounds the Gauss-Seidel sweeps. This is the only cap on
	// work; there are no timeouts.
	MaxIterations int
	// Convergence is the maximum per-sweep vertex movement below which the
	// relaxation is considered settled.
	Convergence float64
}

func DefaultOptions() Options {
	return Options{
		AnchorStiffness: 1.0,
		Smoothing:       1.0,
		MaxIterations:   250,
		Convergence:     1e-7,
	}
}

// Propagate relaxes the mesh toward the raw signal: vertices weighted in
// anchors are pulled toward their signal position while every vertex also
// tries to keep its base-mesh Laplacian offset relative to its neighbors.
// Zero source deformation (signal == base positions) is an exact fixed
// point, so zero signal yields zero target deformation.
//
// The returned bool reports convergence. Non-convergence is a soft fail:
// the best intermediate result is still returned, never an error.
func Propagate(m *mesh.Mesh, signal []mathutil.Vec3, anchors *mesh.VertexGroup, opts Options) ([]mathutil.Vec3, bool) {
	n := m.VertexCount()
	base := m.Positions
	adj := m.Adjacency()

	// Zero values fall back to the validated defaults. A zero stiffness
	// would make every vertex ignore the signal and "converge" at the base
	// positions; a zero smoothing weight would snap anchored vertices
	// exactly onto the signal.
	def := DefaultOptions()
	if opts.AnchorStiffness <= 0 {
		opts.AnchorStiffness = def.AnchorStiffness
	}
	if opts.Smoothing <= 0 {
		opts.Smoothing = def.Smoothing
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = def.MaxIterations
	}
	if opts.Convergence <= 0 {
		opts.Convergence = def.Convergence
	}

	pos := make([]mathutil.Vec3, n)
	copy(pos, base)

	// Base neighborhood centroids are constant across sweeps.
	baseAvg := make([]mathutil.Vec3, n)
	for i, nb := range adj {
		if len(nb) == 0 {
			continue
		}
		var s mathutil.Vec3
		for _, j := range nb {
			s = s.Add(base[j])
		}
		baseAvg[i] = s.Scale(1 / float64(len(nb)))
	}

	convSq := opts.Convergence * opts.Convergence
	for it := 0; it < opts.MaxIterations; it++ {
		maxMoveSq := 0.0
		for i := 0; i < n; i++ {
			aw := 0.0
			if anchors != nil && i < len(signal) {
				aw = anchors.Weight(i) * opts.AnchorStiffness
			}
			var next mathutil.Vec3
			if len(adj[i]) == 0 {
				if aw <= 0 {
					continue
				}
				next = signal[i]
			} else {
				var s mathutil.Vec3
				for _, j := range adj[i] {
					s = s.Add(pos[j])
				}
				// Keep the base offset from the neighborhood centroid.
				smoothed := s.Scale(1 / float64(len(adj[i]))).Sub(baseAvg[i]).Add(base[i])
				if aw <= 0 {
					next = smoothed
				} else {
					next = signal[i].Scale(aw).Add(smoothed.Scale(opts.Smoothing)).Scale(1 / (aw + opts.Smoothing))
				}
			}
			if d := next.DistSq(pos[i]); d > maxMoveSq {
				maxMoveSq = d
			}
			pos[i] = next
		}
		if maxMoveSq < convSq {
			return pos, true
		}
	}

	logging.Warn("laplacian relaxation did not converge after %d iterations, using best result", opts.MaxIterations)
	return pos, false
}
