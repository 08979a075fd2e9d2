package transfer

import (
	"rpm-shape-transfer/internal/logging"
	"rpm-shape-transfer/internal/scene"
	"rpm-shape-transfer/internal/weld"
)

// ShapeSet transfers every named shape from src onto target, in the given
// order, and returns a report with one outcome per name.
//
// The idempotence guard is batch-level: only when target already carries
// the FULL set is everything skipped; re-running against a partially
// applied set re-applies all of it. When opts.MergeVerts is set the target
// mesh is welded first and the target object's mesh is replaced with the
// new welded instance (stable-index invariant: never renumber in place).
//
// Per-shape failures are recorded in the report and do not abort the
// remaining jobs. Malformed requests — a non-mesh target or source — abort
// the whole batch, since no partial progress is meaningful.
func ShapeSet(sc *scene.Scene, target, src *scene.Object, names []string, opts Options) (*Report, error) {
	targetMesh, err := target.RequireMesh()
	if err != nil {
		return nil, err
	}
	if _, err := src.RequireMesh(); err != nil {
		return nil, err
	}

	report := &Report{Target: target.Name, Source: src.Name}

	if targetMesh.Shapes.HasAll(names) {
		for _, n := range names {
			report.add(n, OutcomeSkipped, "")
		}
		logging.Debug("target %q already has all %d shapes, skipping", target.Name, len(names))
		return report, nil
	}

	if opts.MergeVerts {
		tol := opts.WeldTolerance
		if tol <= 0 {
			tol = weld.DefaultTolerance
		}
		before := targetMesh.VertexCount()
		welded, _ := weld.Weld(targetMesh, nil, tol)
		target.Mesh = welded
		targetMesh = welded
		logging.Debug("welded target %q: %d -> %d vertices", target.Name, before, welded.VertexCount())
	}

	for _, name := range names {
		if err := Shape(sc, src, target, name, opts); err != nil {
			logging.Error("shape %q on %q: %v", name, target.Name, err)
			report.add(name, OutcomeFailed, err.Error())
			continue
		}
		report.add(name, OutcomeApplied, "")
	}
	return report, nil
}
