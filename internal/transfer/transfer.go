// Package transfer sequences morph-target transfers: per-shape jobs that
// bind a disposable copy of the target to the source surface, relax it, and
// bake the result back as a shape key, plus the batch orchestrator that
// runs whole shape sets with per-shape failure isolation.
package transfer

import (
	"fmt"

	"github.com/google/uuid"

	"rpm-shape-transfer/internal/bind"
	"rpm-shape-transfer/internal/logging"
	"rpm-shape-transfer/internal/scene"
	"rpm-shape-transfer/internal/shape"
	"rpm-shape-transfer/internal/smooth"
	"rpm-shape-transfer/internal/weld"
)

// AnchorGroupName is the vertex group marking propagation anchors on the
// working copy. Every vertex is anchored at weight 1.0, making the
// deformation a direct-but-smoothed transfer.
const AnchorGroupName = "temp_all_verts"

// Options configure one shape-set transfer. Zero values fall back to the
// validated defaults.
type Options struct {
	// MergeVerts welds the target before transferring, collapsing vertices
	// split at hard edges by interchange import.
	MergeVerts bool
	// WeldTolerance is the merge distance used when MergeVerts is set.
	WeldTolerance float64
	// Smooth tunes the Laplacian relaxation.
	Smooth smooth.Options
}

func DefaultOptions() Options {
	return Options{
		WeldTolerance: weld.DefaultTolerance,
		Smooth:        smooth.DefaultOptions(),
	}
}

// Shape transfers one named shape key from src onto target. The unit of
// work is stateless: a disposable working copy of the target is linked into
// the scene, bound to the source's base surface, deformed while the shape
// is isolated on the source, baked back onto the real target, and
// destroyed. Temporary objects never survive this call, whatever the
// outcome.
func Shape(sc *scene.Scene, src, target *scene.Object, keyName string, opts Options) error {
	defer sc.SweepTemp()

	srcMesh, err := src.RequireMesh()
	if err != nil {
		return err
	}
	targetMesh, err := target.RequireMesh()
	if err != nil {
		return err
	}
	if !srcMesh.Shapes.Has(keyName) {
		return fmt.Errorf("source %q: %w: %q", src.Name, shape.ErrUnknownShape, keyName)
	}

	working := targetMesh.Clone()
	// Meshes carrying shape keys cannot be deformed directly; the copy
	// starts from a clean library.
	working.Shapes = shape.NewLibrary()

	workObj := &scene.Object{
		Name: fmt.Sprintf("%s.%s", keyName, uuid.NewString()[:8]),
		Kind: scene.KindMesh,
		Mesh: working,
		Temp: true,
	}
	if err := sc.Link(workObj); err != nil {
		return fmt.Errorf("link working copy: %w", err)
	}

	// Bind on base geometry, before the shape is activated on the source.
	binding, err := bind.Compute(working, srcMesh)
	if err != nil {
		return err
	}
	anchors := working.AddAllGroup(AnchorGroupName)

	err = srcMesh.Shapes.WithIsolated(keyName, func(k *shape.Key) error {
		signal := binding.Evaluate(srcMesh.EvaluatedPositions())
		deformed, converged := smooth.Propagate(working, signal, anchors, opts.Smooth)
		if !converged {
			logging.Warn("shape %q: propagation did not converge, baking best result", keyName)
		}
		working.Positions = deformed
		return nil
	})
	if err != nil {
		return err
	}

	// Bake strictly before the working copy is destroyed, so a late failure
	// cannot lose the computed result.
	if _, err := bakeKey(working, targetMesh, keyName); err != nil {
		return err
	}
	working.RemoveGroup(AnchorGroupName)
	sc.Unlink(workObj.Name)
	return nil
}
