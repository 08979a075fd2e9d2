// Package batch applies one shape set to many garment assets. Jobs on the
// same target are strictly sequential; across targets the pool is safe
// because every worker job gets its own clone of the source library mesh
// (shape isolation mutates weights on the source, so sharing one instance
// across goroutines is not).
package batch

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"

	"rpm-shape-transfer/internal/asset"
	"rpm-shape-transfer/internal/logging"
	"rpm-shape-transfer/internal/mathutil"
	"rpm-shape-transfer/internal/mesh"
	"rpm-shape-transfer/internal/preview"
	"rpm-shape-transfer/internal/scene"
	"rpm-shape-transfer/internal/shapeset"
	"rpm-shape-transfer/internal/transfer"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Set        shapeset.Set
	SourcePath string // GLB carrying the sculpted source shapes
	OutputDir  string
	Transfer   transfer.Options

	Previews           bool
	PreviewSize        int
	PreviewSupersample int
	PreviewFormat      string

	Workers int
}

// Result holds the outcome of processing one asset file.
type Result struct {
	File    string
	Applied int
	Skipped int
	Failed  int
	Error   string // fatal per-file error; counts are zero when set
}

func (r Result) Success() bool { return r.Error == "" && r.Failed == 0 }

// Run processes all asset files using a worker pool.
func Run(cfg Config, files []string) []Result {
	sourceMesh, err := loadSource(cfg.SourcePath)
	if err != nil {
		results := make([]Result, len(files))
		for i, f := range files {
			results[i] = Result{File: f, Error: err.Error()}
		}
		return results
	}

	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	results := make([]Result, len(files))
	bar := progressbar.Default(int64(len(files)), "transferring")

	fileChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range fileChan {
				results[idx] = processFile(cfg, sourceMesh, files[idx])
				bar.Add(1)
			}
		}()
	}
	for i := range files {
		fileChan <- i
	}
	close(fileChan)
	wg.Wait()
	bar.Finish()

	return results
}

// loadSource reads the source library file and returns the body mesh
// carrying the sculpted shapes.
func loadSource(path string) (*mesh.Mesh, error) {
	objs, err := asset.LoadFiltered(path, []string{shapeset.SectionBody})
	if err != nil {
		return nil, err
	}
	if m := firstMesh(objs); m != nil {
		return m, nil
	}

	// Older library files name the body mesh freely, or hang a non-mesh
	// node (an armature) off the body section name; fall back to the first
	// mesh node in the file.
	if objs, err = asset.Load(path); err != nil {
		return nil, err
	}
	if m := firstMesh(objs); m != nil {
		return m, nil
	}
	return nil, fmt.Errorf("batch: no mesh object in source library %s", path)
}

func firstMesh(objs []*scene.Object) *mesh.Mesh {
	for _, o := range objs {
		if o.Kind == scene.KindMesh {
			return o.Mesh
		}
	}
	return nil
}

func processFile(cfg Config, sourceMesh *mesh.Mesh, path string) Result {
	res := Result{File: path}

	objs, err := asset.Load(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	sc := scene.New()
	for _, o := range objs {
		if err := sc.Link(o); err != nil {
			res.Error = err.Error()
			return res
		}
	}
	target, err := chooseTarget(sc, objs)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	// Per-job source clone keeps weight mutation off the shared instance.
	src := &scene.Object{Name: "shape_source", Kind: scene.KindMesh, Mesh: sourceMesh.Clone()}
	if err := sc.Link(src); err != nil {
		res.Error = err.Error()
		return res
	}

	if cfg.Set.Basis != "" {
		transfer.AddBasisKey(target.Mesh, cfg.Set.Basis)
	}
	report, err := transfer.ShapeSet(sc, target, src, cfg.Set.Shapes, cfg.Transfer)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Applied = report.Applied()
	res.Skipped = report.Skipped()
	res.Failed = report.Failed()

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(cfg.OutputDir, stem+".glb")
	if err := asset.Save(outPath, []*scene.Object{target}, asset.BlendShapeExportOptions()); err != nil {
		res.Error = err.Error()
		return res
	}

	if cfg.Previews {
		writePreviews(cfg, target.Mesh, stem, report)
	}
	return res
}

// chooseTarget prefers garment-section nodes, then falls back to the first
// mesh, and makes it the scene's active object.
func chooseTarget(sc *scene.Scene, objs []*scene.Object) (*scene.Object, error) {
	preferred := []string{shapeset.SectionTop, shapeset.SectionBottom, shapeset.SectionFootwear}
	var target *scene.Object
	for _, want := range preferred {
		for _, o := range objs {
			if o.Name == want && o.Kind == scene.KindMesh {
				target = o
				break
			}
		}
		if target != nil {
			break
		}
	}
	if target == nil {
		for _, o := range objs {
			if o.Kind == scene.KindMesh {
				target = o
				break
			}
		}
	}
	if target == nil {
		return nil, scene.ErrMissingTarget
	}
	if err := sc.SetActive(target.Name); err != nil {
		return nil, err
	}
	return sc.Active()
}

func writePreviews(cfg Config, m *mesh.Mesh, stem string, report *transfer.Report) {
	for _, r := range report.Results {
		if r.Outcome == transfer.OutcomeFailed {
			continue
		}
		img, err := preview.RenderShape(m, r.Shape, mathutil.TurntableView, cfg.PreviewSize, cfg.PreviewSupersample)
		if err != nil {
			logging.Warn("preview %s/%s: %v", stem, r.Shape, err)
			continue
		}
		out := filepath.Join(cfg.OutputDir, "previews", stem, r.Shape+"."+cfg.PreviewFormat)
		if err := preview.Write(out, cfg.PreviewFormat, img); err != nil {
			logging.Warn("preview %s/%s: %v", stem, r.Shape, err)
		}
	}
}
