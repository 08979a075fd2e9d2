// Package preview renders flat-shaded stills of a mesh with one shape key
// applied, for visual QA of transferred deformations.
package preview

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"rpm-shape-transfer/internal/mathutil"
	"rpm-shape-transfer/internal/mesh"
	"rpm-shape-transfer/internal/raster"
	"rpm-shape-transfer/internal/shape"
)

// View resolves a camera name to its matrix. Known names: front,
// turntable, side.
func View(name string) (mathutil.Mat3, error) {
	switch name {
	case "front":
		return mathutil.FrontView, nil
	case "", "turntable":
		return mathutil.TurntableView, nil
	case "side":
		return mathutil.SideView, nil
	}
	return mathutil.Mat3{}, fmt.Errorf("preview: unknown view %q", name)
}

// RenderShape renders the mesh with the named shape key at full weight,
// seen through the given camera. An empty name renders the base geometry.
func RenderShape(m *mesh.Mesh, shapeName string, view mathutil.Mat3, size, supersample int) (*image.NRGBA, error) {
	positions := m.Positions
	if shapeName != "" {
		k, ok := m.Shapes.Get(shapeName)
		if !ok {
			return nil, fmt.Errorf("preview: %w: %q", shape.ErrUnknownShape, shapeName)
		}
		positions = make([]mathutil.Vec3, len(m.Positions))
		for i := range positions {
			positions[i] = m.Positions[i]
			if i < len(k.Offsets) {
				positions[i] = positions[i].Add(k.Offsets[i])
			}
		}
	}
	img := raster.RenderMesh(positions, m.Faces, view, size, supersample)
	if supersample > 1 {
		img = Downsample(img, size)
	}
	return img, nil
}

// Write encodes the image to path in the given format ("webp" or "tga"),
// creating parent directories as needed.
func Write(path, format string, img *image.NRGBA) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch format {
	case "", "webp":
		err = nativewebp.Encode(f, img, nil)
	case "tga":
		err = tga.Encode(f, img)
	default:
		err = fmt.Errorf("preview: unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("preview: encode %s: %w", path, err)
	}
	return nil
}
