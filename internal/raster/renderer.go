package raster

import (
	"image"
	"math"

	"rpm-shape-transfer/internal/mathutil"
)

// BaseColor is the neutral garment gray used for untextured previews.
var BaseColor = [3]uint8{168, 168, 176}

// RenderMesh renders triangle geometry to an NRGBA image with an
// orthographic camera given by view. The model is centered and fit to the
// frame with a small margin; supersample scales the working resolution for
// later downsampling.
func RenderMesh(positions []mathutil.Vec3, faces [][3]int, view mathutil.Mat3, size, supersample int) *image.NRGBA {
	renderSize := size * supersample
	if len(positions) == 0 || len(faces) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	}

	// Transform into camera space
	tv := make([]mathutil.Vec3, len(positions))
	for i, p := range positions {
		tv[i] = view.MulVec3(p)
	}

	// Fit bounding box
	allMin := mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	allMax := mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range tv {
		for k := 0; k < 3; k++ {
			if p[k] < allMin[k] {
				allMin[k] = p[k]
			}
			if p[k] > allMax[k] {
				allMax[k] = p[k]
			}
		}
	}
	center := allMin.Add(allMax).Scale(0.5)
	span := allMax[0] - allMin[0]
	if sy := allMax[1] - allMin[1]; sy > span {
		span = sy
	}
	if span < 1e-6 {
		span = 1e-6
	}

	margin := 16 * supersample
	scale := float64(renderSize-2*margin) / span

	// Project: X right, Y up (flipped into raster rows), Z toward viewer.
	px := make([]float64, len(tv))
	py := make([]float64, len(tv))
	pz := make([]float64, len(tv))
	half := float64(renderSize) / 2
	for i, p := range tv {
		px[i] = (p[0]-center[0])*scale + half
		py[i] = half - (p[1]-center[1])*scale
		pz[i] = p[2]
	}

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()
	for _, f := range faces {
		RasterizeTriangle(fb, px, py, pz, [3]int{f[0], f[1], f[2]},
			BaseColor[0], BaseColor[1], BaseColor[2], &lc)
	}

	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	copy(img.Pix, fb.Color)
	return img
}
