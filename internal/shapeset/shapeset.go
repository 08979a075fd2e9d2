// Package shapeset defines the canonical shape sets shipped with the asset
// library and where their source meshes live.
package shapeset

import (
	"fmt"
	"os"
	"path/filepath"
)

// Full-body asset sections. Garment GLBs name their nodes by section.
const (
	SectionTop      = "Wolf3D_Outfit_Top"
	SectionBottom   = "Wolf3D_Outfit_Bottom"
	SectionFootwear = "Wolf3D_Outfit_Footwear"
	SectionBody     = "Wolf3D_Body"
)

// Gender physique shapes. Neutral is the basis and is installed as a zero
// key rather than transferred.
const (
	ShapeNeutral = "neutral"
	ShapeMale    = "male"
	ShapeFemale  = "female"
)

// Body-type shapes (final platform names).
var BodyShapes = []string{
	"shapeBody01_average",
	"shapeBody02_athletic",
	"shapeBody03_heavyset",
	"shapeBody04_plussize",
}

// Set names one transferable shape set: which source library file carries
// the sculpted deformations, the shape names to transfer, and whether the
// target needs welding first (body-shape sources are GLB imports with split
// hard edges; the legacy gender source is not).
type Set struct {
	Name       string
	LibraryKey string // key into Paths
	Basis      string // zero basis key to ensure on the target, if any
	Shapes     []string
	MergeVerts bool
}

// Sets returns the known shape sets by CLI name.
func Sets() map[string]Set {
	return map[string]Set{
		"gender": {
			Name:       "gender",
			LibraryKey: "body_deform",
			Basis:      ShapeNeutral,
			Shapes:     []string{ShapeMale, ShapeFemale},
		},
		"body_male": {
			Name:       "body_male",
			LibraryKey: "bodyshapes_male",
			Shapes:     BodyShapes,
			MergeVerts: true,
		},
		"body_female": {
			Name:       "body_female",
			LibraryKey: "bodyshapes_female",
			Shapes:     BodyShapes,
			MergeVerts: true,
		},
	}
}

// EnvModularAssets points at the modular asset workspace; source library
// paths resolve beneath it unless overridden in the config file.
const EnvModularAssets = "RPM_MODULAR_ASSETS"

// Paths maps library keys to source mesh files.
type Paths map[string]string

// DefaultPaths resolves the library files under the modular assets
// workspace from the environment. Overrides replace individual entries.
func DefaultPaths(overrides map[string]string) (Paths, error) {
	base := os.Getenv(EnvModularAssets)
	p := Paths{
		"body_deform":       filepath.Join(base, "body", "legacy_v2_deform.glb"),
		"bodyshapes_male":   filepath.Join(base, "body", "bodyshapes_male.glb"),
		"bodyshapes_female": filepath.Join(base, "body", "bodyshapes_female.glb"),
	}
	for k, v := range overrides {
		if v != "" {
			p[k] = v
		}
	}
	if base == "" && len(overrides) == 0 {
		return p, fmt.Errorf("%s is not set and no library paths configured", EnvModularAssets)
	}
	return p, nil
}
