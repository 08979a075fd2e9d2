package asset

// ExportOptions mirror the platform's GLB export presets. Only the knobs
// this pipeline acts on are modeled; the rest of the upstream preset table
// (draco, cameras, animation sampling) has no meaning for shape transfer
// output.
type ExportOptions struct {
	Copyright     string
	ExportNormals bool
	// ExportMorph writes shape keys as morph targets.
	ExportMorph bool
}

// OutfitExportOptions is the default platform preset: geometry only, no
// morph targets.
func OutfitExportOptions() ExportOptions {
	return ExportOptions{ExportNormals: true}
}

// BlendShapeExportOptions is the outfit preset with morph target export
// switched on, used for targets that just received a shape set.
func BlendShapeExportOptions() ExportOptions {
	o := OutfitExportOptions()
	o.ExportMorph = true
	return o
}
