package mathutil

// Precomputed preview-camera matrices. Asset space is glTF convention:
// Y-up, right-handed, +Z toward the viewer.
var (
	// FrontView looks straight down -Z.
	FrontView = Mat3Identity()

	// TurntableView is the default preview camera: a slight 3/4 turn so
	// depth on garments reads in a flat-shaded render. Rx(-10°) @ Ry(25°)
	TurntableView = Mat3Mul(RotX(Deg2Rad(-10)), RotY(Deg2Rad(25)))

	// SideView looks down -X, useful for judging silhouette changes.
	SideView = RotY(Deg2Rad(90))
)
