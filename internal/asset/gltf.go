// Package asset reads and writes GLB files, mapping glTF morph targets to
// shape keys. Asset files are opaque inputs located by path; everything
// else about the interchange format stays behind this package.
package asset

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"rpm-shape-transfer/internal/mathutil"
	"rpm-shape-transfer/internal/mesh"
	"rpm-shape-transfer/internal/scene"
	"rpm-shape-transfer/internal/shape"
)

// Load reads every node of a GLB file as a scene object. Non-mesh nodes
// (armatures, empties) come back as KindOther so callers can reject them
// explicitly instead of crashing on missing geometry.
func Load(path string) ([]*scene.Object, error) {
	return LoadFiltered(path, nil)
}

// LoadFiltered is Load restricted to nodes whose names are in include.
// A nil or empty include loads everything.
func LoadFiltered(path string, include []string) ([]*scene.Object, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("asset: open %s: %w", path, err)
	}

	wanted := func(string) bool { return true }
	if len(include) > 0 {
		set := make(map[string]bool, len(include))
		for _, n := range include {
			set[n] = true
		}
		wanted = func(name string) bool { return set[name] }
	}

	var objects []*scene.Object
	for ni, node := range doc.Nodes {
		name := node.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", ni)
		}
		if !wanted(name) {
			continue
		}
		if node.Mesh == nil {
			objects = append(objects, &scene.Object{Name: name, Kind: scene.KindOther})
			continue
		}
		m, err := decodeMesh(doc, doc.Meshes[*node.Mesh])
		if err != nil {
			return nil, fmt.Errorf("asset: %s node %q: %w", path, name, err)
		}
		if lin, trans, identity := nodeTransform(node); !identity {
			applyTransform(m, lin, trans)
		}
		objects = append(objects, &scene.Object{Name: name, Kind: scene.KindMesh, Mesh: m})
	}
	return objects, nil
}

func decodeMesh(doc *gltf.Document, gm *gltf.Mesh) (*mesh.Mesh, error) {
	var positions []mathutil.Vec3
	var faces [][3]int
	targetOffsets := map[int][]mathutil.Vec3{}

	for pi, prim := range gm.Primitives {
		posAcc, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			return nil, fmt.Errorf("primitive %d has no POSITION", pi)
		}
		pos, err := modeler.ReadPosition(doc, doc.Accessors[posAcc], nil)
		if err != nil {
			return nil, err
		}
		vertBase := len(positions)
		for _, p := range pos {
			positions = append(positions, mathutil.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
		}

		if prim.Indices == nil {
			return nil, fmt.Errorf("primitive %d has no indices", pi)
		}
		idx, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, err
		}
		if len(idx)%3 != 0 {
			return nil, fmt.Errorf("primitive %d: index count %d not triangles", pi, len(idx))
		}
		for i := 0; i+2 < len(idx); i += 3 {
			faces = append(faces, [3]int{
				vertBase + int(idx[i]),
				vertBase + int(idx[i+1]),
				vertBase + int(idx[i+2]),
			})
		}

		for ti, tgt := range prim.Targets {
			acc, ok := tgt[gltf.POSITION]
			if !ok {
				continue
			}
			offs, err := modeler.ReadPosition(doc, doc.Accessors[acc], nil)
			if err != nil {
				return nil, err
			}
			// Pad to the primitive's vertex base so indices line up across
			// merged primitives.
			dst := targetOffsets[ti]
			for len(dst) < vertBase {
				dst = append(dst, mathutil.Vec3{})
			}
			for _, o := range offs {
				dst = append(dst, mathutil.Vec3{float64(o[0]), float64(o[1]), float64(o[2])})
			}
			targetOffsets[ti] = dst
		}
	}

	m := mesh.New(positions, faces)
	names := targetNames(gm)
	for ti := 0; ti < len(targetOffsets); ti++ {
		offs := targetOffsets[ti]
		for len(offs) < len(positions) {
			offs = append(offs, mathutil.Vec3{})
		}
		name := fmt.Sprintf("shape_%d", ti)
		if ti < len(names) {
			name = names[ti]
		}
		m.Shapes.Put(&shape.Key{Name: name, Offsets: offs})
	}
	return m, nil
}

var gltfIdentity = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeTransform returns the node's linear part and translation. glTF nodes
// carry either a column-major matrix or separate TRS; zero values mean
// identity. Parent transforms are not composed; avatar exports keep mesh
// nodes at the scene root.
func nodeTransform(n *gltf.Node) (lin mathutil.Mat3, trans mathutil.Vec3, identity bool) {
	if n.Matrix != gltfIdentity && n.Matrix != ([16]float64{}) {
		lin = mathutil.Mat3{
			n.Matrix[0], n.Matrix[4], n.Matrix[8],
			n.Matrix[1], n.Matrix[5], n.Matrix[9],
			n.Matrix[2], n.Matrix[6], n.Matrix[10],
		}
		trans = mathutil.Vec3{n.Matrix[12], n.Matrix[13], n.Matrix[14]}
		return lin, trans, false
	}

	trans = mathutil.Vec3{n.Translation[0], n.Translation[1], n.Translation[2]}
	q := n.Rotation
	if q == ([4]float64{}) {
		q = [4]float64{0, 0, 0, 1}
	}
	s := n.Scale
	if s == ([3]float64{}) {
		s = [3]float64{1, 1, 1}
	}
	identity = trans == (mathutil.Vec3{}) &&
		q == ([4]float64{0, 0, 0, 1}) &&
		s == ([3]float64{1, 1, 1})
	if identity {
		return mathutil.Mat3Identity(), trans, true
	}

	x, y, z, w := q[0], q[1], q[2], q[3]
	rot := mathutil.Mat3{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	}
	lin = mathutil.Mat3Mul(rot, mathutil.Mat3Diag(s[0], s[1], s[2]))
	return lin, trans, false
}

// applyTransform bakes a node transform into the decoded mesh: positions
// get the full affine map, shape offsets only the linear part (they are
// displacement vectors, not points).
func applyTransform(m *mesh.Mesh, lin mathutil.Mat3, trans mathutil.Vec3) {
	for i, p := range m.Positions {
		m.Positions[i] = lin.MulVec3(p).Add(trans)
	}
	for _, name := range m.Shapes.Names() {
		k, _ := m.Shapes.Get(name)
		for i, o := range k.Offsets {
			k.Offsets[i] = lin.MulVec3(o)
		}
	}
}

// targetNames pulls morph target names from the mesh extras, the
// conventional "targetNames" array exporters write.
func targetNames(gm *gltf.Mesh) []string {
	extras, ok := gm.Extras.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := extras["targetNames"].([]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return names
}

// Save writes mesh objects to a binary GLB. Shape keys become morph targets
// when opts.ExportMorph is set; otherwise only base geometry is written.
func Save(path string, objects []*scene.Object, opts ExportOptions) error {
	doc := gltf.NewDocument()
	doc.Asset.Copyright = opts.Copyright

	for _, obj := range objects {
		if obj.Kind != scene.KindMesh || obj.Mesh == nil {
			continue
		}
		m := obj.Mesh

		pos := make([][3]float32, m.VertexCount())
		for i, p := range m.Positions {
			pos[i] = [3]float32{float32(p[0]), float32(p[1]), float32(p[2])}
		}
		indices := make([]uint32, 0, len(m.Faces)*3)
		for _, f := range m.Faces {
			indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
		}

		prim := &gltf.Primitive{
			Attributes: map[string]int{
				gltf.POSITION: modeler.WritePosition(doc, pos),
			},
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
		}
		if opts.ExportNormals {
			prim.Attributes[gltf.NORMAL] = modeler.WriteNormal(doc, vertexNormals(m))
		}

		gm := &gltf.Mesh{Name: obj.Name, Primitives: []*gltf.Primitive{prim}}
		if opts.ExportMorph && m.Shapes.Len() > 0 {
			names := m.Shapes.Names()
			for _, name := range names {
				k, _ := m.Shapes.Get(name)
				offs := make([][3]float32, m.VertexCount())
				for i := 0; i < m.VertexCount() && i < len(k.Offsets); i++ {
					o := k.Offsets[i]
					offs[i] = [3]float32{float32(o[0]), float32(o[1]), float32(o[2])}
				}
				prim.Targets = append(prim.Targets, map[string]int{
					gltf.POSITION: modeler.WritePosition(doc, offs),
				})
			}
			gm.Weights = make([]float64, len(names))
			rawNames := make([]any, len(names))
			for i, n := range names {
				rawNames[i] = n
			}
			gm.Extras = map[string]any{"targetNames": rawNames}
		}

		doc.Meshes = append(doc.Meshes, gm)
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: obj.Name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}

	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("asset: save %s: %w", path, err)
	}
	return nil
}

// vertexNormals computes area-weighted per-vertex normals from the base
// positions.
func vertexNormals(m *mesh.Mesh) [][3]float32 {
	acc := make([]mathutil.Vec3, m.VertexCount())
	for _, f := range m.Faces {
		n := mathutil.TriangleNormal(m.Positions[f[0]], m.Positions[f[1]], m.Positions[f[2]])
		acc[f[0]] = acc[f[0]].Add(n)
		acc[f[1]] = acc[f[1]].Add(n)
		acc[f[2]] = acc[f[2]].Add(n)
	}
	out := make([][3]float32, len(acc))
	for i, n := range acc {
		u := n.Normalize()
		out[i] = [3]float32{float32(u[0]), float32(u[1]), float32(u[2])}
	}
	return out
}
