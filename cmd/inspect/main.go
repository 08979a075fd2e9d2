package main

import (
	"fmt"
	"os"
	"strings"

	"rpm-shape-transfer/internal/asset"
	"rpm-shape-transfer/internal/scene"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: inspect asset.glb ...")
		os.Exit(1)
	}

	for _, arg := range os.Args[1:] {
		objs, err := asset.Load(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Load error %s: %v\n", arg, err)
			continue
		}
		fmt.Printf("\n=== %s (objects=%d) ===\n", arg, len(objs))
		for i, o := range objs {
			if o.Kind != scene.KindMesh {
				fmt.Printf("  Obj[%d] %s: %s\n", i, o.Name, o.Kind)
				continue
			}
			m := o.Mesh
			min, max := m.Bounds(nil)
			fmt.Printf("  Obj[%d] %s: v=%d f=%d groups=%d bbox=(%.3f,%.3f,%.3f)..(%.3f,%.3f,%.3f)\n",
				i, o.Name, m.VertexCount(), m.FaceCount(), len(m.Groups),
				min[0], min[1], min[2], max[0], max[1], max[2])
			if names := m.Shapes.Names(); len(names) > 0 {
				fmt.Printf("    shapes: %s\n", strings.Join(names, ", "))
			}
		}
	}
}
