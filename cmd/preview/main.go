package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rpm-shape-transfer/internal/asset"
	"rpm-shape-transfer/internal/preview"
	"rpm-shape-transfer/internal/scene"
)

// Renders every shape key of each asset (plus the base geometry) to still
// images, without running a transfer. Handy for eyeballing a library file.
func main() {
	size := flag.Int("size", 512, "Output image size")
	supersample := flag.Int("supersample", 2, "Supersampling factor")
	format := flag.String("format", "webp", "Output format: webp or tga")
	viewName := flag.String("view", "turntable", "Camera: front, turntable or side")
	outputDir := flag.String("output", "previews", "Output directory")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: preview [flags] asset.glb ...")
		os.Exit(1)
	}
	view, err := preview.View(*viewName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	exitCode := 0
	for _, arg := range flag.Args() {
		objs, err := asset.Load(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Load error %s: %v\n", arg, err)
			exitCode = 1
			continue
		}
		stem := strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
		for _, o := range objs {
			if o.Kind != scene.KindMesh {
				continue
			}
			names := append([]string{""}, o.Mesh.Shapes.Names()...)
			for _, name := range names {
				img, err := preview.RenderShape(o.Mesh, name, view, *size, *supersample)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Render error %s/%s: %v\n", o.Name, name, err)
					exitCode = 1
					continue
				}
				label := name
				if label == "" {
					label = "base"
				}
				out := filepath.Join(*outputDir, stem, o.Name, label+"."+*format)
				if err := preview.Write(out, *format, img); err != nil {
					fmt.Fprintf(os.Stderr, "Write error %s: %v\n", out, err)
					exitCode = 1
					continue
				}
				fmt.Println(out)
			}
		}
	}
	os.Exit(exitCode)
}
