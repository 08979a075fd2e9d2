package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"rpm-shape-transfer/internal/batch"
	"rpm-shape-transfer/internal/config"
	"rpm-shape-transfer/internal/logging"
	"rpm-shape-transfer/internal/shapeset"
	"rpm-shape-transfer/internal/transfer"
)

func main() {
	configFile := flag.String("config", "", "Path to transfer.toml config file")
	setName := flag.String("set", "gender", "Shape set to transfer: gender, body_male, body_female")
	sourcePath := flag.String("source", "", "Source library GLB (default: resolved from config/env)")
	outputDir := flag.String("output", "", "Output directory (default: out)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	weldTol := flag.Float64("weld-tolerance", 0, "Vertex merge distance (default: 0.0001)")
	previews := flag.Bool("previews", false, "Render a preview image per transferred shape")
	previewFormat := flag.String("preview-format", "", "Preview image format: webp or tga")
	watch := flag.Bool("watch", false, "Re-run when the source library or input files change")
	verbose := flag.Bool("verbose", false, "Debug logging")
	flag.Parse()

	logging.SetVerbose(*verbose)

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		OutputDir:     *outputDir,
		WeldTolerance: *weldTol,
		Workers:       *workers,
		PreviewFormat: *previewFormat,
	})

	set, ok := shapeset.Sets()[*setName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown shape set %q\n", *setName)
		os.Exit(1)
	}

	src := *sourcePath
	if src == "" {
		paths, err := cfg.LibraryPaths()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v (or pass -source)\n", err)
			os.Exit(1)
		}
		src = paths[set.LibraryKey]
	}

	files, err := collectAssets(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: transfer [flags] asset.glb|asset-dir ...")
		os.Exit(1)
	}

	opts := transfer.Options{
		MergeVerts:    set.MergeVerts,
		WeldTolerance: cfg.WeldTolerance,
		Smooth:        cfg.SmoothOptions(),
	}
	batchCfg := batch.Config{
		Set:                set,
		SourcePath:         src,
		OutputDir:          cfg.OutputDir,
		Transfer:           opts,
		Previews:           *previews,
		PreviewSize:        cfg.PreviewSize,
		PreviewSupersample: cfg.PreviewSupersample,
		PreviewFormat:      cfg.PreviewFormat,
		Workers:            cfg.Workers,
	}

	fmt.Printf("Shape transfer: set %q (%d shapes), %d assets, %d workers\n",
		set.Name, len(set.Shapes), len(files), cfg.Workers)
	fmt.Printf("Source: %s\nOutput: %s\n", src, cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	code := runOnce(batchCfg, set, files)
	if !*watch {
		os.Exit(code)
	}
	if err := watchAndRerun(batchCfg, set, files, src, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: watch: %v\n", err)
		os.Exit(1)
	}
}

func runOnce(cfg batch.Config, set shapeset.Set, files []string) int {
	start := time.Now()
	results := batch.Run(cfg, files)
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	success, failed := 0, 0
	for _, r := range results {
		if r.Success() {
			success++
		} else {
			failed++
		}
	}
	fmt.Printf("Transferred: %d/%d assets\n", success, len(files))
	if failed > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		shown := 0
		for _, r := range results {
			if r.Success() {
				continue
			}
			reason := r.Error
			if reason == "" {
				reason = fmt.Sprintf("%d shape(s) failed", r.Failed)
			}
			fmt.Printf("  %s: %s\n", r.File, reason)
			if shown++; shown >= 20 {
				break
			}
		}
	}

	os.MkdirAll(cfg.OutputDir, 0755)
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, set.Name, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		return 1
	}
	return 0
}

// watchAndRerun blocks, re-running the batch whenever the source library or
// any watched input directory changes. Events are debounced because
// exporters write GLBs in several bursts. Assets are re-collected per run
// so files created after startup are picked up.
func watchAndRerun(cfg batch.Config, set shapeset.Set, files []string, src string, args []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := map[string]bool{filepath.Dir(src): true}
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			continue
		}
		dir := a
		if !info.IsDir() {
			dir = filepath.Dir(a)
		}
		watched[dir] = true
	}
	for dir := range watched {
		if err := w.Add(dir); err != nil {
			return err
		}
	}

	fmt.Println("Watching for changes...")
	var timer *time.Timer
	for {
		select {
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if strings.ToLower(filepath.Ext(e.Name)) != ".glb" {
				continue
			}
			logging.Debug("change detected: %s", e.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(500*time.Millisecond, func() {
				fmt.Println("\nChange detected, re-running...")
				if fresh, err := collectAssets(args); err == nil && len(fresh) > 0 {
					files = fresh
				}
				runOnce(cfg, set, files)
				fmt.Println("Watching for changes...")
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Error("watch: %v", err)
		}
	}
}

// collectAssets expands file and directory arguments into a sorted list of
// GLB paths.
func collectAssets(args []string) ([]string, error) {
	var files []string
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, a)
			continue
		}
		err = filepath.WalkDir(a, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.ToLower(filepath.Ext(path)) == ".glb" {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}
