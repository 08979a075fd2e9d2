package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"rpm-shape-transfer/internal/shapeset"
	"rpm-shape-transfer/internal/smooth"
	"rpm-shape-transfer/internal/weld"
)

// Config holds all configurable paths and transfer settings.
type Config struct {
	// Paths
	OutputDir string            `toml:"output_dir"`
	Libraries map[string]string `toml:"libraries"` // shape-set library overrides

	// Transfer settings. Weld tolerance and anchor weighting are tuned
	// empirically; they are inputs here, not constants.
	WeldTolerance   float64 `toml:"weld_tolerance"`
	AnchorStiffness float64 `toml:"anchor_stiffness"`
	Smoothing       float64 `toml:"smoothing"`
	MaxIterations   int     `toml:"max_iterations"`
	Convergence     float64 `toml:"convergence"`

	// Preview settings
	PreviewSize        int    `toml:"preview_size"`
	PreviewSupersample int    `toml:"preview_supersample"`
	PreviewFormat      string `toml:"preview_format"` // webp or tga

	// Multi-asset batch
	Workers int `toml:"workers"`
}

// Load reads a TOML config file. Fields not set in the file keep their zero
// values until Resolve fills in defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir     string
	WeldTolerance float64
	Workers       int
	PreviewFormat string
}

// Resolve fills empty fields with defaults. CLI flags take priority when
// non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.WeldTolerance > 0 {
		c.WeldTolerance = flags.WeldTolerance
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.PreviewFormat != "" {
		c.PreviewFormat = flags.PreviewFormat
	}

	if c.OutputDir == "" {
		c.OutputDir = "out"
	}
	if c.WeldTolerance <= 0 {
		c.WeldTolerance = weld.DefaultTolerance
	}
	def := smooth.DefaultOptions()
	if c.AnchorStiffness <= 0 {
		c.AnchorStiffness = def.AnchorStiffness
	}
	if c.Smoothing <= 0 {
		c.Smoothing = def.Smoothing
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = def.MaxIterations
	}
	if c.Convergence <= 0 {
		c.Convergence = def.Convergence
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 512
	}
	if c.PreviewSupersample <= 0 {
		c.PreviewSupersample = 2
	}
	if c.PreviewFormat == "" {
		c.PreviewFormat = "webp"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// SmoothOptions bundles the relaxation settings.
func (c *Config) SmoothOptions() smooth.Options {
	return smooth.Options{
		AnchorStiffness: c.AnchorStiffness,
		Smoothing:       c.Smoothing,
		MaxIterations:   c.MaxIterations,
		Convergence:     c.Convergence,
	}
}

// LibraryPaths resolves source library paths from the environment plus any
// file overrides.
func (c *Config) LibraryPaths() (shapeset.Paths, error) {
	return shapeset.DefaultPaths(c.Libraries)
}
