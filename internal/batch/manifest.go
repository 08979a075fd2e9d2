package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// ManifestEntry records one processed asset in the output manifest.
type ManifestEntry struct {
	File    string `json:"file"`
	Output  string `json:"output"`
	Set     string `json:"set"`
	Applied int    `json:"applied"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
	Error   string `json:"error,omitempty"`
}

// WriteManifest writes manifest.json describing a batch run.
func WriteManifest(path, setName string, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		stem := strings.TrimSuffix(filepath.Base(r.File), filepath.Ext(r.File))
		entries[i] = ManifestEntry{
			File:    r.File,
			Output:  stem + ".glb",
			Set:     setName,
			Applied: r.Applied,
			Skipped: r.Skipped,
			Failed:  r.Failed,
			Error:   r.Error,
		}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
