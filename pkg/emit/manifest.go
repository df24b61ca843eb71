package emit

import (
	"github.com/segmentio/encoding/json"
)

// manifestEntry is one emitted file's record in manifest.json.
type manifestEntry struct {
	Path   string `json:"path"`
	Length int    `json:"length"`
}

// manifest is the deterministic listing of every file this package wrote
// under <output_dir>/<system_name>/verilog/, in emission order
// (SPEC_FULL.md §4.10 [ADDED]).
type manifest struct {
	System string          `json:"system"`
	Files  []manifestEntry `json:"files"`
}

func (w *writer) renderManifest() ([]byte, error) {
	m := manifest{System: w.systemName}

	for _, f := range w.written {
		m.Files = append(m.Files, manifestEntry{Path: f.relPath, Length: len(f.contents)})
	}

	return json.MarshalIndent(m, "", "  ")
}
