package emit

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/assassyn-lang/assassyn/pkg/alloc"
	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/assembly"
	"github.com/assassyn-lang/assassyn/pkg/diag"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/lower"
)

// Config carries the emission-phase knobs of the compile entry point's
// signature (§6): everything Elaborate needs once naming, analysis, and
// write-port allocation have already run.
type Config struct {
	OutputDir        string
	SimThreshold     uint64
	OverrideExisting bool
	// ResourceBase qualifies a relative ExternalClass.SourceFile when
	// copying the user's original external-HDL source alongside the
	// generated wrapper (§6 "[user external copies]").
	ResourceBase string
}

type writtenFile struct {
	relPath  string
	contents []byte
}

// writer accumulates rendered files before they are flushed to disk, so
// manifest.json can list every file emitted before it (not itself) with a
// final, stable byte count.
type writer struct {
	systemName string
	root       string
	written    []writtenFile
}

func (w *writer) add(relPath, contents string) {
	w.written = append(w.written, writtenFile{relPath: relPath, contents: []byte(contents)})
}

// Write lowers every module, assembles the top-level harness, renders
// everything to SystemVerilog text, and writes the full output tree
// described by §6's HDL output layout plus the manifest.json supplement
// (SPEC_FULL.md §4.10). matrix and wports must already be frozen/built.
func Write(sys *ir.System, matrix *analysis.InteractionMatrix, wports map[*ir.Array]*alloc.PortMap, cfg Config) error {
	log := logrus.WithField("system", sys.Name)
	log.Debug("emission: lowering modules")

	w := &writer{systemName: sys.Name}

	for _, m := range sys.Modules {
		lm, err := lower.Lower(m, matrix, wports)
		if err != nil {
			return err
		}

		w.add(filepath.Join("sv", "hw", m.Name+".sv"), renderModule(lm))
	}

	log.Debug("emission: assembling top-level harness")

	top := assembly.Assemble(sys, matrix, wports)
	w.add(filepath.Join("sv", "hw", "Top.sv"), renderTop(top))

	w.add("cycle_counter.sv", cycleCounterLibrary())
	w.add("fifo.sv", fifoLibrary())
	w.add("credit_counter.sv", creditCounterLibrary())

	for _, rf := range top.RegFiles {
		w.add(fmt.Sprintf("regfile_%s.sv", rf.Array.Name), renderRegFile(rf))
	}

	for _, sram := range top.SRAMs {
		w.add(fmt.Sprintf("sram_blackbox_%s.sv", sram.Array.Name), renderSRAMBlackbox(sram))
	}

	for _, class := range matrix.Externals().Classes() {
		w.add(class.ModuleName+"_wrapper.sv", renderExternalWrapper(class))

		if contents, ok := readExternalSource(cfg.ResourceBase, class.SourceFile); ok {
			w.add(filepath.Base(class.SourceFile), contents)
		}
	}

	w.add("tb.sv", renderTestbench(cfg.SimThreshold))

	w.add("filelist.f", renderFilelist(w.written))

	// manifest.json lists every file emitted before it; it does not list
	// itself, since its own final length would otherwise depend on its
	// own contents.
	manifestBytes, err := w.renderManifest()
	if err != nil {
		return diag.New(diag.Internal, "emission: marshaling manifest.json: %v", err)
	}

	w.add("manifest.json", string(manifestBytes))

	return w.flush(cfg)
}

// readExternalSource resolves sourceFile against base (when relative)
// and reads it, returning ok=false rather than failing emission when the
// original source is not locally readable — the copy is a convenience
// for the HDL output tree, not a hard requirement of this package.
func readExternalSource(base, sourceFile string) (string, bool) {
	path := sourceFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(base, sourceFile)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	return string(contents), true
}

func renderFilelist(files []writtenFile) string {
	var names []string

	for _, f := range files {
		if strings.HasSuffix(f.relPath, ".sv") {
			names = append(names, f.relPath)
		}
	}

	sort.Strings(names)

	return strings.Join(names, "\n") + "\n"
}

func (w *writer) flush(cfg Config) error {
	root := filepath.Join(cfg.OutputDir, w.systemName, "verilog")

	if _, err := os.Stat(root); err == nil && !cfg.OverrideExisting {
		return diag.New(diag.PatchApplicationFailed,
			"output directory %q already exists and override_existing is false", root)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return diag.New(diag.PatchApplicationFailed, "creating output directory %q: %v", root, err)
	}

	for _, f := range w.written {
		full := filepath.Join(root, f.relPath)

		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			w.cleanup(root)
			return diag.New(diag.PatchApplicationFailed, "creating directory for %q: %v", full, err)
		}

		if err := os.WriteFile(full, f.contents, 0o644); err != nil {
			w.cleanup(root)
			return diag.New(diag.PatchApplicationFailed, "writing %q: %v", full, err)
		}
	}

	return nil
}

// cleanup removes any partially written output on a failed emission
// (§7 policy 3: resource/toolchain errors clean up partial output).
func (w *writer) cleanup(root string) {
	_ = os.RemoveAll(root)
}
