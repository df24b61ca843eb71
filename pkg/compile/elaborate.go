// Package compile wires the pipeline phases — naming, analysis,
// write-port allocation, lowering, assembly, emission — behind the
// single public entry point the rest of the system calls: Elaborate.
package compile

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/assassyn-lang/assassyn/pkg/alloc"
	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/diag"
	"github.com/assassyn-lang/assassyn/pkg/emit"
	"github.com/assassyn-lang/assassyn/pkg/extern"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/naming"
)

// Target selects which backend(s) Elaborate produces output for.
type Target int

// The three targets named by §6's compile entry point signature.
const (
	SV Target = iota
	Simulator
	Both
)

// Config is the Go spelling of elaborate(...)'s keyword arguments (§6).
type Config struct {
	OutputDir        string
	Target           Target
	SimThreshold     uint64
	ResourceBase     string
	OverrideExisting bool
}

// DefaultSimThreshold bounds the testbench's cycle count when a caller
// leaves SimThreshold unset (zero).
const DefaultSimThreshold = 1_000_000

// Elaborate is the compile entry point of §6: naming -> analysis ->
// write-port allocation -> per-module lowering -> top-level assembly ->
// SystemVerilog emission. sys must already be frozen (returned by
// builder.End()). Returns nil on success, a *diag.Error otherwise; no
// partial output is left behind on failure (§7 policy 2/3).
func Elaborate(sys *ir.System, cfg Config) error {
	if !sys.Frozen() {
		return diag.New(diag.MissingModuleContext, "Elaborate called on a system that was never frozen via builder.End")
	}

	if cfg.Target == Simulator || cfg.Target == Both {
		return diag.New(diag.SimulatorBackendUnavailable,
			"the simulator backend is out of scope; only Target: SV is implemented")
	}

	if cfg.SimThreshold == 0 {
		cfg.SimThreshold = DefaultSimThreshold
	}

	log := logrus.WithFields(logrus.Fields{"system": sys.Name, "phase": "elaborate"})
	start := time.Now()

	log.Debug("assigning deterministic names")
	naming.AssignNames(sys)

	log.Debug("running analysis pass")

	matrix, errs := analysis.Run(sys)
	if len(errs) > 0 {
		return errs[0]
	}

	log.Debug("allocating array write ports")
	wports := alloc.AllocateWritePorts(matrix)

	hasExternals := len(matrix.Externals().Classes()) > 0
	if _, warn := extern.CheckVerilatorRoot(hasExternals); warn != nil {
		log.Warn(warn.Error())
	}

	resourceBase := cfg.ResourceBase
	if resourceBase == "" {
		resourceBase = extern.RepoHome()
	}

	log.Debug("lowering modules and assembling top-level harness")

	if err := emit.Write(sys, matrix, wports, emit.Config{
		OutputDir:        cfg.OutputDir,
		SimThreshold:     cfg.SimThreshold,
		OverrideExisting: cfg.OverrideExisting,
		ResourceBase:     resourceBase,
	}); err != nil {
		return err
	}

	log.WithField("elapsed", time.Since(start)).Debug("elaboration complete")

	return nil
}
