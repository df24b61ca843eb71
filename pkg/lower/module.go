package lower

import (
	"github.com/assassyn-lang/assassyn/pkg/alloc"
	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/ir"
)

// Dir is a lowered port's direction.
type Dir int

// The two port directions.
const (
	In Dir = iota
	Out
)

// Port is one entry of a lowered module's port surface (§4.8).
type Port struct {
	Name  string
	Width uint
	Dir   Dir
}

// Signal is one internal wire: a name, bit width, and the expression
// tree driving it.
type Signal struct {
	Name  string
	Width uint
	Expr  Node
}

// LogStmt is one clocked, predicate-gated diagnostic print (§4.2 Log,
// §6 testbench contract): printed once per cycle this module executes
// with Cond true.
type LogStmt struct {
	Cond   Node
	Format string
	Args   []Node
}

// Module is the HDL-agnostic lowering of one ir.Module: its full port
// surface plus every internal signal needed to drive those ports,
// derived entirely from frozen metadata (§4.8, no further IR traversal
// once built).
type Module struct {
	Name   string
	Kind   ir.ModuleKind
	Ports  []Port
	Signal []Signal
	Logs   []LogStmt
}

func (m *Module) addPort(name string, width uint, dir Dir) {
	m.Ports = append(m.Ports, Port{Name: name, Width: width, Dir: dir})
}

func (m *Module) addSignal(name string, width uint, expr Node) {
	m.Signal = append(m.Signal, Signal{Name: name, Width: width, Expr: expr})
}

func (m *Module) addLog(cond Node, format string, args []Node) {
	m.Logs = append(m.Logs, LogStmt{Cond: cond, Format: format, Args: args})
}

// ctx carries the per-module state threaded through the lowering
// helpers in guard.go, fifo.go, array.go, and exposure.go.
type ctx struct {
	src    *ir.Module
	matrix *analysis.InteractionMatrix
	wports map[*ir.Array]*alloc.PortMap
	out    *Module
}

// Lower builds the HDL-agnostic intermediate for one module. matrix and
// wports must both already be frozen/built (pkg/analysis.Run,
// pkg/alloc.AllocateWritePorts).
func Lower(m *ir.Module, matrix *analysis.InteractionMatrix, wports map[*ir.Array]*alloc.PortMap) (*Module, error) {
	c := &ctx{
		src:    m,
		matrix: matrix,
		wports: wports,
		out:    &Module{Name: m.Name, Kind: m.Kind},
	}

	c.addCommonPorts()

	switch m.Kind {
	case ir.Driver:
		c.addDriverPorts()
	case ir.Pipeline:
		c.addDriverPorts()
		c.addPipelinePorts()
	case ir.Downstream:
		c.addDownstreamPorts()
	case ir.ExternalWrapper:
		// ExternalWrapper modules expose only the foreign class's declared
		// ports; pkg/emit renders those directly from the ExternalClass,
		// so lowering contributes nothing beyond the common ports.
	}

	if err := c.addExternalReferencePorts(); err != nil {
		return nil, err
	}

	c.addArrayPorts()

	executed, err := c.executionGuard()
	if err != nil {
		return nil, err
	}

	c.addFinish(executed)

	if err := c.addFIFOPushSynthesis(executed); err != nil {
		return nil, err
	}

	c.addFIFOPopSynthesis(executed)

	if err := c.addArrayReadSynthesis(); err != nil {
		return nil, err
	}

	c.addArrayWriteSynthesis(executed)
	c.addAsyncCallTriggers(executed)
	c.addExposureSynthesis(executed)

	if err := c.addLogSynthesis(executed); err != nil {
		return nil, err
	}

	return c.out, nil
}

func (c *ctx) addCommonPorts() {
	c.out.addPort("clk", 1, In)
	c.out.addPort("rst", 1, In)
	c.out.addPort("cycle_count", 64, In)
	c.out.addPort("executed", 1, Out)
	c.out.addPort("finish", 1, Out)
}

func (c *ctx) addDriverPorts() {
	c.out.addPort("trigger_counter_pop_valid", 1, In)
}

func (c *ctx) addPipelinePorts() {
	for _, p := range c.src.Ports {
		c.out.addPort(p.Name, p.DType.BitWidth(), In)
		c.out.addPort(p.Name+"_valid", 1, In)

		if c.popsPort(p) {
			c.out.addPort(p.Name+"_pop_ready", 1, Out)
		}
	}
}

func (c *ctx) popsPort(p *ir.Port) bool {
	for _, pop := range c.matrix.FIFOPops(p) {
		if pop.Module == c.src {
			return true
		}
	}

	return false
}

func (c *ctx) addDownstreamPorts() {
	for _, dep := range c.matrix.Dependencies(c.src) {
		c.out.addPort(dep.Name+"_executed", 1, In)
	}
}
