// Package assembly implements the top-level harness of §4.9: a single
// top module instantiating the cycle counter, credit counters, FIFOs,
// register-file writers, SRAM blackboxes, and every lowered module
// instance, wired using only the frozen InteractionMatrix (§4.5) and
// write-port allocation (§4.7) — no re-derivation from the IR.
package assembly

import (
	"github.com/assassyn-lang/assassyn/pkg/alloc"
	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/lower"
	"github.com/assassyn-lang/assassyn/pkg/naming"
)

// Wire is a top-level wire whose value is computed by Driver rather
// than connected directly between two instance ports (e.g. a credit
// delta, or global_finish).
type Wire struct {
	Name   string
	Width  uint
	Driver lower.Node
}

// Instance is one module instantiation in the top module.
type Instance struct {
	InstanceName string
	ModuleType   string
	Module       *ir.Module
	Connections  []Conn
}

// Conn is one named port binding on an instantiation: `.Port(Expr)`.
// Expr is either a literal ("1'b1"), a top-level wire/net name, or a
// hierarchical reference to a sibling instance's own port
// ("<instance>.<port>") — SystemVerilog permits reading a sibling
// instance's port directly by hierarchical name, the same way
// instanceRef already builds the finish/trigger aggregation terms.
type Conn struct {
	Port string
	Expr string
}

// TieOff records a declared push port that no caller ever targets; its
// push_valid/push_data inputs are tied to zero at top level.
type TieOff struct {
	Port  *ir.Port
	Width uint
}

// Top is the HDL-agnostic top-level assembly, analogous to
// lower.Module.
type Top struct {
	Name           string
	Instances      []Instance
	CreditCounters []CreditCounter
	FIFOs          []FIFOInst
	RegFiles       []RegFile
	SRAMs          []SRAM
	Wires          []Wire
	GlobalFinish   lower.Node
	TieOffs        []TieOff
}

func (t *Top) addWire(name string, width uint, driver lower.Node) {
	t.Wires = append(t.Wires, Wire{Name: name, Width: width, Driver: driver})
}

// instanceRef names the hierarchical reference to instance inst's named
// port, e.g. "AdderInstance.Adder_trigger".
func instanceRef(instanceName, port string, width uint) lower.Node {
	return lower.Ref{Name: instanceName + "." + port, Width: width}
}

// hierName is instanceRef's plain-string counterpart, for building Conn
// expressions rather than lower.Node trees.
func hierName(instanceName, port string) string {
	return instanceName + "." + port
}

// Assemble builds the top-level harness for sys from its frozen matrix
// and write-port allocation.
func Assemble(sys *ir.System, matrix *analysis.InteractionMatrix, wports map[*ir.Array]*alloc.PortMap) *Top {
	top := &Top{Name: sys.Name}

	instanceNames := map[*ir.Module]string{}

	for _, m := range sys.Modules {
		name := naming.InstanceName(m.Name)
		instanceNames[m] = name

		top.Instances = append(top.Instances, Instance{InstanceName: name, ModuleType: m.Name, Module: m})
	}

	top.addCreditCounters(sys, matrix, instanceNames)
	top.addFIFOs(sys, matrix, instanceNames)
	top.addRegFiles(sys, matrix, wports)
	top.addSRAMs(sys, matrix, wports)
	top.addTieOffs(sys, matrix)
	top.wireInstances(sys, matrix, wports, instanceNames)
	top.wireRegFiles(matrix, wports, instanceNames)
	top.wireSRAMs(matrix, wports, instanceNames)

	var finishTerms []lower.Node

	for _, inst := range top.Instances {
		finishTerms = append(finishTerms, instanceRef(inst.InstanceName, "finish", 1))
	}

	top.GlobalFinish = lower.Reduce{Op: "||", Terms: finishTerms, Empty: lower.Lit{Width: 1, Value: "0"}}
	top.addWire("global_finish_w", 1, top.GlobalFinish)

	return top
}
