package assembly

import (
	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/lower"
)

// FIFOInst is one top-level FIFO instance per (consumer module, input
// port), depth = max explicit push depth, else DefaultFIFODepth.
type FIFOInst struct {
	Port         *ir.Port
	InstanceName string
	Depth        uint
	Width        uint
	// HasPopReady is true when the owning pipeline module itself pops
	// this port (so it exposes a `<port>_pop_ready` output); false for a
	// declared-but-never-popped port, whose FIFO drains pop_ready tied
	// low instead.
	HasPopReady bool
	Connections []Conn
}

// addFIFOs instantiates one FIFO per declared input port of every
// pipeline module (§8 property 3) — not merely the ports some push
// site happens to target, so a declared-but-never-pushed port still
// gets its FIFO (and ends up tied off, see tieoff.go) — and arbitrates
// its push side across every distinct module that pushes to it
// (first-seen module wins ties, Open Question 3's priority rule applied
// across callers as well as within one).
func (t *Top) addFIFOs(sys *ir.System, matrix *analysis.InteractionMatrix, instanceNames map[*ir.Module]string) {
	for _, m := range sys.Pipelines() {
		for _, port := range m.Ports {
			name := "fifo_" + port.Owner.Name + "_" + port.Name
			key := port.Owner.Name + "_" + port.Name
			width := port.DType.BitWidth()

			pushers := matrix.FIFOPushes(port)
			seen := map[*ir.Module]bool{}

			var condTerms []lower.Node

			var dataCases []lower.MuxCase

			for _, ps := range pushers {
				if seen[ps.Module] {
					continue
				}

				seen[ps.Module] = true

				inst := instanceNames[ps.Module]
				validRef := instanceRef(inst, key+"_push_valid", 1)
				dataRef := instanceRef(inst, key+"_push_data", width)

				condTerms = append(condTerms, validRef)
				dataCases = append(dataCases, lower.MuxCase{Cond: validRef, Val: dataRef})
			}

			pushValidWire := name + "_push_valid_w"
			pushDataWire := name + "_push_data_w"

			if len(condTerms) == 0 {
				t.addWire(pushValidWire, 1, lower.Lit{Width: 1, Value: "0"})
				t.addWire(pushDataWire, width, lower.Lit{Width: width, Value: "0"})
			} else {
				t.addWire(pushValidWire, 1, lower.Reduce{Op: "||", Terms: condTerms, Empty: lower.Lit{Width: 1, Value: "0"}})
				t.addWire(pushDataWire, width, lower.PriorityMux{Cases: dataCases})
			}

			hasPopReady := false

			for _, pop := range matrix.FIFOPops(port) {
				if pop.Module == port.Owner {
					hasPopReady = true
					break
				}
			}

			popReadyConn := "1'b0"
			if hasPopReady {
				popReadyConn = hierName(instanceNames[port.Owner], port.Name+"_pop_ready")
			}

			conns := []Conn{
				{Port: "clk", Expr: "clk"},
				{Port: "rst", Expr: "rst"},
				{Port: "push_valid", Expr: pushValidWire},
				{Port: "push_data", Expr: pushDataWire},
				{Port: "pop_ready", Expr: popReadyConn},
			}

			t.FIFOs = append(t.FIFOs, FIFOInst{
				Port:         port,
				InstanceName: name,
				Depth:        port.Depth(),
				Width:        width,
				HasPopReady:  hasPopReady,
				Connections:  conns,
			})
		}
	}
}
