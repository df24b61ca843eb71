package assembly

import (
	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/lower"
)

// CreditCounter is one per-callee credit counter (§4.9 item 2): an
// 8-bit saturating, non-negative count of outstanding execution grants.
type CreditCounter struct {
	Callee       *ir.Module
	InstanceName string
	Delta        lower.Node
	Connections  []Conn
}

// addCreditCounters instantiates one credit counter per non-driver
// pipeline module, with Delta summing every caller's `<callee>_trigger`
// output.
func (t *Top) addCreditCounters(sys *ir.System, matrix *analysis.InteractionMatrix, instanceNames map[*ir.Module]string) {
	for _, callee := range sys.Pipelines() {
		var terms []lower.Node

		for _, caller := range matrix.Callers() {
			for _, call := range matrix.AsyncCalls(caller) {
				if call.Callee != callee {
					continue
				}

				terms = append(terms, instanceRef(instanceNames[caller], callee.Name+"_trigger", 8))

				break
			}
		}

		instanceName := instanceNames[callee] + "_credit_counter"

		cc := CreditCounter{
			Callee:       callee,
			InstanceName: instanceName,
			Delta:        lower.Sum{Terms: terms},
			Connections: []Conn{
				{Port: "clk", Expr: "clk"},
				{Port: "rst", Expr: "rst"},
				{Port: "delta", Expr: instanceName + "_delta"},
				{Port: "pop_ready", Expr: hierName(instanceNames[callee], "executed")},
			},
		}

		t.CreditCounters = append(t.CreditCounters, cc)
		t.addWire(cc.InstanceName+"_delta", 8, cc.Delta)
	}
}
