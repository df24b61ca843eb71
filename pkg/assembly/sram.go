package assembly

import (
	"github.com/assassyn-lang/assassyn/pkg/alloc"
	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/ir"
)

// SRAM is one blackbox memory instance per payload array (§4.9 item 5):
// a single write interface (arbitrated at the top level across every
// writer module, the same way FIFO push sites are arbitrated across
// callers) and R independently addressed read ports,
// $readmemh-initialized when an init file is present, else left
// unreset.
type SRAM struct {
	Array        *ir.Array
	InstanceName string
	ReadPorts    int
	Connections  []Conn
}

func (t *Top) addSRAMs(sys *ir.System, matrix *analysis.InteractionMatrix, wports map[*ir.Array]*alloc.PortMap) {
	for _, arr := range matrix.Arrays() {
		if !arr.IsPayload {
			continue
		}

		t.SRAMs = append(t.SRAMs, SRAM{
			Array:        arr,
			InstanceName: "sram_" + arr.Name,
			ReadPorts:    len(matrix.ArrayReads(arr)),
		})
	}
}
