package assembly

import (
	"github.com/assassyn-lang/assassyn/pkg/alloc"
	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/ir"
)

// RegFile is one register-file writer instance per non-payload array
// (§4.9 item 4): W write ports (reverse-priority arbitration, highest
// index wins) and R read ports, plus the array's reset initializer.
type RegFile struct {
	Array        *ir.Array
	InstanceName string
	WritePorts   int
	ReadPorts    int
	Init         []*int64
	Connections  []Conn
}

func (t *Top) addRegFiles(sys *ir.System, matrix *analysis.InteractionMatrix, wports map[*ir.Array]*alloc.PortMap) {
	for _, arr := range matrix.Arrays() {
		if arr.IsPayload {
			continue
		}

		writePorts := 0
		if pm, ok := wports[arr]; ok {
			writePorts = pm.Count()
		}

		t.RegFiles = append(t.RegFiles, RegFile{
			Array:        arr,
			InstanceName: "regfile_" + arr.Name,
			WritePorts:   writePorts,
			ReadPorts:    len(matrix.ArrayReads(arr)),
			Init:         arr.Init,
		})
	}
}
