package assembly

import (
	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/ir"
)

// addTieOffs records every declared input port that no push site ever
// targets, so the renderer can tie its push_valid/push_data inputs to
// zero rather than leave them floating.
func (t *Top) addTieOffs(sys *ir.System, matrix *analysis.InteractionMatrix) {
	for _, m := range sys.Pipelines() {
		for _, port := range m.Ports {
			if len(matrix.FIFOPushes(port)) > 0 {
				continue
			}

			t.TieOffs = append(t.TieOffs, TieOff{Port: port, Width: port.DType.BitWidth()})
		}
	}
}
