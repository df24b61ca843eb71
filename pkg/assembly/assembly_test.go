package assembly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assassyn-lang/assassyn/pkg/alloc"
	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/builder"
	"github.com/assassyn-lang/assassyn/pkg/dtype"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/lower"
	"github.com/assassyn-lang/assassyn/pkg/naming"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

// buildTwoWriterSystem mirrors Scenario C of §8: two pipeline modules
// both write index 0 of the same array.
func buildTwoWriterSystem(t *testing.T) (*ir.System, *analysis.InteractionMatrix, map[*ir.Array]*alloc.PortMap) {
	t.Helper()

	builder.Begin("sys")

	arr := ir.NewArray("arr", dtype.UnsignedIntT(8), 1)
	zero := value.MustConst(dtype.UnsignedIntT(1), 0)
	data := value.MustConst(dtype.UnsignedIntT(8), 1)

	_, err := builder.EnterModule(ir.Pipeline, "M1")
	require.NoError(t, err)
	require.NoError(t, builder.WriteArray(arr, zero, data))
	require.NoError(t, builder.ExitModule())

	_, err = builder.EnterModule(ir.Pipeline, "M2")
	require.NoError(t, err)
	require.NoError(t, builder.WriteArray(arr, zero, data))
	require.NoError(t, builder.ExitModule())

	sys := builder.End()
	naming.AssignNames(sys)

	matrix, errs := analysis.Run(sys)
	require.Empty(t, errs)

	wports := alloc.AllocateWritePorts(matrix)

	return sys, matrix, wports
}

func TestAssembleRegFileHasTwoWritePorts(t *testing.T) {
	sys, matrix, wports := buildTwoWriterSystem(t)

	top := Assemble(sys, matrix, wports)

	require.Len(t, top.RegFiles, 1)
	assert.Equal(t, 2, top.RegFiles[0].WritePorts)
}

func TestAssembleOneInstancePerModule(t *testing.T) {
	sys, matrix, wports := buildTwoWriterSystem(t)

	top := Assemble(sys, matrix, wports)

	assert.Len(t, top.Instances, len(sys.Modules))
}

func TestAssembleGlobalFinishReducesEveryInstance(t *testing.T) {
	sys, matrix, wports := buildTwoWriterSystem(t)

	top := Assemble(sys, matrix, wports)

	reduce, ok := top.GlobalFinish.(lower.Reduce)
	require.True(t, ok)
	assert.Len(t, reduce.Terms, len(sys.Modules))
}
