package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/builder"
	"github.com/assassyn-lang/assassyn/pkg/dtype"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

func TestAllocateWritePortsAssignsDistinctIndices(t *testing.T) {
	builder.Begin("sys")

	arr := ir.NewArray("mem", dtype.UnsignedIntT(8), 16)
	idx := value.MustConst(dtype.UnsignedIntT(4), 0)
	data := value.MustConst(dtype.UnsignedIntT(8), 1)

	a, err := builder.EnterModule(ir.Pipeline, "a")
	require.NoError(t, err)
	require.NoError(t, builder.WriteArray(arr, idx, data))
	require.NoError(t, builder.ExitModule())

	b, err := builder.EnterModule(ir.Pipeline, "b")
	require.NoError(t, err)
	require.NoError(t, builder.WriteArray(arr, idx, data))
	require.NoError(t, builder.ExitModule())

	sys := builder.End()

	matrix, errs := analysis.Run(sys)
	require.Empty(t, errs)

	ports := AllocateWritePorts(matrix)

	pm, ok := ports[arr]
	require.True(t, ok)
	assert.Equal(t, 2, pm.Count())

	pa, ok := pm.Port(a)
	require.True(t, ok)

	pb, ok := pm.Port(b)
	require.True(t, ok)

	assert.NotEqual(t, pa, pb)
	assert.Equal(t, uint(0), pa)
	assert.Equal(t, uint(1), pb)
	assert.Equal(t, arr.WritePorts, pm.byModule)
}

func TestAllocateWritePortsOneIndexPerModuleDespiteMultipleWrites(t *testing.T) {
	builder.Begin("sys")

	arr := ir.NewArray("mem", dtype.UnsignedIntT(8), 16)
	idx0 := value.MustConst(dtype.UnsignedIntT(4), 0)
	idx1 := value.MustConst(dtype.UnsignedIntT(4), 1)
	data := value.MustConst(dtype.UnsignedIntT(8), 1)

	a, err := builder.EnterModule(ir.Pipeline, "a")
	require.NoError(t, err)
	require.NoError(t, builder.WriteArray(arr, idx0, data))
	require.NoError(t, builder.WriteArray(arr, idx1, data))
	require.NoError(t, builder.ExitModule())

	sys := builder.End()

	matrix, errs := analysis.Run(sys)
	require.Empty(t, errs)

	ports := AllocateWritePorts(matrix)
	pm := ports[arr]

	assert.Equal(t, 1, pm.Count())

	idx, ok := pm.Port(a)
	require.True(t, ok)
	assert.Equal(t, uint(0), idx)
}

func TestAllocateWritePortsSkipsPayloadArrays(t *testing.T) {
	builder.Begin("sys")

	payload := ir.NewArray("payload", dtype.UnsignedIntT(32), 1024)
	payload.IsPayload = true

	idx := value.MustConst(dtype.UnsignedIntT(16), 0)
	data := value.MustConst(dtype.UnsignedIntT(32), 1)

	_, err := builder.EnterModule(ir.Pipeline, "a")
	require.NoError(t, err)
	require.NoError(t, builder.WriteArray(payload, idx, data))
	require.NoError(t, builder.ExitModule())

	sys := builder.End()

	matrix, errs := analysis.Run(sys)
	require.Empty(t, errs)

	ports := AllocateWritePorts(matrix)
	_, ok := ports[payload]
	assert.False(t, ok)
}
