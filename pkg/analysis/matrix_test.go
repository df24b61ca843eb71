package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assassyn-lang/assassyn/pkg/builder"
	"github.com/assassyn-lang/assassyn/pkg/dtype"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

func TestRunCollectsAsyncLedgerAndFIFOBucket(t *testing.T) {
	builder.Begin("sys")

	callee, err := builder.EnterModule(ir.Pipeline, "callee")
	require.NoError(t, err)
	port := ir.NewPort(callee, "a", dtype.UnsignedIntT(8))
	require.NoError(t, builder.ExitModule())

	_, err = builder.EnterModule(ir.Driver, "driver")
	require.NoError(t, err)

	arg := value.MustConst(dtype.UnsignedIntT(8), 1)
	require.NoError(t, builder.Call(callee, map[string]value.Value{"a": arg}, nil))
	require.NoError(t, builder.ExitModule())

	sys := builder.End()

	m, errs := Run(sys)
	assert.Empty(t, errs)
	assert.True(t, m.Frozen())

	driver := sys.Modules[1]
	calls := m.AsyncCalls(driver)
	require.Len(t, calls, 1)
	assert.Same(t, callee, calls[0].Callee)

	pushes := m.FIFOPushes(port)
	require.Len(t, pushes, 1)
	assert.Same(t, driver, pushes[0].Module)
}

func TestRunCollectsArrayBucketsInOrder(t *testing.T) {
	builder.Begin("sys")

	_, err := builder.EnterModule(ir.Pipeline, "p")
	require.NoError(t, err)

	arr := ir.NewArray("mem", dtype.UnsignedIntT(8), 16)

	idx0 := value.MustConst(dtype.UnsignedIntT(4), 0)
	idx1 := value.MustConst(dtype.UnsignedIntT(4), 1)
	data := value.MustConst(dtype.UnsignedIntT(8), 7)

	require.NoError(t, builder.WriteArray(arr, idx0, data))

	port := ir.NewPort(mustCurrentModule(t), "in", dtype.UnsignedIntT(4))
	nonConstIdx, err := builder.Pop(port)
	require.NoError(t, err)

	_, err = builder.ReadArray(arr, nonConstIdx)
	require.NoError(t, err)

	_, err = builder.ReadArray(arr, idx1)
	require.NoError(t, err)

	require.NoError(t, builder.ExitModule())

	sys := builder.End()

	m, errs := Run(sys)
	assert.Empty(t, errs)

	writes := m.ArrayWrites(arr)
	require.Len(t, writes, 1)

	reads := m.ArrayReads(arr)
	require.Len(t, reads, 2)
	assert.Equal(t, 0, reads[0].Read.ReadOrder)
	assert.Equal(t, 1, reads[1].Read.ReadOrder)

	assert.Equal(t, []*ir.Array{arr}, m.Arrays())
}

func TestRunDetectsCrossModuleExposure(t *testing.T) {
	builder.Begin("sys")

	producer, err := builder.EnterModule(ir.Pipeline, "producer")
	require.NoError(t, err)

	producerPort := ir.NewPort(producer, "in", dtype.UnsignedIntT(8))
	produced, err := builder.Pop(producerPort)
	require.NoError(t, err)
	require.NoError(t, builder.ExitModule())

	consumer, err := builder.EnterModule(ir.Downstream, "consumer")
	require.NoError(t, err)

	five := value.MustConst(dtype.UnsignedIntT(8), 5)
	_, err = builder.Add(produced, five)
	require.NoError(t, err)
	require.NoError(t, builder.ExitModule())

	sys := builder.End()

	m, errs := Run(sys)
	assert.Empty(t, errs)

	exposures := m.ExposuresFor(consumer)
	require.Len(t, exposures, 1)
	assert.Same(t, producer, exposures[0].Producer)
	assert.Same(t, consumer, exposures[0].Consumer)

	deps := m.Dependencies(consumer)
	require.Len(t, deps, 1)
	assert.Same(t, producer, deps[0])
}

func TestRunCollectsFinishSites(t *testing.T) {
	builder.Begin("sys")

	_, err := builder.EnterModule(ir.Pipeline, "p")
	require.NoError(t, err)
	require.NoError(t, builder.Finish())
	require.NoError(t, builder.ExitModule())

	sys := builder.End()

	m, errs := Run(sys)
	assert.Empty(t, errs)

	sites := m.FinishSites(sys.Modules[0])
	assert.Len(t, sites, 1)
}

func TestRunWithNoModulesIsFrozenAndEmpty(t *testing.T) {
	builder.Begin("sys")
	sys := builder.End()

	m, errs := Run(sys)
	assert.Empty(t, errs)
	assert.True(t, m.Frozen())
	assert.Empty(t, m.Callers())
	assert.Empty(t, m.Arrays())
}

func mustCurrentModule(t *testing.T) *ir.Module {
	t.Helper()

	m, err := builder.CurrentModule()
	require.NoError(t, err)

	return m
}
