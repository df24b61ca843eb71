package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assassyn-lang/assassyn/pkg/alloc"
	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/builder"
	"github.com/assassyn-lang/assassyn/pkg/dtype"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/naming"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

// buildAdderPipeline mirrors Scenario A of §8: a Driver calls Adder(lhs,
// rhs) asynchronously; Adder pops both, writes their sum into a
// 1-element register array.
func buildAdderPipeline(t *testing.T) (*ir.System, *analysis.InteractionMatrix, map[*ir.Array]*alloc.PortMap) {
	t.Helper()

	builder.Begin("sys")

	adder, err := builder.EnterModule(ir.Pipeline, "Adder")
	require.NoError(t, err)

	lhsPort := ir.NewPort(adder, "lhs", dtype.UnsignedIntT(32))
	rhsPort := ir.NewPort(adder, "rhs", dtype.UnsignedIntT(32))

	arr := ir.NewArray("acc", dtype.UnsignedIntT(32), 1)

	lhs, err := builder.Pop(lhsPort)
	require.NoError(t, err)

	rhs, err := builder.Pop(rhsPort)
	require.NoError(t, err)

	sum, err := builder.Add(lhs, rhs)
	require.NoError(t, err)

	zero := value.MustConst(dtype.UnsignedIntT(1), 0)
	require.NoError(t, builder.WriteArray(arr, zero, sum))
	require.NoError(t, builder.ExitModule())

	_, err = builder.EnterModule(ir.Driver, "driver")
	require.NoError(t, err)

	lhsArg := value.MustConst(dtype.UnsignedIntT(32), 3)
	rhsArg := value.MustConst(dtype.UnsignedIntT(32), 4)

	require.NoError(t, builder.Call(adder, map[string]value.Value{"lhs": lhsArg, "rhs": rhsArg}, nil))
	require.NoError(t, builder.ExitModule())

	sys := builder.End()

	naming.AssignNames(sys)

	matrix, errs := analysis.Run(sys)
	require.Empty(t, errs)

	wports := alloc.AllocateWritePorts(matrix)

	return sys, matrix, wports
}

func TestLowerAdderPipelineDriverTrigger(t *testing.T) {
	sys, matrix, wports := buildAdderPipeline(t)

	var driver *ir.Module

	for _, m := range sys.Modules {
		if m.Kind == ir.Driver {
			driver = m
		}
	}
	require.NotNil(t, driver)

	lm, err := Lower(driver, matrix, wports)
	require.NoError(t, err)

	var found bool

	for _, s := range lm.Signal {
		if s.Name == "Adder_trigger" {
			found = true
			assert.Equal(t, uint(8), s.Width)
		}
	}

	assert.True(t, found, "expected an Adder_trigger signal on the driver")
}

func TestLowerAdderModuleHasOneWritePort(t *testing.T) {
	sys, matrix, wports := buildAdderPipeline(t)

	var adder *ir.Module

	for _, m := range sys.Modules {
		if m.Kind == ir.Pipeline {
			adder = m
		}
	}
	require.NotNil(t, adder)

	lm, err := Lower(adder, matrix, wports)
	require.NoError(t, err)

	var wPorts int

	for _, p := range lm.Ports {
		if p.Name == "acc_w_port_0" {
			wPorts++
		}
	}

	assert.Equal(t, 1, wPorts)

	// size-1 array: no address ports.
	for _, p := range lm.Ports {
		assert.NotContains(t, p.Name, "widx")
		assert.NotContains(t, p.Name, "ridx")
	}
}

func TestLowerPipelinePortSurfaceIncludesPopReady(t *testing.T) {
	sys, matrix, wports := buildAdderPipeline(t)

	var adder *ir.Module

	for _, m := range sys.Modules {
		if m.Kind == ir.Pipeline {
			adder = m
		}
	}

	lm, err := Lower(adder, matrix, wports)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, p := range lm.Ports {
		names[p.Name] = true
	}

	assert.True(t, names["lhs_pop_ready"])
	assert.True(t, names["rhs_pop_ready"])
	assert.True(t, names["trigger_counter_pop_valid"])
}
