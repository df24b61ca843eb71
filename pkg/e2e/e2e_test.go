// Package e2e runs full System -> Elaborate -> emitted-text checks for
// the scenarios of §8, each built with the builder API the way a real
// frontend program would and elaborated to a temporary output directory.
package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assassyn-lang/assassyn/pkg/builder"
	"github.com/assassyn-lang/assassyn/pkg/compile"
	"github.com/assassyn-lang/assassyn/pkg/dtype"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

func elaborate(t *testing.T, sys *ir.System) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, compile.Elaborate(sys, compile.Config{OutputDir: dir, OverrideExisting: true}))

	return filepath.Join(dir, sys.Name, "verilog")
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)

	return string(data)
}

// Scenario A: Driver calls Adder(lhs, rhs) asynchronously; Adder pops
// both and writes their sum to a 1-element register array.
func TestScenarioA_AdderPipeline(t *testing.T) {
	builder.Begin("scenario_a")

	u32 := dtype.UnsignedIntT(32)
	arr := ir.NewArray("result", u32, 1)

	adder, err := builder.EnterModule(ir.Pipeline, "Adder")
	require.NoError(t, err)

	lhsPort := ir.NewPort(adder, "lhs", u32)
	rhsPort := ir.NewPort(adder, "rhs", u32)

	lhs, err := builder.Pop(lhsPort)
	require.NoError(t, err)
	rhs, err := builder.Pop(rhsPort)
	require.NoError(t, err)

	sum, err := builder.Add(lhs, rhs)
	require.NoError(t, err)
	require.NoError(t, builder.WriteArray(arr, value.MustConst(dtype.UnsignedIntT(1), 0), sum))
	require.NoError(t, builder.ExitModule())

	_, err = builder.InModule(ir.Driver, "Main", func(m *ir.Module) error {
		return builder.Call(adder, map[string]value.Value{
			"lhs": value.MustConst(u32, 3),
			"rhs": value.MustConst(u32, 4),
		}, nil)
	})
	require.NoError(t, err)

	sys := builder.End()
	root := elaborate(t, sys)

	top := readFile(t, root, filepath.Join("sv", "hw", "Top.sv"))
	assert.Contains(t, top, "fifo_Adder_lhs")
	assert.Contains(t, top, "fifo_Adder_rhs")
	assert.Contains(t, top, "AdderInstance_credit_counter")
	assert.Contains(t, top, "regfile_result")
}

// Scenario B: two reads of the same index inside and outside a predicate
// scope produce distinct IR identity.
func TestScenarioB_PredicateScopedReadsAreDistinct(t *testing.T) {
	builder.Begin("scenario_b")

	arr := ir.NewArray("arr", dtype.UnsignedIntT(8), 4)
	idx := value.MustConst(dtype.UnsignedIntT(2), 1)

	var a, b value.Value

	_, err := builder.InModule(ir.Pipeline, "Reader", func(m *ir.Module) error {
		sel := value.MustConst(dtype.BitsT(1), 1)

		if err := builder.Condition(sel, func() error {
			var innerErr error
			a, innerErr = builder.ReadArray(arr, idx)
			return innerErr
		}); err != nil {
			return err
		}

		var outerErr error
		b, outerErr = builder.ReadArray(arr, idx)

		return outerErr
	})
	require.NoError(t, err)

	sys := builder.End()
	_ = elaborate(t, sys)

	assert.NotSame(t, a.(ir.Expr), b.(ir.Expr))
}

// Scenario C: two pipeline modules both write arr[0]; Top instantiates
// the array's register file and the allocator assigns write ports in
// insertion order (M1 -> 0, M2 -> 1).
func TestScenarioC_TwoWritersSameArray(t *testing.T) {
	builder.Begin("scenario_c")

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
	root := elaborate(t, sys)

	top := readFile(t, root, filepath.Join("sv", "hw", "Top.sv"))
	assert.Contains(t, top, "regfile_arr")

	idxM1, okM1 := arr.WritePorts[sys.Modules[0]]
	idxM2, okM2 := arr.WritePorts[sys.Modules[1]]
	require.True(t, okM1)
	require.True(t, okM2)
	assert.Equal(t, uint(0), idxM1)
	assert.Equal(t, uint(1), idxM2)
}

// Scenario D: `with Cycle(10): finish()` asserts global_finish exactly
// when current_cycle == 10.
func TestScenarioD_FinishAtCycle(t *testing.T) {
	builder.Begin("scenario_d")

	_, err := builder.InModule(ir.Driver, "Main", func(m *ir.Module) error {
		return builder.Cycle(10, func() error {
			return builder.Finish()
		})
	})
	require.NoError(t, err)

	sys := builder.End()
	root := elaborate(t, sys)

	mainSV := readFile(t, root, filepath.Join("sv", "hw", "Main.sv"))
	assert.Contains(t, mainSV, "finish")
	assert.Contains(t, mainSV, "10")
}

// Scenario F: Driver calls Pipe three times in one cycle under three
// distinct predicates; the trigger signal sums each predicate AND'd with
// executed into an 8-bit credit delta.
func TestScenarioF_CreditFlow(t *testing.T) {
	builder.Begin("scenario_f")

	pipe, err := builder.EnterModule(ir.Pipeline, "Pipe")
	require.NoError(t, err)

	inPort := ir.NewPort(pipe, "x", dtype.UnsignedIntT(8))
	_, err = builder.Pop(inPort)
	require.NoError(t, err)
	require.NoError(t, builder.ExitModule())

	_, err = builder.InModule(ir.Driver, "Main", func(m *ir.Module) error {
		for i := 0; i < 3; i++ {
			sel := value.MustConst(dtype.BitsT(1), 1)

			if err := builder.Condition(sel, func() error {
				return builder.Call(pipe, map[string]value.Value{
					"x": value.MustConst(dtype.UnsignedIntT(8), int64(i)),
				}, nil)
			}); err != nil {
				return err
			}
		}

		return nil
	})
	require.NoError(t, err)

	sys := builder.End()
	root := elaborate(t, sys)

	mainSV := readFile(t, root, filepath.Join("sv", "hw", "Main.sv"))
	assert.Contains(t, mainSV, "Pipe_trigger")

	top := readFile(t, root, filepath.Join("sv", "hw", "Top.sv"))
	assert.Contains(t, top, "PipeInstance_credit_counter")
}
