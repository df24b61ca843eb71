package builder

import (
	"github.com/assassyn-lang/assassyn/pkg/diag"
	"github.com/assassyn-lang/assassyn/pkg/dtype"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

// predicateFrame is one entry of a module's predicate stack: the active
// condition and a cache of array reads created while this frame was on
// top, discarded wholesale when the frame pops (§4.3).
type predicateFrame struct {
	cond  value.Value
	cache map[cacheKey]*ir.ArrayRead
}

// cacheKey identifies an (array, index) pair for the predicate-scoped
// array-read cache. Constant indices are keyed by value so that two
// `array[Const(3)]` reads alias; expression indices are keyed by the
// expression's stable identity so distinct computed indices never
// spuriously alias.
type cacheKey struct {
	arr *ir.Array
	idx any
}

func indexKey(idx value.Value) any {
	if c, ok := value.AsConst(idx); ok {
		return "c:" + c.Val.String()
	}

	if e, ok := idx.(ir.Expr); ok {
		return e.ID()
	}

	return idx
}

// trueConst is the constant-true predicate used when no frame is active.
var trueConst = value.MustConst(dtype.BitsT(1), 1)

// PushPredicate pushes a new predicate frame with a fresh, empty array-read
// cache, and emits a PushPredicate structural marker into the current
// module's body.
func PushPredicate(cond value.Value) error {
	ctx, err := currentModuleContext()
	if err != nil {
		return err
	}

	if cond.DType().BitWidth() != 1 {
		return diag.New(diag.TypeMismatch, "predicate must be 1 bit wide, got %d", cond.DType().BitWidth())
	}

	ctx.frames = append(ctx.frames, &predicateFrame{cond: cond, cache: map[cacheKey]*ir.ArrayRead{}})

	marker := ir.NewPushPredicateMarker(cond, captureLoc(2))
	marker.SetModule(ctx.module)
	marker.SetCond(currentPredicate(ctx))
	ctx.module.AddExpr(marker)

	return nil
}

// PopPredicate pops the top predicate frame, discarding its array-read
// cache, and emits a PopPredicate structural marker.
func PopPredicate() error {
	ctx, err := currentModuleContext()
	if err != nil {
		return err
	}

	if len(ctx.frames) == 0 {
		return diag.New(diag.LeakedPredicate, "pop_predicate called with no predicate frame open in module %q", ctx.module.Name)
	}

	ctx.frames = ctx.frames[:len(ctx.frames)-1]

	marker := ir.NewPopPredicateMarker(captureLoc(2))
	marker.SetModule(ctx.module)
	marker.SetCond(currentPredicate(ctx))
	ctx.module.AddExpr(marker)

	return nil
}

// currentPredicate returns the AND of every frame's condition, or
// constant-true if the stack is empty.
func currentPredicate(ctx *moduleContext) value.Value {
	if len(ctx.frames) == 0 {
		return trueConst
	}

	acc := ctx.frames[0].cond
	for _, f := range ctx.frames[1:] {
		folded, err := ir.NewBinaryOp(ir.OpAnd, acc, f.cond, ir.SourceLoc{})
		if err != nil {
			// Predicate conditions are always 1-bit Bits/UnsignedInt
			// values produced by this same package, so ANDing them can
			// only fail on an internal inconsistency.
			panic(err)
		}

		acc = folded
	}

	return acc
}

// CurrentPredicate returns the AND of every predicate active in the
// current module, for frontend code that wants to inspect (rather than
// push) the active condition.
func CurrentPredicate() (value.Value, error) {
	ctx, err := currentModuleContext()
	if err != nil {
		return nil, err
	}

	return currentPredicate(ctx), nil
}

// cachedArrayRead probes the frame stack from innermost to outermost for a
// prior read of (arr, idx), returning it on a hit.
func cachedArrayRead(ctx *moduleContext, key cacheKey) (*ir.ArrayRead, bool) {
	for i := len(ctx.frames) - 1; i >= 0; i-- {
		if rd, ok := ctx.frames[i].cache[key]; ok {
			return rd, true
		}
	}

	if rd, ok := ctx.topCache[key]; ok {
		return rd, true
	}

	return nil, false
}

// Condition is the idiomatic-Go substitute for `with Condition(c):`: it
// pushes cond, runs body, and pops, propagating any error from either the
// push, the body, or the pop.
func Condition(cond value.Value, body func() error) error {
	if err := PushPredicate(cond); err != nil {
		return err
	}

	bodyErr := body()

	if err := PopPredicate(); err != nil {
		if bodyErr != nil {
			return bodyErr
		}

		return err
	}

	return bodyErr
}

// Cycle is the idiomatic-Go substitute for `with Cycle(n):`: it pushes
// `current_cycle() == n` as the active predicate for body's duration.
func Cycle(n uint64, body func() error) error {
	cc, err := CurrentCycle()
	if err != nil {
		return err
	}

	nConst := value.MustConst(cc.DType(), int64(n))

	eq, err := ir.NewBinaryOp(ir.OpEq, cc, nConst, captureLoc(2))
	if err != nil {
		return err
	}

	return Condition(eq, body)
}
