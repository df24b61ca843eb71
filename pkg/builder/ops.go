package builder

import (
	"regexp"

	"github.com/assassyn-lang/assassyn/pkg/diag"
	"github.com/assassyn-lang/assassyn/pkg/dtype"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

// commitMaybe commits v if it is an uncommitted Expr node, or passes it
// through unchanged if it already folded to a Const.
func commitMaybe(v value.Value) (value.Value, error) {
	e, ok := v.(ir.Expr)
	if !ok {
		return v, nil
	}

	return commitValue(e)
}

func commitValue(e ir.Expr) (value.Value, error) {
	committed, err := commit(e)
	if err != nil {
		return nil, err
	}

	return committed.(value.Value), nil
}

func binOp(op ir.Opcode, lhs, rhs value.Value) (value.Value, error) {
	v, err := ir.NewBinaryOp(op, lhs, rhs, captureLoc(3))
	if err != nil {
		return nil, err
	}

	return commitMaybe(v)
}

// Add, Sub, Mul, And, Or, Xor, Shl, Shr, Sar and the comparison family build
// (or fold, for two constants) the corresponding binary operation in the
// current module under the current predicate.
func Add(lhs, rhs value.Value) (value.Value, error) { return binOp(ir.OpAdd, lhs, rhs) }
func Sub(lhs, rhs value.Value) (value.Value, error) { return binOp(ir.OpSub, lhs, rhs) }
func Mul(lhs, rhs value.Value) (value.Value, error) { return binOp(ir.OpMul, lhs, rhs) }
func And(lhs, rhs value.Value) (value.Value, error) { return binOp(ir.OpAnd, lhs, rhs) }
func Or(lhs, rhs value.Value) (value.Value, error)  { return binOp(ir.OpOr, lhs, rhs) }
func Xor(lhs, rhs value.Value) (value.Value, error) { return binOp(ir.OpXor, lhs, rhs) }
func Shl(lhs, rhs value.Value) (value.Value, error) { return binOp(ir.OpShl, lhs, rhs) }
func Shr(lhs, rhs value.Value) (value.Value, error) { return binOp(ir.OpShr, lhs, rhs) }
func Sar(lhs, rhs value.Value) (value.Value, error) { return binOp(ir.OpSar, lhs, rhs) }
func Lt(lhs, rhs value.Value) (value.Value, error)  { return binOp(ir.OpLt, lhs, rhs) }
func Le(lhs, rhs value.Value) (value.Value, error)  { return binOp(ir.OpLe, lhs, rhs) }
func Gt(lhs, rhs value.Value) (value.Value, error)  { return binOp(ir.OpGt, lhs, rhs) }
func Ge(lhs, rhs value.Value) (value.Value, error)  { return binOp(ir.OpGe, lhs, rhs) }
func Eq(lhs, rhs value.Value) (value.Value, error)  { return binOp(ir.OpEq, lhs, rhs) }
func Ne(lhs, rhs value.Value) (value.Value, error)  { return binOp(ir.OpNe, lhs, rhs) }

func unaryOp(op ir.Opcode, arg value.Value) (value.Value, error) {
	v, err := ir.NewUnaryOp(op, arg, captureLoc(3))
	if err != nil {
		return nil, err
	}

	return commitMaybe(v)
}

// Not and Neg build (or fold) bitwise-not and arithmetic negation.
func Not(arg value.Value) (value.Value, error) { return unaryOp(ir.OpNot, arg) }
func Neg(arg value.Value) (value.Value, error) { return unaryOp(ir.OpNeg, arg) }

// Slice builds (or folds) arg[lo:hi] (inclusive).
func Slice(arg value.Value, lo, hi uint) (value.Value, error) {
	v, err := ir.NewSlice(arg, lo, hi, captureLoc(2))
	if err != nil {
		return nil, err
	}

	return commitMaybe(v)
}

// Concat builds (or folds) {lhs, rhs}, lhs in the high bits.
func Concat(lhs, rhs value.Value) (value.Value, error) {
	v, err := ir.NewConcat(lhs, rhs, captureLoc(2))
	if err != nil {
		return nil, err
	}

	return commitMaybe(v)
}

// Select builds a ternary mux cond ? t : f.
func Select(cond, t, f value.Value) (value.Value, error) {
	v, err := ir.NewSelect(cond, t, f, captureLoc(2))
	if err != nil {
		return nil, err
	}

	return commitValue(v.(ir.Expr))
}

// Select1Hot builds a one-hot mux over options.
func Select1Hot(selectors, options []value.Value) (value.Value, error) {
	v, err := ir.NewSelect1Hot(selectors, options, captureLoc(2))
	if err != nil {
		return nil, err
	}

	return commitValue(v.(ir.Expr))
}

// Bitcast, ZExt and SExt build (or fold) the corresponding cast.
func Bitcast(target *dtype.DType, arg value.Value) (value.Value, error) {
	return castOp(ir.OpBitcast, target, arg)
}

func ZExt(target *dtype.DType, arg value.Value) (value.Value, error) {
	return castOp(ir.OpZExt, target, arg)
}

func SExt(target *dtype.DType, arg value.Value) (value.Value, error) {
	return castOp(ir.OpSExt, target, arg)
}

func castOp(op ir.Opcode, target *dtype.DType, arg value.Value) (value.Value, error) {
	v, err := ir.NewCast(op, target, arg, captureLoc(3))
	if err != nil {
		return nil, err
	}

	return commitMaybe(v)
}

// ReadArray reads arr[idx] in the current module under the current
// predicate, reusing an identical in-scope read per the predicate-scoped
// array-read cache (§4.3).
func ReadArray(arr *ir.Array, idx value.Value) (value.Value, error) {
	ctx, err := currentModuleContext()
	if err != nil {
		return nil, err
	}

	key := cacheKey{arr: arr, idx: indexKey(idx)}
	if rd, ok := cachedArrayRead(ctx, key); ok {
		return rd, nil
	}

	rd := ir.NewArrayRead(arr, idx, captureLoc(2))

	if _, err := commit(rd); err != nil {
		return nil, err
	}

	if len(ctx.frames) == 0 {
		// No predicate scope open: cache at module scope by using a
		// synthetic frame-less bucket so repeated reads at the top level
		// still dedupe within the same module.
		if ctx.topCache == nil {
			ctx.topCache = map[cacheKey]*ir.ArrayRead{}
		}

		ctx.topCache[key] = rd
	} else {
		ctx.frames[len(ctx.frames)-1].cache[key] = rd
	}

	return rd, nil
}

// WriteArray writes data to arr[idx]; effectful.
func WriteArray(arr *ir.Array, idx, data value.Value) error {
	aw, err := ir.NewArrayWrite(arr, idx, data, captureLoc(2))
	if err != nil {
		return err
	}

	_, err = commit(aw)

	return err
}

// Pop pops the current module's own port; port must belong to the current
// module.
func Pop(port *ir.Port) (value.Value, error) {
	ctx, err := currentModuleContext()
	if err != nil {
		return nil, err
	}

	if port.Owner != ctx.module {
		return nil, diag.New(diag.TypeMismatch, "module %q cannot pop port %q owned by %q",
			ctx.module.Name, port.Name, port.Owner.Name)
	}

	fp := ir.NewFIFOPop(port, captureLoc(2))

	return commitValue(fp)
}

// Call asynchronously invokes callee, binding args by port name and
// optionally declaring per-port FIFO depths (depths may be nil). One
// AsyncCall ledger node and one FIFOPush per bound port are appended to
// the current module's body under the current predicate.
func Call(callee *ir.Module, args map[string]value.Value, depths map[string]uint) error {
	if _, err := currentModuleContext(); err != nil {
		return err
	}

	call := ir.NewAsyncCall(callee, captureLoc(2))
	if _, err := commit(call); err != nil {
		return err
	}

	for _, port := range callee.Ports {
		v, ok := args[port.Name]
		if !ok {
			return diag.New(diag.TypeMismatch, "call to %q missing argument for port %q", callee.Name, port.Name)
		}

		if d, ok := depths[port.Name]; ok {
			port.DeclareDepth(d)
		} else {
			port.DeclareDepth(ir.DefaultFIFODepth)
		}

		push, err := ir.NewFIFOPush(port, v, captureLoc(2))
		if err != nil {
			return err
		}

		if _, err := commit(push); err != nil {
			return err
		}
	}

	return nil
}

// Log emits a diagnostic print gated by the current predicate at
// emission time (testbench contract).
func Log(format string, args ...value.Value) error {
	l := ir.NewLog(format, args, captureLoc(2))
	_, err := commit(l)

	return err
}

// Finish marks a point at which global_finish may assert.
func Finish() error {
	f := ir.NewFinish(captureLoc(2))
	_, err := commit(f)

	return err
}

// WaitUntil conditions the current module's execution on pred, in addition
// to its credit grant.
func WaitUntil(pred value.Value) error {
	w, err := ir.NewWaitUntil(pred, captureLoc(2))
	if err != nil {
		return err
	}

	_, err = commit(w)

	return err
}

// WireAssignOp names an internal module-local signal.
func WireAssignOp(name string, v value.Value) error {
	wa := ir.NewWireAssign(name, v, captureLoc(2))
	_, err := commit(wa)

	return err
}

// WireReadOp reads back a value previously named via WireAssignOp in the
// current module.
func WireReadOp(name string) (value.Value, error) {
	ctx, err := currentModuleContext()
	if err != nil {
		return nil, err
	}

	for i := len(ctx.module.Body) - 1; i >= 0; i-- {
		if wa, ok := ctx.module.Body[i].(*ir.WireAssign); ok && wa.WireName == name {
			wr := ir.NewWireRead(name, wa.DType(), captureLoc(2))
			return commitValue(wr)
		}
	}

	return nil, diag.New(diag.TypeMismatch, "no wire named %q assigned yet in module %q", name, ctx.module.Name)
}

// NewExternal instantiates a foreign HDL block in the current module.
func NewExternal(class *ir.ExternalClass, args map[string]value.Value) (*ir.ExternalIntrinsic, error) {
	ordered := make([]value.Value, 0, len(class.Ports))

	for _, p := range class.Ports {
		if p.Dir != ir.DirIn {
			continue
		}

		v, ok := args[p.Name]
		if !ok {
			return nil, diag.New(diag.TypeMismatch, "external %q missing argument for input port %q", class.ModuleName, p.Name)
		}

		ordered = append(ordered, v)
	}

	inst := ir.NewExternalIntrinsic(class, ordered, captureLoc(2))
	if _, err := commit(inst); err != nil {
		return nil, err
	}

	return inst, nil
}

// ReadExternalOutput reads one output port of a foreign instance,
// optionally indexed (for array-shaped outputs); idx may be nil.
func ReadExternalOutput(inst *ir.ExternalIntrinsic, port string, idx *uint) (value.Value, error) {
	rd, err := ir.NewExternalOutputRead(inst, port, idx, captureLoc(2))
	if err != nil {
		return nil, err
	}

	return commitValue(rd)
}

// cycleCounterType is the free-running cycle counter's width (§4.9).
var cycleCounterType = dtype.UnsignedIntT(64)

// CurrentCycle reads the global free-running cycle counter.
func CurrentCycle() (value.Value, error) {
	pi := ir.NewPureIntrinsic("current_cycle", cycleCounterType, nil, captureLoc(2))

	return commitValue(pi)
}

// nameRe matches a sanitized identifier; anything else in a user-supplied
// name is replaced with '_'.
var nameRe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// sanitize produces a legal [A-Za-z_][A-Za-z0-9_]* identifier from an
// arbitrary user string, prefixing with '_' if it would otherwise start
// with a digit.
func sanitize(name string) string {
	s := nameRe.ReplaceAllString(name, "_")
	if s == "" {
		return "_"
	}

	if s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}

	return s
}

// Name assigns an explicit name to v, sanitized per §4.4 rule 1. Explicit
// names always win over derived ones; collisions are resolved later by
// pkg/naming's default auto-disambiguation unless the caller opts out via
// NameStrict.
func Name(v value.Value, name string) error {
	e, ok := v.(ir.Expr)
	if !ok {
		return diag.New(diag.TypeMismatch, "cannot assign a name to a constant value")
	}

	e.SetName(sanitize(name))

	return nil
}

// explicitNames tracks names assigned via NameStrict, for NameConflict
// detection (§4.4 rule 1, §7 NameConflict: "only raised if a user override
// forbids auto-disambiguation").
var explicitNames = map[*ir.Module]map[string]bool{}

// NameStrict assigns an explicit name to v and forbids pkg/naming from
// silently disambiguating it on collision: a second NameStrict call with
// the same sanitized name in the same module fails with NameConflict.
func NameStrict(v value.Value, name string) error {
	e, ok := v.(ir.Expr)
	if !ok {
		return diag.New(diag.TypeMismatch, "cannot assign a name to a constant value")
	}

	san := sanitize(name)
	m := e.Module()

	if m == nil {
		return diag.New(diag.MissingModuleContext, "value has no owning module yet")
	}

	used := explicitNames[m]
	if used == nil {
		used = map[string]bool{}
		explicitNames[m] = used
	}

	if used[san] {
		return diag.New(diag.NameConflict, "explicit name %q collides with a prior strict name in module %q", san, m.Name)
	}

	used[san] = true
	e.SetName(san)

	return nil
}
