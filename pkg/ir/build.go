package ir

import (
	"github.com/assassyn-lang/assassyn/pkg/diag"
	"github.com/assassyn-lang/assassyn/pkg/dtype"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

// The New* constructors in this file build a single IR node (or fold it
// away to a Const) without touching the module-body/meta_cond bookkeeping;
// pkg/builder owns that half of the "ir_builder contract" (§4.3) and is the
// only caller of these functions that a frontend ever reaches transitively.

// NewBinaryOp builds (or folds) a binary operation.
func NewBinaryOp(op Opcode, lhs, rhs value.Value, loc SourceLoc) (value.Value, error) {
	if lc, lok := value.AsConst(lhs); lok {
		if rc, rok := value.AsConst(rhs); rok {
			if folded, ok, err := FoldBinary(op, lc, rc); ok || err != nil {
				return folded, err
			}
		}
	}

	t, err := DeriveBinaryOpType(op, lhs, rhs)
	if err != nil {
		return nil, err
	}

	return &BinaryOp{ExprBase: NewExprBase(t, loc), Op: op, LHS: lhs, RHS: rhs}, nil
}

// NewUnaryOp builds (or folds) a unary operation.
func NewUnaryOp(op Opcode, arg value.Value, loc SourceLoc) (value.Value, error) {
	if c, ok := value.AsConst(arg); ok {
		if folded, ok, err := FoldUnary(op, c); ok || err != nil {
			return folded, err
		}
	}

	t, err := DeriveUnaryOpType(op, arg)
	if err != nil {
		return nil, err
	}

	return &UnaryOp{ExprBase: NewExprBase(t, loc), Op: op, Arg: arg}, nil
}

// NewSlice builds (or folds) a slice expression.
func NewSlice(arg value.Value, lo, hi uint, loc SourceLoc) (value.Value, error) {
	t, err := DeriveSliceType(arg, lo, hi)
	if err != nil {
		return nil, err
	}

	if c, ok := value.AsConst(arg); ok {
		return FoldSlice(c, lo, hi)
	}

	return &Slice{ExprBase: NewExprBase(t, loc), Arg: arg, Lo: lo, Hi: hi}, nil
}

// NewConcat builds (or folds) a concat expression.
func NewConcat(lhs, rhs value.Value, loc SourceLoc) (value.Value, error) {
	if lc, lok := value.AsConst(lhs); lok {
		if rc, rok := value.AsConst(rhs); rok {
			return FoldConcat(lc, rc)
		}
	}

	t := DeriveConcatType(lhs, rhs)

	return &Concat{ExprBase: NewExprBase(t, loc), LHS: lhs, RHS: rhs}, nil
}

// NewSelect builds a ternary mux; cond must be Bits(1)-width.
func NewSelect(cond, t, f value.Value, loc SourceLoc) (value.Value, error) {
	if cond.DType().BitWidth() != 1 {
		return nil, diag.New(diag.TypeMismatch, "select condition must be 1 bit wide, got %d", cond.DType().BitWidth())
	}

	if !t.DType().Equal(f.DType()) {
		return nil, diag.New(diag.TypeMismatch, "select branches have different types: %s vs %s", t.DType(), f.DType())
	}

	return &Select{ExprBase: NewExprBase(t.DType(), loc), SelCond: cond, T: t, F: f}, nil
}

// NewSelect1Hot builds a one-hot mux over options.
func NewSelect1Hot(selectors, options []value.Value, loc SourceLoc) (value.Value, error) {
	if len(selectors) != len(options) || len(options) == 0 {
		return nil, diag.New(diag.TypeMismatch, "select1hot requires matching non-empty selector/option lists")
	}

	t := options[0].DType()

	for _, o := range options[1:] {
		if !o.DType().Equal(t) {
			return nil, diag.New(diag.TypeMismatch, "select1hot options have mismatched types")
		}
	}

	return &Select1Hot{ExprBase: NewExprBase(t, loc), Selectors: selectors, Options: options}, nil
}

// NewCast builds (or folds) a bitcast/zext/sext.
func NewCast(op Opcode, target *dtype.DType, arg value.Value, loc SourceLoc) (value.Value, error) {
	if err := ValidateCast(op, target, arg); err != nil {
		return nil, err
	}

	if c, ok := value.AsConst(arg); ok {
		raw, err := FoldCast(op, target, c)
		if err != nil {
			return nil, err
		}

		return value.NewConst(target, raw)
	}

	return &Cast{ExprBase: NewExprBase(target, loc), Op: op, Arg: arg}, nil
}

// NewArrayRead builds an array-read node (predicate-scoped deduplication
// happens one layer up, in pkg/builder, before this is ever called).
func NewArrayRead(arr *Array, idx value.Value, loc SourceLoc) *ArrayRead {
	return &ArrayRead{ExprBase: NewExprBase(arr.ElementType, loc), Array: arr, Index: idx}
}

// NewArrayWrite builds an array-write node; effectful, Void-typed.
func NewArrayWrite(arr *Array, idx, data value.Value, loc SourceLoc) (*ArrayWrite, error) {
	if !data.DType().Equal(arr.ElementType) {
		return nil, diag.New(diag.TypeMismatch, "array write expects %s, got %s", arr.ElementType, data.DType())
	}

	return &ArrayWrite{ExprBase: NewExprBase(dtype.VoidT(), loc), Array: arr, Index: idx, Data: data}, nil
}

// NewFIFOPush builds a push-site node; effectful, Void-typed.
func NewFIFOPush(port *Port, data value.Value, loc SourceLoc) (*FIFOPush, error) {
	if !data.DType().Equal(port.DType) {
		return nil, diag.New(diag.TypeMismatch, "push to port %s expects %s, got %s", port.Name, port.DType, data.DType())
	}

	return &FIFOPush{ExprBase: NewExprBase(dtype.VoidT(), loc), Port: port, Data: data}, nil
}

// NewFIFOPop builds a pop-site node, typed as the port's element type.
func NewFIFOPop(port *Port, loc SourceLoc) *FIFOPop {
	return &FIFOPop{ExprBase: NewExprBase(port.DType, loc), Port: port}
}

// NewBind builds a Bind node, forwarding target's type.
func NewBind(target value.Value, loc SourceLoc) *Bind {
	return &Bind{ExprBase: NewExprBase(target.DType(), loc), Target: target}
}

// NewAsyncCall builds an async-call node; Void-typed.
func NewAsyncCall(callee *Module, loc SourceLoc) *AsyncCall {
	return &AsyncCall{ExprBase: NewExprBase(dtype.VoidT(), loc), Callee: callee}
}

// NewLog builds a log node; effectful, Void-typed.
func NewLog(format string, args []value.Value, loc SourceLoc) *Log {
	return &Log{ExprBase: NewExprBase(dtype.VoidT(), loc), Format: format, Args: args}
}

// NewWireAssign builds a named wire assignment; effectful, Void-typed.
func NewWireAssign(name string, v value.Value, loc SourceLoc) *WireAssign {
	return &WireAssign{ExprBase: NewExprBase(dtype.VoidT(), loc), WireName: name, Value: v}
}

// NewWireRead builds a wire-read node of the given type (resolved by
// pkg/builder against a prior WireAssign in the same module).
func NewWireRead(name string, t *dtype.DType, loc SourceLoc) *WireRead {
	return &WireRead{ExprBase: NewExprBase(t, loc), WireName: name}
}

// NewIntrinsic builds a generic effectful intrinsic; Void-typed.
func NewIntrinsic(name string, args []value.Value, loc SourceLoc) *Intrinsic {
	return &Intrinsic{ExprBase: NewExprBase(dtype.VoidT(), loc), IntrinsicName: name, Args: args}
}

// NewPureIntrinsic builds a generic effect-free intrinsic of the given
// result type.
func NewPureIntrinsic(name string, t *dtype.DType, args []value.Value, loc SourceLoc) *PureIntrinsic {
	return &PureIntrinsic{ExprBase: NewExprBase(t, loc), IntrinsicName: name, Args: args}
}

// NewFinish builds a finish intrinsic; Void-typed.
func NewFinish(loc SourceLoc) *Finish {
	return &Finish{ExprBase: NewExprBase(dtype.VoidT(), loc)}
}

// NewWaitUntil builds a wait-until intrinsic; Void-typed, pred must be 1
// bit wide.
func NewWaitUntil(pred value.Value, loc SourceLoc) (*WaitUntil, error) {
	if pred.DType().BitWidth() != 1 {
		return nil, diag.New(diag.TypeMismatch, "wait_until predicate must be 1 bit wide")
	}

	return &WaitUntil{ExprBase: NewExprBase(dtype.VoidT(), loc), Pred: pred}, nil
}

// NewExternalIntrinsic instantiates a foreign HDL block; Void-typed (its
// outputs are read back via NewExternalOutputRead).
func NewExternalIntrinsic(class *ExternalClass, args []value.Value, loc SourceLoc) *ExternalIntrinsic {
	return &ExternalIntrinsic{ExprBase: NewExprBase(dtype.VoidT(), loc), Class: class, Args: args}
}

// NewExternalOutputRead reads one output port of a foreign instance.
func NewExternalOutputRead(inst *ExternalIntrinsic, port string, idx *uint, loc SourceLoc) (*ExternalOutputRead, error) {
	p, ok := inst.Class.Port(port)
	if !ok || p.Dir != DirOut {
		return nil, diag.New(diag.TypeMismatch, "external class %s has no output port %q", inst.Class.ModuleName, port)
	}

	return &ExternalOutputRead{ExprBase: NewExprBase(p.DType, loc), Instance: inst, Port: port, Index: idx}, nil
}

// NewPushPredicateMarker builds a structural push-predicate marker.
func NewPushPredicateMarker(pred value.Value, loc SourceLoc) *PushPredicateMarker {
	return &PushPredicateMarker{ExprBase: NewExprBase(dtype.VoidT(), loc), Pred: pred}
}

// NewPopPredicateMarker builds a structural pop-predicate marker.
func NewPopPredicateMarker(loc SourceLoc) *PopPredicateMarker {
	return &PopPredicateMarker{ExprBase: NewExprBase(dtype.VoidT(), loc)}
}
