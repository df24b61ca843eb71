package ir

import "github.com/assassyn-lang/assassyn/pkg/value"

// BinaryOp is the addition/subtraction/bitwise/shift/comparison family.
type BinaryOp struct {
	ExprBase
	Op       Opcode
	LHS, RHS value.Value
}

// Opcode implementation for Expr.
func (e *BinaryOp) Opcode() Opcode { return e.Op }

// Operands implementation for Expr.
func (e *BinaryOp) Operands() []value.Value { return []value.Value{e.LHS, e.RHS} }

// UnaryOp is logical/bitwise negation.
type UnaryOp struct {
	ExprBase
	Op  Opcode
	Arg value.Value
}

// Opcode implementation for Expr.
func (e *UnaryOp) Opcode() Opcode { return e.Op }

// Operands implementation for Expr.
func (e *UnaryOp) Operands() []value.Value { return []value.Value{e.Arg} }

// Slice extracts bits [Lo:Hi] (inclusive) of Arg.
type Slice struct {
	ExprBase
	Arg    value.Value
	Lo, Hi uint
}

// Opcode implementation for Expr.
func (e *Slice) Opcode() Opcode { return OpSlice }

// Operands implementation for Expr.
func (e *Slice) Operands() []value.Value { return []value.Value{e.Arg} }

// Concat concatenates two values, LHS in the high bits.
type Concat struct {
	ExprBase
	LHS, RHS value.Value
}

// Opcode implementation for Expr.
func (e *Concat) Opcode() Opcode { return OpConcat }

// Operands implementation for Expr.
func (e *Concat) Operands() []value.Value { return []value.Value{e.LHS, e.RHS} }

// Select is the ternary mux: Cond ? T : F.
type Select struct {
	ExprBase
	SelCond value.Value
	T, F    value.Value
}

// Opcode implementation for Expr.
func (e *Select) Opcode() Opcode { return OpSelect }

// Operands implementation for Expr.
func (e *Select) Operands() []value.Value { return []value.Value{e.SelCond, e.T, e.F} }

// Select1Hot selects among Options using a one-hot Selectors vector of the
// same length; undefined (by construction) unless exactly one selector bit
// is set.
type Select1Hot struct {
	ExprBase
	Selectors []value.Value
	Options   []value.Value
}

// Opcode implementation for Expr.
func (e *Select1Hot) Opcode() Opcode { return OpSelect1Hot }

// Operands implementation for Expr.
func (e *Select1Hot) Operands() []value.Value {
	out := make([]value.Value, 0, len(e.Selectors)+len(e.Options))
	out = append(out, e.Selectors...)
	out = append(out, e.Options...)

	return out
}

// Cast is bitcast/zero-extend/sign-extend.
type Cast struct {
	ExprBase
	Op  Opcode
	Arg value.Value
}

// Opcode implementation for Expr.
func (e *Cast) Opcode() Opcode { return e.Op }

// Operands implementation for Expr.
func (e *Cast) Operands() []value.Value { return []value.Value{e.Arg} }

// ArrayRead reads Array at Index. Deduplicated by pkg/builder's
// predicate-scoped cache.
type ArrayRead struct {
	ExprBase
	Array *Array
	Index value.Value
	// ReadOrder is the global first-seen order assigned by pkg/analysis;
	// zero until analysis runs.
	ReadOrder int
}

// Opcode implementation for Expr.
func (e *ArrayRead) Opcode() Opcode { return OpArrayRead }

// Operands implementation for Expr.
func (e *ArrayRead) Operands() []value.Value { return []value.Value{e.Index} }

// ArrayWrite writes Data to Array at Index; effectful.
type ArrayWrite struct {
	ExprBase
	Array *Array
	Index value.Value
	Data  value.Value
}

// Opcode implementation for Expr.
func (e *ArrayWrite) Opcode() Opcode { return OpArrayWrite }

// Operands implementation for Expr.
func (e *ArrayWrite) Operands() []value.Value { return []value.Value{e.Index, e.Data} }

// FIFOPush pushes Data into Port, which belongs to some callee module;
// effectful.
type FIFOPush struct {
	ExprBase
	Port *Port
	Data value.Value
}

// Opcode implementation for Expr.
func (e *FIFOPush) Opcode() Opcode { return OpFIFOPush }

// Operands implementation for Expr.
func (e *FIFOPush) Operands() []value.Value { return []value.Value{e.Data} }

// FIFOPop pops the owning module's own Port; the popped value's dtype is
// the port's element type.
type FIFOPop struct {
	ExprBase
	Port *Port
}

// Opcode implementation for Expr.
func (e *FIFOPop) Opcode() Opcode { return OpFIFOPop }

// Operands implementation for Expr.
func (e *FIFOPop) Operands() []value.Value { return nil }

// Bind explicitly tags a value for cross-module exposure even when it
// would not otherwise be referenced by another module's expression; the
// analysis pass treats a Bind the same as any other producer-side
// expression, but its presence lets frontend code request an output port
// be synthesized ahead of any consumer existing yet.
type Bind struct {
	ExprBase
	Target value.Value
}

// Opcode implementation for Expr.
func (e *Bind) Opcode() Opcode { return OpBind }

// Operands implementation for Expr.
func (e *Bind) Operands() []value.Value { return []value.Value{e.Target} }

// AsyncCall records one call site targeting Callee; the call's arguments
// appear in the body as individual FIFOPush expressions sharing this node's
// meta_cond. The node itself carries no result value (Void) and exists so
// analysis can build the AsyncLedger without re-deriving call sites from
// pushes.
type AsyncCall struct {
	ExprBase
	Callee *Module
}

// Opcode implementation for Expr.
func (e *AsyncCall) Opcode() Opcode { return OpAsyncCall }

// Operands implementation for Expr.
func (e *AsyncCall) Operands() []value.Value { return nil }

// Log is an effectful diagnostic print, gated by its meta_cond at emission
// (testbench contract, §6/§4.10).
type Log struct {
	ExprBase
	Format string
	Args   []value.Value
}

// Opcode implementation for Expr.
func (e *Log) Opcode() Opcode { return OpLog }

// Operands implementation for Expr.
func (e *Log) Operands() []value.Value { return e.Args }

// WireAssign names an internal, module-local signal; effectful.
type WireAssign struct {
	ExprBase
	WireName string
	Value    value.Value
}

// Opcode implementation for Expr.
func (e *WireAssign) Opcode() Opcode { return OpWireAssign }

// Operands implementation for Expr.
func (e *WireAssign) Operands() []value.Value { return []value.Value{e.Value} }

// WireRead reads back a value previously named by a WireAssign in the same
// module.
type WireRead struct {
	ExprBase
	WireName string
}

// Opcode implementation for Expr.
func (e *WireRead) Opcode() Opcode { return OpWireRead }

// Operands implementation for Expr.
func (e *WireRead) Operands() []value.Value { return nil }

// Intrinsic is a generic effectful operation not otherwise modeled (e.g. a
// simulation-only side effect); Void-typed.
type Intrinsic struct {
	ExprBase
	IntrinsicName string
	Args          []value.Value
}

// Opcode implementation for Expr.
func (e *Intrinsic) Opcode() Opcode { return OpIntrinsic }

// Operands implementation for Expr.
func (e *Intrinsic) Operands() []value.Value { return e.Args }

// PureIntrinsic is a generic effect-free operation not otherwise modeled.
type PureIntrinsic struct {
	ExprBase
	IntrinsicName string
	Args          []value.Value
}

// Opcode implementation for Expr.
func (e *PureIntrinsic) Opcode() Opcode { return OpPureIntrinsic }

// Operands implementation for Expr.
func (e *PureIntrinsic) Operands() []value.Value { return e.Args }

// Finish marks a point at which the enclosing module (and hence the whole
// system, per the fixed Open Question) may assert global_finish.
type Finish struct {
	ExprBase
}

// Opcode implementation for Expr.
func (e *Finish) Opcode() Opcode { return OpFinish }

// Operands implementation for Expr.
func (e *Finish) Operands() []value.Value { return nil }

// WaitUntil conditions the enclosing module's execution, in addition to its
// credit grant, on Pred.
type WaitUntil struct {
	ExprBase
	Pred value.Value
}

// Opcode implementation for Expr.
func (e *WaitUntil) Opcode() Opcode { return OpWaitUntil }

// Operands implementation for Expr.
func (e *WaitUntil) Operands() []value.Value { return []value.Value{e.Pred} }

// ExternalIntrinsic instantiates one instance of a foreign HDL block.
type ExternalIntrinsic struct {
	ExprBase
	Class *ExternalClass
	Args  []value.Value
}

// Opcode implementation for Expr.
func (e *ExternalIntrinsic) Opcode() Opcode { return OpExternalIntrinsic }

// Operands implementation for Expr.
func (e *ExternalIntrinsic) Operands() []value.Value { return e.Args }

// ExternalOutputRead reads one output port of a foreign instance, possibly
// from a module other than the one that instantiated it (a cross-module
// read, §4.6).
type ExternalOutputRead struct {
	ExprBase
	Instance *ExternalIntrinsic
	Port     string
	Index    *uint
}

// Opcode implementation for Expr.
func (e *ExternalOutputRead) Opcode() Opcode { return OpExternalOutputRead }

// Operands implementation for Expr.
func (e *ExternalOutputRead) Operands() []value.Value { return nil }

// PushPredicateMarker is the structural "enter predicate scope" marker
// emitted into a module body by pkg/builder; it carries no result value.
type PushPredicateMarker struct {
	ExprBase
	Pred value.Value
}

// Opcode implementation for Expr.
func (e *PushPredicateMarker) Opcode() Opcode { return OpPushPredicate }

// Operands implementation for Expr.
func (e *PushPredicateMarker) Operands() []value.Value { return []value.Value{e.Pred} }

// PopPredicateMarker is the structural "exit predicate scope" marker.
type PopPredicateMarker struct {
	ExprBase
}

// Opcode implementation for Expr.
func (e *PopPredicateMarker) Opcode() Opcode { return OpPopPredicate }

// Operands implementation for Expr.
func (e *PopPredicateMarker) Operands() []value.Value { return nil }
