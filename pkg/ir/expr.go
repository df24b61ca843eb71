// Package ir holds the IR entities described by the data model: Modules,
// Arrays, Ports/FIFOs, and the flat list of Expression nodes that make up a
// module body. Expressions are immutable once constructed, aside from the
// module/meta_cond/name bookkeeping attached by pkg/builder at construction
// time and the name possibly rewritten (idempotently) by pkg/naming.
package ir

import (
	"github.com/assassyn-lang/assassyn/pkg/dtype"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

// Expr is the common interface satisfied by every IR expression node.  It
// extends value.Value, so an Expr may itself be used as an operand to
// another Expr.
type Expr interface {
	value.Value
	// Module returns the Module that owns this expression.
	Module() *Module
	// SetModule assigns the owning module; called exactly once, by
	// pkg/builder, at construction time.
	SetModule(m *Module)
	// Cond returns the meta_cond frozen at construction time: the AND of
	// every predicate active when the expression was built, or a
	// constant-true Bits(1) value when no predicate was active.
	Cond() value.Value
	// SetCond assigns meta_cond; called exactly once, by pkg/builder.
	SetCond(c value.Value)
	// Opcode returns the operation this node performs.
	Opcode() Opcode
	// Operands returns this node's operand list in a stable, op-specific
	// order (used by naming and analysis traversal).
	Operands() []value.Value
	// Loc returns the DSL call-site location captured at construction.
	Loc() SourceLoc
	// ID returns a process-wide, monotonically increasing construction
	// sequence number, used as a cheap stable identity for naming,
	// traversal ordering and map keys.
	ID() uint64
	// Name returns the currently assigned name (empty until the naming
	// pass, or non-empty immediately if an explicit name was supplied).
	Name() string
	// SetName assigns a name; used by an explicit-name call and by the
	// naming pass.
	SetName(name string)
}

// SourceLoc is a DSL call-site location.
type SourceLoc struct {
	File string
	Line int
}

// nextID is the process-wide expression sequence counter. The compiler
// pipeline is single-threaded (§5), so a bare counter is sufficient.
var nextID uint64

func allocID() uint64 {
	nextID++
	return nextID
}

// ExprBase is embedded by every concrete node type and implements the
// bookkeeping portion of the Expr interface, so each node type need only
// implement Opcode() and Operands().
type ExprBase struct {
	dtype  *dtype.DType
	module *Module
	cond   value.Value
	loc    SourceLoc
	id     uint64
	name   string
}

// NewExprBase constructs the common bookkeeping state for a new node of the
// given type, allocating its stable sequence id.
func NewExprBase(t *dtype.DType, loc SourceLoc) ExprBase {
	return ExprBase{dtype: t, loc: loc, id: allocID()}
}

// DType implementation for value.Value.
func (b *ExprBase) DType() *dtype.DType { return b.dtype }

// IsConst implementation for value.Value.
func (b *ExprBase) IsConst() bool { return false }

// Module implementation for Expr.
func (b *ExprBase) Module() *Module { return b.module }

// SetModule implementation for Expr.
func (b *ExprBase) SetModule(m *Module) { b.module = m }

// Cond implementation for Expr.
func (b *ExprBase) Cond() value.Value { return b.cond }

// SetCond implementation for Expr.
func (b *ExprBase) SetCond(c value.Value) { b.cond = c }

// Loc implementation for Expr.
func (b *ExprBase) Loc() SourceLoc { return b.loc }

// ID implementation for Expr.
func (b *ExprBase) ID() uint64 { return b.id }

// Name implementation for Expr.
func (b *ExprBase) Name() string { return b.name }

// SetName implementation for Expr.
func (b *ExprBase) SetName(name string) { b.name = name }

// String implementation for fmt.Stringer; debug-oriented, emission has its
// own dedicated renderers (pkg/emit).
func (b *ExprBase) String() string {
	if b.name != "" {
		return b.name
	}

	return "<expr>"
}
