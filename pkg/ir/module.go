package ir

import "github.com/assassyn-lang/assassyn/pkg/value"

// ModuleKind distinguishes the four module variants of the data model.
type ModuleKind int

// The four module kinds.
const (
	Driver ModuleKind = iota
	Pipeline
	Downstream
	ExternalWrapper
)

// String implementation for fmt.Stringer.
func (k ModuleKind) String() string {
	switch k {
	case Driver:
		return "Driver"
	case Pipeline:
		return "Pipeline"
	case Downstream:
		return "Downstream"
	case ExternalWrapper:
		return "ExternalWrapper"
	default:
		return "?"
	}
}

// Module is one of the four IR module variants. Its Body is the flat,
// ordered list of expressions (including PushPredicate/PopPredicate
// structural markers) produced while the module was the active context on
// the builder's module stack.
type Module struct {
	Kind ModuleKind
	Name string
	// Seq is the insertion-order sequence number assigned when the module
	// was entered on the builder stack. The write-port allocator (§4.7)
	// does not read it; it follows the analysis matrix's write order.
	Seq int
	// Body is the flat expression list.
	Body []Expr
	// Ports are this module's declared input FIFO heads (Pipeline only;
	// empty for Driver/Downstream/ExternalWrapper).
	Ports []*Port
	// ExternalRefs is a slot for values consumed from other modules.
	// pkg/builder does not populate it and pkg/analysis does not read it;
	// analysis discovers cross-module exposures by walking operand lists.
	ExternalRefs []value.Value
}

// NewModule constructs an empty module of the given kind and name. Seq must
// be assigned by the caller (pkg/builder, from its module-entry counter).
func NewModule(kind ModuleKind, name string, seq int) *Module {
	return &Module{Kind: kind, Name: name, Seq: seq}
}

// AddExpr appends e to the module body; called by pkg/builder's commit
// step, never directly by frontend code.
func (m *Module) AddExpr(e Expr) {
	m.Body = append(m.Body, e)
}

// AddPort declares a new input port (Pipeline modules only).
func (m *Module) AddPort(p *Port) {
	m.Ports = append(m.Ports, p)
}

// Port looks up a declared input port by name, returning (nil, false) if
// absent.
func (m *Module) Port(name string) (*Port, bool) {
	for _, p := range m.Ports {
		if p.Name == name {
			return p, true
		}
	}

	return nil, false
}

// FinishSites returns every Finish expression in this module's body, in
// body order; each carries its frozen meta_cond (Cond()).
func (m *Module) FinishSites() []*Finish {
	var out []*Finish

	for _, e := range m.Body {
		if f, ok := e.(*Finish); ok {
			out = append(out, f)
		}
	}

	return out
}

// WaitUntilPredicate returns every WaitUntil predicate declared in this
// module's body, in body order, or nil if none. The caller conjoins them
// (pkg/lower's execution guard ANDs the list), so multiple WaitUntil
// intrinsics act as one predicate.
func (m *Module) WaitUntilPredicate() []value.Value {
	var out []value.Value

	for _, e := range m.Body {
		if w, ok := e.(*WaitUntil); ok {
			out = append(out, w.Pred)
		}
	}

	return out
}
