// Package lower implements the per-module lowering pass of §4.8: turning
// one module's frozen IR body into an HDL-agnostic intermediate (ports,
// internal signals, and a small expression tree per signal) that
// pkg/emit renders to SystemVerilog text. Keeping "compute the logic"
// separate from "print syntax" mirrors the way the teacher keeps its
// constraint IR (pkg/air) separate from its textual renderings
// (pkg/air/lisp.go, pkg/air/string.go).
package lower

import "fmt"

// Node is one node of a lowered signal's expression tree.
type Node interface {
	isNode()
}

// Lit is a sized literal value.
type Lit struct {
	Width uint
	Value string
}

func (Lit) isNode() {}

// Ref names a local wire, a declared port, or (for cross-module values)
// a synthesized `<producer>_<value>` input.
type Ref struct {
	Name  string
	Width uint
}

func (Ref) isNode() {}

// Binary applies a two-operand operator; Op is a verbatim SV operator
// token ("+", "-", "&", "==", ...).
type Binary struct {
	Op   string
	L, R Node
}

func (Binary) isNode() {}

// Unary applies a one-operand operator ("!", "~", "-").
type Unary struct {
	Op string
	X  Node
}

func (Unary) isNode() {}

// Mux is a two-way conditional select: Cond ? T : F.
type Mux struct {
	Cond, T, F Node
}

func (Mux) isNode() {}

// MuxCase is one arm of a PriorityMux.
type MuxCase struct {
	Cond Node
	Val  Node
}

// PriorityMux selects the Val of the first Case whose Cond is true, in
// slice order, falling back to Default (Open Question 3: first-matching-
// predicate-wins).
type PriorityMux struct {
	Cases   []MuxCase
	Default Node
}

func (PriorityMux) isNode() {}

// Concat concatenates Parts, first part in the high bits.
type Concat struct {
	Parts []Node
}

func (Concat) isNode() {}

// Reduce folds Terms with a single associative boolean operator ("&&"
// or "||"); an empty Terms list folds to the Empty node.
type Reduce struct {
	Op    string
	Terms []Node
	Empty Node
}

func (Reduce) isNode() {}

// Slice extracts bits [Lo:Hi] of X.
type Slice struct {
	X      Node
	Lo, Hi uint
}

func (Slice) isNode() {}

// Sum is the arithmetic sum of Terms, each zero-extended to the
// enclosing signal's declared width before adding — used for the
// async-call trigger counters (§4.8), which sum 1-bit predicates into an
// 8-bit increment.
type Sum struct {
	Terms []Node
}

func (Sum) isNode() {}

// constTrue/constFalse are the 1-bit constants used wherever a
// structural default is needed (e.g. an empty Reduce, a default
// predicate of 1).
var (
	constTrue  = Lit{Width: 1, Value: "1"}
	constFalse = Lit{Width: 1, Value: "0"}
)

func and(terms ...Node) Node {
	return reduceNonNil("&&", constTrue, terms)
}

func or(terms ...Node) Node {
	return reduceNonNil("||", constFalse, terms)
}

func reduceNonNil(op string, empty Node, terms []Node) Node {
	var filtered []Node

	for _, t := range terms {
		if t != nil {
			filtered = append(filtered, t)
		}
	}

	if len(filtered) == 0 {
		return empty
	}

	if len(filtered) == 1 {
		return filtered[0]
	}

	return Reduce{Op: op, Terms: filtered, Empty: empty}
}

// sig builds the deterministic cross-module reference name
// "<producer>_<value>" used by §4.8's external-reference port surface.
func sig(moduleName, valueName string) string {
	return fmt.Sprintf("%s_%s", moduleName, valueName)
}
