// Package emit renders the pkg/lower/pkg/assembly intermediates to
// SystemVerilog text, writes the accompanying resource files and
// testbench, and produces a manifest of everything written (§4.10).
// Rendering is direct Go string building — strings.Builder, one render
// function per node kind — the same choice the teacher makes for its
// own textual backends (pkg/air/string.go, pkg/hir/lisp.go) instead of
// a template engine, so output order is exactly iteration order with no
// intervening map traversal to make nondeterministic.
package emit

import (
	"fmt"
	"strings"

	"github.com/assassyn-lang/assassyn/pkg/lower"
)

// renderNode renders one lowering expression node to a SV expression
// string.
func renderNode(n lower.Node) string {
	switch v := n.(type) {
	case nil:
		return "1'b0"

	case lower.Lit:
		return fmt.Sprintf("%d'd%s", v.Width, v.Value)

	case lower.Ref:
		return v.Name

	case lower.Binary:
		return fmt.Sprintf("(%s %s %s)", renderNode(v.L), v.Op, renderNode(v.R))

	case lower.Unary:
		return fmt.Sprintf("(%s%s)", v.Op, renderNode(v.X))

	case lower.Mux:
		return fmt.Sprintf("(%s ? %s : %s)", renderNode(v.Cond), renderNode(v.T), renderNode(v.F))

	case lower.PriorityMux:
		return renderPriorityMux(v)

	case lower.Concat:
		parts := make([]string, len(v.Parts))
		for i, p := range v.Parts {
			parts[i] = renderNode(p)
		}

		return "{" + strings.Join(parts, ", ") + "}"

	case lower.Reduce:
		return renderReduce(v)

	case lower.Slice:
		return fmt.Sprintf("%s[%d:%d]", renderNode(v.X), v.Hi, v.Lo)

	case lower.Sum:
		return renderSum(v)

	default:
		return fmt.Sprintf("/* unrenderable node %T */ 'x", n)
	}
}

func renderPriorityMux(v lower.PriorityMux) string {
	if len(v.Cases) == 0 {
		if v.Default != nil {
			return renderNode(v.Default)
		}

		return "'x"
	}

	expr := ""
	if v.Default != nil {
		expr = renderNode(v.Default)
	} else {
		expr = "'x"
	}

	// First-matching-predicate-wins (Open Question 3): fold from the
	// last case to the first so the first case's condition ends up
	// outermost in the nested ternary.
	for i := len(v.Cases) - 1; i >= 0; i-- {
		c := v.Cases[i]
		expr = fmt.Sprintf("(%s ? %s : %s)", renderNode(c.Cond), renderNode(c.Val), expr)
	}

	return expr
}

func renderReduce(v lower.Reduce) string {
	if len(v.Terms) == 0 {
		return renderNode(v.Empty)
	}

	parts := make([]string, len(v.Terms))
	for i, t := range v.Terms {
		parts[i] = renderNode(t)
	}

	return "(" + strings.Join(parts, " "+v.Op+" ") + ")"
}

func renderSum(v lower.Sum) string {
	if len(v.Terms) == 0 {
		return "8'd0"
	}

	parts := make([]string, len(v.Terms))
	for i, t := range v.Terms {
		parts[i] = renderNode(t)
	}

	return "(" + strings.Join(parts, " + ") + ")"
}
