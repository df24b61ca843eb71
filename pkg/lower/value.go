package lower

import (
	"github.com/assassyn-lang/assassyn/pkg/diag"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/value"
)

// ref converts a frontend value into a lowering Node, local Ref for
// same-module expressions and a synthesized "<producer>_<value>" Ref for
// cross-module exposures (§4.8's external-reference port surface).
func (c *ctx) ref(v value.Value) (Node, error) {
	if cst, ok := value.AsConst(v); ok {
		return Lit{Width: cst.DType().BitWidth(), Value: cst.Val.String()}, nil
	}

	e, ok := v.(ir.Expr)
	if !ok {
		return nil, diag.New(diag.Internal, "lowering: value %T is neither a Const nor an ir.Expr", v)
	}

	if e.Module() == nil {
		return nil, diag.New(diag.MissingModuleContext, "lowering: expression %T has no owning module", e)
	}

	if e.Module() == c.src {
		return Ref{Name: e.Name(), Width: e.DType().BitWidth()}, nil
	}

	return Ref{Name: sig(e.Module().Name, e.Name()), Width: e.DType().BitWidth()}, nil
}

// cond renders e's frozen meta_cond, failing fast per §4.8/§7 when it is
// missing (should never happen post-analysis: pkg/analysis.Run already
// checked every expression carries one).
func (c *ctx) cond(e ir.Expr) Node {
	if e.Cond() == nil {
		panic(diag.New(diag.MissingPredicateMetadata, "expression %T in module %q reached lowering with no meta_cond", e, c.src.Name))
	}

	n, err := c.ref(e.Cond())
	if err != nil {
		panic(err)
	}

	return n
}
