package lower

import "github.com/assassyn-lang/assassyn/pkg/ir"

// executionGuard derives `executed_wire` per §4.8 and wires it to the
// module's `executed` output, returning a Ref to it for the remaining
// synthesis steps to consume.
func (c *ctx) executionGuard() (Node, error) {
	waitPreds := c.src.WaitUntilPredicate()

	var waitNode Node

	for _, p := range waitPreds {
		n, err := c.ref(p)
		if err != nil {
			return nil, err
		}

		waitNode = and(waitNode, n)
	}

	var guard Node

	switch c.src.Kind {
	case ir.Downstream:
		var deps []Node

		for _, dep := range c.matrix.Dependencies(c.src) {
			deps = append(deps, Ref{Name: dep.Name + "_executed", Width: 1})
		}

		guard = or(deps...)

	default:
		guard = and(Ref{Name: "trigger_counter_pop_valid", Width: 1}, waitNode)
	}

	c.out.addSignal("executed_wire", 1, guard)
	c.out.addSignal("executed", 1, Ref{Name: "executed_wire", Width: 1})

	return Ref{Name: "executed_wire", Width: 1}, nil
}

// addFinish wires `finish = OR over finish-sites of (executed_wire AND
// meta_cond)`.
func (c *ctx) addFinish(executed Node) {
	var terms []Node

	for _, site := range c.matrix.FinishSites(c.src) {
		terms = append(terms, and(executed, c.cond(site.Finish)))
	}

	c.out.addSignal("finish", 1, or(terms...))
}
