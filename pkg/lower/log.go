package lower

// addLogSynthesis wires one clocked, predicate-gated $display per Log
// expression this module owns (§4.2 Log, §6 testbench contract): the
// print fires when `executed_wire AND meta_cond(log)` holds.
func (c *ctx) addLogSynthesis(executed Node) error {
	for _, site := range c.matrix.LogSites(c.src) {
		args := make([]Node, 0, len(site.Log.Args))

		for _, a := range site.Log.Args {
			n, err := c.ref(a)
			if err != nil {
				return err
			}

			args = append(args, n)
		}

		cond := and(executed, c.cond(site.Log))
		c.out.addLog(cond, site.Log.Format, args)
	}

	return nil
}
