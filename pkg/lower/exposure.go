package lower

// addAsyncCallTriggers wires, per distinct callee, an 8-bit
// `<callee>_trigger` output: the sum of `executed_wire AND π_k` over
// every call site targeting that callee.
func (c *ctx) addAsyncCallTriggers(executed Node) {
	byCallee := map[string][]Node{}

	var order []string

	for _, call := range c.matrix.AsyncCalls(c.src) {
		cond, err := c.ref(call.Cond)
		if err != nil {
			panic(err)
		}

		key := call.Callee.Name

		if _, seen := byCallee[key]; !seen {
			order = append(order, key)
		}

		byCallee[key] = append(byCallee[key], and(executed, cond))
	}

	for _, key := range order {
		c.out.addPort(key+"_trigger", 8, Out)
		c.out.addSignal(key+"_trigger", 8, Sum{Terms: byCallee[key]})
	}
}

// addExposureSynthesis wires, for every expression this module produces
// that some other module consumes:
//
//	expose_<name> = value_of(e)
//	valid_<name>  = executed_wire AND meta_cond(e)
func (c *ctx) addExposureSynthesis(executed Node) {
	seen := map[string]bool{}

	for _, ex := range c.matrix.Exposures() {
		if ex.Producer != c.src {
			continue
		}

		name := ex.Value.Name()
		if seen[name] {
			continue
		}

		seen[name] = true

		width := ex.Value.DType().BitWidth()

		valRef, err := c.ref(ex.Value)
		if err != nil {
			panic(err)
		}

		c.out.addPort("expose_"+name, width, Out)
		c.out.addPort("valid_"+name, 1, Out)

		c.out.addSignal("expose_"+name, width, valRef)
		c.out.addSignal("valid_"+name, 1, and(executed, c.cond(ex.Value)))
	}
}

// addExternalReferencePorts declares, for every exposure this module
// consumes, an input pair `<producer>_<value>: T`, `<producer>_<value>_valid: 1`.
func (c *ctx) addExternalReferencePorts() error {
	seen := map[string]bool{}

	for _, ex := range c.matrix.ExposuresFor(c.src) {
		name := sig(ex.Producer.Name, ex.Value.Name())
		if seen[name] {
			continue
		}

		seen[name] = true

		c.out.addPort(name, ex.Value.DType().BitWidth(), In)
		c.out.addPort(name+"_valid", 1, In)
	}

	return nil
}
