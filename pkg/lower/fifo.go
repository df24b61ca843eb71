package lower

// addFIFOPushSynthesis declares, for every port this module pushes to, a
// `<Owner>_<port>_push_{valid,data}` output pair and a matching
// `_push_ready` input, then wires:
//
//	push_valid = executed_wire AND π AND fifo_<C>_<p>_push_ready
//	push_data  = priority-mux over push sites in insertion order by π
func (c *ctx) addFIFOPushSynthesis(executed Node) error {
	type site struct {
		cond Node
		data Node
	}

	byPort := map[string][]site{}
	width := map[string]uint{}

	var order []string

	for _, port := range c.matrix.FIFOPorts() {
		for _, push := range c.matrix.FIFOPushes(port) {
			if push.Module != c.src {
				continue
			}

			key := sig(port.Owner.Name, port.Name)

			cond := c.cond(push.Push)

			data, err := c.ref(push.Push.Data)
			if err != nil {
				return err
			}

			if _, seen := byPort[key]; !seen {
				order = append(order, key)
				width[key] = port.DType.BitWidth()
			}

			byPort[key] = append(byPort[key], site{cond, data})
		}
	}

	for _, key := range order {
		sites := byPort[key]

		var conds []Node

		var cases []MuxCase

		for _, s := range sites {
			conds = append(conds, s.cond)
			cases = append(cases, MuxCase{Cond: s.cond, Val: s.data})
		}

		c.out.addPort(key+"_push_valid", 1, Out)
		c.out.addPort(key+"_push_data", width[key], Out)
		c.out.addPort(key+"_push_ready", 1, In)

		readyRef := Ref{Name: key + "_push_ready", Width: 1}

		c.out.addSignal(key+"_push_valid", 1, and(executed, or(conds...), readyRef))
		c.out.addSignal(key+"_push_data", width[key], PriorityMux{Cases: cases})
	}

	return nil
}

// addFIFOPopSynthesis wires `pop_ready = executed_wire AND (OR of all
// pop-site predicates)` for each of this module's own input ports that
// it pops from.
func (c *ctx) addFIFOPopSynthesis(executed Node) {
	for _, port := range c.src.Ports {
		var conds []Node

		for _, pop := range c.matrix.FIFOPops(port) {
			if pop.Module != c.src {
				continue
			}

			conds = append(conds, c.cond(pop.Pop))
		}

		if len(conds) == 0 {
			continue
		}

		c.out.addSignal(port.Name+"_pop_ready", 1, and(executed, or(conds...)))
	}
}
