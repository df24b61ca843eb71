package lower

import "github.com/assassyn-lang/assassyn/pkg/ir"

// readIndex returns the position of rd within arr's own read-site list,
// the per-array-local index the regfile/SRAM read ports are numbered by
// (0..ReadPorts-1) — distinct from ir.ArrayRead.ReadOrder, which is a
// global counter across every array and would leave gaps if used here.
func (c *ctx) readIndex(arr *ir.Array, rd *ir.ArrayRead) uint {
	for i, site := range c.matrix.ArrayReads(arr) {
		if site.Read == rd {
			return uint(i)
		}
	}

	return 0
}

// writesArray reports whether c.src has at least one write site on arr.
func (c *ctx) writesArray(arr *ir.Array) bool {
	for _, w := range c.matrix.ArrayWrites(arr) {
		if w.Module == c.src {
			return true
		}
	}

	return false
}

// addArrayPorts declares this module's write/read port surface over
// every array it touches. Non-payload (register-file) arrays use
// `w_port<i>`/`wdata_port<i>`/`widx_port<i>` for this module's one
// allocated write port, indexed by pkg/alloc's assignment. Payload
// (SRAM) arrays instead give every writer module its own fixed-name
// `<arr>_we`/`<arr>_wdata`/`<arr>_widx` output, arbitrated across
// writers at the top level the same way FIFO push sites are — the
// blackbox exposes one write interface, not one per writer. Either way,
// one `ridx_port<i>`/`rdata_port<i>` pair is declared per read site
// belonging to this module, indexed by the read's position among the
// array's own read sites. Address ports are omitted for size-1 arrays
// (Open Question 2).
func (c *ctx) addArrayPorts() {
	for _, arr := range c.matrix.Arrays() {
		if arr.IsPayload {
			if c.writesArray(arr) {
				c.out.addPort(arr.Name+"_we", 1, Out)
				c.out.addPort(arr.Name+"_wdata", arr.ElementType.BitWidth(), Out)

				if arr.AddrWidth() > 0 {
					c.out.addPort(arr.Name+"_widx", arr.AddrWidth(), Out)
				}
			}
		} else if pm, ok := c.wports[arr]; ok {
			if i, ok := pm.Port(c.src); ok {
				c.out.addPort(portName(arr, "w_port", i), 1, Out)
				c.out.addPort(portName(arr, "wdata_port", i), arr.ElementType.BitWidth(), Out)

				if arr.AddrWidth() > 0 {
					c.out.addPort(portName(arr, "widx_port", i), arr.AddrWidth(), Out)
				}
			}
		}

		for _, rd := range c.matrix.ArrayReads(arr) {
			if rd.Module != c.src {
				continue
			}

			i := c.readIndex(arr, rd.Read)

			if arr.AddrWidth() > 0 {
				c.out.addPort(portName(arr, "ridx_port", i), arr.AddrWidth(), Out)
			}

			c.out.addPort(portName(arr, "rdata_port", i), arr.ElementType.BitWidth(), In)
		}
	}
}

// addArrayReadSynthesis wires each read site's own index expression onto
// its `ridx_port<i>` output and aliases the read expression's assigned
// name onto the matching `rdata_port<i>` input, so any consumer that
// references the read by name (pkg/lower's ref()) resolves to real data.
func (c *ctx) addArrayReadSynthesis() error {
	for _, arr := range c.matrix.Arrays() {
		for _, rd := range c.matrix.ArrayReads(arr) {
			if rd.Module != c.src {
				continue
			}

			i := c.readIndex(arr, rd.Read)

			if arr.AddrWidth() > 0 {
				idx, err := c.ref(rd.Read.Index)
				if err != nil {
					return err
				}

				c.out.addSignal(portName(arr, "ridx_port", i), arr.AddrWidth(), idx)
			}

			width := arr.ElementType.BitWidth()
			c.out.addSignal(rd.Read.Name(), width, Ref{Name: portName(arr, "rdata_port", i), Width: width})
		}
	}

	return nil
}

// addArrayWriteSynthesis wires this module's write output(s) for every
// array it writes:
//
//	w_port<i> (or <arr>_we)     = executed_wire AND (OR of π for writes on A)
//	wdata_port<i> (or _wdata)   = priority-mux over writes by π
//	widx_port<i> (or _widx)     = priority-mux over write indices by π
//
// Payload arrays use the fixed `<arr>_we`/`_wdata`/`_widx` names (one
// writer module may or may not be this one; top-level wiring arbitrates
// across every writer that declares them). Non-payload arrays use this
// module's allocated `w_port<i>` index.
func (c *ctx) addArrayWriteSynthesis(executed Node) {
	for _, arr := range c.matrix.Arrays() {
		if arr.IsPayload {
			if !c.writesArray(arr) {
				continue
			}

			conds, dataCases, idxCases := c.writeCases(arr)

			c.out.addSignal(arr.Name+"_we", 1, and(executed, or(conds...)))
			c.out.addSignal(arr.Name+"_wdata", arr.ElementType.BitWidth(), PriorityMux{Cases: dataCases})

			if arr.AddrWidth() > 0 {
				c.out.addSignal(arr.Name+"_widx", arr.AddrWidth(), PriorityMux{Cases: idxCases})
			}

			continue
		}

		pm, ok := c.wports[arr]
		if !ok {
			continue
		}

		i, ok := pm.Port(c.src)
		if !ok {
			continue
		}

		conds, dataCases, idxCases := c.writeCases(arr)

		c.out.addSignal(portName(arr, "w_port", i), 1, and(executed, or(conds...)))
		c.out.addSignal(portName(arr, "wdata_port", i), arr.ElementType.BitWidth(), PriorityMux{Cases: dataCases})

		if arr.AddrWidth() > 0 {
			c.out.addSignal(portName(arr, "widx_port", i), arr.AddrWidth(), PriorityMux{Cases: idxCases})
		}
	}
}

// writeCases collects this module's own write sites on arr as predicate
// conditions and data/index mux cases, in insertion order (first-
// matching-predicate-wins, Open Question 3).
func (c *ctx) writeCases(arr *ir.Array) ([]Node, []MuxCase, []MuxCase) {
	var conds []Node

	var dataCases, idxCases []MuxCase

	for _, w := range c.matrix.ArrayWrites(arr) {
		if w.Module != c.src {
			continue
		}

		cond := c.cond(w.Write)
		conds = append(conds, cond)

		data, err := c.ref(w.Write.Data)
		if err != nil {
			panic(err)
		}

		dataCases = append(dataCases, MuxCase{Cond: cond, Val: data})

		if arr.AddrWidth() > 0 {
			idx, err := c.ref(w.Write.Index)
			if err != nil {
				panic(err)
			}

			idxCases = append(idxCases, MuxCase{Cond: cond, Val: idx})
		}
	}

	return conds, dataCases, idxCases
}

func portName(arr *ir.Array, base string, i uint) string {
	return arr.Name + "_" + base + "_" + uitoa(i)
}

func uitoa(n uint) string {
	if n == 0 {
		return "0"
	}

	var buf [20]byte

	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[pos:])
}
