package assembly

import (
	"strconv"

	"github.com/assassyn-lang/assassyn/pkg/alloc"
	"github.com/assassyn-lang/assassyn/pkg/analysis"
	"github.com/assassyn-lang/assassyn/pkg/ir"
	"github.com/assassyn-lang/assassyn/pkg/lower"
)

// writerPortName mirrors pkg/lower's own per-array, per-index port
// naming ("<arr>_<base>_<i>", built there by the unexported portName) so
// Top can address a writer/reader module's declared ports by
// hierarchical reference.
func writerPortName(arr *ir.Array, base string, i uint) string {
	return arr.Name + "_" + base + "_" + strconv.FormatUint(uint64(i), 10)
}

// wireInstances fills in every module instance's Connections: the
// handful of inputs each lowered module cannot drive itself (clock
// domain, credit/dependency gating, FIFO pop/push-ready handshakes,
// array read data, and cross-module exposures).
func (t *Top) wireInstances(sys *ir.System, matrix *analysis.InteractionMatrix, wports map[*ir.Array]*alloc.PortMap, instanceNames map[*ir.Module]string) {
	ccInstance := map[*ir.Module]string{}

	for _, cc := range t.CreditCounters {
		ccInstance[cc.Callee] = cc.InstanceName
	}

	for idx := range t.Instances {
		inst := &t.Instances[idx]
		m := inst.Module

		conns := []Conn{
			{Port: "clk", Expr: "clk"},
			{Port: "rst", Expr: "rst"},
			{Port: "cycle_count", Expr: "cycle_count"},
		}

		switch m.Kind {
		case ir.Driver:
			conns = append(conns, Conn{Port: "trigger_counter_pop_valid", Expr: "1'b1"})
		case ir.Pipeline:
			conns = append(conns, Conn{
				Port: "trigger_counter_pop_valid",
				Expr: hierName(ccInstance[m], "pop_valid"),
			})

			for _, port := range m.Ports {
				fifoName := "fifo_" + port.Owner.Name + "_" + port.Name
				conns = append(conns,
					Conn{Port: port.Name, Expr: hierName(fifoName, "pop_data")},
					Conn{Port: port.Name + "_valid", Expr: hierName(fifoName, "pop_valid")},
				)
			}
		case ir.Downstream:
			for _, dep := range matrix.Dependencies(m) {
				conns = append(conns, Conn{
					Port: dep.Name + "_executed",
					Expr: hierName(instanceNames[dep], "executed"),
				})
			}
		case ir.ExternalWrapper:
			// External wrappers' ports mirror the declared foreign class
			// 1:1 (pkg/emit.renderExternalWrapper); nothing beyond
			// clk/rst is connected from Top's own signals.
		}

		for _, port := range matrix.FIFOPorts() {
			key := port.Owner.Name + "_" + port.Name

			for _, ps := range matrix.FIFOPushes(port) {
				if ps.Module != m {
					continue
				}

				conns = append(conns, Conn{
					Port: key + "_push_ready",
					Expr: hierName("fifo_"+port.Owner.Name+"_"+port.Name, "push_ready"),
				})

				break
			}
		}

		for _, arr := range matrix.Arrays() {
			for _, rd := range matrix.ArrayReads(arr) {
				if rd.Module != m {
					continue
				}

				i := readPosition(matrix, arr, rd.Read)
				storeInst := arrayStoreInstance(arr)

				conns = append(conns, Conn{
					Port: writerPortName(arr, "rdata_port", i),
					Expr: hierName(storeInst, "rdata_port_"+strconv.FormatUint(uint64(i), 10)),
				})
			}
		}

		for _, ex := range matrix.ExposuresFor(m) {
			name := ex.Value.Name()
			key := ex.Producer.Name + "_" + name
			producerInst := instanceNames[ex.Producer]

			conns = append(conns,
				Conn{Port: key, Expr: hierName(producerInst, "expose_"+name)},
				Conn{Port: key + "_valid", Expr: hierName(producerInst, "valid_"+name)},
			)
		}

		inst.Connections = dedupConns(conns)
	}
}

// wireRegFiles fills in each RegFile's write/read port connections: the
// allocator's deterministic writer-per-index assignment and the
// matrix's own read-site order give every port a single, unambiguous
// source.
func (t *Top) wireRegFiles(matrix *analysis.InteractionMatrix, wports map[*ir.Array]*alloc.PortMap, instanceNames map[*ir.Module]string) {
	for idx := range t.RegFiles {
		rf := &t.RegFiles[idx]
		arr := rf.Array

		conns := []Conn{{Port: "clk", Expr: "clk"}, {Port: "rst", Expr: "rst"}}

		if pm, ok := wports[arr]; ok {
			for i := 0; i < rf.WritePorts; i++ {
				writer, ok := pm.Writer(uint(i))
				if !ok {
					continue
				}

				writerInst := instanceNames[writer]
				localBase := strconv.Itoa(i)

				conns = append(conns,
					Conn{Port: "w_port_" + localBase, Expr: hierName(writerInst, writerPortName(arr, "w_port", uint(i)))},
					Conn{Port: "wdata_port_" + localBase, Expr: hierName(writerInst, writerPortName(arr, "wdata_port", uint(i)))},
				)

				if arr.AddrWidth() > 0 {
					conns = append(conns, Conn{
						Port: "widx_port_" + localBase,
						Expr: hierName(writerInst, writerPortName(arr, "widx_port", uint(i))),
					})
				}
			}
		}

		if arr.AddrWidth() > 0 {
			for i, site := range matrix.ArrayReads(arr) {
				readerInst := instanceNames[site.Module]
				localBase := strconv.Itoa(i)

				conns = append(conns, Conn{
					Port: "ridx_port_" + localBase,
					Expr: hierName(readerInst, writerPortName(arr, "ridx_port", uint(i))),
				})
			}
		}

		rf.Connections = conns
	}
}

// wireSRAMs fills in each SRAM's read-port connections and the
// arbitrated single write interface: Top computes one `<inst>_we_w` /
// `_wdata_w` / `_widx_w` wire per SRAM by OR-ing and priority-muxing
// across every writer module, in first-seen order (same rule as FIFO
// push arbitration), then feeds those wires into the blackbox.
func (t *Top) wireSRAMs(matrix *analysis.InteractionMatrix, wports map[*ir.Array]*alloc.PortMap, instanceNames map[*ir.Module]string) {
	for idx := range t.SRAMs {
		s := &t.SRAMs[idx]
		arr := s.Array

		width := arr.ElementType.BitWidth()
		addrWidth := arr.AddrWidth()

		writers := distinctWriters(matrix, arr)

		var weTerms []lower.Node

		var wdataCases, widxCases []lower.MuxCase

		for _, w := range writers {
			inst := instanceNames[w]
			weRef := instanceRef(inst, arr.Name+"_we", 1)
			dataRef := instanceRef(inst, arr.Name+"_wdata", width)

			weTerms = append(weTerms, weRef)
			wdataCases = append(wdataCases, lower.MuxCase{Cond: weRef, Val: dataRef})

			if addrWidth > 0 {
				idxRef := instanceRef(inst, arr.Name+"_widx", addrWidth)
				widxCases = append(widxCases, lower.MuxCase{Cond: weRef, Val: idxRef})
			}
		}

		weWire := s.InstanceName + "_we_w"
		wdataWire := s.InstanceName + "_wdata_w"

		if len(weTerms) == 0 {
			t.addWire(weWire, 1, lower.Lit{Width: 1, Value: "0"})
			t.addWire(wdataWire, width, lower.Lit{Width: width, Value: "0"})
		} else {
			t.addWire(weWire, 1, lower.Reduce{Op: "||", Terms: weTerms, Empty: lower.Lit{Width: 1, Value: "0"}})
			t.addWire(wdataWire, width, lower.PriorityMux{Cases: wdataCases})
		}

		conns := []Conn{
			{Port: "clk", Expr: "clk"},
			{Port: "rst", Expr: "rst"},
			{Port: "we", Expr: weWire},
			{Port: "wdata", Expr: wdataWire},
		}

		if addrWidth > 0 {
			widxWire := s.InstanceName + "_widx_w"

			if len(widxCases) == 0 {
				t.addWire(widxWire, addrWidth, lower.Lit{Width: addrWidth, Value: "0"})
			} else {
				t.addWire(widxWire, addrWidth, lower.PriorityMux{Cases: widxCases})
			}

			conns = append(conns, Conn{Port: "waddr", Expr: widxWire})
		}

		for i, site := range matrix.ArrayReads(arr) {
			readerInst := instanceNames[site.Module]
			localBase := strconv.Itoa(i)

			if addrWidth > 0 {
				conns = append(conns, Conn{
					Port: "ridx_port_" + localBase,
					Expr: hierName(readerInst, writerPortName(arr, "ridx_port", uint(i))),
				})
			}
		}

		s.Connections = conns
	}
}

// distinctWriters returns arr's writer modules in first-seen order.
func distinctWriters(matrix *analysis.InteractionMatrix, arr *ir.Array) []*ir.Module {
	var out []*ir.Module

	seen := map[*ir.Module]bool{}

	for _, w := range matrix.ArrayWrites(arr) {
		if seen[w.Module] {
			continue
		}

		seen[w.Module] = true

		out = append(out, w.Module)
	}

	return out
}

// readPosition returns rd's position among arr's own read sites, the
// same per-array-local index pkg/lower's ctx.readIndex assigns.
func readPosition(matrix *analysis.InteractionMatrix, arr *ir.Array, rd *ir.ArrayRead) uint {
	for i, site := range matrix.ArrayReads(arr) {
		if site.Read == rd {
			return uint(i)
		}
	}

	return 0
}

// arrayStoreInstance names the regfile/SRAM instance backing arr.
func arrayStoreInstance(arr *ir.Array) string {
	if arr.IsPayload {
		return "sram_" + arr.Name
	}

	return "regfile_" + arr.Name
}

// dedupConns drops connections whose port name already appeared earlier
// in the slice (module ports are queried from more than one angle above
// — e.g. a module can both read and write the same array — so later
// loops must not re-add a binding already recorded).
func dedupConns(conns []Conn) []Conn {
	seen := map[string]bool{}

	out := make([]Conn, 0, len(conns))

	for _, c := range conns {
		if seen[c.Port] {
			continue
		}

		seen[c.Port] = true

		out = append(out, c)
	}

	return out
}
