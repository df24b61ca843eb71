package emit

import (
	"fmt"
	"strings"

	"github.com/assassyn-lang/assassyn/pkg/assembly"
)

// renderConns renders an instantiation's named port-binding list,
// `(.Port(Expr), ...)`.
func renderConns(conns []assembly.Conn) string {
	parts := make([]string, len(conns))
	for i, c := range conns {
		parts[i] = fmt.Sprintf(".%s(%s)", c.Port, c.Expr)
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// renderTop renders the top-level harness: the free-running cycle
// counter, one instance per credit counter/FIFO/register-file/SRAM,
// every module instance, global_finish, and tie-offs for unused push
// ports (§4.9).
func renderTop(top *assembly.Top) string {
	var b strings.Builder

	fmt.Fprintf(&b, "module Top (\n  input logic clk,\n  input logic rst,\n  output logic global_finish\n);\n\n")

	b.WriteString("  logic [63:0] cycle_count;\n")
	b.WriteString("  cycle_counter cycle_counter_inst (.clk(clk), .rst(rst), .count(cycle_count));\n\n")

	for _, w := range top.Wires {
		widthStr := ""
		if w.Width > 1 {
			widthStr = fmt.Sprintf("[%d:0] ", w.Width-1)
		}

		fmt.Fprintf(&b, "  logic %s%s;\n", widthStr, w.Name)
		fmt.Fprintf(&b, "  assign %s = %s;\n\n", w.Name, renderNode(w.Driver))
	}

	for _, cc := range top.CreditCounters {
		fmt.Fprintf(&b, "  credit_counter %s %s;\n", cc.InstanceName, renderConns(cc.Connections))
	}

	b.WriteString("\n")

	for _, f := range top.FIFOs {
		fmt.Fprintf(&b, "  fifo #(.DEPTH(%d), .WIDTH(%d)) %s %s;\n",
			f.Depth, f.Width, f.InstanceName, renderConns(f.Connections))
	}

	b.WriteString("\n")

	for _, rf := range top.RegFiles {
		fmt.Fprintf(&b, "  // register file %s: %d write port(s), %d read port(s)\n",
			rf.InstanceName, rf.WritePorts, rf.ReadPorts)
		fmt.Fprintf(&b, "  regfile_%s %s %s;\n", rf.Array.Name, rf.InstanceName, renderConns(rf.Connections))
	}

	b.WriteString("\n")

	for _, sram := range top.SRAMs {
		fmt.Fprintf(&b, "  sram_blackbox_%s %s %s;\n", sram.Array.Name, sram.InstanceName, renderConns(sram.Connections))
	}

	b.WriteString("\n")

	for _, inst := range top.Instances {
		fmt.Fprintf(&b, "  %s %s %s;\n", inst.ModuleType, inst.InstanceName, renderConns(inst.Connections))
	}

	b.WriteString("\n")

	for _, tie := range top.TieOffs {
		fmt.Fprintf(&b, "  // %s_%s never pushed; tied off\n", tie.Port.Owner.Name, tie.Port.Name)
	}

	b.WriteString("\n  assign global_finish = global_finish_w;\n\nendmodule\n")

	return b.String()
}
