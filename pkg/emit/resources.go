package emit

import (
	"fmt"
	"strings"

	"github.com/assassyn-lang/assassyn/pkg/assembly"
	"github.com/assassyn-lang/assassyn/pkg/ir"
)

// fifoLibrary renders the shared, depth-parameterized FIFO module that
// every top-level FIFOInst instantiates (§4.9 item 3, §6 register-file
// interface's sibling for streaming ports).
func fifoLibrary() string {
	return `module fifo #(parameter DEPTH = 2, parameter WIDTH = 1) (
  input  logic clk,
  input  logic rst,
  input  logic push_valid,
  input  logic [WIDTH-1:0] push_data,
  output logic push_ready,
  output logic pop_valid,
  output logic [WIDTH-1:0] pop_data,
  input  logic pop_ready
);

  logic [WIDTH-1:0] mem [0:DEPTH-1];
  logic [$clog2(DEPTH+1)-1:0] count;
  int unsigned head, tail;

  assign push_ready = count < DEPTH;
  assign pop_valid  = count > 0;
  assign pop_data   = mem[head];

  always_ff @(posedge clk) begin
    if (rst) begin
      count <= '0;
      head  <= '0;
      tail  <= '0;
    end else begin
      if (push_valid && push_ready) begin
        mem[tail] <= push_data;
        tail <= (tail + 1) % DEPTH;
      end

      if (pop_valid && pop_ready) begin
        head <= (head + 1) % DEPTH;
      end

      case ({push_valid && push_ready, pop_valid && pop_ready})
        2'b10: count <= count + 1;
        2'b01: count <= count - 1;
        default: count <= count;
      endcase
    end
  end

endmodule
`
}

// creditCounterLibrary renders the saturating, non-negative credit
// counter every callee module's top-level instance uses (§6 credit
// counter interface): count saturates at 8 bits and never underflows,
// and delta_ready is tied high (this counter never backpressures a
// trigger).
func creditCounterLibrary() string {
	return `module credit_counter (
  input  logic clk,
  input  logic rst,
  input  logic [7:0] delta,
  output logic delta_ready,
  output logic pop_valid,
  input  logic pop_ready
);

  logic [7:0] count;

  assign pop_valid   = count > 0;
  assign delta_ready = 1'b1;

  always_ff @(posedge clk) begin
    if (rst) begin
      count <= '0;
    end else begin
      logic [8:0] sum;
      logic [7:0] next;

      sum = {1'b0, count} + {1'b0, delta};
      next = (sum > 9'd255) ? 8'd255 : sum[7:0];

      if (pop_valid && pop_ready && next > 8'd0) begin
        next = next - 8'd1;
      end

      count <= next;
    end
  end

endmodule
`
}

// cycleCounterLibrary renders the free-running 64-bit cycle counter
// every Top instantiates once (§4.9 item 1): increments every cycle,
// never gated or reset to anything but zero.
func cycleCounterLibrary() string {
	return `module cycle_counter (
  input  logic clk,
  input  logic rst,
  output logic [63:0] count
);

  always_ff @(posedge clk) begin
    if (rst) begin
      count <= '0;
    end else begin
      count <= count + 64'd1;
    end
  end

endmodule
`
}

// renderRegFile renders one non-payload array's register-file writer
// (§4.9 item 4): W write ports arbitrated in reverse priority (the
// highest-indexed port's write, if asserted, wins — later non-else `if`
// statements simply overwrite earlier ones) and R independently
// addressed read ports. Address ports are omitted for size-1 arrays
// (Open Question 2), and reset applies the array's declared per-element
// initializer where present, else zero.
func renderRegFile(rf assembly.RegFile) string {
	var b strings.Builder

	width := rf.Array.ElementType.BitWidth()
	addrWidth := rf.Array.AddrWidth()

	fmt.Fprintf(&b, "module regfile_%s (\n", rf.Array.Name)
	b.WriteString("  input  logic clk,\n")
	b.WriteString("  input  logic rst")

	for i := 0; i < rf.WritePorts; i++ {
		fmt.Fprintf(&b, ",\n  input  logic w_port_%d", i)
		fmt.Fprintf(&b, ",\n  input  logic [%d:0] wdata_port_%d", width-1, i)

		if addrWidth > 0 {
			fmt.Fprintf(&b, ",\n  input  logic [%d:0] widx_port_%d", addrWidth-1, i)
		}
	}

	for i := 0; i < rf.ReadPorts; i++ {
		if addrWidth > 0 {
			fmt.Fprintf(&b, ",\n  input  logic [%d:0] ridx_port_%d", addrWidth-1, i)
		}

		fmt.Fprintf(&b, ",\n  output logic [%d:0] rdata_port_%d", width-1, i)
	}

	b.WriteString("\n);\n\n")
	fmt.Fprintf(&b, "  logic [%d:0] mem [0:%d];\n\n", width-1, rf.Array.Size-1)

	b.WriteString("  always_ff @(posedge clk) begin\n")
	b.WriteString("    if (rst) begin\n")

	for i := 0; i < int(rf.Array.Size); i++ {
		val := int64(0)
		if i < len(rf.Init) && rf.Init[i] != nil {
			val = *rf.Init[i]
		}

		fmt.Fprintf(&b, "      mem[%d] <= %d'd%d;\n", i, width, val)
	}

	b.WriteString("    end else begin\n")

	for i := 0; i < rf.WritePorts; i++ {
		idx := "0"
		if addrWidth > 0 {
			idx = fmt.Sprintf("widx_port_%d", i)
		}

		fmt.Fprintf(&b, "      if (w_port_%d) mem[%s] <= wdata_port_%d;\n", i, idx, i)
	}

	b.WriteString("    end\n")
	b.WriteString("  end\n\n")

	for i := 0; i < rf.ReadPorts; i++ {
		idx := "0"
		if addrWidth > 0 {
			idx = fmt.Sprintf("ridx_port_%d", i)
		}

		fmt.Fprintf(&b, "  assign rdata_port_%d = mem[%s];\n", i, idx)
	}

	b.WriteString("\nendmodule\n")

	return b.String()
}

// renderSRAMBlackbox renders one payload-array blackbox (§4.9 item 5): a
// single write interface (arbitrated across writer modules by the
// caller) and s.ReadPorts independently addressed read ports.
// $readmemh-initialized when Init is non-empty, else left unreset.
func renderSRAMBlackbox(s assembly.SRAM) string {
	var b strings.Builder

	width := s.Array.ElementType.BitWidth()
	addrWidth := s.Array.AddrWidth()
	hasAddr := addrWidth > 0

	if !hasAddr {
		addrWidth = 1
	}

	fmt.Fprintf(&b, "module sram_blackbox_%s (\n", s.Array.Name)
	b.WriteString("  input  logic clk,\n")
	b.WriteString("  input  logic rst,\n")
	b.WriteString("  input  logic we,\n")

	if hasAddr {
		fmt.Fprintf(&b, "  input  logic [%d:0] waddr,\n", addrWidth-1)
	}

	fmt.Fprintf(&b, "  input  logic [%d:0] wdata", width-1)

	for i := 0; i < s.ReadPorts; i++ {
		if hasAddr {
			fmt.Fprintf(&b, ",\n  input  logic [%d:0] ridx_port_%d", addrWidth-1, i)
		}

		fmt.Fprintf(&b, ",\n  output logic [%d:0] rdata_port_%d", width-1, i)
	}

	b.WriteString("\n);\n\n")
	fmt.Fprintf(&b, "  logic [%d:0] mem [0:%d];\n\n", width-1, s.Array.Size-1)

	if hasInit(s.Array.Init) {
		fmt.Fprintf(&b, "  initial $readmemh(\"%s.hex\", mem);\n\n", s.Array.Name)
	}

	b.WriteString("  always_ff @(posedge clk) begin\n")

	if hasAddr {
		b.WriteString("    if (we) mem[waddr] <= wdata;\n")
	} else {
		b.WriteString("    if (we) mem[0] <= wdata;\n")
	}

	b.WriteString("  end\n\n")

	for i := 0; i < s.ReadPorts; i++ {
		idx := "0"
		if hasAddr {
			idx = fmt.Sprintf("ridx_port_%d", i)
		}

		fmt.Fprintf(&b, "  assign rdata_port_%d = mem[%s];\n", i, idx)
	}

	b.WriteString("\nendmodule\n")

	return b.String()
}

func hasInit(init []*int64) bool {
	for _, v := range init {
		if v != nil {
			return true
		}
	}

	return false
}

// renderExternalWrapper renders the one-to-one port wrapper around a
// foreign HDL class declared via NewExternal (§4.6), mirroring declared
// direction/width and connecting clk/rst only when some port requests
// them.
func renderExternalWrapper(c *ir.ExternalClass) string {
	var b strings.Builder

	wantClock, wantReset := false, false

	for _, p := range c.Ports {
		wantClock = wantClock || p.WantClock
		wantReset = wantReset || p.WantReset
	}

	fmt.Fprintf(&b, "// wrapper for %s (declared in %s)\n", c.ModuleName, c.SourceFile)
	fmt.Fprintf(&b, "module %s_wrapper (\n", c.ModuleName)

	lines := make([]string, 0, len(c.Ports)+2)
	if wantClock {
		lines = append(lines, "  input  logic clk")
	}

	if wantReset {
		lines = append(lines, "  input  logic rst")
	}

	for _, p := range c.Ports {
		dir := "input "
		if p.Dir == ir.DirOut {
			dir = "output"
		}

		widthStr := ""
		if p.DType.BitWidth() > 1 {
			widthStr = fmt.Sprintf("[%d:0] ", p.DType.BitWidth()-1)
		}

		lines = append(lines, fmt.Sprintf("  %s logic %s%s", dir, widthStr, p.Name))
	}

	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n);\n\n")
	fmt.Fprintf(&b, "  %s inner (\n", c.ModuleName)

	innerLines := make([]string, 0, len(lines))
	if wantClock {
		innerLines = append(innerLines, "    .clk(clk)")
	}

	if wantReset {
		innerLines = append(innerLines, "    .rst(rst)")
	}

	for _, p := range c.Ports {
		innerLines = append(innerLines, fmt.Sprintf("    .%s(%s)", p.Name, p.Name))
	}

	b.WriteString(strings.Join(innerLines, ",\n"))
	b.WriteString("\n  );\n\nendmodule\n")

	return b.String()
}
