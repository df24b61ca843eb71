package emit

import "fmt"

// clockPeriodTicks and resetCycles fix the testbench's clock period and
// reset-assertion window (§6 testbench contract); Log printing itself is
// emitted per-module by renderModule, gated by the predicate each Log
// site was issued under, so the testbench only drives clk/rst and
// detects termination.
const (
	clockPeriodTicks = 10
	resetCycles      = 4
)

// renderTestbench renders tb.sv: drives clk/rst, terminates at
// global_finish or cycle_count >= simThreshold (§6). The top module is
// always named Top regardless of system name (§6 HDL output layout:
// sv/hw/Top.<hdl-ext>).
func renderTestbench(simThreshold uint64) string {
	return fmt.Sprintf(`module tb;

  logic clk;
  logic rst;
  logic global_finish;

  Top dut (.clk(clk), .rst(rst), .global_finish(global_finish));

  initial clk = 0;
  always #%d clk = ~clk;

  initial begin
    rst = 1;
    repeat (%d) @(posedge clk);
    rst = 0;
  end

  always @(posedge clk) begin
    if (!rst && (global_finish || dut.cycle_count >= %d)) begin
      $finish;
    end
  end

endmodule
`, clockPeriodTicks/2, resetCycles, simThreshold)
}
