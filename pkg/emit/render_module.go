package emit

import (
	"fmt"
	"strings"

	"github.com/assassyn-lang/assassyn/pkg/lower"
)

// renderModule renders one lowered module to a complete SV module
// definition.
func renderModule(m *lower.Module) string {
	var b strings.Builder

	fmt.Fprintf(&b, "module %s (\n", m.Name)

	for i, p := range m.Ports {
		dir := "input"
		if p.Dir == lower.Out {
			dir = "output"
		}

		widthStr := ""
		if p.Width > 1 {
			widthStr = fmt.Sprintf("[%d:0] ", p.Width-1)
		}

		suffix := ","
		if i == len(m.Ports)-1 {
			suffix = ""
		}

		fmt.Fprintf(&b, "  %s logic %s%s%s\n", dir, widthStr, p.Name, suffix)
	}

	b.WriteString(");\n\n")

	for _, s := range m.Signal {
		widthStr := ""
		if s.Width > 1 {
			widthStr = fmt.Sprintf("[%d:0] ", s.Width-1)
		}

		fmt.Fprintf(&b, "  logic %s%s;\n", widthStr, s.Name)
		fmt.Fprintf(&b, "  assign %s = %s;\n\n", s.Name, renderNode(s.Expr))
	}

	if len(m.Logs) > 0 {
		b.WriteString("  always_ff @(posedge clk) begin\n")

		for _, l := range m.Logs {
			args := make([]string, 0, len(l.Args)+1)
			args = append(args, fmt.Sprintf("\"%s\"", l.Format))

			for _, a := range l.Args {
				args = append(args, renderNode(a))
			}

			fmt.Fprintf(&b, "    if (%s) $display(%s);\n", renderNode(l.Cond), strings.Join(args, ", "))
		}

		b.WriteString("  end\n\n")
	}

	b.WriteString("endmodule\n")

	return b.String()
}
