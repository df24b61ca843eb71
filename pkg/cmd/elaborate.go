package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/assassyn-lang/assassyn/pkg/compile"
	"github.com/assassyn-lang/assassyn/pkg/ir"
)

func newElaborateCommand(build func() (*ir.System, error)) *cobra.Command {
	var (
		outputDir        string
		target           string
		simThreshold     uint64
		resourceBase     string
		overrideExisting bool
	)

	cmd := &cobra.Command{
		Use:   "elaborate",
		Short: "Compile the embedded system to SystemVerilog",
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := build()
			if err != nil {
				return err
			}

			tgt, err := parseTarget(target)
			if err != nil {
				return err
			}

			return compile.Elaborate(sys, compile.Config{
				OutputDir:        outputDir,
				Target:           tgt,
				SimThreshold:     simThreshold,
				ResourceBase:     resourceBase,
				OverrideExisting: overrideExisting,
			})
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "directory under which <system_name>/verilog is written")
	cmd.Flags().StringVar(&target, "target", "sv", "backend target: sv, simulator, or both")
	cmd.Flags().Uint64Var(&simThreshold, "sim-threshold", compile.DefaultSimThreshold, "testbench cycle-count termination bound")
	cmd.Flags().StringVar(&resourceBase, "resource-base", "", "base path for resolving external-HDL source copies (defaults to REPO_HOME)")
	cmd.Flags().BoolVar(&overrideExisting, "override-existing", false, "allow writing into an existing output directory")

	return cmd
}

func parseTarget(s string) (compile.Target, error) {
	switch s {
	case "sv":
		return compile.SV, nil
	case "simulator":
		return compile.Simulator, nil
	case "both":
		return compile.Both, nil
	default:
		return 0, fmt.Errorf("unknown target %q: expected sv, simulator, or both", s)
	}
}
