// Package cmd implements the CLI surface over pkg/compile.Elaborate:
// flag parsing for the compile entry point's keyword arguments (§6),
// wired with spf13/cobra the way the teacher wires its own root and
// subcommand files.
package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/assassyn-lang/assassyn/pkg/ir"
)

var verbose bool

// NewRootCommand constructs the root "assassync" command. build
// constructs the frozen ir.System an embedding program wants elaborated;
// the elaborate subcommand calls it lazily, after flags are parsed, so
// build can itself depend on flag values if it needs to.
func NewRootCommand(build func() (*ir.System, error)) *cobra.Command {
	root := &cobra.Command{
		Use:   "assassync",
		Short: "Elaborate an Assassyn hardware description to SystemVerilog",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newElaborateCommand(build))
	root.AddCommand(newVersionCommand())

	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, ok := debug.ReadBuildInfo()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "assassync: version unknown (no build info)")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "assassync %s (go %s)\n", info.Main.Version, info.GoVersion)

			return nil
		},
	}
}
