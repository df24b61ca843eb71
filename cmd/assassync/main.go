// Command assassync is a thin CLI front for pkg/compile.Elaborate. It
// ships one trivial built-in system (a Driver that logs its cycle count
// once and finishes) so `assassync elaborate` has something to compile
// out of the box; real embedding programs replace exampleSystem with
// their own builder.System construction and import pkg/cmd directly.
package main

import (
	"fmt"
	"os"

	"github.com/assassyn-lang/assassyn/pkg/builder"
	"github.com/assassyn-lang/assassyn/pkg/cmd"
	"github.com/assassyn-lang/assassyn/pkg/ir"
)

func exampleSystem() (*ir.System, error) {
	builder.Begin("example")

	_, err := builder.InModule(ir.Driver, "Main", func(m *ir.Module) error {
		cycle, err := builder.CurrentCycle()
		if err != nil {
			return err
		}

		if err := builder.Log("cycle=%d", cycle); err != nil {
			return err
		}

		return builder.Finish()
	})
	if err != nil {
		return nil, err
	}

	return builder.End(), nil
}

func main() {
	root := cmd.NewRootCommand(exampleSystem)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
