package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grindlemire/viewc/internal/diag"
	"github.com/grindlemire/viewc/internal/viewc"
)

func expandCmd(a *app) *cobra.Command {
	var flags compileFlags

	cmd := &cobra.Command{
		Use:   "expand [file|-]",
		Short: "Compile one markup block and print the expression",
		Long: `Compile a single markup block, read from a file or from stdin when the
argument is "-" or missing, and print the generated expression.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(a, cmd)
			if err != nil {
				return err
			}

			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return a.runExpand(path, opts)
		},
	}

	flags.register(cmd)

	return cmd
}

// runExpand compiles one block and prints it.
func (a *app) runExpand(path string, opts viewc.Options) error {
	src, err := a.readFile(path)
	if err != nil {
		return err
	}

	name := path
	if path == "-" {
		name = "<stdin>"
	}

	m, err := viewc.Parse(name, src)
	if err != nil {
		diag.Print(a.stderr, err, src)
		return &reportedError{summary: diag.Summary(1, 1), err: err}
	}

	stats := m.Stats()
	a.logger.Debug("parsed block", "nodes", stats.Nodes(), "depth", stats.Depth)

	expr := viewc.NewGenerator(opts.Target).Generate(m)
	fmt.Fprintln(a.stdout, viewc.Render(expr, opts.Style()))
	return nil
}
