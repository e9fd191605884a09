package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/grindlemire/viewc/internal/diag"
	"github.com/grindlemire/viewc/internal/viewc"
)

func checkCmd(a *app) *cobra.Command {
	var flags compileFlags

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Check templates without writing",
		Long: `Parse and lower every view! block of each template without writing any
output, then print a summary table. Exits non-zero if any block fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(a, cmd)
			if err != nil {
				return err
			}
			return a.runCheck(cmd.Context(), args, opts)
		},
	}

	flags.register(cmd)

	return cmd
}

// runCheck expands templates in memory and reports per-file statistics.
func (a *app) runCheck(ctx context.Context, paths []string, opts viewc.Options) error {
	files, err := collectTemplates(paths, a.cfg.Extension)
	if err != nil {
		return err
	}
	a.logger.Debug("checking templates", "count", len(files))

	results, err := a.processFiles(ctx, files, a.cfg.Workers, func(ctx context.Context, res *fileResult) {
		x := &viewc.Expander{Macro: a.cfg.Macro, Options: opts}
		exp, err := x.Expand(res.input, res.source)
		if err != nil {
			res.err = err
			return
		}
		res.blocks = len(exp.Blocks)
		res.stats = exp.Stats()
		a.logger.DebugContext(ctx, "checked template", "blocks", res.blocks)
	})
	if err != nil {
		return err
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Blocks", "Widgets", "Components", "Expressions", "Depth", "Size"})

	var (
		errs  []error
		total viewc.Stats
		size  uint64
		ok    int
	)
	for _, res := range results {
		if res.err != nil {
			diag.Print(a.stderr, res.err, res.source)
			errs = append(errs, res.err)
			continue
		}
		ok++
		total.Add(res.stats)
		size += uint64(len(res.source))
		tbl.AppendRow(table.Row{
			res.input,
			res.blocks,
			res.stats.Widgets,
			res.stats.Components,
			res.stats.Expressions,
			res.stats.Depth,
			humanize.Bytes(uint64(len(res.source))),
		})
	}
	tbl.AppendFooter(table.Row{
		fmt.Sprintf("Total: %d ok", ok),
		"",
		total.Widgets,
		total.Components,
		total.Expressions,
		total.Depth,
		humanize.Bytes(size),
	})

	if !a.quiet {
		fmt.Fprintln(a.stdout, tbl.Render())
	}

	if len(errs) > 0 {
		return &reportedError{summary: diag.Summary(len(errs), len(files)), err: errors.Join(errs...)}
	}
	return nil
}
