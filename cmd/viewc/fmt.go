package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grindlemire/viewc/internal/diag"
	"github.com/grindlemire/viewc/internal/formatter"
)

// errUnformatted is returned by fmt --check when a file would change.
var errUnformatted = errors.New("files are not formatted")

func fmtCmd(a *app) *cobra.Command {
	var (
		check  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "fmt [path...]",
		Short: "Format markup blocks in templates",
		Long: `Rewrite every view! block of each template in canonical layout. Host
code around the blocks is left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFmt(cmd.Context(), args, check, stdout)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "list files that need formatting and exit non-zero")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print formatted output instead of writing files")

	return cmd
}

// runFmt formats templates in place, or checks or prints them.
func (a *app) runFmt(ctx context.Context, paths []string, check, stdout bool) error {
	files, err := collectTemplates(paths, a.cfg.Extension)
	if err != nil {
		return err
	}

	fmtr := formatter.New()
	fmtr.Macro = a.cfg.Macro

	results, err := a.processFiles(ctx, files, a.cfg.Workers, func(ctx context.Context, res *fileResult) {
		r, err := fmtr.Source(res.input, res.source)
		if err != nil {
			res.err = err
			return
		}
		res.changed = r.Changed
		res.content = []byte(r.Output)
		res.blocks = r.Blocks
		if r.Skipped > 0 {
			a.logger.WarnContext(ctx, "left blocks with comments between nodes as written", "skipped", r.Skipped)
		}
	})
	if err != nil {
		return err
	}

	var (
		errs      []error
		unchanged int
	)
	for _, res := range results {
		if res.err != nil {
			diag.Print(a.stderr, res.err, res.source)
			errs = append(errs, res.err)
			continue
		}

		switch {
		case stdout:
			fmt.Fprint(a.stdout, string(res.content))
		case !res.changed:
			unchanged++
		case check:
			fmt.Fprintln(a.stdout, res.input)
			errs = append(errs, fmt.Errorf("%w: %s", errUnformatted, res.input))
		default:
			if err := os.WriteFile(res.input, res.content, 0o644); err != nil {
				diag.Print(a.stderr, err, "")
				errs = append(errs, fmt.Errorf("writing %s: %w", res.input, err))
				continue
			}
			a.printf("Formatted: %s\n", res.input)
		}
	}
	a.logger.Debug("formatting done", "files", len(files), "unchanged", unchanged)

	if len(errs) > 0 {
		return &reportedError{summary: diag.Summary(len(errs), len(files)), err: errors.Join(errs...)}
	}
	return nil
}
