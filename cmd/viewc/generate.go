package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/grindlemire/viewc/internal/diag"
	"github.com/grindlemire/viewc/internal/log"
	"github.com/grindlemire/viewc/internal/viewc"
)

// compileFlags are the generation flags shared by generate, check and expand.
type compileFlags struct {
	target string
	pretty bool
}

func (f *compileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.target, "target", "", "generation target (default from config)")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "one child per line with trailing commas")
}

// options merges the flags over the configuration.
func (f *compileFlags) options(a *app, cmd *cobra.Command) (viewc.Options, error) {
	name := a.cfg.Target
	if f.target != "" {
		name = f.target
	}
	target, err := a.cfg.ResolveTarget(name)
	if err != nil {
		return viewc.Options{}, err
	}

	pretty := a.cfg.Pretty
	if cmd.Flags().Changed("pretty") {
		pretty = f.pretty
	}
	return viewc.Options{Target: target, Pretty: pretty}, nil
}

func generateCmd(a *app) *cobra.Command {
	var (
		flags   compileFlags
		dryRun  bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "generate [path...]",
		Short: "Expand markup blocks in templates",
		Long: `Expand every view! block of each template and write the result next to
it without the template extension (app.rs.mkp -> app.rs). Paths may be
files, directories, or ./... for a recursive search. Go outputs are
formatted and have their imports fixed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(a, cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = a.cfg.Workers
			}
			return a.runGenerate(cmd.Context(), args, opts, workers, dryRun)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print a diff of pending changes instead of writing")
	cmd.Flags().IntVar(&workers, "workers", 0, "files processed in parallel (default GOMAXPROCS)")

	return cmd
}

// fileResult is the outcome of processing one template.
type fileResult struct {
	input   string
	output  string
	source  string
	content []byte
	changed bool
	stats   viewc.Stats
	blocks  int
	err     error
}

// runGenerate expands all templates under paths.
func (a *app) runGenerate(ctx context.Context, paths []string, opts viewc.Options, workers int, dryRun bool) error {
	files, err := collectTemplates(paths, a.cfg.Extension)
	if err != nil {
		return err
	}
	a.logger.Debug("found templates", "count", len(files), "target", opts.Target.Name)

	results, err := a.processFiles(ctx, files, workers, func(ctx context.Context, res *fileResult) {
		a.generateFile(ctx, res, opts)
	})
	if err != nil {
		return err
	}

	var (
		errs    []error
		written int
		total   uint64
	)
	for _, res := range results {
		if res.err != nil {
			diag.Print(a.stderr, res.err, res.source)
			errs = append(errs, res.err)
			continue
		}
		if !res.changed {
			continue
		}

		if dryRun {
			old, _ := os.ReadFile(res.output)
			fmt.Fprint(a.stdout, unifiedDiff(res.output, string(old), string(res.content)))
			continue
		}

		if err := os.WriteFile(res.output, res.content, 0o644); err != nil {
			diag.Print(a.stderr, err, "")
			errs = append(errs, fmt.Errorf("writing %s: %w", res.output, err))
			continue
		}
		written++
		total += uint64(len(res.content))
		a.logger.Debug("wrote output", "path", res.output, "size", humanize.Bytes(uint64(len(res.content))))
	}

	if len(errs) > 0 {
		return &reportedError{summary: diag.Summary(len(errs), len(files)), err: errors.Join(errs...)}
	}

	if !dryRun {
		a.printf("Generated %d of %d file(s) (%s)\n", written, len(files), humanize.Bytes(total))
	}
	return nil
}

// generateFile expands one template and compares it with its current output.
func (a *app) generateFile(ctx context.Context, res *fileResult, opts viewc.Options) {
	res.output = outputFileName(res.input, a.cfg.Extension)

	x := &viewc.Expander{Macro: a.cfg.Macro, Options: opts}
	exp, err := x.Expand(res.input, res.source)
	if err != nil {
		res.err = err
		return
	}

	content, err := viewc.FormatOutput(res.output, []byte(exp.Output))
	if err != nil {
		res.err = fmt.Errorf("formatting %s: %w", res.output, err)
		return
	}

	res.content = content
	res.blocks = len(exp.Blocks)
	res.stats = exp.Stats()

	old, err := os.ReadFile(res.output)
	res.changed = err != nil || string(old) != string(content)

	a.logger.DebugContext(ctx, "expanded template",
		"blocks", res.blocks, "nodes", res.stats.Nodes(), "changed", res.changed)
}

// processFiles reads every file and runs fn on it with at most workers
// goroutines. Results keep the order of files. Per-file failures are
// recorded on the results; the returned error is set only when ctx is
// cancelled before every file was processed.
func (a *app) processFiles(ctx context.Context, files []string, workers int, fn func(context.Context, *fileResult)) ([]*fileResult, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*fileResult, len(files))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, path := range files {
		res := &fileResult{input: path}
		results[i] = res

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fctx := log.WithFile(ctx, path)
			src, err := a.readFile(path)
			if err != nil {
				res.err = err
				return nil
			}
			res.source = src
			fn(fctx, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
