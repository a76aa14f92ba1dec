package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsizer/pkg/errors"
	"github.com/matzehuels/pkgsizer/pkg/report"
	"github.com/matzehuels/pkgsizer/pkg/scan"
)

// reportOptions collects the flags of the report command.
type reportOptions struct {
	env       envFlags
	depth     int
	exclude   []string
	output    string
	svgOut    string
	dotOut    string
	serveAddr string
}

// reportCommand creates the report command.
func (c *CLI) reportCommand() *cobra.Command {
	opts := reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render or serve an HTML report",
		Long: `Scan the environment and render the results as a standalone HTML
page, a Graphviz dependency graph, or a local web UI.

With --serve the report is kept in memory and served at the given
address until interrupted; otherwise files are written for whichever
output flags are set (default: report.html).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReport(cmd.Context(), opts)
		},
	}

	opts.env.register(cmd)
	cmd.Flags().IntVar(&opts.depth, "depth", scan.Unlimited, "dependency graph depth limit (-1 for unlimited)")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "glob patterns to exclude from sizing")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "HTML output file (default report.html)")
	cmd.Flags().StringVar(&opts.svgOut, "svg", "", "write the dependency graph as SVG to this file")
	cmd.Flags().StringVar(&opts.dotOut, "dot", "", "write the dependency graph in DOT format to this file")
	cmd.Flags().StringVar(&opts.serveAddr, "serve", "", "serve the report at this address (e.g. localhost:8080)")

	return cmd
}

func (c *CLI) runReport(ctx context.Context, opts reportOptions) error {
	logger := loggerFromContext(ctx)

	root, err := opts.env.locate(ctx)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Scanning environment...")
	spinner.Start()
	prog := newProgress(logger)
	results, err := scan.Scan(root, scan.Options{
		MaxDepth: opts.depth,
		Exclude:  opts.exclude,
		Logf:     logger.Debugf,
	})
	if err != nil {
		spinner.StopWithError("Scan failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Scanned %d packages", len(results.Packages)))

	if opts.serveAddr != "" {
		printInfo("Serving report at http://%s (ctrl-c to stop)", opts.serveAddr)
		return report.Serve(ctx, opts.serveAddr, results)
	}

	if opts.dotOut != "" {
		if err := os.WriteFile(opts.dotOut, []byte(report.ToDOT(results)), 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write DOT to %s", opts.dotOut)
		}
		printSuccess("Dependency graph written")
		printFile(opts.dotOut)
	}

	if opts.svgOut != "" {
		svg, err := report.RenderSVG(ctx, report.ToDOT(results))
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.svgOut, svg, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write SVG to %s", opts.svgOut)
		}
		printSuccess("Dependency graph rendered")
		printFile(opts.svgOut)
	}

	// HTML is the default artifact when nothing else was requested.
	htmlOut := opts.output
	if htmlOut == "" && opts.svgOut == "" && opts.dotOut == "" {
		htmlOut = "report.html"
	}
	if htmlOut != "" {
		f, err := os.Create(htmlOut)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create %s", htmlOut)
		}
		defer f.Close()
		if err := report.WriteHTML(f, results); err != nil {
			return err
		}
		printSuccess("Report written")
		printFile(htmlOut)
	}
	return nil
}
