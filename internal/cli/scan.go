package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsizer/pkg/errors"
	"github.com/matzehuels/pkgsizer/pkg/manifest"
	"github.com/matzehuels/pkgsizer/pkg/report"
	"github.com/matzehuels/pkgsizer/pkg/scan"
)

// scanOptions collects every flag of the scan command.
type scanOptions struct {
	env            envFlags
	depth          int
	moduleDepth    int
	editable       string
	exclude        []string
	followSymlinks bool
	targets        []string
	manifestPath   string
	jsonOut        bool
	output         string
	top            int
	sortKey        string
	tree           bool
	failAbove      string
	interactive    bool
}

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	opts := scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Measure installed package sizes",
		Long: `Scan a Python environment and measure the deduplicated on-disk size
of every installed package.

The environment is selected with --path, --venv or --python; without any
of those the interpreter on PATH is queried. Sizes are computed from the
installed file manifests, counting files shared between packages exactly
once. The dependency graph annotates each package with its depth and
whether anything else requires it.

Use --json for machine-readable output, --tree for per-package
subpackage breakdowns and --fail-above to turn the scan into a CI size
gate.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd.Context(), opts)
		},
	}

	opts.env.register(cmd)
	cmd.Flags().IntVar(&opts.depth, "depth", scan.Unlimited, "dependency graph depth limit (-1 for unlimited)")
	cmd.Flags().IntVar(&opts.moduleDepth, "module-depth", 0, "subpackage tree depth (0 disables, -1 for unlimited)")
	cmd.Flags().StringVar(&opts.editable, "editable", string(scan.EditableMark), "editable install handling: mark, include, exclude")
	cmd.Flags().StringSliceVar(&opts.exclude, "exclude", nil, "glob patterns to exclude from sizing (e.g. *.pyc)")
	cmd.Flags().BoolVar(&opts.followSymlinks, "follow-symlinks", false, "follow symlinks when sizing")
	cmd.Flags().StringSliceVar(&opts.targets, "target", nil, "restrict the scan to these packages and their dependencies")
	cmd.Flags().StringVar(&opts.manifestPath, "requirements", "", "restrict the scan to the packages named in a manifest file (requirements.txt, pyproject.toml, poetry/uv lock, environment.yml)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit the JSON report on stdout")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the JSON report to a file")
	cmd.Flags().IntVar(&opts.top, "top", 0, "show only the N largest packages (0 for all)")
	cmd.Flags().StringVar(&opts.sortKey, "sort", sortBySize, "sort order: size or name")
	cmd.Flags().BoolVar(&opts.tree, "tree", false, "show subpackage size trees")
	cmd.Flags().StringVar(&opts.failAbove, "fail-above", "", "exit non-zero when the total size exceeds this threshold (e.g. 500MB)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse results interactively")

	return cmd
}

func (c *CLI) runScan(ctx context.Context, opts scanOptions) error {
	logger := loggerFromContext(ctx)

	var threshold int64
	if opts.failAbove != "" {
		var err error
		if threshold, err = parseSizeThreshold(opts.failAbove); err != nil {
			return err
		}
	}

	switch scan.EditableMode(opts.editable) {
	case scan.EditableMark, scan.EditableInclude, scan.EditableExclude:
	default:
		return errors.New(errors.ErrCodeInternal, "unknown editable mode %q (use mark, include or exclude)", opts.editable)
	}

	targets := opts.targets
	if opts.manifestPath != "" {
		names, err := manifest.Parse(opts.manifestPath)
		if err != nil {
			return err
		}
		targets = append(targets, names...)
		logger.Debug("parsed manifest", "file", opts.manifestPath, "packages", len(names))
	}

	root, err := opts.env.locate(ctx)
	if err != nil {
		return err
	}
	logger.Debug("located environment", "site-packages", root)

	moduleDepth := opts.moduleDepth
	if opts.tree && moduleDepth == 0 {
		moduleDepth = 2
	}

	spinner := newSpinnerWithContext(ctx, "Scanning environment...")
	spinner.Start()

	prog := newProgress(logger)
	results, err := scan.Scan(root, scan.Options{
		MaxDepth:       opts.depth,
		ModuleDepth:    moduleDepth,
		Editable:       scan.EditableMode(opts.editable),
		Exclude:        opts.exclude,
		FollowSymlinks: opts.followSymlinks,
		Targets:        targets,
		Logf:           logger.Debugf,
	})
	if err != nil {
		spinner.StopWithError("Scan failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Scanned %d packages", len(results.Packages)))

	if err := sortPackages(results.Packages, opts.sortKey); err != nil {
		return err
	}

	if opts.jsonOut || opts.output != "" {
		data, err := results.ToJSON()
		if err != nil {
			return err
		}
		if opts.output != "" {
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "write report to %s", opts.output)
			}
			printSuccess("Report written")
			printFile(opts.output)
		}
		if opts.jsonOut {
			fmt.Println(string(data))
		}
	} else if opts.interactive {
		if err := c.runInteractive(results); err != nil {
			return err
		}
	} else {
		printScanResults(results, opts)
	}

	if threshold > 0 && results.TotalBytes > threshold {
		return errors.New(errors.ErrCodeInternal, "total size %s exceeds threshold %s",
			report.FormatBytes(results.TotalBytes), report.FormatBytes(threshold))
	}
	return nil
}

// printScanResults prints the table view with summary stats.
func printScanResults(results *scan.Results, opts scanOptions) {
	printNewline()
	fmt.Println(packageTable(results, opts.top))
	printStats(len(results.Packages), results.TotalFiles, report.FormatBytes(results.TotalBytes))

	if opts.tree {
		for _, p := range results.Packages {
			if len(p.Subpackages) == 0 {
				continue
			}
			printNewline()
			fmt.Println(StyleHighlight.Render(p.Dist.Key()) + " " + StyleDim.Render(report.FormatBytes(p.Size.Bytes)))
			printSubpackageTree(p.Subpackages)
		}
	}

	printNewline()
	printNextStep("Trace a package", "pkgsizer why <package>")
}

// runInteractive opens the bubbletea package browser and prints the
// detail view for whatever was selected on exit.
func (c *CLI) runInteractive(results *scan.Results) error {
	model := NewPackageListModel(results.Packages)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "interactive browser failed")
	}
	if m, ok := final.(PackageListModel); ok && m.Selected != nil {
		printPackageDetail(m.Selected.Package)
	}
	return nil
}
