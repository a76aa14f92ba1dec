package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsizer/pkg/analysis"
	"github.com/matzehuels/pkgsizer/pkg/dist"
	"github.com/matzehuels/pkgsizer/pkg/report"
)

// unusedCommand creates the unused command.
func (c *CLI) unusedCommand() *cobra.Command {
	env := envFlags{}
	var codePath string
	var showImports bool

	cmd := &cobra.Command{
		Use:   "unused",
		Short: "Find dependencies a codebase never imports",
		Long: `Cross-reference the installed packages against the imports of a
Python codebase and report the packages nothing imports.

The import scan is line-oriented, not a full parser, so treat the
result as a candidate list: dynamic imports, plugins and CLI-only tools
will show up as unused. Without --code every package is reported as
uncertain.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUnused(cmd.Context(), env, codePath, showImports)
		},
	}

	env.register(cmd)
	cmd.Flags().StringVar(&codePath, "code", "", "root of the Python codebase to scan for imports")
	cmd.Flags().BoolVar(&showImports, "show-imports", false, "list the imported module names found in the code")

	return cmd
}

func (c *CLI) runUnused(ctx context.Context, env envFlags, codePath string, showImports bool) error {
	logger := loggerFromContext(ctx)

	root, err := env.locate(ctx)
	if err != nil {
		return err
	}

	registry, err := dist.Enumerate(root, logger.Debugf)
	if err != nil {
		return err
	}

	var imported map[string]bool
	if codePath != "" {
		spinner := newSpinnerWithContext(ctx, "Scanning imports...")
		spinner.Start()
		scanner := &analysis.PythonImportScanner{}
		imported, err = scanner.Imports(codePath)
		if err != nil {
			spinner.StopWithError("Import scan failed")
			return err
		}
		spinner.Stop()
		logger.Debug("scanned imports", "modules", len(imported), "code", codePath)
	}

	result := analysis.Unused(registry, imported)

	printNewline()
	if !result.CodeScanned {
		printWarning("No codebase given (--code); every package is uncertain")
		for _, name := range result.Uncertain {
			printDetail("%s", name)
		}
		return nil
	}

	printInfo("Checked %d packages against %d imported modules", result.Total, len(result.Imported))
	if showImports {
		for _, module := range result.Imported {
			printDetail("%s", module)
		}
	}
	printNewline()

	if len(result.Unused) == 0 {
		printSuccess("Every installed package is imported somewhere")
		return nil
	}

	wasted := analysis.UnusedSize(registry, result.Unused)
	printWarning("%d package(s) never imported (%s):", len(result.Unused), report.FormatBytes(wasted))
	for _, name := range result.Unused {
		size := analysis.UnusedSize(registry, []string{name})
		printDetail("%-30s %s", name, report.FormatBytes(size))
	}
	printNewline()
	printDetail("Dynamic imports and CLI-only tools are not detected; verify before uninstalling")
	return nil
}
