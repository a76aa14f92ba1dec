package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsizer/pkg/analysis"
	"github.com/matzehuels/pkgsizer/pkg/envpath"
	"github.com/matzehuels/pkgsizer/pkg/report"
)

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var labelA, labelB string

	cmd := &cobra.Command{
		Use:   "compare <env-a> <env-b>",
		Short: "Diff two environments",
		Long: `Compare the installed packages of two environments.

Each argument is a virtual environment root or a site-packages
directory. The diff shows packages unique to either side, version
changes with their size impact, and the total size delta.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompare(cmd.Context(), args[0], args[1], labelA, labelB)
		},
	}

	cmd.Flags().StringVar(&labelA, "label-a", "", "display name for the first environment")
	cmd.Flags().StringVar(&labelB, "label-b", "", "display name for the second environment")

	return cmd
}

// resolveEnvArg accepts either a venv root or a site-packages path.
func resolveEnvArg(ctx context.Context, arg string) (string, error) {
	if path, err := envpath.Locate(ctx, envpath.Options{Venv: arg}); err == nil {
		return path, nil
	}
	return envpath.Locate(ctx, envpath.Options{SitePackages: arg})
}

func (c *CLI) runCompare(ctx context.Context, argA, argB, labelA, labelB string) error {
	logger := loggerFromContext(ctx)

	rootA, err := resolveEnvArg(ctx, argA)
	if err != nil {
		return err
	}
	rootB, err := resolveEnvArg(ctx, argB)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	result, err := analysis.Compare(rootA, rootB, labelA, labelB, logger.Debugf)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Compared %d and %d packages", result.A.Packages, result.B.Packages))

	printNewline()
	printEnvSummary(result.A)
	printEnvSummary(result.B)
	printKeyValue("Delta", formatDelta(result.SizeDelta()))
	printNewline()

	if len(result.OnlyA) > 0 {
		printInfo("Only in %s:", result.A.Name)
		for _, p := range result.OnlyA {
			printDetail("%-30s %-12s %s", p.Name, p.Version, report.FormatBytes(p.Bytes))
		}
		printNewline()
	}

	if len(result.OnlyB) > 0 {
		printInfo("Only in %s:", result.B.Name)
		for _, p := range result.OnlyB {
			printDetail("%-30s %-12s %s", p.Name, p.Version, report.FormatBytes(p.Bytes))
		}
		printNewline()
	}

	if len(result.Changed) > 0 {
		printInfo("Version changes:")
		for _, d := range result.Changed {
			printDetail("%-30s %s %s %s  (%s)", d.Name, d.VersionA, iconArrow, d.VersionB, formatDelta(d.Delta()))
		}
		printNewline()
	}

	printDetail("%d package(s) identical in both environments", len(result.Same))
	return nil
}

func printEnvSummary(s analysis.EnvSummary) {
	printKeyValue(s.Name, fmt.Sprintf("%d packages, %s  %s",
		s.Packages, report.FormatBytes(s.TotalBytes), StyleDim.Render(s.Path)))
}
