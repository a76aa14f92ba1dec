package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsizer/pkg/analysis"
	"github.com/matzehuels/pkgsizer/pkg/dist"
	"github.com/matzehuels/pkgsizer/pkg/report"
)

// alternativesCommand creates the alternatives command.
func (c *CLI) alternativesCommand() *cobra.Command {
	env := envFlags{}
	var listAll bool

	cmd := &cobra.Command{
		Use:   "alternatives [package]",
		Short: "Suggest lighter or better alternative packages",
		Long: `Look up curated alternatives for installed packages.

With a package argument only that package is checked; without one,
every installed package the suggestion table knows about is listed.
Alternatives already installed in the environment are annotated with
their measured size.

The table is opinionated and hand-maintained; treat the suggestions as
starting points, not drop-in replacements.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listAll {
				printKnownAlternatives()
				return nil
			}
			target := ""
			if len(args) > 0 {
				target = args[0]
			}
			return c.runAlternatives(cmd.Context(), env, target)
		},
	}

	env.register(cmd)
	cmd.Flags().BoolVar(&listAll, "list-all", false, "list the whole suggestion table without scanning an environment")

	return cmd
}

func (c *CLI) runAlternatives(ctx context.Context, env envFlags, target string) error {
	logger := loggerFromContext(ctx)

	root, err := env.locate(ctx)
	if err != nil {
		return err
	}

	registry, err := dist.Enumerate(root, logger.Debugf)
	if err != nil {
		return err
	}

	if target != "" {
		result, err := analysis.Alternatives(registry, target)
		if err != nil {
			return err
		}
		printNewline()
		printAlternatives(result)
		if len(result.Alternatives) == 0 {
			printInfo("No known alternatives for %s", result.Package)
		}
		return nil
	}

	results := analysis.AllAlternatives(registry)
	printNewline()
	if len(results) == 0 {
		printSuccess("No installed package has a known alternative")
		return nil
	}
	printInfo("%d installed package(s) have known alternatives:", len(results))
	for _, result := range results {
		printNewline()
		printAlternatives(result)
	}
	return nil
}

func printAlternatives(result *analysis.AlternativesResult) {
	fmt.Println(StyleTitle.Render(result.Package) + " " + StyleDim.Render(result.Version) +
		" " + StyleDim.Render(report.FormatBytes(result.Bytes)))
	for _, alt := range result.Alternatives {
		size := string(alt.Size)
		if alt.Installed {
			size = fmt.Sprintf("installed, %s (%s)", report.FormatBytes(alt.Bytes), formatDelta(alt.Delta))
		}
		printDetail("%-20s %s  %s", alt.Name, alt.Reason, StyleDim.Render(size))
	}
}

func printKnownAlternatives() {
	table := analysis.KnownAlternatives()

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	printNewline()
	fmt.Println(StyleTitle.Render("Known package alternatives"))
	for _, name := range names {
		alts := make([]string, len(table[name]))
		for i, alt := range table[name] {
			alts[i] = alt.Name
		}
		printDetail("%-20s %s", name, strings.Join(alts, ", "))
	}
	printNewline()
	printDetail("%d package(s) in the table", len(names))
}
