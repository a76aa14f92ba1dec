package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsizer/pkg/analysis"
	"github.com/matzehuels/pkgsizer/pkg/dist"
	"github.com/matzehuels/pkgsizer/pkg/report"
)

// whyCommand creates the why command.
func (c *CLI) whyCommand() *cobra.Command {
	env := envFlags{}

	cmd := &cobra.Command{
		Use:   "why <package>",
		Short: "Trace why a package is installed",
		Long: `Explain how a package ended up in the environment.

Lists every installed package that requires it and the dependency
chains leading to it from the packages nothing else depends on, with
the size each hop contributes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWhy(cmd.Context(), env, args[0])
		},
	}

	env.register(cmd)
	return cmd
}

func (c *CLI) runWhy(ctx context.Context, env envFlags, target string) error {
	logger := loggerFromContext(ctx)

	root, err := env.locate(ctx)
	if err != nil {
		return err
	}

	registry, err := dist.Enumerate(root, logger.Debugf)
	if err != nil {
		return err
	}

	result, err := analysis.Why(registry, target, dist.DefaultEnvironment())
	if err != nil {
		return err
	}

	printNewline()
	fmt.Println(StyleTitle.Render(result.Package) + " " + StyleDim.Render(result.Version))
	printKeyValue("Size", report.FormatBytes(result.Size))
	if result.Editable {
		printKeyValue("Editable", "yes")
	}
	if result.Location != "" {
		printKeyValue("Location", result.Location)
	}
	printNewline()

	if result.Direct {
		printSuccess("Nothing depends on %s; it was installed directly", result.Package)
		return nil
	}

	printInfo("Required by %d package(s):", len(result.Dependents))
	for _, name := range result.Dependents {
		printDetail("%s", name)
	}

	if len(result.Paths) > 0 {
		printNewline()
		printInfo("Dependency chains:")
		for _, path := range result.Paths {
			hops := make([]string, len(path.Packages))
			for i, name := range path.Packages {
				hops[i] = fmt.Sprintf("%s %s", name, StyleDim.Render("("+report.FormatBytes(path.Sizes[i])+")"))
			}
			printDetail("%s", strings.Join(hops, " "+iconArrow+" "))
		}
	}
	return nil
}
