package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsizer/pkg/dist"
	"github.com/matzehuels/pkgsizer/pkg/report"
	"github.com/matzehuels/pkgsizer/pkg/updates"
)

// updatesOptions collects the flags of the updates command.
type updatesOptions struct {
	env       envFlags
	all       bool
	workers   int
	noCache   bool
	redisAddr string
}

// updatesCommand creates the updates command.
func (c *CLI) updatesCommand() *cobra.Command {
	opts := updatesOptions{}

	cmd := &cobra.Command{
		Use:   "updates [package...]",
		Short: "Check the package index for newer releases",
		Long: `Check installed packages against the package index and report which
have newer releases available.

Without arguments every installed package is checked. Index responses
are cached for an hour; use --no-cache to force fresh lookups or
--redis to share the cache between machines.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUpdates(cmd.Context(), opts, args)
		},
	}

	opts.env.register(cmd)
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "show up-to-date packages too")
	cmd.Flags().IntVar(&opts.workers, "workers", 10, "concurrent index requests")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "redis address for a shared response cache (host:port)")

	return cmd
}

func (c *CLI) runUpdates(ctx context.Context, opts updatesOptions, names []string) error {
	logger := loggerFromContext(ctx)

	root, err := opts.env.locate(ctx)
	if err != nil {
		return err
	}

	registry, err := dist.Enumerate(root, logger.Debugf)
	if err != nil {
		return err
	}

	store := newCache(ctx, opts.noCache, opts.redisAddr)
	defer store.Close()
	client := updates.NewClient(store)

	spinner := newSpinnerWithContext(ctx, "Checking package index...")
	spinner.Start()
	prog := newProgress(logger)
	result := updates.CheckUpdates(ctx, client, registry, names, opts.workers)
	spinner.Stop()
	prog.done(fmt.Sprintf("Checked %d packages", result.Checked))

	printNewline()
	if len(result.Outdated) == 0 {
		printSuccess("Everything is up to date (%d checked)", result.Checked)
	} else {
		printWarning("%d package(s) have newer releases:", len(result.Outdated))
		for _, u := range result.Outdated {
			printDetail("%-30s %s %s %s  %s", u.Package, u.CurrentVersion, iconArrow, u.LatestVersion,
				report.FormatBytes(u.CurrentSize))
		}
	}

	if opts.all && len(result.UpToDate) > 0 {
		printNewline()
		printInfo("Up to date:")
		for _, u := range result.UpToDate {
			printDetail("%-30s %s", u.Package, u.CurrentVersion)
		}
	}

	if len(result.Unavailable) > 0 {
		printNewline()
		printInfo("Not found on the index:")
		for _, u := range result.Unavailable {
			printDetail("%-30s %s", u.Package, u.CurrentVersion)
		}
	}
	return nil
}
