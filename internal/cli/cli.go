// Package cli implements the pkgsizer command-line interface.
//
// This package provides commands for scanning Python environments and
// measuring installed package sizes, tracing dependency chains, finding
// unused dependencies, diffing environments, checking the package index
// for updates and serving an HTML report. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - scan: Measure installed package sizes with dependency context
//   - why: Trace why a package is installed
//   - unused: Find dependencies a codebase never imports
//   - alternatives: Suggest lighter or better alternative packages
//   - compare: Diff two environments
//   - updates: Check the package index for newer releases
//   - report: Render or serve an HTML report
//   - cache: Manage the response cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context to allow structured progress
// tracking.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pkgsizer/pkg/buildinfo"
	"github.com/matzehuels/pkgsizer/pkg/cache"
	"github.com/matzehuels/pkgsizer/pkg/envpath"
)

const appName = "pkgsizer"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Pkgsizer measures the disk footprint of Python environments",
		Long:         `Pkgsizer scans a Python environment, measures the deduplicated on-disk size of every installed package, and explains where the bytes come from: dependency chains, subpackages, unused installs and version drift.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.whyCommand())
	root.AddCommand(c.unusedCommand())
	root.AddCommand(c.alternativesCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.updatesCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// envFlags are the shared environment-selection flags. Exactly one of
// the three is consulted, in Locate's priority order.
type envFlags struct {
	sitePackages string
	venv         string
	python       string
}

func (f *envFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.sitePackages, "path", "", "site-packages directory to scan")
	cmd.Flags().StringVar(&f.venv, "venv", "", "virtual environment root")
	cmd.Flags().StringVar(&f.python, "python", "", "Python interpreter to query")
}

// locate resolves the selected environment to a site-packages path.
func (f *envFlags) locate(ctx context.Context) (string, error) {
	return envpath.Locate(ctx, envpath.Options{
		SitePackages: f.sitePackages,
		Venv:         f.venv,
		Python:       f.python,
	})
}

// newCache builds the response cache: Redis when an address is given,
// otherwise a file cache under the user cache directory, degrading to
// a null cache when neither is available.
func newCache(ctx context.Context, noCache bool, redisAddr string) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if redisAddr != "" {
		if c, err := cache.NewRedisCache(ctx, redisAddr, appName); err == nil {
			return c
		}
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}
