// Package scan orchestrates a full environment scan: distribution
// enumeration, dependency graph construction, per-package sizing and
// optional subpackage trees.
package scan

import (
	"sort"

	"github.com/google/uuid"

	"github.com/matzehuels/pkgsizer/pkg/dist"
	"github.com/matzehuels/pkgsizer/pkg/graph"
	"github.com/matzehuels/pkgsizer/pkg/sizing"
	"github.com/matzehuels/pkgsizer/pkg/subpkg"
)

// EditableMode selects how editable installs participate in a scan.
type EditableMode string

const (
	// EditableMark sizes editable installs from their source tree and
	// flags them in the output. The default.
	EditableMark EditableMode = "mark"
	// EditableInclude behaves like EditableMark; the distinction only
	// affects presentation.
	EditableInclude EditableMode = "include"
	// EditableExclude drops editable installs from the results.
	EditableExclude EditableMode = "exclude"
)

// Unlimited disables a depth bound.
const Unlimited = -1

// Options configures a Scan. Depth bounds of 0 mean "roots only" for
// MaxDepth and "no subpackage trees" for ModuleDepth; pass Unlimited
// to disable either bound.
type Options struct {
	MaxDepth       int          // Dependency graph depth bound, Unlimited for none
	ModuleDepth    int          // Subpackage tree depth bound; 0 skips subpackage trees
	Editable       EditableMode // Defaults to EditableMark
	Exclude        []string     // Glob patterns excluded from sizing
	FollowSymlinks bool
	Targets        []string         // Restrict the graph to these root packages
	Env            dist.Environment // Marker environment; defaults to DefaultEnvironment
	Logf           func(string, ...any)
}

// DefaultOptions returns the options a plain scan should use: an
// unbounded dependency graph, no subpackage trees and editable installs
// marked. The Options zero value bounds the graph to roots only; use
// this instead when no depth policy is intended.
func DefaultOptions() Options {
	return Options{
		MaxDepth: Unlimited,
		Editable: EditableMark,
	}
}

// PackageResult pairs one graph node with its computed size and
// optional subpackage trees.
type PackageResult struct {
	Dist        *dist.Distribution
	Node        *graph.Node
	Size        sizing.SizeInfo
	Subpackages []*subpkg.Info
}

// Results holds everything a single environment scan produced.
type Results struct {
	ID         string // Unique scan identifier
	Root       string // Site-packages root that was scanned
	Packages   []*PackageResult
	TotalBytes int64
	TotalFiles int
}

func (r *Results) add(p *PackageResult) {
	r.Packages = append(r.Packages, p)
	r.TotalBytes += p.Size.Bytes
	r.TotalFiles += p.Size.Files
}

// Scan enumerates root, builds the dependency graph, and sizes every
// package in it. Packages are ordered by name. Only a missing or
// unreadable root is an error; per-package failures degrade to zero
// sizes or skipped entries.
func Scan(root string, opts Options) (*Results, error) {
	if opts.Editable == "" {
		opts.Editable = EditableMark
	}
	if opts.Env == nil {
		opts.Env = dist.DefaultEnvironment()
	}

	results := &Results{
		ID:   uuid.NewString(),
		Root: root,
	}

	registry, err := dist.Enumerate(root, opts.Logf)
	if err != nil {
		return nil, err
	}
	if len(registry) == 0 {
		return results, nil
	}

	nodes := graph.Build(registry, opts.Targets, opts.MaxDepth, opts.Env)

	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	sizeOpts := sizing.Options{
		FollowSymlinks: opts.FollowSymlinks,
		Exclude:        opts.Exclude,
	}

	for _, name := range names {
		node := nodes[name]
		d := node.Dist

		if d.Editable && opts.Editable == EditableExclude {
			continue
		}

		var size sizing.SizeInfo
		if d.Editable && d.EditableLocation != "" {
			size = sizing.EditableSize(d.EditableLocation, sizeOpts)
		} else {
			size = sizing.DistributionSize(d.Files, sizeOpts)
		}

		var subpackages []*subpkg.Info
		if opts.ModuleDepth != 0 && len(d.TopLevel) > 0 {
			subpackages = subpkg.ForDistribution(root, d.TopLevel, opts.ModuleDepth, sizeOpts)
		}

		results.add(&PackageResult{
			Dist:        d,
			Node:        node,
			Size:        size,
			Subpackages: subpackages,
		})
	}

	return results, nil
}
