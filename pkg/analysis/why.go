// Package analysis answers derived queries over a scanned environment:
// dependency path tracing, unused-dependency detection and environment
// diffing.
package analysis

import (
	"sort"

	"github.com/matzehuels/pkgsizer/pkg/dist"
	"github.com/matzehuels/pkgsizer/pkg/errors"
	"github.com/matzehuels/pkgsizer/pkg/graph"
	"github.com/matzehuels/pkgsizer/pkg/sizing"
)

// DependencyPath is one root-to-target chain through the dependency
// graph, with the size of each hop.
type DependencyPath struct {
	Packages []string
	Sizes    []int64
	Total    int64
}

// WhyResult explains how a package ended up in an environment.
type WhyResult struct {
	Package    string
	Version    string
	Size       int64
	Direct     bool // Nothing in the environment depends on it
	Dependents []string
	Paths      []*DependencyPath
	Editable   bool
	Location   string
}

// Path search bounds: enough to be useful, small enough that dense
// graphs cannot blow up the traversal.
const (
	maxWhyPaths     = 20
	maxWhyPathDepth = 10
	whyGraphDepth   = 5
)

// Why traces the dependency chains that pull target into the registry.
// Returns ErrCodePackageNotFound when the target is not installed.
func Why(registry map[string]*dist.Distribution, target string, env dist.Environment) (*WhyResult, error) {
	key := dist.NormalizeName(target)
	d, ok := registry[key]
	if !ok {
		return nil, errors.New(errors.ErrCodePackageNotFound, "package %s not found in environment", target)
	}

	sizes := newSizeCache()

	var dependents []string
	for name, other := range registry {
		if name == key {
			continue
		}
		for _, dep := range other.Dependencies(env) {
			if dep == key {
				dependents = append(dependents, name)
				break
			}
		}
	}
	sort.Strings(dependents)

	result := &WhyResult{
		Package:    d.Name,
		Version:    d.Version,
		Size:       sizes.of(registry, key),
		Direct:     len(dependents) == 0,
		Dependents: dependents,
		Editable:   d.Editable,
		Location:   d.Location,
	}

	if !result.Direct {
		nodes := graph.Build(registry, nil, whyGraphDepth, env)
		result.Paths = findPaths(nodes, key, func(name string) int64 {
			return sizes.of(registry, name)
		})
	}
	return result, nil
}

// findPaths runs a depth-first search from every depth-0 node toward
// target, collecting up to maxWhyPaths distinct acyclic paths.
func findPaths(nodes map[string]*graph.Node, target string, sizeOf func(string) int64) []*DependencyPath {
	if _, ok := nodes[target]; !ok {
		return nil
	}

	var roots []string
	for name, node := range nodes {
		if node.Depth == 0 {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)

	var paths []*DependencyPath
	var dfs func(current string, trail []string, visited map[string]bool)
	dfs = func(current string, trail []string, visited map[string]bool) {
		if len(paths) >= maxWhyPaths {
			return
		}
		if current == target {
			names := append(append([]string(nil), trail...), current)
			p := &DependencyPath{Packages: names}
			for _, name := range names {
				size := sizeOf(name)
				p.Sizes = append(p.Sizes, size)
				p.Total += size
			}
			paths = append(paths, p)
			return
		}
		if visited[current] || len(trail) >= maxWhyPathDepth {
			return
		}
		node, ok := nodes[current]
		if !ok {
			return
		}
		visited[current] = true
		for _, dep := range node.Dependencies {
			dfs(dep.Name(), append(trail, current), visited)
		}
		delete(visited, current)
	}

	for _, root := range roots {
		if len(paths) >= maxWhyPaths {
			break
		}
		dfs(root, nil, make(map[string]bool))
	}
	return paths
}

// sizeCache memoizes per-package manifest sizes across path scoring.
type sizeCache struct {
	sizes map[string]int64
}

func newSizeCache() *sizeCache {
	return &sizeCache{sizes: make(map[string]int64)}
}

func (c *sizeCache) of(registry map[string]*dist.Distribution, name string) int64 {
	if size, ok := c.sizes[name]; ok {
		return size
	}
	var size int64
	if d, ok := registry[name]; ok {
		size = sizing.DistributionSize(d.Files, sizing.Options{}).Bytes
	}
	c.sizes[name] = size
	return size
}
