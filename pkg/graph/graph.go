// Package graph builds bounded-depth dependency graphs over an
// enumerated set of installed distributions.
package graph

import (
	"sort"

	"github.com/matzehuels/pkgsizer/pkg/dist"
)

// Node wraps a Distribution in the resolved dependency graph. Depth is
// the shortest declared-dependency path length from any root; Direct is
// true when the package was reached with zero hops from a root.
type Node struct {
	Dist         *dist.Distribution
	Depth        int
	Direct       bool
	Dependencies []*Node
}

// Name returns the node's normalized package name.
func (n *Node) Name() string { return n.Dist.Key() }

// Unlimited disables the depth bound in Build.
const Unlimited = -1

type queueItem struct {
	name   string
	depth  int
	direct bool
}

// Build performs a breadth-first traversal over declared-dependency
// edges starting from roots and returns a mapping from normalized name
// to Node.
//
// When roots is empty, every registry entry becomes a root. Root names
// absent from the registry are silently dropped. maxDepth bounds the
// recorded depth of any node (Unlimited for no bound); a node at the
// boundary is still recorded but its own dependencies are not explored.
// A package reached again via a strictly shorter path is re-enqueued so
// that recorded depths are shortest-path depths. Already-processed
// neighbors are not re-expanded at that point, so in rare diamond
// shapes a neighbor's depth can exceed its parent's final depth plus
// one.
//
// After traversal, each node's Dependencies list holds only the
// declared dependencies that themselves made it into the result set,
// sorted by name. Dependencies outside the registry or pruned by depth
// are omitted.
func Build(registry map[string]*dist.Distribution, roots []string, maxDepth int, env dist.Environment) map[string]*Node {
	var queue []queueItem
	if len(roots) == 0 {
		names := make([]string, 0, len(registry))
		for name := range registry {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			queue = append(queue, queueItem{name: name, direct: true})
		}
	} else {
		for _, root := range roots {
			name := dist.NormalizeName(root)
			if _, ok := registry[name]; ok {
				queue = append(queue, queueItem{name: name, direct: true})
			}
		}
	}

	// Minimum depth at which each name has been enqueued.
	visited := make(map[string]int)
	nodes := make(map[string]*Node)

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if maxDepth != Unlimited && item.depth > maxDepth {
			continue
		}
		if seen, ok := visited[item.name]; ok && seen <= item.depth {
			continue
		}
		visited[item.name] = item.depth

		d := registry[item.name]
		node, ok := nodes[item.name]
		if !ok {
			node = &Node{Dist: d}
			nodes[item.name] = node
		}
		node.Depth = item.depth
		node.Direct = node.Direct || item.direct

		for _, dep := range d.Dependencies(env) {
			if _, ok := registry[dep]; ok {
				queue = append(queue, queueItem{name: dep, depth: item.depth + 1})
			}
		}
	}

	for _, node := range nodes {
		deps := node.Dist.Dependencies(env)
		sort.Strings(deps)
		for _, dep := range deps {
			if child, ok := nodes[dep]; ok {
				node.Dependencies = append(node.Dependencies, child)
			}
		}
	}

	return nodes
}
