// Package pkg provides the core libraries for pkgsizer environment analysis.
//
// # Overview
//
// Pkgsizer measures where the disk space of a Python environment goes:
// which installed packages are big, why they are installed, which ones a
// codebase never imports, and how two environments differ. The pkg
// directory is organized by concern:
//
//  1. [dist] - Installed-distribution discovery (dist-info metadata, RECORD manifests)
//  2. [graph] - Bounded-depth dependency graph over the installed set
//  3. [sizing] - Deduplicated on-disk size measurement
//  4. [subpkg] - Subpackage size trees within a package
//  5. [scan] - Orchestration of a full environment scan
//  6. [analysis] - Derived queries (why, unused, compare)
//  7. [updates] - Package index version checks
//  8. [report] - HTML, DOT/SVG and web report output
//
// # Architecture
//
// The typical data flow through pkgsizer:
//
//	site-packages directory
//	         ↓
//	    [dist] package (enumerate installed distributions)
//	         ↓
//	    [graph] package (dependency graph, depth + direct flags)
//	         ↓
//	    [sizing] + [subpkg] packages (deduplicated sizes, module trees)
//	         ↓
//	    [scan] results → [analysis] / [report] / [updates]
//
// # Quick Start
//
// Scan an environment and print the largest package:
//
//	import (
//	    "github.com/matzehuels/pkgsizer/pkg/scan"
//	)
//
//	results, _ := scan.Scan("/path/to/site-packages", scan.Options{
//	    MaxDepth: scan.Unlimited,
//	})
//	for _, p := range results.Packages {
//	    fmt.Printf("%s %s: %d bytes\n", p.Dist.Name, p.Dist.Version, p.Size.Bytes)
//	}
//
// # Main Packages
//
// [dist] - Reads *.dist-info directories: metadata, declared requirements
// with environment-marker evaluation, RECORD file manifests, top-level
// module names and editable-install detection.
//
// [graph] - Breadth-first dependency graph construction with a depth
// bound. Each node records its minimum depth and whether it is a direct
// root.
//
// [sizing] - Size measurement that counts every inode exactly once, so
// files shared between packages or reached through several paths do not
// inflate totals. Includes a worker-pool batch API.
//
// [subpkg] - Recursive subpackage enumeration: which modules inside a
// package carry the bytes, with loose files accounted exactly once.
//
// [scan] - Ties the above together and produces the versioned JSON
// report schema.
//
// [analysis] - Why is a package installed (dependency path tracing),
// which installed packages a codebase never imports, and a package-level
// diff between two environments.
//
// [updates] - Cached package index client and batch version checking
// over a fixed worker pool.
//
// [report] - Report output: standalone HTML, Graphviz DOT and SVG, and
// an HTTP handler serving all three.
//
// ## Infrastructure
//
// [cache] - TTL cache with file, Redis and null backends, plus retry
// helpers for transient network failures.
//
// [envpath] - Environment location: explicit path, virtualenv layout, or
// querying a Python interpreter.
//
// [manifest] - Dependency-name extraction from requirements.txt,
// pyproject.toml, poetry/uv lock files and conda environment files.
//
// [errors] - Coded errors shared across the module.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/sizing/...   # Specific package
//
// [dist]: https://pkg.go.dev/github.com/matzehuels/pkgsizer/pkg/dist
// [graph]: https://pkg.go.dev/github.com/matzehuels/pkgsizer/pkg/graph
// [sizing]: https://pkg.go.dev/github.com/matzehuels/pkgsizer/pkg/sizing
// [subpkg]: https://pkg.go.dev/github.com/matzehuels/pkgsizer/pkg/subpkg
// [scan]: https://pkg.go.dev/github.com/matzehuels/pkgsizer/pkg/scan
// [analysis]: https://pkg.go.dev/github.com/matzehuels/pkgsizer/pkg/analysis
// [updates]: https://pkg.go.dev/github.com/matzehuels/pkgsizer/pkg/updates
// [report]: https://pkg.go.dev/github.com/matzehuels/pkgsizer/pkg/report
// [cache]: https://pkg.go.dev/github.com/matzehuels/pkgsizer/pkg/cache
// [envpath]: https://pkg.go.dev/github.com/matzehuels/pkgsizer/pkg/envpath
// [manifest]: https://pkg.go.dev/github.com/matzehuels/pkgsizer/pkg/manifest
// [errors]: https://pkg.go.dev/github.com/matzehuels/pkgsizer/pkg/errors
package pkg
