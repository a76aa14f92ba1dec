// Package subpkg enumerates the subpackages and modules inside an
// installed distribution, building a size-annotated tree.
package subpkg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/pkgsizer/pkg/sizing"
)

// Info is one node in a subpackage tree: a package directory, a module
// file, or the distribution's top-level entry itself.
type Info struct {
	Name          string // Last dotted-name component
	QualifiedName string // Full dotted import path
	Path          string
	Depth         int
	IsPackage     bool
	Size          sizing.SizeInfo
	Children      []*Info
}

// Unlimited disables the depth bound in Enumerate.
const Unlimited = -1

// Directories never descended into or counted, regardless of caller
// exclude patterns.
var skipDirs = map[string]bool{
	"__pycache__":   true,
	".git":          true,
	".svn":          true,
	"__pyinstaller": true,
}

// Enumerate recursively walks a package directory (or single module
// file) and returns its subpackage tree.
//
// A directory child is a subpackage when it contains __init__.py; a
// file child is a module when it ends in .py and is not dunder-named.
// The node's size is the sum of all child sizes plus every loose entry
// in the directory not already visited as a child, so each byte under
// the root is counted exactly once. When depth reaches maxDepth the
// remaining subtree is sized in one aggregate call without building
// further nodes.
func Enumerate(path, qualifiedName string, maxDepth int, opts sizing.Options) *Info {
	return enumerate(path, qualifiedName, maxDepth, 0, opts)
}

func enumerate(path, qualifiedName string, maxDepth, depth int, opts sizing.Options) *Info {
	parts := strings.Split(qualifiedName, ".")
	info := &Info{
		Name:          parts[len(parts)-1],
		QualifiedName: qualifiedName,
		Path:          path,
		Depth:         depth,
	}

	fi, err := os.Stat(path)
	if err != nil {
		return info
	}
	if !fi.IsDir() {
		info.Size = sizing.PathSize(path, opts, sizing.NewInodeSet())
		return info
	}
	info.IsPackage = true

	if maxDepth != Unlimited && depth >= maxDepth {
		// Depth cutoff: size the whole subtree without building nodes.
		info.Size = sizing.PathSize(path, opts, sizing.NewInodeSet())
		return info
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return info
	}

	accounted := make(map[string]bool)
	for _, entry := range entries {
		name := entry.Name()
		if skipDirs[name] {
			accounted[name] = true
			continue
		}
		entryPath := filepath.Join(path, name)
		if sizing.ShouldExclude(entryPath, opts.Exclude) {
			continue
		}

		switch {
		case entry.IsDir() && isPackageDir(entryPath):
			child := enumerate(entryPath, qualifiedName+"."+name, maxDepth, depth+1, opts)
			info.Children = append(info.Children, child)
			info.Size.Add(child.Size)
			accounted[name] = true

		case !entry.IsDir() && strings.HasSuffix(name, ".py") && !strings.HasPrefix(name, "__"):
			moduleName := strings.TrimSuffix(name, ".py")
			child := &Info{
				Name:          moduleName,
				QualifiedName: qualifiedName + "." + moduleName,
				Path:          entryPath,
				Depth:         depth + 1,
				Size:          sizing.PathSize(entryPath, opts, sizing.NewInodeSet()),
			}
			info.Children = append(info.Children, child)
			info.Size.Add(child.Size)
			accounted[name] = true
		}
	}

	// Loose entries: __init__.py, data files, non-package directories.
	for _, entry := range entries {
		if accounted[entry.Name()] {
			continue
		}
		info.Size.Add(sizing.PathSize(filepath.Join(path, entry.Name()), opts, sizing.NewInodeSet()))
	}

	return info
}

func isPackageDir(path string) bool {
	_, err := os.Stat(filepath.Join(path, "__init__.py"))
	return err == nil
}

// TopLevelPaths resolves a distribution's top-level module names to
// paths under the site-packages root. Each name is tried as a package
// directory, then a plain module, then a compiled extension.
func TopLevelPaths(root string, names []string) []string {
	var paths []string
	for _, name := range names {
		dir := filepath.Join(root, name)
		if isPackageDir(dir) {
			paths = append(paths, dir)
			continue
		}
		if fi, err := os.Stat(dir + ".py"); err == nil && !fi.IsDir() {
			paths = append(paths, dir+".py")
			continue
		}
		for _, ext := range []string{".so", ".pyd", ".dylib"} {
			if _, err := os.Stat(dir + ext); err == nil {
				paths = append(paths, dir+ext)
				break
			}
		}
	}
	return paths
}

// ForDistribution enumerates subpackage trees for each of a
// distribution's top-level names that resolves to a path under root.
func ForDistribution(root string, topLevel []string, maxDepth int, opts sizing.Options) []*Info {
	var results []*Info
	for _, path := range TopLevelPaths(root, topLevel) {
		name := filepath.Base(path)
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			name = strings.TrimSuffix(name, filepath.Ext(name))
		}
		results = append(results, Enumerate(path, name, maxDepth, opts))
	}
	return results
}
