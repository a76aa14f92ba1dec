package analysis

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/matzehuels/pkgsizer/pkg/dist"
	"github.com/matzehuels/pkgsizer/pkg/sizing"
)

// ImportScanner provides the set of top-level module names a codebase
// references. The classification below is agnostic to where that set
// comes from; PythonImportScanner is the built-in implementation.
type ImportScanner interface {
	Imports(root string) (map[string]bool, error)
}

// UnusedResult partitions installed packages into three disjoint sets
// based on whether their importable modules appear in a codebase.
type UnusedResult struct {
	Total       int
	Used        []string
	Unused      []string
	Uncertain   []string
	Imported    []string // Sorted imported module names, if code was scanned
	CodeScanned bool
}

// Unused classifies every package in the registry against the imported
// module set. A nil imported set means no code was scanned and every
// package lands in Uncertain.
//
// A package counts as used when any of its top-level modules (or, as a
// fallback, its own name with hyphens mapped to underscores) appears in
// the imported set.
func Unused(registry map[string]*dist.Distribution, imported map[string]bool) *UnusedResult {
	result := &UnusedResult{
		Total:       len(registry),
		CodeScanned: imported != nil,
	}

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if imported == nil {
			result.Uncertain = append(result.Uncertain, name)
			continue
		}

		d := registry[name]
		topLevel := d.TopLevel
		if len(topLevel) == 0 {
			topLevel = []string{name}
		}

		used := false
		for _, module := range topLevel {
			if imported[module] {
				used = true
				break
			}
		}
		if !used {
			used = imported[strings.ReplaceAll(name, "-", "_")] || imported[name]
		}

		if used {
			result.Used = append(result.Used, name)
		} else {
			result.Unused = append(result.Unused, name)
		}
	}

	if imported != nil {
		for module := range imported {
			result.Imported = append(result.Imported, module)
		}
		sort.Strings(result.Imported)
	}
	return result
}

// UnusedSize sums the deduplicated manifest sizes of the named packages.
func UnusedSize(registry map[string]*dist.Distribution, names []string) int64 {
	var total int64
	for _, name := range names {
		if d, ok := registry[dist.NormalizeName(name)]; ok {
			total += sizing.DistributionSize(d.Files, sizing.Options{}).Bytes
		}
	}
	return total
}

// PythonImportScanner extracts top-level imported module names from a
// Python source tree using line-oriented matching of import statements.
// It does not parse Python; strings and comments that happen to look
// like imports at the start of a line will be picked up.
type PythonImportScanner struct {
	// Exclude lists directory name fragments to skip. Defaults to the
	// usual virtualenv, VCS and build-artifact directories.
	Exclude []string
}

var defaultScanExcludes = []string{
	"__pycache__", ".git", ".tox", ".nox",
	"venv", ".venv", "env", "node_modules", "build", "dist", ".egg-info",
}

var (
	importLineRE = regexp.MustCompile(`^\s*import\s+(.+)`)
	fromLineRE   = regexp.MustCompile(`^\s*from\s+([A-Za-z_][A-Za-z0-9_.]*)\s+import\b`)
	moduleNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*`)
)

// Imports walks root and returns every top-level module name imported
// by a .py file under it. Unreadable files are skipped.
func (s *PythonImportScanner) Imports(root string) (map[string]bool, error) {
	excludes := s.Exclude
	if excludes == nil {
		excludes = defaultScanExcludes
	}

	imports := make(map[string]bool)
	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			name := entry.Name()
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			for _, pattern := range excludes {
				if strings.Contains(name, pattern) {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if strings.HasSuffix(entry.Name(), ".py") {
			scanFileImports(path, imports)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return imports, nil
}

// scanFileImports adds the top-level module of every import statement
// in the file to the set.
func scanFileImports(path string, imports map[string]bool) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := fromLineRE.FindStringSubmatch(line); m != nil {
			addModule(imports, m[1])
			continue
		}
		if m := importLineRE.FindStringSubmatch(line); m != nil {
			// "import a.b as x, c" names several modules.
			for _, part := range strings.Split(m[1], ",") {
				if name := moduleNameRE.FindString(strings.TrimSpace(part)); name != "" {
					addModule(imports, name)
				}
			}
		}
	}
}

func addModule(imports map[string]bool, dotted string) {
	top, _, _ := strings.Cut(dotted, ".")
	if top != "" {
		imports[top] = true
	}
}
