// Package manifest parses dependency declaration files into package
// name lists. Supported dialects: requirements.txt, Poetry and PEP 621
// pyproject.toml, poetry.lock, uv.lock and conda environment.yml.
package manifest

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/pkgsizer/pkg/errors"
)

// Parser extracts the declared package names from one dependency-file
// dialect.
type Parser interface {
	Parse(path string) ([]string, error)
}

var specNameRE = regexp.MustCompile(`^[A-Za-z0-9][-A-Za-z0-9._]*`)

// specName pulls the bare package name off the front of a dependency
// specifier such as "numpy>=1.20" or "requests[socks]".
func specName(spec string) string {
	return specNameRE.FindString(strings.TrimSpace(spec))
}

// Detect picks a parser for the given file based on its name and, for
// pyproject.toml, its content. Returns ErrCodeInvalidManifest for
// unsupported formats.
func Detect(path string) (Parser, error) {
	name := strings.ToLower(filepath.Base(path))

	switch {
	case strings.Contains(name, "requirements") || strings.HasSuffix(name, ".txt"):
		return &RequirementsParser{}, nil
	case name == "poetry.lock":
		return &LockParser{}, nil
	case name == "uv.lock":
		return &LockParser{}, nil
	case name == "environment.yml" || name == "environment.yaml":
		return &CondaParser{}, nil
	case name == "pyproject.toml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "cannot read %s", path)
		}
		if strings.Contains(string(data), "[tool.poetry]") {
			return &PoetryParser{}, nil
		}
		return &PyProjectParser{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidManifest, "unsupported dependency file format: %s", path)
}

// Parse detects the dialect of path and returns its package names.
func Parse(path string) ([]string, error) {
	parser, err := Detect(path)
	if err != nil {
		return nil, err
	}
	return parser.Parse(path)
}
