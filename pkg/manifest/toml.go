package manifest

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pkgsizer/pkg/errors"
)

// PoetryParser handles pyproject.toml files with a [tool.poetry]
// section.
type PoetryParser struct{}

type poetryFile struct {
	Tool struct {
		Poetry struct {
			Dependencies    map[string]any `toml:"dependencies"`
			DevDependencies map[string]any `toml:"dev-dependencies"`
			Group           map[string]struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"group"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// Parse collects main, legacy dev and group dependencies, dropping the
// python version constraint.
func (p *PoetryParser) Parse(path string) ([]string, error) {
	var file poetryFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "cannot parse %s", path)
	}

	poetry := file.Tool.Poetry
	seen := make(map[string]bool)
	var packages []string
	add := func(name string) {
		if strings.EqualFold(name, "python") || seen[name] {
			return
		}
		seen[name] = true
		packages = append(packages, name)
	}

	for _, name := range sortedKeys(poetry.Dependencies) {
		add(name)
	}
	for _, name := range sortedKeys(poetry.DevDependencies) {
		add(name)
	}
	for _, group := range sortedKeys(poetry.Group) {
		for _, name := range sortedKeys(poetry.Group[group].Dependencies) {
			add(name)
		}
	}
	return packages, nil
}

// PyProjectParser handles PEP 621 pyproject.toml files, including the
// layout uv projects use.
type PyProjectParser struct{}

type pyprojectFile struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
}

func (p *PyProjectParser) Parse(path string) ([]string, error) {
	var file pyprojectFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "cannot parse %s", path)
	}

	seen := make(map[string]bool)
	var packages []string
	add := func(spec string) {
		name := specName(spec)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		packages = append(packages, name)
	}

	for _, spec := range file.Project.Dependencies {
		add(spec)
	}
	for _, group := range sortedKeys(file.Project.OptionalDependencies) {
		for _, spec := range file.Project.OptionalDependencies[group] {
			add(spec)
		}
	}
	return packages, nil
}

// LockParser handles poetry.lock and uv.lock, which both list resolved
// packages as [[package]] tables.
type LockParser struct{}

type lockFile struct {
	Package []struct {
		Name string `toml:"name"`
	} `toml:"package"`
}

func (p *LockParser) Parse(path string) ([]string, error) {
	var file lockFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "cannot parse %s", path)
	}

	var packages []string
	for _, pkg := range file.Package {
		if pkg.Name != "" {
			packages = append(packages, pkg.Name)
		}
	}
	return packages, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
