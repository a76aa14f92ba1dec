package manifest

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pkgsizer/pkg/errors"
)

// CondaParser handles conda environment.yml files.
type CondaParser struct{}

type condaFile struct {
	Dependencies []any `yaml:"dependencies"`
}

// Parse collects conda package specifiers plus any nested pip list,
// dropping the python entry itself.
func (p *CondaParser) Parse(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "cannot read %s", path)
	}

	var file condaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "cannot parse %s", path)
	}

	seen := make(map[string]bool)
	var packages []string
	add := func(spec string) {
		name := condaSpecName(spec)
		if name == "" || strings.EqualFold(name, "python") || seen[name] {
			return
		}
		seen[name] = true
		packages = append(packages, name)
	}

	for _, dep := range file.Dependencies {
		switch v := dep.(type) {
		case string:
			add(v)
		case map[string]any:
			// Nested pip section: {pip: [specs...]}.
			if pip, ok := v["pip"].([]any); ok {
				for _, entry := range pip {
					if spec, ok := entry.(string); ok {
						add(spec)
					}
				}
			}
		}
	}
	return packages, nil
}

// condaSpecName strips conda's single-equals version pins ("numpy=1.20")
// as well as the usual comparison operators.
func condaSpecName(spec string) string {
	spec = strings.TrimSpace(spec)
	if idx := strings.IndexAny(spec, "=<>!~"); idx >= 0 {
		spec = spec[:idx]
	}
	return specName(spec)
}
