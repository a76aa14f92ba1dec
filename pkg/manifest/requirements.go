package manifest

import (
	"bufio"
	"os"
	"strings"

	"github.com/matzehuels/pkgsizer/pkg/errors"
)

// RequirementsParser handles requirements.txt and pip-tools output.
type RequirementsParser struct{}

// Parse reads one specifier per line, skipping comments, blank lines,
// pip options and URL references.
func (p *RequirementsParser) Parse(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "cannot read %s", path)
	}
	defer f.Close()

	var packages []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if strings.HasPrefix(line, "http") {
			continue
		}
		if name := specName(line); name != "" {
			packages = append(packages, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "failed reading %s", path)
	}
	return packages, nil
}
