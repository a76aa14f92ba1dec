// Package dist enumerates installed Python distributions from a
// site-packages directory.
//
// Each *.dist-info child contributes one Distribution, parsed from the
// standard metadata files: METADATA (name, version, Requires-Dist),
// top_level.txt (importable module names), RECORD (owned files), and
// direct_url.json / *.pth (editable install detection). Directories that
// fail to parse are skipped with a warning; only a missing or unreadable
// site-packages root is a hard error.
package dist

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/matzehuels/pkgsizer/pkg/errors"
)

// Distribution holds an installed package's metadata and file manifest.
// Created once per registry scan and read-only thereafter.
type Distribution struct {
	Name             string   // Canonical name from METADATA
	Version          string   // Version string from METADATA
	Location         string   // Path to the .dist-info directory
	Editable         bool     // True for editable (source-linked) installs
	EditableLocation string   // Source tree root for editable installs
	Requires         []string // Raw Requires-Dist specifiers, unevaluated
	TopLevel         []string // Importable top-level module names
	Files            []string // Absolute paths of owned files that exist
}

// Key returns the case-insensitive registry key for this distribution.
func (d *Distribution) Key() string { return NormalizeName(d.Name) }

var normalizeRE = regexp.MustCompile(`[-_.]+`)

// NormalizeName converts a package name to its canonical form following
// PEP 503: lowercase with runs of -, _ and . collapsed to a single hyphen.
func NormalizeName(name string) string {
	return normalizeRE.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// Enumerate scans a site-packages root and returns a mapping from
// normalized name to Distribution.
//
// Children are processed in sorted order so that duplicate names resolve
// deterministically (last wins). logf receives warnings for metadata
// directories that fail to parse; pass nil to discard them.
func Enumerate(root string, logf func(string, ...any)) (map[string]*Distribution, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEnvironmentNotFound, err, "cannot read site-packages at %s", root)
	}

	result := make(map[string]*Distribution)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), ".dist-info") {
			continue
		}
		infoDir := filepath.Join(root, entry.Name())
		d, err := parseDistInfo(root, infoDir)
		if err != nil {
			logf("skipping %s: %v", entry.Name(), err)
			continue
		}
		result[d.Key()] = d
	}
	return result, nil
}

func parseDistInfo(root, infoDir string) (*Distribution, error) {
	name, version, requires, err := parseMetadata(filepath.Join(infoDir, "METADATA"))
	if err != nil {
		return nil, err
	}

	d := &Distribution{
		Name:     name,
		Version:  version,
		Location: infoDir,
		Requires: requires,
	}

	d.TopLevel = readTopLevel(filepath.Join(infoDir, "top_level.txt"))
	d.Files = readRecord(root, filepath.Join(infoDir, "RECORD"))

	if editable, source := detectEditable(infoDir); editable {
		d.Editable = true
		d.EditableLocation = source
	}

	return d, nil
}

// parseMetadata extracts Name, Version and all Requires-Dist specifiers
// from a METADATA file. The first occurrence of Name and Version wins;
// parsing stops at the blank line separating headers from the body.
func parseMetadata(path string) (name, version string, requires []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "no METADATA file")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break // end of headers
		}
		switch {
		case strings.HasPrefix(line, "Name: "):
			if name == "" {
				name = strings.TrimSpace(line[len("Name: "):])
			}
		case strings.HasPrefix(line, "Version: "):
			if version == "" {
				version = strings.TrimSpace(line[len("Version: "):])
			}
		case strings.HasPrefix(line, "Requires-Dist: "):
			requires = append(requires, strings.TrimSpace(line[len("Requires-Dist: "):]))
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", nil, err
	}
	if name == "" || version == "" {
		return "", "", nil, errors.New(errors.ErrCodeInvalidInput, "METADATA missing Name or Version")
	}
	return name, version, requires, nil
}

// readTopLevel reads one module name per line; missing file means none.
func readTopLevel(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			names = append(names, line)
		}
	}
	return names
}

// readRecord parses the CSV RECORD manifest. The first field of each row
// is a path relative to the site-packages root; only rows whose resolved
// file still exists are kept.
func readRecord(root, path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var files []string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row - skip and keep reading.
			continue
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		full := filepath.Join(root, filepath.FromSlash(row[0]))
		if _, err := os.Stat(full); err == nil {
			files = append(files, full)
		}
	}
	return files
}
