package dist

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// directURL mirrors the PEP 610 direct_url.json layout.
type directURL struct {
	URL     string `json:"url"`
	DirInfo struct {
		Editable bool `json:"editable"`
	} `json:"dir_info"`
}

// detectEditable reports whether the dist-info directory describes an
// editable install, and the source location if one can be determined.
//
// An install is editable if direct_url.json declares dir_info.editable,
// or if any *.pth file is present (legacy editable installs). The source
// location comes from the direct_url.json file:// URL, falling back to
// the first existing path listed in a .pth file.
func detectEditable(infoDir string) (bool, string) {
	if du := readDirectURL(filepath.Join(infoDir, "direct_url.json")); du != nil && du.DirInfo.Editable {
		return true, fileURLPath(du.URL)
	}

	pths, _ := filepath.Glob(filepath.Join(infoDir, "*.pth"))
	if len(pths) == 0 {
		return false, ""
	}
	for _, pth := range pths {
		if p := firstExistingPath(pth); p != "" {
			return true, p
		}
	}
	return true, ""
}

func readDirectURL(path string) *directURL {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var du directURL
	if err := json.Unmarshal(data, &du); err != nil {
		return nil
	}
	return &du
}

// fileURLPath strips the file:// scheme from a URL, returning the path.
// Non-file URLs yield empty.
func fileURLPath(url string) string {
	if rest, ok := strings.CutPrefix(url, "file://"); ok {
		return rest
	}
	return ""
}

// firstExistingPath returns the first non-comment line of a .pth file
// that names an existing path.
func firstExistingPath(pth string) string {
	f, err := os.Open(pth)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := os.Stat(line); err == nil {
			abs, err := filepath.Abs(line)
			if err != nil {
				return line
			}
			return abs
		}
	}
	return ""
}
