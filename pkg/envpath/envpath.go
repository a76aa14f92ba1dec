// Package envpath locates the site-packages directory of a Python
// environment from a direct path, a virtualenv root or an interpreter.
package envpath

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/matzehuels/pkgsizer/pkg/errors"
)

// Options selects the environment to locate, in priority order:
// SitePackages wins over Venv, which wins over Python. When all are
// empty an interpreter from PATH is consulted.
type Options struct {
	SitePackages string // Direct path to a site-packages directory
	Venv         string // Virtualenv root; its lib layout is probed
	Python       string // Interpreter asked for its site-packages
}

// Locate resolves the site-packages directory for the environment
// described by opts. The returned path is absolute.
func Locate(ctx context.Context, opts Options) (string, error) {
	if opts.SitePackages != "" {
		fi, err := os.Stat(opts.SitePackages)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeEnvironmentNotFound, err, "site-packages path does not exist: %s", opts.SitePackages)
		}
		if !fi.IsDir() {
			return "", errors.New(errors.ErrCodeInvalidPath, "site-packages path is not a directory: %s", opts.SitePackages)
		}
		return filepath.Abs(opts.SitePackages)
	}

	if opts.Venv != "" {
		if _, err := os.Stat(opts.Venv); err != nil {
			return "", errors.Wrap(errors.ErrCodeEnvironmentNotFound, err, "virtual environment does not exist: %s", opts.Venv)
		}
		if path := venvSitePackages(opts.Venv); path != "" {
			return filepath.Abs(path)
		}
		return "", errors.New(errors.ErrCodeEnvironmentNotFound, "no site-packages found in virtual environment %s", opts.Venv)
	}

	python := opts.Python
	if python == "" {
		for _, candidate := range []string{"python3", "python"} {
			if found, err := exec.LookPath(candidate); err == nil {
				python = found
				break
			}
		}
		if python == "" {
			return "", errors.New(errors.ErrCodeEnvironmentNotFound, "no Python interpreter found on PATH")
		}
	} else if _, err := os.Stat(python); err != nil {
		return "", errors.Wrap(errors.ErrCodeEnvironmentNotFound, err, "Python interpreter does not exist: %s", python)
	}

	return interpreterSitePackages(ctx, python)
}

// venvSitePackages probes the POSIX lib/pythonX.Y/site-packages layout
// and the Windows Lib/site-packages layout.
func venvSitePackages(venv string) string {
	matches, _ := filepath.Glob(filepath.Join(venv, "lib", "python*", "site-packages"))
	sort.Strings(matches)
	for _, match := range matches {
		if fi, err := os.Stat(match); err == nil && fi.IsDir() {
			return match
		}
	}
	win := filepath.Join(venv, "Lib", "site-packages")
	if fi, err := os.Stat(win); err == nil && fi.IsDir() {
		return win
	}
	return ""
}

// interpreterSitePackages asks the interpreter itself where its
// site-packages lives.
func interpreterSitePackages(ctx context.Context, python string) (string, error) {
	cmd := exec.CommandContext(ctx, python, "-c", "import site; print(site.getsitepackages()[0])")
	out, err := cmd.Output()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeEnvironmentNotFound, err, "failed to query site-packages from %s", python)
	}
	path := strings.TrimSpace(string(out))
	fi, err := os.Stat(path)
	if err != nil || !fi.IsDir() {
		return "", errors.New(errors.ErrCodeEnvironmentNotFound, "interpreter reported invalid site-packages: %s", path)
	}
	return filepath.Abs(path)
}

var pythonDirRE = regexp.MustCompile(`python(\d+\.\d+)`)

// PythonVersion derives the X.Y interpreter version from a
// site-packages path such as .../lib/python3.12/site-packages. Returns
// empty when the path encodes no version.
func PythonVersion(sitePackages string) string {
	if m := pythonDirRE.FindStringSubmatch(sitePackages); m != nil {
		return m[1]
	}
	return ""
}
