package envpath

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/pkgsizer/pkg/errors"
)

func TestLocateDirectPath(t *testing.T) {
	dir := t.TempDir()
	got, err := Locate(context.Background(), Options{SitePackages: dir})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("path %s not absolute", got)
	}
}

func TestLocateDirectPathMissing(t *testing.T) {
	_, err := Locate(context.Background(), Options{SitePackages: filepath.Join(t.TempDir(), "gone")})
	if errors.GetCode(err) != errors.ErrCodeEnvironmentNotFound {
		t.Errorf("code = %s", errors.GetCode(err))
	}
}

func TestLocateDirectPathNotDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Locate(context.Background(), Options{SitePackages: file})
	if errors.GetCode(err) != errors.ErrCodeInvalidPath {
		t.Errorf("code = %s", errors.GetCode(err))
	}
}

func TestLocateVenvPosixLayout(t *testing.T) {
	venv := t.TempDir()
	site := filepath.Join(venv, "lib", "python3.12", "site-packages")
	if err := os.MkdirAll(site, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Locate(context.Background(), Options{Venv: venv})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if filepath.Base(filepath.Dir(got)) != "python3.12" {
		t.Errorf("got %s", got)
	}
}

func TestLocateVenvWindowsLayout(t *testing.T) {
	venv := t.TempDir()
	site := filepath.Join(venv, "Lib", "site-packages")
	if err := os.MkdirAll(site, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Locate(context.Background(), Options{Venv: venv})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if filepath.Base(got) != "site-packages" {
		t.Errorf("got %s", got)
	}
}

func TestLocateVenvWithoutSitePackages(t *testing.T) {
	_, err := Locate(context.Background(), Options{Venv: t.TempDir()})
	if errors.GetCode(err) != errors.ErrCodeEnvironmentNotFound {
		t.Errorf("code = %s", errors.GetCode(err))
	}
}

func TestPythonVersion(t *testing.T) {
	tests := []struct{ path, want string }{
		{"/venv/lib/python3.12/site-packages", "3.12"},
		{"/venv/lib/python3.9/site-packages", "3.9"},
		{`C:\venv\Lib\site-packages`, ""},
		{"/plain/site-packages", ""},
	}
	for _, tt := range tests {
		if got := PythonVersion(tt.path); got != tt.want {
			t.Errorf("PythonVersion(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
