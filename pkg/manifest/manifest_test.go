package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/pkgsizer/pkg/errors"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRequirementsParser(t *testing.T) {
	path := writeTemp(t, "requirements.txt", `# comment
numpy>=1.20
requests==2.31.0  # inline comment
-r other.txt
--hash=sha256:abc

flask[async]~=3.0
https://example.com/pkg.whl
plainname
`)

	got, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"numpy", "requests", "flask", "plainname"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPoetryParser(t *testing.T) {
	path := writeTemp(t, "pyproject.toml", `[tool.poetry]
name = "demo"

[tool.poetry.dependencies]
python = "^3.11"
numpy = "^1.26"
requests = { version = "^2.31", extras = ["socks"] }

[tool.poetry.dev-dependencies]
pytest = "^8.0"

[tool.poetry.group.docs.dependencies]
sphinx = "^7.0"
numpy = "^1.26"
`)

	got, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"numpy", "requests", "pytest", "sphinx"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPyProjectParser(t *testing.T) {
	path := writeTemp(t, "pyproject.toml", `[project]
name = "demo"
dependencies = [
  "numpy>=1.20",
  "requests[socks]>=2.31",
]

[project.optional-dependencies]
dev = ["pytest>=8.0", "numpy>=1.20"]
`)

	got, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"numpy", "requests", "pytest"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestLockParser(t *testing.T) {
	content := `[[package]]
name = "numpy"
version = "1.26.4"

[[package]]
name = "requests"
version = "2.31.0"
`
	for _, name := range []string{"poetry.lock", "uv.lock"} {
		got, err := Parse(writeTemp(t, name, content))
		if err != nil {
			t.Fatalf("Parse(%s): %v", name, err)
		}
		want := []string{"numpy", "requests"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: got %v, want %v", name, got, want)
		}
	}
}

func TestCondaParser(t *testing.T) {
	path := writeTemp(t, "environment.yml", `name: demo
dependencies:
  - python=3.11
  - numpy=1.26.4
  - scipy>=1.10
  - pip:
      - requests>=2.31
      - flask
`)

	got, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"numpy", "scipy", "requests", "flask"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDetectUnsupported(t *testing.T) {
	_, err := Detect("Gemfile.lock")
	if errors.GetCode(err) != errors.ErrCodeInvalidManifest {
		t.Errorf("code = %s", errors.GetCode(err))
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "requirements.txt"))
	if err == nil {
		t.Fatal("expected error")
	}
}
