package scan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// fakeEnv builds a site-packages root with two distributions:
// alpha 1.0 (depends on beta, owns alpha/ with 300 bytes) and
// beta 2.0 (no deps, owns beta.py with 50 bytes).
func fakeEnv(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	write := func(rel, content string) {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeN := func(rel string, size int) {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, make([]byte, size), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("alpha-1.0.dist-info/METADATA", "Name: alpha\nVersion: 1.0\nRequires-Dist: beta\n")
	write("alpha-1.0.dist-info/top_level.txt", "alpha\n")
	write("alpha-1.0.dist-info/RECORD", "alpha/__init__.py,,\nalpha/big.py,,\n")
	writeN("alpha/__init__.py", 100)
	writeN("alpha/big.py", 200)

	write("beta-2.0.dist-info/METADATA", "Name: beta\nVersion: 2.0\n")
	write("beta-2.0.dist-info/top_level.txt", "beta\n")
	write("beta-2.0.dist-info/RECORD", "beta.py,,\n")
	writeN("beta.py", 50)

	return root
}

func TestScan(t *testing.T) {
	root := fakeEnv(t)

	results, err := Scan(root, Options{MaxDepth: Unlimited, ModuleDepth: Unlimited})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if results.ID == "" {
		t.Error("scan ID should be set")
	}
	if results.Root != root {
		t.Errorf("Root = %s", results.Root)
	}
	if len(results.Packages) != 2 {
		t.Fatalf("got %d packages, want 2", len(results.Packages))
	}

	// Sorted by name: alpha then beta.
	alpha, beta := results.Packages[0], results.Packages[1]
	if alpha.Dist.Name != "alpha" || beta.Dist.Name != "beta" {
		t.Fatalf("order = %s, %s", alpha.Dist.Name, beta.Dist.Name)
	}
	if alpha.Size.Bytes != 300 || alpha.Size.Files != 2 {
		t.Errorf("alpha size = %d/%d, want 300/2", alpha.Size.Bytes, alpha.Size.Files)
	}
	if beta.Size.Bytes != 50 || beta.Size.Files != 1 {
		t.Errorf("beta size = %d/%d, want 50/1", beta.Size.Bytes, beta.Size.Files)
	}
	if results.TotalBytes != 350 || results.TotalFiles != 3 {
		t.Errorf("totals = %d/%d, want 350/3", results.TotalBytes, results.TotalFiles)
	}

	// No targets: everything is a root.
	if !alpha.Node.Direct || alpha.Node.Depth != 0 {
		t.Errorf("alpha node = %+v", alpha.Node)
	}
	if len(alpha.Subpackages) != 1 || alpha.Subpackages[0].QualifiedName != "alpha" {
		t.Errorf("alpha subpackages = %+v", alpha.Subpackages)
	}
}

func TestScanTargets(t *testing.T) {
	root := fakeEnv(t)

	results, err := Scan(root, Options{MaxDepth: Unlimited, Targets: []string{"alpha"}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results.Packages) != 2 {
		t.Fatalf("got %d packages, want alpha plus its dependency", len(results.Packages))
	}
	beta := results.Packages[1]
	if beta.Node.Depth != 1 || beta.Node.Direct {
		t.Errorf("beta node = %+v, want transitive at depth 1", beta.Node)
	}
}

func TestScanTargetsDepthZero(t *testing.T) {
	root := fakeEnv(t)

	results, err := Scan(root, Options{Targets: []string{"alpha"}})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results.Packages) != 1 || results.Packages[0].Dist.Name != "alpha" {
		t.Errorf("depth 0 should keep roots only: %+v", results.Packages)
	}
}

func TestScanNoSubpackagesByDefault(t *testing.T) {
	root := fakeEnv(t)

	results, err := Scan(root, Options{MaxDepth: Unlimited})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	for _, p := range results.Packages {
		if len(p.Subpackages) != 0 {
			t.Errorf("%s has subpackages with ModuleDepth 0", p.Dist.Name)
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.MaxDepth != Unlimited {
		t.Errorf("MaxDepth = %d, want Unlimited", opts.MaxDepth)
	}
	if opts.Editable != EditableMark {
		t.Errorf("Editable = %q, want %q", opts.Editable, EditableMark)
	}

	// The zero value stops at the roots; the defaults must not.
	results, err := Scan(fakeEnv(t), opts)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results.Packages) != 2 {
		t.Fatalf("got %d packages, want transitive beta included", len(results.Packages))
	}
}

func TestScanMissingRoot(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "gone"), Options{}); err == nil {
		t.Fatal("expected error for missing site-packages root")
	}
}

func TestScanEmptyEnvironment(t *testing.T) {
	results, err := Scan(t.TempDir(), Options{MaxDepth: Unlimited})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results.Packages) != 0 || results.TotalBytes != 0 {
		t.Errorf("empty environment should yield empty results: %+v", results)
	}
}

func TestToJSON(t *testing.T) {
	root := fakeEnv(t)

	results, err := Scan(root, Options{MaxDepth: Unlimited, ModuleDepth: Unlimited})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	data, err := results.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["version"] != SchemaVersion {
		t.Errorf("version = %v", decoded["version"])
	}
	if decoded["package_count"].(float64) != 2 {
		t.Errorf("package_count = %v", decoded["package_count"])
	}
	if decoded["total_size_bytes"].(float64) != 350 {
		t.Errorf("total_size_bytes = %v", decoded["total_size_bytes"])
	}
	pkgs := decoded["packages"].([]any)
	first := pkgs[0].(map[string]any)
	if first["name"] != "alpha" || first["direct"] != true {
		t.Errorf("first package = %v", first)
	}
	if _, ok := first["subpackages"]; !ok {
		t.Error("alpha should carry subpackage trees")
	}
}
