package analysis

import (
	"os"
	"path/filepath"
	"testing"
)

// writeDist adds a dist-info plus one owned payload file of the given
// size to a site-packages root.
func writeDist(t *testing.T, root, name, version string, size int) {
	t.Helper()
	infoDir := filepath.Join(root, name+"-"+version+".dist-info")
	if err := os.MkdirAll(infoDir, 0o755); err != nil {
		t.Fatal(err)
	}
	meta := "Name: " + name + "\nVersion: " + version + "\n"
	if err := os.WriteFile(filepath.Join(infoDir, "METADATA"), []byte(meta), 0o644); err != nil {
		t.Fatal(err)
	}
	payload := name + ".py"
	if err := os.WriteFile(filepath.Join(root, payload), make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(infoDir, "RECORD"), []byte(payload+",,\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCompare(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()

	writeDist(t, rootA, "shared", "1.0", 100)
	writeDist(t, rootA, "upgraded", "1.0", 200)
	writeDist(t, rootA, "removed", "1.0", 300)

	writeDist(t, rootB, "shared", "1.0", 100)
	writeDist(t, rootB, "upgraded", "2.0", 250)
	writeDist(t, rootB, "added", "1.0", 400)

	result, err := Compare(rootA, rootB, "before", "after", nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	if result.A.Name != "before" || result.B.Name != "after" {
		t.Errorf("names = %s/%s", result.A.Name, result.B.Name)
	}
	if result.A.Packages != 3 || result.B.Packages != 3 {
		t.Errorf("package counts = %d/%d", result.A.Packages, result.B.Packages)
	}
	if result.A.TotalBytes != 600 || result.B.TotalBytes != 750 {
		t.Errorf("totals = %d/%d, want 600/750", result.A.TotalBytes, result.B.TotalBytes)
	}
	if result.SizeDelta() != 150 {
		t.Errorf("SizeDelta = %d", result.SizeDelta())
	}

	if len(result.OnlyA) != 1 || result.OnlyA[0].Name != "removed" || result.OnlyA[0].Bytes != 300 {
		t.Errorf("OnlyA = %+v", result.OnlyA)
	}
	if len(result.OnlyB) != 1 || result.OnlyB[0].Name != "added" {
		t.Errorf("OnlyB = %+v", result.OnlyB)
	}
	if len(result.Same) != 1 || result.Same[0] != "shared" {
		t.Errorf("Same = %v", result.Same)
	}
	if len(result.Changed) != 1 {
		t.Fatalf("Changed = %+v", result.Changed)
	}
	diff := result.Changed[0]
	if diff.Name != "upgraded" || diff.VersionA != "1.0" || diff.VersionB != "2.0" || diff.Delta() != 50 {
		t.Errorf("diff = %+v", diff)
	}
}

func TestCompareDefaultNames(t *testing.T) {
	base := t.TempDir()
	rootA := filepath.Join(base, "env-a", "site-packages")
	rootB := filepath.Join(base, "env-b", "site-packages")
	for _, root := range []string{rootA, rootB} {
		if err := os.MkdirAll(root, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	result, err := Compare(rootA, rootB, "", "", nil)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if result.A.Name != "env-a" || result.B.Name != "env-b" {
		t.Errorf("default names = %s/%s", result.A.Name, result.B.Name)
	}
}

func TestCompareMissingRoot(t *testing.T) {
	if _, err := Compare(filepath.Join(t.TempDir(), "gone"), t.TempDir(), "", "", nil); err == nil {
		t.Fatal("expected error")
	}
}
