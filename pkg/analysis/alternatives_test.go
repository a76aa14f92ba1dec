package analysis

import (
	"testing"

	"github.com/matzehuels/pkgsizer/pkg/errors"
)

func TestAlternativesNotFound(t *testing.T) {
	_, err := Alternatives(registryOf(nil), "ghost")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.GetCode(err) != errors.ErrCodePackageNotFound {
		t.Errorf("code = %s", errors.GetCode(err))
	}
}

func TestAlternativesMarksInstalled(t *testing.T) {
	registry := registryOf(map[string][]string{
		"flask":  nil,
		"bottle": nil,
	})

	result, err := Alternatives(registry, "flask")
	if err != nil {
		t.Fatalf("Alternatives: %v", err)
	}
	if len(result.Alternatives) == 0 {
		t.Fatal("flask should have known alternatives")
	}

	byName := map[string]AlternativeMatch{}
	for _, alt := range result.Alternatives {
		byName[alt.Name] = alt
	}

	if alt, ok := byName["bottle"]; !ok || !alt.Installed {
		t.Errorf("bottle is installed, got %+v", byName["bottle"])
	}
	if alt, ok := byName["fastapi"]; !ok || alt.Installed {
		t.Errorf("fastapi is not installed, got %+v", byName["fastapi"])
	}
}

func TestAlternativesNoneKnown(t *testing.T) {
	registry := registryOf(map[string][]string{"left-pad": nil})

	result, err := Alternatives(registry, "left-pad")
	if err != nil {
		t.Fatalf("Alternatives: %v", err)
	}
	if len(result.Alternatives) != 0 {
		t.Errorf("unexpected suggestions: %v", result.Alternatives)
	}
}

func TestAlternativesNormalizesTarget(t *testing.T) {
	registry := registryOf(map[string][]string{"flask": nil})

	result, err := Alternatives(registry, "Flask")
	if err != nil {
		t.Fatalf("Alternatives: %v", err)
	}
	if result.Package != "flask" {
		t.Errorf("package = %s", result.Package)
	}
}

func TestAllAlternatives(t *testing.T) {
	registry := registryOf(map[string][]string{
		"flask":    nil,
		"requests": nil,
		"left-pad": nil,
	})

	results := AllAlternatives(registry)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Package != "flask" || results[1].Package != "requests" {
		t.Errorf("unexpected order: %s, %s", results[0].Package, results[1].Package)
	}
}

func TestKnownAlternativesIsACopy(t *testing.T) {
	table := KnownAlternatives()
	if len(table) == 0 {
		t.Fatal("table should not be empty")
	}

	table["flask"][0].Name = "mutated"
	if alternativesDB["flask"][0].Name == "mutated" {
		t.Error("KnownAlternatives should not share backing arrays with the table")
	}
}

func TestAlternativesForUnknown(t *testing.T) {
	if alts := AlternativesFor("left-pad"); len(alts) != 0 {
		t.Errorf("unexpected alternatives: %v", alts)
	}
	if alts := AlternativesFor("Flask"); len(alts) == 0 {
		t.Error("lookup should normalize the name")
	}
}
