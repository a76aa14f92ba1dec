package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pkgsizer/pkg/dist"
	"github.com/matzehuels/pkgsizer/pkg/scan"
	"github.com/matzehuels/pkgsizer/pkg/sizing"
)

func testListModel() PackageListModel {
	packages := []*scan.PackageResult{
		{Dist: &dist.Distribution{Name: "alpha", Version: "1.0"}, Size: sizing.SizeInfo{Bytes: 100}},
		{Dist: &dist.Distribution{Name: "beta", Version: "2.0"}, Size: sizing.SizeInfo{Bytes: 200}},
		{Dist: &dist.Distribution{Name: "gamma", Version: "3.0"}, Size: sizing.SizeInfo{Bytes: 300}},
	}
	return NewPackageListModel(packages)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestPackageListNavigation(t *testing.T) {
	m := testListModel()

	next, _ := m.Update(keyMsg("down"))
	m = next.(PackageListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", m.Cursor)
	}

	next, _ = m.Update(keyMsg("up"))
	m = next.(PackageListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after up, want 0", m.Cursor)
	}

	// Cursor clamps at the top.
	next, _ = m.Update(keyMsg("up"))
	m = next.(PackageListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, should clamp at 0", m.Cursor)
	}
}

func TestPackageListSelect(t *testing.T) {
	m := testListModel()

	next, _ := m.Update(keyMsg("down"))
	m = next.(PackageListModel)
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(PackageListModel)

	if m.Selected == nil {
		t.Fatal("enter should select the package under the cursor")
	}
	if m.Selected.Package.Dist.Name != "beta" {
		t.Errorf("selected %s, want beta", m.Selected.Package.Dist.Name)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestPackageListQuit(t *testing.T) {
	m := testListModel()
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestPackageListView(t *testing.T) {
	m := testListModel()
	view := m.View()

	for _, want := range []string{"alpha", "beta", "gamma", "Installed Packages"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
