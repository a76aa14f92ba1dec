package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pkgsizer/pkg/errors"
	"github.com/matzehuels/pkgsizer/pkg/report"
	"github.com/matzehuels/pkgsizer/pkg/scan"
	"github.com/matzehuels/pkgsizer/pkg/subpkg"
)

// Sort keys accepted by --sort.
const (
	sortBySize = "size"
	sortByName = "name"
)

// sortPackages orders packages in place by the given key. Size sorts
// descending, name ascending.
func sortPackages(packages []*scan.PackageResult, key string) error {
	switch key {
	case sortBySize, "":
		sort.SliceStable(packages, func(i, j int) bool {
			return packages[i].Size.Bytes > packages[j].Size.Bytes
		})
	case sortByName:
		sort.SliceStable(packages, func(i, j int) bool {
			return packages[i].Dist.Key() < packages[j].Dist.Key()
		})
	default:
		return errors.New(errors.ErrCodeInternal, "unknown sort key %q (use size or name)", key)
	}
	return nil
}

// packageTable renders the scan results as a bordered table. A top of
// zero shows every package.
func packageTable(results *scan.Results, top int) string {
	packages := results.Packages
	if top > 0 && top < len(packages) {
		packages = packages[:top]
	}

	rows := [][]string{}
	for _, p := range packages {
		name := p.Dist.Key()
		if p.Dist.Editable {
			name += " " + styleEditable.Render("(editable)")
		}

		direct := ""
		if p.Node != nil && p.Node.Direct {
			direct = iconSuccess
		}

		depth := ""
		if p.Node != nil {
			depth = strconv.Itoa(p.Node.Depth)
		}

		rows = append(rows, []string{
			name,
			p.Dist.Version,
			report.FormatBytes(p.Size.Bytes),
			strconv.Itoa(p.Size.Files),
			depth,
			direct,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Package", "Version", "Size", "Files", "Depth", "Direct").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 2:
				return StyleNumber
			case 3, 4, 5:
				return StyleDim
			default:
				return StyleValue
			}
		})

	return t.Render()
}

// printSubpackageTree prints one package's subpackage tree with sizes,
// largest subtree first at every level.
func printSubpackageTree(infos []*subpkg.Info) {
	for _, info := range infos {
		printTreeNode(info, 0)
	}
}

func printTreeNode(info *subpkg.Info, indent int) {
	prefix := strings.Repeat("  ", indent+1)
	name := info.Name
	if info.IsPackage {
		name += "/"
	}
	fmt.Println(prefix + StyleValue.Render(name) + " " + StyleDim.Render(report.FormatBytes(info.Size.Bytes)))

	children := append([]*subpkg.Info(nil), info.Children...)
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Size.Bytes > children[j].Size.Bytes
	})
	for _, child := range children {
		printTreeNode(child, indent+1)
	}
}

var sizeUnits = map[string]int64{
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// parseSizeThreshold parses a human size like "50MB" or "1.5GB" into
// bytes. A bare number is taken as bytes.
func parseSizeThreshold(s string) (int64, error) {
	trimmed := strings.TrimSpace(strings.ToUpper(s))
	if trimmed == "" {
		return 0, errors.New(errors.ErrCodeInternal, "empty size threshold")
	}

	unit := int64(1)
	number := trimmed
	for _, suffix := range []string{"TB", "GB", "MB", "KB", "B"} {
		if strings.HasSuffix(trimmed, suffix) {
			unit = sizeUnits[suffix]
			number = strings.TrimSpace(strings.TrimSuffix(trimmed, suffix))
			break
		}
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInternal, "invalid size threshold %q", s)
	}
	if value < 0 {
		return 0, errors.New(errors.ErrCodeInternal, "size threshold must be positive, got %q", s)
	}
	return int64(value * float64(unit)), nil
}

// formatDelta renders a signed byte delta with an explicit sign.
func formatDelta(delta int64) string {
	if delta < 0 {
		return "-" + report.FormatBytes(-delta)
	}
	return "+" + report.FormatBytes(delta)
}
