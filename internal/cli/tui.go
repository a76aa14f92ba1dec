package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pkgsizer/pkg/report"
	"github.com/matzehuels/pkgsizer/pkg/scan"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PackageListModel - Interactive package browsing
// =============================================================================

// PackageSelection holds the result of the package selection.
type PackageSelection struct {
	Package *scan.PackageResult
}

// PackageListModel is the bubbletea model for browsing scan results.
type PackageListModel struct {
	Packages []*scan.PackageResult
	Cursor   int
	Selected *PackageSelection
	Height   int
	Offset   int
}

// NewPackageListModel creates a new package list model.
func NewPackageListModel(packages []*scan.PackageResult) PackageListModel {
	return PackageListModel{
		Packages: packages,
		Cursor:   0,
		Height:   15,
		Offset:   0,
	}
}

func (m PackageListModel) Init() tea.Cmd {
	return nil
}

func (m PackageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Packages)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = &PackageSelection{Package: m.Packages[m.Cursor]}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PackageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Installed Packages"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ inspect  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Packages) {
		end = len(m.Packages)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Packages[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		editable := ""
		if p.Dist.Editable {
			editable = "✎"
		}

		depth := ""
		direct := ""
		if p.Node != nil {
			depth = strconv.Itoa(p.Node.Depth)
			if p.Node.Direct {
				direct = "✓"
			}
		}

		rows = append(rows, []string{
			cursor,
			p.Dist.Key(),
			p.Dist.Version,
			report.FormatBytes(p.Size.Bytes),
			depth,
			direct,
			editable,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Version", "Size", "Depth", "Direct", "Edit").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Packages) {
				return lipgloss.NewStyle()
			}
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if col >= 4 {
				base = base.Foreground(colorDim)
			}

			if isCurrent {
				if col < 4 {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Bold(true)
			}
			if col == 3 {
				return base.Foreground(colorWhite)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Packages))))

	return b.String()
}

// printPackageDetail prints the inspection view for a selected package.
func printPackageDetail(p *scan.PackageResult) {
	printNewline()
	fmt.Println(StyleTitle.Render(p.Dist.Key()) + " " + StyleDim.Render(p.Dist.Version))
	printKeyValue("Size", report.FormatBytes(p.Size.Bytes))
	printKeyValue("Files", strconv.Itoa(p.Size.Files))
	if p.Node != nil {
		printKeyValue("Depth", strconv.Itoa(p.Node.Depth))
		printKeyValue("Direct", strconv.FormatBool(p.Node.Direct))
	}
	if p.Dist.Location != "" {
		printKeyValue("Location", p.Dist.Location)
	}
	if p.Dist.Editable {
		printKeyValue("Editable", "yes")
		if p.Dist.EditableLocation != "" {
			printKeyValue("Source", p.Dist.EditableLocation)
		}
	}
	if len(p.Subpackages) > 0 {
		printNewline()
		printSubpackageTree(p.Subpackages)
	}
}
