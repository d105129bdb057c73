package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/chazu/mortar/pkg/estimate"
	"github.com/chazu/mortar/pkg/wall"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
	styleValue  = lipgloss.NewStyle().Foreground(colorWhite)
	styleTotal  = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleCell   = lipgloss.NewStyle().Padding(0, 1)
)

const iconArrow = "→"

// newTable returns a rounded table whose columns from numericFrom onwards
// are right-aligned.
func newTable(numericFrom int, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col >= numericFrom {
				return styleCell.Align(lipgloss.Right)
			}
			return styleCell
		})
}

// printEstimate renders one wall's lines and totals.
func printEstimate(w io.Writer, est *estimate.Estimate) {
	t := newTable(3, "Element", "Kind", "Material", "Quantity", "Unit price", "Cost")
	for _, l := range est.Lines {
		t.Row(l.Name, l.Kind, l.Material,
			fmt.Sprintf("%.2f %s", l.Quantity, l.Unit),
			money(l.UnitPrice),
			money(l.Cost),
		)
	}

	fmt.Fprintln(w, styleTitle.Render(est.Wall))
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("  volume %d · dimensions %d x %d x %d · box %v",
		est.Volume, est.Length, est.Width, est.Height, est.Coords)))
	if est.ConnectionVolume > 0 {
		fmt.Fprintln(w, styleDim.Render(fmt.Sprintf("  connections share %d", est.ConnectionVolume)))
	}
	if len(est.Lines) > 0 && est.Lines[0].Scaled != nil {
		var parts []string
		for _, l := range est.Lines {
			parts = append(parts, fmt.Sprintf("%s %d x %d x %d", l.Name, l.Scaled[0], l.Scaled[1], l.Scaled[2]))
		}
		fmt.Fprintln(w, styleDim.Render("  scaled: "+strings.Join(parts, ", ")))
	}
	fmt.Fprintln(w, "  "+styleTotal.Render("total "+money(est.Total)))
	fmt.Fprintln(w)
}

// printSummary renders every wall followed by the grand total.
func printSummary(w io.Writer, s *estimate.Summary) {
	for _, est := range s.Walls {
		printEstimate(w, est)
	}
	fmt.Fprintln(w, styleTotal.Render(fmt.Sprintf("Project total %s (%d walls)", money(s.Total), len(s.Walls))))
}

// printMaterials renders a catalog listing.
func printMaterials(w io.Writer, materials []wall.Material) {
	t := newTable(2, "Material", "Unit", "Price")
	for _, m := range materials {
		t.Row(m.Name, m.Unit.String(), money(m.Price))
	}
	fmt.Fprintln(w, t.Render())
}

// printFile prints a written file path.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
