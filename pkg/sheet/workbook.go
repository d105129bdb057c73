package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/chazu/mortar/pkg/estimate"
)

const summarySheet = "Summary"

var lineHeader = []any{"name", "kind", "material", "unit", "quantity", "unit price", "cost", "volume", "length", "width", "height"}

// WriteEstimate writes a workbook with a summary sheet listing every wall's
// total followed by one sheet per wall with its itemized lines.
func WriteEstimate(w io.Writer, s *estimate.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("sheet: style: %w", err)
	}

	if err := writeRow(f, summarySheet, 1, []any{"wall", "volume", "total"}); err != nil {
		return err
	}
	row := 2
	used := map[string]bool{strings.ToLower(summarySheet): true}
	for _, est := range s.Walls {
		if err := writeRow(f, summarySheet, row, []any{est.Wall, est.Volume, est.Total}); err != nil {
			return err
		}
		row++

		name := sheetNameFor(est.Wall, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("sheet: %s: %w", name, err)
		}
		if err := writeLines(f, name, est); err != nil {
			return err
		}
		if err := f.SetRowStyle(name, 1, 1, bold); err != nil {
			return fmt.Errorf("sheet: %s: %w", name, err)
		}
	}
	if err := writeRow(f, summarySheet, row, []any{"total", nil, s.Total}); err != nil {
		return err
	}
	if err := f.SetRowStyle(summarySheet, 1, 1, bold); err != nil {
		return fmt.Errorf("sheet: %w", err)
	}
	if err := f.SetRowStyle(summarySheet, row, row, bold); err != nil {
		return fmt.Errorf("sheet: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return fmt.Errorf("sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("sheet: write: %w", err)
	}
	return nil
}

func writeLines(f *excelize.File, name string, est *estimate.Estimate) error {
	if err := writeRow(f, name, 1, lineHeader); err != nil {
		return err
	}
	row := 2
	for _, l := range est.Lines {
		cells := []any{l.Name, l.Kind, l.Material, l.Unit, l.Quantity, l.UnitPrice, l.Cost, l.Volume, l.Length, l.Width, l.Height}
		if err := writeRow(f, name, row, cells); err != nil {
			return err
		}
		row++
	}
	return writeRow(f, name, row, []any{"total", nil, nil, nil, nil, nil, est.Total, est.Volume})
}

// sheetNameFor returns a unique worksheet name derived from a wall name.
// Worksheet names are at most 31 characters and cannot contain []:*?/\.
func sheetNameFor(wallName string, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, wallName)
	if base == "" {
		base = "wall"
	}
	base = truncate(base, 31)

	name := base
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf("~%d", i)
		name = truncate(base, 31-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
