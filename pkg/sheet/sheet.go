// Package sheet reads wall layouts from spreadsheets and writes estimate
// workbooks.
//
// A layout sheet has a header row naming its columns. Recognized columns
// (case-insensitive, any order) are:
//
//	wall name kind material side x1 y1 z1 x2 y2 z2 price
//
// name, material and the six coordinates are required. kind defaults to
// "layer", side to "front" and wall to the sheet name. price is only read
// for windows and doors; empty means the material price. Rows sharing a
// wall name form one wall, in order of first appearance.
//
// A workbook may also carry a sheet named "Materials" with the columns
// name, price and unit. Its entries override the catalog for that workbook
// only, which makes layouts written by WriteProject self-contained.
package sheet

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/chazu/mortar/pkg/catalog"
	"github.com/chazu/mortar/pkg/project"
	"github.com/chazu/mortar/pkg/wall"
)

// Columns is the header written by WriteProject.
var Columns = []string{"wall", "name", "kind", "material", "side", "x1", "y1", "z1", "x2", "y2", "z2", "price"}

var required = []string{"name", "material", "x1", "y1", "z1", "x2", "y2", "z2"}

const materialsSheet = "Materials"

// ReadFile opens a workbook and reads its first sheet.
func ReadFile(path string, cat *catalog.Catalog) (*project.Project, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Read(fh, cat)
}

// Read parses the first sheet of a workbook into a project. Materials are
// resolved against cat; nil means catalog.Default.
func Read(r io.Reader, cat *catalog.Catalog) (*project.Project, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("sheet: open: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet: %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet: %s: no header row", sheetName)
	}

	cols, err := header(sheetName, rows[0], required)
	if err != nil {
		return nil, err
	}

	local, err := materials(f, sheetName, cat)
	if err != nil {
		return nil, err
	}
	p := project.New(local)
	var order []string
	elements := make(map[string][]wall.Element)

	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rowNum := i + 2
		rec := record{row: row, cols: cols}

		wallName := rec.get("wall")
		if wallName == "" {
			wallName = sheetName
		}
		e, err := rec.element(p.Catalog)
		if err != nil {
			return nil, fmt.Errorf("sheet: %s row %d: %w", sheetName, rowNum, err)
		}
		if _, seen := elements[wallName]; !seen {
			order = append(order, wallName)
		}
		elements[wallName] = append(elements[wallName], e)
	}

	for _, name := range order {
		w, err := wall.NewWall(name, elements[name]...)
		if err != nil {
			return nil, fmt.Errorf("sheet: %w", err)
		}
		if err := p.AddWall(w); err != nil {
			return nil, fmt.Errorf("sheet: %w", err)
		}
	}
	return p, nil
}

func header(sheetName string, row []string, need []string) (map[string]int, error) {
	cols := make(map[string]int)
	for i, h := range row {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range need {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("sheet: %s: missing column %q", sheetName, c)
		}
	}
	return cols, nil
}

// materials returns a private copy of base extended with the entries of the
// Materials sheet, if the workbook has one besides the layout sheet.
func materials(f *excelize.File, layout string, base *catalog.Catalog) (*catalog.Catalog, error) {
	if base == nil {
		base = catalog.Default()
	}
	local := catalog.New()
	local.Merge(base)

	var name string
	for _, s := range f.GetSheetList() {
		if s != layout && strings.EqualFold(s, materialsSheet) {
			name = s
		}
	}
	if name == "" {
		return local, nil
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("sheet: %s: %w", name, err)
	}
	if len(rows) == 0 {
		return local, nil
	}
	cols, err := header(name, rows[0], []string{"name", "price", "unit"})
	if err != nil {
		return nil, err
	}
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := record{row: row, cols: cols}
		price, err := strconv.ParseFloat(rec.get("price"), 64)
		if err != nil {
			return nil, fmt.Errorf("sheet: %s row %d: price %q is not a number", name, i+2, rec.get("price"))
		}
		unit, err := wall.ParseQuantity(rec.get("unit"))
		if err != nil {
			return nil, fmt.Errorf("sheet: %s row %d: %w", name, i+2, err)
		}
		if err := local.Add(wall.Material{Name: rec.get("name"), Price: price, Unit: unit}); err != nil {
			return nil, fmt.Errorf("sheet: %s row %d: %w", name, i+2, err)
		}
	}
	return local, nil
}

type record struct {
	row  []string
	cols map[string]int
}

func (r record) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.row) {
		return ""
	}
	return strings.TrimSpace(r.row[i])
}

func (r record) whole(col string) (int, error) {
	v := r.get(col)
	if v == "" {
		return 0, fmt.Errorf("%s is empty", col)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Spreadsheets often store whole numbers as floats.
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, fmt.Errorf("%s: %q is not a whole number", col, v)
		}
		n = int(f)
	}
	return n, nil
}

func (r record) element(cat *catalog.Catalog) (wall.Element, error) {
	name := r.get("name")
	if name == "" {
		return nil, fmt.Errorf("name is empty")
	}
	m, err := cat.Lookup(r.get("material"))
	if err != nil {
		return nil, err
	}

	side := wall.SideFront
	if s := r.get("side"); s != "" {
		if side, err = wall.ParseSide(s); err != nil {
			return nil, err
		}
	}

	var v [6]int
	for i, c := range []string{"x1", "y1", "z1", "x2", "y2", "z2"} {
		if v[i], err = r.whole(c); err != nil {
			return nil, err
		}
	}
	coords, err := wall.NewCoordSet(v[0], v[1], v[2], v[3], v[4], v[5])
	if err != nil {
		return nil, err
	}

	price := m.Price
	if s := r.get("price"); s != "" {
		if price, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, fmt.Errorf("price: %q is not a number", s)
		}
	}

	switch kind := strings.ToLower(r.get("kind")); kind {
	case "", "layer":
		return wall.NewLayer(name, m, side, nil, coords)
	case "cut":
		return wall.NewCut(name, m, side, nil, coords)
	case "window":
		return wall.NewWindow(name, m, side, nil, coords, price)
	case "door":
		return wall.NewDoor(name, m, side, nil, coords, price)
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteProject writes every element of p as one row of a layout sheet that
// Read accepts, plus a Materials sheet listing every material used.
// Connections are not part of the layout format.
func WriteProject(w io.Writer, p *project.Project) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Layers"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("sheet: %w", err)
	}
	if err := writeRow(f, sheetName, 1, toAny(Columns)); err != nil {
		return err
	}

	row := 2
	used := catalog.New()
	for _, wl := range p.Walls() {
		for _, e := range wl.Layers() {
			if err := used.Add(e.Material()); err != nil {
				return fmt.Errorf("sheet: %s: %w", e.Name(), err)
			}
			v := e.Coords().Values()
			var price any
			if o, ok := e.(*wall.Opening); ok && o.Kind() != wall.KindCut {
				price = o.UnitPrice()
			}
			cells := []any{
				wl.Name(), e.Name(), e.Kind().String(), e.Material().Name, e.Exterior().String(),
				v[0], v[1], v[2], v[3], v[4], v[5], price,
			}
			if err := writeRow(f, sheetName, row, cells); err != nil {
				return err
			}
			row++
		}
	}

	if _, err := f.NewSheet(materialsSheet); err != nil {
		return fmt.Errorf("sheet: %w", err)
	}
	if err := writeRow(f, materialsSheet, 1, []any{"name", "price", "unit"}); err != nil {
		return err
	}
	for i, m := range used.Materials() {
		if err := writeRow(f, materialsSheet, i+2, []any{m.Name, m.Price, m.Unit.String()}); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("sheet: write: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheetName string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("sheet: %s row %d: %w", sheetName, row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
