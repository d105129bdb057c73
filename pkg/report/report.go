// Package report renders estimates as standalone HTML chart pages.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/chazu/mortar/pkg/estimate"
)

// Options controls the rendered page.
type Options struct {
	Title string
	// ByMaterial groups each wall's pie by material instead of by element.
	ByMaterial bool
}

// Render writes an HTML page with one cost-share pie per wall followed by a
// bar chart of wall totals. Credits such as volume-priced cuts do not get a
// slice.
func Render(w io.Writer, s *estimate.Summary, o Options) error {
	if s == nil {
		return fmt.Errorf("report: nil summary")
	}
	title := o.Title
	if title == "" {
		title = "Wall cost estimate"
	}

	page := components.NewPage()
	page.PageTitle = title

	for _, est := range s.Walls {
		page.AddCharts(wallPie(est, o.ByMaterial))
	}
	if len(s.Walls) > 1 {
		page.AddCharts(totalsBar(s))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("report: render: %w", err)
	}
	return nil
}

// Slice is one share of a wall's cost.
type Slice struct {
	Name string
	Cost float64
}

// Shares returns the positive cost shares of est, either per element or
// summed per material. Material shares are ordered by descending cost.
func Shares(est *estimate.Estimate, byMaterial bool) []Slice {
	if !byMaterial {
		var out []Slice
		for _, l := range est.Lines {
			if l.Cost > 0 {
				out = append(out, Slice{Name: l.Name, Cost: l.Cost})
			}
		}
		return out
	}

	sums := make(map[string]float64)
	for _, l := range est.Lines {
		if l.Cost > 0 {
			sums[l.Material] += l.Cost
		}
	}
	out := make([]Slice, 0, len(sums))
	for name, cost := range sums {
		out = append(out, Slice{Name: name, Cost: cost})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cost != out[j].Cost {
			return out[i].Cost > out[j].Cost
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func wallPie(est *estimate.Estimate, byMaterial bool) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    est.Wall,
			Subtitle: fmt.Sprintf("total %.2f", est.Total),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	shares := Shares(est, byMaterial)
	data := make([]opts.PieData, len(shares))
	for i, sh := range shares {
		data[i] = opts.PieData{Name: sh.Name, Value: sh.Cost}
	}
	pie.AddSeries("cost", data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"35%", "65%"}}),
	)
	return pie
}

func totalsBar(s *estimate.Summary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Wall totals",
			Subtitle: fmt.Sprintf("project total %.2f", s.Total),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	names := make([]string, len(s.Walls))
	data := make([]opts.BarData, len(s.Walls))
	for i, est := range s.Walls {
		names[i] = est.Wall
		data[i] = opts.BarData{Value: est.Total}
	}
	bar.SetXAxis(names).AddSeries("total", data)
	return bar
}
