package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	echartsopts "github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/display"
	"github.com/midbel/chartdeck/render"
)

type page interface {
	Render(io.Writer) error
}

// exportHTML writes an interactive ECharts page built from the geometry of
// the chart. Only a ready chart can be exported.
func exportHTML(w io.Writer, src Source) error {
	scene, ok := src.Scene()
	if !ok {
		return fmt.Errorf("html: %w", display.ErrNotReady)
	}
	var (
		base   = scene.Config.Common()
		global = globalOptions(scene, base)
		pg     page
	)
	switch g := scene.Geometry.(type) {
	case *chartdeck.Cartesian:
		pg = cartesianPage(g, global)
	case *chartdeck.Pie:
		pg = piePage(g, global)
	case *chartdeck.Heatmap:
		pg = heatmapPage(g, scene.Config, global)
	case *chartdeck.CyclePlot:
		pg = cyclePage(g, global)
	default:
		return fmt.Errorf("html: %T: %w", scene.Geometry, ErrUnsupported)
	}
	return pg.Render(w)
}

func globalOptions(scene render.Scene, base *config.Base) []charts.GlobalOpts {
	var (
		outer = scene.Geometry.Frame().Outer
		theme = types.ThemeWesteros
	)
	if scene.Options.Theme == config.ThemeDark {
		theme = types.ThemeChalk
	}
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(echartsopts.Initialization{
			PageTitle: base.Title,
			Theme:     theme,
			Width:     fmt.Sprintf("%.0fpx", outer.Width),
			Height:    fmt.Sprintf("%.0fpx", outer.Height),
		}),
		charts.WithTitleOpts(echartsopts.Title{
			Title: base.Title,
		}),
		charts.WithLegendOpts(echartsopts.Legend{
			Show: echartsopts.Bool(base.ShowLegend),
		}),
		charts.WithTooltipOpts(echartsopts.Tooltip{
			Show: echartsopts.Bool(base.ShowTooltip),
		}),
	}
}

func cartesianPage(g *chartdeck.Cartesian, global []charts.GlobalOpts) page {
	global = append(global,
		charts.WithXAxisOpts(echartsopts.XAxis{Name: g.X.Label}),
		charts.WithYAxisOpts(echartsopts.YAxis{Name: g.Y.Label}),
	)
	switch g.Kind {
	case config.Bar:
		bar := charts.NewBar()
		bar.SetGlobalOptions(global...)
		bar.SetXAxis(g.XDomain)
		for _, s := range g.Series {
			data := make([]echartsopts.BarData, 0, len(s.Bars))
			for _, b := range s.Bars {
				data = append(data, echartsopts.BarData{
					Name:  b.Label,
					Value: b.Value,
				})
			}
			opts := []charts.SeriesOpts{
				charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: s.Color}),
			}
			if g.Stacked {
				opts = append(opts, charts.WithBarChartOpts(echartsopts.BarChart{Stack: "total"}))
			}
			bar.AddSeries(s.Name, data, opts...)
		}
		if g.Horizontal {
			return bar.XYReversal()
		}
		return bar
	case config.Scatter:
		scatter := charts.NewScatter()
		scatter.SetGlobalOptions(global...)
		scatter.SetXAxis(g.XDomain)
		for _, s := range g.Series {
			data := make([]echartsopts.ScatterData, 0, len(s.Points))
			for _, p := range s.Points {
				data = append(data, echartsopts.ScatterData{
					Name:       p.Label,
					Value:      p.Value,
					SymbolSize: int(s.Radius * 2),
				})
			}
			scatter.AddSeries(s.Name, data, charts.WithItemStyleOpts(echartsopts.ItemStyle{
				Color: s.Color,
			}))
		}
		return scatter
	default:
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		line.SetXAxis(g.XDomain)
		for _, s := range g.Series {
			data := make([]echartsopts.LineData, 0, len(s.Points))
			for _, p := range s.Points {
				data = append(data, echartsopts.LineData{
					Name:  p.Label,
					Value: p.Value,
				})
			}
			opts := []charts.SeriesOpts{
				charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: s.Color}),
				charts.WithLineStyleOpts(echartsopts.LineStyle{
					Color: s.Color,
					Width: float32(s.Width),
					Type:  lineType(s.LineStyle),
				}),
				charts.WithLineChartOpts(echartsopts.LineChart{
					ShowSymbol: echartsopts.Bool(s.Shown),
				}),
			}
			if g.Kind == config.Area {
				opts = append(opts, charts.WithAreaStyleOpts(echartsopts.AreaStyle{
					Opacity: echartsopts.Float(float32(s.Opacity)),
				}))
				if g.Stacked {
					opts = append(opts, charts.WithLineChartOpts(echartsopts.LineChart{Stack: "total"}))
				}
			}
			line.AddSeries(s.Name, data, opts...)
		}
		return line
	}
}

func lineType(style config.LineStyle) string {
	if style == "" {
		return string(config.StyleSolid)
	}
	return string(style)
}

func piePage(g *chartdeck.Pie, global []charts.GlobalOpts) page {
	pie := charts.NewPie()
	pie.SetGlobalOptions(global...)

	data := make([]echartsopts.PieData, 0, len(g.Slices))
	for _, s := range g.Slices {
		data = append(data, echartsopts.PieData{
			Name:      s.Label,
			Value:     s.Value,
			ItemStyle: &echartsopts.ItemStyle{Color: s.Color},
		})
	}
	label := echartsopts.Label{
		Show:      echartsopts.Bool(g.ShowLabels),
		Formatter: "{b}",
	}
	if g.ShowPercentage {
		label.Formatter = "{b}: {d}%"
	}
	var radius any = "75%"
	if g.Inner > 0 && g.Outer > 0 {
		radius = []string{
			fmt.Sprintf("%.0f%%", 75*g.Inner/g.Outer),
			"75%",
		}
	}
	pie.AddSeries(string(g.Kind), data,
		charts.WithLabelOpts(label),
		charts.WithPieChartOpts(echartsopts.PieChart{Radius: radius}),
	)
	return pie
}

func heatmapPage(g *chartdeck.Heatmap, cfg config.Config, global []charts.GlobalOpts) page {
	var (
		xs   []string
		ys   []string
		seen = make(map[string]struct{})
	)
	add := func(list []string, key, prefix string) []string {
		if _, ok := seen[prefix+key]; ok {
			return list
		}
		seen[prefix+key] = struct{}{}
		return append(list, key)
	}
	for _, c := range g.Cells {
		xs = add(xs, c.Label, "x:")
		ys = add(ys, c.Name, "y:")
	}
	data := make([]echartsopts.HeatMapData, 0, len(g.Cells))
	for _, c := range g.Cells {
		data = append(data, echartsopts.HeatMapData{
			Value: [3]any{c.Label, c.Name, c.Value},
		})
	}
	scheme := chartdeck.GetScheme("")
	if c, ok := cfg.(*config.HeatmapConfig); ok {
		scheme = chartdeck.GetScheme(c.ColorScheme)
	}
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(append(global,
		charts.WithXAxisOpts(echartsopts.XAxis{
			Name: g.X.Label,
			Type: "category",
			Data: xs,
		}),
		charts.WithYAxisOpts(echartsopts.YAxis{
			Name: g.Y.Label,
			Type: "category",
			Data: ys,
		}),
		charts.WithVisualMapOpts(echartsopts.VisualMap{
			Calculable: echartsopts.Bool(true),
			Min:        float32(g.Min),
			Max:        float32(g.Max),
			InRange: &echartsopts.VisualMapInRange{
				Color: []string{scheme.At(0), scheme.At(0.5), scheme.At(1)},
			},
		}),
	)...)
	hm.SetXAxis(xs)
	hm.AddSeries("values", data, charts.WithLabelOpts(echartsopts.Label{
		Show: echartsopts.Bool(g.ShowValues),
	}))
	return hm
}

// cyclePage draws one line per cycle over the periods, each cycle with its
// mean as mark line when averages are shown.
func cyclePage(g *chartdeck.CyclePlot, global []charts.GlobalOpts) page {
	line := charts.NewLine()
	line.SetGlobalOptions(append(global,
		charts.WithXAxisOpts(echartsopts.XAxis{Name: g.X.Label}),
		charts.WithYAxisOpts(echartsopts.YAxis{Name: g.Y.Label}),
	)...)
	line.SetXAxis(g.Periods)
	for _, c := range g.Cycles {
		values := make(map[string]float64, len(c.Points))
		for _, p := range c.Points {
			values[p.Label] = p.Value
		}
		data := make([]echartsopts.LineData, 0, len(g.Periods))
		for _, per := range g.Periods {
			v, ok := values[per]
			if !ok {
				data = append(data, echartsopts.LineData{Name: per, Value: "-"})
				continue
			}
			data = append(data, echartsopts.LineData{Name: per, Value: v})
		}
		opts := []charts.SeriesOpts{
			charts.WithItemStyleOpts(echartsopts.ItemStyle{Color: c.Color}),
			charts.WithLineStyleOpts(echartsopts.LineStyle{
				Color: c.Color,
				Width: float32(g.Width),
			}),
		}
		if g.ShowAverage {
			opts = append(opts, charts.WithMarkLineNameTypeItemOpts(echartsopts.MarkLineNameTypeItem{
				Name: "mean",
				Type: "average",
			}))
		}
		line.AddSeries(c.Key, data, opts...)
	}
	return line
}
