package chartdeck

import (
	"fmt"

	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/svg"
)

// Mark is a data point as drawn on the chart. Marks are the targets of hover
// interactions.
type Mark struct {
	ID      string
	Series  string
	Name    string
	Label   string
	Value   float64
	Percent float64
	Pos     svg.Pos
	Color   string
}

// Geometry is the result of laying out a chart. It is implemented by
// *Cartesian, *Pie, *Heatmap and *CyclePlot.
type Geometry interface {
	Type() config.ChartType
	Frame() Layout
	Marks() []Mark
}

// Compute lays out the chart described by cfg. Charts that can not be drawn
// give a *CannotRenderError, columns that should be numeric and are not give
// a *dataset.ColumnError.
func Compute(cfg config.Config, rows []dataset.Point, size Size, opts Options) (Geometry, error) {
	switch c := cfg.(type) {
	case *config.LineConfig:
		spec := cartesianSpec{
			typ:         config.Line,
			base:        &c.Base,
			xstart:      c.XAxisStart,
			ystart:      c.YAxisStart,
			curve:       c.Curve,
			lineWidth:   c.LineWidth,
			showPoints:  c.ShowPoints,
			pointRadius: c.PointRadius,
			disabled:    c.DisabledLines,
		}
		return computeCartesian(spec, rows, size, opts)
	case *config.AreaConfig:
		spec := cartesianSpec{
			typ:         config.Area,
			base:        &c.Base,
			xstart:      c.XAxisStart,
			ystart:      c.YAxisStart,
			curve:       c.Curve,
			lineWidth:   c.LineWidth,
			areaOpacity: c.AreaOpacity,
			stacked:     c.Stacked,
			disabled:    c.DisabledAreas,
		}
		return computeCartesian(spec, rows, size, opts)
	case *config.BarConfig:
		spec := cartesianSpec{
			typ:        config.Bar,
			base:       &c.Base,
			ystart:     c.YAxisStart,
			stacked:    c.Stacked,
			horizontal: c.Horizontal,
			barPadding: c.BarPadding,
			barRadius:  c.BarRadius,
			disabled:   c.DisabledBars,
		}
		return computeCartesian(spec, rows, size, opts)
	case *config.ScatterConfig:
		spec := cartesianSpec{
			typ:         config.Scatter,
			base:        &c.Base,
			xstart:      c.XAxisStart,
			ystart:      c.YAxisStart,
			showPoints:  true,
			pointRadius: c.PointRadius,
			pointAlpha:  c.PointOpacity,
			disabled:    c.DisabledPoints,
		}
		return computeCartesian(spec, rows, size, opts)
	case *config.PieConfig:
		return computePie(c, rows, size, opts)
	case *config.HeatmapConfig:
		return computeHeatmap(c, rows, size, opts)
	case *config.CyclePlotConfig:
		return computeCyclePlot(c, rows, size, opts)
	case nil:
		return nil, missingKeys("config")
	default:
		return nil, fmt.Errorf("%T: unsupported configuration", cfg)
	}
}

// RequiredKeys returns the names of the configuration fields that must be
// set for cfg to be drawable and that are not.
func RequiredKeys(cfg config.Config) []string {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	switch c := cfg.(type) {
	case *config.PieConfig:
		check("labelKey", c.LabelKey)
		check("valueKey", c.ValueKey)
	case *config.HeatmapConfig:
		check("xAxisKey", c.XAxisKey)
		check("yAxisKey", c.YAxisKey)
		check("valueKey", c.ValueKey)
	case *config.CyclePlotConfig:
		check("cycleKey", c.CycleKey)
		check("periodKey", c.PeriodKey)
		check("valueKey", c.ValueKey)
	case nil:
	default:
		check("xAxisKey", cfg.Common().XAxisKey)
	}
	return missing
}

// VisibleSeries returns the series drawn for cfg. The y axis keys of cfg are
// never used to make up series.
func VisibleSeries(cfg config.Config, series []config.SeriesConfig) []config.SeriesConfig {
	if cfg == nil || !cfg.Type().Cartesian() {
		return nil
	}
	return visibleSeries(cfg.Common(), cfg.Disabled(), series)
}

// checkKeys reports the keys absent from the rows.
func checkKeys(rows []dataset.Point, keys ...string) error {
	var missing []string
	for _, k := range keys {
		if !rows[0].Has(k) {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return missingKeys(missing...)
	}
	return nil
}

func markID(key string, index int) string {
	return fmt.Sprintf("%s-%d", key, index)
}
