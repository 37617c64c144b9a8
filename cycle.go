package chartdeck

import (
	"math"
	"slices"

	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/svg"
)

// CycleInset is the share of a cycle band left empty on each side.
var CycleInset = 0.1

// Cycle is one sub-series of a cycle plot: the values of one cycle ordered
// by period.
type Cycle struct {
	Key    string
	Color  string
	Band   Rect
	Line   svg.Path
	Points []Mark
	Mean   float64
	// MeanLine is the horizontal segment drawn at the mean of the cycle.
	MeanLine [2]svg.Pos
}

type CyclePlot struct {
	Layout      Layout
	Title       string
	X           Axis
	Y           Axis
	YDomain     [2]float64
	Periods     []string
	Cycles      []Cycle
	Width       float64
	ShowAverage bool
	Legend      Legend
}

func (c *CyclePlot) Type() config.ChartType {
	return config.CyclePlot
}

func (c *CyclePlot) Frame() Layout {
	return c.Layout
}

func (c *CyclePlot) Marks() []Mark {
	var list []Mark
	for _, y := range c.Cycles {
		list = append(list, y.Points...)
	}
	return list
}

func computeCyclePlot(cfg *config.CyclePlotConfig, rows []dataset.Point, size Size, opts Options) (Geometry, error) {
	var missing []string
	for _, k := range []struct {
		name  string
		value string
	}{
		{"cycleKey", cfg.CycleKey},
		{"periodKey", cfg.PeriodKey},
		{"valueKey", cfg.ValueKey},
	} {
		if k.value == "" {
			missing = append(missing, k.name)
		}
	}
	if len(missing) > 0 {
		return nil, missingKeys(missing...)
	}
	if len(rows) == 0 {
		return nil, emptyData()
	}
	if err := checkKeys(rows, cfg.CycleKey, cfg.PeriodKey, cfg.ValueKey); err != nil {
		return nil, err
	}
	if err := dataset.Numeric(rows, cfg.ValueKey); err != nil {
		return nil, err
	}
	var (
		cycles  = distinct(dataset.Labels(rows, cfg.CycleKey))
		periods = periodOrder(rows, cfg.PeriodKey)
		lo, hi  = 0.0, math.Inf(-1)
		items   []LegendItem
	)
	for _, r := range rows {
		v := r.Float(cfg.ValueKey)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi <= lo {
		hi = lo + 1
	}
	for i, c := range cycles {
		items = append(items, LegendItem{
			Key:   c,
			Label: c,
			Color: opts.color(c, i),
		})
	}
	n := 0
	if cfg.ShowLegend {
		n = len(items)
	}
	var (
		lay    = computeLayout(&cfg.Base, size, n, opts, true)
		plot   = lay.Plot
		xscale = StringScaler(cycles, NewRange(plot.X, plot.Right()))
		yscale = NumberScaler(NumberDomain(lo, hi), NewRange(plot.Bottom(), plot.Y))
		width  = cfg.LineWidth
		cp     = CyclePlot{
			Layout:      lay,
			Title:       cfg.Title,
			X:           categoryAxis(xscale, OrientBottom),
			Y:           numberAxis(yscale, OrientLeft, DefaultTickCount, func(v float64) string { return opts.Format(cfg.ValueKey, v) }),
			YDomain:     [2]float64{lo, hi},
			Periods:     periods,
			ShowAverage: cfg.ShowAverage,
		}
	)
	if width <= 0 {
		width = DefaultLineWidth
	}
	cp.Width = width * lay.Factor
	cp.X.Label = cfg.XAxisLabel
	cp.Y.Label = cfg.YAxisLabel

	for i, name := range cycles {
		var (
			band = Rect{
				X:      xscale.Scale(name),
				Y:      plot.Y,
				Width:  xscale.Space(),
				Height: plot.Height,
			}
			inner = Rect{
				X:     band.X + band.Width*CycleInset,
				Width: band.Width * (1 - 2*CycleInset),
			}
			pscale = StringScaler(periods, NewRange(inner.X, inner.Right()))
			cycle  = Cycle{
				Key:   name,
				Color: items[i].Color,
				Band:  band,
			}
			pts []svg.Pos
			sum float64
		)
		for j, r := range cycleRows(rows, cfg.CycleKey, cfg.PeriodKey, name, periods) {
			var (
				v   = r.Float(cfg.ValueKey)
				per = r.Label(cfg.PeriodKey)
				pos = svg.NewPos(Center(pscale, per), yscale.Scale(v))
			)
			sum += v
			pts = append(pts, pos)
			cycle.Points = append(cycle.Points, Mark{
				ID:     markID(name, j),
				Series: name,
				Name:   name,
				Label:  per,
				Value:  v,
				Pos:    pos,
				Color:  cycle.Color,
			})
		}
		if len(pts) > 0 {
			cycle.Mean = sum / float64(len(pts))
			y := yscale.Scale(cycle.Mean)
			cycle.MeanLine = [2]svg.Pos{
				svg.NewPos(inner.X, y),
				svg.NewPos(inner.Right(), y),
			}
		}
		cycle.Line = LinePath(cfg.Curve, pts)
		cp.Cycles = append(cp.Cycles, cycle)
	}
	if cfg.ShowLegend {
		cp.Legend = LayoutLegend(items, cfg.LegendPosition, lay.Legend, lay.LegendSize, cfg.LegendMaxItems, opts.policy(), opts.measurer())
	}
	return &cp, nil
}

// periodOrder returns the distinct periods, sorted numerically when every
// period is a number and in order of appearance otherwise.
func periodOrder(rows []dataset.Point, key string) []string {
	list := distinct(dataset.Labels(rows, key))
	if dataset.Numeric(rows, key) != nil {
		return list
	}
	values := make(map[string]float64)
	for _, r := range rows {
		values[r.Label(key)] = r.Float(key)
	}
	slices.SortStableFunc(list, func(a, b string) int {
		return compareFloat(values[a], values[b])
	})
	return list
}

func cycleRows(rows []dataset.Point, cycleKey, periodKey, cycle string, periods []string) []dataset.Point {
	var list []dataset.Point
	for _, r := range rows {
		if r.Label(cycleKey) == cycle {
			list = append(list, r)
		}
	}
	slices.SortStableFunc(list, func(a, b dataset.Point) int {
		return slices.Index(periods, a.Label(periodKey)) - slices.Index(periods, b.Label(periodKey))
	})
	return list
}
