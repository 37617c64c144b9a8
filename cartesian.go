package chartdeck

import (
	"math"
	"slices"

	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/svg"
)

var (
	DefaultLineWidth   = 2.0
	DefaultPointRadius = 4.0
	DefaultTickCount   = 5
)

// Bar is one rectangle of a bar chart.
type Bar struct {
	Mark
	Rect
	Radius float64
}

// SeriesShape holds everything drawn for one series of a cartesian chart.
type SeriesShape struct {
	Key        string
	Name       string
	Color      string
	Width      float64
	Radius     float64
	Opacity    float64
	LineStyle  config.LineStyle
	PointStyle config.PointStyle

	Line   svg.Path
	Area   svg.Path
	Bars   []Bar
	Points []Mark
	// Shown reports whether Points are drawn or only used as hover targets.
	Shown bool
}

// Cartesian is the geometry of line, bar, area and scatter charts.
type Cartesian struct {
	Kind   config.ChartType
	Layout Layout
	Title  string

	X Axis
	Y Axis

	XDomain    []string
	NumericX   bool
	YDomain    [2]float64
	Horizontal bool
	Stacked    bool
	ShowGrid   bool

	Series []SeriesShape
	Legend Legend
}

func (c *Cartesian) Type() config.ChartType {
	return c.Kind
}

func (c *Cartesian) Frame() Layout {
	return c.Layout
}

func (c *Cartesian) Marks() []Mark {
	var list []Mark
	for _, s := range c.Series {
		for _, b := range s.Bars {
			list = append(list, b.Mark)
		}
		list = append(list, s.Points...)
	}
	return list
}

type cartesianSpec struct {
	typ    config.ChartType
	base   *config.Base
	xstart config.AxisStart
	ystart config.AxisStart

	curve       config.Curve
	lineWidth   float64
	showPoints  bool
	pointRadius float64
	pointAlpha  float64
	areaOpacity float64

	stacked    bool
	horizontal bool
	barPadding float64
	barRadius  float64

	disabled []string
}

func visibleSeries(base *config.Base, disabled []string, series []config.SeriesConfig) []config.SeriesConfig {
	var list []config.SeriesConfig
	for _, s := range series {
		if !s.Visible || slices.Contains(disabled, s.DataColumn) || s.DataColumn == base.XAxisKey {
			continue
		}
		list = append(list, s)
	}
	return list
}

func computeCartesian(spec cartesianSpec, rows []dataset.Point, size Size, opts Options) (Geometry, error) {
	base := spec.base
	if base.XAxisKey == "" {
		return nil, missingKeys("xAxisKey")
	}
	series := visibleSeries(base, spec.disabled, opts.Series)
	if len(series) == 0 {
		return nil, noVisibleSeries()
	}
	if len(rows) == 0 {
		return nil, emptyData()
	}
	keys := []string{base.XAxisKey}
	for _, s := range series {
		keys = append(keys, s.DataColumn)
	}
	if err := checkKeys(rows, keys...); err != nil {
		return nil, err
	}
	for _, s := range series {
		if err := dataset.Numeric(rows, s.DataColumn); err != nil {
			return nil, err
		}
	}

	var (
		items []LegendItem
		lay   Layout
	)
	for i, s := range series {
		items = append(items, LegendItem{
			Key:   s.DataColumn,
			Label: seriesName(s),
			Color: seriesColor(s, opts, i),
		})
	}
	if base.ShowLegend {
		lay = computeLayout(base, size, len(items), opts, true)
	} else {
		lay = computeLayout(base, size, 0, opts, true)
	}

	c := Cartesian{
		Kind:       spec.typ,
		Layout:     lay,
		Title:      base.Title,
		Horizontal: spec.horizontal && spec.typ == config.Bar,
		Stacked:    spec.stacked && (spec.typ == config.Bar || spec.typ == config.Area),
		ShowGrid:   base.ShowGrid,
		XDomain:    distinct(dataset.Labels(rows, base.XAxisKey)),
	}
	if spec.typ != config.Bar && spec.xstart.Set {
		c.NumericX = dataset.Numeric(rows, base.XAxisKey) == nil
	}
	c.YDomain = valueDomain(rows, series, spec)

	var (
		plot   = lay.Plot
		values = NumberDomain(c.YDomain[0], c.YDomain[1])
		yfmt   = func(v float64) string { return opts.Format(series[0].DataColumn, v) }
	)
	if c.Horizontal {
		var (
			cats = StringScaler(c.XDomain, NewRange(plot.Y, plot.Bottom()))
			vals = NumberScaler(values, NewRange(plot.X, plot.Right()))
		)
		c.X = numberAxis(vals, OrientBottom, DefaultTickCount, yfmt)
		c.Y = categoryAxis(cats, OrientLeft)
		c.X.Label = base.YAxisLabel
		c.Y.Label = base.XAxisLabel
		c.Series = barShapes(spec, rows, series, cats, vals, baseline(c.YDomain), opts, lay.Factor)
	} else {
		var (
			vals = NumberScaler(values, NewRange(plot.Bottom(), plot.Y))
			xpos func(dataset.Point) float64
		)
		if c.NumericX {
			lo, hi := numericExtent(rows, base.XAxisKey, spec.xstart)
			xs := NumberScaler(NumberDomain(lo, hi), NewRange(plot.X, plot.Right()))
			c.X = numberAxis(xs, OrientBottom, DefaultTickCount, func(v float64) string {
				return opts.Format(base.XAxisKey, v)
			})
			xpos = func(p dataset.Point) float64 {
				return xs.Scale(p.Float(base.XAxisKey))
			}
		} else {
			xs := StringScaler(c.XDomain, NewRange(plot.X, plot.Right()))
			c.X = categoryAxis(xs, OrientBottom)
			xpos = func(p dataset.Point) float64 {
				return Center(xs, p.Label(base.XAxisKey))
			}
			if spec.typ == config.Bar {
				c.Series = barShapes(spec, rows, series, xs, vals, baseline(c.YDomain), opts, lay.Factor)
			}
		}
		c.Y = numberAxis(vals, OrientLeft, DefaultTickCount, yfmt)
		c.X.Label = base.XAxisLabel
		c.Y.Label = base.YAxisLabel
		if spec.typ != config.Bar {
			if c.NumericX {
				rows = sortedByX(rows, base.XAxisKey)
			}
			c.Series = lineShapes(spec, rows, series, xpos, vals, baseline(c.YDomain), opts, lay.Factor)
		}
	}
	if base.ShowLegend {
		c.Legend = LayoutLegend(items, base.LegendPosition, lay.Legend, lay.LegendSize, base.LegendMaxItems, opts.policy(), opts.measurer())
	}
	return &c, nil
}

// valueDomain returns the extent of the value axis. The lower bound is the
// configured start or min(0, data min).
func valueDomain(rows []dataset.Point, series []config.SeriesConfig, spec cartesianSpec) [2]float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		if spec.stacked && spec.typ != config.Line && spec.typ != config.Scatter {
			var pos, neg float64
			for _, s := range series {
				v := r.Float(s.DataColumn)
				if v >= 0 {
					pos += v
				} else {
					neg += v
				}
			}
			lo = math.Min(lo, neg)
			hi = math.Max(hi, pos)
			continue
		}
		for _, s := range series {
			v := r.Float(s.DataColumn)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	lo = math.Min(0, lo)
	if spec.ystart.Set {
		lo = spec.ystart.Value
	}
	if hi <= lo {
		hi = lo + 1
	}
	return [2]float64{lo, hi}
}

func numericExtent(rows []dataset.Point, key string, start config.AxisStart) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		v := r.Float(key)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if start.Set {
		lo = start.Value
	}
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func sortedByX(rows []dataset.Point, key string) []dataset.Point {
	list := slices.Clone(rows)
	slices.SortStableFunc(list, func(a, b dataset.Point) int {
		x, y := a.Float(key), b.Float(key)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		default:
			return 0
		}
	})
	return list
}

// baseline is the value bars and areas grow from: zero clamped into the
// value domain.
func baseline(dom [2]float64) float64 {
	return math.Max(dom[0], math.Min(0, dom[1]))
}

func lineShapes(spec cartesianSpec, rows []dataset.Point, series []config.SeriesConfig, xpos func(dataset.Point) float64, ys Scaler[float64], zero float64, opts Options, factor float64) []SeriesShape {
	var (
		list  []SeriesShape
		stack = make([]float64, len(rows))
		xkey  = spec.base.XAxisKey
	)
	for j, s := range series {
		shape := newSeriesShape(spec, s, opts, j, factor)
		var (
			top  = make([]svg.Pos, 0, len(rows))
			down = make([]svg.Pos, 0, len(rows))
		)
		for i, r := range rows {
			var (
				v  = r.Float(s.DataColumn)
				x  = xpos(r)
				y0 = ys.Scale(zero)
				y  float64
			)
			if spec.stacked && spec.typ == config.Area {
				y0 = ys.Scale(zero + stack[i])
				stack[i] += v
				y = ys.Scale(zero + stack[i])
			} else {
				y = ys.Scale(v)
			}
			pos := svg.NewPos(x, y)
			top = append(top, pos)
			down = append(down, svg.NewPos(x, y0))
			shape.Points = append(shape.Points, Mark{
				ID:     markID(s.DataColumn, i),
				Series: s.DataColumn,
				Name:   shape.Name,
				Label:  r.Label(xkey),
				Value:  v,
				Pos:    pos,
				Color:  shape.Color,
			})
		}
		switch spec.typ {
		case config.Line:
			shape.Line = LinePath(spec.curve, top)
		case config.Area:
			shape.Line = LinePath(spec.curve, top)
			shape.Area = AreaPath(spec.curve, top, down)
		}
		list = append(list, shape)
	}
	return list
}

func barShapes(spec cartesianSpec, rows []dataset.Point, series []config.SeriesConfig, cats Scaler[string], vals Scaler[float64], zero float64, opts Options, factor float64) []SeriesShape {
	var (
		list  []SeriesShape
		band  = math.Abs(cats.Space())
		inner = band * (1 - clampUnit(spec.barPadding))
		pos   = make([]float64, len(rows))
		neg   = make([]float64, len(rows))
		xkey  = spec.base.XAxisKey
	)
	width := inner
	if !spec.stacked {
		width = inner / float64(len(series))
	}
	for j, s := range series {
		shape := newSeriesShape(spec, s, opts, j, factor)
		shape.Shown = false
		for i, r := range rows {
			var (
				v     = r.Float(s.DataColumn)
				label = r.Label(xkey)
				from  = zero
				to    = v
				start = math.Min(cats.Scale(label), cats.Scale(label)+cats.Space()) + (band-inner)/2
			)
			if spec.stacked {
				if v >= 0 {
					from = zero + pos[i]
					pos[i] += v
					to = zero + pos[i]
				} else {
					from = zero + neg[i]
					neg[i] += v
					to = zero + neg[i]
				}
			} else {
				start += float64(j) * width
			}
			var (
				p0 = vals.Scale(from)
				p1 = vals.Scale(to)
				b  = Bar{Radius: spec.barRadius * factor}
			)
			if spec.horizontal {
				b.Rect = Rect{
					X:      math.Min(p0, p1),
					Y:      start,
					Width:  math.Abs(p1 - p0),
					Height: width,
				}
				b.Pos = svg.NewPos(math.Max(p0, p1), start+width/2)
			} else {
				b.Rect = Rect{
					X:      start,
					Y:      math.Min(p0, p1),
					Width:  width,
					Height: math.Abs(p1 - p0),
				}
				b.Pos = svg.NewPos(start+width/2, math.Min(p0, p1))
			}
			b.ID = markID(s.DataColumn, i)
			b.Series = s.DataColumn
			b.Name = shape.Name
			b.Label = label
			b.Value = v
			b.Color = shape.Color
			shape.Bars = append(shape.Bars, b)
		}
		list = append(list, shape)
	}
	return list
}

func newSeriesShape(spec cartesianSpec, s config.SeriesConfig, opts Options, index int, factor float64) SeriesShape {
	shape := SeriesShape{
		Key:        s.DataColumn,
		Name:       seriesName(s),
		Color:      seriesColor(s, opts, index),
		Width:      spec.lineWidth,
		Radius:     spec.pointRadius,
		Opacity:    1,
		LineStyle:  s.LineStyle,
		PointStyle: s.PointStyle,
		Shown:      spec.showPoints,
	}
	switch spec.typ {
	case config.Area:
		shape.Opacity = spec.areaOpacity
	case config.Scatter:
		shape.Opacity = spec.pointAlpha
	}
	if s.LineWidth > 0 {
		shape.Width = s.LineWidth
	}
	if s.PointRadius > 0 {
		shape.Radius = s.PointRadius
	}
	if s.Opacity > 0 {
		shape.Opacity = s.Opacity
	}
	if shape.Width <= 0 {
		shape.Width = DefaultLineWidth
	}
	if shape.Radius <= 0 {
		shape.Radius = DefaultPointRadius
	}
	if shape.Opacity <= 0 {
		shape.Opacity = 1
	}
	shape.Width *= factor
	shape.Radius *= factor
	return shape
}

func seriesName(s config.SeriesConfig) string {
	if s.Name != "" {
		return s.Name
	}
	return s.DataColumn
}

func seriesColor(s config.SeriesConfig, opts Options, index int) string {
	if c, ok := opts.Colors[s.DataColumn]; ok && c != "" {
		return c
	}
	if s.Color != "" {
		return s.Color
	}
	return opts.color(s.DataColumn, index)
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(v, 0.95))
}
