package chartdeck

import (
	"math"

	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/svg"
)

// RampSteps is the number of color stops of a heatmap legend.
var RampSteps = 10

type Cell struct {
	Mark
	Rect
	Text string
	// Ink is the color of the value drawn over the cell.
	Ink string
}

// Ramp is the legend of a heatmap: a strip of colors going from the lowest
// to the highest value.
type Ramp struct {
	Rect
	Min    float64
	Max    float64
	Stops  []string
	Labels [2]string
}

type Heatmap struct {
	Layout Layout
	Title  string
	X      Axis
	Y      Axis
	Min    float64
	Max    float64

	Cells       []Cell
	Ramp        *Ramp
	ShowValues  bool
	BorderWidth float64
	BorderColor string
}

func (h *Heatmap) Type() config.ChartType {
	return config.Heatmap
}

func (h *Heatmap) Frame() Layout {
	return h.Layout
}

func (h *Heatmap) Marks() []Mark {
	list := make([]Mark, 0, len(h.Cells))
	for _, c := range h.Cells {
		list = append(list, c.Mark)
	}
	return list
}

func computeHeatmap(cfg *config.HeatmapConfig, rows []dataset.Point, size Size, opts Options) (Geometry, error) {
	var missing []string
	for _, k := range []struct {
		name  string
		value string
	}{
		{"xAxisKey", cfg.XAxisKey},
		{"yAxisKey", cfg.YAxisKey},
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
	if err := checkKeys(rows, cfg.XAxisKey, cfg.YAxisKey, cfg.ValueKey); err != nil {
		return nil, err
	}
	if err := dataset.Numeric(rows, cfg.ValueKey); err != nil {
		return nil, err
	}

	type key struct {
		x, y string
	}
	var (
		xs     = distinct(dataset.Labels(rows, cfg.XAxisKey))
		ys     = distinct(dataset.Labels(rows, cfg.YAxisKey))
		sums   = make(map[key]float64)
		order  []key
		lo, hi = math.Inf(1), math.Inf(-1)
	)
	for _, r := range rows {
		k := key{
			x: r.Label(cfg.XAxisKey),
			y: r.Label(cfg.YAxisKey),
		}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] += r.Float(cfg.ValueKey)
	}
	for _, v := range sums {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	n := 0
	if cfg.ShowLegend {
		n = 1
	}
	var (
		lay    = computeLayout(&cfg.Base, size, n, opts, true)
		plot   = lay.Plot
		xscale = StringScaler(xs, NewRange(plot.X, plot.Right()))
		yscale = StringScaler(ys, NewRange(plot.Y, plot.Bottom()))
		scheme = GetScheme(cfg.ColorScheme)
		hm     = Heatmap{
			Layout:      lay,
			Title:       cfg.Title,
			X:           categoryAxis(xscale, OrientBottom),
			Y:           categoryAxis(yscale, OrientLeft),
			Min:         lo,
			Max:         hi,
			ShowValues:  cfg.ShowValues,
			BorderWidth: cfg.CellBorderWidth * lay.Factor,
			BorderColor: cfg.CellBorderColor,
		}
	)
	hm.X.Label = cfg.XAxisLabel
	hm.Y.Label = cfg.YAxisLabel

	for i, k := range order {
		var (
			v     = sums[k]
			color = scheme.At(normalizeValue(v, lo, hi))
			rect  = Rect{
				X:      xscale.Scale(k.x),
				Y:      yscale.Scale(k.y),
				Width:  xscale.Space(),
				Height: yscale.Space(),
			}
		)
		hm.Cells = append(hm.Cells, Cell{
			Mark: Mark{
				ID:     markID(cfg.ValueKey, i),
				Series: cfg.ValueKey,
				Name:   k.y,
				Label:  k.x,
				Value:  v,
				Pos:    rect.Center(),
				Color:  color,
			},
			Rect: rect,
			Text: opts.Format(cfg.ValueKey, v),
			Ink:  Contrast(color),
		})
	}
	if cfg.ShowLegend {
		hm.Ramp = layoutRamp(scheme, lo, hi, lay, cfg.LegendPosition, opts.policy())
		hm.Ramp.Labels = [2]string{
			opts.Format(cfg.ValueKey, lo),
			opts.Format(cfg.ValueKey, hi),
		}
	}
	return &hm, nil
}

func normalizeValue(v, lo, hi float64) float64 {
	if hi <= lo {
		return 1
	}
	return (v - lo) / (hi - lo)
}

func layoutRamp(scheme Scheme, lo, hi float64, lay Layout, pos config.LegendPosition, policy LegendPolicy) *Ramp {
	var (
		area = lay.Legend.Inset(policy.Padding)
		ramp = Ramp{
			Min: lo,
			Max: hi,
		}
		thick = policy.Swatch
	)
	for i := 0; i < RampSteps; i++ {
		ramp.Stops = append(ramp.Stops, scheme.At(float64(i)/float64(RampSteps-1)))
	}
	if pos.Vertical() {
		ramp.Rect = Rect{
			X:      area.X,
			Y:      area.Y,
			Width:  thick,
			Height: math.Min(area.Height, lay.Plot.Height),
		}
	} else {
		width := math.Min(area.Width, lay.Plot.Width/2)
		ramp.Rect = Rect{
			X:      area.X + (area.Width-width)/2,
			Y:      area.Y,
			Width:  width,
			Height: thick,
		}
	}
	return &ramp
}

// Step returns the rectangle of the i-th stop of the ramp.
func (r Ramp) Step(i int) Rect {
	n := float64(len(r.Stops))
	if n == 0 {
		return r.Rect
	}
	if r.Width >= r.Height {
		w := r.Width / n
		return Rect{X: r.X + float64(i)*w, Y: r.Y, Width: w, Height: r.Height}
	}
	h := r.Height / n
	// highest values on top
	return Rect{X: r.X, Y: r.Bottom() - float64(i+1)*h, Width: r.Width, Height: h}
}

// LabelPos returns where the lowest and highest value labels are drawn.
func (r Ramp) LabelPos() (svg.Pos, svg.Pos) {
	if r.Width >= r.Height {
		y := r.Bottom() + r.Height
		return svg.NewPos(r.X, y), svg.NewPos(r.Right(), y)
	}
	x := r.Right() + r.Width/2
	return svg.NewPos(x, r.Bottom()), svg.NewPos(x, r.Y)
}
