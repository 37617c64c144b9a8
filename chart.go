package chartdeck

import (
	"math"

	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/format"
	"github.com/midbel/svg"
)

var (
	// ReferenceWidth is the container width at which fonts and strokes are
	// drawn at their configured size.
	ReferenceWidth = 800.0
	MinFactor      = 0.6
	MaxFactor      = 1.2
)

type Padding struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

func PaddingFrom(m config.Margin) Padding {
	return Padding{
		Top:    m.Top,
		Right:  m.Right,
		Bottom: m.Bottom,
		Left:   m.Left,
	}
}

func (p Padding) Horizontal() float64 {
	return p.Left + p.Right
}

func (p Padding) Vertical() float64 {
	return p.Top + p.Bottom
}

type Size struct {
	Width  float64
	Height float64
}

func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64 {
	return r.X + r.Width
}

func (r Rect) Bottom() float64 {
	return r.Y + r.Height
}

func (r Rect) Center() svg.Pos {
	return svg.NewPos(r.X+r.Width/2, r.Y+r.Height/2)
}

func (r Rect) Contains(p svg.Pos) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

// Union returns the smallest rectangle containing r and other. Empty
// rectangles are ignored.
func (r Rect) Union(other Rect) Rect {
	if r.Width <= 0 && r.Height <= 0 {
		return other
	}
	if other.Width <= 0 && other.Height <= 0 {
		return r
	}
	var (
		x1 = math.Min(r.X, other.X)
		y1 = math.Min(r.Y, other.Y)
		x2 = math.Max(r.Right(), other.Right())
		y2 = math.Max(r.Bottom(), other.Bottom())
	)
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func (r Rect) Inset(pad float64) Rect {
	return Rect{
		X:      r.X + pad,
		Y:      r.Y + pad,
		Width:  math.Max(0, r.Width-2*pad),
		Height: math.Max(0, r.Height-2*pad),
	}
}

func (r Rect) Outset(pad float64) Rect {
	return Rect{
		X:      r.X - pad,
		Y:      r.Y - pad,
		Width:  r.Width + 2*pad,
		Height: r.Height + 2*pad,
	}
}

// Factor returns the responsive scale factor for a container width.
func Factor(width float64) float64 {
	if width <= 0 {
		return 1
	}
	f := width / ReferenceWidth
	return math.Max(MinFactor, math.Min(f, MaxFactor))
}

// Options holds what the geometry needs beside the configuration and the
// rows.
type Options struct {
	Series     []config.SeriesConfig
	Colors     map[string]string
	Formatters map[string]format.Func
	Theme      config.Theme
	Measurer   TextMeasurer
	Legend     LegendPolicy
}

func (o Options) measurer() TextMeasurer {
	if o.Measurer == nil {
		return DefaultMeasurer
	}
	return o.Measurer
}

func (o Options) policy() LegendPolicy {
	if o.Legend.ItemWidth <= 0 {
		return DefaultLegendPolicy
	}
	return o.Legend
}

func (o Options) color(key string, index int) string {
	if c, ok := o.Colors[key]; ok && c != "" {
		return c
	}
	return config.DefaultPalette[index%len(config.DefaultPalette)]
}

// Format formats v with the formatter attached to key.
func (o Options) Format(key string, v float64) string {
	if fn, ok := o.Formatters[key]; ok && fn != nil {
		return fn(v)
	}
	return format.Passthrough(v)
}

// Layout splits the container of a chart into its areas.
type Layout struct {
	Outer  Rect
	Title  Rect
	Legend Rect
	Plot   Rect
	Factor float64

	TitleSize  float64
	LabelSize  float64
	LegendSize float64
}

// FontScale scales a configured font size by the responsive factor.
func (l Layout) FontScale(size float64) float64 {
	return size * l.Factor
}

// computeLayout reserves space for the title, the legend and the axes
// before deriving the plot area. The legend space only depends on the number
// of items and the position of the legend.
func computeLayout(base *config.Base, size Size, items int, opts Options, axes bool) Layout {
	if size.Empty() {
		size = Size{Width: base.Width, Height: base.Height}
	}
	var (
		pad    = PaddingFrom(base.Margin)
		factor = Factor(size.Width)
		lay    = Layout{
			Outer:      Rect{Width: size.Width, Height: size.Height},
			Factor:     factor,
			TitleSize:  base.TitleFontSize * factor,
			LabelSize:  base.LabelFontSize * factor,
			LegendSize: base.LegendFontSize * factor,
		}
		inner = Rect{
			X:      pad.Left,
			Y:      pad.Top,
			Width:  math.Max(0, size.Width-pad.Horizontal()),
			Height: math.Max(0, size.Height-pad.Vertical()),
		}
	)
	if base.Title != "" {
		h := lay.TitleSize * 2
		lay.Title = Rect{X: inner.X, Y: inner.Y, Width: inner.Width, Height: h}
		inner.Y += h
		inner.Height -= h
	}
	if base.ShowLegend && items > 0 {
		shown := legendShown(items, base.LegendMaxItems)
		space := ReserveLegend(shown, base.LegendPosition, inner.Width, lay.LegendSize, opts.policy())
		switch base.LegendPosition {
		case config.LegendTop:
			lay.Legend = Rect{X: inner.X, Y: inner.Y, Width: inner.Width, Height: space}
			inner.Y += space
			inner.Height -= space
		case config.LegendLeft:
			lay.Legend = Rect{X: inner.X, Y: inner.Y, Width: space, Height: inner.Height}
			inner.X += space
			inner.Width -= space
		case config.LegendRight:
			lay.Legend = Rect{X: inner.Right() - space, Y: inner.Y, Width: space, Height: inner.Height}
			inner.Width -= space
		default:
			lay.Legend = Rect{X: inner.X, Y: inner.Bottom() - space, Width: inner.Width, Height: space}
			inner.Height -= space
		}
	}
	if axes {
		bottom := lay.BottomAxisSpace(base.XAxisLabel != "")
		left := lay.LeftAxisSpace(base.YAxisLabel != "")
		inner.X += left
		inner.Width -= left
		inner.Height -= bottom
	}
	inner.Width = math.Max(0, inner.Width)
	inner.Height = math.Max(0, inner.Height)
	lay.Plot = inner
	return lay
}

// BottomAxisSpace is the height below the plot holding the tick labels and
// the axis label.
func (l Layout) BottomAxisSpace(label bool) float64 {
	h := l.LabelSize * 1.8
	if label {
		h += l.LabelSize * 1.6
	}
	return h
}

// LeftAxisSpace is the width left of the plot holding the tick labels and
// the axis label.
func (l Layout) LeftAxisSpace(label bool) float64 {
	w := l.LabelSize * 4
	if label {
		w += l.LabelSize * 1.6
	}
	return w
}
