package chartdeck

import (
	"math"
	"slices"

	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/svg"
)

const (
	fullcircle = 360.0
	halfcircle = 180.0
	deg2rad    = math.Pi / halfcircle
)

var (
	// OuterRatio is the share of the half of the smallest side of the plot
	// taken by the outer radius.
	OuterRatio = 0.9
	// LabelRatio is the inner radius of the arc holding the slice labels,
	// as a fraction of the outer radius.
	LabelRatio = 0.6
	// HoverScale is the size of a hovered slice relative to its size at rest.
	HoverScale = 1.05
)

// Slice is one sector of a pie chart. Angles are in radians, clockwise, zero
// being at 12 o'clock.
type Slice struct {
	Mark
	Index int
	// Start and End partition the chart angle, Pad is the angle given to the
	// gap following the slice.
	Start float64
	End   float64
	Pad   float64

	Inner  float64
	Outer  float64
	Corner float64
	Center svg.Pos
	// Anchor is where the label of the slice is drawn.
	Anchor svg.Pos
}

// Span returns the angle taken by the slice, gap included.
func (s Slice) Span() float64 {
	return s.End - s.Start
}

// Mid returns the angle bisecting the slice.
func (s Slice) Mid() float64 {
	return (s.Start + s.End) / 2
}

// Path returns the outline of the slice. Progress is in [0, 1] and gives the
// share of the final angle already swept from base.
func (s Slice) Path(base, progress float64) svg.Path {
	return s.path(base, progress, 1)
}

// Hover returns the outline of the slice scaled for a hovered state.
func (s Slice) Hover() svg.Path {
	return s.path(s.Start, 1, HoverScale)
}

func (s Slice) path(base, progress, scale float64) svg.Path {
	progress = math.Max(0, math.Min(progress, 1))
	var (
		start = base + (s.Start-base)*progress
		end   = base + (s.End-base)*progress
		pad   = s.Pad * progress / 2
	)
	if end-start > 2*pad {
		start += pad
		end -= pad
	}
	return ArcPath(s.Center, s.Inner*scale, s.Outer*scale, start, end, s.Corner*scale)
}

// Pie is the geometry of pie and donut charts.
type Pie struct {
	Kind   config.ChartType
	Layout Layout
	Title  string
	Center svg.Pos
	Outer  float64
	Inner  float64
	// Base is the start angle of the chart, the angle slices sweep from.
	Base float64
	// Angle is the end angle of the chart.
	Angle float64
	Total float64

	Slices []Slice
	Legend Legend

	ShowLabels     bool
	ShowPercentage bool
	LabelSize      float64
}

func (p *Pie) Type() config.ChartType {
	return p.Kind
}

func (p *Pie) Frame() Layout {
	return p.Layout
}

func (p *Pie) Marks() []Mark {
	list := make([]Mark, 0, len(p.Slices))
	for _, s := range p.Slices {
		list = append(list, s.Mark)
	}
	return list
}

type pieEntry struct {
	label string
	value float64
	row   int
}

func computePie(cfg *config.PieConfig, rows []dataset.Point, size Size, opts Options) (Geometry, error) {
	var missing []string
	if cfg.LabelKey == "" {
		missing = append(missing, "labelKey")
	}
	if cfg.ValueKey == "" {
		missing = append(missing, "valueKey")
	}
	if len(missing) > 0 {
		return nil, missingKeys(missing...)
	}
	if len(rows) == 0 {
		return nil, emptyData()
	}
	if err := checkKeys(rows, cfg.LabelKey, cfg.ValueKey); err != nil {
		return nil, err
	}
	if err := dataset.Numeric(rows, cfg.ValueKey); err != nil {
		return nil, err
	}
	var (
		entries = make([]pieEntry, 0, len(rows))
		total   float64
	)
	for i, r := range rows {
		e := pieEntry{
			label: r.Label(cfg.LabelKey),
			value: math.Max(0, r.Float(cfg.ValueKey)),
			row:   i,
		}
		total += e.value
		entries = append(entries, e)
	}
	if total <= 0 {
		return nil, emptyData()
	}
	sortEntries(entries, cfg.SortSlices)

	var items []LegendItem
	for i, e := range entries {
		items = append(items, LegendItem{
			Key:   e.label,
			Label: e.label,
			Color: opts.color(e.label, i),
		})
	}
	n := 0
	if cfg.ShowLegend {
		n = len(items)
	}
	var (
		lay   = computeLayout(&cfg.Base, size, n, opts, false)
		outer = math.Min(lay.Plot.Width, lay.Plot.Height) / 2 * OuterRatio
		pie   = Pie{
			Kind:           cfg.Type(),
			Layout:         lay,
			Title:          cfg.Title,
			Center:         lay.Plot.Center(),
			Outer:          outer,
			Inner:          outer * math.Max(0, math.Min(cfg.InnerRadius, 0.95)),
			Base:           cfg.StartAngle * deg2rad,
			Angle:          cfg.EndAngle * deg2rad,
			Total:          total,
			ShowLabels:     cfg.ShowLabels,
			ShowPercentage: cfg.ShowPercentage,
			LabelSize:      lay.LabelSize,
		}
	)
	values := make([]float64, len(entries))
	for i := range entries {
		values[i] = entries[i].value
	}
	for i, a := range PieAngles(values, pie.Base, pie.Angle, cfg.PadAngle) {
		e := entries[i]
		s := Slice{
			Index:  i,
			Start:  a[0],
			End:    a[1],
			Pad:    a[2],
			Inner:  pie.Inner,
			Outer:  pie.Outer,
			Corner: cfg.CornerRadius * lay.Factor,
			Center: pie.Center,
		}
		s.Anchor = Centroid(pie.Center, pie.Outer*LabelRatio, pie.Outer, s.Start, s.End)
		s.Mark = Mark{
			ID:      markID(cfg.ValueKey, e.row),
			Series:  cfg.ValueKey,
			Name:    e.label,
			Label:   e.label,
			Value:   e.value,
			Percent: Percent(e.value, total),
			Pos:     s.Anchor,
			Color:   items[i].Color,
		}
		pie.Slices = append(pie.Slices, s)
	}
	if cfg.ShowLegend {
		pie.Legend = LayoutLegend(items, cfg.LegendPosition, lay.Legend, lay.LegendSize, cfg.LegendMaxItems, opts.policy(), opts.measurer())
	}
	return &pie, nil
}

func sortEntries(entries []pieEntry, order config.SortOrder) {
	switch order {
	case config.SortAscending:
		slices.SortStableFunc(entries, func(a, b pieEntry) int {
			return compareFloat(a.value, b.value)
		})
	case config.SortDescending:
		slices.SortStableFunc(entries, func(a, b pieEntry) int {
			return compareFloat(b.value, a.value)
		})
	default:
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// PieAngles partitions the angle between start and end (radians) into one
// arc per value. Each arc gets a share of the angle proportional to its
// value plus its pad angle; the pad is reduced when the arcs can not all
// hold one. The returned triplets are start, end and pad.
func PieAngles(values []float64, start, end, pad float64) [][3]float64 {
	if len(values) == 0 {
		return nil
	}
	var (
		span = end - start
		sum  float64
		list = make([][3]float64, 0, len(values))
	)
	for _, v := range values {
		sum += math.Max(0, v)
	}
	pad = math.Min(math.Abs(span)/float64(len(values)), math.Max(0, pad))
	if span < 0 {
		pad = -pad
	}
	k := span - float64(len(values))*pad
	if sum > 0 {
		k /= sum
	} else {
		k = 0
	}
	angle := start
	for i, v := range values {
		next := angle + math.Max(0, v)*k + pad
		if i == len(values)-1 {
			next = end
		}
		list = append(list, [3]float64{angle, next, pad})
		angle = next
	}
	return list
}

// Percent returns the share of total taken by value, rounded to one decimal.
func Percent(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(value/total*1000) / 10
}

// getPosFromAngle returns the point at radius on the ray of the given angle.
// The angle is measured clockwise from 12 o'clock.
func getPosFromAngle(center svg.Pos, angle, radius float64) svg.Pos {
	var (
		x = center.X + radius*math.Sin(angle)
		y = center.Y - radius*math.Cos(angle)
	)
	return svg.NewPos(x, y)
}

// Centroid returns the middle of the annular sector between inner and outer
// and the two angles.
func Centroid(center svg.Pos, inner, outer, start, end float64) svg.Pos {
	return getPosFromAngle(center, (start+end)/2, (inner+outer)/2)
}

// ArcPath returns the outline of an annular sector. A zero inner radius
// gives a pie slice. Arcs larger than half a circle are split in two so full
// circles are drawn too.
func ArcPath(center svg.Pos, inner, outer, start, end, corner float64) svg.Path {
	pat := getBasePath()
	if end < start {
		start, end = end, start
	}
	if outer <= 0 || end == start {
		return pat
	}
	var (
		full = end-start >= 2*math.Pi-1e-9
		mid  = (start + end) / 2
	)
	corner = math.Min(corner, (outer-inner)/2)
	if corner > 0 && !full {
		return roundedArcPath(center, inner, outer, start, end, corner)
	}
	pat.AbsMoveTo(getPosFromAngle(center, start, outer))
	pat.AbsArcTo(getPosFromAngle(center, mid, outer), outer, outer, 0, false, true)
	pat.AbsArcTo(getPosFromAngle(center, end, outer), outer, outer, 0, false, true)
	if inner > 0 {
		if full {
			pat.ClosePath()
			pat.AbsMoveTo(getPosFromAngle(center, end, inner))
		} else {
			pat.AbsLineTo(getPosFromAngle(center, end, inner))
		}
		pat.AbsArcTo(getPosFromAngle(center, mid, inner), inner, inner, 0, false, false)
		pat.AbsArcTo(getPosFromAngle(center, start, inner), inner, inner, 0, false, false)
	} else if !full {
		pat.AbsLineTo(center)
	}
	pat.ClosePath()
	return pat
}

// roundedArcPath approximates rounded corners by cutting each corner with a
// small arc of the corner radius.
func roundedArcPath(center svg.Pos, inner, outer, start, end, corner float64) svg.Path {
	var (
		pat   = getBasePath()
		ocut  = math.Min(corner/outer, (end-start)/2)
		mid   = (start + end) / 2
		large = end-start-2*ocut > math.Pi
	)
	pat.AbsMoveTo(getPosFromAngle(center, start, outer-corner))
	pat.AbsArcTo(getPosFromAngle(center, start+ocut, outer), corner, corner, 0, false, true)
	if large {
		pat.AbsArcTo(getPosFromAngle(center, mid, outer), outer, outer, 0, false, true)
	}
	pat.AbsArcTo(getPosFromAngle(center, end-ocut, outer), outer, outer, 0, false, true)
	pat.AbsArcTo(getPosFromAngle(center, end, outer-corner), corner, corner, 0, false, true)
	if inner > 0 {
		icut := math.Min(corner/inner, (end-start)/2)
		pat.AbsLineTo(getPosFromAngle(center, end, inner+corner))
		pat.AbsArcTo(getPosFromAngle(center, end-icut, inner), corner, corner, 0, false, true)
		if large {
			pat.AbsArcTo(getPosFromAngle(center, mid, inner), inner, inner, 0, false, false)
		}
		pat.AbsArcTo(getPosFromAngle(center, start+icut, inner), inner, inner, 0, false, false)
		pat.AbsArcTo(getPosFromAngle(center, start, inner+corner), corner, corner, 0, false, true)
	} else {
		pat.AbsLineTo(center)
	}
	pat.ClosePath()
	return pat
}
