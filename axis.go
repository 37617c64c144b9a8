package chartdeck

type Orientation int

const (
	OrientTop Orientation = 1 << iota
	OrientRight
	OrientBottom
	OrientLeft
)

func (o Orientation) Vertical() bool {
	return o == OrientLeft || o == OrientRight
}

func (o Orientation) Reverse() bool {
	return o == OrientRight || o == OrientTop
}

type Tick struct {
	Label string
	Pos   float64
}

// Axis is an axis laid out along one side of the plot area. Tick positions
// are absolute coordinates.
type Axis struct {
	Orientation
	Label  string
	Origin float64
	Length float64
	// Band is the width of a category, zero for continuous axes.
	Band  float64
	Ticks []Tick
}

func numberAxis(s Scaler[float64], orient Orientation, count int, format func(float64) string) Axis {
	ax := Axis{
		Orientation: orient,
		Origin:      s.Min(),
		Length:      s.Max() - s.Min(),
	}
	for _, v := range s.Values(count) {
		ax.Ticks = append(ax.Ticks, Tick{
			Label: format(v),
			Pos:   s.Scale(v),
		})
	}
	return ax
}

func categoryAxis(s Scaler[string], orient Orientation) Axis {
	ax := Axis{
		Orientation: orient,
		Origin:      s.Min(),
		Length:      s.Max() - s.Min(),
		Band:        s.Space(),
	}
	for _, v := range s.Values(0) {
		ax.Ticks = append(ax.Ticks, Tick{
			Label: v,
			Pos:   Center(s, v),
		})
	}
	return ax
}
