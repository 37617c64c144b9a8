package chartdeck

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/midbel/chartdeck/config"
	"github.com/midbel/svg"
)

// TextMeasurer returns the rendered width of a text at a given font size.
type TextMeasurer interface {
	Measure(text string, size float64) float64
}

// GlyphMeasurer estimates text width from an average glyph width expressed
// as a fraction of the font size.
type GlyphMeasurer struct {
	Ratio float64
}

func (g GlyphMeasurer) Measure(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * g.Ratio
}

var DefaultMeasurer TextMeasurer = GlyphMeasurer{Ratio: 0.6}

// LegendPolicy holds the tunable values of the legend layout.
type LegendPolicy struct {
	// ItemWidth is the width of the slot given to each item in horizontal
	// legends and the width of vertical legends.
	ItemWidth float64
	Swatch    float64
	Gap       float64
	// RowHeight is a factor of the legend font size.
	RowHeight float64
	Padding   float64
}

var DefaultLegendPolicy = LegendPolicy{
	ItemWidth: 120,
	Swatch:    12,
	Gap:       6,
	RowHeight: 1.8,
	Padding:   8,
}

type LegendItem struct {
	Key    string
	Label  string
	Color  string
	Hidden bool
}

type LegendEntry struct {
	LegendItem
	Text   string
	Box    Rect
	Swatch Rect
	Pos    svg.Pos
}

type LegendMore struct {
	Count int
	Text  string
	Pos   svg.Pos
}

// Legend is the laid out legend of a chart.
type Legend struct {
	Position   config.LegendPosition
	FontSize   float64
	Rows       int
	Entries    []LegendEntry
	Background Rect
	More       *LegendMore
}

func (g Legend) Empty() bool {
	return len(g.Entries) == 0
}

// legendRows returns the number of rows of a horizontal legend: one when
// every item fits on a single row, two otherwise.
func legendRows(n int, available float64, policy LegendPolicy) int {
	if n == 0 {
		return 0
	}
	if float64(n)*policy.ItemWidth <= available {
		return 1
	}
	return 2
}

// legendShown returns how many of n items are drawn, the others being
// counted in the "+K more" indicator.
func legendShown(n, maxItems int) int {
	if maxItems > 0 && n > maxItems {
		return maxItems
	}
	return n
}

// ReserveLegend returns the space taken by a legend of n items: a height for
// top and bottom legends, a width for left and right legends.
func ReserveLegend(n int, pos config.LegendPosition, available, font float64, policy LegendPolicy) float64 {
	if n == 0 {
		return 0
	}
	if pos.Vertical() {
		return policy.ItemWidth + 2*policy.Padding
	}
	rows := legendRows(n, available-2*policy.Padding, policy)
	return float64(rows)*font*policy.RowHeight + 2*policy.Padding
}

// LayoutLegend places items inside area. Items are first put in fixed width
// slots, then the content is measured and the background is sized and
// centered from that measure.
func LayoutLegend(items []LegendItem, pos config.LegendPosition, area Rect, font float64, maxItems int, policy LegendPolicy, measurer TextMeasurer) Legend {
	lg := Legend{
		Position: pos,
		FontSize: font,
	}
	if len(items) == 0 {
		return lg
	}
	if measurer == nil {
		measurer = DefaultMeasurer
	}
	shown := items[:legendShown(len(items), maxItems)]
	rowHeight := font * policy.RowHeight
	if pos.Vertical() {
		lg.Rows = len(shown)
		for i, it := range shown {
			box := Rect{
				X:      area.X + policy.Padding,
				Y:      area.Y + policy.Padding + float64(i)*rowHeight,
				Width:  area.Width - 2*policy.Padding,
				Height: rowHeight,
			}
			lg.Entries = append(lg.Entries, placeEntry(it, box, font, policy, measurer))
		}
	} else {
		lg.Rows = legendRows(len(shown), area.Width-2*policy.Padding, policy)
		var (
			first = int(math.Ceil(float64(len(shown)) / float64(lg.Rows)))
			rows  = [][]LegendItem{shown}
		)
		if lg.Rows > 1 {
			rows = [][]LegendItem{shown[:first], shown[first:]}
		}
		for r, row := range rows {
			var (
				width = float64(len(row)) * policy.ItemWidth
				left  = area.X + (area.Width-width)/2
				top   = area.Y + policy.Padding + float64(r)*rowHeight
			)
			for j, it := range row {
				box := Rect{
					X:      left + float64(j)*policy.ItemWidth,
					Y:      top,
					Width:  policy.ItemWidth,
					Height: rowHeight,
				}
				lg.Entries = append(lg.Entries, placeEntry(it, box, font, policy, measurer))
			}
		}
	}
	lg.fit(area, policy, measurer)
	if n := len(items) - len(shown); n > 0 {
		lg.More = &LegendMore{
			Count: n,
			Text:  fmt.Sprintf("+%d more", n),
		}
		if pos.Vertical() {
			lg.More.Pos = svg.NewPos(lg.Background.X+policy.Padding, lg.Background.Bottom()+rowHeight/2)
		} else {
			lg.More.Pos = svg.NewPos(lg.Background.Right()+policy.Gap, lg.Background.Y+lg.Background.Height/2)
		}
	}
	return lg
}

func placeEntry(it LegendItem, box Rect, font float64, policy LegendPolicy, measurer TextMeasurer) LegendEntry {
	var (
		room  = box.Width - policy.Swatch - policy.Gap
		entry = LegendEntry{
			LegendItem: it,
			Box:        box,
			Text:       truncate(it.Label, room, font, measurer),
		}
	)
	entry.Swatch = Rect{
		X:      box.X,
		Y:      box.Y + (box.Height-policy.Swatch)/2,
		Width:  policy.Swatch,
		Height: policy.Swatch,
	}
	entry.Pos = svg.NewPos(box.X+policy.Swatch+policy.Gap, box.Y+box.Height/2)
	return entry
}

// fit measures the placed entries, sizes the background to the content plus
// padding and moves everything so the background is centered in area.
func (g *Legend) fit(area Rect, policy LegendPolicy, measurer TextMeasurer) {
	var content Rect
	for _, e := range g.Entries {
		text := Rect{
			X:      e.Pos.X,
			Y:      e.Pos.Y - g.FontSize/2,
			Width:  measurer.Measure(e.Text, g.FontSize),
			Height: g.FontSize,
		}
		content = content.Union(e.Swatch).Union(text)
	}
	g.Background = content.Outset(policy.Padding)

	var (
		want = area.Center()
		got  = g.Background.Center()
		dx   = want.X - got.X
		dy   = want.Y - got.Y
	)
	if g.Position.Vertical() {
		dx = 0
	}
	g.Background.X += dx
	g.Background.Y += dy
	for i := range g.Entries {
		g.Entries[i].Box.X += dx
		g.Entries[i].Box.Y += dy
		g.Entries[i].Swatch.X += dx
		g.Entries[i].Swatch.Y += dy
		g.Entries[i].Pos.X += dx
		g.Entries[i].Pos.Y += dy
	}
}

const ellipsis = "…"

func truncate(str string, room, font float64, measurer TextMeasurer) string {
	if room <= 0 || measurer.Measure(str, font) <= room {
		return str
	}
	runes := []rune(str)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		cut := string(runes) + ellipsis
		if measurer.Measure(cut, font) <= room {
			return cut
		}
	}
	return ellipsis
}
