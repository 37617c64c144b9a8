package chartdeck

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/midbel/chartdeck/config"
)

func legendItems(n int) []LegendItem {
	var list []LegendItem
	for i := 0; i < n; i++ {
		list = append(list, LegendItem{
			Key:   fmt.Sprintf("s%d", i),
			Label: fmt.Sprintf("series %d", i),
			Color: config.DefaultPalette[i%len(config.DefaultPalette)],
		})
	}
	return list
}

func TestLayoutLegendRows(t *testing.T) {
	tests := []struct {
		Name     string
		Items    int
		Width    float64
		Position config.LegendPosition
		Rows     int
		First    int
	}{
		{
			Name:     "single-row",
			Items:    3,
			Width:    800,
			Position: config.LegendBottom,
			Rows:     1,
			First:    3,
		},
		{
			Name:     "two-rows",
			Items:    9,
			Width:    800,
			Position: config.LegendTop,
			Rows:     2,
			First:    5,
		},
		{
			Name:     "never-more-than-two",
			Items:    30,
			Width:    400,
			Position: config.LegendBottom,
			Rows:     2,
			First:    15,
		},
		{
			Name:     "vertical",
			Items:    4,
			Width:    200,
			Position: config.LegendRight,
			Rows:     4,
			First:    1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			var (
				area = Rect{Width: tt.Width, Height: 400}
				lg   = LayoutLegend(legendItems(tt.Items), tt.Position, area, 12, 0, DefaultLegendPolicy, nil)
			)
			if lg.Rows != tt.Rows {
				t.Fatalf("rows mismatched! want %d, got %d", tt.Rows, lg.Rows)
			}
			if len(lg.Entries) != tt.Items {
				t.Fatalf("entries mismatched! want %d, got %d", tt.Items, len(lg.Entries))
			}
			var first int
			for _, e := range lg.Entries {
				if e.Box.Y == lg.Entries[0].Box.Y {
					first++
				}
			}
			if first != tt.First {
				t.Errorf("items on first row mismatched! want %d, got %d", tt.First, first)
			}
		})
	}
}

func TestLayoutLegendFit(t *testing.T) {
	var (
		area = Rect{X: 0, Y: 350, Width: 800, Height: 50}
		lg   = LayoutLegend(legendItems(2), config.LegendBottom, area, 12, 0, DefaultLegendPolicy, nil)
		bg   = lg.Background
	)
	for _, e := range lg.Entries {
		if !bg.Contains(e.Pos) {
			t.Errorf("%s: label outside legend background", e.Key)
		}
		if e.Swatch.X < bg.X || e.Swatch.Right() > bg.Right() {
			t.Errorf("%s: swatch outside legend background", e.Key)
		}
	}
	var (
		want = area.Center()
		got  = bg.Center()
	)
	if math.Abs(want.X-got.X) > epsilon || math.Abs(want.Y-got.Y) > epsilon {
		t.Errorf("background should be centered: want %v, got %v", want, got)
	}
	if bg.Width >= float64(len(lg.Entries))*DefaultLegendPolicy.ItemWidth+2*DefaultLegendPolicy.Padding {
		t.Errorf("background should be sized on the content, not the slots")
	}
}

func TestLayoutLegendMore(t *testing.T) {
	var (
		area = Rect{Width: 800, Height: 60}
		lg   = LayoutLegend(legendItems(10), config.LegendBottom, area, 12, 4, DefaultLegendPolicy, nil)
	)
	if len(lg.Entries) != 4 {
		t.Fatalf("only 4 entries should be placed, got %d", len(lg.Entries))
	}
	if lg.More == nil {
		t.Fatalf("more indicator expected")
	}
	if lg.More.Count != 6 || lg.More.Text != "+6 more" {
		t.Errorf("more indicator mismatched! got %d (%s)", lg.More.Count, lg.More.Text)
	}
	if lg.More.Pos.X < lg.Background.Right() {
		t.Errorf("more indicator should follow the legend background")
	}
}

func TestTruncate(t *testing.T) {
	var (
		measurer = GlyphMeasurer{Ratio: 0.5}
		label    = "a rather long series name"
	)
	got := truncate(label, 60, 10, measurer)
	if !strings.HasSuffix(got, ellipsis) {
		t.Fatalf("ellipsis expected, got %q", got)
	}
	if w := measurer.Measure(got, 10); w > 60 {
		t.Errorf("truncated text too wide: %f", w)
	}
	if got := truncate("short", 60, 10, measurer); got != "short" {
		t.Errorf("short text should be kept, got %q", got)
	}
}

func TestReserveLegend(t *testing.T) {
	p := DefaultLegendPolicy
	if got := ReserveLegend(0, config.LegendBottom, 800, 12, p); got != 0 {
		t.Errorf("no items should not reserve space, got %f", got)
	}
	one := ReserveLegend(2, config.LegendBottom, 800, 12, p)
	two := ReserveLegend(20, config.LegendBottom, 800, 12, p)
	if two <= one {
		t.Errorf("two rows should take more space than one: %f <= %f", two, one)
	}
	if got := ReserveLegend(20, config.LegendLeft, 800, 12, p); got != p.ItemWidth+2*p.Padding {
		t.Errorf("vertical legends reserve a fixed width, got %f", got)
	}
}

func TestComputeLayoutTruncatedLegend(t *testing.T) {
	base := config.New(config.Line).Common()
	base.ShowLegend = true
	base.LegendPosition = config.LegendBottom
	base.LegendMaxItems = 3

	var (
		size = Size{Width: 800, Height: 400}
		all  = computeLayout(base, size, 20, Options{}, false)
		kept = computeLayout(base, size, 3, Options{}, false)
	)
	if all.Legend.Height != kept.Legend.Height {
		t.Errorf("legend should reserve space for the kept items only: %f != %f", all.Legend.Height, kept.Legend.Height)
	}
	if all.Plot.Height != kept.Plot.Height {
		t.Errorf("plot height mismatched! want %f, got %f", kept.Plot.Height, all.Plot.Height)
	}
}
