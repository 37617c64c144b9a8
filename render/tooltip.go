package render

import (
	"fmt"
	"math"

	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/svg"
)

var (
	TooltipOffset  = 12.0
	TooltipPadding = 8.0
)

// Tooltip is the content and the box of the tooltip shown over a hovered
// mark.
type Tooltip struct {
	ID      string
	Title   string
	Lines   []string
	Color   string
	Box     chartdeck.Rect
	Font    float64
	Percent float64
}

// makeTooltip builds the tooltip of mark with the formatters of the scene.
// The box is moved inside the chart when it would overflow.
func makeTooltip(mark chartdeck.Mark, scene Scene, measurer chartdeck.TextMeasurer) Tooltip {
	var (
		frame = scene.Geometry.Frame()
		font  = frame.LabelSize
		tip   = Tooltip{
			ID:      mark.ID,
			Title:   mark.Label,
			Color:   mark.Color,
			Font:    font,
			Percent: mark.Percent,
		}
		value = scene.Options.Format(mark.Series, mark.Value)
	)
	if font <= 0 {
		font = config.DefaultLabelFontSize
		tip.Font = font
	}
	switch scene.Geometry.Type() {
	case config.Pie, config.Donut:
		tip.Lines = append(tip.Lines, value)
		tip.Lines = append(tip.Lines, formatPercent(mark.Percent))
	case config.Heatmap:
		tip.Title = fmt.Sprintf("%s / %s", mark.Label, mark.Name)
		tip.Lines = append(tip.Lines, value)
	default:
		tip.Lines = append(tip.Lines, fmt.Sprintf("%s: %s", mark.Name, value))
	}
	var width float64
	for _, str := range append([]string{tip.Title}, tip.Lines...) {
		width = math.Max(width, measurer.Measure(str, font))
	}
	var (
		lines  = float64(len(tip.Lines) + 1)
		height = lines*font*1.4 + 2*TooltipPadding
	)
	tip.Box = chartdeck.Rect{
		X:      mark.Pos.X + TooltipOffset,
		Y:      mark.Pos.Y - TooltipOffset - height,
		Width:  width + 2*TooltipPadding,
		Height: height,
	}
	outer := frame.Outer
	if tip.Box.Right() > outer.Right() {
		tip.Box.X = mark.Pos.X - TooltipOffset - tip.Box.Width
	}
	if tip.Box.X < outer.X {
		tip.Box.X = outer.X
	}
	if tip.Box.Y < outer.Y {
		tip.Box.Y = mark.Pos.Y + TooltipOffset
	}
	if tip.Box.Bottom() > outer.Bottom() {
		tip.Box.Y = math.Max(outer.Y, outer.Bottom()-tip.Box.Height)
	}
	return tip
}

func drawTooltip(tip Tooltip, style Style) svg.Element {
	var (
		grp = svg.NewGroup(svg.WithID("tooltip"))
		box = getRect(tip.Box.X, tip.Box.Y, tip.Box.Width, tip.Box.Height, getFill(style.Tooltip.Border, 1))
		in  = tip.Box.Inset(1)
		bg  = getRect(in.X, in.Y, in.Width, in.Height, getFill(style.Tooltip.Background, 0.95))
		x   = tip.Box.X + TooltipPadding
		y   = tip.Box.Y + TooltipPadding
	)
	grp.Class = []string{"tooltip"}
	grp.Append(box.AsElement())
	grp.Append(bg.AsElement())

	title := getText(tip.Title, svg.NewPos(x, y), tip.Font, "start", "hanging")
	grp.Append(getColoredText(title, style.Tooltip.Color, 1))
	for i, str := range tip.Lines {
		pos := svg.NewPos(x, y+float64(i+1)*tip.Font*1.4)
		txt := getText(str, pos, tip.Font, "start", "hanging")
		color := style.Tooltip.Color
		if i == 0 && tip.Color != "" {
			color = tip.Color
		}
		grp.Append(getColoredText(txt, color, 1))
	}
	return grp.AsElement()
}

func formatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}
