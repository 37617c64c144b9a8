package render

import (
	"github.com/midbel/chartdeck"
	"github.com/midbel/svg"
)

// drawAxis draws an axis along one side of plot. Grid lines cross the plot
// when grid is set.
func drawAxis(ax chartdeck.Axis, plot chartdeck.Rect, grid bool, font float64, style Style, alpha float64) svg.Element {
	var (
		g      svg.Group
		stroke = svg.NewStroke(style.Line.Color, style.Line.Width)
		size   = plot.Height
	)
	stroke.Opacity = style.Line.Opacity * alpha
	g.Class = []string{"axis"}
	switch ax.Orientation {
	case chartdeck.OrientLeft:
		g.Transform = svg.Translate(plot.X, 0)
		size = plot.Width
	case chartdeck.OrientRight:
		g.Transform = svg.Translate(plot.Right(), 0)
		size = plot.Width
	case chartdeck.OrientTop:
		g.Transform = svg.Translate(0, plot.Y)
	default:
		g.Transform = svg.Translate(0, plot.Bottom())
	}
	d := domainLine(ax.Orientation, ax.Origin, ax.Length, stroke)
	g.Append(d.AsElement())

	for _, t := range ax.Ticks {
		grp := svg.NewGroup(svg.WithTranslate(t.Pos, 0))
		if ax.Vertical() {
			grp.Transform.TX = 0
			grp.Transform.TY = t.Pos
		}
		if ax.Band == 0 {
			tick := lineTick(ax.Orientation, 0, font*0.5, stroke)
			grp.Append(tick.AsElement())
		}
		if grid {
			sk := svg.NewStroke(style.Grid.Color, style.Line.Width)
			sk.Opacity = style.Grid.Opacity * alpha
			tick := lineTick(ax.Orientation, 0, -size, sk)
			grp.Append(tick.AsElement())
		}
		text := tickText(ax.Orientation, t.Label, font)
		grp.Append(getColoredText(text, style.Text.Muted, alpha))
		g.Append(grp.AsElement())
	}
	if ax.Label != "" {
		g.Append(axisLabel(ax, font, style, alpha))
	}
	return g.AsElement()
}

// axisLabel draws the title of an axis below the tick labels of horizontal
// axes, rotated left of the tick labels of vertical axes.
func axisLabel(ax chartdeck.Axis, font float64, style Style, alpha float64) svg.Element {
	var (
		mid = ax.Origin + ax.Length/2
		txt = getText(ax.Label, svg.NewPos(0, 0), font, "middle", "auto")
		grp svg.Group
	)
	switch ax.Orientation {
	case chartdeck.OrientLeft:
		grp.Transform = svg.Translate(-font*4.4, mid)
		grp.Transform.RA = -90
	case chartdeck.OrientRight:
		grp.Transform = svg.Translate(font*4.4, mid)
		grp.Transform.RA = 90
	case chartdeck.OrientTop:
		grp.Transform = svg.Translate(mid, -font*2.6)
	default:
		txt.Baseline = "hanging"
		grp.Transform = svg.Translate(mid, font*2.2)
	}
	grp.Append(getColoredText(txt, style.Text.Color, alpha))
	return grp.AsElement()
}

func domainLine(orient chartdeck.Orientation, origin, length float64, stroke svg.Stroke) svg.Line {
	var (
		pos1 = svg.NewPos(origin, 0)
		pos2 = svg.NewPos(origin+length, 0)
	)
	if orient.Vertical() {
		pos1.X, pos1.Y = pos1.Y, pos1.X
		pos2.X, pos2.Y = pos2.Y, pos2.X
	}
	d := svg.NewLine(pos1, pos2)
	d.Stroke = stroke
	return d
}

func lineTick(orient chartdeck.Orientation, offset, size float64, stroke svg.Stroke) svg.Line {
	var (
		pos1 = svg.NewPos(offset, 0)
		pos2 = svg.NewPos(offset, size)
	)
	switch {
	case orient.Vertical() && !orient.Reverse():
		pos2.X, pos2.Y = -pos2.Y, pos2.X
		pos1.X, pos1.Y = 0, offset
	case orient.Vertical() && orient.Reverse():
		pos2.X, pos2.Y = pos2.Y, pos2.X
		pos1.X, pos1.Y = 0, offset
	case !orient.Vertical() && orient.Reverse():
		pos2.Y = -pos2.Y
	default:
	}
	tick := svg.NewLine(pos1, pos2)
	tick.Stroke = stroke
	return tick
}

func tickText(orient chartdeck.Orientation, str string, font float64) svg.Text {
	var (
		base   = "hanging"
		anchor = "middle"
		x, y   = 0.0, font * 0.8
	)
	switch {
	case orient.Vertical() && !orient.Reverse():
		base = "middle"
		anchor = "end"
		x, y = -y, x
	case orient.Vertical() && orient.Reverse():
		base = "middle"
		anchor = "start"
		x, y = y, x
	case !orient.Vertical() && orient.Reverse():
		base = "auto"
		y = -y
	default:
	}
	return getText(str, svg.NewPos(x, y), font, anchor, base)
}
