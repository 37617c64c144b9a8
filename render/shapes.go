package render

import (
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/svg"
)

// PointFunc draws a marker of the given size centered on a position.
type PointFunc func(pos svg.Pos, size float64, fill svg.Fill) svg.Element

func getPointFunc(style config.PointStyle) PointFunc {
	switch style {
	case config.PointSquare:
		return getSquare
	case config.PointDiamond:
		return getDiamond
	default:
		return getCircle
	}
}

func getCircle(pos svg.Pos, size float64, fill svg.Fill) svg.Element {
	var el svg.Circle
	el.Pos = pos
	el.Fill = fill
	el.Radius = size
	return el.AsElement()
}

func getSquare(pos svg.Pos, size float64, fill svg.Fill) svg.Element {
	pos.X -= size
	pos.Y -= size

	var el svg.Rect
	el.Pos = pos
	el.Dim = svg.NewDim(size*2, size*2)
	el.Fill = fill

	return el.AsElement()
}

func getDiamond(pos svg.Pos, size float64, fill svg.Fill) svg.Element {
	pos.X -= size
	pos.Y -= size

	var el svg.Rect
	el.Pos = pos
	el.Dim = svg.NewDim(size*2, size*2)
	el.Fill = fill
	el.Transform.RA = 45
	el.Transform.RX = pos.X + size
	el.Transform.RY = pos.Y + size

	return el.AsElement()
}

func getBaseGroup(color string, class ...string) svg.Group {
	var g svg.Group
	if color != "" {
		g.Fill = svg.NewFill(color)
		g.Stroke = svg.NewStroke(color, 1)
	}
	g.Class = class
	return g
}

func getStroke(color string, width, opacity float64, style config.LineStyle) svg.Stroke {
	sk := svg.NewStroke(color, width)
	sk.Opacity = opacity
	switch style {
	case config.StyleDashed:
		sk.DashArray(6)
	case config.StyleDotted:
		sk.DashArray(2)
	default:
	}
	return sk
}

func getFill(color string, opacity float64) svg.Fill {
	fill := svg.NewFill(color)
	fill.Opacity = opacity
	return fill
}

func getNoFill() svg.Fill {
	return svg.NewFill("none")
}

func getText(str string, pos svg.Pos, size float64, anchor, base string) svg.Text {
	txt := svg.NewText(str)
	txt.Font = svg.NewFont(size)
	txt.Pos = pos
	txt.Anchor = anchor
	txt.Baseline = base
	return txt
}

// getColoredText wraps a text in a group filled with color.
func getColoredText(txt svg.Text, color string, opacity float64) svg.Element {
	g := svg.NewGroup(svg.WithFill(getFill(color, opacity)))
	g.Append(txt.AsElement())
	return g.AsElement()
}

func getRect(x, y, w, h float64, fill svg.Fill) svg.Rect {
	var el svg.Rect
	el.Pos = svg.NewPos(x, y)
	el.Dim = svg.NewDim(w, h)
	el.Fill = fill
	return el
}
