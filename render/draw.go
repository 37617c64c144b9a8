package render

import (
	"math"

	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/slices"
	"github.com/midbel/svg"
)

func drawCartesian(c *chartdeck.Cartesian, style Style, alpha float64, hovered string) svg.Element {
	var (
		grp  = svg.NewGroup(svg.WithID("plot"))
		plot = c.Layout.Plot
		font = c.Layout.LabelSize
	)
	grp.Append(drawAxis(c.X, plot, c.ShowGrid && c.X.Band == 0, font, style, 1))
	grp.Append(drawAxis(c.Y, plot, c.ShowGrid && c.Y.Band == 0, font, style, 1))

	for _, s := range c.Series {
		sg := getBaseGroup("", "series", string(c.Kind))
		sg.Id = s.Key
		switch c.Kind {
		case config.Area:
			area := s.Area
			area.Fill = getFill(s.Color, s.Opacity*alpha)
			area.Stroke = svg.NewStroke("none", 0)
			sg.Append(area.AsElement())
			fallthrough
		case config.Line:
			line := s.Line
			line.Fill = getNoFill()
			line.Stroke = getStroke(s.Color, s.Width, alpha, s.LineStyle)
			sg.Append(line.AsElement())
		case config.Bar:
			for _, b := range s.Bars {
				rect := b.Rect
				if b.ID == hovered {
					rect = scaleRect(rect, chartdeck.HoverScale)
				}
				sg.Append(drawBar(rect, b.Radius, getFill(s.Color, alpha), b.Label))
			}
		}
		point := getPointFunc(s.PointStyle)
		for _, m := range s.Points {
			var (
				size = s.Radius
				show = s.Shown
			)
			if m.ID == hovered {
				size *= chartdeck.HoverScale
				show = true
			}
			if !show {
				continue
			}
			sg.Append(point(m.Pos, size, getFill(s.Color, s.Opacity*alpha)))
		}
		grp.Append(sg.AsElement())
	}
	return grp.AsElement()
}

func drawBar(rect chartdeck.Rect, radius float64, fill svg.Fill, title string) svg.Element {
	radius = math.Min(radius, math.Min(rect.Width, rect.Height)/2)
	if radius <= 0 {
		el := getRect(rect.X, rect.Y, rect.Width, rect.Height, fill)
		el.Title = title
		return el.AsElement()
	}
	var pat svg.Path
	pat.Rendering = "geometricPrecision"
	pat.Fill = fill
	pat.AbsMoveTo(svg.NewPos(rect.X+radius, rect.Y))
	pat.AbsLineTo(svg.NewPos(rect.Right()-radius, rect.Y))
	pat.AbsArcTo(svg.NewPos(rect.Right(), rect.Y+radius), radius, radius, 0, false, true)
	pat.AbsLineTo(svg.NewPos(rect.Right(), rect.Bottom()-radius))
	pat.AbsArcTo(svg.NewPos(rect.Right()-radius, rect.Bottom()), radius, radius, 0, false, true)
	pat.AbsLineTo(svg.NewPos(rect.X+radius, rect.Bottom()))
	pat.AbsArcTo(svg.NewPos(rect.X, rect.Bottom()-radius), radius, radius, 0, false, true)
	pat.AbsLineTo(svg.NewPos(rect.X, rect.Y+radius))
	pat.AbsArcTo(svg.NewPos(rect.X+radius, rect.Y), radius, radius, 0, false, true)
	pat.ClosePath()
	return pat.AsElement()
}

func scaleRect(r chartdeck.Rect, factor float64) chartdeck.Rect {
	var (
		c = r.Center()
		w = r.Width * factor
		h = r.Height * factor
	)
	return chartdeck.Rect{
		X:      c.X - w/2,
		Y:      c.Y - h/2,
		Width:  w,
		Height: h,
	}
}

// drawPie draws the slices swept up to sweep and their labels faded in up to
// fade.
func drawPie(p *chartdeck.Pie, style Style, sweep, fade float64, hovered string) svg.Element {
	grp := getBaseGroup("", "pie")
	grp.Id = "plot"
	for _, s := range p.Slices {
		pat := s.Path(p.Base, sweep)
		if s.ID == hovered && sweep >= 1 {
			pat = s.Hover()
		}
		pat.Fill = getFill(s.Color, 1)
		pat.Stroke = svg.NewStroke(style.Background, 1)
		grp.Append(pat.AsElement())
	}
	if !p.ShowLabels || fade <= 0 {
		return grp.AsElement()
	}
	labels := getBaseGroup("", "labels")
	for _, s := range p.Slices {
		if s.Span() <= 0 {
			continue
		}
		str := s.Label
		if p.ShowPercentage {
			str = formatPercent(s.Percent)
		}
		txt := getText(str, s.Anchor, p.LabelSize, "middle", "middle")
		labels.Append(getColoredText(txt, chartdeck.Contrast(s.Color), fade))
	}
	grp.Append(labels.AsElement())
	return grp.AsElement()
}

func drawHeatmap(h *chartdeck.Heatmap, style Style, alpha float64, hovered string) svg.Element {
	var (
		grp  = svg.NewGroup(svg.WithID("plot"))
		plot = h.Layout.Plot
		font = h.Layout.LabelSize
	)
	grp.Append(drawAxis(h.X, plot, false, font, style, 1))
	grp.Append(drawAxis(h.Y, plot, false, font, style, 1))

	cells := getBaseGroup("", "cells")
	for _, c := range h.Cells {
		rect := c.Rect
		if c.ID == hovered {
			rect = scaleRect(rect, chartdeck.HoverScale)
		}
		if h.BorderWidth > 0 && h.BorderColor != "" {
			border := getRect(rect.X, rect.Y, rect.Width, rect.Height, getFill(h.BorderColor, alpha))
			cells.Append(border.AsElement())
			rect = rect.Inset(h.BorderWidth / 2)
		}
		el := getRect(rect.X, rect.Y, rect.Width, rect.Height, getFill(c.Color, alpha))
		el.Title = c.Text
		cells.Append(el.AsElement())
		if h.ShowValues {
			txt := getText(c.Text, rect.Center(), font, "middle", "middle")
			cells.Append(getColoredText(txt, c.Ink, alpha))
		}
	}
	grp.Append(cells.AsElement())
	if h.Ramp != nil {
		grp.Append(drawRamp(*h.Ramp, font, style))
	}
	return grp.AsElement()
}

func drawRamp(r chartdeck.Ramp, font float64, style Style) svg.Element {
	grp := svg.NewGroup(svg.WithID("legend"))
	for i, c := range r.Stops {
		s := r.Step(i)
		el := getRect(s.X, s.Y, s.Width, s.Height, svg.NewFill(c))
		grp.Append(el.AsElement())
	}
	var (
		lo, hi = r.LabelPos()
		anchor = "start"
	)
	if r.Width >= r.Height {
		anchor = "middle"
	}
	for i, pos := range []svg.Pos{lo, hi} {
		txt := getText(r.Labels[i], pos, font, anchor, "middle")
		grp.Append(getColoredText(txt, style.Text.Muted, 1))
	}
	return grp.AsElement()
}

func drawCyclePlot(c *chartdeck.CyclePlot, style Style, alpha float64, hovered string) svg.Element {
	var (
		grp  = svg.NewGroup(svg.WithID("plot"))
		plot = c.Layout.Plot
		font = c.Layout.LabelSize
	)
	grp.Append(drawAxis(c.X, plot, false, font, style, 1))
	grp.Append(drawAxis(c.Y, plot, true, font, style, 1))

	for i, y := range c.Cycles {
		cg := getBaseGroup("", "cycle")
		cg.Id = y.Key
		if i > 0 {
			sep := svg.NewLine(svg.NewPos(y.Band.X, y.Band.Y), svg.NewPos(y.Band.X, y.Band.Bottom()))
			sep.Stroke = svg.NewStroke(style.Grid.Color, 1)
			sep.Stroke.Opacity = style.Grid.Opacity
			sep.Stroke.DashArray(5)
			cg.Append(sep.AsElement())
		}
		line := y.Line
		line.Fill = getNoFill()
		line.Stroke = getStroke(y.Color, c.Width, alpha, config.StyleSolid)
		cg.Append(line.AsElement())

		if c.ShowAverage && len(y.Points) > 0 {
			mean := svg.NewLine(slices.Fst(y.MeanLine[:]), slices.Lst(y.MeanLine[:]))
			mean.Stroke = getStroke(y.Color, c.Width/2, 0.7*alpha, config.StyleDashed)
			cg.Append(mean.AsElement())
		}
		for _, m := range y.Points {
			size := c.Width * 1.5
			if m.ID == hovered {
				size *= chartdeck.HoverScale
			}
			cg.Append(getCircle(m.Pos, size, getFill(y.Color, alpha)))
		}
		grp.Append(cg.AsElement())
	}
	return grp.AsElement()
}
