package render

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/svg"
)

var (
	// LabelDelay is the time between the end of the sweep of the slices of
	// a pie chart and the start of the fade in of their labels.
	LabelDelay = 150 * time.Millisecond
	LabelFade  = 300 * time.Millisecond
)

// Scene is what a controller draws: a computed geometry and everything the
// drawing needs beside it.
type Scene struct {
	Geometry chartdeck.Geometry
	Config   config.Config
	Options  chartdeck.Options
	Style    Style
	Animate  bool
	Duration time.Duration
	Easing   Easing
	// Standalone adds the XML prolog to the document.
	Standalone bool
}

func (s Scene) duration() time.Duration {
	if !s.Animate || s.Duration < 0 {
		return 0
	}
	return s.Duration
}

// State is the transient state of a scene at the time it is drawn.
type State struct {
	Elapsed time.Duration
	Hover   *Tooltip
}

// Renderer draws a scene in the given state. Every call rebuilds the whole
// document.
type Renderer interface {
	Render(w io.Writer, scene Scene, state State) error
	// Length is the time taken by the entrance transition of the scene.
	Length(scene Scene) time.Duration
}

// SVGRenderer draws scenes as SVG documents.
type SVGRenderer struct {
	Measurer chartdeck.TextMeasurer
}

func (r SVGRenderer) Length(scene Scene) time.Duration {
	d := scene.duration()
	if d == 0 {
		return 0
	}
	if p, ok := scene.Geometry.(*chartdeck.Pie); ok && p.ShowLabels {
		d += LabelDelay + LabelFade
	}
	return d
}

func (r SVGRenderer) Render(w io.Writer, scene Scene, state State) error {
	if scene.Geometry == nil {
		return fmt.Errorf("no geometry to render")
	}
	var (
		frame = scene.Geometry.Frame()
		el    = svg.NewSVG(svg.WithDimension(frame.Outer.Width, frame.Outer.Height))
		base  *config.Base
	)
	if scene.Config != nil {
		base = scene.Config.Common()
	}
	el.OmitProlog = !scene.Standalone
	style := scene.Style.merge(base)

	bg := getRect(0, 0, frame.Outer.Width, frame.Outer.Height, svg.NewFill(style.Background))
	el.Append(bg.AsElement())

	var (
		elapsed = float64(state.Elapsed)
		length  = float64(scene.duration())
		sweep   = progress(scene.Easing, elapsed, 0, length)
		hovered string
	)
	if !scene.Animate {
		elapsed, length, sweep = 0, 0, 1
	}
	if state.Hover != nil {
		hovered = state.Hover.ID
	}
	if t := titleOf(scene.Geometry); t != "" {
		el.Append(drawTitle(t, frame, style))
	}
	switch g := scene.Geometry.(type) {
	case *chartdeck.Cartesian:
		el.Append(drawCartesian(g, style, sweep, hovered))
		el.Append(drawLegend(g.Legend, style, 1))
	case *chartdeck.Pie:
		fade := 1.0
		if scene.Animate && length > 0 {
			delay := length + float64(LabelDelay)
			fade = progress(Linear, elapsed, delay, float64(LabelFade))
		}
		el.Append(drawPie(g, style, sweep, fade, hovered))
		el.Append(drawLegend(g.Legend, style, 1))
	case *chartdeck.Heatmap:
		el.Append(drawHeatmap(g, style, sweep, hovered))
	case *chartdeck.CyclePlot:
		el.Append(drawCyclePlot(g, style, sweep, hovered))
		el.Append(drawLegend(g.Legend, style, 1))
	default:
		return fmt.Errorf("%T: geometry not supported", scene.Geometry)
	}
	if state.Hover != nil {
		el.Append(drawTooltip(*state.Hover, style))
	}

	bw := bufio.NewWriter(w)
	el.Render(bw)
	return bw.Flush()
}

func (r SVGRenderer) measurer() chartdeck.TextMeasurer {
	if r.Measurer == nil {
		return chartdeck.DefaultMeasurer
	}
	return r.Measurer
}

func titleOf(geo chartdeck.Geometry) string {
	switch g := geo.(type) {
	case *chartdeck.Cartesian:
		return g.Title
	case *chartdeck.Pie:
		return g.Title
	case *chartdeck.Heatmap:
		return g.Title
	case *chartdeck.CyclePlot:
		return g.Title
	default:
		return ""
	}
}

func drawTitle(str string, frame chartdeck.Layout, style Style) svg.Element {
	var (
		area = frame.Title
		pos  = svg.NewPos(area.X+area.Width/2, area.Y+area.Height/2)
		txt  = getText(str, pos, frame.TitleSize, "middle", "middle")
	)
	if area.Width == 0 {
		pos = svg.NewPos(frame.Outer.Width/2, frame.TitleSize)
		txt.Pos = pos
	}
	return getColoredText(txt, style.Text.Color, 1)
}

func drawLegend(lg chartdeck.Legend, style Style, alpha float64) svg.Element {
	grp := svg.NewGroup(svg.WithID("legend"))
	if lg.Empty() {
		return grp.AsElement()
	}
	bg := getRect(lg.Background.X, lg.Background.Y, lg.Background.Width, lg.Background.Height, getFill(style.Background, 0.8*alpha))
	grp.Append(bg.AsElement())
	for _, e := range lg.Entries {
		opacity := alpha
		if e.Hidden {
			opacity *= 0.4
		}
		sw := getRect(e.Swatch.X, e.Swatch.Y, e.Swatch.Width, e.Swatch.Height, getFill(e.Color, opacity))
		sw.Title = e.Label
		grp.Append(sw.AsElement())

		txt := getText(e.Text, e.Pos, lg.FontSize, "start", "middle")
		grp.Append(getColoredText(txt, style.Text.Color, opacity))
	}
	if lg.More != nil {
		txt := getText(lg.More.Text, lg.More.Pos, lg.FontSize, "start", "middle")
		grp.Append(getColoredText(txt, style.Text.Muted, alpha))
	}
	return grp.AsElement()
}
