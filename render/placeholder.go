package render

import (
	"bufio"
	"io"

	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/svg"
)

// Placeholder is what is drawn in place of a chart that can not be drawn.
type Placeholder struct {
	Title string
	Hint  string
	// Error marks placeholders reporting invalid data.
	Error bool
}

var PlaceholderError = "#dc2626"

// RenderPlaceholder draws p centered in a box of the given size.
func RenderPlaceholder(w io.Writer, p Placeholder, size chartdeck.Size, style Style, standalone bool) error {
	if size.Empty() {
		size = chartdeck.Size{
			Width:  config.DefaultWidth,
			Height: config.DefaultHeight,
		}
	}
	var (
		el    = svg.NewSVG(svg.WithDimension(size.Width, size.Height))
		outer = chartdeck.Rect{Width: size.Width, Height: size.Height}
		inner = outer.Inset(1)
		font  = config.DefaultTitleFontSize
		mid   = outer.Center()
	)
	el.OmitProlog = !standalone

	border := style.Placeholder.Border
	if p.Error {
		border = PlaceholderError
	}
	box := getRect(outer.X, outer.Y, outer.Width, outer.Height, svg.NewFill(border))
	el.Append(box.AsElement())
	bg := getRect(inner.X, inner.Y, inner.Width, inner.Height, svg.NewFill(style.Placeholder.Background))
	el.Append(bg.AsElement())

	grp := getBaseGroup("", "placeholder")
	title := getText(p.Title, svg.NewPos(mid.X, mid.Y-font*0.6), font, "middle", "auto")
	color := style.Text.Color
	if p.Error {
		color = PlaceholderError
	}
	grp.Append(getColoredText(title, color, 1))
	if p.Hint != "" {
		hint := getText(p.Hint, svg.NewPos(mid.X, mid.Y+font*0.6), font*0.75, "middle", "hanging")
		grp.Append(getColoredText(hint, style.Text.Muted, 1))
	}
	el.Append(grp.AsElement())

	bw := bufio.NewWriter(w)
	el.Render(bw)
	return bw.Flush()
}
