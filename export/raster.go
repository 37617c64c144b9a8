package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/render"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

var ErrRaster = errors.New("rasterization failed")

const jpegQuality = 90

func exportPNG(w io.Writer, src Source) error {
	img, err := rasterize(src)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func exportJPEG(w io.Writer, src Source) error {
	img, err := rasterize(src)
	if err != nil {
		return err
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
}

// rasterize draws the standalone svg document of src, chart or placeholder,
// on an opaque image filled with the background of the chart.
func rasterize(src Source) (*image.RGBA, error) {
	var buf bytes.Buffer
	if err := exportSVG(&buf, src); err != nil {
		return nil, err
	}
	size, style := snapshot(src)
	icon, err := oksvg.ReadIconStream(&buf, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRaster, err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		icon.ViewBox.X, icon.ViewBox.Y = 0, 0
		icon.ViewBox.W, icon.ViewBox.H = size.Width, size.Height
	}
	var (
		width  = int(math.Ceil(size.Width))
		height = int(math.Ceil(size.Height))
		img    = image.NewRGBA(image.Rect(0, 0, width, height))
	)
	draw.Draw(img, img.Bounds(), image.NewUniform(background(style.Background)), image.Point{}, draw.Src)

	icon.SetTarget(0, 0, size.Width, size.Height)
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1)
	return img, nil
}

// snapshot gives the size and style the svg document of src is drawn with.
func snapshot(src Source) (chartdeck.Size, render.Style) {
	if scene, ok := src.Scene(); ok {
		outer := scene.Geometry.Frame().Outer
		return chartdeck.Size{Width: outer.Width, Height: outer.Height}, scene.Style
	}
	sig := src.Monitor().Current()
	size := sig.Size
	if size.Empty() {
		size = chartdeck.Size{
			Width:  config.DefaultWidth,
			Height: config.DefaultHeight,
		}
	}
	return size, render.StyleFor(sig.Theme)
}

func background(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.White
	}
	return c
}
