package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/chartdeck/display"
)

func salesChart(t *testing.T) *display.Chart {
	t.Helper()
	ds := &dataset.Dataset{
		Headers: []dataset.Header{
			{ID: "c-1", Name: "month", Type: dataset.TypeText, Data: []any{"Jan", "Feb", "Mar"}},
			{ID: "c-2", Name: "sales", Type: dataset.TypeNumber, Data: []any{100, 200, 150}},
		},
		RowCount:    3,
		ColumnCount: 2,
	}
	cfg := config.New(config.Line).(*config.LineConfig)
	cfg.XAxisKey = "month"
	cfg.Title = "Monthly sales"

	ed := config.NewEditor(cfg, config.WithColumns(ds.Names()))
	if _, err := ed.AddSeriesFor("sales"); err != nil {
		t.Fatalf("add series: %s", err)
	}
	ch := display.New(ed, display.Options{})
	if err := ch.SetDataset(ds); err != nil {
		t.Fatalf("set dataset: %s", err)
	}
	if !ch.Status().Ready() {
		t.Fatalf("chart not ready: %s", ch.State())
	}
	t.Cleanup(func() { ch.Close() })
	return ch
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		Input string
		Want  Format
	}{
		{Input: "JSON", Want: JSON},
		{Input: ".svg", Want: SVG},
		{Input: "htm", Want: HTML},
		{Input: "yml", Want: YAML},
		{Input: "jpg", Want: JPEG},
		{Input: "pdf", Want: Format("pdf")},
	}
	for _, tt := range tests {
		t.Run(tt.Input, func(t *testing.T) {
			if got := ParseFormat(tt.Input); got != tt.Want {
				t.Errorf("format mismatched! want %s, got %s", tt.Want, got)
			}
		})
	}
}

func TestRegistryFormats(t *testing.T) {
	got := Default().Formats()
	want := []Format{HTML, JSON, SVG, YAML}
	if !slices.Equal(got, want) {
		t.Errorf("formats mismatched! want %v, got %v", want, got)
	}
}

func TestExportErrors(t *testing.T) {
	var (
		ch  = salesChart(t)
		reg = NewRegistry()
	)
	reg.Register(SVG, ExporterFunc(exportSVG))
	tests := []struct {
		Format Format
		Err    error
	}{
		{Format: PNG, Err: ErrUnsupported},
		{Format: JPEG, Err: ErrUnsupported},
		{Format: "pdf", Err: ErrFormat},
	}
	for _, tt := range tests {
		t.Run(string(tt.Format), func(t *testing.T) {
			var buf bytes.Buffer
			err := reg.Export(&buf, tt.Format, ch)
			if !errors.Is(err, tt.Err) {
				t.Errorf("expected %v, got %v", tt.Err, err)
			}
			if buf.Len() > 0 {
				t.Errorf("nothing should be written on error")
			}
		})
	}
}

func TestExportJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Export(&buf, JSON, salesChart(t)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	var doc struct {
		ChartType string `json:"chartType"`
		Config    struct {
			XAxisKey  string   `json:"xAxisKey"`
			YAxisKeys []string `json:"yAxisKeys"`
		} `json:"config"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("invalid json: %s", err)
	}
	if doc.ChartType != string(config.Line) {
		t.Errorf("chart type mismatched! want line, got %s", doc.ChartType)
	}
	if doc.Config.XAxisKey != "c-1" {
		t.Errorf("x axis should be stored by id! got %s", doc.Config.XAxisKey)
	}
	if !slices.Equal(doc.Config.YAxisKeys, []string{"c-2"}) {
		t.Errorf("y axis should be stored by id! got %v", doc.Config.YAxisKeys)
	}
}

func TestExportSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Export(&buf, SVG, salesChart(t)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	str := buf.String()
	for _, want := range []string{"<svg", "Monthly sales", "Feb"} {
		if !strings.Contains(str, want) {
			t.Errorf("%s not found in document", want)
		}
	}
}

func TestExportSVGPlaceholder(t *testing.T) {
	ch := display.New(nil, display.Options{})
	defer ch.Close()

	var buf bytes.Buffer
	if err := Default().Export(&buf, SVG, ch); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if !strings.Contains(buf.String(), "No dataset selected") {
		t.Errorf("placeholder expected for a chart without dataset")
	}
}

func TestExportRaster(t *testing.T) {
	tests := []struct {
		Format Format
		Source func(*testing.T) Source
		Decode func(io.Reader) (image.Image, error)
	}{
		{
			Format: PNG,
			Source: func(t *testing.T) Source { return salesChart(t) },
			Decode: png.Decode,
		},
		{
			Format: JPEG,
			Source: func(t *testing.T) Source { return salesChart(t) },
			Decode: jpeg.Decode,
		},
		{
			Format: PNG,
			Source: func(t *testing.T) Source {
				ch := display.New(nil, display.Options{})
				t.Cleanup(func() { ch.Close() })
				return ch
			},
			Decode: png.Decode,
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.Format), func(t *testing.T) {
			var (
				buf bytes.Buffer
				src = tt.Source(t)
			)
			if err := Default().Export(&buf, tt.Format, src); err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			img, err := tt.Decode(&buf)
			if err != nil {
				t.Fatalf("decode %s: %s", tt.Format, err)
			}
			size, _ := snapshot(src)
			bounds := img.Bounds()
			if bounds.Dx() != int(math.Ceil(size.Width)) || bounds.Dy() != int(math.Ceil(size.Height)) {
				t.Errorf("image size mismatched! want %.0fx%.0f, got %dx%d", size.Width, size.Height, bounds.Dx(), bounds.Dy())
			}
			if _, _, _, a := img.At(0, 0).RGBA(); a != 0xffff {
				t.Errorf("background should be opaque")
			}
		})
	}
}

func TestExportHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Export(&buf, HTML, salesChart(t)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	str := buf.String()
	for _, want := range []string{"echarts", "Monthly sales", "sales"} {
		if !strings.Contains(str, want) {
			t.Errorf("%s not found in page", want)
		}
	}
}

func TestExportHTMLNotReady(t *testing.T) {
	ch := display.New(nil, display.Options{})
	defer ch.Close()

	var buf bytes.Buffer
	err := Default().Export(&buf, HTML, ch)
	if !errors.Is(err, display.ErrNotReady) {
		t.Errorf("expected %v, got %v", display.ErrNotReady, err)
	}
}

func TestExportDocumentWithoutConfig(t *testing.T) {
	ch := display.New(nil, display.Options{})
	defer ch.Close()

	var buf bytes.Buffer
	err := Default().Export(&buf, YAML, ch)
	if !errors.Is(err, display.ErrNoConfig) {
		t.Errorf("expected %v, got %v", display.ErrNoConfig, err)
	}
}
