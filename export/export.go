package export

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/chartdeck/display"
	"github.com/midbel/chartdeck/monitor"
	"github.com/midbel/chartdeck/render"
)

var (
	ErrFormat      = errors.New("unknown export format")
	ErrUnsupported = errors.New("unsupported export format")
)

func logger() *slog.Logger {
	return slog.Default().With(slog.String("module", "export"))
}

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	SVG  Format = "svg"
	HTML Format = "html"
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// ParseFormat normalizes a format name or a file extension.
func ParseFormat(str string) Format {
	str = strings.ToLower(strings.TrimSpace(str))
	str = strings.TrimPrefix(str, ".")
	switch str {
	case "jpg":
		return JPEG
	case "htm":
		return HTML
	case "yml":
		return YAML
	default:
		return Format(str)
	}
}

func (f Format) raster() bool {
	return f == PNG || f == JPEG
}

// Source is what exporters read from. It is implemented by *display.Chart.
type Source interface {
	Document() (config.Document, error)
	Resolver() dataset.Resolver
	Scene() (render.Scene, bool)
	Status() display.Status
	Monitor() *monitor.Monitor
}

type Exporter interface {
	Export(io.Writer, Source) error
}

type ExporterFunc func(io.Writer, Source) error

func (f ExporterFunc) Export(w io.Writer, src Source) error {
	return f(w, src)
}

type Registry struct {
	mu        sync.RWMutex
	exporters map[Format]Exporter
}

func NewRegistry() *Registry {
	return &Registry{
		exporters: make(map[Format]Exporter),
	}
}

// Default returns a registry with the document (json, yaml), image (svg,
// png, jpeg) and html exporters.
func Default() *Registry {
	r := NewRegistry()
	r.Register(JSON, ExporterFunc(exportJSON))
	r.Register(YAML, ExporterFunc(exportYAML))
	r.Register(SVG, ExporterFunc(exportSVG))
	r.Register(PNG, ExporterFunc(exportPNG))
	r.Register(JPEG, ExporterFunc(exportJPEG))
	r.Register(HTML, ExporterFunc(exportHTML))
	return r
}

func (r *Registry) Register(f Format, e Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exporters[f] = e
}

func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Format, 0, len(r.exporters))
	for f := range r.exporters {
		list = append(list, f)
	}
	slices.Sort(list)
	return list
}

// Export writes src to w in format f. Raster formats missing from r are
// reported as unsupported.
func (r *Registry) Export(w io.Writer, f Format, src Source) error {
	r.mu.RLock()
	e, ok := r.exporters[f]
	r.mu.RUnlock()
	if !ok {
		err := ErrFormat
		if f.raster() {
			err = ErrUnsupported
		}
		return fmt.Errorf("%s: %w", f, err)
	}
	if err := e.Export(w, src); err != nil {
		logger().Warn("export failed", slog.String("format", string(f)), slog.String("err", err.Error()))
		return err
	}
	return nil
}

func exportJSON(w io.Writer, src Source) error {
	doc, err := src.Document()
	if err != nil {
		return err
	}
	return config.EncodeJSON(w, doc, src.Resolver())
}

func exportYAML(w io.Writer, src Source) error {
	doc, err := src.Document()
	if err != nil {
		return err
	}
	return config.EncodeYAML(w, doc, src.Resolver())
}

// exportSVG writes a standalone document: the chart as drawn at the end of
// its transition or its placeholder.
func exportSVG(w io.Writer, src Source) error {
	scene, ok := src.Scene()
	if !ok {
		sig := src.Monitor().Current()
		return render.RenderPlaceholder(w, src.Status().Placeholder(), sig.Size, render.StyleFor(sig.Theme), true)
	}
	scene.Standalone = true
	scene.Animate = false

	ctrl := render.NewController(nil, nil)
	defer ctrl.Close()
	if err := ctrl.Update(scene); err != nil {
		return err
	}
	return ctrl.Render(w)
}
