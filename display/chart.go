package display

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/midbel/chartdeck"
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/chartdeck/dataset"
	"github.com/midbel/chartdeck/monitor"
	"github.com/midbel/chartdeck/ops"
	"github.com/midbel/chartdeck/render"
)

var (
	ErrNoConfig = errors.New("chart has no configuration")
	ErrClosed   = errors.New("chart closed")
	ErrNotReady = errors.New("chart not ready")
)

func logger() *slog.Logger {
	return slog.Default().With(slog.String("module", "display"))
}

type Options struct {
	// Size is the size of the container. The size set in the configuration
	// is used when empty.
	Size       chartdeck.Size
	Renderer   render.Renderer
	Clock      render.Clock
	Measurer   chartdeck.TextMeasurer
	Legend     chartdeck.LegendPolicy
	Easing     render.Easing
	Animate    bool
	Standalone bool
}

// Chart is one chart instance. It owns its editor, its monitor and its
// controller and redraws after every change of the dataset, of the
// configuration or of the container.
type Chart struct {
	mu     sync.Mutex
	editor *config.Editor
	source *dataset.Dataset
	data   *dataset.Dataset
	rows   []dataset.Point
	ops    ops.DatasetConfig
	opts   Options
	status Status
	closed bool
	follow bool

	monitor *monitor.Monitor
	ctrl    *render.Controller
	unsub   func()
}

// New creates a chart. A nil editor leaves the chart in NoConfig until a
// chart type is set.
func New(editor *config.Editor, opts Options) *Chart {
	c := Chart{
		editor: editor,
		opts:   opts,
		follow: opts.Size.Empty(),
		ctrl:   render.NewController(opts.Renderer, opts.Clock),
		status: Status{State: NoDataset},
	}
	size, theme := c.container()
	c.monitor = monitor.New(size, theme)
	c.unsub = c.monitor.Subscribe(func(monitor.Signal) {
		c.refresh()
	})
	c.refresh()
	return &c
}

// Status returns the state of the chart after the last change.
func (c *Chart) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Chart) State() State {
	return c.Status().State
}

// Monitor gives access to the size and theme signals of the chart.
func (c *Chart) Monitor() *monitor.Monitor {
	return c.monitor
}

// SetDataset replaces the dataset. The operations of the chart are applied
// to it before it is materialized.
func (c *Chart) SetDataset(ds *dataset.Dataset) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	data, err := ops.Apply(ds, c.ops)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.source = ds
	c.setData(data)
	c.mu.Unlock()

	c.refresh()
	return nil
}

// SetOperations replaces the operations applied to the dataset. Invalid
// operations are rejected and the previous ones are kept.
func (c *Chart) SetOperations(cfg ops.DatasetConfig) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	data, err := ops.Apply(c.source, cfg)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.ops = cfg
	c.setData(data)
	c.mu.Unlock()

	c.refresh()
	return nil
}

// SetType switches the chart type. A chart without configuration gets the
// defaults of the type.
func (c *Chart) SetType(t config.ChartType) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.editor == nil {
		cfg := config.CreateDefault(t, nil, c.rows)
		c.editor = config.NewEditor(cfg, config.WithColumns(c.data.Names()))
	} else {
		c.editor.SetType(t)
	}
	c.mu.Unlock()

	c.sync()
	c.refresh()
	return nil
}

// Edit runs fn with the editor of the chart and redraws the chart. The chart
// is redrawn even when fn fails as fn may have applied some changes.
func (c *Chart) Edit(fn func(*config.Editor) error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.editor == nil {
		c.mu.Unlock()
		return ErrNoConfig
	}
	err := fn(c.editor)
	c.mu.Unlock()

	c.sync()
	c.refresh()
	return err
}

// Document returns the persistable state of the chart.
func (c *Chart) Document() (config.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editor == nil {
		return config.Document{}, ErrNoConfig
	}
	return c.editor.Document(), nil
}

// Resolver maps the column ids of the current dataset to their names.
func (c *Chart) Resolver() dataset.Resolver {
	c.mu.Lock()
	defer c.mu.Unlock()
	return dataset.Resolve(c.source)
}

// Resize sets the size of the container. The chart stops following the size
// of its configuration.
func (c *Chart) Resize(width, height float64) {
	c.mu.Lock()
	c.follow = false
	c.mu.Unlock()
	c.monitor.Resize(width, height)
}

// Render writes the chart as it is now, or its placeholder.
func (c *Chart) Render(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if !c.status.Ready() {
		return c.placeholder(w)
	}
	return c.ctrl.Render(w)
}

// Snapshot draws the chart once its transition is over, or its placeholder.
func (c *Chart) Snapshot() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if !c.status.Ready() {
		var buf bytes.Buffer
		err := c.placeholder(&buf)
		return buf.Bytes(), err
	}
	return c.ctrl.Snapshot()
}

// Scene returns the scene drawn by the controller when the chart is ready.
func (c *Chart) Scene() (render.Scene, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.status.Ready() {
		return render.Scene{}, false
	}
	return c.ctrl.Scene()
}

// Play plays the entrance transition of the chart. A chart that is not ready
// gives its placeholder as single frame. sink must not call the chart.
func (c *Chart) Play(ctx context.Context, fps int, sink func([]byte) error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.status.Ready() {
		var buf bytes.Buffer
		err := c.placeholder(&buf)
		c.mu.Unlock()
		if err != nil {
			return err
		}
		return sink(buf.Bytes())
	}
	c.mu.Unlock()
	return c.ctrl.Play(ctx, fps, sink)
}

func (c *Chart) Enter(id string) (render.Tooltip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.status.Ready() {
		return render.Tooltip{}, ErrNotReady
	}
	base := c.editor.Config().Common()
	if !base.ShowTooltip {
		return render.Tooltip{}, nil
	}
	return c.ctrl.Enter(id)
}

func (c *Chart) Leave(id string) {
	c.ctrl.Leave(id)
}

func (c *Chart) MouseLeave() {
	c.ctrl.MouseLeave()
}

// Close stops any transition and detaches the chart from its monitor.
func (c *Chart) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	unsub := c.unsub
	c.mu.Unlock()

	unsub()
	c.monitor.Close()
	logger().Debug("chart closed")
	return c.ctrl.Close()
}

func (c *Chart) setData(data *dataset.Dataset) {
	c.data = data
	c.rows = nil
	if data != nil {
		c.rows = data.Points()
	}
	if c.editor != nil {
		c.editor.SetColumns(data.Names())
	}
}

// sync gives the monitor the theme and, when followed, the size of the
// configuration.
func (c *Chart) sync() {
	c.mu.Lock()
	var (
		size, theme = c.container()
		follow      = c.follow
	)
	c.mu.Unlock()

	c.monitor.SetOverride(theme)
	if follow {
		c.monitor.Resize(size.Width, size.Height)
	}
}

func (c *Chart) container() (chartdeck.Size, config.Theme) {
	var (
		size  = c.opts.Size
		theme = config.ThemeAuto
	)
	if c.editor == nil {
		return size, theme
	}
	base := c.editor.Config().Common()
	theme = base.Theme
	if c.follow {
		size = chartdeck.Size{
			Width:  base.Width,
			Height: base.Height,
		}
	}
	return size, theme
}

func (c *Chart) refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	var (
		sig  = c.monitor.Current()
		in   = Input{Dataset: c.data, Rows: c.rows}
		opts = chartdeck.Options{
			Theme:    sig.Theme,
			Measurer: c.opts.Measurer,
			Legend:   c.opts.Legend,
		}
	)
	if c.editor != nil {
		in.Config = c.editor.Config()
		in.Series = c.editor.Series()
		opts.Colors = c.editor.Colors(sig.Theme)
		opts.Formatters = c.editor.Formatters()
	}
	status, geo := Evaluate(in, sig.Size, opts)
	if status.State != c.status.State {
		logger().Debug("state changed", slog.String("from", string(c.status.State)), slog.String("to", string(status.State)))
	}
	if status.State == InvalidData && status.Err != nil {
		logger().Warn("invalid data", slog.String("column", status.Column), slog.String("err", status.Err.Error()))
	}
	c.status = status
	if !status.Ready() {
		c.ctrl.Stop()
		return
	}
	opts.Series = in.Series
	base := in.Config.Common()
	scene := render.Scene{
		Geometry:   geo,
		Config:     in.Config,
		Options:    opts,
		Style:      render.StyleFor(sig.Theme),
		Animate:    c.opts.Animate && base.EnableAnimation,
		Duration:   time.Duration(base.AnimationDuration) * time.Millisecond,
		Easing:     c.opts.Easing,
		Standalone: c.opts.Standalone,
	}
	if err := c.ctrl.Update(scene); err != nil {
		logger().Warn("scene not updated", slog.String("err", err.Error()))
	}
}

func (c *Chart) placeholder(w io.Writer) error {
	sig := c.monitor.Current()
	return render.RenderPlaceholder(w, c.status.Placeholder(), sig.Size, render.StyleFor(sig.Theme), c.opts.Standalone)
}
