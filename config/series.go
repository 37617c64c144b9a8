package config

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/midbel/chartdeck/format"
)

type LineStyle string

const (
	StyleSolid  LineStyle = "solid"
	StyleDashed LineStyle = "dashed"
	StyleDotted LineStyle = "dotted"
)

type PointStyle string

const (
	PointCircle  PointStyle = "circle"
	PointSquare  PointStyle = "square"
	PointDiamond PointStyle = "diamond"
)

// SeriesConfig is the display configuration of one data series. Zero values
// of the optional fields mean the chart defaults apply.
type SeriesConfig struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	DataColumn  string       `json:"dataColumn" yaml:"dataColumn"`
	Color       string       `json:"color" yaml:"color"`
	Visible     bool         `json:"visible" yaml:"visible"`
	LineWidth   float64      `json:"lineWidth,omitempty" yaml:"lineWidth,omitempty"`
	PointRadius float64      `json:"pointRadius,omitempty" yaml:"pointRadius,omitempty"`
	LineStyle   LineStyle    `json:"lineStyle,omitempty" yaml:"lineStyle,omitempty"`
	PointStyle  PointStyle   `json:"pointStyle,omitempty" yaml:"pointStyle,omitempty"`
	Opacity     float64      `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Formatter   *format.Spec `json:"formatter,omitempty" yaml:"formatter,omitempty"`
}

// SeriesPatch lists the fields to change on a series. Nil fields are left
// untouched.
type SeriesPatch struct {
	Name        *string
	DataColumn  *string
	Color       *string
	Visible     *bool
	LineWidth   *float64
	PointRadius *float64
	LineStyle   *LineStyle
	PointStyle  *PointStyle
	Opacity     *float64
	Formatter   *format.Spec
}

var (
	ErrNoColumn      = errors.New("no column available")
	ErrSeriesUnknown = errors.New("series not found")
	ErrColumnUsed    = errors.New("column already used")
	ErrXAxisColumn   = errors.New("column used as x axis")
)

// Editor is the only mutation path of a chart configuration and its series.
// After every operation, the y axis keys of the configuration are the data
// columns of the series and the disabled list of the configuration is made
// of the data columns of the hidden series.
type Editor struct {
	cfg        Config
	series     []SeriesConfig
	colors     ColorConfig
	formatters map[string]format.Spec
	columns    []string
	picker     colorPicker

	logger *slog.Logger
}

type EditorOption func(*Editor)

// WithColumns sets the data keys available for new series.
func WithColumns(columns []string) EditorOption {
	return func(e *Editor) {
		e.columns = slices.Clone(columns)
	}
}

// WithPalette sets the palette new series take their color from.
func WithPalette(p Palette) EditorOption {
	return func(e *Editor) {
		e.picker.palette = p
	}
}

// WithRand sets the source used once the palette is exhausted.
func WithRand(r *rand.Rand) EditorOption {
	return func(e *Editor) {
		e.picker.rand = r
	}
}

func NewEditor(cfg Config, opts ...EditorOption) *Editor {
	if cfg == nil {
		cfg = New(Line)
	}
	e := Editor{
		cfg:        cfg.Clone(),
		colors:     make(ColorConfig),
		formatters: make(map[string]format.Spec),
		picker: colorPicker{
			palette: DefaultPalette,
			rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
		},
		logger: logger(),
	}
	for _, o := range opts {
		o(&e)
	}
	e.sync()
	return &e
}

// Open creates an editor from a decoded document. A document binding its x
// axis key to a series is rejected.
func Open(doc Document, opts ...EditorOption) (*Editor, error) {
	e := NewEditor(doc.Config, opts...)
	e.series = slices.Clone(doc.Series)
	if key := e.cfg.Common().XAxisKey; e.bound(key) {
		return nil, fmt.Errorf("%s: %w", key, ErrColumnUsed)
	}
	for k, v := range doc.Colors {
		e.colors[k] = v
	}
	for k, v := range doc.Formatters {
		e.formatters[k] = v
	}
	for _, s := range e.series {
		if _, ok := e.colors[s.DataColumn]; !ok && s.Color != "" {
			e.colors[s.DataColumn] = Pair(s.Color)
		}
	}
	e.sync()
	return e, nil
}

// Config returns a copy of the current configuration.
func (e *Editor) Config() Config {
	return e.cfg.Clone()
}

func (e *Editor) Type() ChartType {
	return e.cfg.Type()
}

// Series returns a copy of the series list.
func (e *Editor) Series() []SeriesConfig {
	return slices.Clone(e.series)
}

func (e *Editor) Columns() []string {
	return slices.Clone(e.columns)
}

func (e *Editor) SetColumns(columns []string) {
	e.columns = slices.Clone(columns)
}

// AddSeries creates a visible series for the first column not used yet by
// the x axis or another series.
func (e *Editor) AddSeries() (SeriesConfig, error) {
	for _, c := range e.columns {
		if e.available(c) {
			return e.AddSeriesFor(c)
		}
	}
	return SeriesConfig{}, ErrNoColumn
}

// AddSeriesFor creates a visible series for column.
func (e *Editor) AddSeriesFor(column string) (SeriesConfig, error) {
	if err := e.checkColumn(column, ""); err != nil {
		return SeriesConfig{}, err
	}
	s := SeriesConfig{
		ID:         uuid.NewString(),
		Name:       column,
		DataColumn: column,
		Color:      e.picker.pick(e.usedColors()),
		Visible:    true,
	}
	e.series = append(e.series, s)
	e.colors[column] = Pair(s.Color)
	e.sync()
	e.logger.Debug("series added", slog.String("id", s.ID), slog.String("column", column))
	return s, nil
}

// RemoveSeries deletes the series and the color and formatter of its
// column.
func (e *Editor) RemoveSeries(id string) error {
	x := e.index(id)
	if x < 0 {
		return fmt.Errorf("%s: %w", id, ErrSeriesUnknown)
	}
	s := e.series[x]
	e.series = slices.Delete(e.series, x, x+1)
	delete(e.colors, s.DataColumn)
	delete(e.formatters, s.DataColumn)
	e.sync()
	e.logger.Debug("series removed", slog.String("id", id), slog.String("column", s.DataColumn))
	return nil
}

// UpdateSeries applies patch to a series. Changing the data column moves its
// color and formatter to the new column.
func (e *Editor) UpdateSeries(id string, patch SeriesPatch) error {
	x := e.index(id)
	if x < 0 {
		return fmt.Errorf("%s: %w", id, ErrSeriesUnknown)
	}
	s := e.series[x]
	if patch.DataColumn != nil && *patch.DataColumn != s.DataColumn {
		next := *patch.DataColumn
		if err := e.checkColumn(next, id); err != nil {
			return err
		}
		if c, ok := e.colors[s.DataColumn]; ok {
			e.colors[next] = c
			delete(e.colors, s.DataColumn)
		}
		if f, ok := e.formatters[s.DataColumn]; ok {
			e.formatters[next] = f
			delete(e.formatters, s.DataColumn)
		}
		if s.Name == s.DataColumn {
			s.Name = next
		}
		s.DataColumn = next
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Color != nil {
		s.Color = *patch.Color
		e.colors[s.DataColumn] = Pair(s.Color)
	}
	if patch.Visible != nil {
		s.Visible = *patch.Visible
	}
	if patch.LineWidth != nil {
		s.LineWidth = *patch.LineWidth
	}
	if patch.PointRadius != nil {
		s.PointRadius = *patch.PointRadius
	}
	if patch.LineStyle != nil {
		s.LineStyle = *patch.LineStyle
	}
	if patch.PointStyle != nil {
		s.PointStyle = *patch.PointStyle
	}
	if patch.Opacity != nil {
		s.Opacity = *patch.Opacity
	}
	if patch.Formatter != nil {
		spec := *patch.Formatter
		s.Formatter = &spec
	}
	e.series[x] = s
	e.sync()
	return nil
}

// SetXAxis changes the x axis key. A column already bound to a series can
// not become the x axis.
func (e *Editor) SetXAxis(key string) error {
	if e.bound(key) {
		return fmt.Errorf("%s: %w", key, ErrColumnUsed)
	}
	e.cfg.Common().XAxisKey = key
	if c, ok := e.cfg.(*PieConfig); ok && c.LabelKey == "" {
		c.LabelKey = key
	}
	e.sync()
	return nil
}

// SetType switches the chart type. Common fields are kept, every series
// becomes visible again.
func (e *Editor) SetType(t ChartType) {
	prev := e.cfg.Type()
	e.cfg = Switch(e.cfg, t)
	for i := range e.series {
		e.series[i].Visible = true
	}
	e.sync()
	e.logger.Debug("chart type changed", slog.String("from", string(prev)), slog.String("to", string(e.cfg.Type())))
}

// Update applies fn to the current configuration. Fields owned by the series
// list are restored afterwards, so is the x axis key when fn moves it to a
// column bound to a series.
func (e *Editor) Update(fn func(Config)) error {
	prev := e.cfg.Common().XAxisKey
	fn(e.cfg)
	err := e.keepAxis(prev)
	e.sync()
	return err
}

// Apply sets the fields of p on the configuration. Like Update, the x axis
// key can not move to a column bound to a series.
func (e *Editor) Apply(p Partial) error {
	prev := e.cfg.Common().XAxisKey
	if err := p.Apply(e.cfg); err != nil {
		return err
	}
	err := e.keepAxis(prev)
	normalize(e.cfg)
	e.sync()
	return err
}

func (e *Editor) keepAxis(prev string) error {
	base := e.cfg.Common()
	if key := base.XAxisKey; key != prev && e.bound(key) {
		base.XAxisKey = prev
		return fmt.Errorf("%s: %w", key, ErrColumnUsed)
	}
	return nil
}

// SetFormatter attaches a formatter to a data column. An empty spec removes
// it.
func (e *Editor) SetFormatter(column string, spec format.Spec) {
	if spec.Type == "" {
		delete(e.formatters, column)
		return
	}
	e.formatters[column] = spec
}

// Visibility maps every series data column to its visibility.
func (e *Editor) Visibility() map[string]bool {
	vs := make(map[string]bool, len(e.series))
	for _, s := range e.series {
		vs[s.DataColumn] = s.Visible
	}
	return vs
}

// Colors returns the color of every series data column in the given theme.
func (e *Editor) Colors(theme Theme) map[string]string {
	cs := make(map[string]string, len(e.series))
	for _, s := range e.series {
		if p, ok := e.colors[s.DataColumn]; ok {
			cs[s.DataColumn] = p.For(theme)
			continue
		}
		cs[s.DataColumn] = Pair(s.Color).For(theme)
	}
	return cs
}

func (e *Editor) ColorConfig() ColorConfig {
	return e.colors.clone()
}

// Formatters returns the formatter of every column having one. A formatter
// set on a series wins over the one attached to its column.
func (e *Editor) Formatters() map[string]format.Func {
	fs := make(map[string]format.Func)
	for k, v := range e.formatters {
		fs[k] = v.Func()
	}
	for _, s := range e.series {
		if s.Formatter != nil {
			fs[s.DataColumn] = s.Formatter.Func()
		}
	}
	return fs
}

func (e *Editor) FormatterSpecs() map[string]format.Spec {
	return maps.Clone(e.formatters)
}

// Document returns the persistable state of the editor.
func (e *Editor) Document() Document {
	return Document{
		Config:     e.cfg.Clone(),
		ChartType:  e.cfg.Type(),
		Formatters: maps.Clone(e.formatters),
		Series:     slices.Clone(e.series),
		Colors:     e.colors.clone(),
	}
}

func (e *Editor) sync() {
	var (
		keys     = make([]string, 0, len(e.series))
		disabled = make([]string, 0, len(e.series))
		base     = e.cfg.Common()
	)
	for _, s := range e.series {
		keys = append(keys, s.DataColumn)
		if !s.Visible {
			disabled = append(disabled, s.DataColumn)
		}
	}
	base.YAxisKeys = keys
	e.cfg.setDisabled(disabled)
	for k := range e.colors {
		if !slices.Contains(keys, k) {
			delete(e.colors, k)
		}
	}
}

func (e *Editor) available(column string) bool {
	return e.checkColumn(column, "") == nil
}

func (e *Editor) checkColumn(column, self string) error {
	if column == e.cfg.Common().XAxisKey {
		return fmt.Errorf("%s: %w", column, ErrXAxisColumn)
	}
	for _, s := range e.series {
		if s.ID != self && s.DataColumn == column {
			return fmt.Errorf("%s: %w", column, ErrColumnUsed)
		}
	}
	return nil
}

// bound reports whether column is the data column of a series.
func (e *Editor) bound(column string) bool {
	if column == "" {
		return false
	}
	return slices.ContainsFunc(e.series, func(s SeriesConfig) bool {
		return s.DataColumn == column
	})
}

func (e *Editor) index(id string) int {
	return slices.IndexFunc(e.series, func(s SeriesConfig) bool {
		return s.ID == id
	})
}

func (e *Editor) usedColors() []string {
	list := make([]string, 0, len(e.series))
	for _, s := range e.series {
		list = append(list, s.Color)
	}
	return list
}
