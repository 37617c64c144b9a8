package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/midbel/chartdeck/dataset"
	"gopkg.in/yaml.v3"
)

var (
	DefaultWidth          float64 = 800
	DefaultHeight         float64 = 400
	DefaultAnimation              = 750
	DefaultTitleFontSize  float64 = 16
	DefaultLabelFontSize  float64 = 12
	DefaultLegendFontSize float64 = 12
	DefaultLegendMax              = 12
	DefaultXAxisKey               = "x"
	DefaultDonutRadius            = 0.5

	DefaultMargin = Margin{
		Top:    20,
		Right:  20,
		Bottom: 20,
		Left:   20,
	}
)

// Base holds the fields shared by every chart type. They survive a change of
// chart type.
type Base struct {
	Width             float64        `json:"width" yaml:"width"`
	Height            float64        `json:"height" yaml:"height"`
	Margin            Margin         `json:"margin" yaml:"margin"`
	XAxisKey          string         `json:"xAxisKey" yaml:"xAxisKey"`
	YAxisKeys         []string       `json:"yAxisKeys" yaml:"yAxisKeys"`
	Title             string         `json:"title" yaml:"title"`
	XAxisLabel        string         `json:"xAxisLabel" yaml:"xAxisLabel"`
	YAxisLabel        string         `json:"yAxisLabel" yaml:"yAxisLabel"`
	ShowLegend        bool           `json:"showLegend" yaml:"showLegend"`
	ShowGrid          bool           `json:"showGrid" yaml:"showGrid"`
	ShowTooltip       bool           `json:"showTooltip" yaml:"showTooltip"`
	EnableAnimation   bool           `json:"enableAnimation" yaml:"enableAnimation"`
	AnimationDuration int            `json:"animationDuration" yaml:"animationDuration"`
	Theme             Theme          `json:"theme" yaml:"theme"`
	BackgroundColor   string         `json:"backgroundColor" yaml:"backgroundColor"`
	TitleFontSize     float64        `json:"titleFontSize" yaml:"titleFontSize"`
	LabelFontSize     float64        `json:"labelFontSize" yaml:"labelFontSize"`
	LegendFontSize    float64        `json:"legendFontSize" yaml:"legendFontSize"`
	LegendPosition    LegendPosition `json:"legendPosition" yaml:"legendPosition"`
	LegendMaxItems    int            `json:"legendMaxItems" yaml:"legendMaxItems"`
}

func defaultBase() Base {
	return Base{
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		Margin:            DefaultMargin,
		XAxisKey:          DefaultXAxisKey,
		YAxisKeys:         []string{},
		ShowLegend:        true,
		ShowGrid:          true,
		ShowTooltip:       true,
		EnableAnimation:   true,
		AnimationDuration: DefaultAnimation,
		Theme:             ThemeAuto,
		TitleFontSize:     DefaultTitleFontSize,
		LabelFontSize:     DefaultLabelFontSize,
		LegendFontSize:    DefaultLegendFontSize,
		LegendPosition:    LegendBottom,
		LegendMaxItems:    DefaultLegendMax,
	}
}

func (b *Base) Common() *Base {
	return b
}

func (b Base) copy() Base {
	b.YAxisKeys = slices.Clone(b.YAxisKeys)
	return b
}

// Config is the configuration of one chart. The set of implementations is
// closed: consumers switch over the concrete types.
type Config interface {
	Type() ChartType
	Common() *Base
	// Disabled returns the data columns of hidden series.
	Disabled() []string
	Clone() Config

	setDisabled([]string)
	keys(func(string) string)
}

type LineConfig struct {
	Base          `yaml:",inline"`
	Curve         Curve     `json:"curve" yaml:"curve"`
	LineWidth     float64   `json:"lineWidth" yaml:"lineWidth"`
	ShowPoints    bool      `json:"showPoints" yaml:"showPoints"`
	PointRadius   float64   `json:"pointRadius" yaml:"pointRadius"`
	XAxisStart    AxisStart `json:"xAxisStart" yaml:"xAxisStart"`
	YAxisStart    AxisStart `json:"yAxisStart" yaml:"yAxisStart"`
	DisabledLines []string  `json:"disabledLines" yaml:"disabledLines"`
}

func (c *LineConfig) Type() ChartType { return Line }
func (c *LineConfig) Disabled() []string { return c.DisabledLines }
func (c *LineConfig) setDisabled(s []string) { c.DisabledLines = s }

func (c *LineConfig) Clone() Config {
	x := *c
	x.Base = c.Base.copy()
	x.DisabledLines = slices.Clone(c.DisabledLines)
	return &x
}

type BarConfig struct {
	Base         `yaml:",inline"`
	BarPadding   float64   `json:"barPadding" yaml:"barPadding"`
	BarRadius    float64   `json:"barRadius" yaml:"barRadius"`
	Stacked      bool      `json:"stacked" yaml:"stacked"`
	Horizontal   bool      `json:"horizontal" yaml:"horizontal"`
	XAxisStart   AxisStart `json:"xAxisStart" yaml:"xAxisStart"`
	YAxisStart   AxisStart `json:"yAxisStart" yaml:"yAxisStart"`
	DisabledBars []string  `json:"disabledBars" yaml:"disabledBars"`
}

func (c *BarConfig) Type() ChartType { return Bar }
func (c *BarConfig) Disabled() []string { return c.DisabledBars }
func (c *BarConfig) setDisabled(s []string) { c.DisabledBars = s }

func (c *BarConfig) Clone() Config {
	x := *c
	x.Base = c.Base.copy()
	x.DisabledBars = slices.Clone(c.DisabledBars)
	return &x
}

type AreaConfig struct {
	Base          `yaml:",inline"`
	Curve         Curve     `json:"curve" yaml:"curve"`
	LineWidth     float64   `json:"lineWidth" yaml:"lineWidth"`
	AreaOpacity   float64   `json:"areaOpacity" yaml:"areaOpacity"`
	Stacked       bool      `json:"stacked" yaml:"stacked"`
	XAxisStart    AxisStart `json:"xAxisStart" yaml:"xAxisStart"`
	YAxisStart    AxisStart `json:"yAxisStart" yaml:"yAxisStart"`
	DisabledAreas []string  `json:"disabledAreas" yaml:"disabledAreas"`
}

func (c *AreaConfig) Type() ChartType { return Area }
func (c *AreaConfig) Disabled() []string { return c.DisabledAreas }
func (c *AreaConfig) setDisabled(s []string) { c.DisabledAreas = s }

func (c *AreaConfig) Clone() Config {
	x := *c
	x.Base = c.Base.copy()
	x.DisabledAreas = slices.Clone(c.DisabledAreas)
	return &x
}

type ScatterConfig struct {
	Base           `yaml:",inline"`
	PointRadius    float64   `json:"pointRadius" yaml:"pointRadius"`
	PointOpacity   float64   `json:"pointOpacity" yaml:"pointOpacity"`
	XAxisStart     AxisStart `json:"xAxisStart" yaml:"xAxisStart"`
	YAxisStart     AxisStart `json:"yAxisStart" yaml:"yAxisStart"`
	DisabledPoints []string  `json:"disabledPoints" yaml:"disabledPoints"`
}

func (c *ScatterConfig) Type() ChartType { return Scatter }
func (c *ScatterConfig) Disabled() []string { return c.DisabledPoints }
func (c *ScatterConfig) setDisabled(s []string) { c.DisabledPoints = s }

func (c *ScatterConfig) Clone() Config {
	x := *c
	x.Base = c.Base.copy()
	x.DisabledPoints = slices.Clone(c.DisabledPoints)
	return &x
}

// PieConfig configures pie and donut charts. Angles are in degrees except
// PadAngle which is in radians. InnerRadius is a fraction of the outer
// radius.
type PieConfig struct {
	Base           `yaml:",inline"`
	LabelKey       string    `json:"labelKey" yaml:"labelKey"`
	ValueKey       string    `json:"valueKey" yaml:"valueKey"`
	InnerRadius    float64   `json:"innerRadius" yaml:"innerRadius"`
	PadAngle       float64   `json:"padAngle" yaml:"padAngle"`
	CornerRadius   float64   `json:"cornerRadius" yaml:"cornerRadius"`
	StartAngle     float64   `json:"startAngle" yaml:"startAngle"`
	EndAngle       float64   `json:"endAngle" yaml:"endAngle"`
	SortSlices     SortOrder `json:"sortSlices" yaml:"sortSlices"`
	ShowLabels     bool      `json:"showLabels" yaml:"showLabels"`
	ShowPercentage bool      `json:"showPercentage" yaml:"showPercentage"`

	Donut bool `json:"-" yaml:"-"`
}

func (c *PieConfig) Type() ChartType {
	if c.Donut {
		return Donut
	}
	return Pie
}

func (c *PieConfig) Disabled() []string { return nil }
func (c *PieConfig) setDisabled(_ []string) {}

func (c *PieConfig) Clone() Config {
	x := *c
	x.Base = c.Base.copy()
	return &x
}

type HeatmapConfig struct {
	Base            `yaml:",inline"`
	YAxisKey        string  `json:"yAxisKey" yaml:"yAxisKey"`
	ValueKey        string  `json:"valueKey" yaml:"valueKey"`
	ColorScheme     string  `json:"colorScheme" yaml:"colorScheme"`
	CellBorderWidth float64 `json:"cellBorderWidth" yaml:"cellBorderWidth"`
	CellBorderColor string  `json:"cellBorderColor" yaml:"cellBorderColor"`
	ShowValues      bool    `json:"showValues" yaml:"showValues"`
}

func (c *HeatmapConfig) Type() ChartType { return Heatmap }
func (c *HeatmapConfig) Disabled() []string { return nil }
func (c *HeatmapConfig) setDisabled(_ []string) {}

func (c *HeatmapConfig) Clone() Config {
	x := *c
	x.Base = c.Base.copy()
	return &x
}

// CyclePlotConfig groups values by cycle (eg year) and orders them by period
// (eg month) inside each cycle.
type CyclePlotConfig struct {
	Base        `yaml:",inline"`
	CycleKey    string  `json:"cycleKey" yaml:"cycleKey"`
	PeriodKey   string  `json:"periodKey" yaml:"periodKey"`
	ValueKey    string  `json:"valueKey" yaml:"valueKey"`
	Curve       Curve   `json:"curve" yaml:"curve"`
	LineWidth   float64 `json:"lineWidth" yaml:"lineWidth"`
	ShowAverage bool    `json:"showAverage" yaml:"showAverage"`
}

func (c *CyclePlotConfig) Type() ChartType { return CyclePlot }
func (c *CyclePlotConfig) Disabled() []string { return nil }
func (c *CyclePlotConfig) setDisabled(_ []string) {}

func (c *CyclePlotConfig) Clone() Config {
	x := *c
	x.Base = c.Base.copy()
	return &x
}

// New returns the hardcoded defaults of chart type t. Unknown types give a
// line configuration.
func New(t ChartType) Config {
	base := defaultBase()
	switch ParseType(string(t)) {
	case Bar:
		return &BarConfig{
			Base:         base,
			BarPadding:   0.2,
			DisabledBars: []string{},
		}
	case Area:
		return &AreaConfig{
			Base:          base,
			Curve:         CurveMonotone,
			LineWidth:     2,
			AreaOpacity:   0.3,
			DisabledAreas: []string{},
		}
	case Scatter:
		return &ScatterConfig{
			Base:           base,
			PointRadius:    4,
			PointOpacity:   0.8,
			DisabledPoints: []string{},
		}
	case Pie, Donut:
		base.ShowGrid = false
		base.LegendPosition = LegendRight
		cfg := PieConfig{
			Base:           base,
			StartAngle:     0,
			EndAngle:       360,
			SortSlices:     SortNone,
			ShowLabels:     true,
			ShowPercentage: true,
		}
		if ParseType(string(t)) == Donut {
			cfg.Donut = true
			cfg.InnerRadius = DefaultDonutRadius
		}
		return &cfg
	case Heatmap:
		base.ShowLegend = false
		return &HeatmapConfig{
			Base:            base,
			ColorScheme:     "blues",
			CellBorderWidth: 1,
			CellBorderColor: "#ffffff",
		}
	case CyclePlot:
		return &CyclePlotConfig{
			Base:        base,
			Curve:       CurveLinear,
			LineWidth:   2,
			ShowAverage: true,
		}
	default:
		return &LineConfig{
			Base:          base,
			Curve:         CurveMonotone,
			LineWidth:     2,
			ShowPoints:    true,
			PointRadius:   4,
			DisabledLines: []string{},
		}
	}
}

// Partial holds caller supplied fields keyed by their JSON names.
type Partial map[string]any

// DecodePartialYAML reads a partial configuration written in YAML.
func DecodePartialYAML(r io.Reader) (Partial, error) {
	var p Partial
	if err := yaml.NewDecoder(r).Decode(&p); err != nil && err != io.EOF {
		return nil, fmt.Errorf("partial config: %w", err)
	}
	return p, nil
}

// DecodePartialJSON reads a partial configuration written in JSON.
func DecodePartialJSON(r io.Reader) (Partial, error) {
	var p Partial
	if err := json.NewDecoder(r).Decode(&p); err != nil && err != io.EOF {
		return nil, fmt.Errorf("partial config: %w", err)
	}
	return p, nil
}

// Apply sets the fields of p on cfg. Unknown fields are ignored.
func (p Partial) Apply(cfg Config) error {
	if len(p) == 0 {
		return nil
	}
	buf, err := json.Marshal(map[string]any(p))
	if err != nil {
		return err
	}
	return json.NewDecoder(bytes.NewReader(buf)).Decode(cfg)
}

// CreateDefault builds a complete configuration for chart type t. Hardcoded
// defaults are overridden by values computed from rows, which are
// overridden by the fields of partial. The result is never nil.
func CreateDefault(t ChartType, partial Partial, rows []dataset.Point) Config {
	cfg := New(t)
	if len(rows) > 0 {
		if keys := rows[0].Keys(); len(keys) > 0 {
			cfg.Common().XAxisKey = keys[0]
		}
	}
	if c, ok := cfg.(*PieConfig); ok {
		c.LabelKey = c.XAxisKey
	}
	if err := partial.Apply(cfg); err != nil {
		logger().Warn("partial config ignored", slog.String("type", string(t)), slog.String("err", err.Error()))
	}
	normalize(cfg)
	return cfg
}

// Switch returns the default configuration of chart type t carrying over the
// common fields of cfg. Type specific fields are reset and no series is
// disabled.
func Switch(cfg Config, t ChartType) Config {
	next := New(t)
	if cfg == nil {
		return next
	}
	*next.Common() = cfg.Common().copy()
	keys := next.Common().YAxisKeys
	switch c := next.(type) {
	case *PieConfig:
		c.LabelKey = c.XAxisKey
		if len(keys) > 0 {
			c.ValueKey = keys[0]
		}
		if prev, ok := cfg.(*PieConfig); ok {
			c.LabelKey = prev.LabelKey
			c.ValueKey = prev.ValueKey
		}
	case *HeatmapConfig:
		if len(keys) > 0 {
			c.ValueKey = keys[0]
		}
	case *CyclePlotConfig:
		c.PeriodKey = c.XAxisKey
		if len(keys) > 0 {
			c.ValueKey = keys[0]
		}
	}
	next.setDisabled([]string{})
	normalize(next)
	return next
}

func normalize(cfg Config) {
	base := cfg.Common()
	if base.YAxisKeys == nil {
		base.YAxisKeys = []string{}
	}
	if base.Width <= 0 {
		base.Width = DefaultWidth
	}
	if base.Height <= 0 {
		base.Height = DefaultHeight
	}
	switch base.LegendPosition {
	case LegendTop, LegendBottom, LegendLeft, LegendRight:
	default:
		base.LegendPosition = LegendBottom
	}
	if base.XAxisKey != "" {
		base.YAxisKeys = slices.DeleteFunc(base.YAxisKeys, func(k string) bool {
			return k == base.XAxisKey
		})
	}
	if cfg.Disabled() == nil {
		cfg.setDisabled([]string{})
	}
	if c, ok := cfg.(*PieConfig); ok {
		c.InnerRadius = clamp(c.InnerRadius, 0, 0.95)
		if c.StartAngle == c.EndAngle {
			c.EndAngle = c.StartAngle + 360
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

func logger() *slog.Logger {
	return slog.Default().With(slog.String("module", "config"))
}
