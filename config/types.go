package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ChartType string

const (
	Line      ChartType = "line"
	Bar       ChartType = "bar"
	Area      ChartType = "area"
	Scatter   ChartType = "scatter"
	Pie       ChartType = "pie"
	Donut     ChartType = "donut"
	Heatmap   ChartType = "heatmap"
	CyclePlot ChartType = "cycle-plot"
)

// Types lists every supported chart type.
func Types() []ChartType {
	return []ChartType{Line, Bar, Area, Scatter, Pie, Donut, Heatmap, CyclePlot}
}

// ParseType normalizes str to a chart type. Unknown names give Line.
func ParseType(str string) ChartType {
	switch t := ChartType(strings.ToLower(strings.TrimSpace(str))); t {
	case Line, Bar, Area, Scatter, Pie, Donut, Heatmap, CyclePlot:
		return t
	case "cycleplot", "cycle":
		return CyclePlot
	default:
		return Line
	}
}

// Cartesian reports whether charts of type t are drawn on x/y axes with
// series.
func (t ChartType) Cartesian() bool {
	switch t {
	case Line, Bar, Area, Scatter:
		return true
	default:
		return false
	}
}

type Margin struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

func (m Margin) Horizontal() float64 {
	return m.Left + m.Right
}

func (m Margin) Vertical() float64 {
	return m.Top + m.Bottom
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

type LegendPosition string

const (
	LegendTop    LegendPosition = "top"
	LegendBottom LegendPosition = "bottom"
	LegendLeft   LegendPosition = "left"
	LegendRight  LegendPosition = "right"
)

func (p LegendPosition) Vertical() bool {
	return p == LegendLeft || p == LegendRight
}

type Curve string

const (
	CurveLinear     Curve = "linear"
	CurveStep       Curve = "step"
	CurveStepBefore Curve = "step-before"
	CurveStepAfter  Curve = "step-after"
	CurveMonotone   Curve = "monotone"
)

type SortOrder string

const (
	SortNone       SortOrder = "none"
	SortAscending  SortOrder = "ascending"
	SortDescending SortOrder = "descending"
)

// AxisStart is the lower bound of an axis. The zero value means the bound is
// computed from the data. It is encoded as "auto" or as a number.
type AxisStart struct {
	Set   bool
	Value float64
}

func StartAt(v float64) AxisStart {
	return AxisStart{
		Set:   true,
		Value: v,
	}
}

func (a AxisStart) Auto() bool {
	return !a.Set
}

func (a AxisStart) String() string {
	if !a.Set {
		return "auto"
	}
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

func (a AxisStart) MarshalJSON() ([]byte, error) {
	if !a.Set {
		return json.Marshal("auto")
	}
	return json.Marshal(a.Value)
}

func (a *AxisStart) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return a.set(v)
}

func (a AxisStart) MarshalYAML() (any, error) {
	if !a.Set {
		return "auto", nil
	}
	return a.Value, nil
}

func (a *AxisStart) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return a.set(v)
}

func (a *AxisStart) set(v any) error {
	switch v := v.(type) {
	case nil:
		*a = AxisStart{}
	case float64:
		*a = StartAt(v)
	case int:
		*a = StartAt(float64(v))
	case string:
		switch str := strings.ToLower(strings.TrimSpace(v)); str {
		case "", "auto":
			*a = AxisStart{}
		case "zero":
			*a = StartAt(0)
		default:
			f, err := strconv.ParseFloat(str, 64)
			if err != nil {
				return fmt.Errorf("%s: invalid axis start", v)
			}
			*a = StartAt(f)
		}
	default:
		return fmt.Errorf("%v: invalid axis start", v)
	}
	return nil
}
