package render

import (
	"github.com/midbel/chartdeck/config"
)

// Style holds the colors and sizes that do not come from the chart
// configuration.
type Style struct {
	Background string
	Line       struct {
		Color   string
		Width   float64
		Opacity float64
	}
	Grid struct {
		Color   string
		Opacity float64
	}
	Text struct {
		Color string
		Muted string
	}
	Tooltip struct {
		Background string
		Border     string
		Color      string
	}
	Placeholder struct {
		Background string
		Border     string
	}
}

// LightStyle is the style of charts drawn on a light background.
func LightStyle() Style {
	var s Style
	s.Background = "#ffffff"
	s.Line.Color = "#4b5563"
	s.Line.Width = 1
	s.Line.Opacity = 1
	s.Grid.Color = "#9ca3af"
	s.Grid.Opacity = 0.25
	s.Text.Color = "#1f2937"
	s.Text.Muted = "#6b7280"
	s.Tooltip.Background = "#ffffff"
	s.Tooltip.Border = "#d1d5db"
	s.Tooltip.Color = "#111827"
	s.Placeholder.Background = "#f9fafb"
	s.Placeholder.Border = "#e5e7eb"
	return s
}

// DarkStyle is the style of charts drawn on a dark background.
func DarkStyle() Style {
	var s Style
	s.Background = "#111827"
	s.Line.Color = "#9ca3af"
	s.Line.Width = 1
	s.Line.Opacity = 1
	s.Grid.Color = "#4b5563"
	s.Grid.Opacity = 0.4
	s.Text.Color = "#f3f4f6"
	s.Text.Muted = "#9ca3af"
	s.Tooltip.Background = "#1f2937"
	s.Tooltip.Border = "#374151"
	s.Tooltip.Color = "#f9fafb"
	s.Placeholder.Background = "#1f2937"
	s.Placeholder.Border = "#374151"
	return s
}

// StyleFor returns the style of a resolved theme. Auto is drawn as light.
func StyleFor(theme config.Theme) Style {
	if theme == config.ThemeDark {
		return DarkStyle()
	}
	return LightStyle()
}

// merge returns s with the configured background color applied.
func (s Style) merge(base *config.Base) Style {
	if base != nil && base.BackgroundColor != "" {
		s.Background = base.BackgroundColor
	}
	return s
}
