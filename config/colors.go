package config

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

type Palette []string

var (
	Category10 Palette
	Tableau10  Palette

	// DefaultPalette is the palette used for new series.
	DefaultPalette Palette
)

func init() {
	Category10 = splitColorString("1f77b4ff7f0e2ca02cd627289467bd8c564be377c27f7f7fbcbd2217becf")
	Tableau10 = splitColorString("4e79a7f28e2ce1575976b7b259a14fedc949af7aa1ff9da79c755fbab0ab")
	DefaultPalette = Tableau10
}

func splitColorString(str string) []string {
	var arr []string
	for i := 0; i < len(str); i += 6 {
		arr = append(arr, "#"+str[i:i+6])
	}
	return arr
}

// ColorPair holds the colors of a series in the light and dark themes.
type ColorPair struct {
	Light string `json:"light" yaml:"light"`
	Dark  string `json:"dark" yaml:"dark"`
}

// Pair builds the color pair of light, deriving the dark variant.
func Pair(light string) ColorPair {
	return ColorPair{
		Light: light,
		Dark:  DarkVariant(light),
	}
}

func (p ColorPair) For(theme Theme) string {
	if theme == ThemeDark && p.Dark != "" {
		return p.Dark
	}
	return p.Light
}

// ColorConfig maps data keys to their color pair.
type ColorConfig map[string]ColorPair

func (c ColorConfig) clone() ColorConfig {
	x := make(ColorConfig, len(c))
	for k, v := range c {
		x[k] = v
	}
	return x
}

// DarkVariant lightens color so that it stays readable on a dark
// background. Invalid colors are returned unchanged.
func DarkVariant(color string) string {
	c, err := colorful.Hex(color)
	if err != nil {
		return color
	}
	h, s, l := c.Hsl()
	l = math.Min(l+0.15, 0.85)
	return colorful.Hsl(h, s, l).Clamped().Hex()
}

const (
	maxRandomAttempts = 32
	goldenAngle       = 137.508
)

// colorPicker chooses colors not already used by a series.
type colorPicker struct {
	palette Palette
	rand    *rand.Rand
}

func (p colorPicker) pick(used []string) string {
	seen := make(map[string]struct{}, len(used))
	for _, u := range used {
		seen[strings.ToLower(u)] = struct{}{}
	}
	free := func(c string) bool {
		_, ok := seen[strings.ToLower(c)]
		return !ok
	}
	for _, c := range p.palette {
		if free(c) {
			return c
		}
	}
	if p.rand != nil {
		for i := 0; i < maxRandomAttempts; i++ {
			c := fmt.Sprintf("#%06x", p.rand.Intn(1<<24))
			if free(c) {
				return c
			}
		}
	}
	return rotate(len(used), free)
}

// rotate walks the hue circle by the golden angle starting from a position
// derived from n. It always terminates.
func rotate(n int, free func(string) bool) string {
	var c string
	for i := 0; i < 360; i++ {
		hue := math.Mod(float64(n+i)*goldenAngle, 360)
		c = colorful.Hsl(hue, 0.65, 0.5).Hex()
		if free(c) {
			break
		}
	}
	return c
}
