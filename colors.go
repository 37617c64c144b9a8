package chartdeck

import (
	"math"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Scheme is a sequential color ramp. Stops are spread evenly over [0, 1].
type Scheme []colorful.Color

var schemes = map[string]Scheme{
	"blues":   splitScheme("f7fbffdeebf7c6dbef9ecae16baed64292c62171b5084594"),
	"greens":  splitScheme("f7fcf5e5f5e0c7e9c0a1d99b74c47641ab5d238b45005a32"),
	"reds":    splitScheme("fff5f0fee0d2fcbba1fc9272fb6a4aef3b2ccb181da50f15"),
	"oranges": splitScheme("fff5ebfee6cefdd0a2fdae6bfd8d3cf16913d94801a63603"),
	"purples": splitScheme("fcfbfdefedf5dadaebbcbddc9e9ac8807dba6a51a354278f"),
	"viridis": splitScheme("44015446327e365c8d277f8e1fa1874ac16da0da39fde725"),
}

// DefaultScheme is used when a heatmap names an unknown scheme.
const DefaultScheme = "blues"

func splitScheme(str string) Scheme {
	var list Scheme
	for i := 0; i+6 <= len(str); i += 6 {
		c, err := colorful.Hex("#" + str[i:i+6])
		if err != nil {
			continue
		}
		list = append(list, c)
	}
	return list
}

// Schemes returns the names of the known color schemes.
func Schemes() []string {
	var list []string
	for k := range schemes {
		list = append(list, k)
	}
	sort.Strings(list)
	return list
}

// GetScheme returns the scheme registered under name, falling back to the
// default scheme.
func GetScheme(name string) Scheme {
	if s, ok := schemes[strings.ToLower(name)]; ok {
		return s
	}
	return schemes[DefaultScheme]
}

// At returns the color of the ramp at t, t being clamped to [0, 1].
// Neighbouring stops are blended in the Lab space.
func (s Scheme) At(t float64) string {
	switch len(s) {
	case 0:
		return "#000000"
	case 1:
		return s[0].Hex()
	}
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Max(0, math.Min(t, 1))
	var (
		pos = t * float64(len(s)-1)
		i   = int(math.Floor(pos))
	)
	if i >= len(s)-1 {
		return s[len(s)-1].Hex()
	}
	return s[i].BlendLab(s[i+1], pos-float64(i)).Clamped().Hex()
}

// Contrast returns a text color readable over the given background.
func Contrast(background string) string {
	c, err := colorful.Hex(background)
	if err != nil {
		return "#000000"
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#1f1f1f"
	}
	return "#ffffff"
}
