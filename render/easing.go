package render

import (
	"math"
	"strings"
)

// Easing maps the linear progress of a transition to its eased progress.
// Both are in [0, 1].
type Easing func(float64) float64

func Linear(t float64) float64 {
	return t
}

func QuadInOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

func CubicInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

func CubicOut(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

func SinInOut(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// ParseEasing returns the easing named by str, CubicInOut by default.
func ParseEasing(str string) Easing {
	switch strings.ToLower(str) {
	case "linear":
		return Linear
	case "quad", "quad-in-out":
		return QuadInOut
	case "cubic-out":
		return CubicOut
	case "sin", "sin-in-out":
		return SinInOut
	default:
		return CubicInOut
	}
}

// progress returns the eased progress of a transition of the given length
// started delay ago, elapsed being the time since the start of the scene.
func progress(ease Easing, elapsed, delay, length float64) float64 {
	if length <= 0 {
		if elapsed >= delay {
			return 1
		}
		return 0
	}
	t := (elapsed - delay) / length
	t = math.Max(0, math.Min(t, 1))
	if ease == nil {
		ease = CubicInOut
	}
	return ease(t)
}
