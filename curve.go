package chartdeck

import (
	"github.com/midbel/chartdeck/config"
	"github.com/midbel/slices"
	"github.com/midbel/svg"
)

// Stretch is the horizontal distance of the control points of monotone
// curves, as a fraction of the distance between two points.
var Stretch = 0.5

func getBasePath() svg.Path {
	var pat svg.Path
	pat.Rendering = "geometricPrecision"
	return pat
}

// LinePath returns the path joining pts with the given curve.
func LinePath(curve config.Curve, pts []svg.Pos) svg.Path {
	pat := getBasePath()
	drawCurve(&pat, curve, pts, true)
	return pat
}

// AreaPath returns the closed path between top and base. Both lists are
// ordered from left to right.
func AreaPath(curve config.Curve, top, base []svg.Pos) svg.Path {
	pat := getBasePath()
	if len(top) == 0 {
		return pat
	}
	drawCurve(&pat, curve, top, true)
	drawCurve(&pat, curve, slices.Reverse(append([]svg.Pos{}, base...)), false)
	pat.ClosePath()
	return pat
}

func drawCurve(pat *svg.Path, curve config.Curve, pts []svg.Pos, move bool) {
	if len(pts) == 0 {
		return
	}
	ori := slices.Fst(pts)
	if move {
		pat.AbsMoveTo(ori)
	} else {
		pat.AbsLineTo(ori)
	}
	for _, pos := range slices.Rest(pts) {
		switch curve {
		case config.CurveStep:
			mid := ori
			mid.X += (pos.X - ori.X) / 2
			pat.AbsLineTo(mid)
			mid.Y = pos.Y
			pat.AbsLineTo(mid)
			pat.AbsLineTo(pos)
		case config.CurveStepAfter:
			corner := ori
			corner.X = pos.X
			pat.AbsLineTo(corner)
			pat.AbsLineTo(pos)
		case config.CurveStepBefore:
			corner := ori
			corner.Y = pos.Y
			pat.AbsLineTo(corner)
			pat.AbsLineTo(pos)
		case config.CurveMonotone:
			var (
				ctrl1 = ori
				ctrl2 = pos
				diff  = (pos.X - ori.X) * Stretch
			)
			ctrl1.X += diff
			ctrl2.X -= diff
			pat.AbsCubicCurve(pos, ctrl1, ctrl2)
		default:
			pat.AbsLineTo(pos)
		}
		ori = pos
	}
}
