package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// Rect is a rotated rectangle. Angle is the rotation in radians of its
// first side against the x axis.
type Rect struct {
	Angle   float64
	Corners [4]orb.Point
	Area    float64
}

func (r Rect) Ring() orb.Ring {
	return orb.Ring{r.Corners[0], r.Corners[1], r.Corners[2], r.Corners[3], r.Corners[0]}
}

// SurroundingRect finds the minimum-area rectangle enclosing the points by
// trying the rotation of every hull edge.
func SurroundingRect(pts []orb.Point) (Rect, bool) {
	hull := Hull(pts)
	if hull == nil {
		return Rect{}, false
	}

	best := Rect{Area: math.Inf(1)}
	for i := range hull {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		angle := Angle(a, b)
		sin, cos := math.Sincos(-angle)

		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range hull {
			x := p[0]*cos - p[1]*sin
			y := p[0]*sin + p[1]*cos
			minX = math.Min(minX, x)
			maxX = math.Max(maxX, x)
			minY = math.Min(minY, y)
			maxY = math.Max(maxY, y)
		}

		area := (maxX - minX) * (maxY - minY)
		if area >= best.Area {
			continue
		}

		sin, cos = math.Sincos(angle)
		rotate := func(x, y float64) orb.Point {
			return orb.Point{x*cos - y*sin, x*sin + y*cos}
		}
		best = Rect{
			Angle: angle,
			Area:  area,
			Corners: [4]orb.Point{
				rotate(minX, minY),
				rotate(maxX, minY),
				rotate(maxX, maxY),
				rotate(minX, maxY),
			},
		}
	}
	return best, true
}
