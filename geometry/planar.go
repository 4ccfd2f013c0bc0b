package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// SignedArea is positive for counter-clockwise rings. The ring may be open
// or closed.
func SignedArea(pts []orb.Point) float64 {
	pts = openRing(pts)
	if len(pts) < 3 {
		return 0
	}
	sum := 0.0
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return sum / 2
}

func Interp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
	}
}

func Length(pts []orb.Point) float64 {
	return planar.Length(orb.LineString(pts))
}

func Distance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// Cross is the z component of (a - o) x (b - o).
func Cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// IsConvex reports whether every turn along the ring goes the same way.
// Collinear vertices are ignored.
func IsConvex(pts []orb.Point) bool {
	pts = openRing(pts)
	if len(pts) < 3 {
		return false
	}

	sign := 0.0
	for i := range pts {
		c := Cross(pts[i], pts[(i+1)%len(pts)], pts[(i+2)%len(pts)])
		if math.Abs(c) < 1e-12 {
			continue
		}
		if sign == 0 {
			sign = c
			continue
		}
		if (c > 0) != (sign > 0) {
			return false
		}
	}
	return sign != 0
}

// Angle of the vector from o to p, in radians.
func Angle(o, p orb.Point) float64 {
	return math.Atan2(p[1]-o[1], p[0]-o[0])
}
