package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Centroid follows the degenerate table: nothing for no points, the point
// itself for one, the midpoint for two and the area-weighted centroid of
// the hull otherwise.
func Centroid(pts []orb.Point) (orb.Point, bool) {
	pts = Distinct(pts)
	switch len(pts) {
	case 0:
		return orb.Point{}, false
	case 1:
		return pts[0], true
	case 2:
		return Interp(pts[0], pts[1], 0.5), true
	}

	hull := Hull(pts)
	if hull == nil {
		return mean(pts), true
	}

	c, area := planar.CentroidArea(closeRing(hull))
	if area == 0 {
		return mean(pts), true
	}
	return c, true
}

func mean(pts []orb.Point) orb.Point {
	var x, y float64
	for _, p := range pts {
		x += p[0]
		y += p[1]
	}
	n := float64(len(pts))
	return orb.Point{x / n, y / n}
}
