package geometry

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
)

// SphericalArea is the area in steradians of the region left of the ring
// when walked in the given order. A small clockwise ring therefore yields
// nearly the whole sphere.
func SphericalArea(ring []orb.Point) float64 {
	loop := loopFromRing(ring)
	if loop == nil {
		return 0
	}
	return loop.Area()
}

// OrientOuter returns the ring counter-clockwise on the sphere.
func OrientOuter(ring []orb.Point) []orb.Point {
	if SphericalArea(ring) > 2*math.Pi {
		return reversed(ring)
	}
	return ring
}

// OrientInner returns the ring clockwise on the sphere.
func OrientInner(ring []orb.Point) []orb.Point {
	if a := SphericalArea(ring); a > 0 && a < 2*math.Pi {
		return reversed(ring)
	}
	return ring
}

// RingContains reports whether inner lies entirely within outer. Both rings
// are taken in lon/lat degrees, their winding doesn't matter.
func RingContains(outer, inner []orb.Point) bool {
	a := makeLoop(outer)
	b := makeLoop(inner)
	if a == nil || b == nil {
		return false
	}
	return a.Contains(b)
}

func RingIntersects(a, b []orb.Point) bool {
	la := makeLoop(a)
	lb := makeLoop(b)
	if la == nil || lb == nil {
		return false
	}
	return la.Intersects(lb)
}

func PointInRing(p orb.Point, ring []orb.Point) bool {
	loop := makeLoop(ring)
	if loop == nil {
		return false
	}
	return loop.ContainsPoint(s2.PointFromLatLng(s2.LatLngFromDegrees(p[1], p[0])))
}

// makeLoop builds a loop enclosing the smaller side of the ring.
func makeLoop(ring []orb.Point) *s2.Loop {
	if SignedArea(ring) < 0 {
		ring = reversed(ring)
	}
	return loopFromRing(ring)
}

func loopFromRing(ring []orb.Point) *s2.Loop {
	pts := openRing(ring)
	points := make([]s2.Point, 0, len(pts))
	for i, p := range pts {
		if i > 0 && p == pts[i-1] {
			continue
		}
		points = append(points, s2.PointFromLatLng(s2.LatLngFromDegrees(p[1], p[0])))
	}
	if len(points) < 3 {
		return nil
	}
	return s2.LoopFromPoints(points)
}

func reversed(ring []orb.Point) []orb.Point {
	out := make([]orb.Point, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}
