package geometry

import (
	"math"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

type cell struct {
	c   orb.Point
	h   float64 // half the cell size
	d   float64 // distance from the cell center to the polygon, negative outside
	max float64 // best distance any point in the cell could reach
}

func newCell(c orb.Point, h float64, poly orb.Polygon) *cell {
	d := polygonDistance(c, poly)
	return &cell{c: c, h: h, d: d, max: d + h*math.Sqrt2}
}

// Compare orders cells by their potential, most promising first.
func (c *cell) Compare(other queue.Item) int {
	o := other.(*cell)
	switch {
	case c.max > o.max:
		return -1
	case c.max < o.max:
		return 1
	}
	return 0
}

// Pole returns the point inside the polygon furthest from any of its rings.
// The first ring is the outer one. Precision is in projected units; zero
// picks a thousandth of the larger bounding dimension. Outer rings with
// fewer than three distinct points fall back to the centroid.
func Pole(rings [][]orb.Point, precision float64) (orb.Point, bool) {
	if len(rings) == 0 {
		return orb.Point{}, false
	}
	if Hull(rings[0]) == nil {
		return Centroid(rings[0])
	}

	poly := make(orb.Polygon, len(rings))
	for i, r := range rings {
		poly[i] = closeRing(r)
	}

	b := poly.Bound()
	width := b.Max[0] - b.Min[0]
	height := b.Max[1] - b.Min[1]
	size := math.Min(width, height)
	if size == 0 {
		return Centroid(rings[0])
	}
	if precision <= 0 {
		precision = math.Max(width, height) / 1000
	}

	h := size / 2
	q := queue.NewPriorityQueue(64, true)
	for x := b.Min[0]; x < b.Max[0]; x += size {
		for y := b.Min[1]; y < b.Max[1]; y += size {
			q.Put(newCell(orb.Point{x + h, y + h}, h, poly))
		}
	}

	best := newCell(b.Center(), 0, poly)
	if c, ok := Centroid(rings[0]); ok {
		if cc := newCell(c, 0, poly); cc.d > best.d {
			best = cc
		}
	}

	for !q.Empty() {
		items, err := q.Get(1)
		if err != nil || len(items) == 0 {
			break
		}
		c := items[0].(*cell)

		if c.d > best.d {
			best = c
		}
		if c.max-best.d <= precision {
			continue
		}

		h := c.h / 2
		q.Put(
			newCell(orb.Point{c.c[0] - h, c.c[1] - h}, h, poly),
			newCell(orb.Point{c.c[0] + h, c.c[1] - h}, h, poly),
			newCell(orb.Point{c.c[0] - h, c.c[1] + h}, h, poly),
			newCell(orb.Point{c.c[0] + h, c.c[1] + h}, h, poly),
		)
	}
	q.Dispose()

	return best.c, true
}

// PoleOfLine is the pole of a geometry without an interior: its centroid.
func PoleOfLine(pts []orb.Point) (orb.Point, bool) {
	return Centroid(pts)
}

func polygonDistance(p orb.Point, poly orb.Polygon) float64 {
	min := math.Inf(1)
	for _, ring := range poly {
		for i := 0; i < len(ring)-1; i++ {
			d := planar.DistanceFromSegment(ring[i], ring[i+1], p)
			if d < min {
				min = d
			}
		}
	}
	if !planar.PolygonContains(poly, p) {
		return -min
	}
	return min
}
