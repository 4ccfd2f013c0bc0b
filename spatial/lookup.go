package spatial

import (
	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/geometry"
	"github.com/rubenv/osmgraph/graph"
	"github.com/rubenv/osmgraph/rings"
)

// Containing returns the areas of g that pt falls in: closed area paths
// and multi-area groups, outside of their inner rings.
func (t *Tree) Containing(pt orb.Point, g *graph.Graph) []entity.Entity {
	var out []entity.Entity
	for _, e := range t.Intersects(orb.Bound{Min: pt, Max: pt}, g) {
		if !g.IsArea(e) {
			continue
		}

		var polygons []rings.Polygon
		switch v := e.(type) {
		case *entity.Path:
			polygons = []rings.Polygon{{Outer: g.Coords(v)}}
		case *entity.Group:
			polygons = rings.MultiArea(g, v)
		}
		if contains(polygons, pt) {
			out = append(out, e)
		}
	}
	return out
}

func contains(polygons []rings.Polygon, pt orb.Point) bool {
	for _, p := range polygons {
		if !geometry.PointInRing(pt, p.Outer) {
			continue
		}
		inHole := false
		for _, inner := range p.Inners {
			if geometry.PointInRing(pt, inner) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}
