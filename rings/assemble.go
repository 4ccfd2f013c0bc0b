package rings

import (
	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/geometry"
	"github.com/rubenv/osmgraph/graph"
)

type Polygon struct {
	Outer  []orb.Point
	Inners [][]orb.Point

	// Invalid marks an inner ring that fell outside every outer ring and
	// stands on its own.
	Invalid bool
}

func (p Polygon) Orb() orb.Polygon {
	poly := make(orb.Polygon, 0, len(p.Inners)+1)
	poly = append(poly, orb.Ring(p.Outer))
	for _, r := range p.Inners {
		poly = append(poly, orb.Ring(r))
	}
	return poly
}

// Assemble orients the rings and puts every inner ring in the first outer
// ring that contains it, or failing that the first one it intersects.
// Inner rings without an outer become polygons of their own, flagged
// Invalid.
func Assemble(outers, inners [][]orb.Point) []Polygon {
	polygons := make([]Polygon, 0, len(outers))
	for _, o := range outers {
		polygons = append(polygons, Polygon{Outer: geometry.OrientOuter(o)})
	}
	n := len(polygons)

	for _, inner := range inners {
		inner = geometry.OrientInner(inner)

		o := -1
		for i := 0; i < n; i++ {
			if geometry.RingContains(polygons[i].Outer, inner) {
				o = i
				break
			}
		}
		if o < 0 {
			for i := 0; i < n; i++ {
				if geometry.RingIntersects(polygons[i].Outer, inner) {
					o = i
					break
				}
			}
		}

		if o < 0 {
			polygons = append(polygons, Polygon{
				Outer:   geometry.OrientOuter(inner),
				Invalid: true,
			})
			continue
		}
		polygons[o].Inners = append(polygons[o].Inners, inner)
	}
	return polygons
}

// MultiArea builds the polygons of a multi-area group. Members with an
// empty role count as outer. Missing members and points are skipped, so
// an incomplete group yields whatever can be built from what is loaded.
func MultiArea(g *graph.Graph, r *entity.Group) []Polygon {
	var outers, inners []Fragment
	for _, m := range r.Members() {
		if m.Kind != entity.KindPath {
			continue
		}
		p, ok := g.Path(m.ID)
		if !ok {
			continue
		}

		f := Fragment{ID: p.ID(), Nodes: p.Nodes()}
		switch m.Role {
		case "outer", "":
			outers = append(outers, f)
		case "inner":
			inners = append(inners, f)
		}
	}

	return Assemble(ringCoords(g, Join(outers)), ringCoords(g, Join(inners)))
}

func ringCoords(g *graph.Graph, seqs []*Sequence) [][]orb.Point {
	out := make([][]orb.Point, 0, len(seqs))
	for _, seq := range seqs {
		Close(seq)
		coords := make([]orb.Point, 0, len(seq.Nodes))
		for _, id := range seq.Nodes {
			if p, ok := g.Point(id); ok {
				coords = append(coords, p.Loc())
			}
		}
		if len(coords) > 0 {
			out = append(out, coords)
		}
	}
	return out
}
