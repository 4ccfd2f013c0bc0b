package graph

import (
	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/entity"
)

// ParentPaths lists the visible paths whose nodes contain id.
func (g *Graph) ParentPaths(id string) []*entity.Path {
	ids := g.parentPathIDs(id)
	out := make([]*entity.Path, 0, len(ids))
	for _, pid := range ids {
		if p, ok := g.Path(pid); ok {
			out = append(out, p)
		}
	}
	return out
}

// ParentGroups lists the visible groups with id among their members.
func (g *Graph) ParentGroups(id string) []*entity.Group {
	ids := g.parentGroupIDs(id)
	out := make([]*entity.Group, 0, len(ids))
	for _, rid := range ids {
		if r, ok := g.Group(rid); ok {
			out = append(out, r)
		}
	}
	return out
}

func (g *Graph) ParentMultiAreas(id string) []*entity.Group {
	out := make([]*entity.Group, 0)
	for _, r := range g.ParentGroups(id) {
		if r.IsMultiArea() {
			out = append(out, r)
		}
	}
	return out
}

// ChildPoints resolves the nodes of p in order, skipping absent ones.
func (g *Graph) ChildPoints(p *entity.Path) []*entity.Point {
	return MemoTopology(g, p, PropChildPoints, func() []*entity.Point {
		out := make([]*entity.Point, 0, len(p.Nodes()))
		for _, id := range p.Nodes() {
			if pt, ok := g.Point(id); ok {
				out = append(out, pt)
			}
		}
		return out
	})
}

// Coords returns the locations of the child points of p.
func (g *Graph) Coords(p *entity.Path) []orb.Point {
	pts := g.ChildPoints(p)
	out := make([]orb.Point, len(pts))
	for i, pt := range pts {
		out[i] = pt.Loc()
	}
	return out
}

// IsComplete reports whether every direct child of e is loaded.
func (g *Graph) IsComplete(e entity.Entity) bool {
	for _, id := range e.Refs() {
		if _, ok := g.HasEntity(id); !ok {
			return false
		}
	}
	return true
}

// IsShared reports whether more than one path uses the point.
func (g *Graph) IsShared(id string) bool {
	return len(g.ParentPaths(id)) > 1
}

// IsIntersection reports whether the point joins more than one linear
// highway, waterway, railway or aeroway.
func (g *Graph) IsIntersection(p *entity.Point) bool {
	return MemoTopology(g, p, PropIsIntersection, func() bool {
		n := 0
		for _, w := range g.ParentPaths(p.ID()) {
			tags := w.Tags()
			_, hw := tags.Get("highway")
			_, ww := tags.Get("waterway")
			_, rw := tags.Get("railway")
			_, aw := tags.Get("aeroway")
			if (hw || ww || rw || aw) && g.GeometryType(w) == "line" {
				n++
			}
		}
		return n > 1
	})
}

func (g *Graph) IsArea(e entity.Entity) bool {
	return Memo(g, e, PropIsArea, func() bool {
		switch v := e.(type) {
		case *entity.Path:
			return v.IsArea()
		case *entity.Group:
			return v.IsMultiArea()
		}
		return false
	})
}

// GeometryType classifies e as point, vertex, line, area or relation.
func (g *Graph) GeometryType(e entity.Entity) string {
	switch v := e.(type) {
	case *entity.Point:
		return MemoTopology(g, e, PropGeometry, func() string {
			if len(g.parentPathIDs(v.ID())) > 0 {
				return "vertex"
			}
			return "point"
		})
	case *entity.Path:
		if g.IsArea(v) {
			return "area"
		}
		return "line"
	case *entity.Group:
		if v.IsMultiArea() {
			return "area"
		}
		return "relation"
	}
	return ""
}

// Extent is the bounding box of e and everything below it. It reports
// false when nothing below e is loaded.
func (g *Graph) Extent(e entity.Entity) (orb.Bound, bool) {
	return g.extent(e, make(map[string]bool))
}

func (g *Graph) extent(e entity.Entity, visited map[string]bool) (orb.Bound, bool) {
	if visited[e.ID()] {
		return orb.Bound{}, false
	}
	visited[e.ID()] = true

	switch v := e.(type) {
	case *entity.Point:
		return v.Extent(), true
	case *entity.Path:
		type extent struct {
			b  orb.Bound
			ok bool
		}
		r := MemoTopology(g, v, PropExtent, func() extent {
			pts := g.ChildPoints(v)
			if len(pts) == 0 {
				return extent{}
			}
			b := pts[0].Extent()
			for _, pt := range pts[1:] {
				b = b.Extend(pt.Loc())
			}
			return extent{b, true}
		})
		return r.b, r.ok
	case *entity.Group:
		var b orb.Bound
		found := false
		for _, m := range v.Members() {
			child, ok := g.HasEntity(m.ID)
			if !ok {
				continue
			}
			cb, ok := g.extent(child, visited)
			if !ok {
				continue
			}
			if !found {
				b, found = cb, true
			} else {
				b = b.Union(cb)
			}
		}
		return b, found
	}
	return orb.Bound{}, false
}
