package action

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/geometry"
	"github.com/rubenv/osmgraph/graph"
)

type move struct {
	ids   []string
	delta orb.Point
	proj  geometry.Projector
}

// Move translates points, and the points of paths, by delta in projected
// units.
func Move(ids []string, delta orb.Point, proj geometry.Projector) Action {
	return &move{ids: ids, delta: delta, proj: proj}
}

func (a *move) Previewable() bool { return true }

func (a *move) Apply(g *graph.Graph, t float64) *graph.Graph {
	t = Clamp(t)
	e := g.Edit()

	points := make(map[string]bool)
	for _, id := range a.ids {
		switch v := g.MustEntity(id).(type) {
		case *entity.Point:
			points[id] = true
		case *entity.Path:
			for _, n := range v.Nodes() {
				points[n] = true
			}
		}
	}

	ids := make([]string, 0, len(points))
	for id := range points {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p, ok := g.Point(id)
		if !ok {
			continue
		}
		at := a.proj.Project(p.Loc())
		at = orb.Point{at[0] + a.delta[0]*t, at[1] + a.delta[1]*t}
		e.Replace(p.Move(a.proj.Invert(at)))
	}
	return e.Commit()
}

func (a *move) Feasibility(g *graph.Graph) Reason {
	for _, id := range a.ids {
		v, ok := g.HasEntity(id)
		if !ok {
			return Missing
		}
		if !g.IsComplete(v) {
			return Incomplete
		}
		if _, ok := v.(*entity.Group); ok {
			return NotEligible
		}
	}
	return Feasible
}

type changeTags struct {
	id   string
	tags entity.Tags
}

// ChangeTags replaces the tags of one entity.
func ChangeTags(id string, tags entity.Tags) Action {
	return &changeTags{id: id, tags: tags}
}

func (a *changeTags) Previewable() bool { return false }

func (a *changeTags) Apply(g *graph.Graph, _ float64) *graph.Graph {
	e := g.Edit()
	e.Replace(g.MustEntity(a.id).WithTags(a.tags.Clone()))
	return e.Commit()
}

func (a *changeTags) Feasibility(g *graph.Graph) Reason {
	if _, ok := g.HasEntity(a.id); !ok {
		return Missing
	}
	return Feasible
}
