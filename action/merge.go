package action

import (
	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/geometry"
	"github.com/rubenv/osmgraph/graph"
	"github.com/rubenv/osmgraph/rings"
)

type mergePolygon struct {
	ids     []string
	groupID string
}

// MergePolygon combines closed paths and multi-area groups into one
// multi-area group. Rings nest by containment: the outermost layer is outer,
// the next inner, and so on. The oldest source group survives and gets the
// tags of the others; without one a group with groupID is created.
func MergePolygon(ids []string, groupID string) Action {
	return &mergePolygon{ids: ids, groupID: groupID}
}

func (a *mergePolygon) Previewable() bool { return false }

type sources struct {
	paths  []*entity.Path
	groups []*entity.Group
	other  []string
}

func (a *mergePolygon) sources(g *graph.Graph) sources {
	var s sources
	for _, id := range a.ids {
		v, ok := g.HasEntity(id)
		if !ok {
			s.other = append(s.other, id)
			continue
		}
		switch e := v.(type) {
		case *entity.Path:
			if e.IsClosed() {
				s.paths = append(s.paths, e)
				continue
			}
		case *entity.Group:
			if e.IsMultiArea() {
				s.groups = append(s.groups, e)
				continue
			}
		}
		s.other = append(s.other, id)
	}
	return s
}

// ring is one closed candidate: the fragments it was joined from and its
// coordinates.
type ring struct {
	ids    []string
	coords []orb.Point
}

func (a *mergePolygon) Apply(g *graph.Graph, _ float64) *graph.Graph {
	src := a.sources(g)
	e := g.Edit()

	candidates := make([]ring, 0)
	for _, r := range src.groups {
		frags := make([]rings.Fragment, 0)
		for _, m := range r.Members() {
			if p, ok := g.Path(m.ID); ok {
				frags = append(frags, rings.Fragment{ID: p.ID(), Nodes: p.Nodes()})
			}
		}
		for _, seq := range rings.Join(frags) {
			ids := make([]string, len(seq.Fragments))
			for i, f := range seq.Fragments {
				ids[i] = f.ID
			}
			candidates = append(candidates, ring{ids: ids, coords: coords(g, seq.Nodes)})
		}
	}
	for _, p := range src.paths {
		candidates = append(candidates, ring{ids: []string{p.ID()}, coords: g.Coords(p)})
	}

	members := layer(candidates)

	var group *entity.Group
	if len(src.groups) > 0 {
		ids := make([]string, len(src.groups))
		for i, r := range src.groups {
			ids[i] = r.ID()
		}
		oldest := entity.Oldest(ids)
		for _, r := range src.groups {
			if r.ID() == oldest {
				group = r
			}
		}
	} else {
		group = entity.NewGroup(a.groupID, nil, entity.Tags{"type": "multipolygon"})
	}

	tags := group.Tags()
	for _, r := range src.groups {
		if r.ID() != group.ID() {
			tags = entity.MergeTags(tags, r.Tags())
			e.Remove(r.ID())
		}
	}
	for _, p := range src.paths {
		for _, m := range members {
			if m.ID == p.ID() && m.Role == "outer" {
				tags = entity.MergeTags(tags, p.Tags())
				e.Replace(p.WithTags(nil))
				break
			}
		}
	}

	group = group.WithMembers(members)
	e.Replace(group.WithTags(tags.Without("area")))
	return e.Commit()
}

// layer peels rings off from the outside in. Rings not contained in any
// remaining ring form the next layer; layers alternate between outer and
// inner.
func layer(candidates []ring) []entity.Member {
	n := len(candidates)
	contained := make([][]bool, n)
	for i := range candidates {
		contained[i] = make([]bool, n)
		for j := range candidates {
			if i != j {
				contained[i][j] = geometry.RingContains(candidates[j].coords, candidates[i].coords)
			}
		}
	}

	remaining := make([]int, n)
	for i := range remaining {
		remaining[i] = i
	}

	members := make([]entity.Member, 0)
	outer := true
	for len(remaining) > 0 {
		isContained := func(i int) bool {
			for _, j := range remaining {
				if contained[i][j] {
					return true
				}
			}
			return false
		}

		next := make([]int, 0, len(remaining))
		extracted := make([]int, 0, len(remaining))
		for _, i := range remaining {
			if isContained(i) {
				next = append(next, i)
			} else {
				extracted = append(extracted, i)
			}
		}

		// Rings containing each other (identical ones) would never peel off.
		if len(extracted) == 0 {
			extracted, next = next, nil
		}

		role := "inner"
		if outer {
			role = "outer"
		}
		for _, i := range extracted {
			for _, id := range candidates[i].ids {
				members = append(members, entity.Member{ID: id, Kind: entity.KindPath, Role: role})
			}
		}

		outer = !outer
		remaining = next
	}
	return members
}

func coords(g *graph.Graph, ids []string) []orb.Point {
	out := make([]orb.Point, 0, len(ids))
	for _, id := range ids {
		if p, ok := g.Point(id); ok {
			out = append(out, p.Loc())
		}
	}
	return out
}

func (a *mergePolygon) Feasibility(g *graph.Graph) Reason {
	src := a.sources(g)
	if len(src.other) > 0 || len(src.paths)+len(src.groups) < 2 {
		return NotEligible
	}
	for _, r := range src.groups {
		if !g.IsComplete(r) {
			return IncompleteGroup
		}
	}

	if len(src.groups) == 0 {
		// A group with exactly these paths already exists
		var shared []*entity.Group
		for i, p := range src.paths {
			parents := g.ParentMultiAreas(p.ID())
			if i == 0 {
				shared = parents
				continue
			}
			shared = intersectGroups(shared, parents)
		}
		for _, r := range shared {
			if len(r.Members()) == len(src.paths) {
				return NotEligible
			}
		}
		return Feasible
	}

	// Paths that already belong to one of the groups
	for _, p := range src.paths {
		for _, parent := range g.ParentMultiAreas(p.ID()) {
			for _, r := range src.groups {
				if parent.ID() == r.ID() {
					return NotEligible
				}
			}
		}
	}
	return Feasible
}

func intersectGroups(a, b []*entity.Group) []*entity.Group {
	out := make([]*entity.Group, 0)
	for _, x := range a {
		for _, y := range b {
			if x.ID() == y.ID() {
				out = append(out, x)
				break
			}
		}
	}
	return out
}
