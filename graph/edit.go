package graph

import (
	"sort"

	"github.com/rubenv/osmgraph/entity"
)

// Edit stages changes against one Graph. Reads through an Edit see the
// staged values layered over the graph. An Edit is not safe for concurrent
// use.
type Edit struct {
	g      *Graph
	staged map[string]entity.Entity
}

func (g *Graph) Edit() *Edit {
	return &Edit{
		g:      g,
		staged: make(map[string]entity.Entity),
	}
}

func (e *Edit) Graph() *Graph { return e.g }
func (e *Edit) Len() int      { return len(e.staged) }

// Replace stages ent under its id with a new version and returns the
// staged value.
func (e *Edit) Replace(ent entity.Entity) entity.Entity {
	v := ent.Stamped(e.g.clock.Next())
	e.staged[ent.ID()] = v
	return v
}

func (e *Edit) Remove(id string) {
	e.staged[id] = nil
}

// Revert discards the staged entry and the committed local change for id.
// The base value becomes visible again; without one the id is absent.
func (e *Edit) Revert(id string) {
	if v, ok := e.g.base.entities[id]; ok {
		e.staged[id] = v
		return
	}
	if e.g.local.has(id) {
		e.staged[id] = nil
		return
	}
	delete(e.staged, id)
}

func (e *Edit) HasEntity(id string) (entity.Entity, bool) {
	if v, ok := e.staged[id]; ok {
		return v, v != nil
	}
	return e.g.HasEntity(id)
}

func (e *Edit) Entity(id string) (entity.Entity, error) {
	v, ok := e.HasEntity(id)
	if !ok {
		return nil, &MissingEntityError{ID: id}
	}
	return v, nil
}

func (e *Edit) Point(id string) (*entity.Point, bool) {
	v, _ := e.HasEntity(id)
	p, ok := v.(*entity.Point)
	return p, ok
}

func (e *Edit) Path(id string) (*entity.Path, bool) {
	v, _ := e.HasEntity(id)
	p, ok := v.(*entity.Path)
	return p, ok
}

func (e *Edit) Group(id string) (*entity.Group, bool) {
	v, _ := e.HasEntity(id)
	r, ok := v.(*entity.Group)
	return r, ok
}

// ParentPaths lists the paths referencing id, staged values included.
func (e *Edit) ParentPaths(id string) []*entity.Path {
	out := make([]*entity.Path, 0)
	seen := make(map[string]bool)
	for _, pid := range e.g.parentPathIDs(id) {
		seen[pid] = true
		if p, ok := e.Path(pid); ok && p.Contains(id) {
			out = append(out, p)
		}
	}
	for _, sid := range e.stagedIDs() {
		if seen[sid] {
			continue
		}
		if p, ok := e.staged[sid].(*entity.Path); ok && p.Contains(id) {
			out = append(out, p)
		}
	}
	return out
}

// ParentGroups lists the groups referencing id, staged values included.
func (e *Edit) ParentGroups(id string) []*entity.Group {
	out := make([]*entity.Group, 0)
	seen := make(map[string]bool)
	for _, gid := range e.g.parentGroupIDs(id) {
		seen[gid] = true
		if r, ok := e.Group(gid); ok {
			if _, _, member := r.MemberByID(id); member {
				out = append(out, r)
			}
		}
	}
	for _, sid := range e.stagedIDs() {
		if seen[sid] {
			continue
		}
		if r, ok := e.staged[sid].(*entity.Group); ok {
			if _, _, member := r.MemberByID(id); member {
				out = append(out, r)
			}
		}
	}
	return out
}

func (e *Edit) ChildPoints(p *entity.Path) []*entity.Point {
	out := make([]*entity.Point, 0, len(p.Nodes()))
	for _, id := range p.Nodes() {
		if pt, ok := e.Point(id); ok {
			out = append(out, pt)
		}
	}
	return out
}

func (e *Edit) stagedIDs() []string {
	ids := make([]string, 0, len(e.staged))
	for id := range e.staged {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (e *Edit) Commit() *Graph {
	return Commit(e.g, e)
}

// Commit publishes the staged changes of e as a new graph. g is left as it
// was. An edit without effective changes returns g itself.
func Commit(g *Graph, e *Edit) *Graph {
	if e == nil || len(e.staged) == 0 {
		return g
	}
	if e.g != g {
		panic("graph: edit committed against a different graph")
	}

	next := &Graph{
		base:         g.base,
		local:        g.local.fork(),
		parentPaths:  g.parentPaths.fork(),
		parentGroups: g.parentGroups.fork(),
		touched:      g.touched.fork(),
		clock:        g.clock,
		ids:          g.ids,
		cache:        g.cache,
	}

	dirty := make(map[string]bool)
	changed := make([]string, 0, len(e.staged))
	for _, id := range e.stagedIDs() {
		old, _ := g.HasEntity(id)
		v := e.staged[id]
		if old == v {
			continue
		}
		changed = append(changed, id)

		b, inBase := g.base.entities[id]
		switch {
		case inBase && b == v:
			next.local.del(id)
		case !inBase && v == nil:
			next.local.del(id)
		default:
			next.local.set(id, v)
		}

		next.updateParents(old, v, dirty)
		dirty[id] = true
	}
	if len(changed) == 0 {
		return g
	}

	for _, id := range changed {
		for _, gr := range [...]*Graph{g, next} {
			for _, pid := range gr.parentPathIDs(id) {
				dirty[pid] = true
			}
			for _, rid := range gr.parentGroupIDs(id) {
				dirty[rid] = true
			}
		}
	}

	next.generation = g.clock.Next()
	ids := make([]string, 0, len(dirty))
	for id := range dirty {
		next.touched.set(id, next.generation)
		ids = append(ids, id)
	}
	g.cache.drop(ids)

	commitsTotal.Inc()
	commitSize.Observe(float64(len(changed)))
	return next
}
