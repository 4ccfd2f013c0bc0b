// Package spatial indexes the extents of the entities in a graph.
package spatial

import (
	"sort"

	"github.com/Workiva/go-datastructures/augmentedtree"
	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/graph"
)

// Tree answers bounding box queries against a graph. It follows the graph
// it was last queried with and updates itself from the difference to the
// next one. A Tree is not safe for concurrent use.
type Tree struct {
	tree    augmentedtree.Tree
	head    *graph.Graph
	entries map[string]*box
	next    uint64
}

// New indexes every entity of g.
func New(g *graph.Graph) *Tree {
	t := &Tree{
		tree:    augmentedtree.New(2),
		head:    g,
		entries: make(map[string]*box),
	}
	for _, e := range g.Entities() {
		t.insert(g, e)
	}
	return t
}

func (t *Tree) Len() int {
	return len(t.entries)
}

func (t *Tree) remove(id string) {
	if b, ok := t.entries[id]; ok {
		t.tree.Delete(b)
		delete(t.entries, id)
	}
}

func (t *Tree) insert(g *graph.Graph, e entity.Entity) {
	t.remove(e.ID())
	if degenerate(e) || !g.IsComplete(e) {
		return
	}
	bound, ok := g.Extent(e)
	if !ok {
		return
	}

	t.next++
	b := newBox(t.next, e.ID(), bound)
	t.entries[e.ID()] = b
	t.tree.Add(b)
}

func degenerate(e entity.Entity) bool {
	switch v := e.(type) {
	case *entity.Point:
		return v.IsDegenerate()
	case *entity.Path:
		return v.IsDegenerate()
	case *entity.Group:
		return v.IsDegenerate()
	}
	return true
}

func (t *Tree) update(g *graph.Graph) {
	if g == t.head {
		return
	}
	changed := graph.Difference(t.head, g).Extend()
	ids := make([]string, 0, len(changed))
	for id := range changed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if v := changed[id]; v != nil {
			t.insert(g, v)
		} else {
			t.remove(id)
		}
	}
	t.head = g
}

// Rebase indexes entities that were loaded into the base of the graph the
// tree follows, together with the paths and groups they complete.
func (t *Tree) Rebase(entities []entity.Entity) {
	g := t.head
	seen := make(map[string]bool)
	var visit func(id string)
	visit = func(id string) {
		if seen[id] {
			return
		}
		seen[id] = true
		if v, ok := g.HasEntity(id); ok {
			t.insert(g, v)
		}
		for _, p := range g.ParentPaths(id) {
			visit(p.ID())
		}
		for _, r := range g.ParentGroups(id) {
			visit(r.ID())
		}
	}
	for _, e := range entities {
		visit(e.ID())
	}
}

// Intersects returns the entities of g whose extent overlaps bound,
// ordered by id.
func (t *Tree) Intersects(bound orb.Bound, g *graph.Graph) []entity.Entity {
	t.update(g)

	q := newBox(0, "", bound)
	results := t.tree.Query(q)
	defer results.Dispose()

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.(*box).entity)
	}
	sort.Strings(ids)

	out := make([]entity.Entity, 0, len(ids))
	for _, id := range ids {
		if v, ok := g.HasEntity(id); ok {
			out = append(out, v)
		}
	}
	return out
}
