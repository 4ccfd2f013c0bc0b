package graph

import (
	"sort"

	"github.com/rubenv/osmgraph/entity"
)

// Change holds the value of one id on both sides of a Diff. A nil side
// means the id is absent there.
type Change struct {
	Base entity.Entity
	Head entity.Entity
}

type Diff struct {
	from    *Graph
	to      *Graph
	changes map[string]Change
}

// Difference compares two graphs sharing a base. Ids whose values only
// differ in version are not reported.
func Difference(from, to *Graph) *Diff {
	d := &Diff{
		from:    from,
		to:      to,
		changes: make(map[string]Change),
	}
	if from == to {
		return d
	}

	check := func(id string) {
		if _, ok := d.changes[id]; ok {
			return
		}
		b, _ := from.HasEntity(id)
		h, _ := to.HasEntity(id)
		if b == h || same(b, h) {
			return
		}
		d.changes[id] = Change{Base: b, Head: h}
	}
	for _, id := range to.local.keys() {
		check(id)
	}
	for _, id := range from.local.keys() {
		check(id)
	}
	return d
}

func same(a, b entity.Entity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || !a.Tags().Equal(b.Tags()) {
		return false
	}

	switch av := a.(type) {
	case *entity.Point:
		return av.Loc() == b.(*entity.Point).Loc()
	case *entity.Path:
		return equalIDs(av.Nodes(), b.(*entity.Path).Nodes())
	case *entity.Group:
		bm := b.(*entity.Group).Members()
		if len(av.Members()) != len(bm) {
			return false
		}
		for i, m := range av.Members() {
			if m != bm[i] {
				return false
			}
		}
	}
	return true
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (d *Diff) From() *Graph { return d.from }
func (d *Diff) To() *Graph   { return d.to }
func (d *Diff) Len() int     { return len(d.changes) }

func (d *Diff) Changes() map[string]Change {
	return d.changes
}

// IDs lists the changed ids in order.
func (d *Diff) IDs() []string {
	ids := make([]string, 0, len(d.changes))
	for id := range d.changes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (d *Diff) Created() []entity.Entity {
	out := make([]entity.Entity, 0)
	for _, id := range d.IDs() {
		if c := d.changes[id]; c.Base == nil {
			out = append(out, c.Head)
		}
	}
	return out
}

func (d *Diff) Modified() []entity.Entity {
	out := make([]entity.Entity, 0)
	for _, id := range d.IDs() {
		if c := d.changes[id]; c.Base != nil && c.Head != nil {
			out = append(out, c.Head)
		}
	}
	return out
}

// Deleted returns the last values of removed entities.
func (d *Diff) Deleted() []entity.Entity {
	out := make([]entity.Entity, 0)
	for _, id := range d.IDs() {
		if c := d.changes[id]; c.Head == nil {
			out = append(out, c.Base)
		}
	}
	return out
}

// Extend widens the diff to everything whose derived geometry may have
// changed: points added to or dropped from paths, paths whose points moved
// and every group above any of them. The map holds the head value, or nil
// for ids absent in the head.
func (d *Diff) Extend() map[string]entity.Entity {
	out := make(map[string]entity.Entity)
	add := func(id string) {
		if _, ok := out[id]; ok {
			return
		}
		v, _ := d.to.HasEntity(id)
		out[id] = v
	}

	visited := make(map[string]bool)
	var addGroups func(id string)
	addGroups = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, gr := range [...]*Graph{d.from, d.to} {
			for _, rid := range gr.parentGroupIDs(id) {
				if _, ok := gr.HasEntity(rid); !ok {
					continue
				}
				add(rid)
				addGroups(rid)
			}
		}
	}

	for id, c := range d.changes {
		add(id)

		var oldNodes, newNodes []string
		if p, ok := c.Base.(*entity.Path); ok {
			oldNodes = p.Nodes()
		}
		if p, ok := c.Head.(*entity.Path); ok {
			newNodes = p.Nodes()
		}
		gone, fresh := refDifference(oldNodes, newNodes)
		for _, n := range gone {
			add(n)
		}
		for _, n := range fresh {
			add(n)
		}

		if kind, _ := entity.KindOf(id); kind == entity.KindPoint {
			for _, gr := range [...]*Graph{d.from, d.to} {
				for _, pid := range gr.parentPathIDs(id) {
					if _, ok := gr.HasEntity(pid); !ok {
						continue
					}
					add(pid)
					addGroups(pid)
				}
			}
		}
		addGroups(id)
	}
	return out
}
