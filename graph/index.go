package graph

import "github.com/rubenv/osmgraph/entity"

func (g *Graph) parentPathIDs(id string) []string {
	if v, ok := g.parentPaths.get(id); ok {
		return v
	}
	return g.base.parentPaths[id]
}

func (g *Graph) parentGroupIDs(id string) []string {
	if v, ok := g.parentGroups.get(id); ok {
		return v
	}
	return g.base.parentGroups[id]
}

// updateParents applies the reference change of one entity to the local
// index overrides of g. Every child on either side lands in dirty.
func (g *Graph) updateParents(old, next entity.Entity, dirty map[string]bool) {
	id, kind, oldRefs, newRefs := refChange(old, next)

	var index indexLayer
	var base map[string][]string
	switch kind {
	case entity.KindPath:
		index, base = g.parentPaths, g.base.parentPaths
	case entity.KindGroup:
		index, base = g.parentGroups, g.base.parentGroups
	default:
		return
	}

	removed, added := refDifference(oldRefs, newRefs)
	for _, child := range removed {
		parents, ok := index.get(child)
		if !ok {
			parents = base[child]
		}
		index.set(child, without(parents, id))
	}
	for _, child := range added {
		parents, ok := index.get(child)
		if !ok {
			parents = base[child]
		}
		if !contains(parents, id) {
			index.set(child, with(parents, id))
		}
	}

	for _, child := range oldRefs {
		dirty[child] = true
	}
	for _, child := range newRefs {
		dirty[child] = true
	}
}

// reindex applies a reference change to the shared base index and reports
// the parent links that were added and removed, keyed by child.
func (b *snapshot) reindex(old, next entity.Entity, added, removed map[string][]string) {
	id, kind, oldRefs, newRefs := refChange(old, next)

	var index map[string][]string
	switch kind {
	case entity.KindPath:
		index = b.parentPaths
	case entity.KindGroup:
		index = b.parentGroups
	default:
		return
	}

	gone, fresh := refDifference(oldRefs, newRefs)
	for _, child := range gone {
		index[child] = without(index[child], id)
		removed[child] = append(removed[child], id)
	}
	for _, child := range fresh {
		if !contains(index[child], id) {
			index[child] = with(index[child], id)
		}
		added[child] = append(added[child], id)
	}
}

func refChange(old, next entity.Entity) (string, entity.Kind, []string, []string) {
	var id string
	var kind entity.Kind
	var oldRefs, newRefs []string
	if old != nil {
		id, kind, oldRefs = old.ID(), old.Kind(), old.Refs()
	}
	if next != nil {
		id, kind, newRefs = next.ID(), next.Kind(), next.Refs()
	}
	return id, kind, oldRefs, newRefs
}

// refDifference returns the ids only in a and the ids only in b. Repeats
// count once.
func refDifference(a, b []string) ([]string, []string) {
	inA := make(map[string]bool, len(a))
	for _, id := range a {
		inA[id] = true
	}
	inB := make(map[string]bool, len(b))
	for _, id := range b {
		inB[id] = true
	}

	var onlyA, onlyB []string
	for _, id := range a {
		if !inB[id] {
			onlyA = append(onlyA, id)
			inB[id] = true
		}
	}
	for _, id := range b {
		if !inA[id] {
			onlyB = append(onlyB, id)
			inA[id] = true
		}
	}
	return onlyA, onlyB
}

// Index slices are shared between graphs; these helpers always copy.

func with(ids []string, id string) []string {
	out := make([]string, len(ids), len(ids)+1)
	copy(out, ids)
	return append(out, id)
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
