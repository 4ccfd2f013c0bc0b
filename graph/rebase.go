package graph

import "github.com/rubenv/osmgraph/entity"

// Rebase loads entities into the base shared by g and its lineage. Ids
// already in the base are skipped unless force is set. The local index
// overrides of g and of every graph in stack are patched so that parents
// appearing in the base show up in them too.
//
// Like a commit, a rebase invalidates what was derived from the loaded
// entities and their direct neighbours: cached values are dropped and the
// touched generation of every affected id moves on in each graph of the
// lineage.
//
// This writes to graphs that may already be published. Callers must make
// sure nothing reads them concurrently.
func (g *Graph) Rebase(entities []entity.Entity, stack []*Graph, force bool) {
	b := g.base
	added := make(map[string][]string)
	removed := make(map[string][]string)
	rebased := make([]string, 0, len(entities))
	dirty := make(map[string]bool)

	for _, ent := range entities {
		if ent == nil {
			continue
		}
		id := ent.ID()
		old, exists := b.entities[id]
		if exists && !force {
			continue
		}

		ent = ent.Stamped(g.clock.Next())
		b.entities[id] = ent
		b.reindex(old, ent, added, removed)

		rebased = append(rebased, id)
		dirty[id] = true
		for _, ref := range ent.Refs() {
			dirty[ref] = true
		}
		if old != nil {
			for _, ref := range old.Refs() {
				dirty[ref] = true
			}
		}
	}

	graphs := make([]*Graph, 0, len(stack)+1)
	seen := make(map[*Graph]bool)
	for _, s := range append([]*Graph{g}, stack...) {
		if s == nil || seen[s] || s.base != b {
			continue
		}
		seen[s] = true
		graphs = append(graphs, s)
		s.updateRebased(added, removed)
	}

	for child, parents := range added {
		dirty[child] = true
		for _, pid := range parents {
			dirty[pid] = true
		}
	}
	for child, parents := range removed {
		dirty[child] = true
		for _, pid := range parents {
			dirty[pid] = true
		}
	}

	// Parents of a loaded entity see a new child, even when the entity
	// carries no refs of its own.
	for _, id := range rebased {
		for _, pid := range b.parentPaths[id] {
			dirty[pid] = true
		}
		for _, rid := range b.parentGroups[id] {
			dirty[rid] = true
		}
		for _, s := range graphs {
			for _, pid := range s.parentPathIDs(id) {
				dirty[pid] = true
			}
			for _, rid := range s.parentGroupIDs(id) {
				dirty[rid] = true
			}
		}
	}

	if len(dirty) == 0 {
		return
	}

	ids := make([]string, 0, len(dirty))
	for id := range dirty {
		ids = append(ids, id)
	}
	generation := g.clock.Next()
	for _, s := range graphs {
		for _, id := range ids {
			s.touched.set(id, generation)
		}
	}
	g.cache.drop(ids)

	rebasedTotal.Add(float64(len(rebased)))
}

func (g *Graph) updateRebased(added, removed map[string][]string) {
	patch := func(index indexLayer, child string, pid string, add bool) {
		local, ok := index.get(child)
		if !ok {
			return
		}
		if g.local.has(pid) {
			return
		}
		if add && !contains(local, pid) {
			index.set(child, with(local, pid))
		} else if !add && contains(local, pid) {
			index.set(child, without(local, pid))
		}
	}

	apply := func(changes map[string][]string, add bool) {
		for child, parents := range changes {
			for _, pid := range parents {
				switch kind, _ := entity.KindOf(pid); kind {
				case entity.KindPath:
					patch(g.parentPaths, child, pid, add)
				case entity.KindGroup:
					patch(g.parentGroups, child, pid, add)
				}
			}
		}
	}
	apply(added, true)
	apply(removed, false)
}
