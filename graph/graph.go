// Package graph holds versioned entity graphs.
//
// A Graph is an immutable head: a shared base snapshot plus the local
// changes committed on top of it. Changes are staged in an Edit and
// published with Commit, which returns a new Graph and leaves the old one
// untouched. Rebase is the only operation that writes to an existing
// graph: it loads entities into the shared base.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rubenv/osmgraph/entity"
)

var ErrMissingEntity = errors.New("Missing entity")

type MissingEntityError struct {
	ID string
}

func (e *MissingEntityError) Error() string {
	return fmt.Sprintf("Missing entity: %s", e.ID)
}

func (e *MissingEntityError) Unwrap() error {
	return ErrMissingEntity
}

// snapshot is the base shared by every graph of a lineage.
type snapshot struct {
	entities     map[string]entity.Entity
	parentPaths  map[string][]string
	parentGroups map[string][]string
}

type Graph struct {
	base *snapshot

	// A nil value marks a local removal.
	local        entityLayer
	parentPaths  indexLayer
	parentGroups indexLayer

	// Commit generation at which each id or one of its direct neighbours
	// last changed.
	touched    touchLayer
	generation int64

	clock *entity.Clock
	ids   *entity.IDs
	cache *transientCache
}

// New creates a graph whose base holds the given entities. Every entity is
// stamped with a fresh version.
func New(entities ...entity.Entity) *Graph {
	g := &Graph{
		base: &snapshot{
			entities:     make(map[string]entity.Entity),
			parentPaths:  make(map[string][]string),
			parentGroups: make(map[string][]string),
		},
		local:        newLayer[entity.Entity](),
		parentPaths:  newLayer[[]string](),
		parentGroups: newLayer[[]string](),
		touched:      newLayer[int64](),
		clock:        entity.NewClock(),
		ids:          entity.NewIDs(),
		cache:        newTransientCache(),
	}
	if len(entities) > 0 {
		g.Rebase(entities, nil, true)
	}
	return g
}

// Base returns a graph holding only the shared base of g.
func (g *Graph) Base() *Graph {
	return &Graph{
		base:         g.base,
		local:        newLayer[entity.Entity](),
		parentPaths:  newLayer[[]string](),
		parentGroups: newLayer[[]string](),
		touched:      newLayer[int64](),
		clock:        g.clock,
		ids:          g.ids,
		cache:        g.cache,
	}
}

func (g *Graph) Clock() *entity.Clock { return g.clock }
func (g *Graph) IDs() *entity.IDs     { return g.ids }
func (g *Graph) Generation() int64    { return g.generation }

// HasEntity returns the visible value of id. It never fails: ids that are
// unknown or removed report false.
func (g *Graph) HasEntity(id string) (entity.Entity, bool) {
	if v, ok := g.local.get(id); ok {
		return v, v != nil
	}
	v, ok := g.base.entities[id]
	return v, ok
}

// Entity returns the visible value of id or a *MissingEntityError.
func (g *Graph) Entity(id string) (entity.Entity, error) {
	v, ok := g.HasEntity(id)
	if !ok {
		return nil, &MissingEntityError{ID: id}
	}
	return v, nil
}

// MustEntity is Entity for callers that know id exists.
func (g *Graph) MustEntity(id string) entity.Entity {
	v, err := g.Entity(id)
	if err != nil {
		panic(err)
	}
	return v
}

func (g *Graph) Point(id string) (*entity.Point, bool) {
	v, _ := g.HasEntity(id)
	p, ok := v.(*entity.Point)
	return p, ok
}

func (g *Graph) Path(id string) (*entity.Path, bool) {
	v, _ := g.HasEntity(id)
	p, ok := v.(*entity.Path)
	return p, ok
}

func (g *Graph) Group(id string) (*entity.Group, bool) {
	v, _ := g.HasEntity(id)
	r, ok := v.(*entity.Group)
	return r, ok
}

// Entities returns every visible entity, ordered by id.
func (g *Graph) Entities() []entity.Entity {
	ids := make([]string, 0, len(g.base.entities))
	for id := range g.base.entities {
		if !g.local.has(id) {
			ids = append(ids, id)
		}
	}
	g.local.each(func(id string, v entity.Entity) {
		if v != nil {
			ids = append(ids, id)
		}
	})
	sort.Strings(ids)

	out := make([]entity.Entity, len(ids))
	for i, id := range ids {
		out[i], _ = g.HasEntity(id)
	}
	return out
}

// IsBase reports whether id is visible with its base value.
func (g *Graph) IsBase(id string) bool {
	return !g.local.has(id)
}

// Local lists the ids changed on top of the base, ordered.
func (g *Graph) Local() []string {
	ids := g.local.keys()
	sort.Strings(ids)
	return ids
}
