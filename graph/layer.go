package graph

import (
	"github.com/Workiva/go-datastructures/trie/ctrie"
	"github.com/rubenv/osmgraph/entity"
)

// layer is a persistent map from id to T. fork is O(1): the copy shares
// structure with the original and both copy lazily on write, so a commit
// pays for the ids it changes and not for everything committed before.
type layer[T any] struct {
	c *ctrie.Ctrie
}

func newLayer[T any]() layer[T] {
	return layer[T]{c: ctrie.New(nil)}
}

func (l layer[T]) get(id string) (T, bool) {
	v, ok := l.c.Lookup([]byte(id))
	if !ok {
		var zero T
		return zero, false
	}
	t, _ := v.(T)
	return t, true
}

func (l layer[T]) has(id string) bool {
	_, ok := l.c.Lookup([]byte(id))
	return ok
}

func (l layer[T]) set(id string, v T) {
	l.c.Insert([]byte(id), v)
}

func (l layer[T]) del(id string) {
	l.c.Remove([]byte(id))
}

func (l layer[T]) fork() layer[T] {
	return layer[T]{c: l.c.Snapshot()}
}

// each visits every entry. The iterator must be drained.
func (l layer[T]) each(fn func(id string, v T)) {
	for e := range l.c.Iterator(nil) {
		t, _ := e.Value.(T)
		fn(string(e.Key), t)
	}
}

func (l layer[T]) keys() []string {
	ids := make([]string, 0)
	l.each(func(id string, _ T) {
		ids = append(ids, id)
	})
	return ids
}

type (
	entityLayer = layer[entity.Entity]
	indexLayer  = layer[[]string]
	touchLayer  = layer[int64]
)
