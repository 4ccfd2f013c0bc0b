package spatial

import (
	"testing"

	"github.com/cheekybits/is"
	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/graph"
)

func ids(entities []entity.Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.ID()
	}
	return out
}

func bound(minX, minY, maxX, maxY float64) orb.Bound {
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
}

func TestIntersects(t *testing.T) {
	is := is.New(t)

	g := graph.New(
		entity.NewPoint("n1", orb.Point{0, 0}, nil),
		entity.NewPoint("n2", orb.Point{1, 0}, nil),
		entity.NewPoint("n3", orb.Point{1, 1}, nil),
		entity.NewPoint("n4", orb.Point{5, 5}, nil),
		entity.NewPath("w1", []string{"n1", "n2", "n3"}, nil),
		entity.NewPath("w2", []string{"n3", "n9"}, nil),
		entity.NewGroup("r1", []entity.Member{{ID: "w1", Kind: entity.KindPath}}, nil),
	)
	tree := New(g)

	// w2 is incomplete
	is.Equal(tree.Len(), 6)

	is.Equal(ids(tree.Intersects(bound(0.5, -0.5, 2, 0.5), g)), []string{"n2", "r1", "w1"})
	is.Equal(ids(tree.Intersects(bound(4, 4, 6, 6), g)), []string{"n4"})
	is.Equal(len(tree.Intersects(bound(10, 10, 11, 11), g)), 0)

	// Edges count as overlapping
	is.Equal(ids(tree.Intersects(bound(5, 5, 5, 5), g)), []string{"n4"})
}

func TestFollowsGraph(t *testing.T) {
	is := is.New(t)

	g := graph.New(
		entity.NewPoint("n1", orb.Point{0, 0}, nil),
		entity.NewPoint("n2", orb.Point{1, 0}, nil),
		entity.NewPath("w1", []string{"n1", "n2"}, nil),
		entity.NewGroup("r1", []entity.Member{{ID: "w1", Kind: entity.KindPath}}, nil),
	)
	tree := New(g)
	far := bound(9, 9, 11, 11)
	is.Equal(len(tree.Intersects(far, g)), 0)

	e := g.Edit()
	n2, _ := g.Point("n2")
	e.Replace(n2.Move(orb.Point{10, 10}))
	moved := e.Commit()

	// The path and group grow along with their point
	is.Equal(ids(tree.Intersects(far, moved)), []string{"n2", "r1", "w1"})

	e = moved.Edit()
	e.Remove("r1")
	e.Remove("w1")
	removed := e.Commit()
	is.Equal(ids(tree.Intersects(far, removed)), []string{"n2"})

	// Going back works as well
	is.Equal(len(tree.Intersects(far, g)), 0)
	is.Equal(ids(tree.Intersects(bound(0, 0, 1, 1), g)), []string{"n1", "n2", "r1", "w1"})
}

func TestRebase(t *testing.T) {
	is := is.New(t)

	g := graph.New(
		entity.NewPoint("n1", orb.Point{0, 0}, nil),
		entity.NewPath("w1", []string{"n1", "n2"}, nil),
	)
	tree := New(g)
	is.Equal(tree.Len(), 1)

	loaded := []entity.Entity{entity.NewPoint("n2", orb.Point{2, 2}, nil)}
	g.Rebase(loaded, nil, false)
	tree.Rebase(loaded)

	is.Equal(ids(tree.Intersects(bound(1, 1, 3, 3), g)), []string{"n2", "w1"})
}

func TestContaining(t *testing.T) {
	is := is.New(t)

	g := graph.New(
		entity.NewPoint("n1", orb.Point{0, 0}, nil),
		entity.NewPoint("n2", orb.Point{4, 0}, nil),
		entity.NewPoint("n3", orb.Point{4, 4}, nil),
		entity.NewPoint("n4", orb.Point{0, 4}, nil),
		entity.NewPoint("n5", orb.Point{1, 1}, nil),
		entity.NewPoint("n6", orb.Point{2, 1}, nil),
		entity.NewPoint("n7", orb.Point{2, 2}, nil),
		entity.NewPoint("n8", orb.Point{1, 2}, nil),
		entity.NewPath("w1", []string{"n1", "n2", "n3", "n4", "n1"}, nil),
		entity.NewPath("w2", []string{"n5", "n6", "n7", "n8", "n5"}, entity.Tags{"building": "yes"}),
		entity.NewPath("w3", []string{"n1", "n3"}, entity.Tags{"highway": "path"}),
		entity.NewGroup("r1", []entity.Member{
			{ID: "w1", Kind: entity.KindPath, Role: "outer"},
			{ID: "w2", Kind: entity.KindPath, Role: "inner"},
		}, entity.Tags{"type": "multipolygon", "landuse": "forest"}),
	)
	tree := New(g)

	is.Equal(ids(tree.Containing(orb.Point{3, 3}, g)), []string{"r1"})
	is.Equal(ids(tree.Containing(orb.Point{1.5, 1.5}, g)), []string{"w2"})
	is.Equal(len(tree.Containing(orb.Point{5, 5}, g)), 0)
}
