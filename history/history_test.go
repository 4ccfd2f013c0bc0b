package history

import (
	"errors"
	"testing"

	"github.com/cheekybits/is"
	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/action"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/geometry"
	"github.com/rubenv/osmgraph/graph"
)

func square() *graph.Graph {
	return graph.New(
		entity.NewPoint("n1", orb.Point{0, 0}, nil),
		entity.NewPoint("n2", orb.Point{1, 0}, nil),
		entity.NewPoint("n3", orb.Point{1, 1}, nil),
		entity.NewPoint("n4", orb.Point{0, 1}, nil),
		entity.NewPath("w1", []string{"n1", "n2", "n3", "n4", "n1"}, nil),
	)
}

func TestUndoRedo(t *testing.T) {
	is := is.New(t)

	h := New(square())
	is.False(h.CanUndo())
	is.False(h.CanRedo())

	diff, err := h.Perform("Tag building", action.ChangeTags("w1", entity.Tags{"building": "yes"}))
	is.NoErr(err)
	is.Equal(diff.Len(), 1)
	is.Equal(h.UndoAnnotation(), "Tag building")

	_, err = h.Perform("Move", action.Move([]string{"n1"}, orb.Point{1, 1}, geometry.IdentityProjector))
	is.NoErr(err)
	p, _ := h.Graph().Point("n1")
	is.Equal(p.Loc(), orb.Point{1, 1})

	diff = h.Undo()
	is.Equal(diff.Len(), 1)
	p, _ = h.Graph().Point("n1")
	is.Equal(p.Loc(), orb.Point{0, 0})
	is.Equal(h.RedoAnnotation(), "Move")
	is.True(h.CanRedo())

	h.Undo()
	is.False(h.CanUndo())
	is.Equal(h.Graph(), h.Base())

	h.Redo()
	h.Redo()
	p, _ = h.Graph().Point("n1")
	is.Equal(p.Loc(), orb.Point{1, 1})
	is.False(h.CanRedo())
	is.Equal(h.Difference().Len(), 2)
}

func TestPerformDiscardsRedo(t *testing.T) {
	is := is.New(t)

	h := New(square())
	h.Perform("one", action.ChangeTags("w1", entity.Tags{"a": "1"}))
	h.Undo()
	is.True(h.CanRedo())

	h.Perform("two", action.ChangeTags("w1", entity.Tags{"a": "2"}))
	is.False(h.CanRedo())
	is.Equal(len(h.Graphs()), 2)
}

func TestInfeasible(t *testing.T) {
	is := is.New(t)

	h := New(square())
	_, err := h.Perform("Merge", action.MergePolygon([]string{"w1"}, "r-1"))
	is.Err(err)

	var infeasible *InfeasibleError
	is.True(errors.As(err, &infeasible))
	is.Equal(infeasible.Reason, action.NotEligible)
	is.Equal(len(h.Graphs()), 1)
}

func TestPreview(t *testing.T) {
	is := is.New(t)

	h := New(square())
	move := action.Move([]string{"w1"}, orb.Point{4, 0}, geometry.IdentityProjector)

	_, err := h.Preview(move, 0.25)
	is.NoErr(err)
	_, err = h.Preview(move, 0.5)
	is.NoErr(err)
	is.Equal(len(h.Graphs()), 2)
	p, _ := h.Graph().Point("n1")
	is.Equal(p.Loc(), orb.Point{2, 0})

	// Previews aren't undo points
	is.False(h.CanUndo())

	h.Cancel()
	is.Equal(h.Graph(), h.Base())

	h.Preview(move, 0.5)
	h.Perform("Move", move)
	p, _ = h.Graph().Point("n1")
	is.Equal(p.Loc(), orb.Point{4, 0})
	is.Equal(len(h.Graphs()), 2)
	is.True(h.CanUndo())
}

func TestReplaceAndPop(t *testing.T) {
	is := is.New(t)

	h := New(square())
	h.Perform("", action.Noop())
	h.Replace("Tag", action.ChangeTags("w1", entity.Tags{"a": "1"}))
	is.Equal(len(h.Graphs()), 2)
	is.Equal(h.UndoAnnotation(), "Tag")

	h.Pop(1)
	is.Equal(len(h.Graphs()), 1)
	h.Pop(5)
	is.Equal(len(h.Graphs()), 1)
}

func TestMerge(t *testing.T) {
	is := is.New(t)

	h := New(square())
	h.Perform("Tag", action.ChangeTags("w1", entity.Tags{"a": "1"}))

	h.Merge([]entity.Entity{
		entity.NewPoint("n5", orb.Point{5, 5}, nil),
		entity.NewPath("w2", []string{"n1", "n5"}, nil),
	})

	for _, g := range h.Graphs() {
		_, ok := g.HasEntity("w2")
		is.True(ok)
		is.Equal(len(g.ParentPaths("n1")), 2)
	}

	// Known entities aren't overwritten
	h.Merge([]entity.Entity{entity.NewPath("w1", []string{"n1", "n2"}, nil)})
	w, _ := h.Base().Path("w1")
	is.Equal(len(w.Nodes()), 5)
}
