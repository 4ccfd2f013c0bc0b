package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/cheekybits/is"
	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/graph"
	"github.com/rubenv/osmgraph/history"
)

func openTestStore(t *testing.T) *Store {
	s, err := Open(Config{
		InMemory: true,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func fixtures() []entity.Entity {
	return []entity.Entity{
		entity.NewPoint("n1", orb.Point{0, 0}, nil),
		entity.NewPoint("n2", orb.Point{1, 0}, nil),
		entity.NewPoint("n3", orb.Point{1, 1}, nil),
		entity.NewPoint("n4", orb.Point{5, 5}, entity.Tags{"name": "Bench"}),
		entity.NewPath("w1", []string{"n1", "n2", "n3", "n1"}, entity.Tags{"building": "yes"}),
		entity.NewPath("w2", []string{"n3", "n4", "n5"}, nil),
		entity.NewGroup("r1", []entity.Member{
			{ID: "w1", Kind: entity.KindPath, Role: "outer"},
			{ID: "w2", Kind: entity.KindPath},
			{ID: "r2", Kind: entity.KindGroup},
		}, entity.Tags{"type": "multipolygon", "name": "Park"}),
		entity.NewGroup("r2", []entity.Member{{ID: "n4", Kind: entity.KindPoint}}, entity.Tags{"type": "site"}),
	}
}

func TestPutGetRemove(t *testing.T) {
	is := is.New(t)
	s := openTestStore(t)

	e, err := s.Get("n1")
	is.NoErr(err)
	is.Nil(e)

	is.NoErr(s.Put(fixtures()...))

	e, err = s.Get("w1")
	is.NoErr(err)
	w, ok := e.(*entity.Path)
	is.True(ok)
	is.Equal(w.Nodes(), []string{"n1", "n2", "n3", "n1"})
	is.Equal(w.Tags()["building"], "yes")

	is.NoErr(s.Remove("w1", "w404"))
	e, err = s.Get("w1")
	is.NoErr(err)
	is.Nil(e)
}

func TestFindByTag(t *testing.T) {
	is := is.New(t)
	s := openTestStore(t)
	is.NoErr(s.Put(fixtures()...))

	ids, err := s.FindByTag("type", "multipolygon")
	is.NoErr(err)
	is.Equal(ids, []string{"r1"})

	ids, err = s.FindByTag("name", "PARK")
	is.NoErr(err)
	is.Equal(ids, []string{"r1"})

	// Retagging moves the index entry
	r1, _ := s.Get("r1")
	is.NoErr(s.Put(r1.WithTags(entity.Tags{"type": "boundary"})))
	ids, err = s.FindByTag("type", "multipolygon")
	is.NoErr(err)
	is.Equal(len(ids), 0)

	ids, err = s.FindByTag("type", "boundary")
	is.NoErr(err)
	is.Equal(ids, []string{"r1"})

	is.NoErr(s.Remove("r1"))
	ids, err = s.FindByTag("type", "boundary")
	is.NoErr(err)
	is.Equal(len(ids), 0)
}

func TestReindex(t *testing.T) {
	is := is.New(t)
	s := openTestStore(t)

	is.NoErr(s.writeBatch(fixtures()))
	ids, err := s.FindByTag("name", "bench")
	is.NoErr(err)
	is.Equal(ids, []string{"n4"})

	is.NoErr(s.Reindex())
	ids, err = s.FindByTag("type", "site")
	is.NoErr(err)
	is.Equal(ids, []string{"r2"})

	counts, err := s.IndexCounts()
	is.NoErr(err)
	is.Equal(counts, map[string]int{"name": 2, "type": 2})

	// Stale entries go away
	is.NoErr(s.Remove("r2"))
	is.NoErr(s.Reindex())
	counts, err = s.IndexCounts()
	is.NoErr(err)
	is.Equal(counts["type"], 1)
}

func ids(entities []entity.Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.ID()
	}
	return out
}

func TestFetch(t *testing.T) {
	is := is.New(t)
	s := openTestStore(t)
	is.NoErr(s.Put(fixtures()...))
	ctx := context.Background()

	entities, err := s.Fetch(ctx, []string{"w1"}, false)
	is.NoErr(err)
	is.Equal(ids(entities), []string{"w1"})

	entities, err = s.Fetch(ctx, []string{"w1"}, true)
	is.NoErr(err)
	is.Equal(ids(entities), []string{"w1", "n1", "n2", "n3"})

	// Members of member groups are not followed, missing children are
	// skipped
	entities, err = s.Fetch(ctx, []string{"r1"}, true)
	is.NoErr(err)
	is.Equal(ids(entities), []string{"r1", "w1", "n1", "n2", "n3", "w2", "n4", "r2"})

	_, err = s.Fetch(ctx, []string{"n1", "n404"}, false)
	is.Err(err)
	is.True(errors.Is(err, ErrNotFound))
	var nf *NotFoundError
	is.True(errors.As(err, &nf))
	is.Equal(nf.ID, "n404")
}

func TestLoad(t *testing.T) {
	is := is.New(t)
	s := openTestStore(t)
	is.NoErr(s.Put(fixtures()...))

	h := history.New(graph.New())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loaded, err := s.Load(ctx, h, []string{"w1"})
	is.NoErr(err)
	is.Equal(len(loaded), 0)
	_, ok := h.Graph().HasEntity("w1")
	is.False(ok)

	loaded, err = s.Load(context.Background(), h, []string{"w1"})
	is.NoErr(err)
	is.Equal(len(loaded), 4)

	g := h.Graph()
	w1, ok := g.Path("w1")
	is.True(ok)
	is.True(g.IsComplete(w1))
	is.Equal(len(g.ParentPaths("n2")), 1)
}

func TestApplyDiff(t *testing.T) {
	is := is.New(t)
	s := openTestStore(t)
	is.NoErr(s.Put(fixtures()...))

	g := graph.New(fixtures()...)
	e := g.Edit()
	n1, _ := g.Point("n1")
	e.Replace(n1.Move(orb.Point{-1, -1}))
	e.Replace(entity.NewPoint("n-1", orb.Point{3, 3}, nil))
	e.Remove("r2")
	head := e.Commit()

	is.NoErr(s.ApplyDiff(graph.Difference(g, head)))

	got, err := s.Get("n1")
	is.NoErr(err)
	is.Equal(got.(*entity.Point).Loc(), orb.Point{-1, -1})

	got, err = s.Get("n-1")
	is.NoErr(err)
	is.NotNil(got)

	got, err = s.Get("r2")
	is.NoErr(err)
	is.Nil(got)
}

const testChange = `<?xml version="1.0" encoding="UTF-8"?>
<osmChange version="0.6" generator="test">
  <modify>
    <node id="1" version="2" timestamp="2020-01-01T00:00:00Z" lat="10" lon="20"/>
  </modify>
  <create>
    <node id="9" version="1" timestamp="2020-01-01T00:00:00Z" lat="1" lon="2">
      <tag k="name" v="Fountain"/>
    </node>
  </create>
  <delete>
    <way id="2" version="3" timestamp="2020-01-01T00:00:00Z"/>
  </delete>
</osmChange>
`

func TestApplyChange(t *testing.T) {
	is := is.New(t)
	s := openTestStore(t)
	is.NoErr(s.Put(fixtures()...))

	is.NoErr(s.applyChange(context.Background(), strings.NewReader(testChange)))

	got, err := s.Get("n1")
	is.NoErr(err)
	is.Equal(got.(*entity.Point).Loc(), orb.Point{20, 10})

	ids, err := s.FindByTag("name", "fountain")
	is.NoErr(err)
	is.Equal(ids, []string{"n9"})

	got, err = s.Get("w2")
	is.NoErr(err)
	is.Nil(got)
}
