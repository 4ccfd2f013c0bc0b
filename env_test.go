package osmgraph

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/cheekybits/is"
	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/entity"
)

func testEnv(t *testing.T) *Env {
	cfg := DefaultConfig()
	cfg.Store.InMemory = true

	env, err := NewEnv(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { env.Stop() })

	err = env.Store().Put(
		entity.NewPoint("n1", orb.Point{4.0, 51.0}, nil),
		entity.NewPoint("n2", orb.Point{4.001, 51.0}, nil),
		entity.NewPoint("n3", orb.Point{4.001, 51.001}, nil),
		entity.NewPoint("n4", orb.Point{4.0, 51.001}, nil),
		entity.NewPath("w1", []string{"n1", "n2", "n3", "n4", "n1"}, entity.Tags{"building": "yes"}),
	)
	if err != nil {
		t.Fatal(err)
	}
	return env
}

func TestEnvLoadAndQuery(t *testing.T) {
	is := is.New(t)
	env := testEnv(t)

	is.NoErr(env.Load("w1"))
	_, ok := env.Graph().Path("w1")
	is.True(ok)

	found := env.Intersects(orb.Bound{Min: orb.Point{4.0005, 51.0005}, Max: orb.Point{4.0006, 51.0006}})
	is.Equal(len(found), 1)
	is.Equal(found[0].ID(), "w1")

	found = env.Containing(orb.Point{4.0005, 51.0005})
	is.Equal(len(found), 1)
	is.Equal(len(env.Containing(orb.Point{4.1, 51.1})), 0)

	is.Err(env.Load("w404"))
}

func TestEnvCircularize(t *testing.T) {
	is := is.New(t)
	env := testEnv(t)
	is.NoErr(env.Load("w1"))

	d, err := env.Circularize("w1")
	is.NoErr(err)
	is.True(d.Len() > 0)

	w1, _ := env.Graph().Path("w1")
	is.True(len(w1.Nodes()) > 5)

	doc := env.Changes("1").String()
	is.True(strings.Contains(doc, "<create>"))
	is.True(strings.Contains(doc, "<modify>"))

	// Already circular now
	_, err = env.Circularize("w1")
	is.Err(err)

	env.Undo()
	w1, _ = env.Graph().Path("w1")
	is.Equal(len(w1.Nodes()), 5)
	is.Equal(env.History().Difference().Len(), 0)
}

func TestEnvSave(t *testing.T) {
	is := is.New(t)
	env := testEnv(t)
	is.NoErr(env.Load("w1"))

	_, err := env.Circularize("w1")
	is.NoErr(err)
	is.NoErr(env.Save())

	stored, err := env.Store().Get("w1")
	is.NoErr(err)
	is.True(len(stored.(*entity.Path).Nodes()) > 5)
}

func TestEnvTopology(t *testing.T) {
	is := is.New(t)
	env := testEnv(t)
	is.NoErr(env.Load("w1"))

	topo, err := env.Topology()
	is.NoErr(err)
	is.Equal(len(topo.Objects), 1)
	is.Equal(topo.Objects[0].ID, "w1")
}

func TestEnvMerge(t *testing.T) {
	is := is.New(t)
	env := testEnv(t)
	is.NoErr(env.Store().Put(
		entity.NewPoint("n5", orb.Point{4.0002, 51.0002}, nil),
		entity.NewPoint("n6", orb.Point{4.0008, 51.0002}, nil),
		entity.NewPoint("n7", orb.Point{4.0008, 51.0008}, nil),
		entity.NewPoint("n8", orb.Point{4.0002, 51.0008}, nil),
		entity.NewPath("w2", []string{"n5", "n6", "n7", "n8", "n5"}, nil),
	))
	is.NoErr(env.Load("w1", "w2"))

	d, err := env.Merge("w1", "w2")
	is.NoErr(err)
	is.Equal(len(d.Created()), 1)

	r, ok := env.Graph().Group(d.Created()[0].ID())
	is.True(ok)
	is.True(r.IsMultiArea())
	m, _, ok := r.MemberByID("w2")
	is.True(ok)
	is.Equal(m.Role, "inner")

	// Only the outer ring holds points in the hole
	is.Equal(len(env.Containing(orb.Point{4.0005, 51.0005})), 0)
	is.Equal(len(env.Containing(orb.Point{4.0001, 51.0001})), 1)

	env.Undo()
	_, ok = env.Graph().Group(r.ID())
	is.False(ok)

	is.True(env.Redo().Len() > 0)
	_, ok = env.Graph().Group(r.ID())
	is.True(ok)
}
