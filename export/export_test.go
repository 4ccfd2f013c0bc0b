package export

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/cheekybits/is"
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/graph"
	"github.com/rubenv/topojson"
)

func testGraph() *graph.Graph {
	return graph.New(
		entity.NewPoint("n1", orb.Point{0, 0}, nil),
		entity.NewPoint("n2", orb.Point{1, 0}, nil),
		entity.NewPoint("n3", orb.Point{1, 1}, nil),
		entity.NewPoint("n4", orb.Point{0, 1}, entity.Tags{"amenity": "bench"}),
		entity.NewPoint("n5", orb.Point{0.25, 0.25}, nil),
		entity.NewPoint("n6", orb.Point{0.75, 0.25}, nil),
		entity.NewPoint("n7", orb.Point{0.5, 0.75}, nil),
		entity.NewPath("w1", []string{"n1", "n2", "n3", "n4", "n1"}, entity.Tags{"building": "yes"}),
		entity.NewPath("w2", []string{"n1", "n3"}, entity.Tags{"highway": "path"}),
		entity.NewPath("w3", []string{"n5", "n6", "n7", "n5"}, nil),
		entity.NewPath("w4", []string{"n1", "n99"}, nil),
		entity.NewGroup("r1", []entity.Member{
			{ID: "w1", Kind: entity.KindPath, Role: "outer"},
			{ID: "w3", Kind: entity.KindPath, Role: "inner"},
		}, entity.Tags{"type": "multipolygon", "landuse": "grass"}),
		entity.NewGroup("r2", []entity.Member{
			{ID: "n4", Kind: entity.KindPoint},
			{ID: "w2", Kind: entity.KindPath},
			{ID: "r2", Kind: entity.KindGroup},
			{ID: "w404", Kind: entity.KindPath},
		}, entity.Tags{"type": "route"}),
	)
}

func TestFeatureTypes(t *testing.T) {
	is := is.New(t)
	g := testGraph()

	for id, typ := range map[string]geojson.GeometryType{
		"n4": geojson.GeometryPoint,
		"w1": geojson.GeometryPolygon,
		"w2": geojson.GeometryLineString,
		"w3": geojson.GeometryLineString,
		"r1": geojson.GeometryMultiPolygon,
		"r2": geojson.GeometryCollection,
	} {
		f, err := Feature(g, g.MustEntity(id))
		is.NoErr(err)
		is.Equal(f.Geometry.Type, typ)
		is.Equal(f.ID, id)
		is.Equal(f.Properties["id"], id)
	}

	_, err := Feature(g, g.MustEntity("w4"))
	is.Err(err)
}

func TestFeatureDetails(t *testing.T) {
	is := is.New(t)
	g := testGraph()

	f, err := Feature(g, g.MustEntity("w1"))
	is.NoErr(err)
	is.Equal(f.Properties["building"], "yes")
	is.Equal(len(f.Geometry.Polygon), 1)
	is.Equal(len(f.Geometry.Polygon[0]), 5)

	f, err = Feature(g, g.MustEntity("r1"))
	is.NoErr(err)
	is.Equal(len(f.Geometry.MultiPolygon), 1)
	is.Equal(len(f.Geometry.MultiPolygon[0]), 2)

	// The self reference and the missing member are skipped
	f, err = Feature(g, g.MustEntity("r2"))
	is.NoErr(err)
	is.Equal(len(f.Geometry.Geometries), 2)
}

func TestFeatureCollection(t *testing.T) {
	is := is.New(t)
	g := testGraph()

	fc, err := FeatureCollection(g, []string{"w2", "w4", "n4"})
	is.NoErr(err)
	is.Equal(len(fc.Features), 2)
	is.Equal(fc.Features[0].ID, "w2")

	_, err = FeatureCollection(g, []string{"w2", "w1000"})
	is.Err(err)
}

func TestPipeline(t *testing.T) {
	is := is.New(t)
	g := testGraph()

	topo, err := NewPipeline(g).
		Select("w1", "w2").
		Quantize(1e6).
		Run(context.Background())
	is.NoErr(err)

	ids := make([]string, 0)
	for _, obj := range topo.Objects {
		ids = append(ids, obj.ID)
	}
	sort.Strings(ids)
	is.Equal(ids, []string{"w1", "w2"})

	_, err = NewPipeline(g).Select("w1000").Run(context.Background())
	is.Err(err)

	topo, err = NewPipeline(g).
		Filter(func(e entity.Entity) bool { return e.Tags()["building"] == "yes" }).
		Simplify(3).
		Run(context.Background())
	is.NoErr(err)
	is.Equal(len(topo.Objects), 1)
}

func TestSubset(t *testing.T) {
	is := is.New(t)

	topo := &topojson.Topology{
		Type: "Topology",
		Objects: []*topojson.Geometry{
			{ID: "a", Type: geojson.GeometryLineString, LineString: []int{0, 1}},
			{ID: "b", Type: geojson.GeometryPolygon, Polygon: [][]int{{^1, 2}}},
		},
		Arcs: [][][]float64{
			{{0, 0}, {1, 0}},
			{{1, 0}, {1, 1}},
			{{1, 1}, {0, 0}},
		},
	}

	out := Subset(topo, []string{"b"})
	is.Equal(len(out.Objects), 1)
	is.Equal(out.Objects[0].Polygon, [][]int{{^0, 1}})
	is.Equal(out.Arcs, [][][]float64{
		{{1, 0}, {1, 1}},
		{{1, 1}, {0, 0}},
	})
}

func TestChange(t *testing.T) {
	is := is.New(t)
	g := testGraph()

	e := g.Edit()
	n1, _ := g.Point("n1")
	e.Replace(n1.Move(orb.Point{-0.1, 0}))
	e.Replace(entity.NewPoint("n-1", orb.Point{2, 2}, nil))
	e.Replace(entity.NewGroup("r-1", []entity.Member{{ID: "r-2", Kind: entity.KindGroup}}, nil))
	e.Replace(entity.NewGroup("r-2", []entity.Member{{ID: "r1", Kind: entity.KindGroup}}, nil))
	e.Remove("w4")
	e.Remove("r2")
	head := e.Commit()

	c := NewChange(graph.Difference(g, head), "42", true)
	is.Equal(len(c.Create.Nodes), 1)
	is.Equal(c.Create.Nodes[0].ID, "-1")
	is.Equal(c.Create.Nodes[0].Changeset, "42")

	// r-2 is referenced by r-1 and must be created first
	is.Equal(len(c.Create.Relations), 2)
	is.Equal(c.Create.Relations[0].ID, "-2")
	is.Equal(c.Create.Relations[1].ID, "-1")

	is.Equal(len(c.Modify.Nodes), 1)
	is.Equal(c.Modify.Nodes[0].Lon, -0.1)

	is.True(c.Delete.IfUnused)
	is.Equal(len(c.Delete.Ways), 1)
	is.Equal(c.Delete.Ways[0].Nodes, []NodeRef{{Ref: "1"}, {Ref: "99"}})
	is.Equal(len(c.Delete.Relations), 1)

	doc := c.String()
	is.True(strings.HasPrefix(doc, "<?xml"))
	is.True(strings.Contains(doc, `<osmChange version="0.6" generator="osmgraph">`))
	is.True(strings.Contains(doc, `<delete if-unused="true">`))
	is.True(strings.Contains(doc, `<member type="relation" ref="-2" role=""></member>`))
}

func TestSortGroupsCycle(t *testing.T) {
	is := is.New(t)

	a := entity.NewGroup("r1", []entity.Member{{ID: "r2", Kind: entity.KindGroup}}, nil)
	b := entity.NewGroup("r2", []entity.Member{{ID: "r1", Kind: entity.KindGroup}}, nil)
	c := entity.NewGroup("r3", nil, nil)

	sorted := sortGroups([]*entity.Group{a, b, c})
	is.Equal(len(sorted), 3)
	is.Equal(sorted[0].ID(), "r2")
	is.Equal(sorted[1].ID(), "r1")
	is.Equal(sorted[2].ID(), "r3")
}
