// Package export renders graph entities as GeoJSON, TopoJSON and osmChange
// documents.
package export

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/geometry"
	"github.com/rubenv/osmgraph/graph"
	"github.com/rubenv/osmgraph/rings"
)

// Geometry resolves the coordinates of e in g. Paths that close and are
// areas become polygons, other paths line strings. Multi-area groups are
// assembled into multi polygons, other groups into a collection of their
// loaded members.
func Geometry(g *graph.Graph, e entity.Entity) (orb.Geometry, error) {
	return geometryOf(g, e, make(map[string]bool))
}

func geometryOf(g *graph.Graph, e entity.Entity, visited map[string]bool) (orb.Geometry, error) {
	visited[e.ID()] = true

	switch v := e.(type) {
	case *entity.Point:
		return v.Loc(), nil

	case *entity.Path:
		if !g.IsComplete(v) {
			return nil, fmt.Errorf("Incomplete path: %s", v.ID())
		}
		coords := g.Coords(v)
		if len(geometry.Distinct(coords)) < 2 {
			return nil, fmt.Errorf("Degenerate path: %s", v.ID())
		}
		if g.IsArea(v) {
			return orb.Polygon{orb.Ring(geometry.OrientOuter(coords))}, nil
		}
		return orb.LineString(coords), nil

	case *entity.Group:
		if v.IsMultiArea() {
			polygons := rings.MultiArea(g, v)
			if len(polygons) == 0 {
				return nil, fmt.Errorf("No closed rings in multipolygon: %s", v.ID())
			}
			mp := make(orb.MultiPolygon, len(polygons))
			for i, p := range polygons {
				mp[i] = p.Orb()
			}
			return mp, nil
		}

		var out orb.Collection
		for _, m := range v.Members() {
			if visited[m.ID] {
				continue
			}
			child, ok := g.HasEntity(m.ID)
			if !ok {
				continue
			}
			geom, err := geometryOf(g, child, visited)
			if err != nil {
				continue
			}
			out = append(out, geom)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("No loaded members in relation: %s", v.ID())
		}
		return out, nil
	}
	return nil, fmt.Errorf("Entity has no geometry: %s", e.ID())
}

// Feature wraps the geometry of e with its tags. The entity id is both the
// feature id and its "id" property.
func Feature(g *graph.Graph, e entity.Entity) (*geojson.Feature, error) {
	geom, err := Geometry(g, e)
	if err != nil {
		return nil, err
	}
	return newFeature(e, geom), nil
}

func newFeature(e entity.Entity, geom orb.Geometry) *geojson.Feature {
	f := geojson.NewFeature(toGeoJSON(geom))
	f.ID = e.ID()
	for k, v := range e.Tags() {
		f.SetProperty(k, v)
	}
	f.SetProperty("id", e.ID())
	return f
}

// FeatureCollection exports the given ids in order. Missing ids fail, ids
// without geometry are skipped.
func FeatureCollection(g *graph.Graph, ids []string) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for _, id := range ids {
		e, err := g.Entity(id)
		if err != nil {
			return nil, err
		}
		f, err := Feature(g, e)
		if err != nil {
			continue
		}
		fc.AddFeature(f)
	}
	return fc, nil
}

func toGeoJSON(geom orb.Geometry) *geojson.Geometry {
	switch v := geom.(type) {
	case orb.Point:
		return geojson.NewPointGeometry(position(v))
	case orb.LineString:
		return geojson.NewLineStringGeometry(positions(v))
	case orb.Ring:
		return geojson.NewPolygonGeometry([][][]float64{positions(v)})
	case orb.Polygon:
		return geojson.NewPolygonGeometry(polygon(v))
	case orb.MultiPolygon:
		out := make([][][][]float64, len(v))
		for i, p := range v {
			out[i] = polygon(p)
		}
		return geojson.NewMultiPolygonGeometry(out...)
	case orb.Collection:
		out := make([]*geojson.Geometry, 0, len(v))
		for _, child := range v {
			if c := toGeoJSON(child); c != nil {
				out = append(out, c)
			}
		}
		return geojson.NewCollectionGeometry(out...)
	}
	return nil
}

func position(p orb.Point) []float64 {
	return []float64{p[0], p[1]}
}

func positions(pts []orb.Point) [][]float64 {
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = position(p)
	}
	return out
}

func polygon(p orb.Polygon) [][][]float64 {
	out := make([][][]float64, len(p))
	for i, r := range p {
		out[i] = positions(r)
	}
	return out
}
