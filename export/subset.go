package export

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/rubenv/topojson"
)

// Subset returns a topology holding only the objects with the given ids,
// with the arcs they use renumbered.
func Subset(topo *topojson.Topology, ids []string) *topojson.Topology {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	r := &arcRemapper{index: make(map[int]int)}
	out := &topojson.Topology{
		Type:        topo.Type,
		Transform:   topo.Transform,
		BoundingBox: topo.BoundingBox,
	}
	for _, obj := range topo.Objects {
		if !want[obj.ID] {
			continue
		}
		out.Objects = append(out.Objects, r.geometry(obj))
	}

	out.Arcs = make([][][]float64, len(r.order))
	for i, arc := range r.order {
		out.Arcs[i] = topo.Arcs[arc]
	}
	return out
}

type arcRemapper struct {
	index map[int]int
	order []int
}

// arc maps an arc reference, keeping the one's complement encoding of
// reversed arcs.
func (r *arcRemapper) arc(ref int) int {
	reversed := ref < 0
	if reversed {
		ref = ^ref
	}

	idx, ok := r.index[ref]
	if !ok {
		idx = len(r.order)
		r.index[ref] = idx
		r.order = append(r.order, ref)
	}
	if reversed {
		return ^idx
	}
	return idx
}

func (r *arcRemapper) line(refs []int) []int {
	out := make([]int, len(refs))
	for i, ref := range refs {
		out[i] = r.arc(ref)
	}
	return out
}

func (r *arcRemapper) lines(in [][]int) [][]int {
	out := make([][]int, len(in))
	for i, refs := range in {
		out[i] = r.line(refs)
	}
	return out
}

func (r *arcRemapper) geometry(in *topojson.Geometry) *topojson.Geometry {
	out := &topojson.Geometry{
		ID:         in.ID,
		Type:       in.Type,
		Properties: in.Properties,
	}

	switch in.Type {
	case geojson.GeometryPoint:
		out.Point = in.Point
	case geojson.GeometryMultiPoint:
		out.MultiPoint = in.MultiPoint
	case geojson.GeometryLineString:
		out.LineString = r.line(in.LineString)
	case geojson.GeometryMultiLineString:
		out.MultiLineString = r.lines(in.MultiLineString)
	case geojson.GeometryPolygon:
		out.Polygon = r.lines(in.Polygon)
	case geojson.GeometryMultiPolygon:
		out.MultiPolygon = make([][][]int, len(in.MultiPolygon))
		for i, p := range in.MultiPolygon {
			out.MultiPolygon[i] = r.lines(p)
		}
	case geojson.GeometryCollection:
		for _, child := range in.Geometries {
			out.Geometries = append(out.Geometries, r.geometry(child))
		}
	}
	return out
}
