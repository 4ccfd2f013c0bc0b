// Package geometry derives shape properties from coordinate lists: hull,
// centroid, pole of inaccessibility and the smallest surrounding rectangle.
//
// Everything in here is a pure function of its input. Coordinates are
// projected by a caller-supplied orb.Projection before any planar work.
package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

var (
	Identity        orb.Projection = func(p orb.Point) orb.Point { return p }
	Mercator                       = project.WGS84.ToMercator
	InverseMercator                = project.Mercator.ToWGS84
)

// Projector pairs a projection into the planar working frame with its
// inverse.
type Projector struct {
	Forward orb.Projection
	Inverse orb.Projection
}

func (p Projector) Project(pt orb.Point) orb.Point { return p.Forward(pt) }
func (p Projector) Invert(pt orb.Point) orb.Point  { return p.Inverse(pt) }

var (
	IdentityProjector = Projector{Forward: Identity, Inverse: Identity}
	MercatorProjector = Projector{Forward: Mercator, Inverse: InverseMercator}
)

// ProjectorByName returns the projector registered under name.
func ProjectorByName(name string) (Projector, error) {
	switch name {
	case "", "identity":
		return IdentityProjector, nil
	case "mercator":
		return MercatorProjector, nil
	}
	return Projector{}, fmt.Errorf("Unknown projection: %q", name)
}

// Project maps each coordinate independently into a new slice.
func Project(proj orb.Projection, pts []orb.Point) []orb.Point {
	if pts == nil {
		return nil
	}
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[i] = proj(p)
	}
	return out
}

// ProjectRings projects every ring of a polygon-like structure.
func ProjectRings(proj orb.Projection, rings [][]orb.Point) [][]orb.Point {
	out := make([][]orb.Point, len(rings))
	for i, r := range rings {
		out[i] = Project(proj, r)
	}
	return out
}

// Distinct returns the points in first-seen order with exact repeats
// removed, so a closed ring counts its connector once.
func Distinct(pts []orb.Point) []orb.Point {
	seen := make(map[orb.Point]bool, len(pts))
	out := make([]orb.Point, 0, len(pts))
	for _, p := range pts {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func closeRing(pts []orb.Point) orb.Ring {
	r := make(orb.Ring, len(pts), len(pts)+1)
	copy(r, pts)
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}

func openRing(pts []orb.Point) []orb.Point {
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		return pts[:len(pts)-1]
	}
	return pts
}
