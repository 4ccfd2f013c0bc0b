package entity

import (
	"math"

	"github.com/paulmach/orb"
)

type Point struct {
	meta
	loc orb.Point
}

func NewPoint(id string, loc orb.Point, tags Tags) *Point {
	return &Point{
		meta: meta{id: id, tags: tags},
		loc:  loc,
	}
}

func (p *Point) Kind() Kind     { return KindPoint }
func (p *Point) Loc() orb.Point { return p.loc }
func (p *Point) Refs() []string { return nil }

func (p *Point) Stamped(version int64) Entity {
	c := *p
	c.version = version
	return &c
}

func (p *Point) WithTags(tags Tags) Entity {
	c := *p
	c.tags = tags
	return &c
}

func (p *Point) WithRemoteVersion(v string) *Point {
	c := *p
	c.remote = v
	return &c
}

func (p *Point) Move(loc orb.Point) *Point {
	c := *p
	c.loc = loc
	return &c
}

// IsDegenerate reports a location outside the WGS84 range.
func (p *Point) IsDegenerate() bool {
	lon, lat := p.loc[0], p.loc[1]
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return true
	}
	return lon < -180 || lon > 180 || lat < -90 || lat > 90
}

func (p *Point) Extent() orb.Bound {
	return p.loc.Bound()
}
