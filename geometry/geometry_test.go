package geometry

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var square = []orb.Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}

func TestDegenerateTable(t *testing.T) {
	// No points
	_, ok := Centroid(nil)
	assert.False(t, ok)
	assert.Nil(t, Hull(nil))
	_, ok = Pole(nil, 0)
	assert.False(t, ok)
	_, ok = SurroundingRect(nil)
	assert.False(t, ok)

	// One point, repeated as a closed ring
	one := []orb.Point{{3, 4}, {3, 4}}
	assert.Nil(t, Hull(one))
	c, ok := Centroid(one)
	require.True(t, ok)
	assert.Equal(t, orb.Point{3, 4}, c)
	p, ok := Pole([][]orb.Point{one}, 0)
	require.True(t, ok)
	assert.Equal(t, c, p)
	_, ok = SurroundingRect(one)
	assert.False(t, ok)

	// Two points
	two := []orb.Point{{0, 0}, {2, 2}, {0, 0}}
	assert.Nil(t, Hull(two))
	c, ok = Centroid(two)
	require.True(t, ok)
	assert.Equal(t, orb.Point{1, 1}, c)
	p, ok = Pole([][]orb.Point{two}, 0)
	require.True(t, ok)
	assert.Equal(t, c, p)
	_, ok = SurroundingRect(two)
	assert.False(t, ok)
}

func TestProject(t *testing.T) {
	pts := []orb.Point{{0, 0}, {10, 20}}
	assert.Equal(t, pts, Project(Identity, pts))

	merc := Project(Mercator, pts)
	back := Project(InverseMercator, merc)
	for i := range pts {
		assert.InDelta(t, pts[i][0], back[i][0], 1e-9)
		assert.InDelta(t, pts[i][1], back[i][1], 1e-9)
	}

	_, err := ProjectorByName("lambert")
	assert.Error(t, err)

	m, err := ProjectorByName("mercator")
	require.NoError(t, err)
	p := m.Invert(m.Project(orb.Point{4.4, 51.2}))
	assert.InDelta(t, 4.4, p[0], 1e-9)
	assert.InDelta(t, 51.2, p[1], 1e-9)
}

func TestHull(t *testing.T) {
	pts := []orb.Point{{0, 0}, {2, 0}, {1, 1}, {2, 2}, {0, 2}, {1, 0}}
	hull := Hull(pts)
	require.Len(t, hull, 4)
	assert.True(t, SignedArea(hull) > 0)
	assert.InDelta(t, 4, SignedArea(hull), 1e-12)

	// Collinear
	assert.Nil(t, Hull([]orb.Point{{0, 0}, {1, 1}, {2, 2}}))
}

func TestCentroid(t *testing.T) {
	c, ok := Centroid(square)
	require.True(t, ok)
	assert.InDelta(t, 0.5, c[0], 1e-12)
	assert.InDelta(t, 0.5, c[1], 1e-12)

	// The interior point doesn't pull the hull centroid
	c, ok = Centroid([]orb.Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0.1, 0.1}})
	require.True(t, ok)
	assert.InDelta(t, 2, c[0], 1e-12)
	assert.InDelta(t, 2, c[1], 1e-12)
}

func TestPole(t *testing.T) {
	p, ok := Pole([][]orb.Point{square}, 1e-6)
	require.True(t, ok)
	assert.InDelta(t, 0.5, p[0], 1e-3)
	assert.InDelta(t, 0.5, p[1], 1e-3)

	// An L shape keeps the pole inside
	l := []orb.Point{{0, 0}, {10, 0}, {10, 2}, {2, 2}, {2, 10}, {0, 10}, {0, 0}}
	p, ok = Pole([][]orb.Point{l}, 0.01)
	require.True(t, ok)
	assert.True(t, p[0] <= 2 || p[1] <= 2)

	p, ok = PoleOfLine([]orb.Point{{0, 0}, {4, 0}})
	require.True(t, ok)
	assert.Equal(t, orb.Point{2, 0}, p)
}

func TestSurroundingRect(t *testing.T) {
	r, ok := SurroundingRect(square)
	require.True(t, ok)
	assert.InDelta(t, 1, r.Area, 1e-9)

	// A diamond is a rotated square of side sqrt(2)
	diamond := []orb.Point{{1, 0}, {2, 1}, {1, 2}, {0, 1}}
	r, ok = SurroundingRect(diamond)
	require.True(t, ok)
	assert.InDelta(t, 2, r.Area, 1e-9)
	assert.InDelta(t, math.Pi/4, math.Mod(math.Abs(r.Angle), math.Pi/2), 1e-9)
	for _, c := range r.Corners {
		found := false
		for _, d := range diamond {
			if math.Abs(c[0]-d[0]) < 1e-9 && math.Abs(c[1]-d[1]) < 1e-9 {
				found = true
			}
		}
		assert.True(t, found, "corner %v", c)
	}
}

func TestConvex(t *testing.T) {
	assert.True(t, IsConvex(square))
	assert.False(t, IsConvex([]orb.Point{{0, 0}, {2, 0}, {1, 0.5}, {2, 2}, {0, 2}}))
}

func TestSphere(t *testing.T) {
	ccw := square
	cw := reversed(square)

	assert.True(t, SphericalArea(ccw) < 2*math.Pi)
	assert.True(t, SphericalArea(cw) > 2*math.Pi)

	assert.Equal(t, ccw, OrientOuter(cw))
	assert.Equal(t, ccw, OrientOuter(ccw))
	assert.Equal(t, cw, OrientInner(ccw))

	inner := []orb.Point{{0.25, 0.25}, {0.75, 0.25}, {0.75, 0.75}, {0.25, 0.75}, {0.25, 0.25}}
	assert.True(t, RingContains(square, inner))
	assert.True(t, RingContains(cw, reversed(inner)))
	assert.False(t, RingContains(inner, square))

	shifted := []orb.Point{{0.5, 0.5}, {1.5, 0.5}, {1.5, 1.5}, {0.5, 1.5}, {0.5, 0.5}}
	assert.False(t, RingContains(square, shifted))
	assert.True(t, RingIntersects(square, shifted))

	far := []orb.Point{{5, 5}, {6, 5}, {6, 6}, {5, 5}}
	assert.False(t, RingIntersects(square, far))

	assert.True(t, PointInRing(orb.Point{0.5, 0.5}, square))
	assert.False(t, PointInRing(orb.Point{2, 2}, square))
}
