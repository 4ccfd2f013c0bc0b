package action

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/geometry"
	"github.com/rubenv/osmgraph/graph"
)

const DefaultMaxAngle = 20

type circularize struct {
	pathID   string
	proj     geometry.Projector
	maxAngle float64
}

// Circularize turns a closed path into a circle around its centroid. Points
// shared with other paths anchor the circle; points are added wherever two
// neighbours would sit more than maxAngle degrees apart. A zero maxAngle
// uses DefaultMaxAngle.
func Circularize(pathID string, proj geometry.Projector, maxAngle float64) Action {
	if maxAngle <= 0 {
		maxAngle = DefaultMaxAngle
	}
	return &circularize{
		pathID:   pathID,
		proj:     proj,
		maxAngle: maxAngle * math.Pi / 180,
	}
}

func (a *circularize) Previewable() bool { return true }

func (a *circularize) Apply(g *graph.Graph, t float64) *graph.Graph {
	t = Clamp(t)
	e := g.Edit()

	way := g.MustEntity(a.pathID).(*entity.Path)
	orig := make(map[string]*entity.Point)
	for _, p := range g.ChildPoints(way) {
		orig[p.ID()] = p
	}

	if !geometry.IsConvex(a.points(e, way.Uniq())) {
		a.makeConvex(e, way)
	}

	nodes := way.Uniq()
	points := a.points(e, nodes)

	keys := make([]string, 0)
	keyPoints := make([]orb.Point, 0)
	for i, id := range nodes {
		if len(e.ParentPaths(id)) != 1 {
			keys = append(keys, id)
			keyPoints = append(keyPoints, points[i])
		}
	}

	centroid, _ := geometry.Centroid(points)
	radius := medianDistance(centroid, points)
	dir := 1.0
	if geometry.SignedArea(points) < 0 {
		dir = -1
	}

	// At least two anchors are needed
	if len(keys) == 0 {
		keys = []string{nodes[0]}
		keyPoints = []orb.Point{points[0]}
	}
	if len(keys) == 1 {
		index := indexOf(nodes, keys[0])
		opposite := int(math.Floor(math.Mod(float64(index)+float64(len(nodes))/2, float64(len(nodes)))))
		keys = append(keys, nodes[opposite])
		keyPoints = append(keyPoints, points[opposite])
	}

	move := func(id string, target orb.Point, from *entity.Point) {
		p, _ := e.Point(id)
		e.Replace(p.Move(geometry.Interp(from.Loc(), a.proj.Invert(target), t)))
	}
	onCircle := func(angle float64) orb.Point {
		return orb.Point{
			centroid[0] + math.Cos(angle)*radius,
			centroid[1] + math.Sin(angle)*radius,
		}
	}

	for i := range keyPoints {
		next := (i + 1) % len(keys)
		startID, endID := keys[i], keys[next]
		startIndex := indexOf(nodes, startID)
		endIndex := indexOf(nodes, endID)
		indexRange := endIndex - startIndex
		if indexRange < 0 {
			indexRange += len(nodes)
		}

		// Put the anchor on the circle
		d := geometry.Distance(centroid, keyPoints[i])
		if d == 0 {
			d = 1e-4
		}
		keyPoints[i] = orb.Point{
			centroid[0] + (keyPoints[i][0]-centroid[0])/d*radius,
			centroid[1] + (keyPoints[i][1]-centroid[1])/d*radius,
		}
		nearest := orig[startID]
		move(startID, keyPoints[i], nearest)

		startAngle := geometry.Angle(centroid, keyPoints[i])
		endAngle := geometry.Angle(centroid, keyPoints[next])
		total := endAngle - startAngle
		if total*dir < 0 {
			total = dir * (2*math.Pi - math.Abs(total))
		}

		added := -1
		var each float64
		for {
			added++
			each = total / float64(indexRange+added)
			if math.Abs(each) <= a.maxAngle {
				break
			}
		}

		// Spread the existing points in between
		near := make(map[string]float64)
		for j := 1; j < indexRange; j++ {
			angle := startAngle + float64(j)*each
			id := nodes[(j+startIndex)%len(nodes)]
			near[id] = angle
			move(id, onCircle(angle), orig[id])
		}

		// And fill the gaps
		inserted := make([]string, 0, added)
		for j := 0; j < added; j++ {
			angle := startAngle + float64(indexRange+j)*each

			min := math.Inf(1)
			for _, id := range sortedKeys(near) {
				if dist := math.Abs(near[id] - angle); dist < min {
					min = dist
					nearest = orig[id]
				}
			}

			id := g.IDs().Next(entity.KindPoint)
			loc := geometry.Interp(nearest.Loc(), a.proj.Invert(onCircle(angle)), t)
			e.Replace(entity.NewPoint(id, loc, nil))

			at := endIndex + j
			nodes = append(nodes, "")
			copy(nodes[at+1:], nodes[at:])
			nodes[at] = id
			inserted = append(inserted, id)
		}

		if indexRange == 1 && len(inserted) > 0 {
			a.share(e, way, startID, endID, inserted)
		}
	}

	nodes = append(nodes, nodes[0])
	cur, _ := e.Path(a.pathID)
	e.Replace(cur.WithNodes(nodes))
	return e.Commit()
}

// share adds the points inserted between two adjacent anchors to every
// other path that has the same two anchors next to each other.
func (a *circularize) share(e *graph.Edit, way *entity.Path, startID, endID string, inserted []string) {
	dir1 := way.LastIndexOf(endID) - way.LastIndexOf(startID)
	if dir1 < -1 {
		dir1 = 1
	}

	for _, shared := range e.ParentPaths(startID) {
		if shared.ID() == way.ID() || !shared.AreAdjacent(startID, endID) {
			continue
		}

		start2 := shared.LastIndexOf(startID)
		end2 := shared.LastIndexOf(endID)
		dir2 := end2 - start2
		at := end2
		if dir2 < -1 {
			dir2 = 1
		}

		ids := inserted
		if dir1 != dir2 {
			ids = make([]string, len(inserted))
			for k, id := range inserted {
				ids[len(ids)-1-k] = id
			}
			at = start2
		}
		for k, id := range ids {
			shared = shared.AddNode(id, at+k)
		}
		e.Replace(shared)
	}
}

// makeConvex moves points inside the hull out onto its edges.
func (a *circularize) makeConvex(e *graph.Edit, way *entity.Path) {
	nodes := way.Uniq()
	points := a.points(e, nodes)
	hull := geometry.Hull(points)
	if hull == nil {
		return
	}

	// The hull runs counter-clockwise
	if geometry.SignedArea(points) < 0 {
		nodes = reverseIDs(nodes)
		points = reversePoints(points)
	}

	for i := range hull {
		from, to := hull[i], hull[(i+1)%len(hull)]
		start := indexOfPoint(points, from)
		end := indexOfPoint(points, to)
		indexRange := end - start
		if indexRange < 0 {
			indexRange += len(nodes)
		}

		for j := 1; j < indexRange; j++ {
			loc := geometry.Interp(from, to, float64(j)/float64(indexRange))
			p, _ := e.Point(nodes[(j+start)%len(nodes)])
			e.Replace(p.Move(a.proj.Invert(loc)))
		}
	}
}

func (a *circularize) points(e *graph.Edit, ids []string) []orb.Point {
	out := make([]orb.Point, 0, len(ids))
	for _, id := range ids {
		if p, ok := e.Point(id); ok {
			out = append(out, a.proj.Project(p.Loc()))
		}
	}
	return out
}

func (a *circularize) Feasibility(g *graph.Graph) Reason {
	v, ok := g.HasEntity(a.pathID)
	if !ok {
		return Missing
	}
	way, ok := v.(*entity.Path)
	if !ok || !way.IsClosed() {
		return NotClosed
	}
	if !g.IsComplete(way) {
		return Incomplete
	}
	if way.IsDegenerate() {
		return Degenerate
	}

	nodes := way.Uniq()
	points := make([]orb.Point, len(nodes))
	for i, id := range nodes {
		p, _ := g.Point(id)
		points[i] = a.proj.Project(p.Loc())
	}
	hull := geometry.Hull(points)
	if hull == nil || len(hull) != len(points) {
		return Feasible
	}

	centroid, _ := geometry.Centroid(points)
	radius := sqDistance(centroid, points[0])
	for _, p := range hull {
		if math.Abs(sqDistance(p, centroid)-radius) > 0.05*radius {
			return Feasible
		}
	}

	const epsilon = math.Pi / 180
	for i, p := range hull {
		angle := math.Abs(geometry.Angle(centroid, hull[(i+1)%len(hull)]) - geometry.Angle(centroid, p))
		if angle > math.Pi {
			angle = 2*math.Pi - angle
		}
		if angle > a.maxAngle+epsilon {
			return Feasible
		}
	}
	return AlreadyCircular
}

func medianDistance(c orb.Point, pts []orb.Point) float64 {
	d := make([]float64, len(pts))
	for i, p := range pts {
		d[i] = geometry.Distance(c, p)
	}
	sort.Float64s(d)
	n := len(d)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return d[n/2]
	}
	return (d[n/2-1] + d[n/2]) / 2
}

func sqDistance(a, b orb.Point) float64 {
	dx, dy := a[0]-b[0], a[1]-b[1]
	return dx*dx + dy*dy
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func indexOfPoint(pts []orb.Point, p orb.Point) int {
	for i, v := range pts {
		if v == p {
			return i
		}
	}
	return -1
}

func reverseIDs(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

func reversePoints(pts []orb.Point) []orb.Point {
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
