package spatial

import (
	"math"

	"github.com/Workiva/go-datastructures/augmentedtree"
	"github.com/paulmach/orb"
)

const scale = 1e7

// box is a bounding box in the tree. Dimension 1 is longitude, 2 is
// latitude, both in 1e-7 degrees.
type box struct {
	id     uint64
	entity string
	min    [2]int64
	max    [2]int64
}

func newBox(id uint64, entity string, b orb.Bound) *box {
	return &box{
		id:     id,
		entity: entity,
		min:    [2]int64{fixed(b.Min[0], math.Floor), fixed(b.Min[1], math.Floor)},
		max:    [2]int64{fixed(b.Max[0], math.Ceil), fixed(b.Max[1], math.Ceil)},
	}
}

func fixed(v float64, round func(float64) float64) int64 {
	return int64(round(v * scale))
}

func (b *box) LowAtDimension(d uint64) int64 {
	return b.min[d-1]
}

func (b *box) HighAtDimension(d uint64) int64 {
	return b.max[d-1]
}

func (b *box) OverlapsAtDimension(i augmentedtree.Interval, d uint64) bool {
	return b.HighAtDimension(d) >= i.LowAtDimension(d) &&
		b.LowAtDimension(d) <= i.HighAtDimension(d)
}

func (b *box) ID() uint64 {
	return b.id
}
