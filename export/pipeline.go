package export

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb/simplify"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/graph"
	"github.com/rubenv/topojson"
	"golang.org/x/sync/errgroup"
)

type FilterFunc func(e entity.Entity) bool

// Pipeline turns the entities of a graph into a TopoJSON topology.
type Pipeline struct {
	g        *graph.Graph
	ids      []string
	simplify int
	quantize float64
	accept   FilterFunc
}

func NewPipeline(g *graph.Graph) *Pipeline {
	return &Pipeline{g: g}
}

// Select limits the pipeline to the given ids. Without it every entity of
// the graph is exported.
func (p *Pipeline) Select(ids ...string) *Pipeline {
	p.ids = ids
	return p
}

// Simplify sets the simplification tolerance to 10^-digits degrees. Zero
// disables simplification.
func (p *Pipeline) Simplify(digits int) *Pipeline {
	p.simplify = digits
	return p
}

func (p *Pipeline) Quantize(quantize float64) *Pipeline {
	p.quantize = quantize
	return p
}

func (p *Pipeline) Filter(accept FilterFunc) *Pipeline {
	p.accept = accept
	return p
}

func (p *Pipeline) maxErr() float64 {
	if p.simplify <= 0 {
		return 0
	}
	return math.Pow(10, float64(-p.simplify))
}

func (p *Pipeline) Run(ctx context.Context) (*topojson.Topology, error) {
	g, ctx := errgroup.WithContext(ctx)
	maxErr := p.maxErr()

	entities := make(chan entity.Entity, 100)
	features := make(chan *geojson.Feature, 100)

	g.Go(func() error {
		defer close(entities)

		if len(p.ids) == 0 {
			for _, e := range p.g.Entities() {
				select {
				case entities <- e:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		}

		for _, id := range p.ids {
			e, err := p.g.Entity(id)
			if err != nil {
				return err
			}
			select {
			case entities <- e:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	workers := runtime.NumCPU()
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			defer wg.Done()
			for e := range entities {
				if p.accept != nil && !p.accept(e) {
					continue
				}
				// Untagged points only matter as part of a path
				if _, ok := e.(*entity.Point); ok && len(e.Tags()) == 0 && len(p.ids) == 0 {
					continue
				}

				geom, err := Geometry(p.g, e)
				if err != nil {
					// Broken geometry, skip!
					continue
				}
				if maxErr > 0 {
					geom = simplify.DouglasPeucker(maxErr).Simplify(geom)
				}

				select {
				case features <- newFeature(e, geom):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(features)
		return nil
	})

	result := make(chan *topojson.Topology, 1)
	g.Go(func() error {
		defer close(result)

		var collected []*geojson.Feature
		for f := range features {
			collected = append(collected, f)
		}
		sort.Slice(collected, func(i, j int) bool {
			return collected[i].ID.(string) < collected[j].ID.(string)
		})

		fc := geojson.NewFeatureCollection()
		for _, f := range collected {
			fc.AddFeature(f)
		}
		result <- topojson.NewTopology(fc, &topojson.TopologyOptions{
			PostQuantize: p.quantize,
			Simplify:     maxErr,
			IDProperty:   "id",
		})
		return nil
	})

	err := g.Wait()
	if err != nil {
		return nil, err
	}
	return <-result, nil
}
