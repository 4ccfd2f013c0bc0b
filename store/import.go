package store

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	osm "github.com/omniscale/go-osm"
	"github.com/omniscale/go-osm/parser/pbf"
	"github.com/rubenv/osmgraph/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type Progress struct {
	Nodes     int64
	Ways      int64
	Relations int64
}

// ProgressFunc is called after every written batch. Calls never overlap.
type ProgressFunc func(p Progress)

const (
	nodeBatchSize     = 250000
	wayBatchSize      = 100000
	relationBatchSize = 10000
)

type importer struct {
	store    *Store
	progress ProgressFunc

	mu        sync.Mutex
	nodes     atomic.Int64
	ways      atomic.Int64
	relations atomic.Int64
}

// Import loads a PBF extract into the store. Earlier values of the same ids
// are overwritten without updating their index entries, so imports are
// meant for an empty store followed by Reindex when that is not the case.
func (s *Store) Import(ctx context.Context, file string, progress ProgressFunc) error {
	ctx, span := tracer.Start(ctx, "store.Import",
		trace.WithAttributes(attribute.String("store.file", file)),
	)
	defer span.End()

	f, err := os.Open(file)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	defer f.Close()

	i := &importer{store: s, progress: progress}
	err = i.run(ctx, f)
	span.SetAttributes(
		attribute.Int64("store.nodes", i.nodes.Load()),
		attribute.Int64("store.ways", i.ways.Load()),
		attribute.Int64("store.relations", i.relations.Load()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	s.logger.Info("Import done",
		"file", file,
		"nodes", i.nodes.Load(),
		"ways", i.ways.Load(),
		"relations", i.relations.Load(),
	)
	return nil
}

func (i *importer) run(ctx context.Context, f *os.File) error {
	coords := make(chan []osm.Node, 100)
	nodes := make(chan []osm.Node, 100)
	ways := make(chan []osm.Way, 100)
	relations := make(chan []osm.Relation, 100)

	parser := pbf.New(f, pbf.Config{
		Coords:    coords,
		Nodes:     nodes,
		Ways:      ways,
		Relations: relations,
		KeepOpen:  true,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(coords)
		defer close(nodes)
		defer close(ways)
		defer close(relations)
		return parser.Parse(ctx)
	})
	g.Go(func() error {
		return i.importNodes(coords, nodes)
	})
	g.Go(func() error {
		return consume(i, ways, wayBatchSize, &i.ways, func(el osm.Way) entity.Entity {
			return entity.PathFromEl(el)
		})
	})
	g.Go(func() error {
		return consume(i, relations, relationBatchSize, &i.relations, func(el osm.Relation) entity.Entity {
			return entity.GroupFromEl(el)
		})
	})
	return g.Wait()
}

func (i *importer) report() {
	if i.progress == nil {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.progress(Progress{
		Nodes:     i.nodes.Load(),
		Ways:      i.ways.Load(),
		Relations: i.relations.Load(),
	})
}

// flush writes a batch. After the first failure the remaining input is
// still drained so the parser never blocks.
func (i *importer) flush(batch []entity.Entity, counter *atomic.Int64, err error) error {
	if err != nil || len(batch) == 0 {
		return err
	}
	if err := i.store.writeBatch(batch); err != nil {
		return err
	}
	counter.Add(int64(len(batch)))
	i.report()
	return nil
}

func (i *importer) importNodes(coords, nodes chan []osm.Node) error {
	var err error
	batch := make([]entity.Entity, 0, nodeBatchSize)

	for coords != nil || nodes != nil {
		var arr []osm.Node
		var ok bool
		select {
		case arr, ok = <-coords:
			if !ok {
				coords = nil
				continue
			}
		case arr, ok = <-nodes:
			if !ok {
				nodes = nil
				continue
			}
		}

		if err != nil {
			continue
		}
		for _, n := range arr {
			batch = append(batch, entity.PointFromEl(n))
		}
		if len(batch) >= nodeBatchSize {
			err = i.flush(batch, &i.nodes, err)
			batch = batch[:0]
		}
	}
	return i.flush(batch, &i.nodes, err)
}

func consume[T any](i *importer, in chan []T, size int, counter *atomic.Int64, convert func(T) entity.Entity) error {
	var err error
	batch := make([]entity.Entity, 0, size)

	for arr := range in {
		if err != nil {
			continue
		}
		for _, el := range arr {
			batch = append(batch, convert(el))
		}
		if len(batch) >= size {
			err = i.flush(batch, counter, err)
			batch = batch[:0]
		}
	}
	return i.flush(batch, counter, err)
}
