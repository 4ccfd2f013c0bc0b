package store

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"strings"

	osm "github.com/omniscale/go-osm"
	"github.com/omniscale/go-osm/parser/diff"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/graph"
	"golang.org/x/sync/errgroup"
)

// ApplyChange applies an osmChange file (optionally gzipped) to the store.
func (s *Store) ApplyChange(ctx context.Context, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(file, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gz.Close()
		r = gz
	}
	return s.applyChange(ctx, r)
}

func (s *Store) applyChange(ctx context.Context, r io.Reader) error {
	diffs := make(chan osm.Diff, 1000)
	parser := diff.New(r, diff.Config{
		Diffs:    diffs,
		KeepOpen: true,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(diffs)
		return parser.Parse(ctx)
	})
	g.Go(func() error {
		var err error
		for d := range diffs {
			if err != nil {
				continue
			}
			err = s.process(d)
		}
		return err
	})
	return g.Wait()
}

func (s *Store) process(d osm.Diff) error {
	var e entity.Entity
	switch {
	case d.Node != nil:
		e = entity.PointFromEl(*d.Node)
	case d.Way != nil:
		e = entity.PathFromEl(*d.Way)
	case d.Rel != nil:
		e = entity.GroupFromEl(*d.Rel)
	default:
		return nil
	}

	if d.Delete {
		return s.Remove(e.ID())
	}
	return s.Put(e)
}

// ApplyDiff writes the head side of d: created and modified entities are
// stored, deleted ones removed.
func (s *Store) ApplyDiff(d *graph.Diff) error {
	var put []entity.Entity
	put = append(put, d.Created()...)
	put = append(put, d.Modified()...)
	if len(put) > 0 {
		if err := s.Put(put...); err != nil {
			return err
		}
	}

	deleted := d.Deleted()
	if len(deleted) == 0 {
		return nil
	}
	ids := make([]string, len(deleted))
	for i, e := range deleted {
		ids[i] = e.ID()
	}
	return s.Remove(ids...)
}
