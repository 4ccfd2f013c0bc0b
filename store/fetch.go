package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/history"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/rubenv/osmgraph/store")

type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Entity not found: %s", e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Fetch reads the given entities. With full set it also returns the points
// of requested paths and the members of requested groups, including the
// points of member paths. Children missing from the store are left out,
// requested ids that are missing fail the fetch.
func (s *Store) Fetch(ctx context.Context, ids []string, full bool) ([]entity.Entity, error) {
	ctx, span := tracer.Start(ctx, "store.Fetch",
		trace.WithAttributes(
			attribute.Int("store.ids", len(ids)),
			attribute.Bool("store.full", full),
		),
	)
	defer span.End()

	var out []entity.Entity
	err := s.db.View(func(txn *badger.Txn) error {
		seen := make(map[string]bool)
		var add func(id string, required bool, depth int) error
		add = func(id string, required bool, depth int) error {
			if seen[id] {
				return nil
			}
			seen[id] = true
			if err := ctx.Err(); err != nil {
				return err
			}

			e, err := get(txn, id)
			if err != nil {
				return err
			}
			if e == nil {
				if required {
					return &NotFoundError{ID: id}
				}
				return nil
			}
			out = append(out, e)

			if !full || depth > 1 {
				return nil
			}
			switch e.Kind() {
			case entity.KindPath:
				for _, ref := range e.Refs() {
					if err := add(ref, false, depth+1); err != nil {
						return err
					}
				}
			case entity.KindGroup:
				if depth > 0 {
					return nil
				}
				for _, ref := range e.Refs() {
					if err := add(ref, false, depth+1); err != nil {
						return err
					}
				}
			}
			return nil
		}

		for _, id := range ids {
			if err := add(id, true, 0); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("store.entities", len(out)))
	return out, nil
}

// Load fetches ids with their children and merges them into every graph of
// h. A load whose context ends before the merge is dropped without error
// and leaves h untouched.
func (s *Store) Load(ctx context.Context, h *history.History, ids []string) ([]entity.Entity, error) {
	entities, err := s.Fetch(ctx, ids, true)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Debug("Load dropped", "ids", len(ids), "error", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		s.logger.Debug("Load dropped", "ids", len(ids), "error", ctx.Err())
		return nil, nil
	}

	h.Merge(entities)
	s.logger.Debug("Loaded entities", "ids", len(ids), "entities", len(entities))
	return entities, nil
}
