// Package osmgraph ties a local entity store to an editable graph history.
package osmgraph

import (
	"context"
	"log/slog"
	"sync"

	"github.com/paulmach/orb"
	"github.com/rubenv/osmgraph/action"
	"github.com/rubenv/osmgraph/entity"
	"github.com/rubenv/osmgraph/export"
	"github.com/rubenv/osmgraph/geometry"
	"github.com/rubenv/osmgraph/graph"
	"github.com/rubenv/osmgraph/history"
	"github.com/rubenv/osmgraph/spatial"
	"github.com/rubenv/osmgraph/store"
	"github.com/rubenv/topojson"
)

// Env is an editing session. It is not safe for concurrent use.
type Env struct {
	ctx  context.Context
	cf   context.CancelFunc
	done sync.WaitGroup

	config    *Config
	logger    *slog.Logger
	projector geometry.Projector

	store   *store.Store
	history *history.History
	tree    *spatial.Tree
}

func NewEnv(config *Config, logger *slog.Logger) (*Env, error) {
	if logger == nil {
		logger = config.NewLogger()
	}

	proj, err := config.Projector()
	if err != nil {
		return nil, err
	}

	s, err := store.Open(store.Config{
		Path:       config.Store.Path,
		InMemory:   config.Store.InMemory,
		SyncWrites: config.Store.SyncWrites,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	ctx, cf := context.WithCancel(context.Background())
	g := graph.New()
	return &Env{
		ctx:       ctx,
		cf:        cf,
		config:    config,
		logger:    logger,
		projector: proj,
		store:     s,
		history:   history.New(g),
		tree:      spatial.New(g),
	}, nil
}

// Stop cancels pending loads and closes the store.
func (e *Env) Stop() error {
	e.cf()
	e.done.Wait()
	return e.store.Close()
}

func (e *Env) Store() *store.Store           { return e.store }
func (e *Env) History() *history.History     { return e.history }
func (e *Env) Graph() *graph.Graph           { return e.history.Graph() }
func (e *Env) Logger() *slog.Logger          { return e.logger }
func (e *Env) Projector() geometry.Projector { return e.projector }

// Load reads ids and their children from the store into the session.
func (e *Env) Load(ids ...string) error {
	e.done.Add(1)
	defer e.done.Done()

	loaded, err := e.store.Load(e.ctx, e.history, ids)
	if err != nil {
		return err
	}
	e.tree.Rebase(loaded)
	return nil
}

// Intersects lists the loaded entities whose extent overlaps bound.
func (e *Env) Intersects(bound orb.Bound) []entity.Entity {
	return e.tree.Intersects(bound, e.Graph())
}

// Containing lists the loaded areas that pt falls in.
func (e *Env) Containing(pt orb.Point) []entity.Entity {
	return e.tree.Containing(pt, e.Graph())
}

func (e *Env) perform(annotation string, a action.Action) (*graph.Diff, error) {
	d, err := e.history.Perform(annotation, a)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Performed", "action", annotation, "changes", d.Len())
	return d, nil
}

func (e *Env) Circularize(id string) (*graph.Diff, error) {
	return e.perform("Circularize", action.Circularize(id, e.projector, e.config.Circularize.MaxAngle))
}

// Merge combines closed paths and multi-area groups into a single
// multi-area group.
func (e *Env) Merge(ids ...string) (*graph.Diff, error) {
	groupID := e.Graph().IDs().Next(entity.KindGroup)
	return e.perform("Merge", action.MergePolygon(ids, groupID))
}

func (e *Env) Undo() *graph.Diff {
	return e.history.Undo()
}

func (e *Env) Redo() *graph.Diff {
	return e.history.Redo()
}

// Changes is the osmChange document of everything edited in this session.
func (e *Env) Changes(changeset string) *export.Change {
	return export.NewChange(e.history.Difference(), changeset, true)
}

// Save writes the edits of this session back to the store.
func (e *Env) Save() error {
	d := e.history.Difference()
	if d.Len() == 0 {
		return nil
	}
	if err := e.store.ApplyDiff(d); err != nil {
		return err
	}
	e.logger.Info("Saved", "changes", d.Len())
	return nil
}

// Topology exports the given ids, or everything loaded when none are
// given.
func (e *Env) Topology(ids ...string) (*topojson.Topology, error) {
	return export.NewPipeline(e.Graph()).
		Select(ids...).
		Simplify(e.config.Export.Simplify).
		Quantize(e.config.Export.Quantize).
		Run(e.ctx)
}
