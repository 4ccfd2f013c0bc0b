// Package store keeps OSM entities in a local badger database and feeds
// them into graphs.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/rubenv/osmgraph/entity"
)

var ErrNotFound = errors.New("Entity not found")

type Config struct {
	Path     string
	InMemory bool

	// SyncWrites fsyncs every commit. Imports are much faster without.
	SyncWrites bool

	Logger *slog.Logger
}

type Store struct {
	db      *badger.DB
	logger  *slog.Logger
	indexer *indexer
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("Store path is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0755); err != nil {
			return nil, fmt.Errorf("Create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("Open store: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger,
	}
	s.indexer = &indexer{store: s}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func entityKey(id string) []byte {
	return []byte("entity/" + id)
}

func encode(e entity.Entity) ([]byte, error) {
	return json.Marshal(entity.ToRecord(e))
}

func decode(data []byte) (entity.Entity, error) {
	var rec entity.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return entity.FromRecord(rec)
}

func get(txn *badger.Txn, id string) (entity.Entity, error) {
	item, err := txn.Get(entityKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var e entity.Entity
	err = item.Value(func(val []byte) error {
		e, err = decode(val)
		return err
	})
	return e, err
}

// Get returns nil without error when id is unknown.
func (s *Store) Get(id string) (entity.Entity, error) {
	var e entity.Entity
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		e, err = get(txn, id)
		return err
	})
	return e, err
}

// Put stores entities, replacing earlier values and their index entries.
func (s *Store) Put(entities ...entity.Entity) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, e := range entities {
			old, err := get(txn, e.ID())
			if err != nil {
				return err
			}
			if old != nil {
				if err := s.indexer.remove(txn, old); err != nil {
					return err
				}
			}

			data, err := encode(e)
			if err != nil {
				return err
			}
			if err := txn.Set(entityKey(e.ID()), data); err != nil {
				return err
			}
			if err := s.indexer.add(txn, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) Remove(ids ...string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, id := range ids {
			old, err := get(txn, id)
			if err != nil {
				return err
			}
			if old == nil {
				continue
			}
			if err := s.indexer.remove(txn, old); err != nil {
				return err
			}
			if err := txn.Delete(entityKey(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeBatch stores entities without looking at earlier values. Only
// used for bulk imports into an empty store.
func (s *Store) writeBatch(entities []entity.Entity) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for _, e := range entities {
		data, err := encode(e)
		if err != nil {
			return err
		}
		if err := wb.Set(entityKey(e.ID()), data); err != nil {
			return err
		}
		for _, key := range indexKeys(e) {
			if err := wb.Set(key, []byte("1")); err != nil {
				return err
			}
		}
	}
	return wb.Flush()
}
