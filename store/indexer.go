package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/rubenv/osmgraph/entity"
)

// Tags that get a lookup index. Names are indexed in lower case.
var indexedTags = []string{"type", "name", "admin_level"}

type indexer struct {
	store *Store
}

func tagPrefix(tag, value string) string {
	return fmt.Sprintf("tags/%s/%s/", tag, value)
}

func indexKeys(e entity.Entity) [][]byte {
	if e.Kind() == entity.KindPoint && len(e.Tags()) == 0 {
		return nil
	}

	var keys [][]byte
	for _, tag := range indexedTags {
		v, ok := e.Tags().Get(tag)
		if !ok {
			continue
		}
		if tag == "name" {
			v = strings.ToLower(v)
		}
		keys = append(keys, []byte(tagPrefix(tag, v)+e.ID()))
	}
	return keys
}

func (i *indexer) add(txn *badger.Txn, e entity.Entity) error {
	for _, key := range indexKeys(e) {
		if err := txn.Set(key, []byte("1")); err != nil {
			return err
		}
	}
	return nil
}

func (i *indexer) remove(txn *badger.Txn, e entity.Entity) error {
	for _, key := range indexKeys(e) {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// FindByTag lists the ids of entities carrying tag=value, for the indexed
// tags only.
func (s *Store) FindByTag(tag, value string) ([]string, error) {
	if tag == "name" {
		value = strings.ToLower(value)
	}
	prefix := []byte(tagPrefix(tag, value))

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// Reindex rebuilds the tag index from the stored entities.
// IndexCounts reports the number of index entries per indexed tag.
func (s *Store) IndexCounts() (map[string]int, error) {
	counts := make(map[string]int)
	prefix := []byte("tags/")
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key()[len(prefix):])
			tag, _, _ := strings.Cut(key, "/")
			counts[tag]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *Store) Reindex() error {
	return s.indexer.reindex()
}

func (i *indexer) reindex() error {
	db := i.store.db
	if err := db.DropPrefix([]byte("tags/")); err != nil {
		return err
	}

	wb := db.NewWriteBatch()
	defer wb.Cancel()

	prefix := []byte("entity/")
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var e entity.Entity
			err := it.Item().Value(func(val []byte) error {
				var err error
				e, err = decode(val)
				return err
			})
			if err != nil {
				return err
			}
			for _, key := range indexKeys(e) {
				if err := wb.Set(key, []byte("1")); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return wb.Flush()
}
