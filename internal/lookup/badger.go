// ABOUTME: Badger-backed rate tables that survive process restarts.
// ABOUTME: One store holds both categories under "<category>:" key prefixes.
package lookup

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dgraph-io/badger/v3"
)

// BadgerStore persists rate tables in a Badger database.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a store in dir. An empty dir opens an
// in-memory store.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create reference directory: %w", err)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open reference store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// OpenBadgerService opens a store in dir, seeds missing defaults, and
// returns a service that closes the store on Close.
func OpenBadgerService(dir string) (*Service, error) {
	store, err := OpenBadger(dir)
	if err != nil {
		return nil, err
	}
	if err := store.Seed(Food, FoodSeed); err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := store.Seed(Exercise, ExerciseSeed); err != nil {
		_ = store.Close()
		return nil, err
	}

	svc := NewService(store.Table(Food), store.Table(Exercise))
	svc.closer = store
	return svc, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Table returns the table for category.
func (s *BadgerStore) Table(category Category) *BadgerTable {
	return &BadgerTable{db: s.db, prefix: []byte(string(category) + ":")}
}

// Seed writes entries whose keys are not yet present. Existing rates,
// including ones changed at runtime, are left alone.
func (s *BadgerStore) Seed(category Category, entries []Entry) error {
	t := s.Table(category)
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, e := range entries {
			_, err := txn.Get(t.key(e.Key))
			if err == nil {
				continue
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Set(t.key(e.Key), encodeRate(e.Rate)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed %s rates: %w", category, err)
	}
	return nil
}

// BadgerTable is a Table stored under a key prefix. Keys are listed in
// byte-wise order.
type BadgerTable struct {
	db     *badger.DB
	prefix []byte
}

var _ Table = (*BadgerTable)(nil)

func (t *BadgerTable) key(k string) []byte {
	out := make([]byte, 0, len(t.prefix)+len(k))
	out = append(out, t.prefix...)
	return append(out, k...)
}

// Keys returns every key under the table's prefix.
func (t *BadgerTable) Keys() ([]string, error) {
	var keys []string
	err := t.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = t.prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(t.prefix); it.ValidForPrefix(t.prefix); it.Next() {
			k := it.Item().KeyCopy(nil)
			keys = append(keys, string(k[len(t.prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Rate returns the stored rate for key.
func (t *BadgerTable) Rate(key string) (float64, bool, error) {
	var rate float64
	err := t.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(t.key(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			r, err := strconv.ParseFloat(string(val), 64)
			if err != nil {
				return fmt.Errorf("decode rate for %q: %w", key, err)
			}
			rate = r
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rate, true, nil
}

// Upsert stores rate under key.
func (t *BadgerTable) Upsert(key string, rate float64) error {
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Set(t.key(key), encodeRate(rate))
	})
}

func encodeRate(rate float64) []byte {
	return []byte(strconv.FormatFloat(rate, 'g', -1, 64))
}
