// Package badgerstore is the embedded store driver. Documents are stored as
// JSON under "<kind>:<id>" keys; unique fields are kept as "idx:" keys whose
// value is the owning document ID.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"bookworm/internal/apperr"

	"github.com/dgraph-io/badger/v4"
)

const (
	userPrefix   = "user:"
	bookPrefix   = "book:"
	genrePrefix  = "genre:"
	reviewPrefix = "review:"

	userEmailIndex  = "idx:user:email:"
	userAuthIndex   = "idx:user:auth:"
	genreNameIndex  = "idx:genre:name:"
	genreSlugIndex  = "idx:genre:slug:"
	reviewPairIndex = "idx:review:pair:"
)

type Options struct {
	Path     string
	InMemory bool
}

type Store struct {
	db *badger.DB
}

// Open opens (or creates) the database at opts.Path, or an in-memory one.
func Open(opts Options) (*Store, error) {
	bo := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bo = badger.DefaultOptions("").WithInMemory(true)
	}
	bo.Logger = nil
	bo.SyncWrites = !opts.InMemory

	db, err := badger.Open(bo)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger: database closed")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func get[T any](txn *badger.Txn, key string, dst *T) error {
	item, err := txn.Get([]byte(key))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

// find loads the document at key, mapping a missing key to NotFound.
func find[T any](db *badger.DB, key, kind string) (T, error) {
	var v T
	err := db.View(func(txn *badger.Txn) error {
		return get(txn, key, &v)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return v, apperr.NotFound("%s not found", kind)
	}
	if err != nil {
		return v, fmt.Errorf("get %s: %w", kind, err)
	}
	return v, nil
}

// findByIndex resolves a unique index key to its document.
func findByIndex[T any](db *badger.DB, indexKey, prefix, kind string) (T, error) {
	var v T
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(indexKey))
		if err != nil {
			return err
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return get(txn, prefix+string(id), &v)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return v, apperr.NotFound("%s not found", kind)
	}
	if err != nil {
		return v, fmt.Errorf("get %s: %w", kind, err)
	}
	return v, nil
}

func scan[T any](db *badger.DB, prefix string) ([]T, error) {
	var out []T
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var v T
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			}); err != nil {
				return err
			}
			out = append(out, v)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}
	return out, nil
}

// put writes doc under key and moves its unique index keys from oldIdx to
// newIdx. An index key already owned by another document is a conflict.
func put(txn *badger.Txn, key, id string, doc any, oldIdx, newIdx []string, conflict string) error {
	for _, k := range newIdx {
		item, err := txn.Get([]byte(k))
		if errors.Is(err, badger.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		owner, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if string(owner) != id {
			return apperr.Conflict("%s", conflict)
		}
	}

	for _, k := range oldIdx {
		if slices.Contains(newIdx, k) {
			continue
		}
		if err := txn.Delete([]byte(k)); err != nil {
			return err
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := txn.Set([]byte(key), data); err != nil {
		return err
	}
	for _, k := range newIdx {
		if err := txn.Set([]byte(k), []byte(id)); err != nil {
			return err
		}
	}
	return nil
}

// save upserts a document, reading the previous version to maintain indexes.
func save[T any](db *badger.DB, key, id string, doc T, indexes func(T) []string, kind, conflict string) error {
	err := db.Update(func(txn *badger.Txn) error {
		var oldIdx []string
		var old T
		switch err := get(txn, key, &old); {
		case err == nil:
			oldIdx = indexes(old)
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}
		return put(txn, key, id, doc, oldIdx, indexes(doc), conflict)
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return err
		}
		return fmt.Errorf("save %s: %w", kind, err)
	}
	return nil
}

// remove deletes a document and its index keys.
func remove[T any](db *badger.DB, key string, indexes func(T) []string, kind string) error {
	err := db.Update(func(txn *badger.Txn) error {
		var old T
		if err := get(txn, key, &old); err != nil {
			return err
		}
		for _, k := range indexes(old) {
			if err := txn.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return apperr.NotFound("%s not found", kind)
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return nil
}
