// Package boltdb implements the vault's key-value store on top of bbolt,
// a single-file embedded B+tree database.
package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

// bucketApp holds every record the vault persists: key material, the
// current-format settings blob, and (until migration) the legacy blob.
var bucketApp = []byte("app")

// Storage is a bbolt-backed implementation of storage.KV.
type Storage struct {
	db *bbolt.DB
}

// New opens (creating if necessary) the database file at dbPath and ensures
// the application bucket exists.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketApp)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying database file.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the stored values for the requested keys. Keys with no stored
// value are omitted from the result.
func (s *Storage) Get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make(map[string][]byte, len(keys))
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketApp)
		for _, key := range keys {
			if v := b.Get([]byte(key)); v != nil {
				// Copy: bbolt-owned memory is only valid inside the tx.
				cp := make([]byte, len(v))
				copy(cp, v)
				result[key] = cp
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read keys: %w", err)
	}
	return result, nil
}

// Set writes all given pairs in a single transaction.
func (s *Storage) Set(ctx context.Context, values map[string][]byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketApp)
		for key, value := range values {
			if err := b.Put([]byte(key), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write keys: %w", err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketApp)
		for _, key := range keys {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}
