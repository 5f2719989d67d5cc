// Copyright 2022 Molecula Corp. (DBA FeatureBase).
// SPDX-License-Identifier: Apache-2.0

// Package catalog persists index schemas next to the index data. A
// schema is stored as the field declarations it was built from and
// rebuilt through schema.NewSchema on load, which reproduces the same
// field ids because registration order is declaration order.
package catalog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/lcp202406/paradedb/errors"
	"github.com/lcp202406/paradedb/logger"
	"github.com/lcp202406/paradedb/schema"
)

const ErrIndexNotFound errors.Code = "ErrIndexNotFound"

var bucketSchemas = []byte("schemas")

// Entry is the stored record for one index schema.
type Entry struct {
	// IndexUUID is assigned on first save and stable across updates.
	IndexUUID string                    `json:"index_uuid"`
	Name      string                    `json:"name"`
	Fields    []schema.FieldDeclaration `json:"fields"`
	KeyIndex  int                       `json:"key"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// Store is a boltdb-backed schema catalog. It is safe for concurrent
// use; bolt serializes writers.
type Store struct {
	db     *bolt.DB
	logger logger.Logger
}

// Open opens or creates the catalog file at path.
func Open(path string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.NopLogger
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog %q", path)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSchemas)
		return err
	}); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema bucket")
	}
	return &Store{db: db, logger: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put saves the schema for name, keeping any previously assigned uuid.
func (s *Store) Put(name string, sch *schema.Schema) error {
	entry := Entry{
		Name:      name,
		Fields:    sch.Declarations(),
		KeyIndex:  sch.Key,
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(bucketSchemas)
		if prev := bkt.Get([]byte(name)); prev != nil {
			var old Entry
			if err := json.Unmarshal(prev, &old); err == nil {
				entry.IndexUUID = old.IndexUUID
			}
		}
		if entry.IndexUUID == "" {
			entry.IndexUUID = uuid.NewString()
		}
		buf, err := json.Marshal(entry)
		if err != nil {
			return errors.Wrap(err, "marshalling schema entry")
		}
		return bkt.Put([]byte(name), buf)
	})
	if err != nil {
		return errors.Wrapf(err, "storing schema for index %q", name)
	}
	s.logger.Debugf("stored schema for index %q (%d fields)", name, len(entry.Fields))
	return nil
}

// Get loads and rebuilds the schema for name.
func (s *Store) Get(name string) (*schema.Schema, error) {
	entry, err := s.GetEntry(name)
	if err != nil {
		return nil, err
	}
	sch, err := schema.NewSchema(entry.Fields, entry.KeyIndex)
	if err != nil {
		return nil, errors.Wrapf(err, "rebuilding schema for index %q", name)
	}
	return sch, nil
}

// GetEntry loads the raw stored record for name.
func (s *Store) GetEntry(name string) (Entry, error) {
	var entry Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketSchemas).Get([]byte(name))
		if raw == nil {
			return errors.New(ErrIndexNotFound, "no schema stored for index: "+name)
		}
		return json.Unmarshal(raw, &entry)
	})
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Delete removes the schema stored for name, if any.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSchemas).Delete([]byte(name))
	})
}

// List returns the names of all stored schemas in key order.
func (s *Store) List() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSchemas).ForEach(func(k, v []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing schemas")
	}
	return names, nil
}
