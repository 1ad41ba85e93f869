// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package enrich

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key prefix for label entries: label:<feature>:<deputy_id>
const labelKeyPrefix = "label:"

// Label is a stored classification.
type Label struct {
	DeputyID  int64     `json:"deputy_id"`
	Feature   string    `json:"feature"`
	Value     string    `json:"value"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LabelStore persists provider labels in BadgerDB so that a label is paid
// for once and survives restarts.
type LabelStore struct {
	db *badger.DB
}

// OpenLabelStore opens (or creates) a label store at path.
// An empty path opens an in-memory store.
func OpenLabelStore(path string) (*LabelStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open label store: %w", err)
	}
	return &LabelStore{db: db}, nil
}

// Close releases the underlying database.
func (s *LabelStore) Close() error {
	return s.db.Close()
}

func labelKey(feature string, id int64) []byte {
	return []byte(labelKeyPrefix + feature + ":" + strconv.FormatInt(id, 10))
}

// Get returns the stored label for (feature, id). ok is false when absent.
func (s *LabelStore) Get(ctx context.Context, feature string, id int64) (label Label, ok bool, err error) {
	if err := ctx.Err(); err != nil {
		return Label{}, false, err
	}

	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(labelKey(feature, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get label: %w", err)
		}
		ok = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &label)
		})
	})
	if err != nil {
		return Label{}, false, err
	}
	return label, ok, nil
}

// Put stores a label, replacing any previous value.
func (s *LabelStore) Put(ctx context.Context, label Label) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if label.UpdatedAt.IsZero() {
		label.UpdatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(label)
	if err != nil {
		return fmt.Errorf("marshal label: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(labelKey(label.Feature, label.DeputyID), data)
	})
}

// Delete removes a label. Deleting a missing label is not an error.
func (s *LabelStore) Delete(ctx context.Context, feature string, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(labelKey(feature, id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete label: %w", err)
		}
		return nil
	})
}

// All returns every stored label for feature, keyed by deputy id.
func (s *LabelStore) All(ctx context.Context, feature string) (map[int64]Label, error) {
	out := make(map[int64]Label)
	prefix := []byte(labelKeyPrefix + feature + ":")

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var l Label
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &l)
			}); err != nil {
				return fmt.Errorf("decode label %s: %w", it.Item().Key(), err)
			}
			out[l.DeputyID] = l
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
