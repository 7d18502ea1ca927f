package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/gitlite/gitlite/pkg/kv"
	"github.com/gitlite/gitlite/pkg/logging"
)

type Store struct {
	db           *badger.DB
	logger       logging.Logger
	prefetchSize int
	path         string
	refCount     int
}

// composeKey joins the partition and key into the single keyspace badger
// exposes. The partition prefix keeps Scan bounded to one partition.
func composeKey(partitionKey, key []byte) []byte {
	composed := make([]byte, 0, len(partitionKey)+1+len(key))
	composed = append(composed, partitionKey...)
	composed = append(composed, kv.PathDelimiter...)
	composed = append(composed, key...)
	return composed
}

func partitionRange(partitionKey []byte) []byte {
	return append(append([]byte(nil), partitionKey...), kv.PathDelimiter...)
}

func (s *Store) Get(_ context.Context, partitionKey, key []byte) ([]byte, error) {
	if len(partitionKey) == 0 {
		return nil, kv.ErrMissingPartitionKey
	}
	if len(key) == 0 {
		return nil, kv.ErrMissingKey
	}
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(composeKey(partitionKey, key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return value, nil
}

func (s *Store) Set(_ context.Context, partitionKey, key, value []byte) error {
	if len(partitionKey) == 0 {
		return kv.ErrMissingPartitionKey
	}
	if len(key) == 0 {
		return kv.ErrMissingKey
	}
	if value == nil {
		return kv.ErrMissingValue
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(composeKey(partitionKey, key), value)
	})
	if err != nil {
		return fmt.Errorf("badger set: %w", err)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, partitionKey, key []byte) error {
	if len(partitionKey) == 0 {
		return kv.ErrMissingPartitionKey
	}
	if len(key) == 0 {
		return kv.ErrMissingKey
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(composeKey(partitionKey, key))
	})
	if err != nil {
		return fmt.Errorf("badger delete: %w", err)
	}
	return nil
}

func (s *Store) Scan(_ context.Context, partitionKey, start []byte) (kv.EntriesIterator, error) {
	if len(partitionKey) == 0 {
		return nil, kv.ErrMissingPartitionKey
	}
	prefix := partitionRange(partitionKey)
	seek := prefix
	if len(start) > 0 {
		seek = composeKey(partitionKey, start)
	}
	// read the whole window under one read transaction, entries stay
	// consistent for the duration of the command
	var entries []*kv.Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = s.prefetchSize
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			entries = append(entries, &kv.Entry{
				PartitionKey: append([]byte(nil), partitionKey...),
				Key:          bytes.TrimPrefix(item.KeyCopy(nil), prefix),
				Value:        value,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger scan: %w", err)
	}
	return &EntriesIterator{entries: entries, index: -1}, nil
}

func (s *Store) Apply(_ context.Context, ops kv.Operations) error {
	for _, op := range ops {
		if len(op.PartitionKey) == 0 {
			return kv.ErrMissingPartitionKey
		}
		if len(op.Key) == 0 {
			return kv.ErrMissingKey
		}
		if op.Type == kv.OperationSet && op.Value == nil {
			return kv.ErrMissingValue
		}
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, op := range ops {
			composed := composeKey(op.PartitionKey, op.Key)
			var err error
			switch op.Type {
			case kv.OperationSet:
				err = txn.Set(composed, op.Value)
			case kv.OperationDelete:
				err = txn.Delete(composed)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger apply: %w", err)
	}
	return nil
}

func (s *Store) Close() {
	driverLock.Lock()
	defer driverLock.Unlock()
	s.refCount--
	if s.refCount > 0 {
		return
	}
	if err := s.db.Close(); err != nil {
		s.logger.WithError(err).Error("close badger database")
	}
	delete(connectionMap, s.path)
}

type EntriesIterator struct {
	entries []*kv.Entry
	index   int
	closed  bool
	err     error
}

func (e *EntriesIterator) Next() bool {
	if e.closed {
		e.err = kv.ErrClosedEntries
		return false
	}
	if e.index+1 >= len(e.entries) {
		return false
	}
	e.index++
	return true
}

func (e *EntriesIterator) Entry() *kv.Entry {
	if e.closed || e.index < 0 || e.index >= len(e.entries) {
		return nil
	}
	return e.entries[e.index]
}

func (e *EntriesIterator) Err() error {
	return e.err
}

func (e *EntriesIterator) Close() {
	e.closed = true
}
