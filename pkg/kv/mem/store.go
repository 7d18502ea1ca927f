package mem

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/gitlite/gitlite/pkg/kv"
	"github.com/gitlite/gitlite/pkg/kv/kvparams"
)

const DriverName = "mem"

type Driver struct{}

type Store struct {
	mu         sync.RWMutex
	partitions map[string]map[string][]byte
}

func (d *Driver) Open(_ context.Context, _ kvparams.Config) (kv.Store, error) {
	return &Store{
		partitions: make(map[string]map[string][]byte),
	}, nil
}

//nolint:gochecknoinits
func init() {
	kv.Register(DriverName, &Driver{})
}

func (s *Store) Get(_ context.Context, partitionKey, key []byte) ([]byte, error) {
	if len(partitionKey) == 0 {
		return nil, kv.ErrMissingPartitionKey
	}
	if len(key) == 0 {
		return nil, kv.ErrMissingKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.partitions[string(partitionKey)][string(key)]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return append([]byte(nil), value...), nil
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
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(partitionKey, key, value)
	return nil
}

func (s *Store) set(partitionKey, key, value []byte) {
	partition, ok := s.partitions[string(partitionKey)]
	if !ok {
		partition = make(map[string][]byte)
		s.partitions[string(partitionKey)] = partition
	}
	partition[string(key)] = append([]byte(nil), value...)
}

func (s *Store) Delete(_ context.Context, partitionKey, key []byte) error {
	if len(partitionKey) == 0 {
		return kv.ErrMissingPartitionKey
	}
	if len(key) == 0 {
		return kv.ErrMissingKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.partitions[string(partitionKey)], string(key))
	return nil
}

func (s *Store) Scan(_ context.Context, partitionKey, start []byte) (kv.EntriesIterator, error) {
	if len(partitionKey) == 0 {
		return nil, kv.ErrMissingPartitionKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	partition := s.partitions[string(partitionKey)]
	entries := make([]*kv.Entry, 0, len(partition))
	for k, v := range partition {
		if start != nil && bytes.Compare([]byte(k), start) < 0 {
			continue
		}
		entries = append(entries, &kv.Entry{
			PartitionKey: append([]byte(nil), partitionKey...),
			Key:          []byte(k),
			Value:        append([]byte(nil), v...),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].Key, entries[j].Key) < 0
	})
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
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, op := range ops {
		switch op.Type {
		case kv.OperationSet:
			s.set(op.PartitionKey, op.Key, op.Value)
		case kv.OperationDelete:
			delete(s.partitions[string(op.PartitionKey)], string(op.Key))
		}
	}
	return nil
}

func (s *Store) Close() {}

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
