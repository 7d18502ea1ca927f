package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gitlite/gitlite/pkg/kv/kvparams"
)

const PathDelimiter = "/"

var (
	ErrClosedEntries       = errors.New("closed entries")
	ErrConnectFailed       = errors.New("connect failed")
	ErrDriverConfiguration = errors.New("driver configuration")
	ErrMissingPartitionKey = errors.New("missing partition key")
	ErrMissingKey          = errors.New("missing key")
	ErrMissingValue        = errors.New("missing value")
	ErrNotFound            = errors.New("not found")
	ErrOperationFailed     = errors.New("operation failed")
	ErrSetupFailed         = errors.New("setup failed")
	ErrUnknownDriver       = errors.New("unknown driver")
)

func FormatPath(p ...string) string {
	return strings.Join(p, PathDelimiter)
}

// Driver is the interface to access a kv database as a Store.
// Each kv provider implements a Driver.
type Driver interface {
	Open(ctx context.Context, params kvparams.Config) (Store, error)
}

// OperationType discriminates the entries of an Operations batch.
type OperationType int

const (
	OperationSet OperationType = iota
	OperationDelete
)

// Operation is one mutation inside an atomic batch.
type Operation struct {
	Type         OperationType
	PartitionKey []byte
	Key          []byte
	Value        []byte
}

// Operations is an ordered mutation batch. Stores apply it all-or-nothing.
type Operations []Operation

func (ops *Operations) Set(partitionKey, key, value []byte) {
	*ops = append(*ops, Operation{Type: OperationSet, PartitionKey: partitionKey, Key: key, Value: value})
}

func (ops *Operations) Delete(partitionKey, key []byte) {
	*ops = append(*ops, Operation{Type: OperationDelete, PartitionKey: partitionKey, Key: key})
}

type Store interface {
	// Get returns the value for the given key, or ErrNotFound if key doesn't exist
	Get(ctx context.Context, partitionKey, key []byte) ([]byte, error)

	// Set stores the given value, overwriting an existing value if one exists
	Set(ctx context.Context, partitionKey, key, value []byte) error

	// Delete will delete the key, no error if key doesn't exist
	Delete(ctx context.Context, partitionKey, key []byte) error

	// Scan returns entries that can be read in key order, starting at or after
	// the `start` position within partitionKey.
	Scan(ctx context.Context, partitionKey, start []byte) (EntriesIterator, error)

	// Apply applies the batch atomically: either every operation is observable
	// afterwards or none is.
	Apply(ctx context.Context, ops Operations) error

	// Close access to the database store. After calling Close the instance is unusable.
	Close()
}

// EntriesIterator used to enumerate over Scan results
type EntriesIterator interface {
	// Next should be called first before access Entry.
	// it will process the next entry and return true if it was successful, and false when none or error.
	Next() bool

	// Entry current entry read after calling Next, set to nil in case of an error or no more entries.
	Entry() *Entry

	// Err set to last error by reading or parse the next entry.
	Err() error

	// Close should be called at the end of processing entries, required to release resources used to scan entries.
	Close()
}

// Entry holds a pair of key/value
type Entry struct {
	PartitionKey []byte
	Key          []byte
	Value        []byte
}

func (e *Entry) String() string {
	if e == nil {
		return "Entry{nil}"
	}
	return fmt.Sprintf("Entry{%v, %v}", e.Key, e.Value)
}

// map drivers implementation
var (
	drivers   = make(map[string]Driver)
	driversMu sync.RWMutex
)

// Register 'driver' implementation under 'name'. Panic in case of empty name, nil driver or name already registered.
func Register(name string, driver Driver) {
	if name == "" {
		panic("kv store register name is missing")
	}
	if driver == nil {
		panic("kv store Register driver is nil")
	}
	driversMu.Lock()
	defer driversMu.Unlock()
	if _, found := drivers[name]; found {
		panic("kv store Register driver already registered " + name)
	}
	drivers[name] = driver
}

// UnregisterAllDrivers remove all loaded drivers, used for test code.
func UnregisterAllDrivers() {
	driversMu.Lock()
	defer driversMu.Unlock()
	for k := range drivers {
		delete(drivers, k)
	}
}

// Open lookup driver with params.Type and return Store connected per params.
// Failed with ErrUnknownDriver in case the type is not registered.
func Open(ctx context.Context, params kvparams.Config) (Store, error) {
	driversMu.RLock()
	d, ok := drivers[params.Type]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, params.Type)
	}
	return d.Open(ctx, params)
}

// Drivers returns a list of registered drive names
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	return names
}
