package badger

import (
	"context"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/gitlite/gitlite/pkg/kv"
	"github.com/gitlite/gitlite/pkg/kv/kvparams"
	"github.com/gitlite/gitlite/pkg/logging"
)

const (
	DriverName          = "badger"
	DefaultPrefetchSize = 256
)

var (
	driverLock    = &sync.Mutex{}
	connectionMap = make(map[string]*Store)
)

type Driver struct{}

func normalizeDBParams(p *kvparams.Badger) {
	if p.PrefetchSize <= 0 {
		p.PrefetchSize = DefaultPrefetchSize
	}
}

func (d *Driver) Open(ctx context.Context, kvParams kvparams.Config) (kv.Store, error) {
	driverLock.Lock()
	defer driverLock.Unlock()
	params := kvParams.Badger
	if params == nil {
		return nil, fmt.Errorf("missing %s settings: %w", DriverName, kv.ErrDriverConfiguration)
	}
	if params.Path == "" {
		return nil, fmt.Errorf("missing %s directory path: %w", DriverName, kv.ErrDriverConfiguration)
	}
	normalizeDBParams(params)
	connection, ok := connectionMap[params.Path]
	if !ok {
		// no database open for this path
		var logger logging.Logger = logging.DummyLogger{}
		if params.EnableLogging {
			logger = logging.FromContext(ctx).WithField("store", DriverName)
		}
		opts := badger.DefaultOptions(params.Path)
		opts.SyncWrites = params.SyncWrites
		opts.Logger = &BadgerLogger{logger}
		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("open badger database: %w", err)
		}
		connection = &Store{
			db:           db,
			logger:       logger,
			prefetchSize: params.PrefetchSize,
			path:         params.Path,
		}
		connectionMap[params.Path] = connection
	}
	connection.refCount++
	return connection, nil
}

//nolint:gochecknoinits
func init() {
	kv.Register(DriverName, &Driver{})
}

// BadgerLogger adapts our logger to badger's, trace level only.
type BadgerLogger struct {
	logging.Logger
}

func (l *BadgerLogger) Errorf(format string, args ...interface{}) {
	l.Tracef(format, args...)
}

func (l *BadgerLogger) Warningf(format string, args ...interface{}) {
	l.Tracef(format, args...)
}

func (l *BadgerLogger) Infof(format string, args ...interface{}) {
	l.Tracef(format, args...)
}

func (l *BadgerLogger) Debugf(format string, args ...interface{}) {
	l.Tracef(format, args...)
}
